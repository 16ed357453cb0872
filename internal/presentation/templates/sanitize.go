package templates

import "strings"

var textEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// sanitize escapes angle brackets in user text. Quotes and ampersands pass
// through unchanged so exported pages keep the exact characters typed.
func sanitize(s string) string {
	if s == "" {
		return ""
	}
	return textEscaper.Replace(s)
}
