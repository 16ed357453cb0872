package templates

var fontStylesheets = map[string]string{
	"Inter":            "https://fonts.googleapis.com/css2?family=Inter:wght@300;400;500;600;700&display=swap",
	"Playfair Display": "https://fonts.googleapis.com/css2?family=Playfair+Display:wght@400;500;700&display=swap",
	"Roboto":           "https://fonts.googleapis.com/css2?family=Roboto:wght@300;400;500;700&display=swap",
	"Montserrat":       "https://fonts.googleapis.com/css2?family=Montserrat:wght@300;400;500;600;700&display=swap",
	"Poppins":          "https://fonts.googleapis.com/css2?family=Poppins:wght@300;400;500;600;700&display=swap",
}

// fontLink returns the stylesheet link for a known font, or "" otherwise
func fontLink(fontFamily string) string {
	href, ok := fontStylesheets[fontFamily]
	if !ok {
		return ""
	}
	return `<link rel="stylesheet" href="` + href + `">`
}
