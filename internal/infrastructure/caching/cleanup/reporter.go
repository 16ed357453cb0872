// Package cleanup provides ascii reporter
package cleanup

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/stores"
)

const (
	cyan        = "\033[38;2;86;182;194m"  // One Dark Cyan: #56B6C2
	cyanBright  = "\033[38;2;97;228;240m"  // Brighter Cyan: #61E4F0
	dimCyan     = "\033[38;2;47;91;102m"   // Dim Cyan: #2F5B66
	grey        = "\033[38;2;110;118;129m" // Brighter Grey: #6E7681
	dimGrey     = "\033[38;2;75;82;99m"    // Darker Grey: #4B5263
	success     = "\033[38;2;62;130;144m"  // Dim Cyan: #3E8290
	white       = "\033[38;2;171;178;191m" // One Dark Foreground: #ABB2BF
	whiteBright = "\033[38;2;220;225;230m" // Brighter White
	reset       = "\033[0m"
	bold        = "\033[1m"
)

type Reporter struct {
	sessions *stores.SessionsStore
	out      io.Writer
}

func NewReporter(sessions *stores.SessionsStore) *Reporter {
	return &Reporter{sessions: sessions, out: os.Stdout}
}

func (r *Reporter) LogStage(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Fprintf(r.out, "%s%s✦ %s%s%s\n", success, bold, grey, formattedMsg, reset)
}

func (r *Reporter) LogSuccess(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Fprintf(r.out, "%s%s✦ %s%s%s\n", success, bold, white, formattedMsg, reset)
}

func (r *Reporter) LogInfo(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Fprintf(r.out, "%s▶ %s%s%s\n", dimGrey, grey, formattedMsg, reset)
}

// SessionReport renders one line per live session with its idle time and
// preview revision
func (r *Reporter) SessionReport() string {
	var report strings.Builder
	timestamp := time.Now().UTC().Format("2006-01-02 15:04:05 MST")
	ids := r.sessions.IDs()

	report.WriteString(fmt.Sprintf("%s%s▓ %s | Sessions: %s%d%s\n", bold, dimCyan, timestamp, whiteBright, len(ids), reset))
	for _, id := range ids {
		s, err := r.sessions.Peek(id)
		if err != nil {
			continue
		}
		snap := s.Snapshot()
		name := snap.Draft.Name
		if name == "" {
			name = "--"
		}
		report.WriteString(fmt.Sprintf("%s✦ %s%s %sidle:%s%v %srevision:%s%d %sname:%s%s%s\n",
			cyanBright, grey, id,
			dimCyan, cyan, time.Since(snap.LastActivity).Round(time.Second),
			dimCyan, cyan, snap.Revision,
			dimCyan, white, name, reset))
	}
	return report.String()
}

func (r *Reporter) PrintSessionReport() {
	fmt.Fprint(r.out, r.SessionReport())
}
