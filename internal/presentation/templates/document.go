// Package templates turns product records into standalone landing page documents
package templates

import (
	"strconv"
	"strings"
	"time"

	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
)

// Generator renders documents. Clock supplies the copyright year and
// defaults to the wall clock when nil.
type Generator struct {
	Clock func() time.Time
}

// NewGenerator creates a generator using the wall clock
func NewGenerator() *Generator {
	return &Generator{Clock: time.Now}
}

var defaultGenerator = NewGenerator()

// GenerateDocument renders a record with the wall clock
func GenerateDocument(r product.Record) string {
	return defaultGenerator.Generate(r)
}

func (g *Generator) year() int {
	if g == nil || g.Clock == nil {
		return time.Now().Year()
	}
	return g.Clock().Year()
}

// Generate maps a record to a complete HTML document. It never fails;
// missing values simply render as empty markup.
func (g *Generator) Generate(r product.Record) string {
	title := sanitize(r.Name)

	var b strings.Builder
	b.Grow(16 * 1024)

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n")
	b.WriteString("<head>\n")
	b.WriteString("  <meta charset=\"UTF-8\">\n")
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("  <title>" + title + " - Product Landing Page</title>\n")
	if link := fontLink(r.FontFamily); link != "" {
		b.WriteString("  " + link + "\n")
	}
	b.WriteString("  <style>" + stylesheet(r) + "</style>\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString(pageHeader)
	b.WriteString("\n  <main>")
	b.WriteString(heroSection(r))
	b.WriteString(featuresSection(r.Features))
	b.WriteString(testimonialsSection(r.Testimonials))
	b.WriteString("\n  </main>\n")
	b.WriteString(pageFooter(g.year()))
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")

	return b.String()
}

const pageHeader = `  <header>
    <nav>
      <div class="logo">Brand</div>
      <div class="nav-links">
        <a href="#">Home</a>
        <a href="#">Features</a>
        <a href="#">Testimonials</a>
        <a href="#">Contact</a>
      </div>
    </nav>
  </header>
`

func pageFooter(year int) string {
	return `
  <footer>
    <div class="footer-content">
      <div class="logo">Brand</div>
      <div class="footer-links">
        <a href="#">Privacy Policy</a>
        <a href="#">Terms of Service</a>
        <a href="#">Contact Us</a>
      </div>
      <div class="copyright">© ` + strconv.Itoa(year) + ` All Rights Reserved</div>
    </div>
  </footer>
`
}
