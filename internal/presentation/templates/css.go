package templates

import (
	"strings"

	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
)

const baseRules = `
* {
  margin: 0;
  padding: 0;
  box-sizing: border-box;
}

body {
  font-family: var(--font-family);
  background-color: var(--background-color);
  color: var(--text-color);
  line-height: 1.5;
}

header {
  padding: 1.5rem;
  background-color: rgba(255, 255, 255, 0.8);
  backdrop-filter: blur(10px);
  position: sticky;
  top: 0;
  z-index: 1000;
  border-bottom: 1px solid rgba(0, 0, 0, 0.1);
}

nav {
  display: flex;
  justify-content: space-between;
  align-items: center;
  max-width: 1200px;
  margin: 0 auto;
}

.logo {
  font-weight: 600;
  font-size: 1.25rem;
  color: var(--primary-color);
}

.nav-links a {
  margin-left: 1.5rem;
  text-decoration: none;
  color: var(--text-color);
  font-size: 0.9rem;
  transition: color 0.2s;
}

.nav-links a:hover {
  color: var(--primary-color);
}

section {
  padding: 5rem 1.5rem;
  max-width: 1200px;
  margin: 0 auto;
}

h1 {
  font-size: 3rem;
  font-weight: 700;
  margin-bottom: 1.5rem;
  line-height: 1.2;
}

h2 {
  font-size: 2rem;
  font-weight: 600;
  margin-bottom: 1.5rem;
}

p {
  margin-bottom: 1.5rem;
  font-size: 1.1rem;
}
`

const componentRules = `
.hero-image img {
  width: 100%;
  height: auto;
  border-radius: 1rem;
  object-fit: cover;
  box-shadow: 0 20px 40px rgba(0, 0, 0, 0.1);
  transition: transform 0.3s ease-out;
}

.hero-image img:hover {
  transform: translateY(-5px);
}

.price {
  font-size: 2.5rem;
  font-weight: 700;
  color: var(--primary-color);
  margin: 1.5rem 0;
}

.badge {
  display: inline-block;
  background-color: rgba(0, 0, 0, 0.05);
  color: var(--text-color);
  padding: 0.5rem 1rem;
  border-radius: 2rem;
  font-size: 0.8rem;
  margin-bottom: 1rem;
  letter-spacing: 0.05em;
  text-transform: uppercase;
}

.cta-button {
  display: inline-block;
  background-color: var(--primary-color);
  color: white;
  padding: 1rem 2rem;
  border-radius: 2rem;
  font-weight: 600;
  text-decoration: none;
  transition: transform 0.3s, box-shadow 0.3s;
  border: none;
  cursor: pointer;
  font-size: 1rem;
}

.cta-button:hover {
  transform: translateY(-2px);
  box-shadow: 0 10px 20px rgba(0, 0, 0, 0.1);
}

.features {
  display: grid;
  grid-template-columns: repeat(auto-fit, minmax(300px, 1fr));
  gap: 2rem;
  padding: 5rem 1.5rem;
  background-color: var(--muted-color);
}

.feature {
  background: white;
  padding: 2rem;
  border-radius: 1rem;
  box-shadow: 0 5px 20px rgba(0, 0, 0, 0.05);
  transition: transform 0.3s;
}

.feature:hover {
  transform: translateY(-5px);
}

.feature-icon {
  width: 50px;
  height: 50px;
  background-color: var(--primary-color);
  border-radius: 50%;
  display: flex;
  align-items: center;
  justify-content: center;
  margin-bottom: 1.5rem;
}

.feature-title {
  font-size: 1.25rem;
  font-weight: 600;
  margin-bottom: 1rem;
}

.testimonials {
  text-align: center;
  padding: 5rem 1.5rem;
}

.testimonial-grid {
  display: grid;
  grid-template-columns: repeat(auto-fit, minmax(300px, 1fr));
  gap: 2rem;
  margin-top: 3rem;
}

.testimonial {
  background: white;
  padding: 2rem;
  border-radius: 1rem;
  box-shadow: 0 5px 20px rgba(0, 0, 0, 0.05);
  text-align: left;
}

.testimonial-content {
  font-style: italic;
  margin-bottom: 1.5rem;
}

.testimonial-author {
  font-weight: 600;
}

.trust-badges {
  display: flex;
  justify-content: center;
  gap: 2rem;
  flex-wrap: wrap;
  margin-top: 4rem;
}

.trust-badge {
  display: flex;
  align-items: center;
  gap: 0.5rem;
  color: #666;
  font-size: 0.9rem;
}

footer {
  background-color: var(--primary-color);
  color: white;
  padding: 3rem 1.5rem;
  text-align: center;
}

.footer-content {
  max-width: 1200px;
  margin: 0 auto;
}

.footer-links {
  display: flex;
  justify-content: center;
  gap: 2rem;
  margin: 2rem 0;
}

.footer-links a {
  color: white;
  text-decoration: none;
  font-size: 0.9rem;
  transition: opacity 0.2s;
}

.footer-links a:hover {
  opacity: 0.8;
}

.copyright {
  font-size: 0.85rem;
  opacity: 0.8;
}

@media (max-width: 768px) {
  .hero {
    flex-direction: column;
    text-align: center;
  }

  h1 {
    font-size: 2.5rem;
  }

  .nav-links {
    display: none;
  }
}
`

// heroRules holds the layout-dependent declarations. Only centered is
// distinguished; every other layout gets the row arrangement.
type heroRules struct {
	direction string
	justify   string
	textAlign string
	content   string
	image     string
}

func heroRulesFor(layout product.Layout) heroRules {
	if layout == product.LayoutCentered {
		return heroRules{
			direction: "column",
			justify:   "center",
			textAlign: "center",
			content:   "max-width: 700px; margin: 0 auto;",
			image:     "max-width: 500px; margin: 0 auto;",
		}
	}
	return heroRules{direction: "row", justify: "space-between", textAlign: "left"}
}

// stylesheet assembles the full CSS block for a record
func stylesheet(r product.Record) string {
	hero := heroRulesFor(r.Layout)

	var b strings.Builder
	b.WriteString("\n:root {\n")
	b.WriteString("  --primary-color: " + r.PrimaryColor + ";\n")
	b.WriteString("  --secondary-color: " + r.SecondaryColor + ";\n")
	b.WriteString("  --text-color: #333;\n")
	b.WriteString("  --background-color: #fff;\n")
	b.WriteString("  --muted-color: #f5f5f7;\n")
	b.WriteString("  --font-family: " + r.FontFamily + ", system-ui, sans-serif;\n")
	b.WriteString("}\n")
	b.WriteString(baseRules)

	b.WriteString("\n.hero {\n")
	b.WriteString("  display: flex;\n")
	b.WriteString("  flex-direction: " + hero.direction + ";\n")
	b.WriteString("  align-items: center;\n")
	b.WriteString("  justify-content: " + hero.justify + ";\n")
	b.WriteString("  text-align: " + hero.textAlign + ";\n")
	b.WriteString("  min-height: 80vh;\n")
	b.WriteString("  gap: 3rem;\n")
	b.WriteString("}\n")

	b.WriteString("\n.hero-content {\n  flex: 1;\n")
	if hero.content != "" {
		b.WriteString("  " + hero.content + "\n")
	}
	b.WriteString("}\n")

	b.WriteString("\n.hero-image {\n  flex: 1;\n")
	if hero.image != "" {
		b.WriteString("  " + hero.image + "\n")
	}
	b.WriteString("}\n")

	b.WriteString(componentRules)
	return b.String()
}
