package templates

import (
	"fmt"
	"strings"

	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
)

const checkmarkPath = "M9 12L11 14L15 10M21 12C21 16.9706 16.9706 21 12 21C7.02944 21 3 16.9706 3 12C3 7.02944 7.02944 3 12 3C16.9706 3 21 7.02944 21 12Z"

var trustBadges = []string{"Secure Checkout", "Free Shipping", "30-Day Return"}

func heroContent(r product.Record) string {
	return fmt.Sprintf(`
      <div class="hero-content">
        <div class="badge">%s</div>
        <h1>%s</h1>
        <p>%s</p>
        <div class="price">%s</div>
        <button class="cta-button">%s</button>
      </div>`,
		sanitize(r.Category),
		sanitize(r.Name),
		sanitize(r.Description),
		sanitize(r.Price),
		sanitize(r.CallToAction),
	)
}

// heroImage renders the first image only; the rest of the list is unused
// by the document.
func heroImage(r product.Record) string {
	if len(r.Images) == 0 {
		return ""
	}
	return fmt.Sprintf(`
      <div class="hero-image">
        <img src="%s" alt="%s" />
      </div>`, r.Images[0], sanitize(r.Name))
}

// heroSection arranges content and image by layout. An unrecognized layout
// produces no hero at all.
func heroSection(r product.Record) string {
	var inner string
	switch r.Layout {
	case product.LayoutCentered, product.LayoutZigzag:
		inner = heroContent(r) + heroImage(r)
	case product.LayoutSplit:
		inner = heroImage(r) + heroContent(r)
	default:
		return ""
	}
	return "\n    <section class=\"hero\">" + inner + "\n    </section>"
}

func featuresSection(features []string) string {
	if len(features) == 0 {
		return ""
	}

	var items strings.Builder
	for i, feature := range features {
		fmt.Fprintf(&items, `
        <div class="feature">
          <div class="feature-icon">
            <svg width="24" height="24" viewBox="0 0 24 24" fill="none" xmlns="http://www.w3.org/2000/svg">
              <path d="%s" stroke="white" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"/>
            </svg>
          </div>
          <div class="feature-title">Feature %d</div>
          <p>%s</p>
        </div>`, checkmarkPath, i+1, sanitize(feature))
	}

	return `
    <section>
      <h2>Key Features</h2>
      <div class="features">` + items.String() + `
      </div>
    </section>`
}

// testimonialsSection is gated twice: the first entry's content decides
// whether the section is attempted, then each entry needs both content and
// author to get a card.
func testimonialsSection(testimonials []product.Testimonial) string {
	if len(testimonials) == 0 || testimonials[0].Content == "" {
		return ""
	}

	var items strings.Builder
	for _, t := range testimonials {
		if t.Content == "" || t.Author == "" {
			continue
		}
		fmt.Fprintf(&items, `
        <div class="testimonial">
          <div class="testimonial-content">"%s"</div>
          <div class="testimonial-author">— %s</div>
        </div>`, sanitize(t.Content), sanitize(t.Author))
	}
	if items.Len() == 0 {
		return ""
	}

	var badges strings.Builder
	for _, label := range trustBadges {
		fmt.Fprintf(&badges, `
        <div class="trust-badge">
          <svg width="20" height="20" viewBox="0 0 24 24" fill="none" xmlns="http://www.w3.org/2000/svg">
            <path d="%s" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"/>
          </svg>
          <span>%s</span>
        </div>`, checkmarkPath, label)
	}

	return `
    <section class="testimonials">
      <h2>What Our Customers Say</h2>
      <div class="testimonial-grid">` + items.String() + `
      </div>
      <div class="trust-badges">` + badges.String() + `
      </div>
    </section>`
}
