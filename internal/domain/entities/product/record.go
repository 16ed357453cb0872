// Package product provides domain entities for landing page records
package product

import "fmt"

// Layout controls the hero section arrangement and text alignment
type Layout string

const (
	LayoutCentered Layout = "centered"
	LayoutSplit    Layout = "split"
	LayoutZigzag   Layout = "zigzag"
)

// Layouts lists every supported layout in editor order
var Layouts = []Layout{LayoutCentered, LayoutSplit, LayoutZigzag}

// ParseLayout validates a layout name
func ParseLayout(value string) (Layout, error) {
	for _, layout := range Layouts {
		if string(layout) == value {
			return layout, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLayout, value)
}

// ExportFormat selects which artifact an export produces
type ExportFormat string

const (
	FormatHTML  ExportFormat = "html"
	FormatReact ExportFormat = "react"
)

// ParseExportFormat validates an export format name
func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(value) {
	case FormatHTML, FormatReact:
		return ExportFormat(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, value)
}

// Testimonial is a single customer quote
type Testimonial struct {
	Author  string `json:"author" yaml:"author"`
	Content string `json:"content" yaml:"content"`
}

// Record is the structured description of one product landing page.
// Once handed to the generator it is treated as an immutable snapshot.
type Record struct {
	Name           string        `json:"name" yaml:"name"`
	Description    string        `json:"description" yaml:"description"`
	Price          string        `json:"price" yaml:"price"`
	Images         []string      `json:"images" yaml:"images"`
	Category       string        `json:"category" yaml:"category"`
	Features       []string      `json:"features" yaml:"features"`
	CallToAction   string        `json:"callToAction" yaml:"callToAction"`
	Testimonials   []Testimonial `json:"testimonials" yaml:"testimonials"`
	PrimaryColor   string        `json:"primaryColor" yaml:"primaryColor"`
	SecondaryColor string        `json:"secondaryColor" yaml:"secondaryColor"`
	FontFamily     string        `json:"fontFamily" yaml:"fontFamily"`
	Layout         Layout        `json:"layout" yaml:"layout"`
}

// NewRecord returns the record a fresh editing session starts from
func NewRecord() Record {
	return Record{
		Images:         []string{},
		Features:       []string{""},
		CallToAction:   "Buy Now",
		Testimonials:   []Testimonial{{}},
		PrimaryColor:   "#000000",
		SecondaryColor: "#ffffff",
		FontFamily:     "Inter",
		Layout:         LayoutCentered,
	}
}

// Clone returns a deep copy so callers can mutate lists freely
func (r Record) Clone() Record {
	out := r
	out.Images = append([]string(nil), r.Images...)
	out.Features = append([]string(nil), r.Features...)
	out.Testimonials = append([]Testimonial(nil), r.Testimonials...)
	return out
}

// Normalize restores the editing invariants: at least one feature and one
// testimonial, a non-nil image list, and a known layout.
func (r Record) Normalize() Record {
	out := r.Clone()
	if out.Images == nil {
		out.Images = []string{}
	}
	if len(out.Features) == 0 {
		out.Features = []string{""}
	}
	if len(out.Testimonials) == 0 {
		out.Testimonials = []Testimonial{{}}
	}
	if _, err := ParseLayout(string(out.Layout)); err != nil {
		out.Layout = LayoutCentered
	}
	return out
}
