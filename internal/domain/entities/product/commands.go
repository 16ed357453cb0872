package product

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Op names a single logical edit of a record
type Op string

const (
	OpSetField          Op = "set_field"
	OpSetFeature        Op = "set_feature"
	OpAddFeature        Op = "add_feature"
	OpRemoveFeature     Op = "remove_feature"
	OpSetTestimonial    Op = "set_testimonial"
	OpAddTestimonial    Op = "add_testimonial"
	OpRemoveTestimonial Op = "remove_testimonial"
	OpSetColor          Op = "set_color"
	OpSetLayout         Op = "set_layout"
	OpSetFont           Op = "set_font"
	OpAddImage          Op = "add_image"
	OpRemoveImage       Op = "remove_image"
	OpReplace           Op = "replace"
)

// Command is one edit request against a record. Which of the optional
// fields matter depends on Op.
type Command struct {
	Op     Op      `json:"op" validate:"required,oneof=set_field set_feature add_feature remove_feature set_testimonial add_testimonial remove_testimonial set_color set_layout set_font add_image remove_image replace"`
	Field  string  `json:"field,omitempty" validate:"omitempty,oneof=name description price category callToAction primaryColor secondaryColor author content"`
	Index  *int    `json:"index,omitempty" validate:"omitempty,min=0"`
	Value  string  `json:"value"`
	Layout string  `json:"layout,omitempty"`
	Record *Record `json:"record,omitempty"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks the command shape without touching any record
func (c Command) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	switch c.Op {
	case OpSetFeature, OpRemoveFeature, OpSetTestimonial, OpRemoveTestimonial, OpRemoveImage:
		if c.Index == nil {
			return fmt.Errorf("%w: %s requires index", ErrInvalidCommand, c.Op)
		}
	case OpReplace:
		if c.Record == nil {
			return fmt.Errorf("%w: replace requires record", ErrInvalidCommand)
		}
	case OpAddImage:
		if c.Value == "" {
			return fmt.Errorf("%w: add_image requires value", ErrInvalidCommand)
		}
	}
	return nil
}

// Apply returns the record that results from applying cmd to r.
// r itself is never modified.
func Apply(r Record, cmd Command) (Record, error) {
	if err := cmd.Validate(); err != nil {
		return r, err
	}

	next := r.Clone()
	switch cmd.Op {
	case OpSetField:
		if err := setTextField(&next, cmd.Field, cmd.Value); err != nil {
			return r, err
		}

	case OpSetFeature:
		i := *cmd.Index
		if i >= len(next.Features) {
			return r, indexError("features", i, len(next.Features))
		}
		next.Features[i] = cmd.Value

	case OpAddFeature:
		next.Features = append(next.Features, "")

	case OpRemoveFeature:
		i := *cmd.Index
		if i >= len(next.Features) {
			return r, indexError("features", i, len(next.Features))
		}
		next.Features = append(next.Features[:i], next.Features[i+1:]...)
		if len(next.Features) == 0 {
			next.Features = []string{""}
		}

	case OpSetTestimonial:
		i := *cmd.Index
		if i >= len(next.Testimonials) {
			return r, indexError("testimonials", i, len(next.Testimonials))
		}
		switch cmd.Field {
		case "author":
			next.Testimonials[i].Author = cmd.Value
		case "content":
			next.Testimonials[i].Content = cmd.Value
		default:
			return r, fmt.Errorf("%w: testimonial field %q", ErrUnknownField, cmd.Field)
		}

	case OpAddTestimonial:
		next.Testimonials = append(next.Testimonials, Testimonial{})

	case OpRemoveTestimonial:
		i := *cmd.Index
		if i >= len(next.Testimonials) {
			return r, indexError("testimonials", i, len(next.Testimonials))
		}
		next.Testimonials = append(next.Testimonials[:i], next.Testimonials[i+1:]...)
		if len(next.Testimonials) == 0 {
			next.Testimonials = []Testimonial{{}}
		}

	case OpSetColor:
		switch cmd.Field {
		case "primaryColor":
			next.PrimaryColor = cmd.Value
		case "secondaryColor":
			next.SecondaryColor = cmd.Value
		default:
			return r, fmt.Errorf("%w: color field %q", ErrUnknownField, cmd.Field)
		}

	case OpSetLayout:
		layoutName := cmd.Layout
		if layoutName == "" {
			layoutName = cmd.Value
		}
		layout, err := ParseLayout(layoutName)
		if err != nil {
			return r, err
		}
		next.Layout = layout

	case OpSetFont:
		next.FontFamily = cmd.Value

	case OpAddImage:
		next.Images = append(next.Images, cmd.Value)

	case OpRemoveImage:
		i := *cmd.Index
		if i >= len(next.Images) {
			return r, indexError("images", i, len(next.Images))
		}
		next.Images = append(next.Images[:i], next.Images[i+1:]...)

	case OpReplace:
		next = cmd.Record.Normalize()

	default:
		return r, fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}

	return next, nil
}

func setTextField(r *Record, field, value string) error {
	switch field {
	case "name":
		r.Name = value
	case "description":
		r.Description = value
	case "price":
		r.Price = value
	case "category":
		r.Category = value
	case "callToAction":
		r.CallToAction = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func indexError(list string, index, length int) error {
	return fmt.Errorf("%w: %s[%d] (length %d)", ErrIndexOutOfRange, list, index, length)
}
