package product

// Option is a selectable value with its display label
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Viewport is a named preview width
type Viewport struct {
	Name  string `json:"name"`
	Width string `json:"width"`
}

// Catalog holds the static choices an editor offers
type Catalog struct {
	Layouts      []Option   `json:"layouts"`
	Fonts        []Option   `json:"fonts"`
	Categories   []Option   `json:"categories"`
	PresetColors []string   `json:"presetColors"`
	Viewports    []Viewport `json:"viewports"`
}

var (
	layoutOptions = []Option{
		{Value: string(LayoutCentered), Label: "Centered"},
		{Value: string(LayoutSplit), Label: "Split"},
		{Value: string(LayoutZigzag), Label: "Zigzag"},
	}

	fontOptions = []Option{
		{Value: "Inter", Label: "Inter (Modern & Clean)"},
		{Value: "Playfair Display", Label: "Playfair Display (Elegant)"},
		{Value: "Roboto", Label: "Roboto (Classic)"},
		{Value: "Montserrat", Label: "Montserrat (Contemporary)"},
		{Value: "Poppins", Label: "Poppins (Friendly)"},
	}

	categoryOptions = []Option{
		{Value: "electronics", Label: "Electronics"},
		{Value: "clothing", Label: "Clothing"},
		{Value: "home", Label: "Home & Kitchen"},
		{Value: "beauty", Label: "Beauty & Personal Care"},
		{Value: "sports", Label: "Sports & Outdoors"},
		{Value: "books", Label: "Books & Media"},
		{Value: "food", Label: "Food & Beverages"},
		{Value: "other", Label: "Other"},
	}

	presetColors = []string{
		"#000000", "#ffffff", "#f8fafc", "#f1f5f9",
		"#e2e8f0", "#cbd5e1", "#94a3b8", "#64748b",
		"#334155", "#1e293b", "#0f172a", "#020617",
		"#ef4444", "#f59e0b", "#10b981", "#3b82f6",
		"#6366f1", "#8b5cf6", "#d946ef", "#ec4899",
	}

	viewports = []Viewport{
		{Name: "desktop", Width: "100%"},
		{Name: "tablet", Width: "768px"},
		{Name: "mobile", Width: "375px"},
	}
)

// DefaultCatalog returns a fresh copy of the editor choices
func DefaultCatalog() Catalog {
	return Catalog{
		Layouts:      append([]Option(nil), layoutOptions...),
		Fonts:        append([]Option(nil), fontOptions...),
		Categories:   append([]Option(nil), categoryOptions...),
		PresetColors: append([]string(nil), presetColors...),
		Viewports:    append([]Viewport(nil), viewports...),
	}
}

// ViewportWidth resolves a viewport name to its iframe width.
// Unknown names fall back to desktop.
func ViewportWidth(name string) string {
	for _, v := range viewports {
		if v.Name == name {
			return v.Width
		}
	}
	return viewports[0].Width
}
