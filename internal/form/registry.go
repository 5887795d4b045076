package form

// Category groups question kinds in the editor's palette.
type Category string

const (
	CategoryInput  Category = "input"
	CategoryChoice Category = "choice"
	CategoryRating Category = "rating"
)

// Descriptor is the static metadata for one question kind: how the editor
// labels and colors it, and which palette group it belongs to.
type Descriptor struct {
	Kind     Kind     `json:"kind"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
	Icon     string   `json:"icon"`
	Color    string   `json:"color"`
}

// registry order is the palette order.
var registry = []Descriptor{
	{Kind: KindText, Label: "Short answer", Category: CategoryInput, Icon: "text", Color: "blue"},
	{Kind: KindParagraph, Label: "Paragraph", Category: CategoryInput, Icon: "paragraph", Color: "blue"},
	{Kind: KindEmail, Label: "Email", Category: CategoryInput, Icon: "mail", Color: "teal"},
	{Kind: KindMultipleChoice, Label: "Multiple choice", Category: CategoryChoice, Icon: "radio", Color: "purple"},
	{Kind: KindCheckbox, Label: "Checkboxes", Category: CategoryChoice, Icon: "checkbox", Color: "purple"},
	{Kind: KindDropdown, Label: "Dropdown", Category: CategoryChoice, Icon: "chevron-down", Color: "purple"},
	{Kind: KindRating, Label: "Rating", Category: CategoryRating, Icon: "star", Color: "amber"},
}

// Describe returns the descriptor for a kind, or nil for an unknown kind.
// Callers render a generic fallback on nil; an unknown kind is never fatal.
func Describe(kind Kind) *Descriptor {
	for i := range registry {
		if registry[i].Kind == kind {
			d := registry[i]
			return &d
		}
	}
	return nil
}

// ListByCategory returns the descriptors of one palette group in stable order.
func ListByCategory(cat Category) []Descriptor {
	var out []Descriptor
	for _, d := range registry {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

// Palette returns every descriptor in palette order.
func Palette() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}

// Kinds returns every known kind in palette order.
func Kinds() []Kind {
	out := make([]Kind, len(registry))
	for i, d := range registry {
		out[i] = d.Kind
	}
	return out
}
