package transalliance

// NoFallback disables the fallback anchor index of a layout
const NoFallback = -1

// Layout describes where fields sit relative to one anchor line.
// Offsets map a field name to a line offset from the anchor.
type Layout struct {
	Name     string
	Anchor   LinePredicate
	Fallback int
	Offsets  map[string]int
}

// FieldTable is an ordered list of layouts; the first layout whose anchor
// is found (or that has a fallback index) wins
type FieldTable []Layout

// Fields holds the values read by a FieldTable
type Fields struct {
	Layout string
	Anchor int
	values map[string]string
}

// Get returns the trimmed value of a field, or "" when it was not read
func (f Fields) Get(field string) string {
	return f.values[field]
}

// Found reports whether any layout matched
func (f Fields) Found() bool {
	return f.Layout != ""
}

// Read evaluates the table against lines. Offsets pointing outside the
// input yield empty values.
func (t FieldTable) Read(lines []string) Fields {
	for _, layout := range t {
		idx := -1
		if layout.Anchor != nil {
			idx = FindLine(lines, 0, layout.Anchor)
		}
		if idx < 0 {
			if layout.Fallback < 0 {
				continue
			}
			idx = layout.Fallback
		}

		values := make(map[string]string, len(layout.Offsets))
		for field, offset := range layout.Offsets {
			values[field] = lineAt(lines, idx+offset)
		}
		return Fields{Layout: layout.Name, Anchor: idx, values: values}
	}

	return Fields{Anchor: -1}
}
