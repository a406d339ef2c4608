package fields

import (
	"regexp"
	"sort"
)

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Definition describes one input of the registration form. Name is the
// immutable key used both for submitted values and as the {name} token in
// the message template.
type Definition struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Kind        Kind   `json:"kind"`
	Required    bool   `json:"required"`
	Enabled     bool   `json:"enabled"`
	Order       int    `json:"order"`
}

// Token returns the placeholder token that refers to this field.
func (d Definition) Token() string {
	return "{" + d.Name + "}"
}

// ValidName reports whether name can be used as a field key.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Enabled filters defs to the enabled ones, keeping their order.
func Enabled(defs []Definition) []Definition {
	out := make([]Definition, 0, len(defs))
	for _, d := range defs {
		if d.Enabled {
			out = append(out, d)
		}
	}
	return out
}

// sortDefinitions orders by Order, keeping insertion order for ties.
// defs must already be in insertion order.
func sortDefinitions(defs []Definition) {
	sort.SliceStable(defs, func(i, j int) bool {
		return defs[i].Order < defs[j].Order
	})
}
