package fields

import "strings"

// Kind selects the input widget of a field and the validators that apply to it.
type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindTel      Kind = "tel"
	KindTextarea Kind = "textarea"
	KindNumber   Kind = "number"
)

// Widget describes how a renderer should draw an input of a given kind.
type Widget struct {
	Element   string `json:"element"`              // "input" or "textarea"
	InputType string `json:"input_type,omitempty"` // type attribute for <input>
	InputMode string `json:"input_mode,omitempty"`
}

var widgets = map[Kind]Widget{
	KindText:     {Element: "input", InputType: "text"},
	KindEmail:    {Element: "input", InputType: "email", InputMode: "email"},
	KindTel:      {Element: "input", InputType: "tel", InputMode: "tel"},
	KindTextarea: {Element: "textarea"},
	KindNumber:   {Element: "input", InputType: "number", InputMode: "numeric"},
}

// Kinds lists every supported kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindText, KindEmail, KindTel, KindTextarea, KindNumber}
}

// ParseKind normalises s and reports whether it names a known kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	_, ok := widgets[k]
	return k, ok
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := widgets[k]
	return ok
}

// Widget returns the input widget for k. Unknown kinds render as plain text.
func (k Kind) Widget() Widget {
	if w, ok := widgets[k]; ok {
		return w
	}
	return widgets[KindText]
}
