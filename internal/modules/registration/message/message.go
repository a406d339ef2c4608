// Package message turns a free-text template and submitted values into the
// outbound WhatsApp registration message.
package message

import (
	"strings"

	"github.com/zivana-montessori/core/internal/modules/registration/fields"
)

const (
	// Header opens both the default and the generated template.
	Header = "*PENDAFTARAN BARU - Zivana Montessori School*"
	// ClosingLine ends every registration message.
	ClosingLine = "Terima kasih telah mendaftar di Zivana Montessori School!"

	// missingRequired stands in for a required field left empty.
	missingRequired = "-"
)

// Variant selects the finishing applied by Render.
type Variant int

const (
	// VariantPreview returns the substituted text untouched.
	VariantPreview Variant = iota
	// VariantRegistration appends ClosingLine and trims surrounding whitespace.
	VariantRegistration
)

// DefaultTemplate is used when no template has been saved. It references no
// field, so every filled field is appended as a labelled line.
func DefaultTemplate() string {
	return Header + "\n\n"
}

// Render substitutes values into template for every enabled field in defs.
//
// Tokens are looked up in the original template only and replaced in a single
// pass, so a value that itself looks like a token is never expanded. Enabled
// fields whose token is absent get a "*label:* value" line appended when they
// have a value. Tokens of disabled or unknown fields stay as literal text.
// Render never fails: a blank template falls back to DefaultTemplate.
func Render(template string, defs []fields.Definition, values map[string]string, variant Variant) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultTemplate()
	}

	var (
		pairs    []string
		appended []string
	)
	for _, def := range defs {
		if !def.Enabled {
			continue
		}
		value := strings.TrimSpace(values[def.Name])
		if strings.Contains(template, def.Token()) {
			pairs = append(pairs, def.Token(), substitute(def, value))
			continue
		}
		if value != "" {
			appended = append(appended, "*"+def.Label+":* "+value)
		}
	}

	result := template
	if len(pairs) > 0 {
		result = strings.NewReplacer(pairs...).Replace(template)
	}
	for _, line := range appended {
		if result != "" && !strings.HasSuffix(result, "\n") {
			result += "\n"
		}
		result += line
	}

	if variant == VariantRegistration {
		if !strings.Contains(result, ClosingLine) {
			result += "\n\n" + ClosingLine
		}
		result = strings.TrimSpace(result)
	}
	return result
}

// substitute is the text a token is replaced with. Empty required fields
// show a dash so the reader can tell the field exists; empty optional
// fields vanish.
func substitute(def fields.Definition, value string) string {
	if value == "" && def.Required {
		return missingRequired
	}
	return value
}

// Generate builds a template listing every enabled field as "*label:* {name}".
func Generate(defs []fields.Definition) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n\n")
	for _, def := range defs {
		if !def.Enabled {
			continue
		}
		b.WriteString("*" + def.Label + ":* " + def.Token() + "\n")
	}
	b.WriteString("\n")
	b.WriteString(ClosingLine)
	return b.String()
}
