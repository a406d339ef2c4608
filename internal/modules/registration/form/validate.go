package form

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zivana-montessori/core/internal/modules/registration/fields"
)

const (
	msgInvalidEmail  = "Email tidak valid"
	msgPhoneTooShort = "Nomor telepon minimal 10 digit"
	minPhoneLength   = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator checks one trimmed, non-empty value and returns a message when
// it is invalid.
type Validator interface {
	Validate(value string) (string, bool)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(value string) (string, bool)

func (f ValidatorFunc) Validate(value string) (string, bool) { return f(value) }

// Pattern rejects values that do not match re.
func Pattern(re *regexp.Regexp, msg string) Validator {
	return ValidatorFunc(func(value string) (string, bool) {
		if re.MatchString(value) {
			return "", true
		}
		return msg, false
	})
}

// MinLength rejects values shorter than n characters.
func MinLength(n int, msg string) Validator {
	return ValidatorFunc(func(value string) (string, bool) {
		if utf8.RuneCountInString(value) >= n {
			return "", true
		}
		return msg, false
	})
}

// kindValidators holds the checks each kind adds on top of "required".
var kindValidators = map[fields.Kind][]Validator{
	fields.KindEmail: {Pattern(emailPattern, msgInvalidEmail)},
	fields.KindTel:   {MinLength(minPhoneLength, msgPhoneTooShort)},
}

func requiredMessage(label string) string {
	return label + " harus diisi"
}

// ValidateField returns the first failure for value, or "" when it is valid.
func ValidateField(def fields.Definition, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		if def.Required {
			return requiredMessage(def.Label)
		}
		return ""
	}
	for _, validator := range kindValidators[def.Kind] {
		if msg, ok := validator.Validate(v); !ok {
			return msg
		}
	}
	return ""
}

// Validate checks values against every enabled field and returns the
// failures keyed by field name. An empty map means the values are valid.
func Validate(defs []fields.Definition, values map[string]string) map[string]string {
	errs := make(map[string]string)
	for _, def := range defs {
		if !def.Enabled {
			continue
		}
		if msg := ValidateField(def, values[def.Name]); msg != "" {
			errs[def.Name] = msg
		}
	}
	return errs
}
