package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownField is returned by Set for names outside the enabled snapshot.
	ErrUnknownField = errors.New("unknown form field")
	// ErrInvalidState is returned when an operation does not fit the session state.
	ErrInvalidState = errors.New("invalid form session state")
)

// ValidationError carries the per-field messages that blocked a submit.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Resource names a configuration read performed by Load.
type Resource string

const (
	ResourceFields   Resource = "fields"
	ResourceTemplate Resource = "template"
	ResourcePhone    Resource = "phone"
)

// ConfigLoadError records a failed read during Load. The session continues
// with the built-in default for that resource.
type ConfigLoadError struct {
	Resource Resource
	Err      error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Resource, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }
