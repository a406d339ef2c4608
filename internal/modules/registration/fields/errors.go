package fields

import "errors"

var (
	ErrNotFound     = errors.New("form field not found")
	ErrConflict     = errors.New("form field already exists")
	ErrInvalidInput = errors.New("invalid form field")
)
