package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the note id does not exist. It always takes
	// precedence over ErrForbidden.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller does not own the note.
	ErrForbidden = errors.New("not allowed")
	// ErrUnauthenticated is returned when a protected operation has no caller identity.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// FieldError describes one violated input constraint.
type FieldError struct {
	Field string `json:"path"`
	Value string `json:"value"`
	Msg   string `json:"msg"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "invalid fields: " + strings.Join(names, ", ")
}

// Has reports whether field is among the violations.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// StorageError wraps a backend failure. Its detail is for logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
