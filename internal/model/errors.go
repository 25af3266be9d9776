package model

import (
	"fmt"
	"sort"
	"strings"
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError reports every invalid field of an input at once so the
// caller can surface per-field messages instead of fixing one problem per
// attempt.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "model: invalid input"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "model: invalid input: " + strings.Join(parts, "; ")
}

// Field returns the message recorded for a field, or "" if the field passed.
func (e *ValidationError) Field(name string) string {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message
		}
	}
	return ""
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// orNil collapses an empty accumulator into a nil error and keeps field
// order deterministic otherwise.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	sort.SliceStable(e.Fields, func(i, j int) bool { return e.Fields[i].Field < e.Fields[j].Field })
	return e
}
