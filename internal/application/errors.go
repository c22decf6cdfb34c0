package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when the requested studio does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrUpstreamUnavailable is returned when neither the backend nor a stored
	// snapshot can provide the requested sessions.
	ErrUpstreamUnavailable = errors.New("application: upstream unavailable")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a problem with field. The first message per field is kept.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	if _, seen := v.FieldErrors[field]; !seen {
		v.FieldErrors[field] = message
	}
}

// merge copies entries from field errors into the receiver, prefixing each
// field name with prefix.
func (v *ValidationError) merge(prefix string, fields map[string]string) {
	for field, msg := range fields {
		v.add(prefix+field, msg)
	}
}
