package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrStorage wraps any failure to insert a contact message
	ErrStorage = errors.New("contact: storage failure")
	// ErrMailTransport wraps SMTP connectivity, auth and relay failures
	ErrMailTransport = errors.New("contact: mail transport failure")
	// ErrMailNotConfigured means SMTP credentials or the recipient are missing
	ErrMailNotConfigured = errors.New("contact: mail transport not configured")
)

// ValidationError holds one message per rejected field, keyed by JSON field name
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := e.FieldNames()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldNames returns the rejected field names in stable order
func (e *ValidationError) FieldNames() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
