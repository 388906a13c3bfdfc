// Package services holds the page flows: enrollment, profile, certificate
// dialog, feedback and the admin panels. Flows receive the per-browser API
// client through small interfaces so they can be driven by fakes in tests.
package services

import (
	"sort"
	"strings"
)

// FormError carries per-field messages back to the form that caused them.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, " ")
}

func formError(field, message string) *FormError {
	return &FormError{Fields: map[string]string{field: message}}
}
