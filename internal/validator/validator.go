// Package validator collects field errors for request bodies, forms and the
// service's own startup tables, keyed by the field or setting at fault.
package validator

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// paramNameRX matches names usable for a route wildcard.
var paramNameRX = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validator maps a field name to the first problem found with it.
type Validator struct {
	Errors map[string]string
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid reports whether no error was recorded.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records message for key unless key already failed.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check records message for key when ok is false.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Required records "must be provided" for key when a decoded field is nil.
func Required[T any](v *Validator, key string, field *T) {
	v.Check(field != nil, key, "must be provided")
}

// Err folds the recorded errors into one error, fields in name order, or
// returns nil when there are none.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	parts := make([]string, 0, len(v.Errors))
	for _, key := range slices.Sorted(maps.Keys(v.Errors)) {
		parts = append(parts, key+" "+v.Errors[key])
	}
	return fmt.Errorf("%s", strings.Join(parts, "; "))
}

// ParamName reports whether name can label a route wildcard.
func ParamName(name string) bool {
	return paramNameRX.MatchString(name)
}

// WriteMethod reports whether method carries a request body.
func WriteMethod(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// OneOf reports whether value is one of the allowed values.
func OneOf(value string, allowed ...string) bool {
	return slices.Contains(allowed, value)
}

// FirstDuplicate returns the first key seen twice, in order.
func FirstDuplicate(keys []string) (string, bool) {
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			return k, true
		}
		seen[k] = true
	}
	return "", false
}
