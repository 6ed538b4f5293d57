// Package validate checks request DTOs against their validate tags.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is shared; validator caches struct metadata per type.
var v = validator.New(validator.WithRequiredStructEnabled())

// Struct validates s and returns a readable summary of the failed fields, or
// nil.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Fields reports the names of the struct fields that failed validation, in
// order. It returns nil for a valid struct or a non-validation error.
func Fields(s any) []string {
	var ve validator.ValidationErrors
	if !errors.As(v.Struct(s), &ve) {
		return nil
	}
	out := make([]string, 0, len(ve))
	for _, fe := range ve {
		out = append(out, fe.Field())
	}
	return out
}
