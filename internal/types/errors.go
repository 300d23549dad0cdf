package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation matches any *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// FieldError describes one violated constraint.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned when a record violates one or more field
// constraints.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("field %s %s", f.Field, f.Reason))
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// newValidationError converts validator output into a *ValidationError with
// one plain-English reason per failing field.
func newValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: a programming error, not bad input.
		return fmt.Errorf("validate: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		switch fe.ActualTag() {
		case "required":
			out.add(fe.Field(), "is required")
		case "min":
			out.add(fe.Field(), "must be at least "+fe.Param())
		case "max":
			out.add(fe.Field(), "must be at most "+fe.Param())
		case "gt":
			out.add(fe.Field(), "must be greater than "+fe.Param())
		case "oneof":
			out.add(fe.Field(), "must be one of: "+fe.Param())
		default:
			out.add(fe.Field(), "is invalid")
		}
	}
	return out
}
