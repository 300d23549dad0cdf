// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, the service and every storage backend can import types without
// depending on each other.
package types

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/patients-api/internal/bmi"
)

// Gender is one of a closed set of values.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Patient is the stored record: the identifier plus six base fields.
// It deliberately has no derived fields, so whatever a storage backend
// persists can never contain a stale BMI or verdict.
//
// Struct tags serve two purposes:
//
//  1. json:"..."     — the wire and file representation.
//  2. validate:"..." — rules checked by go-playground/validator in Validate.
type Patient struct {
	ID     string  `json:"id"     validate:"required"`
	Name   string  `json:"name"   validate:"required"`
	City   string  `json:"city"   validate:"required"`
	Age    int     `json:"age"    validate:"min=1,max=120"`
	Gender Gender  `json:"gender" validate:"oneof=male female other"`
	Height float64 `json:"height" validate:"gt=0"`
	Weight float64 `json:"weight" validate:"gt=0"`
}

// PatientView is a Patient as returned to callers, with the derived metrics
// computed from its current height and weight.
type PatientView struct {
	Patient
	BMI     float64     `json:"bmi"`
	Verdict bmi.Verdict `json:"verdict,omitempty"`
}

// validate is shared; validator caches struct metadata and is safe for
// concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names ("height") instead of Go field names ("Height").
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field constraint. The returned error is a
// *ValidationError listing each failing field.
//
// Height and weight must also yield a finite BMI; a record that cannot be
// derived from is never stored.
func (p Patient) Validate() error {
	if err := validate.Struct(p); err != nil {
		return newValidationError(err)
	}
	if _, err := bmi.Derive(p.Height, p.Weight); err != nil {
		return &ValidationError{Fields: []FieldError{
			{Field: "height", Reason: "and weight must give a finite bmi"},
		}}
	}
	return nil
}
