package types

import (
	"bytes"
	"encoding/json"
)

// Optional is a field of a partial update. It distinguishes three states:
//
//	absent entirely     Set == false
//	present as null     Set == true,  Null == true
//	present with value  Set == true,  Null == false
//
// A plain pointer cannot tell the first two apart, and a zero value cannot
// tell "not supplied" from "set to 0".
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns an Optional that was supplied as an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only called by encoding/json when the key is present,
// which is what makes Set meaningful.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		o.Null, o.Value = true, zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(b, &o.Value)
}

// PatientUpdate is the body of a partial update. Only the fields that are
// present are applied; everything else keeps its stored value.
//
// ID may be echoed back by clients but must match the record being updated.
type PatientUpdate struct {
	ID     Optional[string]  `json:"id"`
	Name   Optional[string]  `json:"name"`
	City   Optional[string]  `json:"city"`
	Age    Optional[int]     `json:"age"`
	Gender Optional[Gender]  `json:"gender"`
	Height Optional[float64] `json:"height"`
	Weight Optional[float64] `json:"weight"`
}

// IsEmpty reports whether no mutable field was supplied.
func (u PatientUpdate) IsEmpty() bool {
	return !u.Name.Set && !u.City.Set && !u.Age.Set &&
		!u.Gender.Set && !u.Height.Set && !u.Weight.Set
}

// ApplyTo merges u into a copy of p and re-validates the result, so an
// update that breaks a constraint fails even if the stored value was valid.
// p itself is never modified.
func (u PatientUpdate) ApplyTo(p Patient) (Patient, error) {
	errs := &ValidationError{}

	if u.ID.Set && (u.ID.Null || u.ID.Value != p.ID) {
		errs.add("id", "is immutable")
	}
	apply(errs, "name", u.Name, &p.Name)
	apply(errs, "city", u.City, &p.City)
	apply(errs, "age", u.Age, &p.Age)
	apply(errs, "gender", u.Gender, &p.Gender)
	apply(errs, "height", u.Height, &p.Height)
	apply(errs, "weight", u.Weight, &p.Weight)

	if len(errs.Fields) > 0 {
		return Patient{}, errs
	}
	if err := p.Validate(); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func apply[T any](errs *ValidationError, field string, o Optional[T], dst *T) {
	if !o.Set {
		return
	}
	// Every field is mandatory, so an explicit null can never be applied.
	if o.Null {
		errs.add(field, "cannot be cleared")
		return
	}
	*dst = o.Value
}
