package types

import (
	"encoding/json"
	"errors"
	"testing"
)

func validPatient() Patient {
	return Patient{
		ID:     "P001",
		Name:   "Ananya Verma",
		City:   "Guwahati",
		Age:    28,
		Gender: GenderFemale,
		Height: 165,
		Weight: 90,
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is(err, ErrValidation)")
	}
	out := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestPatient_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Patient)
		field  string
	}{
		{"valid", func(p *Patient) {}, ""},
		{"age lower bound", func(p *Patient) { p.Age = 1 }, ""},
		{"age upper bound", func(p *Patient) { p.Age = 120 }, ""},
		{"age zero", func(p *Patient) { p.Age = 0 }, "age"},
		{"age too high", func(p *Patient) { p.Age = 121 }, "age"},
		{"height zero", func(p *Patient) { p.Height = 0 }, "height"},
		{"weight negative", func(p *Patient) { p.Weight = -2 }, "weight"},
		{"gender outside set", func(p *Patient) { p.Gender = "others" }, "gender"},
		{"gender missing", func(p *Patient) { p.Gender = "" }, "gender"},
		{"name missing", func(p *Patient) { p.Name = "" }, "name"},
		{"city missing", func(p *Patient) { p.City = "" }, "city"},
		{"id missing", func(p *Patient) { p.ID = "" }, "id"},
		{"height too small for a finite bmi", func(p *Patient) { p.Height = 1e-160 }, "height"},
		{"weight too large for a finite bmi", func(p *Patient) { p.Height = 1; p.Weight = 1e308 }, "height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPatient()
			tt.mutate(&p)
			err := p.Validate()

			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			fields := fieldsOf(t, err)
			if len(fields) != 1 || fields[0] != tt.field {
				t.Fatalf("failing fields=%v want [%s]", fields, tt.field)
			}
		})
	}
}

func TestPatient_ValidateReportsEveryField(t *testing.T) {
	err := Patient{ID: "P009"}.Validate()
	fields := fieldsOf(t, err)
	if len(fields) != 6 {
		t.Fatalf("expected 6 failing fields, got %v (%v)", fields, err)
	}
}

func TestOptional_UnmarshalTriState(t *testing.T) {
	var u PatientUpdate
	body := `{"weight": 72.5, "city": null, "age": 0}`
	if err := json.Unmarshal([]byte(body), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !u.Weight.Set || u.Weight.Null || u.Weight.Value != 72.5 {
		t.Fatalf("weight=%+v", u.Weight)
	}
	if !u.City.Set || !u.City.Null {
		t.Fatalf("city should be present-null, got %+v", u.City)
	}
	if !u.Age.Set || u.Age.Null || u.Age.Value != 0 {
		t.Fatalf("age should be present with zero, got %+v", u.Age)
	}
	if u.Name.Set || u.Gender.Set || u.Height.Set || u.ID.Set {
		t.Fatalf("absent fields must stay unset: %+v", u)
	}
}

func TestOptional_UnmarshalWrongType(t *testing.T) {
	var u PatientUpdate
	if err := json.Unmarshal([]byte(`{"age":"old"}`), &u); err == nil {
		t.Fatalf("expected type error")
	}
}

func TestPatientUpdate_ApplyTo(t *testing.T) {
	orig := validPatient()

	got, err := PatientUpdate{Weight: Some(60.0)}.ApplyTo(orig)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := orig
	want.Weight = 60
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
	if orig.Weight != 90 {
		t.Fatalf("ApplyTo must not modify its argument")
	}
}

func TestPatientUpdate_ApplyToRevalidates(t *testing.T) {
	_, err := PatientUpdate{Age: Some(200)}.ApplyTo(validPatient())
	if fields := fieldsOf(t, err); len(fields) != 1 || fields[0] != "age" {
		t.Fatalf("fields=%v", fields)
	}

	// Explicit zero is applied, then rejected by validation.
	_, err = PatientUpdate{Height: Some(0.0)}.ApplyTo(validPatient())
	if fields := fieldsOf(t, err); len(fields) != 1 || fields[0] != "height" {
		t.Fatalf("fields=%v", fields)
	}
}

func TestPatientUpdate_NullCannotClear(t *testing.T) {
	_, err := PatientUpdate{City: Null[string](), Name: Some("x")}.ApplyTo(validPatient())
	if fields := fieldsOf(t, err); len(fields) != 1 || fields[0] != "city" {
		t.Fatalf("fields=%v", fields)
	}
}

func TestPatientUpdate_IDIsImmutable(t *testing.T) {
	p := validPatient()

	if _, err := (PatientUpdate{ID: Some(p.ID), Age: Some(30)}).ApplyTo(p); err != nil {
		t.Fatalf("matching id should be accepted: %v", err)
	}

	_, err := PatientUpdate{ID: Some("P999")}.ApplyTo(p)
	if fields := fieldsOf(t, err); len(fields) != 1 || fields[0] != "id" {
		t.Fatalf("fields=%v", fields)
	}
}

func TestPatientUpdate_IsEmpty(t *testing.T) {
	if !(PatientUpdate{}).IsEmpty() {
		t.Fatalf("zero update should be empty")
	}
	if !(PatientUpdate{ID: Some("P001")}).IsEmpty() {
		t.Fatalf("an id alone changes nothing")
	}
	if (PatientUpdate{Gender: Null[Gender]()}).IsEmpty() {
		t.Fatalf("explicit null is a supplied field")
	}
}
