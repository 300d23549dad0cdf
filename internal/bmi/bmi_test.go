package bmi

import (
	"errors"
	"math"
	"testing"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name    string
		height  float64
		weight  float64
		bmi     float64
		verdict Verdict
	}{
		{"typical adult", 170, 70, 24.22, Normal},
		{"lighter adult", 160, 50, 19.53, Normal},
		{"underweight", 180, 50, 15.43, Underweight},
		{"lower boundary is normal", 200, 74, 18.5, Normal},
		{"just below lower boundary", 200, 73.8, 18.45, Underweight},
		{"overweight range collapses to normal", 200, 100, 25, Normal},
		{"upper boundary is obese", 200, 120, 30, Obese},
		{"obese", 180, 100, 30.86, Obese},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.height, tt.weight)
			if err != nil {
				t.Fatalf("Derive(%v, %v) err: %v", tt.height, tt.weight, err)
			}
			if got.BMI != tt.bmi {
				t.Fatalf("bmi=%v want %v", got.BMI, tt.bmi)
			}
			if got.Verdict != tt.verdict {
				t.Fatalf("verdict=%q want %q", got.Verdict, tt.verdict)
			}
		})
	}
}

func TestDerive_MatchesFormula(t *testing.T) {
	for h := 50.0; h <= 220; h += 7.5 {
		for w := 3.0; w <= 250; w += 11.25 {
			got, err := Derive(h, w)
			if err != nil {
				t.Fatalf("Derive(%v, %v) err: %v", h, w, err)
			}
			want := math.Round(w/((h/100)*(h/100))*100) / 100
			if got.BMI != want {
				t.Fatalf("Derive(%v, %v).BMI=%v want %v", h, w, got.BMI, want)
			}
			switch got.Verdict {
			case Underweight, Normal, Obese:
			default:
				t.Fatalf("Derive(%v, %v) verdict %q outside legacy set", h, w, got.Verdict)
			}
		}
	}
}

func TestDerive_InvalidMeasurement(t *testing.T) {
	cases := [][2]float64{
		{0, 70},
		{170, 0},
		{-170, 70},
		{170, -1},
		{math.NaN(), 70},
		{math.Inf(1), 70},
		// positive and finite, but the quotient overflows
		{1e-160, 70},
		{1, 1e308},
	}
	for _, c := range cases {
		if _, err := Derive(c[0], c[1]); !errors.Is(err, ErrInvalidMeasurement) {
			t.Fatalf("Derive(%v, %v) err=%v want ErrInvalidMeasurement", c[0], c[1], err)
		}
	}
}

func TestClassify_WHOBands(t *testing.T) {
	tests := []struct {
		bmi  float64
		want Verdict
	}{
		{18.49, Underweight},
		{18.5, Normal},
		{24.99, Normal},
		{25, Overweight},
		{29.99, Overweight},
		{30, Obese},
	}
	for _, tt := range tests {
		if got := BandsWHO.Classify(tt.bmi); got != tt.want {
			t.Fatalf("who Classify(%v)=%q want %q", tt.bmi, got, tt.want)
		}
	}

	if got := BandsLegacy.Classify(27); got != Normal {
		t.Fatalf("legacy Classify(27)=%q want %q", got, Normal)
	}
}

func TestParseBands(t *testing.T) {
	if b, err := ParseBands(""); err != nil || b != BandsLegacy {
		t.Fatalf("ParseBands(\"\")=%q, %v", b, err)
	}
	if b, err := ParseBands("who"); err != nil || b != BandsWHO {
		t.Fatalf("ParseBands(who)=%q, %v", b, err)
	}
	if _, err := ParseBands("asian"); err == nil {
		t.Fatalf("expected error for unknown bands")
	}
}
