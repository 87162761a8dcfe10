package money

import (
	"math"
	"testing"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{5, "5.00"},
		{360, "360.00"},
		{1050, "1,050.00"},
		{1050.5, "1,050.50"},
		{999999.999, "1,000,000.00"},
		{1234567.89, "1,234,567.89"},
		{-1050.5, "-1,050.50"},
	}
	for _, c := range cases {
		if got := Format(c.in); got != c.want {
			t.Fatalf("Format(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatNonFinite(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
		{math.NaN(), "NaN"},
	}
	for _, c := range cases {
		if got := Format(c.in); got != c.want {
			t.Fatalf("Format(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatQuantity(t *testing.T) {
	if got := FormatQuantity(3); got != "3" {
		t.Fatalf("FormatQuantity(3) = %q, want %q", got, "3")
	}
	if got := FormatQuantity(0.5); got != "0.5" {
		t.Fatalf("FormatQuantity(0.5) = %q, want %q", got, "0.5")
	}
}
