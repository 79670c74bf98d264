package format

import (
	"testing"

	"dividas/internal/core"
)

func TestBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{100, "R$ 100,00"},
		{1234.56, "R$ 1.234,56"},
		{1234567.89, "R$ 1.234.567,89"},
		{99.999, "R$ 100,00"},
		{-42.5, "-R$ 42,50"},
	}
	for _, tt := range tests {
		if got := BRL(tt.in); got != tt.want {
			t.Errorf("BRL(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDate(t *testing.T) {
	if got := Date(core.NewDate(2025, 6, 15)); got != "15/06/2025" {
		t.Errorf("Date() = %q", got)
	}
	if got := Date(core.Date{}); got != "N/A" {
		t.Errorf("zero Date() = %q", got)
	}
}
