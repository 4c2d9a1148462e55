package scenename_test

import (
	"strings"
	"testing"

	"reel/internal/scenename"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"reflection of light", "ReflectionOfLight"},
		{"Derivatives", "Derivatives"},
		{"fourier  transforms!", "FourierTransforms"},
		{"e=mc^2 explained", "EMc2Explained"},
		{"3 body problem", "Animation3BodyProblem"},
		{"", "Animation"},
		{"   ", "Animation"},
		{"---", "Animation"},
	}
	for _, tc := range tests {
		if got := scenename.Derive(tc.input); got != tc.want {
			t.Fatalf("Derive(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestDeriveTruncates(t *testing.T) {
	got := scenename.Derive(strings.Repeat("very long topic ", 20))
	if len(got) > 64 {
		t.Fatalf("derived name length = %d, want <= 64", len(got))
	}
}

func TestFromPDF(t *testing.T) {
	if got := scenename.FromPDF("/manim/uploads/quantum mechanics.pdf"); got != "QuantumMechanics" {
		t.Fatalf("FromPDF = %q", got)
	}
}
