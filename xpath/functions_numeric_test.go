package xpath

import "testing"

func TestNumericFunctions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"ceiling(1.2)", "2"},
		{"floor(1.8)", "1"},
		{"round(2.5)", "3"},
		{"round(-2.5)", "-3"},
		{"abs(-5)", "5"},
		{"round-half-to-even(2.5)", "2"},
		{"math:pi() > 3.14", "true"},
		{"math:sqrt(9)", "3"},
		{"sum((1, 2, 3))", "6"},
		{"avg((2, 4, 6))", "4"},
		{"min((3, 1, 2))", "1"},
		{"max((3, 1, 2))", "3"},
		{"sum((), 0)", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := evalScalar(t, tt.expr); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}
