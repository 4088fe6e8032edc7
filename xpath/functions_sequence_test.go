package xpath

import "testing"

func TestSequenceFunctions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"count((1, 2, 3))", "3"},
		{"empty(())", "true"},
		{"exists((1))", "true"},
		{"head((1, 2, 3))", "1"},
		{"zero-or-one((5))", "5"},
		{"exactly-one((5))", "5"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := evalScalar(t, tt.expr); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestSequenceMultiValued(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"reverse((1, 2, 3))", []string{"3", "2", "1"}},
		{"tail((1, 2, 3))", []string{"2", "3"}},
		{"subsequence((1, 2, 3, 4, 5), 2, 3)", []string{"2", "3", "4"}},
		{"insert-before((1, 2, 3), 2, (9))", []string{"1", "9", "2", "3"}},
		{"remove((1, 2, 3), 2)", []string{"1", "3"}},
		{"distinct-values((1, 2, 2, 3, 1))", []string{"1", "2", "3"}},
		{"index-of((10, 20, 30, 20), 20)", []string{"2", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got := evalStrings(t, tt.expr)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("item %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSequenceCardinalityErrors(t *testing.T) {
	if _, err := evalSequenceErr(t, "exactly-one((1, 2))"); err == nil {
		t.Fatal("expected FORG0005 for exactly-one over a multi-item sequence")
	}
	if _, err := evalSequenceErr(t, "zero-or-one((1, 2))"); err == nil {
		t.Fatal("expected FORG0003 for zero-or-one over a multi-item sequence")
	}
}
