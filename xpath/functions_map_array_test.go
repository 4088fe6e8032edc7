package xpath

import "testing"

func TestMapFunctions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{`map:size(map { "a": 1, "b": 2 })`, "2"},
		{`map:contains(map { "a": 1 }, "a")`, "true"},
		{`map:get(map:put(map { "a": 1 }, "b", 2), "b")`, "2"},
		{`map:size(map:remove(map { "a": 1, "b": 2 }, "a"))`, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := evalScalar(t, tt.expr); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestArrayFunctions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"array:size([1, 2, 3])", "3"},
		{"array:get([1, 2, 3], 2)", "2"},
		{"array:size(array:append([1, 2], 3))", "3"},
		{"count(array:flatten([[1, 2], [3]]))", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := evalScalar(t, tt.expr); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}
