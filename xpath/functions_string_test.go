package xpath

import "testing"

func evalScalar(t *testing.T, expr string) string {
	t.Helper()
	got := evalStrings(t, expr)
	if len(got) != 1 {
		t.Fatalf("Evaluate(%q) returned %v, want exactly one item", expr, got)
	}
	return got[0]
}

func TestStringFunctions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{`concat("a", "b", "c")`, "abc"},
		{`contains("hello", "ell")`, "true"},
		{`starts-with("hello", "he")`, "true"},
		{`ends-with("hello", "lo")`, "true"},
		{`substring-before("2024-01-02", "-")`, "2024"},
		{`substring-after("2024-01-02", "-")`, "01-02"},
		{`normalize-space("  a   b  ")`, "a b"},
		{`string-length("hello")`, "5"},
		{`upper-case("hello")`, "HELLO"},
		{`lower-case("HELLO")`, "hello"},
		{`substring("motorcar", 4)`, "orcar"},
		{`substring("metadata", 4, 3)`, "ada"},
		{`translate("bar", "abc", "ABC")`, "BAr"},
		{`matches("banana", "^(ba)+na$")`, "false"},
		{`replace("abracadabra", "bra", "*")`, "a*cada*"},
		{`string-join(("a", "b", "c"), "-")`, "a-b-c"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := evalScalar(t, tt.expr); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := evalStrings(t, `tokenize("a, b,  c", ",\s*")`)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: got %q want %q", i, got[i], want[i])
		}
	}
}
