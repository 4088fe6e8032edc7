package xpath

import "testing"

func TestNodeAccessorFunctions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"local-name(/library/book[1])", "book"},
		{"name(/library/book[1])", "book"},
		{"/library/book[1]/title/data()", "The Little Prince"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := evalScalar(t, tt.expr); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestPositionAndLast(t *testing.T) {
	got := evalStrings(t, "/library/book[position() = last()]/title")
	if len(got) != 1 || got[0] != "Foundation" {
		t.Fatalf("position()=last() filter = %v, want [Foundation]", got)
	}
}

func TestDocAvailableWithoutLoader(t *testing.T) {
	got := evalScalar(t, `doc-available("file:///nonexistent.xml")`)
	if got != "false" {
		t.Errorf("doc-available with no loader = %q, want %q", got, "false")
	}
}

func TestDocRaisesWithoutLoader(t *testing.T) {
	if _, err := evalSequenceErr(t, `doc("file:///nonexistent.xml")`); err == nil {
		t.Fatal("expected FODC0002 when no DocLoader is configured")
	}
}
