package xpath

import (
	"context"
	"strings"
	"testing"
)

const testLibraryXML = `<library>
	<book id="1" available="true"><title>The Little Prince</title><price>9.99</price></book>
	<book id="2" available="false"><title>Dune</title><price>12.50</price></book>
	<book id="3" available="true"><title>Foundation</title><price>8.25</price></book>
</library>`

func mustDoc(t *testing.T) *Node {
	t.Helper()
	doc, err := LoadXML(strings.NewReader(testLibraryXML))
	if err != nil {
		t.Fatalf("LoadXML: %v", err)
	}
	return doc
}

func evalStrings(t *testing.T, expr string) []string {
	t.Helper()
	sc := NewStaticContext(Version31)
	dc := NewDynamicContext(sc, WithContextItem(mustDoc(t)))
	seq, err := Evaluate(context.Background(), expr, dc)
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", expr, err)
	}
	out := make([]string, len(seq))
	for i, it := range seq {
		out[i] = it.StringValue()
	}
	return out
}

// evalSequenceErr evaluates expr and returns the raw error, for tests
// asserting a specific failure rather than a result.
func evalSequenceErr(t *testing.T, expr string) (Sequence, error) {
	t.Helper()
	sc := NewStaticContext(Version31)
	dc := NewDynamicContext(sc, WithContextItem(mustDoc(t)))
	return Evaluate(context.Background(), expr, dc)
}

func TestEvaluatePaths(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"/library/book/title", []string{"The Little Prince", "Dune", "Foundation"}},
		{"//book/@id", []string{"1", "2", "3"}},
		{"count(/library/book)", []string{"3"}},
		{`/library/book[@available="true"]/title`, []string{"The Little Prince", "Foundation"}},
		{"/library/book[price > 9]/title", []string{"The Little Prince", "Dune"}},
		{"/library/book[1]/title", []string{"The Little Prince"}},
		{"/library/book[last()]/title", []string{"Foundation"}},
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

func TestEvaluateFlwor(t *testing.T) {
	got := evalStrings(t, "for $b in /library/book order by $b/price return $b/title")
	want := []string{"Dune", "Foundation", "The Little Prince"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEvaluateHigherOrder(t *testing.T) {
	got := evalStrings(t, "fn:fold-left(/library/book/price, 0, function($acc, $p) { $acc + $p })")
	if len(got) != 1 || got[0] != "30.740000000000002" {
		t.Fatalf("fold-left sum = %v, want [30.740000000000002]", got)
	}
}

func TestEvaluateMapArray(t *testing.T) {
	got := evalStrings(t, `map:get(map { "a": 1, "b": 2 }, "b")`)
	if len(got) != 1 || got[0] != "2" {
		t.Fatalf("map:get = %v, want [2]", got)
	}
	got = evalStrings(t, `array:size([1, 2, 3, 4])`)
	if len(got) != 1 || got[0] != "4" {
		t.Fatalf("array:size = %v, want [4]", got)
	}
}

func TestEvaluateErrorOnUnboundVariable(t *testing.T) {
	sc := NewStaticContext(Version31)
	dc := NewDynamicContext(sc, WithContextItem(mustDoc(t)))
	_, err := Evaluate(context.Background(), "$missing", dc)
	if err == nil {
		t.Fatal("expected an error for an unbound variable")
	}
}

func TestMustParsePanicsOnSyntaxError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustParse to panic on invalid syntax")
		}
	}()
	MustParse("///", NewStaticContext(Version31))
}
