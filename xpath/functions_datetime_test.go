package xpath

import (
	"context"
	"testing"
)

func TestDateTimeExtractorsFromCurrentDate(t *testing.T) {
	got := evalScalar(t, "year-from-date(current-date()) > 2000")
	if got != "true" {
		t.Errorf("year-from-date(current-date()) > 2000 = %q, want true", got)
	}
}

func TestDurationExtractors(t *testing.T) {
	sc := NewStaticContext(Version31)
	dc := NewDynamicContext(sc, WithContextItem(mustDoc(t)))
	dc = dc.WithVariable(ExpandedName{Local: "d"}, Singleton(NewDurationValue(Duration{Months: 14, Seconds: 90}, TypeDuration)))
	seq, err := Evaluate(context.Background(), "years-from-duration($d)", dc)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got, _ := seq.AsSingleton(); got.StringValue() != "1" {
		t.Errorf("years-from-duration = %q, want 1", got.StringValue())
	}
}
