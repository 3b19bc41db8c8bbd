package stamp

import (
	"testing"
)

func TestParseCanonicalRoundTrip(t *testing.T) {
	s, err := Parse("1756500000.123456")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := s.String(); got != "1756500000.123456" {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestParsePadsShortFractions(t *testing.T) {
	a, err := Parse("1000.0")
	if err != nil {
		t.Fatalf("parse 1000.0: %v", err)
	}
	b, err := Parse("1000.000000")
	if err != nil {
		t.Fatalf("parse 1000.000000: %v", err)
	}
	if a != b {
		t.Fatalf("expected numeric equality: %d vs %d", a, b)
	}
	if a.String() != "1000.000000" {
		t.Fatalf("canonical form: %q", a.String())
	}
}

func TestParseTruncatesExcessPrecision(t *testing.T) {
	a, err := Parse("5.1234567")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a != Stamp(5123456) {
		t.Fatalf("want truncation to micros, got %d", a)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", ".", "1.", "abc", "1.2.3", "-5", "1e3", "12.3a"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestGeneratorMonotonic(t *testing.T) {
	fixed := int64(42)
	old := NowMicros
	NowMicros = func() int64 { return fixed }
	defer func() { NowMicros = old }()

	g := NewGenerator()
	prev := g.Next()
	for i := 0; i < 100; i++ {
		next := g.Next()
		if next <= prev {
			t.Fatalf("not strictly increasing: %d then %d", prev, next)
		}
		prev = next
	}
}

func TestGeneratorObserveRaisesFloor(t *testing.T) {
	fixed := int64(1000)
	old := NowMicros
	NowMicros = func() int64 { return fixed }
	defer func() { NowMicros = old }()

	g := NewGenerator()
	g.Observe(Stamp(5000))
	if got := g.Next(); got <= Stamp(5000) {
		t.Fatalf("expected stamp above observed floor, got %d", got)
	}
}
