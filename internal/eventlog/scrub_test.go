package eventlog

import (
	"context"
	"testing"

	"github.com/proger/faeton/pkg/stamp"
)

func TestScrubPNGRemovesMatchingOnly(t *testing.T) {
	l := OpenLog(newTestDB(t), "g1", stamp.NewGenerator())
	ctx := context.Background()

	if _, err := l.Append(ctx, Event{Type: TypePNG, Filename: "a.png", Node: "aaaaaaaaaaaa"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := l.Append(ctx, Event{Type: TypePNG, Filename: "b.png", Node: "bbbbbbbbbbbb"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := l.Append(ctx, textEvent("keep me")); err != nil {
		t.Fatalf("append: %v", err)
	}

	removed, names, err := l.ScrubPNG(ctx, func(ev Event) bool { return ev.Node == "aaaaaaaaaaaa" })
	if err != nil {
		t.Fatalf("scrub: %v", err)
	}
	if removed != 1 {
		t.Fatalf("want 1 removed, got %d", removed)
	}
	if len(names) != 1 || names[0] != "a.png" {
		t.Fatalf("want referenced filename a.png, got %v", names)
	}

	events, _ := l.ListAfter(0)
	if len(events) != 2 {
		t.Fatalf("want 2 surviving events, got %d", len(events))
	}
	for _, ev := range events {
		if ev.Type == TypePNG && ev.Node == "aaaaaaaaaaaa" {
			t.Fatalf("scrubbed event survived: %+v", ev)
		}
	}
}
