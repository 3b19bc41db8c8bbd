package eventlog

import (
	"context"
	"errors"
	"testing"

	pebblestore "github.com/proger/faeton/internal/storage/pebble"
	"github.com/proger/faeton/pkg/stamp"
)

func newTestDB(t *testing.T) *pebblestore.DB {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestLog(t *testing.T) *Log {
	t.Helper()
	return OpenLog(newTestDB(t), "g1", stamp.NewGenerator())
}

func textEvent(text string) Event {
	return Event{Type: TypeText, Text: text, Source: SourceUser}
}

func TestAppendAssignsDistinctAscending(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	var prev stamp.Stamp
	for i := 0; i < 10; i++ {
		ts, err := l.Append(ctx, textEvent("x"))
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if ts <= prev {
			t.Fatalf("stamps not strictly ascending: %d then %d", prev, ts)
		}
		prev = ts
	}
}

func TestAppendAtConflictPreservesOriginal(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	ts := stamp.Stamp(1000000000) // 1000.000000
	if err := l.AppendAt(ctx, ts, textEvent("first")); err != nil {
		t.Fatalf("append at: %v", err)
	}
	err := l.AppendAt(ctx, ts, textEvent("second"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	ev, ok := l.Get(ts)
	if !ok {
		t.Fatalf("stored event missing")
	}
	if ev.Text != "first" {
		t.Fatalf("original event mutated: %q", ev.Text)
	}
}

func TestAppendAfterAppendAtStaysAbove(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	future := stamp.Stamp(stamp.NowMicros()) + 60e6
	if err := l.AppendAt(ctx, future, textEvent("explicit")); err != nil {
		t.Fatalf("append at: %v", err)
	}
	ts, err := l.Append(ctx, textEvent("next"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ts <= future {
		t.Fatalf("append did not stay above observed stamp: %d <= %d", ts, future)
	}
}

func TestListAfterExactAscending(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	var stamps []stamp.Stamp
	for i := 0; i < 5; i++ {
		ts, err := l.Append(ctx, textEvent("e"))
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		stamps = append(stamps, ts)
	}

	events, skipped := l.ListAfter(stamps[1])
	if skipped != 0 {
		t.Fatalf("unexpected skipped records: %d", skipped)
	}
	if len(events) != 3 {
		t.Fatalf("want 3 events after cursor, got %d", len(events))
	}
	for i, ev := range events {
		if ev.TS != stamps[2+i] {
			t.Fatalf("order mismatch at %d: got %v want %v", i, ev.TS, stamps[2+i])
		}
	}

	// Cursor equal to the last stamp yields nothing.
	events, _ = l.ListAfter(stamps[len(stamps)-1])
	if len(events) != 0 {
		t.Fatalf("expected empty tail, got %d", len(events))
	}
}

func TestListAfterSkipsCorruptRecords(t *testing.T) {
	db := newTestDB(t)
	l := OpenLog(db, "g1", stamp.NewGenerator())
	ctx := context.Background()
	if _, err := l.Append(ctx, textEvent("good")); err != nil {
		t.Fatalf("append: %v", err)
	}
	// Plant a value that fails the record checksum.
	if err := db.Set(KeyEntry("g1", stamp.Stamp(1)), []byte("garbage")); err != nil {
		t.Fatalf("set: %v", err)
	}
	events, skipped := l.ListAfter(0)
	if len(events) != 1 || events[0].Text != "good" {
		t.Fatalf("expected the one good event, got %d", len(events))
	}
	if skipped != 1 {
		t.Fatalf("expected one skipped record, got %d", skipped)
	}
}

func TestAppendDurableAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	l := OpenLog(db, "g1", stamp.NewGenerator())
	ts, err := l.Append(context.Background(), textEvent("persisted"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db2, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("reopen pebble: %v", err)
	}
	t.Cleanup(func() { _ = db2.Close() })
	l2 := OpenLog(db2, "g1", stamp.NewGenerator())
	ev, ok := l2.Get(ts)
	if !ok || ev.Text != "persisted" {
		t.Fatalf("event lost across reopen")
	}
}
