package eventlog

import (
	"context"
	"errors"
	"sync"

	"github.com/cockroachdb/pebble"
	pebblestore "github.com/proger/faeton/internal/storage/pebble"
	"github.com/proger/faeton/pkg/stamp"
)

// ErrConflict reports an explicit append at a stamp that already exists.
var ErrConflict = errors.New("event ts already exists")

// Log provides append-only, stamp-keyed operations for one game session.
type Log struct {
	db   *pebblestore.DB
	game string
	gen  *stamp.Generator

	mu sync.Mutex
}

// OpenLog binds a Log to a game session. The generator is shared across logs
// so stamps stay distinct over a rotation.
func OpenLog(db *pebblestore.DB, game string, gen *stamp.Generator) *Log {
	return &Log{db: db, game: game, gen: gen}
}

// Game returns the session id this log is bound to.
func (l *Log) Game() string { return l.game }

// Append assigns a fresh stamp, regenerating on collision with an existing
// key, writes the event, and returns the assigned stamp.
func (l *Log) Append(ctx context.Context, ev Event) (stamp.Stamp, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for {
		ts := l.gen.Next()
		ok, err := l.db.Has(KeyEntry(l.game, ts))
		if err != nil {
			return 0, err
		}
		if ok {
			continue
		}
		ev.TS = ts
		if err := l.db.Set(KeyEntry(l.game, ts), EncodeRecord(ev.EncodeKV())); err != nil {
			return 0, err
		}
		return ts, nil
	}
}

// AppendAt writes the event under a caller-supplied stamp. Fails with
// ErrConflict when the key exists, leaving the stored event untouched.
func (l *Log) AppendAt(ctx context.Context, ts stamp.Stamp, ev Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	ok, err := l.db.Has(KeyEntry(l.game, ts))
	if err != nil {
		return err
	}
	if ok {
		return ErrConflict
	}
	ev.TS = ts
	if err := l.db.Set(KeyEntry(l.game, ts), EncodeRecord(ev.EncodeKV())); err != nil {
		return err
	}
	l.gen.Observe(ts)
	return nil
}

// Get loads a single event by stamp.
func (l *Log) Get(ts stamp.Stamp) (Event, bool) {
	val, err := l.db.Get(KeyEntry(l.game, ts))
	if err != nil {
		return Event{}, false
	}
	body, ok := DecodeRecord(val)
	if !ok {
		return Event{}, false
	}
	ev, ok := DecodeKV(body)
	if !ok {
		return Event{}, false
	}
	ev.TS = ts
	return ev, true
}

// ListAfter returns all events with ts > cursor in ascending stamp order.
// Records that fail the checksum or kv parsing are skipped; the count of
// skipped records is returned for diagnostics.
func (l *Log) ListAfter(cursor stamp.Stamp) ([]Event, int) {
	prefix := KeyEntryPrefix(l.game)
	low := KeyEntry(l.game, cursor+1)
	hi := append(append([]byte(nil), prefix...), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00)

	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: hi})
	if err != nil {
		return nil, 0
	}
	defer iter.Close()

	var events []Event
	skipped := 0
	for iter.First(); iter.Valid(); iter.Next() {
		ts := stampFromKey(iter.Key())
		body, ok := DecodeRecord(iter.Value())
		if !ok {
			skipped++
			continue
		}
		ev, ok := DecodeKV(body)
		if !ok {
			skipped++
			continue
		}
		ev.TS = ts
		events = append(events, ev)
	}
	return events, skipped
}
