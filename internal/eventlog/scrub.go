package eventlog

import (
	"context"
)

const scrubBatchSize = 256

// ScrubPNG walks the session's png events and deletes every one the match
// predicate accepts, committing deletions in bounded batches. It returns the
// number of removed events and the distinct filenames they referenced so the
// caller can remove the backing blobs.
func (l *Log) ScrubPNG(ctx context.Context, match func(Event) bool) (int, []string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	events, _ := l.ListAfter(0)
	removed := 0
	names := map[string]struct{}{}

	batch := l.db.NewBatch()
	pending := 0
	flush := func() error {
		if pending == 0 {
			return nil
		}
		if err := l.db.CommitBatch(ctx, batch); err != nil {
			return err
		}
		_ = batch.Close()
		batch = l.db.NewBatch()
		pending = 0
		return nil
	}
	defer func() { _ = batch.Close() }()

	for _, ev := range events {
		if ev.Type != TypePNG || !match(ev) {
			continue
		}
		if err := batch.Delete(KeyEntry(l.game, ev.TS), nil); err != nil {
			return removed, keys(names), err
		}
		removed++
		pending++
		if ev.Filename != "" {
			names[ev.Filename] = struct{}{}
		}
		if pending >= scrubBatchSize {
			if err := flush(); err != nil {
				return removed, keys(names), err
			}
		}
	}
	if err := flush(); err != nil {
		return removed, keys(names), err
	}
	return removed, keys(names), nil
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
