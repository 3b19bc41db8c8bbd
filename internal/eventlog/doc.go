// Package eventlog implements faeton's append-only, stamp-keyed event log.
//
// # Overview
//
// Each game session owns a keyspace in Pebble, ordered for range scans:
//   - game/{id}/e/{ts_be8}  (entries)
//
// Values are framed as: varint bodyLen | kv-lines body | crc32c(body). The
// body is the event's `key: value` wire form, so a stored record is also the
// payload pushed to subscribers. Corrupt or torn records fail the checksum
// and are skipped on scan rather than failing the reader.
//
// API surface (internal)
//
//	l := OpenLog(db, game, gen)
//	ts, _ := l.Append(ctx, Event{Type: TypeText, Text: "hello", Source: SourceUser})
//	err := l.AppendAt(ctx, ts, ev)      // ErrConflict if the stamp is taken
//	events, skipped := l.ListAfter(cursor)
//	removed, names, _ := l.ScrubPNG(ctx, byNode)
//
// Appends assign stamps by sampling the clock and regenerating on collision
// with an existing key. Every call re-scans the keyspace; session logs are
// bounded (roughly one event per second for a human game session), so the
// full scan buys crash-safety with no secondary index to corrupt.
package eventlog
