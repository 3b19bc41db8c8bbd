// Package pebblestore wraps Pebble with faeton's durability policy.
//
// The wrapper pins one fsync mode per database (always, interval group-commit,
// or never) so callers never pass write options, and exposes only the small
// surface the event log needs: point get/set/delete, existence checks,
// atomic batches, and raw iterators for ordered range scans.
package pebblestore
