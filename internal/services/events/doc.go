// Package eventsvc is the broker core: it owns the active game session,
// serializes all writes, streams text events to subscribers, derives the
// per-node screenshot index, and handles scrub and session rotation.
package eventsvc
