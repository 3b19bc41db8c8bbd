package eventlog

import (
	"strings"

	"github.com/proger/faeton/pkg/stamp"
)

// Event types.
const (
	TypeText = "text"
	TypePNG  = "png"
)

// Source tags for text events.
const (
	SourceUser   = "user"
	SourceOracle = "oracle"
	SourceSystem = "system"
)

// Event is an immutable record in a session log, keyed by its Stamp.
type Event struct {
	Type     string
	Text     string
	Source   string
	Filename string
	URL      string
	Node     string
	Client   string
	Blob     string
	TS       stamp.Stamp
}

// KV is one wire field of an event.
type KV struct {
	Key   string
	Value string
}

// Pairs returns the event's fields in canonical wire order: type first,
// type-specific fields, ts last. Empty optional fields are omitted.
func (e *Event) Pairs() []KV {
	pairs := []KV{{Key: "type", Value: e.Type}}
	if e.Type == TypeText {
		pairs = append(pairs, KV{Key: "text", Value: e.Text})
		if e.Source != "" {
			pairs = append(pairs, KV{Key: "source", Value: e.Source})
		}
	}
	if e.Filename != "" {
		pairs = append(pairs, KV{Key: "filename", Value: e.Filename})
	}
	if e.URL != "" {
		pairs = append(pairs, KV{Key: "url", Value: e.URL})
	}
	if e.Node != "" {
		pairs = append(pairs, KV{Key: "node", Value: e.Node})
	}
	if e.Client != "" {
		pairs = append(pairs, KV{Key: "client", Value: e.Client})
	}
	if e.Blob != "" {
		pairs = append(pairs, KV{Key: "blob", Value: e.Blob})
	}
	return append(pairs, KV{Key: "ts", Value: e.TS.String()})
}

// EncodeKV renders the event as `key: value` lines, newlines in values
// escaped as `\n`.
func (e *Event) EncodeKV() []byte {
	var b strings.Builder
	for _, kv := range e.Pairs() {
		b.WriteString(kv.Key)
		b.WriteString(": ")
		b.WriteString(strings.ReplaceAll(kv.Value, "\n", "\\n"))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// DecodeKV parses `key: value` lines back into an Event. Lines without a
// colon are ignored. Returns false when no recognizable fields are present.
func DecodeKV(data []byte) (Event, bool) {
	var e Event
	seen := false
	for _, raw := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		key, value, ok := strings.Cut(raw, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.ReplaceAll(strings.TrimLeft(value, " "), "\\n", "\n")
		switch key {
		case "type":
			e.Type = value
		case "text":
			e.Text = value
		case "source":
			e.Source = value
		case "filename":
			e.Filename = value
		case "url":
			e.URL = value
		case "node":
			e.Node = value
		case "client":
			e.Client = value
		case "blob":
			e.Blob = value
		case "ts":
			if ts, err := stamp.Parse(value); err == nil {
				e.TS = ts
			}
		default:
			continue
		}
		seen = true
	}
	if !seen || e.Type == "" {
		return Event{}, false
	}
	return e, true
}
