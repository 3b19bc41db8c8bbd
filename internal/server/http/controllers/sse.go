package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/proger/faeton/internal/eventlog"
)

// sseSink implements the SubscribeSink interface for Server-Sent Events.
//
// Each event is framed as an `id: <ts>` line followed by one `data: key: value`
// line per event field and a blank line. Idle keepalives are SSE comments.
type sseSink struct {
	w http.ResponseWriter
	r *http.Request
}

func (s sseSink) Send(ev eventlog.Event) error {
	var b strings.Builder
	b.WriteString("id: ")
	b.WriteString(ev.TS.String())
	b.WriteByte('\n')
	for _, kv := range ev.Pairs() {
		b.WriteString("data: ")
		b.WriteString(kv.Key)
		b.WriteString(": ")
		b.WriteString(strings.ReplaceAll(kv.Value, "\n", "\\n"))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if _, err := s.w.Write([]byte(b.String())); err != nil {
		return err
	}
	s.flush()
	return nil
}

func (s sseSink) Keepalive() error {
	if _, err := s.w.Write([]byte(": keepalive\n\n")); err != nil {
		return err
	}
	s.flush()
	return nil
}

// Context returns the request context for cancellation.
func (s sseSink) Context() context.Context { return s.r.Context() }

func (s sseSink) flush() {
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
}
