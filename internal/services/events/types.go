package eventsvc

import (
	"context"

	"github.com/proger/faeton/internal/eventlog"
)

// NodeRow is one row of the node index: the latest screenshot event seen for
// a node, in wire form.
type NodeRow struct {
	Node     string
	TS       string
	Filename string
	URL      string
}

// SubscribeOptions controls a live subscription.
type SubscribeOptions struct {
	// Filter is an optional CEL expression evaluated per text event.
	// When empty, all text events are delivered.
	Filter string
}

// SubscribeSink is implemented by transports to receive streamed events.
type SubscribeSink interface {
	Send(ev eventlog.Event) error
	Keepalive() error
	Context() context.Context
}
