package eventsvc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/proger/faeton/internal/blob"
	"github.com/proger/faeton/internal/eventlog"
	"github.com/proger/faeton/internal/gamestate"
	"github.com/proger/faeton/internal/nodeid"
	"github.com/proger/faeton/internal/runtime"
	logpkg "github.com/proger/faeton/pkg/log"
	"github.com/proger/faeton/pkg/stamp"
)

// ErrBadFilter reports a subscribe filter expression that failed to compile.
var ErrBadFilter = errors.New("invalid filter expression")

// DefaultKeepalive is the idle-wait bound before a subscriber keepalive.
const DefaultKeepalive = 15 * time.Second

// Service provides publish/subscribe operations over the active game
// session's event log and blob stores.
//
// All session mutations (blob write + event append, rotation, state merge,
// scrub) are serialized by writeMu, which preserves the blob-before-event
// ordering: a subscriber that sees an event can always resolve its blob.
// Reads take no lock. The wake signal is a close-and-replace broadcast
// channel owned by the service rather than a log so it spans rotation.
type Service struct {
	rt        *runtime.Runtime
	logger    logpkg.Logger
	keepalive time.Duration

	writeMu sync.Mutex

	notifyMu sync.Mutex
	notifyCh chan struct{}
}

// New returns a Service using a default logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, logpkg.NewLogger())
}

// NewWithLogger returns a Service emitting through the provided logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	keepalive := DefaultKeepalive
	if s := rt.Config().KeepaliveSeconds; s > 0 {
		keepalive = time.Duration(s) * time.Second
	}
	return &Service{
		rt:        rt,
		logger:    logger.WithComponent("events"),
		keepalive: keepalive,
		notifyCh:  make(chan struct{}),
	}
}

// Game returns the active session id, minting one on first use.
func (s *Service) Game() (string, error) {
	return s.rt.Sessions().EnsureActive()
}

// notify wakes every waiting subscriber. Close-and-replace: waiters hold the
// old channel and observe the close; new waiters pick up the fresh one.
func (s *Service) notify() {
	s.notifyMu.Lock()
	close(s.notifyCh)
	s.notifyCh = make(chan struct{})
	s.notifyMu.Unlock()
}

// wake returns the channel the next notify will close. Callers must capture
// it before scanning so an append between scan and wait is not missed.
func (s *Service) wake() <-chan struct{} {
	s.notifyMu.Lock()
	ch := s.notifyCh
	s.notifyMu.Unlock()
	return ch
}

// PublishText appends a text event tagged with a source and optional node and
// client, writing the text blob first. Returns the assigned stamp.
func (s *Service) PublishText(ctx context.Context, text, source, node, client string) (stamp.Stamp, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	game, err := s.Game()
	if err != nil {
		return 0, err
	}
	ts, err := s.publishTextLocked(ctx, game, text, source, node, client)
	if err != nil {
		return 0, err
	}
	s.notify()
	return ts, nil
}

// PublishTextAt appends a text event under a caller-supplied stamp.
// eventlog.ErrConflict when the stamp is taken; the stored event and its blob
// are untouched.
func (s *Service) PublishTextAt(ctx context.Context, ts stamp.Stamp, text, source, node, client string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	game, err := s.Game()
	if err != nil {
		return err
	}
	l := s.rt.OpenLog(game)
	if _, exists := l.Get(ts); exists {
		return eventlog.ErrConflict
	}
	name := ts.String() + ".txt"
	if err := blob.New(s.rt.Sessions().TextDir(game)).Put(name, []byte(text)); err != nil {
		return err
	}
	ev := eventlog.Event{
		Type:   eventlog.TypeText,
		Text:   text,
		Source: source,
		Node:   node,
		Client: client,
		Blob:   "blobs/text/" + name,
	}
	if err := l.AppendAt(ctx, ts, ev); err != nil {
		return err
	}
	s.notify()
	return nil
}

// publishTextLocked writes the text blob under the stamp's name, then appends
// the event at that stamp. Caller holds writeMu.
func (s *Service) publishTextLocked(ctx context.Context, game, text, source, node, client string) (stamp.Stamp, error) {
	l := s.rt.OpenLog(game)
	store := blob.New(s.rt.Sessions().TextDir(game))
	for {
		ts := s.rt.Generator().Next()
		name := ts.String() + ".txt"
		if err := store.Put(name, []byte(text)); err != nil {
			return 0, err
		}
		ev := eventlog.Event{
			Type:   eventlog.TypeText,
			Text:   text,
			Source: source,
			Node:   node,
			Client: client,
			Blob:   "blobs/text/" + name,
		}
		err := l.AppendAt(ctx, ts, ev)
		if errors.Is(err, eventlog.ErrConflict) {
			_ = store.Remove(name)
			continue
		}
		if err != nil {
			return 0, err
		}
		return ts, nil
	}
}

// PublishPNG stores the image blob under its sanitized filename, then appends
// a png event referencing it. Returns the stamp and the stored name.
func (s *Service) PublishPNG(ctx context.Context, filename string, data []byte, client string) (stamp.Stamp, string, error) {
	safe, err := blob.SafeName(filename)
	if err != nil {
		return 0, "", err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	game, err := s.Game()
	if err != nil {
		return 0, "", err
	}
	if err := blob.New(s.rt.Sessions().PNGDir(game)).Put(safe, data); err != nil {
		return 0, "", err
	}
	node, _ := nodeid.FromFilename(safe)
	ev := eventlog.Event{
		Type:     eventlog.TypePNG,
		Filename: safe,
		URL:      "/png/" + safe,
		Node:     node,
		Client:   client,
		Blob:     "blobs/png/" + safe,
	}
	ts, err := s.rt.OpenLog(game).Append(ctx, ev)
	if err != nil {
		return 0, "", err
	}
	s.notify()
	return ts, safe, nil
}

// LatestByNode scans png events in stamp order and keeps the latest per node,
// rows sorted by node. Events whose filename is not a version-1 UUID carry no
// node and are skipped.
func (s *Service) LatestByNode() ([]NodeRow, error) {
	game, err := s.Game()
	if err != nil {
		return nil, err
	}
	events, _ := s.rt.OpenLog(game).ListAfter(0)
	latest := map[string]NodeRow{}
	for _, ev := range events {
		if ev.Type != eventlog.TypePNG || ev.Filename == "" {
			continue
		}
		node := ev.Node
		if node == "" {
			var ok bool
			if node, ok = nodeid.FromFilename(ev.Filename); !ok {
				continue
			}
		}
		url := ev.URL
		if url == "" {
			url = "/png/" + ev.Filename
		}
		latest[node] = NodeRow{Node: node, TS: ev.TS.String(), Filename: ev.Filename, URL: url}
	}
	rows := make([]NodeRow, 0, len(latest))
	for _, r := range latest {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Node < rows[j].Node })
	return rows, nil
}

// LatestUserRequests returns the most recent user-sourced text events, oldest
// first, at most limit.
func (s *Service) LatestUserRequests(limit int) ([]eventlog.Event, error) {
	game, err := s.Game()
	if err != nil {
		return nil, err
	}
	events, _ := s.rt.OpenLog(game).ListAfter(0)
	var out []eventlog.Event
	for _, ev := range events {
		if ev.Type == eventlog.TypeText && ev.Source == eventlog.SourceUser {
			out = append(out, ev)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// Subscribe streams text events with ts > cursor to the sink in stamp order,
// following the active session across rotation. When a scan emits nothing it
// waits on the wake signal up to the keepalive bound, emitting a keepalive
// comment on timeout. Returns nil on disconnect, the sink's error on send
// failure.
func (s *Service) Subscribe(ctx context.Context, cursor stamp.Stamp, opts SubscribeOptions, sink SubscribeSink) error {
	filter, err := newCELFilter(opts.Filter)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadFilter, err)
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		wake := s.wake()
		game, err := s.Game()
		if err != nil {
			return err
		}
		events, skipped := s.rt.OpenLog(game).ListAfter(cursor)
		if skipped > 0 {
			s.logger.Warn("skipped unreadable events", logpkg.Str("game", game), logpkg.Int("count", skipped))
		}
		sent := false
		for _, ev := range events {
			if ctx.Err() != nil {
				return nil
			}
			if ev.TS > cursor {
				cursor = ev.TS
			}
			if ev.Type != eventlog.TypeText || !filter.Eval(ev) {
				continue
			}
			if err := sink.Send(ev); err != nil {
				return err
			}
			sent = true
		}
		if sent {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-wake:
		case <-time.After(s.keepalive):
			if err := sink.Keepalive(); err != nil {
				return err
			}
		}
	}
}

// Scrub deletes the active session's png events for one node along with their
// blobs. Unknown or malformed nodes remove nothing.
func (s *Service) Scrub(ctx context.Context, node string) (int, error) {
	if !nodeid.Valid(node) {
		return 0, nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	game, err := s.Game()
	if err != nil {
		return 0, err
	}
	removed, names, err := s.rt.OpenLog(game).ScrubPNG(ctx, func(ev eventlog.Event) bool {
		n := ev.Node
		if n == "" {
			var ok bool
			if n, ok = nodeid.FromFilename(ev.Filename); !ok {
				return false
			}
		}
		return nodeid.Equal(n, node)
	})
	if err != nil {
		return removed, err
	}
	store := blob.New(s.rt.Sessions().PNGDir(game))
	for _, name := range names {
		_ = store.Remove(name)
	}
	s.logger.Info("scrubbed node", logpkg.Str("game", game), logpkg.Str("node", node), logpkg.Int("removed", removed))
	return removed, nil
}

// Rotate activates a fresh session and publishes a restart marker into it so
// subscribers see the boundary. Prior sessions stay readable.
func (s *Service) Rotate(ctx context.Context) (string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	game, err := s.rt.Sessions().Rotate()
	if err != nil {
		return "", err
	}
	if _, err := s.publishTextLocked(ctx, game, "Restarted", eventlog.SourceSystem, "", ""); err != nil {
		return "", err
	}
	s.logger.Info("rotated session", logpkg.Str("game", game))
	s.notify()
	return game, nil
}

// KnownGameState renders the active session's accumulated fact list.
func (s *Service) KnownGameState() (string, error) {
	game, err := s.Game()
	if err != nil {
		return "", err
	}
	return gamestate.Load(s.rt.DB(), game), nil
}

// MergeGameState appends new facts to the active session's state.
func (s *Service) MergeGameState(text string) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	game, err := s.Game()
	if err != nil {
		return 0, err
	}
	return gamestate.Merge(s.rt.DB(), game, text)
}

// GetPNG reads an image blob, falling back from the active session to the
// pre-session directory and then to prior sessions newest-first, so stale
// names from a just-rotated session still resolve.
func (s *Service) GetPNG(filename string) ([]byte, error) {
	store, err := s.resolvePNG(filename)
	if err != nil {
		return nil, err
	}
	return store.Get(filename)
}

// PNGPath resolves an image blob to its on-disk path using the same fallback
// order as GetPNG.
func (s *Service) PNGPath(filename string) (string, bool) {
	store, err := s.resolvePNG(filename)
	if err != nil {
		return "", false
	}
	p, err := store.Path(filename)
	return p, err == nil
}

func (s *Service) resolvePNG(filename string) (*blob.Store, error) {
	if _, err := blob.SafeName(filename); err != nil {
		return nil, err
	}
	game, err := s.Game()
	if err != nil {
		return nil, err
	}
	active := blob.New(s.rt.Sessions().PNGDir(game))
	if active.Has(filename) {
		return active, nil
	}
	if legacy := blob.New(s.rt.LegacyPNGDir()); legacy.Has(filename) {
		return legacy, nil
	}
	for _, prior := range s.rt.Sessions().Prior(game) {
		if st := blob.New(s.rt.Sessions().PNGDir(prior)); st.Has(filename) {
			return st, nil
		}
	}
	return nil, blob.ErrNotFound
}
