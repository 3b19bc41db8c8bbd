package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/proger/faeton/internal/config"
	"github.com/proger/faeton/internal/eventlog"
	"github.com/proger/faeton/internal/runtime"
	eventsvc "github.com/proger/faeton/internal/services/events"
	pebblestore "github.com/proger/faeton/internal/storage/pebble"
	logpkg "github.com/proger/faeton/pkg/log"
)

type fakeInvoker struct {
	calls     int
	responses []string
	err       error
	lastImgs  []string
	lastText  string
}

func (f *fakeInvoker) Invoke(_ context.Context, prompt string, imagePaths []string) (string, error) {
	f.calls++
	f.lastImgs = imagePaths
	f.lastText = prompt
	if f.err != nil {
		return "", f.err
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func newTestService(t *testing.T) *eventsvc.Service {
	t.Helper()
	rt, err := runtime.Open(runtime.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeNever, Config: cfgpkg.Default()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return eventsvc.New(rt)
}

func publishScreenshot(t *testing.T, svc *eventsvc.Service) string {
	t.Helper()
	u, err := uuid.NewUUID()
	require.NoError(t, err)
	name := u.String() + ".png"
	_, _, err = svc.PublishPNG(context.Background(), name, []byte("img"), "")
	require.NoError(t, err)
	return name
}

// oracleAdvice replays the log and returns the oracle-sourced text events.
func oracleAdvice(t *testing.T, svc *eventsvc.Service) []eventlog.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	sink := &collectSink{ctx: ctx}
	require.NoError(t, svc.Subscribe(ctx, 0, eventsvc.SubscribeOptions{Filter: `source == "oracle"`}, sink))
	return sink.events
}

type collectSink struct {
	ctx    context.Context
	events []eventlog.Event
}

func (c *collectSink) Send(ev eventlog.Event) error { c.events = append(c.events, ev); return nil }
func (c *collectSink) Keepalive() error             { return nil }
func (c *collectSink) Context() context.Context     { return c.ctx }

func TestTickInvokesAndPublishes(t *testing.T) {
	svc := newTestService(t)
	publishScreenshot(t, svc)
	inv := &fakeInvoker{responses: []string{"ADVICE: push mid now.\nNEW GAME STATE: time 8:00"}}
	c := New(svc, inv, logpkg.NewLogger(), 0)

	c.tick(context.Background())
	require.Equal(t, 1, inv.calls)
	require.Len(t, inv.lastImgs, 1)
	require.Contains(t, inv.lastText, "Known game state:\n(none yet)")

	advice := oracleAdvice(t, svc)
	require.Len(t, advice, 1)
	require.Equal(t, "push mid now.", advice[0].Text)

	state, err := svc.KnownGameState()
	require.NoError(t, err)
	require.Equal(t, "time 8:00", state)
}

func TestTickDebouncesUnchangedSignature(t *testing.T) {
	svc := newTestService(t)
	publishScreenshot(t, svc)
	inv := &fakeInvoker{responses: []string{"ADVICE: group up.\nNEW GAME STATE: none"}}
	c := New(svc, inv, logpkg.NewLogger(), 0)

	c.tick(context.Background())
	c.tick(context.Background())
	require.Equal(t, 1, inv.calls)
}

func TestTickReactsToNewScreenshot(t *testing.T) {
	svc := newTestService(t)
	publishScreenshot(t, svc)
	inv := &fakeInvoker{responses: []string{"ADVICE: first.", "ADVICE: second."}}
	c := New(svc, inv, logpkg.NewLogger(), 0)

	c.tick(context.Background())
	publishScreenshot(t, svc)
	c.tick(context.Background())
	require.Equal(t, 2, inv.calls)
}

func TestTickReactsToNewUserRequest(t *testing.T) {
	svc := newTestService(t)
	publishScreenshot(t, svc)
	inv := &fakeInvoker{responses: []string{"ADVICE: first.", "ADVICE: second."}}
	c := New(svc, inv, logpkg.NewLogger(), 0)

	c.tick(context.Background())
	_, err := svc.PublishText(context.Background(), "what should we buy", eventlog.SourceUser, "", "")
	require.NoError(t, err)
	c.tick(context.Background())
	require.Equal(t, 2, inv.calls)
}

func TestTickFailureKeepsSignatureForRetry(t *testing.T) {
	svc := newTestService(t)
	publishScreenshot(t, svc)
	inv := &fakeInvoker{err: errors.New("boom")}
	c := New(svc, inv, logpkg.NewLogger(), 0)

	c.tick(context.Background())
	c.tick(context.Background())
	require.Equal(t, 2, inv.calls)
	require.Empty(t, oracleAdvice(t, svc))

	// recovery publishes and arms the debounce
	inv.err = nil
	inv.responses = []string{"ADVICE: back online."}
	c.tick(context.Background())
	c.tick(context.Background())
	require.Equal(t, 3, inv.calls)
}

func TestTickSkipsWithoutScreenshots(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.PublishText(context.Background(), "hello", eventlog.SourceUser, "", "")
	require.NoError(t, err)
	inv := &fakeInvoker{responses: []string{"ADVICE: x."}}
	c := New(svc, inv, logpkg.NewLogger(), 0)

	c.tick(context.Background())
	require.Zero(t, inv.calls)
}

func TestRunStopsOnCancel(t *testing.T) {
	svc := newTestService(t)
	inv := &fakeInvoker{responses: []string{"ADVICE: x."}}
	c := New(svc, inv, logpkg.NewLogger(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("coordinator did not stop on cancel")
	}
}
