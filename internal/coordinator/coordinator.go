package coordinator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/proger/faeton/internal/eventlog"
	"github.com/proger/faeton/internal/oracle"
	eventsvc "github.com/proger/faeton/internal/services/events"
	logpkg "github.com/proger/faeton/pkg/log"
)

// DefaultInterval is the tick period when none is configured.
const DefaultInterval = 2 * time.Second

// userTextSignatureRunes bounds the user-request portion of the signature.
const userTextSignatureRunes = 80

// Coordinator drives the advisory loop: on each tick it fingerprints the
// latest per-node screenshots plus the newest user request, and when the
// fingerprint changed invokes the oracle and republishes its advice.
//
// The signature is updated only after a successful publish, so any failure
// (binary missing, timeout, empty output) is retried on the next tick with
// no backoff.
type Coordinator struct {
	svc     *eventsvc.Service
	invoker oracle.Invoker
	logger  logpkg.Logger

	interval      time.Duration
	lastSignature string
}

// New builds a Coordinator. interval <= 0 selects DefaultInterval.
func New(svc *eventsvc.Service, invoker oracle.Invoker, logger logpkg.Logger, interval time.Duration) *Coordinator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Coordinator{
		svc:      svc,
		invoker:  invoker,
		logger:   logger.WithComponent("coordinator"),
		interval: interval,
	}
}

// Run ticks until ctx is cancelled. An in-flight oracle call is bounded by
// the invoker's own timeout.
func (c *Coordinator) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		c.tick(ctx)
	}
}

func (c *Coordinator) tick(ctx context.Context) {
	rows, err := c.svc.LatestByNode()
	if err != nil {
		c.logger.Error("node index scan failed", logpkg.Err(err))
		return
	}
	if len(rows) == 0 {
		return
	}
	sig := c.signature(rows)
	if sig == c.lastSignature {
		return
	}

	var paths []string
	var contextLines []string
	for _, r := range rows {
		p, ok := c.svc.PNGPath(r.Filename)
		if !ok {
			continue
		}
		paths = append(paths, p)
		contextLines = append(contextLines, fmt.Sprintf("host=%s ts=%s file=%s", r.Node, r.TS, r.Filename))
	}
	if len(paths) == 0 {
		return
	}

	state, err := c.svc.KnownGameState()
	if err != nil {
		c.logger.Error("known game state load failed", logpkg.Err(err))
		return
	}

	out, err := c.invoker.Invoke(ctx, oracle.BuildPrompt(contextLines, state), paths)
	if err != nil {
		c.logger.Warn("oracle invocation failed", logpkg.Err(err), logpkg.Int("hosts", len(rows)))
		return
	}

	advice, newState := oracle.ParseResponse(out)
	if advice == "" {
		c.logger.Warn("oracle returned no advice", logpkg.Int("hosts", len(rows)))
		return
	}
	ts, err := c.svc.PublishText(ctx, advice, eventlog.SourceOracle, "", "")
	if err != nil {
		c.logger.Error("advice publish failed", logpkg.Err(err))
		return
	}
	if newState != "" {
		if added, err := c.svc.MergeGameState(newState); err != nil {
			c.logger.Error("game state merge failed", logpkg.Err(err))
		} else if added > 0 {
			c.logger.Debug("merged game state", logpkg.Int("facts", added))
		}
	}
	c.lastSignature = sig
	c.logger.Info("published advice", logpkg.Str("ts", ts.String()), logpkg.Int("hosts", len(rows)))
}

// signature fingerprints the inputs the oracle would see: every node's latest
// screenshot stamp plus the newest user request.
func (c *Coordinator) signature(rows []eventsvc.NodeRow) string {
	parts := make([]string, 0, len(rows))
	for _, r := range rows {
		parts = append(parts, r.Node+":"+r.TS)
	}
	sig := strings.Join(parts, "|")
	if reqs, err := c.svc.LatestUserRequests(1); err == nil && len(reqs) == 1 {
		r := reqs[0]
		sig += "|user:" + r.TS.String() + ":" + r.Node + ":" + truncateRunes(r.Text, userTextSignatureRunes)
	}
	return sig
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
