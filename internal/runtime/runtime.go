package runtime

import (
	"context"
	"errors"
	"path/filepath"

	cfgpkg "github.com/proger/faeton/internal/config"
	"github.com/proger/faeton/internal/eventlog"
	"github.com/proger/faeton/internal/session"
	pebblestore "github.com/proger/faeton/internal/storage/pebble"
	"github.com/proger/faeton/pkg/stamp"
)

// Options for building the Runtime.
type Options struct {
	DataDir string
	Fsync   pebblestore.FsyncMode
	Config  cfgpkg.Config
}

// Runtime wires storage, config, and session layout for a single-node
// instance. The event store lives under <dataDir>/store; per-session blobs
// under <dataDir>/games/<id>/blobs; <dataDir>/blobs holds pre-session blobs
// kept readable for old clients.
type Runtime struct {
	db       *pebblestore.DB
	config   cfgpkg.Config
	dataDir  string
	sessions *session.Manager
	gen      *stamp.Generator
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	db, err := pebblestore.Open(pebblestore.Options{DataDir: filepath.Join(opts.DataDir, "store"), Fsync: opts.Fsync})
	if err != nil {
		return nil, err
	}
	rt := &Runtime{
		db:      db,
		config:  opts.Config,
		dataDir: opts.DataDir,
		gen:     &stamp.Generator{},
	}
	rt.sessions = session.NewManager(db, filepath.Join(opts.DataDir, "games"))
	return rt, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// OpenLog opens the event log of a game session. Stamps come from the
// process-wide generator so they stay distinct across sessions.
func (r *Runtime) OpenLog(game string) *eventlog.Log {
	return eventlog.OpenLog(r.db, game, r.gen)
}

// Sessions returns the session manager.
func (r *Runtime) Sessions() *session.Manager { return r.sessions }

// Generator returns the process-wide stamp generator.
func (r *Runtime) Generator() *stamp.Generator { return r.gen }

// LegacyTextDir is the pre-session text blob directory.
func (r *Runtime) LegacyTextDir() string { return filepath.Join(r.dataDir, "blobs", "text") }

// LegacyPNGDir is the pre-session png blob directory.
func (r *Runtime) LegacyPNGDir() string { return filepath.Join(r.dataDir, "blobs", "png") }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
