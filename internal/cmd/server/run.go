package serverrun

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	cfgpkg "github.com/proger/faeton/internal/config"
	"github.com/proger/faeton/internal/coordinator"
	"github.com/proger/faeton/internal/oracle"
	"github.com/proger/faeton/internal/runtime"
	httpserver "github.com/proger/faeton/internal/server/http"
	eventsvc "github.com/proger/faeton/internal/services/events"
	pebblestore "github.com/proger/faeton/internal/storage/pebble"
	logpkg "github.com/proger/faeton/pkg/log"
)

type Options struct {
	DataDir  string
	HTTPAddr string
	Fsync    pebblestore.FsyncMode
	Config   cfgpkg.Config
}

// Run starts the HTTP server and the advisory coordinator and blocks until
// ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context; layer a
	// local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	rt, err := runtime.Open(runtime.Options{DataDir: opts.DataDir, Fsync: opts.Fsync, Config: opts.Config})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger := buildLogger(opts.Config)

	// Redirect stdlib logs (e.g., Pebble) to our logger
	logpkg.RedirectStdLog(procLogger)

	procLogger.Info("Starting faetond server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Str("oracle_bin", opts.Config.Oracle.Bin),
		logpkg.Str("oracle_model", opts.Config.Oracle.Model),
		logpkg.Str("level", opts.Config.LogLevel),
		logpkg.Str("format", opts.Config.LogFormat),
	)

	svc := eventsvc.NewWithLogger(rt, procLogger)
	invoker := &oracle.ExecInvoker{
		Bin:     opts.Config.Oracle.Bin,
		Model:   opts.Config.Oracle.Model,
		Timeout: time.Duration(opts.Config.Oracle.TimeoutMs) * time.Millisecond,
	}
	coord := coordinator.New(svc, invoker, procLogger, time.Duration(opts.Config.IntervalMs)*time.Millisecond)
	hsrv := httpserver.New(rt, svc, procLogger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, opts.HTTPAddr); err != nil && sctx.Err() == nil {
			log.Printf("http error: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = coord.Run(sctx)
	}()

	<-sctx.Done()
	// Shut servers down before closing the runtime/DB to avoid races.
	hsrv.Close()
	wg.Wait()
	return nil
}

func buildLogger(cfg cfgpkg.Config) logpkg.Logger {
	level := logpkg.InfoLevel
	if l, err := logpkg.ParseLevel(cfg.LogLevel); err == nil {
		level = l
	}
	var formatter logpkg.Formatter = &logpkg.TextFormatter{}
	if cfg.LogFormat == "json" {
		formatter = &logpkg.JSONFormatter{}
	}
	return logpkg.NewLogger(logpkg.WithLevel(level), logpkg.WithFormatter(formatter))
}
