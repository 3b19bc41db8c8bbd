package serverrun

import (
	"context"
	"testing"
	"time"

	cfgpkg "github.com/proger/faeton/internal/config"
	pebblestore "github.com/proger/faeton/internal/storage/pebble"
)

func TestOptionsDataDirFallback(t *testing.T) {
	opts := Options{DataDir: ""}
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	if opts.DataDir == "" {
		t.Error("expected DataDir to be set after fallback")
	}

	opts = Options{DataDir: "/custom/data"}
	if opts.DataDir != "/custom/data" {
		t.Errorf("expected provided DataDir to be preserved, got %s", opts.DataDir)
	}
}

// TestRunIntegration verifies Run starts and shuts down cleanly. Minimal by
// design since Run binds real listeners.
func TestRunIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	opts := Options{
		DataDir:  t.TempDir(),
		HTTPAddr: ":0",
		Fsync:    pebblestore.FsyncModeNever,
		Config:   cfgpkg.Default(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := Run(ctx, opts); err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
