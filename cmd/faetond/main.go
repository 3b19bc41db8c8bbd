package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	clientcmd "github.com/proger/faeton/internal/cmd/client"
	serverrun "github.com/proger/faeton/internal/cmd/server"
	cfgpkg "github.com/proger/faeton/internal/config"
	pebblestore "github.com/proger/faeton/internal/storage/pebble"
	logpkg "github.com/proger/faeton/pkg/log"
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	level := os.Getenv("FAETOND_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	// Redirect standard library logs (used by Pebble) to our logger
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "faetond",
		Short: "faetond event broker CLI",
		Long:  "faetond is a durable event broker for game capture clients. This CLI manages the server and basic operations.",
	}

	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the faetond server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			oracleBin, _ := cmd.Flags().GetString("oracle-bin")
			oracleModel, _ := cmd.Flags().GetString("oracle-model")
			intervalMs, _ := cmd.Flags().GetInt("interval-ms")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			mode := pebblestore.FsyncModeAlways
			switch fsyncMode {
			case "never":
				mode = pebblestore.FsyncModeNever
			case "interval":
				mode = pebblestore.FsyncModeInterval
			case "always":
				mode = pebblestore.FsyncModeAlways
			default:
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}

			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfgpkg.FromEnv(&cfg)
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if httpAddr != "" {
				cfg.HTTPAddr = httpAddr
			}
			if oracleBin != "" {
				cfg.Oracle.Bin = oracleBin
			}
			if oracleModel != "" {
				cfg.Oracle.Model = oracleModel
			}
			if intervalMs > 0 {
				cfg.IntervalMs = intervalMs
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if logFormat != "" {
				cfg.LogFormat = logFormat
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:  cfg.DataDir,
				HTTPAddr: cfg.HTTPAddr,
				Fsync:    mode,
				Config:   cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("config", "", "JSON config file path")
	serverStartCmd.Flags().String("data-dir", "", "Data directory (default: OS-specific application data directory)")
	serverStartCmd.Flags().String("http", "", "HTTP listen address (default :8000)")
	serverStartCmd.Flags().String("fsync", "always", "Fsync mode: always|interval|never")
	serverStartCmd.Flags().String("oracle-bin", "", "Advisory oracle binary (default codex)")
	serverStartCmd.Flags().String("oracle-model", "", "Advisory oracle model")
	serverStartCmd.Flags().Int("interval-ms", 0, "Advisory loop interval in ms (default 2000)")
	serverStartCmd.Flags().String("log-level", os.Getenv("FAETOND_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("FAETOND_LOG_FORMAT"), "Log format: text|json (default text)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	rootCmd.AddCommand(clientcmd.NewPubCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewSubCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewPNGCommand(apiURL))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("FAETOND_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8000"
}
