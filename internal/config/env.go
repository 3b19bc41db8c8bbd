package config

import (
	"os"
	"strconv"
)

// FromEnv overlays FAETOND_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("FAETOND_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("FAETOND_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("FAETOND_CODEX_BIN"); v != "" {
		cfg.Oracle.Bin = v
	}
	if v := os.Getenv("FAETOND_CODEX_MODEL"); v != "" {
		cfg.Oracle.Model = v
	}
	if v := os.Getenv("FAETOND_CODEX_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Oracle.TimeoutMs = n
		}
	}
	if v := os.Getenv("FAETOND_CODEX_INTERVAL"); v != "" {
		// Seconds, fractional allowed, matching the capture clients' knob.
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.IntervalMs = int(f * 1000)
		}
	}
	if v := os.Getenv("FAETOND_KEEPALIVE_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.KeepaliveSeconds = n
		}
	}
	if v := os.Getenv("FAETOND_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("FAETOND_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
