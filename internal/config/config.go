package config

import (
	"encoding/json"
	"os"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	HTTPAddr         string `json:"httpAddr"`
	DataDir          string `json:"dataDir"`
	Oracle           Oracle `json:"oracle"`
	IntervalMs       int    `json:"intervalMs"`
	KeepaliveSeconds int    `json:"keepaliveSeconds"`
	LogLevel         string `json:"logLevel"`
	LogFormat        string `json:"logFormat"`
}

// Oracle configures the external advisory binary.
type Oracle struct {
	Bin       string `json:"bin"`
	Model     string `json:"model"`
	TimeoutMs int    `json:"timeoutMs"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr:         ":8000",
		Oracle:           Oracle{Bin: "codex", Model: "gpt-5.3-codex", TimeoutMs: 120_000},
		IntervalMs:       2000,
		KeepaliveSeconds: 15,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load reads configuration from a JSON file. If path is empty, returns
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
