// Package config defines server configuration with JSON file loading and
// FAETOND_* environment overlays. Precedence: defaults, then file, then env,
// then command-line flags applied by the caller.
package config
