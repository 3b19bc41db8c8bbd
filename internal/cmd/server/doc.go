// Package serverrun exposes a shared Run entrypoint used by the CLI to start
// the faetond runtime with its HTTP server and advisory coordinator, handling
// lifecycle and shutdown.
package serverrun
