// Package runtime wires storage, config, and the session layout into a
// single-node faetond instance. It exposes Open/Close, a basic health check,
// and helpers to open internal components used by higher-level services.
package runtime
