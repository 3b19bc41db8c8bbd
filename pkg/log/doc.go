// Package log provides faeton's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Formatting and output are
// pluggable so the same facade serves console text during development and
// JSON lines in production.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("server"), log.Str("game", id))
//	l.Info("server started", log.Str("http", addr))
//
// # Interop
//
// To integrate with libraries expecting *log.Logger, use ToStdLogger or
// RedirectStdLog; the runtime redirects Pebble's standard-library logging
// through the process logger this way.
package log
