// Package sqlite provides the SQLite-backed audit store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. It persists decision logs
// and shadow-mode parity records through a single database connection and
// implements the driven.AuditSink port.
package sqlite
