// Package sqlite persists transform history in SQLite.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation that needs no
// CGO, so the binary cross-compiles without a C toolchain.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.pagebridge/data/history.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The database runs in WAL mode
// with a busy timeout.
package sqlite
