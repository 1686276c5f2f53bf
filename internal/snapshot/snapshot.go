// Package snapshot persists a single serialized document, overwriting it whole
// on every save.
//
// A Store never diffs: Save replaces the previous document entirely and Load
// returns the last document saved. Drivers exist for a local file, SQLite,
// Postgres, S3-compatible object storage and process memory.
package snapshot

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no document has been saved yet.
var ErrNotFound = errors.New("snapshot not found")

// Driver names a Store implementation.
type Driver string

const (
	// DriverFile stores the document in a local file (default).
	DriverFile Driver = "file"
	// DriverSQLite stores the document in a SQLite database.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores the document in a Postgres database.
	DriverPostgres Driver = "postgres"
	// DriverS3 stores the document as an object in an S3-compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps the document in memory; nothing survives a restart.
	DriverMemory Driver = "memory"
)

// Store loads and saves one whole document.
type Store interface {
	// Load returns the last saved document, or ErrNotFound.
	Load(ctx context.Context) ([]byte, error)
	// Save overwrites the document.
	Save(ctx context.Context, data []byte) error
	// Driver identifies the implementation.
	Driver() Driver
	// Close releases resources held by the store.
	Close() error
}
