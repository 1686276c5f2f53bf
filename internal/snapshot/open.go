package snapshot

import (
	"context"
	"fmt"
)

// Options selects and parameterizes a Store.
type Options struct {
	Driver      Driver
	File        string
	SQLitePath  string
	PostgresDSN string
	S3          S3Config
}

// Open returns the Store named by opts.Driver. An empty driver means
// DriverFile.
func Open(ctx context.Context, opts *Options) (Store, error) {
	switch opts.Driver {
	case DriverFile, "":
		return NewFile(opts.File)
	case DriverSQLite:
		return NewSQLite(ctx, opts.SQLitePath)
	case DriverPostgres:
		return NewPostgres(ctx, opts.PostgresDSN)
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverMemory:
		return NewMemory(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
