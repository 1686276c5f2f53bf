package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kishore-freak653/CRUD-Application/internal/snapshot"
)

func TestLoad(t *testing.T) {
	t.Run("creates defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if cfg.Storage.Driver != "file" || cfg.CORS.AllowedOrigin != "http://localhost:5173" {
			t.Errorf("unexpected defaults: %+v", cfg)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("config not written: %v", err)
		}
		if !strings.Contains(string(data), "allowed_origin: http://localhost:5173") {
			t.Errorf("written config:\n%s", data)
		}
		again, err := Load(path)
		if err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if again.Quotas != cfg.Quotas || again.RateLimits != cfg.RateLimits {
			t.Errorf("reload = %+v, want %+v", again, cfg)
		}
	})
	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "storage:\n  driver: sqlite\n  sqlite_path: db/users.db\nlenient_update: true\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Storage.Driver != "sqlite" || !cfg.LenientUpdate {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.Quotas.MaxRequestBodyBytes != Default().Quotas.MaxRequestBodyBytes {
			t.Errorf("MaxRequestBodyBytes = %d", cfg.Quotas.MaxRequestBodyBytes)
		}
		opts := cfg.SnapshotOptions("/data")
		if opts.Driver != snapshot.DriverSQLite || opts.SQLitePath != filepath.Join("/data", "db/users.db") {
			t.Errorf("SnapshotOptions() = %+v", opts)
		}
	})
	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
	})
	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
		}{
			{"unknown key", "colour: blue\n"},
			{"bad yaml", "storage: [\n"},
			{"unknown driver", "storage:\n  driver: tape\n"},
			{"postgres without dsn", "storage:\n  driver: postgres\n"},
			{"s3 without bucket", "storage:\n  driver: s3\n"},
			{"negative rate", "rate_limits:\n  read_per_min: -1\n"},
			{"zero body limit", "quotas:\n  max_request_body_bytes: 0\n"},
			{"bad origin", "cors:\n  allowed_origin: localhost\n"},
			{"bad method", "cors:\n  allowed_methods: [FETCH]\n"},
			{"history needs file driver", "storage:\n  driver: memory\nhistory:\n  enabled: true\n"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "config.yaml")
				if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
					t.Fatal(err)
				}
				if _, err := Load(path); err == nil {
					t.Errorf("Load(%q) succeeded, want error", tt.content)
				}
			})
		}
	})
}

func TestSnapshotOptions(t *testing.T) {
	cfg := Default()
	cfg.Storage.File = "/abs/users.json"
	opts := cfg.SnapshotOptions("/data")
	if opts.File != "/abs/users.json" {
		t.Errorf("File = %q, absolute path was rewritten", opts.File)
	}
	if opts.SQLitePath != filepath.Join("/data", "users.db") {
		t.Errorf("SQLitePath = %q", opts.SQLitePath)
	}
	if opts.S3.Key != "users.json" {
		t.Errorf("S3.Key = %q", opts.S3.Key)
	}
}
