// Package config manages the server configuration stored in config.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kishore-freak653/CRUD-Application/internal/snapshot"
)

// Config stores all server-wide configuration.
// Loaded from config.yaml, created with defaults if missing.
type Config struct {
	Storage    Storage    `yaml:"storage"`
	CORS       CORS       `yaml:"cors"`
	RateLimits RateLimits `yaml:"rate_limits"`
	Quotas     Quotas     `yaml:"quotas"`
	History    History    `yaml:"history"`

	// LenientUpdate logs missing fields on update instead of rejecting the
	// request with 400.
	LenientUpdate bool `yaml:"lenient_update"`
}

// Storage selects where the collection is persisted.
type Storage struct {
	// Driver is one of file, sqlite, postgres, s3 or memory.
	Driver string `yaml:"driver"`
	// File is the JSON document for the file driver. Relative paths are
	// resolved against the data directory.
	File string `yaml:"file"`
	// SQLitePath is the database for the sqlite driver. Relative paths are
	// resolved against the data directory.
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
	S3          S3     `yaml:"s3"`
}

// S3 configures the s3 driver. Credentials come from the AWS environment.
type S3 struct {
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// Validate checks the driver specific fields.
func (s *Storage) Validate() error {
	switch snapshot.Driver(s.Driver) {
	case snapshot.DriverFile:
		if s.File == "" {
			return errors.New("file is required for the file driver")
		}
	case snapshot.DriverSQLite:
		if s.SQLitePath == "" {
			return errors.New("sqlite_path is required for the sqlite driver")
		}
	case snapshot.DriverPostgres:
		if s.PostgresDSN == "" {
			return errors.New("postgres_dsn is required for the postgres driver")
		}
	case snapshot.DriverS3:
		if s.S3.Bucket == "" {
			return errors.New("s3.bucket is required for the s3 driver")
		}
	case snapshot.DriverMemory:
	default:
		return fmt.Errorf("unknown driver %q", s.Driver)
	}
	return nil
}

// CORS configures cross-origin access for the browser client.
type CORS struct {
	// AllowedOrigin is the single origin allowed to call the API. Empty
	// disables CORS headers.
	AllowedOrigin  string   `yaml:"allowed_origin"`
	AllowedMethods []string `yaml:"allowed_methods"`
}

var knownMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodHead, http.MethodOptions,
}

// Validate checks the origin and methods.
func (c *CORS) Validate() error {
	if c.AllowedOrigin != "" && c.AllowedOrigin != "*" {
		u, err := url.Parse(c.AllowedOrigin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("allowed_origin %q must be a scheme://host[:port] origin", c.AllowedOrigin)
		}
	}
	for _, m := range c.AllowedMethods {
		if !slices.Contains(knownMethods, strings.ToUpper(m)) {
			return fmt.Errorf("unknown method %q", m)
		}
	}
	return nil
}

// RateLimits defines rate limiting configuration (requests per minute per
// client IP).
type RateLimits struct {
	// ReadPerMin limits GET requests. 0 means unlimited.
	ReadPerMin int `yaml:"read_per_min"`
	// WritePerMin limits POST, PATCH and DELETE requests. 0 means unlimited.
	WritePerMin int `yaml:"write_per_min"`
}

// Validate checks that rate limit values are non-negative.
func (r *RateLimits) Validate() error {
	if r.ReadPerMin < 0 {
		return errors.New("read_per_min must be non-negative")
	}
	if r.WritePerMin < 0 {
		return errors.New("write_per_min must be non-negative")
	}
	return nil
}

// Quotas defines resource limits.
type Quotas struct {
	// MaxRequestBodyBytes limits the size of any single HTTP request body.
	MaxRequestBodyBytes int64 `yaml:"max_request_body_bytes"`
}

// Validate checks that the body limit is positive.
func (q *Quotas) Validate() error {
	if q.MaxRequestBodyBytes <= 0 {
		return errors.New("max_request_body_bytes must be positive")
	}
	return nil
}

// History configures recording of every version of the data document in git.
// Only supported by the file driver.
type History struct {
	Enabled     bool   `yaml:"enabled"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Storage: Storage{
			Driver:     string(snapshot.DriverFile),
			File:       "users.json",
			SQLitePath: "users.db",
			S3:         S3{Key: "users.json", Region: "us-east-1"},
		},
		CORS: CORS{
			AllowedOrigin:  "http://localhost:5173",
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE"},
		},
		RateLimits: RateLimits{
			ReadPerMin:  6000,
			WritePerMin: 600,
		},
		Quotas: Quotas{
			MaxRequestBodyBytes: 64 * 1024, // 64 KiB
		},
		History: History{
			AuthorName:  "userdb",
			AuthorEmail: "userdb@localhost",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.CORS.Validate(); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.RateLimits.Validate(); err != nil {
		return fmt.Errorf("rate_limits: %w", err)
	}
	if err := c.Quotas.Validate(); err != nil {
		return fmt.Errorf("quotas: %w", err)
	}
	if c.History.Enabled && c.Storage.Driver != string(snapshot.DriverFile) {
		return errors.New("history: only supported with the file driver")
	}
	return nil
}

// Load loads configuration from path. Creates the file with defaults if it
// doesn't exist. Keys absent from the file keep their default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from a flag
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	// 0o600: postgres_dsn may hold a password.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// SnapshotOptions returns the store options with relative paths resolved
// against dataDir.
func (c *Config) SnapshotOptions(dataDir string) *snapshot.Options {
	return &snapshot.Options{
		Driver:      snapshot.Driver(c.Storage.Driver),
		File:        resolve(dataDir, c.Storage.File),
		SQLitePath:  resolve(dataDir, c.Storage.SQLitePath),
		PostgresDSN: c.Storage.PostgresDSN,
		S3: snapshot.S3Config{
			Bucket:    c.Storage.S3.Bucket,
			Key:       c.Storage.S3.Key,
			Region:    c.Storage.S3.Region,
			Endpoint:  c.Storage.S3.Endpoint,
			PathStyle: c.Storage.S3.PathStyle,
		},
	}
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
