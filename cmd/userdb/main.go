// Package main is the entry point for the userdb server.
//
// userdb stores user records (name, age, city) in a single JSON document and
// exposes them over an HTTP API. Configuration is read from CLI flags, a .env
// file in the data directory, and config.yaml (storage driver, CORS, rate
// limits, quotas, history).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/kishore-freak653/CRUD-Application/internal/config"
	"github.com/kishore-freak653/CRUD-Application/internal/jsondb"
	"github.com/kishore-freak653/CRUD-Application/internal/metrics"
	"github.com/kishore-freak653/CRUD-Application/internal/server"
	"github.com/kishore-freak653/CRUD-Application/internal/server/ipgeo"
	"github.com/kishore-freak653/CRUD-Application/internal/snapshot"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/git"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/users"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "userdb: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	version := flag.Bool("version", false, "Print version and exit")
	httpAddr := flag.String("http", "localhost:8000", "Address to listen on (e.g., localhost:8000, :8000, 0.0.0.0:8000). Use 0.0.0.0:port to listen on all interfaces.")
	dataDir := flag.String("data-dir", "./data", "Data directory")
	configPath := flag.String("config", "", "Path to config.yaml (default: <data-dir>/config.yaml)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	geoDB := flag.String("geo-db", "", "Path to MaxMind MMDB file for IP geolocation (optional)")
	initDB := flag.Bool("init", false, "Create an empty collection if none exists")
	watch := flag.Bool("watch", false, "Reload the collection when the data file is edited externally (file driver only)")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}

	if *version {
		printVersion()
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	ll := &slog.LevelVar{}
	ll.Set(slog.LevelInfo)
	// Skip timestamps when running under systemd (it adds its own).
	underSystemd := os.Getenv("JOURNAL_STREAM") != ""
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if underSystemd && a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return dropZero(a)
		},
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(*dataDir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	env, err := loadDotEnv(*dataDir)
	if err != nil {
		return err
	}

	// Override with .env file values if not explicitly set via flags
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if !set["http"] {
		if v := env["HTTP"]; v != "" {
			*httpAddr = v
		}
	}
	if !set["log-level"] {
		if v := env["LOG_LEVEL"]; v != "" {
			*logLevel = v
		}
	}
	if !set["geo-db"] {
		if v := env["GEO_DB"]; v != "" {
			*geoDB = v
		}
	}

	// Normalize addr: ":8000" becomes "localhost:8000"
	addr := *httpAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	switch *logLevel {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %q", *logLevel)
	}

	if *configPath == "" {
		*configPath = filepath.Join(*dataDir, "config.yaml")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", *configPath, err)
	}

	storeOpts := cfg.SnapshotOptions(*dataDir)
	store, err := snapshot.Open(ctx, storeOpts)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", storeOpts.Driver, err)
	}
	defer func() { _ = store.Close() }()
	if *initDB || store.Driver() == snapshot.DriverMemory {
		created, err := jsondb.Init(ctx, store)
		if err != nil {
			return err
		}
		if created {
			slog.InfoContext(ctx, "Created empty collection", "driver", store.Driver())
		}
	}

	svc, err := users.NewService(ctx, store, users.Options{LenientUpdate: cfg.LenientUpdate})
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return fmt.Errorf("%w (run with -init to create an empty collection)", err)
		}
		return err
	}
	slog.InfoContext(ctx, "Loaded collection", "driver", store.Driver(), "records", svc.Len())

	var history *git.History
	if cfg.History.Enabled {
		dir, file := filepath.Split(storeOpts.File)
		history, err = git.Open(dir, file, git.Author{Name: cfg.History.AuthorName, Email: cfg.History.AuthorEmail})
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		if err := history.Commit(ctx, "Initial version"); err != nil {
			return fmt.Errorf("failed to record initial version: %w", err)
		}
		slog.InfoContext(ctx, "History enabled", "dir", dir)
	}

	if *watch {
		if store.Driver() != snapshot.DriverFile {
			return fmt.Errorf("-watch requires the file driver, got %s", store.Driver())
		}
		if err := watchDataFile(ctx, storeOpts.File, svc.Reload); err != nil {
			return fmt.Errorf("failed to watch data file: %w", err)
		}
	}

	// Watch own executable for modifications (for development restarts)
	if err := watchExecutable(ctx, stop); err != nil {
		return fmt.Errorf("failed to watch executable: %w", err)
	}

	// Open IP geolocation database if configured
	var geoChecker *ipgeo.Checker
	if *geoDB != "" {
		geoChecker, err = ipgeo.Open(*geoDB)
		if err != nil {
			return fmt.Errorf("failed to open geo database: %w", err)
		}
		defer func() { _ = geoChecker.Close() }()
		slog.InfoContext(ctx, "IP geolocation enabled", "db", *geoDB)
	}

	buildVersion, _, _, _ := getBuildInfo()
	router := server.New(&server.Options{
		Users:   svc,
		Config:  cfg,
		Version: buildVersion,
		History: history,
		Geo:     geoChecker,
		Metrics: metrics.New(),
	})
	defer router.Close()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "Starting server", "addr", addr, "version", buildVersion)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.InfoContext(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		slog.InfoContext(ctx, "Server stopped")
	}
	return nil
}

// dropZero removes attributes that carry no information: zero values and
// localhost client IPs.
func dropZero(a slog.Attr) slog.Attr {
	if a.Key == "ip" {
		if v := a.Value.String(); v == "127.0.0.1" || v == "::1" {
			return slog.Attr{}
		}
	}
	skip := false
	switch t := a.Value.Any().(type) {
	case string:
		skip = t == ""
	case bool:
		skip = !t
	case uint64:
		skip = t == 0
	case int64:
		skip = t == 0
	case float64:
		skip = t == 0
	case time.Time:
		skip = t.IsZero()
	case time.Duration:
		skip = t == 0
	case nil:
		skip = true
	}
	if skip {
		return slog.Attr{}
	}
	return a
}

func printVersion() {
	version, goVersion, revision, dirty := getBuildInfo()
	fmt.Printf("userdb %s\n", version)
	fmt.Printf("  Go version: %s\n", goVersion)
	fmt.Printf("  Revision:   %s\n", revision)
	if dirty {
		fmt.Printf("  Modified:   true\n")
	}
}

func getBuildInfo() (version, goVersion, revision string, dirty bool) {
	version = "unknown"
	goVersion = "unknown"
	revision = "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	version = info.Main.Version
	if version == "" || version == "(devel)" {
		version = "dev"
	}
	goVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	return
}
