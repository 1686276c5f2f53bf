// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"

	"github.com/kishore-freak653/CRUD-Application/internal/config"
	"github.com/kishore-freak653/CRUD-Application/internal/metrics"
	"github.com/kishore-freak653/CRUD-Application/internal/server/handlers"
	"github.com/kishore-freak653/CRUD-Application/internal/server/ipgeo"
	"github.com/kishore-freak653/CRUD-Application/internal/server/ratelimit"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/git"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/users"
)

// Options configures the router.
type Options struct {
	Users   *users.Service
	Config  *config.Config
	Version string

	// Optional.
	History *git.History
	Geo     *ipgeo.Checker
	Metrics *metrics.Metrics
}

// Server is the HTTP API.
type Server struct {
	handler http.Handler
	limits  *ratelimit.Config
}

// New creates the router. Call Close to stop the rate limiter goroutines.
func New(opts *Options) *Server {
	cfg := opts.Config
	limits := ratelimit.New(cfg.RateLimits.ReadPerMin, cfg.RateLimits.WritePerMin)
	d := &Deps{
		MaxBodyBytes: cfg.Quotas.MaxRequestBodyBytes,
		Limits:       limits,
		History:      opts.History,
		Metrics:      opts.Metrics,
		Users:        opts.Users,
	}
	if opts.Metrics != nil {
		opts.Metrics.SetRecords(opts.Users.Len())
	}

	mux := &http.ServeMux{}
	uh := handlers.NewUserHandler(opts.Users)
	hh := handlers.NewHealthHandler(opts.Version, opts.Users)
	vh := handlers.NewHistoryHandler(opts.History)

	// Records. The browser client posts to /users/.
	mux.Handle("GET /users", Wrap(uh.ListUsers, d))
	mux.Handle("GET /users/{$}", Wrap(uh.ListUsers, d))
	mux.Handle("POST /users", Wrap(uh.CreateUser, d))
	mux.Handle("POST /users/{$}", Wrap(uh.CreateUser, d))
	mux.Handle("GET /users/{id}", Wrap(uh.GetUser, d))
	mux.Handle("PATCH /users/{id}", Wrap(uh.UpdateUser, d))
	mux.Handle("DELETE /users/{id}", Wrap(uh.DeleteUser, d))

	// Introspection.
	mux.Handle("GET /api/health", Wrap(hh.Health, d))
	mux.Handle("GET /api/schema", Wrap(handlers.Schema, d))
	mux.Handle("GET /api/history", Wrap(vh.ListHistory, d))
	mux.Handle("GET /api/history/{hash}", Wrap(vh.GetVersion, d))
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics.Handler())
	}

	var h http.Handler = mux
	h = allowCORS(h, &cfg.CORS)
	h = logRequests(h, opts.Geo, opts.Metrics)
	return &Server{handler: h, limits: limits}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close stops background work.
func (s *Server) Close() {
	s.limits.Close()
}
