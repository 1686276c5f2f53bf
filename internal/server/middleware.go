// Provides request logging and CORS middleware.

package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/maruel/ksid"

	"github.com/kishore-freak653/CRUD-Application/internal/config"
	"github.com/kishore-freak653/CRUD-Application/internal/metrics"
	"github.com/kishore-freak653/CRUD-Application/internal/server/ipgeo"
	"github.com/kishore-freak653/CRUD-Application/internal/server/reqctx"
)

// statusRecorder captures the status code written by the next handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.size += n
	return n, err
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// logRequests assigns a request id, resolves the client's country, records
// metrics and logs one line per request.
func logRequests(next http.Handler, geo *ipgeo.Checker, m *metrics.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := ksid.NewID()
		ip := reqctx.GetClientIP(r)
		country := geo.CountryCode(ip)
		ctx := reqctx.WithRequestID(r.Context(), id)
		ctx = reqctx.WithClientIP(ctx, ip)
		ctx = reqctx.WithCountryCode(ctx, country)
		r = r.WithContext(ctx)

		w.Header().Set("X-Request-ID", id.String())
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		d := time.Since(start)

		// ServeMux stores the matched pattern on the request it was given.
		if m != nil {
			m.ObserveRequest(r.Pattern, r.Method, rec.status, d)
		}
		slog.InfoContext(ctx, "http",
			"id", id,
			"m", r.Method,
			"p", r.URL.Path,
			"s", rec.status,
			"sz", rec.size,
			"d", d.Round(time.Millisecond/10),
			"ip", ip,
			"cc", country,
		)
	})
}

// allowCORS adds cross-origin headers for the configured origin and answers
// preflight requests with 204.
func allowCORS(next http.Handler, cfg *config.CORS) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cfg.AllowedOrigin != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", cfg.AllowedOrigin)
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
