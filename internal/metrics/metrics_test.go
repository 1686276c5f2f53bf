package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest("POST /users", http.MethodPost, http.StatusOK, 3*time.Millisecond)
	m.ObserveRequest("POST /users", http.MethodPost, http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest("", http.MethodGet, http.StatusNotFound, time.Millisecond)
	m.SetRecords(7)
	m.PersistenceFailed()
	m.RateLimited("write")

	body := scrape(t, m)
	for _, want := range []string{
		`userdb_http_requests_total{code="200",method="POST",route="POST /users"} 2`,
		`userdb_http_requests_total{code="404",method="GET",route="unmatched"} 1`,
		`userdb_http_request_duration_seconds_count{method="POST",route="POST /users"} 2`,
		`userdb_records 7`,
		`userdb_persistence_failures_total 1`,
		`userdb_rate_limited_total{tier="write"} 1`,
		`go_goroutines`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape is missing %q", want)
		}
	}
}

func TestNewIsIsolated(t *testing.T) {
	a, b := New(), New()
	a.SetRecords(3)
	if strings.Contains(scrape(t, b), "userdb_records 3") {
		t.Error("registries share state")
	}
}
