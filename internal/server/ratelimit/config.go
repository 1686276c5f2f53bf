// Defines rate limit tiers and routing rules.

package ratelimit

import (
	"net/http"
	"time"
)

// Tier is a named limiter applied per client IP.
type Tier struct {
	Name    string
	Limiter *Limiter
}

// Config holds the read and write tiers. A nil tier is unlimited.
type Config struct {
	Read  *Tier
	Write *Tier
}

// New creates a Config from per-minute limits. A limit of 0 disables the
// tier. The burst equals the per-minute limit so a client may spend a whole
// minute of budget at once.
func New(readPerMin, writePerMin int) *Config {
	c := &Config{}
	if readPerMin > 0 {
		c.Read = &Tier{Name: "read", Limiter: NewLimiter(readPerMin, time.Minute, readPerMin)}
	}
	if writePerMin > 0 {
		c.Write = &Tier{Name: "write", Limiter: NewLimiter(writePerMin, time.Minute, writePerMin)}
	}
	return c
}

// Match returns the tier for a request, or nil when it is not rate limited.
func (c *Config) Match(method, path string) *Tier {
	if c == nil || path == "/api/health" || path == "/metrics" {
		return nil
	}
	switch method {
	case http.MethodGet, http.MethodHead:
		return c.Read
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return c.Write
	default:
		return nil
	}
}

// Close stops all limiter cleanup goroutines.
func (c *Config) Close() {
	if c == nil {
		return
	}
	for _, t := range []*Tier{c.Read, c.Write} {
		if t != nil {
			t.Limiter.Close()
		}
	}
}
