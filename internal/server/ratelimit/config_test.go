package ratelimit

import (
	"net/http"
	"testing"
)

func TestConfig_Match(t *testing.T) {
	c := New(100, 10)
	defer c.Close()
	tests := []struct {
		method string
		path   string
		want   *Tier
	}{
		{http.MethodGet, "/users", c.Read},
		{http.MethodHead, "/users", c.Read},
		{http.MethodGet, "/users/3", c.Read},
		{http.MethodPost, "/users/", c.Write},
		{http.MethodPatch, "/users/3", c.Write},
		{http.MethodPut, "/users/3", c.Write},
		{http.MethodDelete, "/users/3", c.Write},
		{http.MethodOptions, "/users", nil},
		{http.MethodGet, "/api/health", nil},
		{http.MethodGet, "/metrics", nil},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if got := c.Match(tt.method, tt.path); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_Disabled(t *testing.T) {
	c := New(0, 5)
	defer c.Close()
	if c.Read != nil {
		t.Error("read tier should be disabled")
	}
	if got := c.Match(http.MethodGet, "/users"); got != nil {
		t.Errorf("Match(GET) = %v, want nil", got)
	}
	if got := c.Match(http.MethodPost, "/users"); got == nil || got.Name != "write" {
		t.Errorf("Match(POST) = %v, want write tier", got)
	}
	var nilCfg *Config
	if nilCfg.Match(http.MethodGet, "/users") != nil {
		t.Error("nil config should not limit")
	}
	nilCfg.Close()
}
