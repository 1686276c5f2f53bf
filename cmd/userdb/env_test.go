package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		env, err := loadDotEnv(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if len(env) != 0 {
			t.Fatalf("got %v", env)
		}
	})
	t.Run("Values", func(t *testing.T) {
		dir := t.TempDir()
		content := "# comment\n\nHTTP=:9000\nLOG_LEVEL = debug\nGEO_DB=\"/tmp/a b.mmdb\"\nESC=\"x\\ty\"\ninvalid line\nEMPTY=\n"
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		env, err := loadDotEnv(dir)
		if err != nil {
			t.Fatal(err)
		}
		want := map[string]string{
			"HTTP":      ":9000",
			"LOG_LEVEL": "debug",
			"GEO_DB":    "/tmp/a b.mmdb",
			"ESC":       "x\ty",
			"EMPTY":     "",
		}
		if len(env) != len(want) {
			t.Fatalf("got %v, want %v", env, want)
		}
		for k, v := range want {
			if env[k] != v {
				t.Errorf("%s = %q, want %q", k, env[k], v)
			}
		}
	})
	for _, line := range []string{"A='x'", "A='x", "A=\"x"} {
		t.Run("Invalid", func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(line+"\n"), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := loadDotEnv(dir); err == nil {
				t.Fatalf("%s: expected error", line)
			}
		})
	}
}

func TestDropZero(t *testing.T) {
	for _, tc := range []struct {
		name string
		keep bool
		val  any
		key  string
	}{
		{"empty string", false, "", "k"},
		{"string", true, "x", "k"},
		{"false", false, false, "k"},
		{"true", true, true, "k"},
		{"nil", false, nil, "k"},
		{"localhost v4", false, "127.0.0.1", "ip"},
		{"localhost v6", false, "::1", "ip"},
		{"remote ip", true, "203.0.113.1", "ip"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := dropZero(slog.Any(tc.key, tc.val))
			if kept := got.Key != ""; kept != tc.keep {
				t.Fatalf("kept = %t, want %t", kept, tc.keep)
			}
		})
	}
}
