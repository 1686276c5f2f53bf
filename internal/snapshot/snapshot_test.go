package snapshot

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// openers returns a constructor per driver that can run without network.
func openers() map[Driver]func(t *testing.T) Store {
	return map[Driver]func(t *testing.T) Store{
		DriverFile: func(t *testing.T) Store {
			s, err := NewFile(filepath.Join(t.TempDir(), "sub", "users.json"))
			if err != nil {
				t.Fatalf("NewFile failed: %v", err)
			}
			return s
		},
		DriverSQLite: func(t *testing.T) Store {
			s, err := NewSQLite(t.Context(), filepath.Join(t.TempDir(), "users.db"))
			if err != nil {
				t.Fatalf("NewSQLite failed: %v", err)
			}
			return s
		},
		DriverMemory: func(t *testing.T) Store {
			return NewMemory(nil)
		},
	}
}

func TestStore(t *testing.T) {
	for driver, open := range openers() {
		t.Run(string(driver), func(t *testing.T) {
			t.Run("load empty", func(t *testing.T) {
				s := open(t)
				t.Cleanup(func() { _ = s.Close() })
				if _, err := s.Load(t.Context()); !errors.Is(err, ErrNotFound) {
					t.Fatalf("Load() error = %v, want ErrNotFound", err)
				}
				if got := s.Driver(); got != driver {
					t.Errorf("Driver() = %q, want %q", got, driver)
				}
			})
			t.Run("save overwrites", func(t *testing.T) {
				s := open(t)
				t.Cleanup(func() { _ = s.Close() })
				docs := [][]byte{
					[]byte(`[{"id":1,"name":"Asha","age":30,"city":"Pune"}]` + "\n"),
					[]byte("[]\n"),
					[]byte(`[{"id":2,"name":"Ravi","age":41,"city":"Delhi"}]` + "\n"),
				}
				for i, doc := range docs {
					if err := s.Save(t.Context(), doc); err != nil {
						t.Fatalf("Save(%d) failed: %v", i, err)
					}
					got, err := s.Load(t.Context())
					if err != nil {
						t.Fatalf("Load(%d) failed: %v", i, err)
					}
					if !bytes.Equal(got, doc) {
						t.Errorf("Load(%d) = %q, want %q", i, got, doc)
					}
				}
			})
		})
	}
}

func TestFile(t *testing.T) {
	t.Run("no temp files left behind", func(t *testing.T) {
		dir := t.TempDir()
		s, err := NewFile(filepath.Join(dir, "users.json"))
		if err != nil {
			t.Fatal(err)
		}
		for range 3 {
			if err := s.Save(t.Context(), []byte("[]\n")); err != nil {
				t.Fatal(err)
			}
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 || entries[0].Name() != "users.json" {
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			t.Errorf("directory contents = %v, want [users.json]", names)
		}
	})
	t.Run("reads existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "users.json")
		want := []byte(`[{"id":1,"name":"A","age":1,"city":"B"}]`)
		if err := os.WriteFile(path, want, 0o600); err != nil {
			t.Fatal(err)
		}
		s, err := NewFile(path)
		if err != nil {
			t.Fatal(err)
		}
		got, err := s.Load(t.Context())
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Load() = %q, want %q", got, want)
		}
		if s.Path() != path {
			t.Errorf("Path() = %q, want %q", s.Path(), path)
		}
	})
	t.Run("empty path", func(t *testing.T) {
		if _, err := NewFile(""); err == nil {
			t.Error("expected error for empty path")
		}
	})
}

func TestMemory(t *testing.T) {
	t.Run("initial", func(t *testing.T) {
		m := NewMemory([]byte("[]"))
		got, err := m.Load(t.Context())
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "[]" {
			t.Errorf("Load() = %q", got)
		}
		if m.Saves() != 0 {
			t.Errorf("Saves() = %d, want 0", m.Saves())
		}
	})
	t.Run("fail saves", func(t *testing.T) {
		m := NewMemory([]byte("[]"))
		boom := errors.New("disk full")
		m.FailSaves(boom)
		if err := m.Save(t.Context(), []byte("x")); !errors.Is(err, boom) {
			t.Fatalf("Save() error = %v, want %v", err, boom)
		}
		got, _ := m.Load(t.Context())
		if string(got) != "[]" {
			t.Errorf("failed Save changed the document to %q", got)
		}
		m.FailSaves(nil)
		if err := m.Save(t.Context(), []byte("x")); err != nil {
			t.Fatal(err)
		}
		if m.Saves() != 1 {
			t.Errorf("Saves() = %d, want 1", m.Saves())
		}
	})
	t.Run("load returns a copy", func(t *testing.T) {
		m := NewMemory([]byte("abc"))
		got, _ := m.Load(t.Context())
		got[0] = 'z'
		again, _ := m.Load(t.Context())
		if string(again) != "abc" {
			t.Errorf("Load() = %q after mutating a previous result", again)
		}
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	tests := []struct {
		name string
		opts Options
		want Driver
	}{
		{"default", Options{File: filepath.Join(dir, "a.json")}, DriverFile},
		{"file", Options{Driver: DriverFile, File: filepath.Join(dir, "b.json")}, DriverFile},
		{"sqlite", Options{Driver: DriverSQLite, SQLitePath: filepath.Join(dir, "c.db")}, DriverSQLite},
		{"memory", Options{Driver: DriverMemory}, DriverMemory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, &tt.opts)
			if err != nil {
				t.Fatalf("Open() failed: %v", err)
			}
			t.Cleanup(func() { _ = s.Close() })
			if s.Driver() != tt.want {
				t.Errorf("Driver() = %q, want %q", s.Driver(), tt.want)
			}
		})
	}
	t.Run("errors", func(t *testing.T) {
		bad := []Options{
			{Driver: "cassette"},
			{Driver: DriverSQLite},
			{Driver: DriverPostgres},
			{Driver: DriverS3},
		}
		for _, opts := range bad {
			if _, err := Open(ctx, &opts); err == nil {
				t.Errorf("Open(%+v) succeeded, want error", opts)
			}
		}
	})
}
