package users

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/kishore-freak653/CRUD-Application/internal/snapshot"
)

// TestDocumentFormat pins the bytes written to disk.
func TestDocumentFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte(`[{"id":1,"name":"A","age":20,"city":"X"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	store, err := snapshot.NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	svc, err := NewService(t.Context(), store, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(t.Context(), fields("B", 30, "Y")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Delete(t.Context(), 1); err != nil {
		t.Fatal(err)
	}
	age, err := ParseAge("41.5")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(t.Context(), Fields{Name: "Renée <R&D>", Age: age, City: "Zürich"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "users", data)
}
