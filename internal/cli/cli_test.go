package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kishore-freak653/CRUD-Application/internal/config"
	"github.com/kishore-freak653/CRUD-Application/internal/server"
	"github.com/kishore-freak653/CRUD-Application/internal/snapshot"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/users"
)

func startServer(t *testing.T, doc string) string {
	t.Helper()
	svc, err := users.NewService(t.Context(), snapshot.NewMemory([]byte(doc)), users.Options{})
	require.NoError(t, err)
	cfg := config.Default()
	srv := server.New(&server.Options{Users: svc, Config: &cfg, Version: "test"})
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return ts.URL
}

func run(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", url}, args...))
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "userctl", cmd.Use)
	for _, name := range []string{"list", "add", "edit", "delete"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	f := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, f)
	assert.Equal(t, "text", f.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, "http://127.0.0.1:1", "list", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestCommands(t *testing.T) {
	url := startServer(t, `[{"id":1,"name":"Ann","age":20,"city":"Paris"}]`)

	out, err := run(t, url, "add", "--name", "Bob", "--age", "30", "--city", "Oslo")
	require.NoError(t, err)
	assert.Equal(t, "User detail added successfully (id 2)\n", out)

	out, err = run(t, url, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "Bob")

	out, err = run(t, url, "list", "--search", "OSLO")
	require.NoError(t, err)
	assert.NotContains(t, out, "Ann")
	assert.Contains(t, out, "Bob")

	out, err = run(t, url, "edit", "1", "--name", "Ann", "--age", "21", "--city", "Lyon")
	require.NoError(t, err)
	assert.Equal(t, "User detail updated successfully\n", out)

	out, err = run(t, url, "--format", "json", "list", "-s", "lyon")
	require.NoError(t, err)
	var resp struct {
		Status string       `json:"status"`
		Data   []users.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, int64(1), resp.Data[0].ID)
	assert.Equal(t, "21", resp.Data[0].Age.String())

	out, err = run(t, url, "delete", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "Ann")
	assert.Contains(t, out, "Bob")
}

func TestWarnings(t *testing.T) {
	url := startServer(t, `[{"id":1,"name":"Ann","age":20,"city":"Paris"}]`)

	out, err := run(t, url, "add", "--name", "Ann", "--age", "20", "--city", "Paris")
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Equal(t, "Warning: User already exists\n", out)

	out, err = run(t, url, "--format", "json", "add", "--name", "Cy")
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.JSONEq(t, `{"status":"error","message":"All fields are required"}`, out)

	_, err = run(t, url, "edit", "9", "--name", "A", "--age", "1", "--city", "X")
	require.Error(t, err)
	assert.False(t, IsReported(err))
	assert.Contains(t, err.Error(), "404")
}

func TestParseID(t *testing.T) {
	for _, s := range []string{"0", "-1", "x", "1.5"} {
		_, err := parseID(s)
		assert.Error(t, err, s)
	}
	id, err := parseID("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
}
