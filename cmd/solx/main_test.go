package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solx/solx-api/internal/client/session"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": map[string]any{
					"accessToken": "tok",
					"user":        map[string]any{"id": "u1", "name": "Pat", "email": "pat@solx.io", "role": "PROJECT_MANAGER"},
				},
			})
		case "/api/auth/profile":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": map[string]any{
					"user": map[string]any{"id": "u1", "name": "Patricia", "email": "pat@solx.io", "role": "PROJECT_MANAGER"},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Route not found"})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newApp(t *testing.T, url string, stdin string) (*app, *bytes.Buffer) {
	t.Helper()
	client := session.NewClient(url)
	store := session.New(client, session.NewFilePersister(filepath.Join(t.TempDir(), "session.json")))
	var out bytes.Buffer
	return &app{client: client, store: store, out: &out, in: strings.NewReader(stdin), log: zerolog.Nop()}, &out
}

func TestRun_LoginNavCanLogout(t *testing.T) {
	t.Setenv("SOLX_PASSWORD", "")
	srv := fakeAPI(t)
	a, out := newApp(t, srv.URL, "secret\n")
	ctx := context.Background()

	require.NoError(t, a.run(ctx, "login", []string{"pat@solx.io"}))
	assert.Contains(t, out.String(), "signed in as Pat (PROJECT_MANAGER)")

	out.Reset()
	require.NoError(t, a.run(ctx, "nav", nil))
	assert.Contains(t, out.String(), "Projects")
	assert.NotContains(t, out.String(), "Users")

	out.Reset()
	require.NoError(t, a.run(ctx, "can", []string{"/settings"}))
	assert.Equal(t, "redirect:/access-denied\n", out.String())

	out.Reset()
	require.NoError(t, a.run(ctx, "set-name", []string{"Patricia"}))
	assert.Contains(t, out.String(), "Patricia")

	require.NoError(t, a.run(ctx, "logout", nil))
	out.Reset()
	require.NoError(t, a.run(ctx, "can", []string{"/dashboard"}))
	assert.Equal(t, "redirect:/login\n", out.String())
}

func TestRun_RequiresSession(t *testing.T) {
	a, _ := newApp(t, "http://127.0.0.1:1", "")
	assert.ErrorIs(t, a.run(context.Background(), "verify", nil), session.ErrNoSession)
	assert.ErrorIs(t, a.run(context.Background(), "nav", nil), session.ErrNoSession)
}

func TestRun_UnknownCommand(t *testing.T) {
	a, _ := newApp(t, "http://127.0.0.1:1", "")
	assert.Error(t, a.run(context.Background(), "frobnicate", nil))
}
