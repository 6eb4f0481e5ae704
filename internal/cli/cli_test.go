package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-hms/users"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func identityJSON(role users.Role) map[string]any {
	return map[string]any{
		"id":       int64(7),
		"username": "drgrey",
		"email":    "grey@hospital.test",
		"role":     string(role),
	}
}

func newAPIServer(t *testing.T, role users.Role) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "correct-horse" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access":  "access-token",
			"refresh": "refresh-token",
			"user":    identityJSON(role),
		})
	})
	mux.HandleFunc("GET /api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Token is invalid or expired"})
			return
		}
		_ = json.NewEncoder(w).Encode(identityJSON(role))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLoginStoresSession(t *testing.T) {
	server := newAPIServer(t, users.RoleDoctor)
	dataDir := t.TempDir()

	err := execute(t, "login", "drgrey", "-p", "correct-horse",
		"--server", server.URL, "--data-dir", dataDir, "--no-color")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dataDir, "credentials.json"))
	require.NoError(t, statErr)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	server := newAPIServer(t, users.RoleDoctor)
	dataDir := t.TempDir()

	err := execute(t, "login", "drgrey", "-p", "wrong",
		"--server", server.URL, "--data-dir", dataDir, "--no-color")
	require.ErrorContains(t, err, "Invalid credentials")

	_, statErr := os.Stat(filepath.Join(dataDir, "credentials.json"))
	require.True(t, os.IsNotExist(statErr))
}

func TestWhoamiAfterLogin(t *testing.T) {
	server := newAPIServer(t, users.RoleDoctor)
	dataDir := t.TempDir()

	require.NoError(t, execute(t, "login", "drgrey", "-p", "correct-horse",
		"--server", server.URL, "--data-dir", dataDir, "--no-color"))

	// A fresh invocation restores the session from the stored credentials
	err := execute(t, "whoami", "--server", server.URL, "--data-dir", dataDir, "--no-color")
	require.NoError(t, err)
}

func TestCommandsRequireLogin(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(server.Close)

	err := execute(t, "patients", "list",
		"--server", server.URL, "--data-dir", t.TempDir(), "--no-color")
	require.ErrorContains(t, err, "not signed in")
	require.Zero(t, calls.Load(), "an anonymous command must not call the API")
}

func TestRoleGateRejectsWrongRole(t *testing.T) {
	server := newAPIServer(t, users.RoleDoctor)
	dataDir := t.TempDir()

	require.NoError(t, execute(t, "login", "drgrey", "-p", "correct-horse",
		"--server", server.URL, "--data-dir", dataDir, "--no-color"))

	err := execute(t, "tasks", "my", "--server", server.URL, "--data-dir", dataDir, "--no-color")
	require.ErrorContains(t, err, "doctor role cannot use this command")
}
