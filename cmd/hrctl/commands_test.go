package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrconsole/internal/api"
	"hrconsole/internal/platform/config"
	"hrconsole/internal/session"
	"hrconsole/internal/tokenstore"
)

type fixture struct {
	app    *app
	out    *bytes.Buffer
	errOut *bytes.Buffer
	store  *tokenstore.Memory
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := tokenstore.NewMemory()
	client := api.New(server.URL+"/api", store)
	out := &bytes.Buffer{}
	return &fixture{
		app: &app{
			client:       client,
			sess:         session.New(client.Auth(), store),
			out:          out,
			listLimit:    500,
			historyLimit: 10,
		},
		out:    out,
		errOut: &bytes.Buffer{},
		store:  store,
	}
}

func (f *fixture) run(args ...string) int {
	return f.app.run(context.Background(), args, f.errOut)
}

func respond(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestUnknownCommand(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	})

	assert.Equal(t, 2, f.run("fire"))
	assert.Contains(t, f.errOut.String(), "Unknown command: fire")
}

func TestLoginStoresToken(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var creds api.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ada@example.com", creds.Email)
		respond(w, http.StatusOK, `{"token":"tok","user":{"id":1,"name":"Ada","email":"ada@example.com","role":"user"}}`)
	})

	require.Equal(t, 0, f.run("login", "-email", "ada@example.com", "-password", "pw"))

	assert.Contains(t, f.out.String(), "Signed in as Ada")
	token, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestEmployeesFiltersLocally(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/employees/", r.URL.Path)
		assert.Equal(t, "500", r.URL.Query().Get("limit"))
		respond(w, http.StatusOK, `[
			{"id":1,"age":30,"department":"Sales","job_role":"Sales Representative","attrition":"Yes"},
			{"id":2,"age":41,"department":"Research & Development","job_role":"Research Scientist","attrition":"No"}
		]`)
	})

	require.Equal(t, 0, f.run("employees", "-status", "yes"))

	out := f.out.String()
	assert.Contains(t, out, "Sales Representative")
	assert.NotContains(t, out, "Research Scientist")
	assert.Contains(t, out, "Showing 1 of 2 employees")
}

func TestEmployeesRejectsBadStatus(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	})

	assert.Equal(t, 1, f.run("employees", "-status", "maybe"))
	assert.Contains(t, f.errOut.String(), "status")
}

func TestUnauthorizedSuggestsLogin(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusUnauthorized, `{"detail":"Not authenticated"}`)
	})

	assert.Equal(t, 1, f.run("dashboard"))
	assert.Contains(t, f.errOut.String(), "Not authenticated (run `hrctl login` first)")
}

func TestDeleteRequiresID(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	})

	assert.Equal(t, 2, f.run("delete"))
}

func TestBatchUploadsFile(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/predict/batch", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "staff.csv", header.Filename)
		respond(w, http.StatusOK, `{"total":1,"predictions":[{"Age":30,"prediction":1,"probability":0.7,"riskLevel":"High"}]}`)
	})
	path := filepath.Join(t.TempDir(), "staff.csv")
	require.NoError(t, os.WriteFile(path, []byte("Age\n30\n"), 0o600))

	require.Equal(t, 0, f.run("batch", "-file", path))

	assert.Contains(t, f.out.String(), "Predicted 1 employees")
	assert.Contains(t, f.out.String(), "High")
}

func TestExecuteReturnsExitCode(t *testing.T) {
	t.Run("command runs against the configured store", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "storage.json")
		require.NoError(t, tokenstore.NewFile(path).Save(context.Background(), "tok"))

		cfg := config.Config{APIURL: "http://127.0.0.1:1/api", TokenStore: config.TokenStoreFile, TokenFile: path, LogLevel: "error"}
		out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

		code := execute(context.Background(), cfg, []string{"logout"}, out, errOut)

		assert.Equal(t, 0, code, errOut.String())
		token, err := tokenstore.NewFile(path).Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("unknown token store fails before any command", func(t *testing.T) {
		cfg := config.Config{TokenStore: "etcd", LogLevel: "error"}
		errOut := &bytes.Buffer{}

		code := execute(context.Background(), cfg, []string{"whoami"}, &bytes.Buffer{}, errOut)

		assert.Equal(t, 1, code)
		assert.Contains(t, errOut.String(), "unknown token store")
	})
}
