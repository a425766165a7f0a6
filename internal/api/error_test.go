package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrconsole/internal/tokenstore"
)

func TestNormalizeError(t *testing.T) {
	t.Run("single validation item", func(t *testing.T) {
		err := NormalizeError(http.StatusUnprocessableEntity, []byte(`{"detail":[{"loc":["age"],"msg":"required"}]}`))

		assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
		assert.Equal(t, "age: required", err.Message)
		require.Len(t, err.ValidationIssues(), 1)
	})

	t.Run("empty detail list falls through", func(t *testing.T) {
		err := NormalizeError(http.StatusBadRequest, []byte(`{"detail":[],"message":"try again"}`))
		assert.Equal(t, "try again", err.Message)
	})

	t.Run("non-string message ignored", func(t *testing.T) {
		err := NormalizeError(http.StatusBadRequest, []byte(`{"message":{"nested":true},"error":"flat"}`))
		assert.Equal(t, "flat", err.Message)
	})

	t.Run("array body keeps details", func(t *testing.T) {
		err := NormalizeError(http.StatusBadRequest, []byte(`["a","b"]`))
		assert.Equal(t, DefaultErrorMessage, err.Message)
		assert.Equal(t, []any{"a", "b"}, err.Details)
		assert.Nil(t, err.ValidationIssues())
	})

	t.Run("empty body", func(t *testing.T) {
		err := NormalizeError(http.StatusInternalServerError, nil)
		assert.Equal(t, DefaultErrorMessage, err.Message)
		assert.Nil(t, err.Details)
	})
}

func TestSuccessBodyRoundTrip(t *testing.T) {
	const body = `{"totalEmployees":3,"nested":{"list":[1,"two",null,true]},"rate":0.25}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	var got map[string]any
	err := New(server.URL, tokenstore.NewMemory()).Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, &got)
	require.NoError(t, err)

	var want map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &want))
	assert.Equal(t, want, got)
}
