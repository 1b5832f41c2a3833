package v2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thand-io/components/internal/api"
)

func TestNewClient(t *testing.T) {
	t.Run("empty base url fails", func(t *testing.T) {
		_, err := NewClient(api.Config{})
		assert.ErrorIs(t, err, api.ErrEmptyBaseURL)
	})

	t.Run("adds version suffix", func(t *testing.T) {
		client, err := NewClient(api.Config{BaseURL: "https://api.example.com/"})
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/v2", client.BaseURL())
		assert.Equal(t, api.DefaultTimeout, client.Timeout())
	})

	t.Run("keeps existing version suffix", func(t *testing.T) {
		client, err := NewClient(api.Config{BaseURL: "https://api.example.com/v2/"})
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/v2", client.BaseURL())
	})
}

func TestClient_Requests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/documents":
			w.Write([]byte(`{"data":[{"id":"doc-1"}],"meta":{"total":1}}`))
		case "/v2/only-data":
			w.Write([]byte(`{"data":{"id":"x"}}`))
		case "/v2/plain":
			w.Write([]byte(`{"data":1,"other":2}`))
		case "/v2/missing":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"errors":[{"title":"Not Found","detail":"document doc-9 does not exist"}]}`))
		case "/v2/legacy-error":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"bad query"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client, err := NewClient(api.Config{BaseURL: server.URL})
	require.NoError(t, err)

	var c api.Client = client

	t.Run("unwraps envelope with meta", func(t *testing.T) {
		success, ok := c.Get(context.Background(), "/documents", api.RequestOptions{}).(api.Success)
		require.True(t, ok)
		assert.Equal(t, []any{map[string]any{"id": "doc-1"}}, success.Data)
	})

	t.Run("unwraps data only envelope", func(t *testing.T) {
		success, ok := c.Get(context.Background(), "/only-data", api.RequestOptions{}).(api.Success)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"id": "x"}, success.Data)
	})

	t.Run("leaves non envelope bodies", func(t *testing.T) {
		success, ok := c.Get(context.Background(), "/plain", api.RequestOptions{}).(api.Success)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"data": float64(1), "other": float64(2)}, success.Data)
	})

	t.Run("reads v2 error detail", func(t *testing.T) {
		failure, ok := c.Get(context.Background(), "/missing", api.RequestOptions{}).(api.Failure)
		require.True(t, ok)
		assert.Equal(t, api.ErrorKindHttpError, failure.Error.Kind)
		assert.Equal(t, http.StatusNotFound, failure.Error.StatusCode)
		assert.Equal(t, "document doc-9 does not exist", failure.Error.Message)
	})

	t.Run("falls back to shared extraction", func(t *testing.T) {
		failure, ok := c.Delete(context.Background(), "/legacy-error", api.RequestOptions{}).(api.Failure)
		require.True(t, ok)
		assert.Equal(t, "bad query", failure.Error.Message)
	})
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
		ok       bool
	}{
		{name: "detail preferred", body: `{"errors":[{"title":"t","detail":"d"}]}`, expected: "d", ok: true},
		{name: "title fallback", body: `{"errors":[{"title":"t"}]}`, expected: "t", ok: true},
		{name: "message fallback", body: `{"errors":[{"message":"m"}]}`, expected: "m", ok: true},
		{name: "empty errors", body: `{"errors":[]}`, ok: false},
		{name: "invalid json", body: `nope`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message, ok := errorMessage([]byte(tt.body))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, message)
		})
	}
}
