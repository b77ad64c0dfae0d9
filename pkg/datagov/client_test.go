package datagov

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resource/abc-123", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("api-key"))
		assert.Equal(t, "csv", q.Get("format"))
		assert.Equal(t, "2000", q.Get("offset"))
		assert.Equal(t, "1000", q.Get("limit"))
		w.Write([]byte("a,b\n1,2\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "secret", time.Second)
	body, err := client.FetchPage(context.Background(), "abc-123", 2000, 1000)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", body)
}

func TestClient_FetchPage_Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "bad", time.Second).FetchPage(context.Background(), "id", 0, 10)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "invalid key")
	assert.False(t, statusErr.IsTransient())
	assert.True(t, (&StatusError{StatusCode: 503}).IsTransient())
}

func TestClient_FetchPage_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("a\n"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL, "k", time.Second).FetchPage(ctx, "id", 0, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
