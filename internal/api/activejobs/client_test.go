package activejobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(server.URL, "test-host", "test-key", SearchParams{
		TitleFilter: "cyber security",
		Limit:       50,
		RemoteOnly:  true,
		IncludeAI:   true,
	}, 5*time.Second, zap.NewNop())
}

func TestFetchListings(t *testing.T) {
	var attempts int

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++

		assert.Equal(t, "test-key", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "test-host", r.Header.Get("X-RapidAPI-Host"))
		assert.Equal(t, "/active-ats-7d", r.URL.Path)
		assert.Equal(t, "cyber security", r.URL.Query().Get("title_filter"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "true", r.URL.Query().Get("remote"))
		assert.Equal(t, "true", r.URL.Query().Get("include_ai"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"j1","title":"Security Engineer","organization":"Acme"}]`))
	})

	listings, err := client.FetchListings(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Security Engineer", *listings[0].Title)
	assert.Equal(t, 1, attempts)
}

func TestFetchListings_UpstreamErrorSingleAttempt(t *testing.T) {
	var attempts int

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"quota exceeded"}`))
	})

	_, err := client.FetchListings(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "quota exceeded")

	// One attempt only, never retried.
	assert.Equal(t, 1, attempts)
}

func TestFetchListings_MissingKey(t *testing.T) {
	client := New("http://example.invalid", "host", "", SearchParams{}, time.Second, zap.NewNop())

	_, err := client.FetchListings(context.Background())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestFetchListings_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	})

	_, err := client.FetchListings(context.Background())
	assert.Error(t, err)
}
