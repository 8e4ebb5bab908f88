package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetcher(t *testing.T) {
	const payload = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	ctx := context.Background()

	t.Run("first fetch hits the network", func(t *testing.T) {
		body, fromCache, err := f.Fetch(ctx, srv.URL)
		require.NoError(t, err)
		require.False(t, fromCache)
		require.Equal(t, payload, string(body))
	})

	t.Run("second fetch is served from cache via 304", func(t *testing.T) {
		body, fromCache, err := f.Fetch(ctx, srv.URL)
		require.NoError(t, err)
		require.True(t, fromCache)
		require.Equal(t, payload, string(body))
		require.Equal(t, 2, hits)
	})

	t.Run("network failure falls back to cache", func(t *testing.T) {
		srv.Close()
		body, fromCache, err := f.Fetch(ctx, srv.URL)
		require.NoError(t, err)
		require.True(t, fromCache)
		require.Equal(t, payload, string(body))
	})

	t.Run("empty URL is rejected", func(t *testing.T) {
		_, _, err := f.Fetch(ctx, "")
		require.Error(t, err)
	})
}

func TestRedactURL(t *testing.T) {
	require.Equal(t, "https://example.com/...(redacted)",
		redactURL("https://example.com/private/feed.ics?token=abcd"))
	require.Equal(t, "ics://...(redacted)", redactURL("::not a url::"))
}
