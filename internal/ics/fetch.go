// Package ics connects the scheduler to iCalendar data: importing holiday
// feeds as forbidden dates and exporting the finished schedule as a
// calendar.
package ics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	appLog "groupmeet/internal/log"
)

// cacheMeta holds the HTTP cache metadata stored alongside a cached feed
// body.
type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher downloads a holiday ICS feed with conditional requests
// (ETag / Last-Modified) backed by a small disk cache, so repeated runs do
// not re-download an unchanged feed and network failures can fall back to
// the last known body.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

// NewFetcher creates a Fetcher caching under cacheDir.
func NewFetcher(cacheDir string) *Fetcher {
	if cacheDir == "" {
		cacheDir = "./var/holiday-cache"
	}
	return &Fetcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		cacheDir: cacheDir,
	}
}

// Fetch returns the feed body for feedURL, from the network or from cache.
// The second return value is true when the body came from the cache.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]byte, bool, error) {
	if feedURL == "" {
		return nil, false, errors.New("feed URL is empty")
	}

	dir := filepath.Join(f.cacheDir, urlKey(feedURL))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, false, err
	}

	meta := f.loadMeta(dir)
	cached, _ := os.ReadFile(filepath.Join(dir, "body.ics"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, false, err
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if len(cached) > 0 {
			appLog.Warn("holiday feed fetch failed, using cached body", "url", redactURL(feedURL), "err", err)
			return cached, true, nil
		}
		return nil, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, false, err
		}
		f.saveCache(dir, cacheMeta{
			URL:          feedURL,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			UpdatedAt:    time.Now().UTC(),
		}, body)
		appLog.Info("holiday feed fetched", "url", redactURL(feedURL), "bytes", len(body))
		return body, false, nil

	case http.StatusNotModified:
		if len(cached) == 0 {
			return nil, false, errors.New("304 Not Modified but no cached body")
		}
		appLog.Info("holiday feed unchanged, using cache", "url", redactURL(feedURL))
		return cached, true, nil

	default:
		if len(cached) > 0 {
			appLog.Warn("holiday feed returned non-OK status, using cached body",
				"url", redactURL(feedURL), "status", resp.StatusCode)
			return cached, true, nil
		}
		return nil, false, errors.New(resp.Status)
	}
}

func (f *Fetcher) loadMeta(dir string) cacheMeta {
	var meta cacheMeta
	data, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		return meta
	}
	_ = json.Unmarshal(data, &meta)
	return meta
}

func (f *Fetcher) saveCache(dir string, meta cacheMeta, body []byte) {
	// Body first, so meta never points at a missing body.
	if err := os.WriteFile(filepath.Join(dir, "body.ics"), body, 0o600); err != nil {
		appLog.Warn("failed to cache holiday feed body", "err", err)
		return
	}
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(filepath.Join(dir, "meta.json"), data, 0o600); err != nil {
		appLog.Warn("failed to cache holiday feed metadata", "err", err)
	}
}

// urlKey derives a stable cache directory name from a feed URL.
func urlKey(u string) string {
	sum := sha256.Sum256([]byte(u))
	return hex.EncodeToString(sum[:8])
}

// redactURL strips path and query from a URL for logging; holiday feed URLs
// sometimes embed access tokens.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "ics://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
