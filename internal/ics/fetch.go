package ics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eventline/internal/log"
)

// Feed is one calendar subscription. Its ID becomes the series key, and so
// the lane, of every event it yields.
type Feed struct {
	ID  string
	URL string
}

// Result is the body of one feed and where it came from.
type Result struct {
	Feed      Feed
	Body      []byte
	FromCache bool
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher downloads feeds with conditional requests and keeps the last good
// body on disk so a flaky upstream does not blank the timeline.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

// NewFetcher stores cached bodies under cacheDir (one directory per URL).
func NewFetcher(cacheDir string) *Fetcher {
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "eventline-ics")
	}
	return &Fetcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		cacheDir: cacheDir,
	}
}

// FetchAll fetches every feed. Failed feeds are logged, reported in the
// error slice and left out of the results.
func (f *Fetcher) FetchAll(ctx context.Context, feeds []Feed) ([]Result, []error) {
	results := make([]Result, 0, len(feeds))
	var errs []error
	for _, feed := range feeds {
		res, err := f.Fetch(ctx, feed)
		if err != nil {
			log.Error("ics fetch failed", err, "feed", feed.ID, "url", redactURL(feed.URL))
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

// Fetch returns the body of one feed. http(s) URLs go through the cache;
// file:// URLs and plain paths are read from disk.
func (f *Fetcher) Fetch(ctx context.Context, feed Feed) (Result, error) {
	if feed.URL == "" {
		return Result{}, fmt.Errorf("ics: feed %s: empty URL", feed.ID)
	}
	if path, ok := localPath(feed.URL); ok {
		body, err := os.ReadFile(path)
		if err != nil {
			return Result{}, fmt.Errorf("ics: feed %s: %w", feed.ID, err)
		}
		return Result{Feed: feed, Body: body}, nil
	}
	return f.fetchHTTP(ctx, feed)
}

func localPath(raw string) (string, bool) {
	if strings.HasPrefix(raw, "file://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false
		}
		return u.Path, true
	}
	if !strings.Contains(raw, "://") {
		return raw, true
	}
	return "", false
}

func (f *Fetcher) fetchHTTP(ctx context.Context, feed Feed) (Result, error) {
	sum := sha256.Sum256([]byte(feed.URL))
	dir := filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8]))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Result{}, fmt.Errorf("ics: cache dir: %w", err)
	}

	meta, _ := loadMeta(dir)
	cached, _ := os.ReadFile(filepath.Join(dir, "body.ics"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("ics: feed %s: %w", feed.ID, err)
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
			log.Warn("ics fetch failed, serving cache", "feed", feed.ID, "url", redactURL(feed.URL), "err", err.Error())
			return Result{Feed: feed, Body: cached, FromCache: true}, nil
		}
		return Result{}, fmt.Errorf("ics: feed %s: %w", feed.ID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return Result{}, fmt.Errorf("ics: feed %s: read body: %w", feed.ID, err)
		}
		m := cacheMeta{
			URL:          feed.URL,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		}
		if err := saveCache(dir, m, body); err != nil {
			log.Error("ics cache save failed", err, "feed", feed.ID)
		}
		log.Info("ics fetched", "feed", feed.ID, "url", redactURL(feed.URL), "bytes", len(body))
		return Result{Feed: feed, Body: body}, nil

	case http.StatusNotModified:
		if len(cached) == 0 {
			return Result{}, fmt.Errorf("ics: feed %s: 304 without a cached body", feed.ID)
		}
		log.Debug("ics not modified", "feed", feed.ID)
		return Result{Feed: feed, Body: cached, FromCache: true}, nil

	default:
		if len(cached) > 0 {
			log.Warn("ics upstream error, serving cache", "feed", feed.ID, "status", resp.StatusCode)
			return Result{Feed: feed, Body: cached, FromCache: true}, nil
		}
		return Result{}, fmt.Errorf("ics: feed %s: %w", feed.ID, errors.New(resp.Status))
	}
}

func loadMeta(dir string) (cacheMeta, error) {
	var m cacheMeta
	data, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return cacheMeta{}, err
	}
	return m, nil
}

// saveCache writes the body before the metadata so the metadata never
// describes a body that is not there.
func saveCache(dir string, m cacheMeta, body []byte) error {
	if err := os.WriteFile(filepath.Join(dir, "body.ics"), body, 0o600); err != nil {
		return err
	}
	m.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "meta.json"), data, 0o600)
}

// redactURL keeps scheme and host only; feed URLs often embed secrets.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "ics://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
