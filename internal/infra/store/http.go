package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunedeck/tunedeck/internal/domain/track"
)

const (
	docLiked  = "liked"
	docRecent = "recent"
)

// HTTPStore is a client for the per-user document API. Each user owns one
// document per list; documents carry loosely-typed track objects.
type HTTPStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// HTTPConfig represents HTTP store configuration.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// trackDocument represents a list document on the wire.
type trackDocument struct {
	Tracks []map[string]any `json:"tracks"`
}

var _ Storage = (*HTTPStore)(nil)

// NewHTTPStore creates a new HTTP document store client.
func NewHTTPStore(cfg HTTPConfig) (*HTTPStore, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("store base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPStore{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Second,
	}, nil
}

// LoadLiked returns the liked-songs document for the user.
func (s *HTTPStore) LoadLiked(ctx context.Context, userID string) ([]track.Track, error) {
	return s.loadDocument(ctx, userID, docLiked)
}

// SaveLiked replaces the liked-songs document for the user.
func (s *HTTPStore) SaveLiked(ctx context.Context, userID string, tracks []track.Track) error {
	return s.saveDocument(ctx, userID, docLiked, tracks)
}

// LoadRecentlyPlayed returns the recently-played document for the user.
func (s *HTTPStore) LoadRecentlyPlayed(ctx context.Context, userID string) ([]track.Track, error) {
	return s.loadDocument(ctx, userID, docRecent)
}

// SaveRecentlyPlayed replaces the recently-played document for the user.
func (s *HTTPStore) SaveRecentlyPlayed(ctx context.Context, userID string, tracks []track.Track) error {
	return s.saveDocument(ctx, userID, docRecent, tracks)
}

// DeleteRecentlyPlayedEntry removes a single entry from the user's
// recently-played document.
func (s *HTTPStore) DeleteRecentlyPlayedEntry(ctx context.Context, userID, videoID string) error {
	if videoID == "" {
		return errors.New("video id is required")
	}

	reqURL := s.documentURL(userID, docRecent) + "/" + url.PathEscape(videoID)
	// Deleting an entry that is already gone is a success.
	if _, err := s.do(ctx, http.MethodDelete, reqURL, nil); err != nil && !errors.Is(err, errNotFound) {
		return errors.Wrap(err, "failed to delete recently played entry")
	}
	return nil
}

// Close releases client resources.
func (s *HTTPStore) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func (s *HTTPStore) documentURL(userID, doc string) string {
	return fmt.Sprintf("%s/users/%s/%s", s.baseURL, url.PathEscape(userID), doc)
}

// loadDocument fetches and decodes a list document. A missing document is
// an empty list, not an error.
func (s *HTTPStore) loadDocument(ctx context.Context, userID, doc string) ([]track.Track, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	body, err := s.do(ctx, http.MethodGet, s.documentURL(userID, doc), nil)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return []track.Track{}, nil
		}
		return nil, errors.Wrapf(err, "failed to load %s document", doc)
	}

	var document trackDocument
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s document", doc)
	}

	tracks := make([]track.Track, 0, len(document.Tracks))
	for i, fields := range document.Tracks {
		var t track.Track
		if err := mapstructure.Decode(fields, &t); err != nil {
			return nil, errors.Wrapf(err, "failed to decode track %d in %s document", i, doc)
		}
		if t.VideoID == "" {
			zlog.Warn().Msgf("skipping stored track without video id: doc=%s index=%d", doc, i)
			continue
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// saveDocument replaces a list document.
func (s *HTTPStore) saveDocument(ctx context.Context, userID, doc string, tracks []track.Track) error {
	if userID == "" {
		return errors.New("user id is required")
	}

	payload := struct {
		Tracks []track.Track `json:"tracks"`
	}{Tracks: tracks}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s document", doc)
	}

	if _, err := s.do(ctx, http.MethodPut, s.documentURL(userID, doc), body); err != nil {
		return errors.Wrapf(err, "failed to save %s document", doc)
	}
	return nil
}

var errNotFound = errors.New("document not found")

// do performs one request with retries on transport errors and 5xx
// responses. 4xx responses fail immediately.
func (s *HTTPStore) do(ctx context.Context, method, reqURL string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			zlog.Debug().Msgf("retrying store request: method=%s url=%s attempt=%d", method, reqURL, attempt+1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create request")
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if s.apiKey != "" {
			req.Header.Set("X-API-Key", s.apiKey)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = errors.Wrap(err, "failed to send request")
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = errors.Wrap(err, "failed to read response body")
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, errNotFound
		case resp.StatusCode >= 500:
			lastErr = errors.Newf("store returned status %d", resp.StatusCode)
			continue
		case resp.StatusCode >= 400:
			return nil, errors.Newf("store rejected request with status %d", resp.StatusCode)
		}
		return respBody, nil
	}
	return nil, lastErr
}
