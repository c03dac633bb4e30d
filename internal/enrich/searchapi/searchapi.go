// Package searchapi queries a general JSON search API that answers with
// lists of image URLs under configurable keys.
package searchapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reelpost/internal/enrich"
	"reelpost/internal/release"
)

// Source is an enrich.Source that supplies posters only.
type Source struct {
	baseURL    string
	keys       []string
	httpClient *http.Client
}

var _ enrich.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// New creates a Source. keys are the payload fields checked for image lists,
// in priority order.
func New(baseURL string, keys []string, opts ...Option) (*Source, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("search api base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse search api url: %w", err)
	}
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return nil, errors.New("search api poster keys required")
	}
	s := &Source{
		baseURL:    baseURL,
		keys:       cleaned,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements enrich.Source.
func (s *Source) Name() string { return "search_api" }

// Lookup implements enrich.Source.
func (s *Source) Lookup(ctx context.Context, key release.Key) (enrich.Metadata, error) {
	query := strings.TrimSpace(key.String())
	if query == "" {
		return enrich.Metadata{}, enrich.ErrNoData
	}
	endpoint, err := url.Parse(s.baseURL)
	if err != nil {
		return enrich.Metadata{}, fmt.Errorf("parse search api url: %w", err)
	}
	params := endpoint.Query()
	params.Set("query", query)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return enrich.Metadata{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return enrich.Metadata{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return enrich.Metadata{}, fmt.Errorf("search api returned %d", resp.StatusCode)
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return enrich.Metadata{}, fmt.Errorf("decode search api response: %w", err)
	}
	for _, k := range s.keys {
		raw, ok := payload[k]
		if !ok {
			continue
		}
		var urls []string
		// Keys holding something other than a string list are skipped.
		if err := json.Unmarshal(raw, &urls); err != nil {
			continue
		}
		for _, u := range urls {
			if u = strings.TrimSpace(u); u != "" {
				return enrich.Metadata{PosterURL: u}, nil
			}
		}
	}
	return enrich.Metadata{}, fmt.Errorf("search api %q: %w", query, enrich.ErrNoData)
}
