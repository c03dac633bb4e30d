package tmdb

import (
	"context"
	"fmt"
	"strings"

	"reelpost/internal/enrich"
	"reelpost/internal/release"
)

// Source adapts a Client to enrich.Source.
type Source struct {
	client       *Client
	imageBaseURL string
}

var _ enrich.Source = (*Source)(nil)

// NewSource wraps client. imageBaseURL prefixes poster and backdrop paths,
// e.g. "https://image.tmdb.org/t/p/original".
func NewSource(client *Client, imageBaseURL string) *Source {
	return &Source{client: client, imageBaseURL: strings.TrimRight(strings.TrimSpace(imageBaseURL), "/")}
}

// Name implements enrich.Source.
func (s *Source) Name() string { return "tmdb" }

// Lookup implements enrich.Source.
func (s *Source) Lookup(ctx context.Context, key release.Key) (enrich.Metadata, error) {
	parts := key.Parts()
	if parts.Title == "" {
		return enrich.Metadata{}, enrich.ErrNoData
	}

	match, err := s.bestMatch(ctx, parts)
	if err != nil {
		return enrich.Metadata{}, err
	}

	md := enrich.Metadata{
		Title:     match.DisplayTitle(),
		Rating:    match.VoteAverage,
		PosterURL: s.imageURL(match),
		Kind:      enrich.KindMovie,
	}
	var details *Result
	if match.MediaType == "tv" {
		md.Kind = enrich.KindSeries
		details, err = s.client.GetTVDetails(ctx, match.ID)
	} else {
		details, err = s.client.GetMovieDetails(ctx, match.ID)
	}
	// Search fields are still usable when details fail.
	if err == nil && details != nil {
		for _, g := range details.Genres {
			if name := strings.TrimSpace(g.Name); name != "" {
				md.Genres = append(md.Genres, name)
			}
		}
		if md.PosterURL == "" {
			md.PosterURL = s.imageURL(*details)
		}
	}
	return md, nil
}

func (s *Source) bestMatch(ctx context.Context, parts release.KeyParts) (Result, error) {
	search := s.client.SearchMulti
	if parts.Season > 0 {
		search = s.client.SearchTV
	}
	resp, err := search(ctx, parts.Title, SearchOptions{Year: parts.Year})
	if err != nil {
		return Result{}, err
	}
	if match, ok := firstTitle(resp); ok {
		return match, nil
	}
	if parts.Year > 0 {
		resp, err = search(ctx, parts.Title, SearchOptions{})
		if err != nil {
			return Result{}, err
		}
		if match, ok := firstTitle(resp); ok {
			return match, nil
		}
	}
	return Result{}, fmt.Errorf("tmdb %q: %w", parts.Title, enrich.ErrNoData)
}

func firstTitle(resp *Response) (Result, bool) {
	if resp == nil {
		return Result{}, false
	}
	for _, r := range resp.Results {
		if r.MediaType != "movie" && r.MediaType != "tv" {
			continue
		}
		if r.DisplayTitle() == "" || r.ID <= 0 {
			continue
		}
		return r, true
	}
	return Result{}, false
}

func (s *Source) imageURL(r Result) string {
	path := strings.TrimSpace(r.BackdropPath)
	if path == "" {
		path = strings.TrimSpace(r.PosterPath)
	}
	if path == "" || s.imageBaseURL == "" {
		return ""
	}
	return s.imageBaseURL + "/" + strings.TrimLeft(path, "/")
}
