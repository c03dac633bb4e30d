package enrich

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"reelpost/internal/logging"
	"reelpost/internal/release"
)

// ErrNoData is returned by a Source that answered but had nothing to offer.
var ErrNoData = errors.New("no metadata")

// Kind values reported in Metadata.
const (
	KindMovie  = "MOVIE"
	KindSeries = "SERIES"
)

// Metadata describes a release for display. In a source result any field may
// be empty; Rating is zero when unknown.
type Metadata struct {
	Title     string
	Kind      string
	Genres    []string
	Rating    float64
	PosterURL string
}

// Empty reports whether m carries no field at all.
func (m Metadata) Empty() bool {
	return strings.TrimSpace(m.Title) == "" &&
		strings.TrimSpace(m.Kind) == "" &&
		len(m.Genres) == 0 &&
		m.Rating <= 0 &&
		strings.TrimSpace(m.PosterURL) == ""
}

// Source is one lookup collaborator.
type Source interface {
	Name() string
	Lookup(ctx context.Context, key release.Key) (Metadata, error)
}

// DefaultTimeout bounds each source call when none is configured.
const DefaultTimeout = 5 * time.Second

// Enricher merges source answers field by field.
type Enricher struct {
	sources []Source
	timeout time.Duration
	logger  *slog.Logger
}

// New builds an Enricher that consults sources in the given order. Nil
// sources are skipped.
func New(timeout time.Duration, logger *slog.Logger, sources ...Source) *Enricher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	kept := make([]Source, 0, len(sources))
	for _, src := range sources {
		if src != nil {
			kept = append(kept, src)
		}
	}
	return &Enricher{
		sources: kept,
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "enrich"),
	}
}

// Sources returns the names of the configured sources in priority order.
func (e *Enricher) Sources() []string {
	names := make([]string, len(e.sources))
	for i, src := range e.sources {
		names[i] = src.Name()
	}
	return names
}

// Resolve never fails. Sources are queried concurrently, each under its own
// timeout, and their answers merged in priority order.
func (e *Enricher) Resolve(ctx context.Context, key release.Key) Metadata {
	answers := make([]Metadata, len(e.sources))
	ok := make([]bool, len(e.sources))

	var group errgroup.Group
	for i, src := range e.sources {
		group.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()
			started := time.Now()
			md, err := src.Lookup(callCtx, key)
			if err != nil {
				e.logger.Debug("lookup returned no data",
					logging.String(logging.FieldSource, src.Name()),
					logging.String(logging.FieldReleaseKey, key.String()),
					logging.Duration("latency", time.Since(started)),
					logging.Error(err),
				)
				return nil
			}
			answers[i] = md
			ok[i] = true
			return nil
		})
	}
	_ = group.Wait()

	var merged Metadata
	for i := range answers {
		if ok[i] {
			merged = Merge(merged, answers[i])
		}
	}
	return withFallback(merged, key)
}

// Merge fills each empty field of base from next.
func Merge(base, next Metadata) Metadata {
	if strings.TrimSpace(base.Title) == "" {
		base.Title = strings.TrimSpace(next.Title)
	}
	if strings.TrimSpace(base.Kind) == "" {
		base.Kind = strings.TrimSpace(next.Kind)
	}
	if len(base.Genres) == 0 && len(next.Genres) > 0 {
		base.Genres = append([]string(nil), next.Genres...)
	}
	if base.Rating <= 0 && next.Rating > 0 {
		base.Rating = next.Rating
	}
	if strings.TrimSpace(base.PosterURL) == "" {
		base.PosterURL = strings.TrimSpace(next.PosterURL)
	}
	return base
}

func withFallback(md Metadata, key release.Key) Metadata {
	if md.Title == "" {
		md.Title = key.String()
	}
	if md.Kind == "" {
		md.Kind = KindMovie
	}
	return md
}
