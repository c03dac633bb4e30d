package publish

import (
	"errors"
	"slices"
	"strings"

	"reelpost/internal/release"
)

// ErrEmptyBatch is returned when a flush carries no descriptors.
var ErrEmptyBatch = errors.New("empty batch")

// Unknown is rendered wherever a union came out empty.
const Unknown = "Unknown"

// Summary is the aggregated view of one batch.
type Summary struct {
	Key            release.Key
	Category       release.Category
	Qualities      []string
	Formats        []string
	AudioLanguages []string
	// Recent is the number of files in this batch; Total counts every file
	// stored for the key, including earlier batches.
	Recent int
	Total  int
	// FirstEpisode and LastEpisode are zero when no episode was captured.
	FirstEpisode int
	LastEpisode  int
}

// Aggregate unions the batch attributes. The category is SERIES when any
// descriptor is. Total starts equal to Recent.
func Aggregate(key release.Key, batch []release.FileDescriptor) (Summary, error) {
	if len(batch) == 0 {
		return Summary{}, ErrEmptyBatch
	}
	s := Summary{Key: key, Recent: len(batch), Total: len(batch)}
	var qualities, formats, audio []string
	for _, d := range batch {
		for _, q := range d.Qualities {
			qualities = append(qualities, string(q))
		}
		for _, f := range d.Formats {
			formats = append(formats, string(f))
		}
		audio = append(audio, d.AudioLanguages...)
		if d.Category == release.CategorySeries {
			s.Category = release.CategorySeries
		}
		if d.Episode > 0 {
			if s.FirstEpisode == 0 || d.Episode < s.FirstEpisode {
				s.FirstEpisode = d.Episode
			}
			if d.Episode > s.LastEpisode {
				s.LastEpisode = d.Episode
			}
		}
	}
	s.Qualities = union(qualities)
	s.Formats = union(formats)
	// A real format anywhere in the batch outranks the placeholder.
	if len(s.Formats) > 1 {
		s.Formats = slices.DeleteFunc(s.Formats, func(f string) bool { return f == string(release.FormatUnknown) })
	}
	s.AudioLanguages = union(audio)
	if s.Category != release.CategorySeries {
		s.FirstEpisode, s.LastEpisode = 0, 0
	}
	return s, nil
}

func union(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Join renders a union as a comma-separated list, or Unknown when empty.
func Join(values []string) string {
	if len(values) == 0 {
		return Unknown
	}
	return strings.Join(values, ", ")
}
