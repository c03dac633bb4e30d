package release_test

import (
	"testing"

	"reelpost/internal/release"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  release.Key
	}{
		{"movie with tags", "Some.Movie.2021.1080p.WEB-DL.x264.Hindi.mkv", "Some Movie 2021"},
		{"series episode", "Show.S02E01.720p.mkv", "Show S02"},
		{"second episode same season", "Show.S02E02.1080p.mkv", "Show S02"},
		{"season word", "Show Season 2 Episode 5 720p", "Show S02"},
		{"bare season word", "Show Season Complete", "Show S01"},
		{"underscores", "SOME_MOVIE_2021_1080p_x264", "Some Movie 2021"},
		{"brackets", "Some Movie (2021) [x264 1080p WEB-DL]", "Some Movie 2021"},
		{"partial word kept", "Webster.2019.1080p.mkv", "Webster 2019"},
		{"apostrophe", "Ocean's.Eleven.2001.720p.mkv", "Oceans Eleven 2001"},
		{"series with year prefers season", "Show.2019.S01E03.720p.mkv", "Show 2019 S01"},
		{"no year no season", "Plain Title HEVC", "Plain Title"},
		{"dotted web dl", "Plain.Title.WEB.DL", "Plain Title"},
		{"hyphenated web dl", "Plain Title WEB-DL", "Plain Title"},
		{"joined web dl", "Plain Title WEBDL 1080p", "Plain Title"},
		{"hyphenated bit depth", "Plain.Title.10-bit.x265", "Plain Title"},
		{"spaced bit depth", "Plain Title 10 bit", "Plain Title"},
		{"dotted blu ray", "Plain.Title.Blu.Ray.mkv", "Plain Title"},
		{"empty", "", ""},
		{"blank", "   ", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := release.Normalize(tc.input); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeIgnoresCasePunctuationAndTagOrder(t *testing.T) {
	variants := []string{
		"Movie.Name.2020.x265.1080p.Tamil.mkv",
		"movie name 2020 tamil 1080p x265",
		"MOVIE-NAME-2020-1080p-x265-TAMIL.mp4",
		"Movie_Name_(2020)_[1080p]_[x265]",
	}
	want := release.Normalize(variants[0])
	if want != "Movie Name 2020" {
		t.Fatalf("unexpected base key %q", want)
	}
	for _, v := range variants[1:] {
		if got := release.Normalize(v); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestNormalizeAsYearPriorityForMovies(t *testing.T) {
	input := "Show.2019.S01E03.720p.mkv"
	if got := release.NormalizeAs(input, release.CategoryMovie); got != "Show 2019" {
		t.Fatalf("movie category should truncate at year, got %q", got)
	}
	if got := release.NormalizeAs(input, release.CategorySeries); got != "Show 2019 S01" {
		t.Fatalf("series category should keep season, got %q", got)
	}
}

func TestNormalizeFallsBackToCleanedText(t *testing.T) {
	if got := release.Normalize("1080p.x264.mkv"); got == "" {
		t.Fatal("expected non-empty fallback key for tag-only name")
	}
}
