package release

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	langvocab "reelpost/internal/language"
)

var (
	containerExtRegex *regexp.Regexp
	releaseTagRegex   *regexp.Regexp
	yearRegex         = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	seasonRegex       = regexp.MustCompile(`\bs(\d{1,2})(?:[ .]?e\d{1,3}(?:-e?\d{1,3})?)?\b|\bseason[ .]?(\d{1,2})\b|\bseason\b`)
	episodeOnlyRegex  = regexp.MustCompile(`\bep?(\d{1,3})\b|\bepisode[ .]?(\d{1,3})\b|\bepisode\b`)
	separatorRegex    = regexp.MustCompile(`[^\p{L}\p{N}]+`)

	// Underscores are word characters to RE2, so they are turned into spaces
	// before any \b matching. Apostrophes are dropped so "Ocean's" and
	// "Oceans" agree.
	preCleanReplacer = strings.NewReplacer("_", " ", "'", "", "’", "")

	titleCaser = cases.Title(language.Und)
)

// releaseTags is the vocabulary stripped from names before the title is
// read. Language names are appended from the language package at init. A
// hyphen inside a tag matches a space, dot, hyphen or nothing.
var releaseTags = []string{
	// resolution
	"2160p", "1080p", "720p", "480p", "4k", "uhd",
	// codec
	"hevc", "x264", "x265", "h264", "h265", "h.264", "h.265", "avc", "10-bit", "8-bit", "hdr", "hdr10",
	// source
	"web", "web-dl", "web-rip", "hd-rip", "blu-ray", "br-rip", "bd-rip",
	"dvd-rip", "hdtv", "hdcam", "camrip", "telesync", "hdts", "hdtc", "telecine", "predvd",
	// audio codec and channels
	"aac", "aac2", "aac5", "aac2.0", "aac5.1", "dd", "ddp", "dd5.1", "ddp5.1", "ddp2.0",
	"5.1", "2.0", "7.1", "atmos", "truehd", "dts",
	// subtitles and dubbing
	"esub", "esubs", "msub", "msubs", "sub", "subs", "dual",
	// containers left inside names
	"mkv", "mp4",
}

func init() {
	containerExtRegex = regexp.MustCompile(`\.(?:mkv|mp4|avi|m4v|mov|webm|wmv|flv|mpe?g)$`)

	tokens := append([]string{}, releaseTags...)
	tokens = append(tokens, langvocab.Words()...)
	// Longest first so "web-dl" wins over "web" at the same position.
	sort.SliceStable(tokens, func(i, j int) bool { return len(tokens[i]) > len(tokens[j]) })
	quoted := make([]string, 0, len(tokens))
	for _, token := range tokens {
		parts := strings.Split(token, "-")
		for i := range parts {
			parts[i] = regexp.QuoteMeta(parts[i])
		}
		quoted = append(quoted, strings.Join(parts, `[ .-]?`))
	}
	releaseTagRegex = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Normalize derives the release key for raw text, classifying the category
// from the same text.
func Normalize(raw string) Key {
	return NormalizeAs(raw, DetectCategory(raw))
}

// NormalizeAs derives the release key for raw text under a category decided
// by the caller. When a name carries both a year-like number and a season
// marker, the season wins only for CategorySeries.
//
// The result is never an error: when nothing survives tag stripping the
// cleaned input itself is returned, and blank input yields "".
func NormalizeAs(raw string, category Category) Key {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return ""
	}
	text = containerExtRegex.ReplaceAllString(text, "")
	text = preCleanReplacer.Replace(text)
	unparsed := text
	text = releaseTagRegex.ReplaceAllString(text, " ")

	season, seasonAt := findSeason(text)
	yearAt := yearRegex.FindStringIndex(text)

	title, suffix := text, ""
	switch {
	case seasonAt >= 0 && (category == CategorySeries || yearAt == nil):
		title = text[:seasonAt]
		suffix = fmt.Sprintf("S%02d", season)
	case yearAt != nil:
		title = text[:yearAt[0]]
		suffix = text[yearAt[0]:yearAt[1]]
	}

	key := strings.TrimSpace(displayCase(title) + " " + suffix)
	if key == "" {
		key = displayCase(unparsed)
	}
	return Key(key)
}

// findSeason locates the first season marker and returns its number and
// start offset, or -1 when none is present. A bare episode marker implies
// season one.
func findSeason(text string) (int, int) {
	if loc := seasonRegex.FindStringSubmatchIndex(text); loc != nil {
		return submatchNumber(text, loc, 1), loc[0]
	}
	if loc := episodeOnlyRegex.FindStringSubmatchIndex(text); loc != nil {
		return 1, loc[0]
	}
	return 0, -1
}

// submatchNumber returns the first numeric capture group at or after group,
// defaulting to one when the marker carried no number.
func submatchNumber(text string, loc []int, group int) int {
	for g := group; 2*g+1 < len(loc); g++ {
		start, end := loc[2*g], loc[2*g+1]
		if start < 0 {
			continue
		}
		if n, err := strconv.Atoi(text[start:end]); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

func displayCase(text string) string {
	cleaned := strings.TrimSpace(separatorRegex.ReplaceAllString(text, " "))
	if cleaned == "" {
		return ""
	}
	return titleCaser.String(cleaned)
}
