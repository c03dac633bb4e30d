package release

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/moistari/rls"

	langvocab "reelpost/internal/language"
)

var (
	categoryRegex = regexp.MustCompile(`\bs\d{1,2}(?:[ .]?e\d{1,3})?\b|\bseason\b|\bseason[ .]?\d{1,2}\b|\bepisode\b|\bepisode[ .]?\d{1,3}\b|\bep?\d{1,3}\b`)
	episodeRegex  = regexp.MustCompile(`\bs\d{1,2}[ .]?e(\d{1,3})\b|\bep?(\d{1,3})\b|\bepisode[ .]?(\d{1,3})\b`)

	theatricalFormats = []formatPattern{
		{FormatCAM, regexp.MustCompile(`\b(?:hd-?)?cam(?:-?rip)?\b`)},
		{FormatTelesync, regexp.MustCompile(`\btelesync\b|\bhd-?ts\b`)},
		{FormatTelecine, regexp.MustCompile(`\btelecine\b|\bhd-?tc\b`)},
	}
	digitalFormats = []formatPattern{
		{FormatHEVC, regexp.MustCompile(`hevc|x265|h\.?265`)},
		{FormatWEB, regexp.MustCompile(`\bweb(?:-?dl|-?rip)?\b`)},
		{FormatBluRay, regexp.MustCompile(`blu-?ray|\bbd-?rip\b|\bbr-?rip\b`)},
		{FormatHDRip, regexp.MustCompile(`\bhdrip\b`)},
	}

	classifyReplacer = strings.NewReplacer("_", " ")
)

type formatPattern struct {
	format  Format
	pattern *regexp.Regexp
}

func prepare(text string) string {
	return classifyReplacer.Replace(strings.ToLower(text))
}

// DetectCategory reports CategorySeries when a season or episode marker is
// present and CategoryMovie otherwise.
func DetectCategory(text string) Category {
	if categoryRegex.MatchString(prepare(text)) {
		return CategorySeries
	}
	return CategoryMovie
}

// DetectQualities returns every ladder tier mentioned in text, lowest first.
func DetectQualities(text string) []Quality {
	lower := strings.ToLower(text)
	var out []Quality
	for _, q := range QualityLadder {
		if strings.Contains(lower, string(q)) {
			out = append(out, q)
		}
	}
	return out
}

// DetectFormats returns the source/encoding tags in text. Theatrical captures
// exclude every digital tag, HEVC included. The result is never empty: no
// match yields FormatUnknown.
func DetectFormats(text string) []Format {
	lower := prepare(text)

	var theatrical []Format
	for _, fp := range theatricalFormats {
		if fp.pattern.MatchString(lower) {
			theatrical = append(theatrical, fp.format)
		}
	}
	if len(theatrical) > 0 {
		return theatrical
	}

	var digital []Format
	for _, fp := range digitalFormats {
		if fp.pattern.MatchString(lower) {
			digital = append(digital, fp.format)
		}
	}
	if len(digital) == 0 {
		return []Format{FormatUnknown}
	}
	return digital
}

// DetectAudioLanguages returns the vocabulary languages named in text in
// display case.
func DetectAudioLanguages(text string) []string {
	return langvocab.Detect(text)
}

// DetectEpisode returns the episode number carried by a filename, or zero.
func DetectEpisode(filename string) int {
	if parsed := rls.ParseString(filename); parsed.Episode > 0 {
		return parsed.Episode
	}
	match := episodeRegex.FindStringSubmatch(prepare(filename))
	if match == nil {
		return 0
	}
	for _, group := range match[1:] {
		if n, err := strconv.Atoi(group); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
