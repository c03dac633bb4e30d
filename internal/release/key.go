package release

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	keySeasonSuffix = regexp.MustCompile(`^(.*?)\s*\bS(\d{2})$`)
	keyYearSuffix   = regexp.MustCompile(`^(.*?)\s*\b((?:19|20)\d{2})$`)
)

// KeyParts is a key split back into the pieces lookups search on.
type KeyParts struct {
	Title  string
	Year   int
	Season int
}

// Parts splits a key produced by Normalize. A season suffix is read first,
// then a trailing year; whatever remains is the title. When stripping would
// leave nothing the whole key is the title.
func (k Key) Parts() KeyParts {
	rest := strings.TrimSpace(string(k))
	var parts KeyParts
	if m := keySeasonSuffix.FindStringSubmatch(rest); m != nil && strings.TrimSpace(m[1]) != "" {
		parts.Season, _ = strconv.Atoi(m[2])
		rest = strings.TrimSpace(m[1])
	}
	if m := keyYearSuffix.FindStringSubmatch(rest); m != nil && strings.TrimSpace(m[1]) != "" {
		parts.Year, _ = strconv.Atoi(m[2])
		rest = strings.TrimSpace(m[1])
	}
	parts.Title = rest
	return parts
}
