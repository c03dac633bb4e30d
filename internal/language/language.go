package language

import "strings"

type entry struct {
	display string   // canonical display case
	words   []string // lower-case forms matched in free text
}

// Order here is the order Detect reports matches in.
var languages = []entry{
	{"Hindi", []string{"hindi"}},
	{"English", []string{"english"}},
	{"Tamil", []string{"tamil"}},
	{"Telugu", []string{"telugu"}},
	{"Kannada", []string{"kannada"}},
	{"Malayalam", []string{"malayalam"}},
	{"Marathi", []string{"marathi"}},
	{"Bengali", []string{"bengali", "bangla"}},
	{"Punjabi", []string{"punjabi"}},
}

// Detect returns the display names of every vocabulary language whose word
// form occurs in text, case-insensitively. Matching is by substring of the
// full word, so "Hindi-English" counts both while "HINDI.ENG" counts only
// Hindi.
func Detect(text string) []string {
	lower := strings.ToLower(text)
	if lower == "" {
		return nil
	}
	var found []string
	for _, e := range languages {
		for _, w := range e.words {
			if strings.Contains(lower, w) {
				found = append(found, e.display)
				break
			}
		}
	}
	return found
}

// Words lists every lower-case word form in the vocabulary.
func Words() []string {
	var out []string
	for _, e := range languages {
		out = append(out, e.words...)
	}
	return out
}
