package release

import "strings"

// Describe classifies one upload and derives its key. Attributes are read
// from the filename and caption together; the key comes from the filename,
// or from the first caption line when the filename is blank.
func Describe(ev Event) (Key, FileDescriptor) {
	text := strings.TrimSpace(ev.Filename + " " + ev.Caption)
	category := DetectCategory(text)

	desc := FileDescriptor{
		Qualities:      DetectQualities(text),
		Formats:        DetectFormats(text),
		AudioLanguages: DetectAudioLanguages(text),
		Category:       category,
		FileRef:        ev.FileRef,
		SizeBytes:      ev.SizeBytes,
	}

	name := strings.TrimSpace(ev.Filename)
	if name == "" {
		name, _, _ = strings.Cut(strings.TrimSpace(ev.Caption), "\n")
	}
	if category == CategorySeries {
		desc.Episode = DetectEpisode(name)
	}
	return NormalizeAs(name, category), desc
}
