package release

// Key is the canonical identity of one movie ("Some Movie 2021") or one
// season of a series ("Show S02"). The zero value is a valid key for uploads
// whose names carried no usable text.
type Key string

func (k Key) String() string { return string(k) }

// Category separates movies from series.
type Category int

const (
	CategoryMovie Category = iota
	CategorySeries
)

func (c Category) String() string {
	if c == CategorySeries {
		return "SERIES"
	}
	return "MOVIE"
}

// Hashtag is the channel-facing label used in announcements.
func (c Category) Hashtag() string {
	if c == CategorySeries {
		return "#Series"
	}
	return "#Movies"
}

// Quality is a nominal resolution tier.
type Quality string

const (
	Quality480p  Quality = "480p"
	Quality720p  Quality = "720p"
	Quality1080p Quality = "1080p"
	Quality2160p Quality = "2160p"
)

// QualityLadder lists every recognised tier from lowest to highest.
var QualityLadder = []Quality{Quality480p, Quality720p, Quality1080p, Quality2160p}

// Format is a source or encoding tag.
type Format string

const (
	FormatCAM      Format = "CAM"
	FormatTelesync Format = "TS"
	FormatTelecine Format = "TC"
	FormatHEVC     Format = "HEVC"
	FormatWEB      Format = "WEB"
	FormatBluRay   Format = "BluRay"
	FormatHDRip    Format = "HDRip"
	// FormatUnknown is reported when no source tag matched, so rendering
	// always has a value.
	FormatUnknown Format = "Unknown"
)

// Event is one upload as delivered by the transport. It has already been
// deduplicated and persisted by the caller.
type Event struct {
	Filename  string
	Caption   string
	FileRef   string
	SizeBytes int64
}

// FileDescriptor carries the attributes of one uploaded file. It is
// immutable once built; Episode is zero when no episode number was found.
type FileDescriptor struct {
	Qualities      []Quality
	Formats        []Format
	AudioLanguages []string
	Category       Category
	FileRef        string
	Episode        int
	SizeBytes      int64
}
