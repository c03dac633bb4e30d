package publish

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"reelpost/internal/enrich"
	"reelpost/internal/release"
)

// Render formats the HTML caption for a summary and its metadata.
func Render(s Summary, md enrich.Metadata) string {
	category := s.Category
	if md.Kind == enrich.KindSeries {
		category = release.CategorySeries
	}
	name := s.Key.String()
	if strings.TrimSpace(name) == "" {
		name = Unknown
	}
	title := strings.TrimSpace(md.Title)
	if title == "" {
		title = name
	}

	var b strings.Builder
	b.WriteString("<blockquote><b>💯 NEW FILES ADDED ✅</b></blockquote>\n\n")
	fmt.Fprintf(&b, "🖥 <b>File name:</b> <code>%s</code>\n\n", html.EscapeString(name))
	if !strings.EqualFold(title, name) {
		fmt.Fprintf(&b, "🎬 <b>Title:</b> %s\n\n", html.EscapeString(title))
	}
	fmt.Fprintf(&b, "♻️ <b>Category:</b> %s\n\n", category.Hashtag())
	if len(md.Genres) > 0 {
		fmt.Fprintf(&b, "🎭 <b>Genres:</b> %s\n\n", html.EscapeString(strings.Join(md.Genres, ", ")))
	}
	if md.Rating > 0 {
		fmt.Fprintf(&b, "⭐ <b>Rating:</b> %s/10\n\n", strconv.FormatFloat(md.Rating, 'f', 1, 64))
	}
	if episodes := episodeRange(s); episodes != "" {
		fmt.Fprintf(&b, "📺 <b>Episodes:</b> %s\n\n", episodes)
	}
	fmt.Fprintf(&b, "🎞 <b>Quality: %s</b>\n\n", html.EscapeString(Join(s.Qualities)))
	fmt.Fprintf(&b, "💿 <b>Format: %s</b>\n\n", html.EscapeString(Join(s.Formats)))
	fmt.Fprintf(&b, "🌍 <b>Audio: %s</b>\n\n", html.EscapeString(Join(s.AudioLanguages)))
	fmt.Fprintf(&b, "📁 <b>Recently Added Files:</b> %d\n", s.Recent)
	fmt.Fprintf(&b, "🗄 <b>Total Files:</b> %d\n", s.Total)
	return b.String()
}

func episodeRange(s Summary) string {
	if s.FirstEpisode <= 0 {
		return ""
	}
	if s.LastEpisode <= s.FirstEpisode {
		return fmt.Sprintf("E%02d", s.FirstEpisode)
	}
	return fmt.Sprintf("E%02d–E%02d", s.FirstEpisode, s.LastEpisode)
}
