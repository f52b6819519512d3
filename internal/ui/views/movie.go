package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"reelgrip/internal/domain"
)

// MovieRenderer handles rendering of movie rows
type MovieRenderer struct {
	styles          *Styles
	showRatings     bool
	showReleaseYear bool
}

// NewMovieRenderer creates a new movie renderer
func NewMovieRenderer(styles *Styles, showRatings, showReleaseYear bool) *MovieRenderer {
	return &MovieRenderer{
		styles:          styles,
		showRatings:     showRatings,
		showReleaseYear: showReleaseYear,
	}
}

// RenderMovie renders one list row
func (r *MovieRenderer) RenderMovie(movie domain.MovieSummary, rank int, isSelected bool, searchQuery string, width int) string {
	bgColor := ""
	if isSelected {
		bgColor = "238"
	}
	base := lipgloss.NewStyle()
	if bgColor != "" {
		base = base.Background(lipgloss.Color(bgColor))
	}

	var parts []string

	cursor := "  "
	if isSelected {
		cursor = "▶ "
	}
	parts = append(parts, base.Render(cursor))
	parts = append(parts, base.Faint(true).Render(fmt.Sprintf("%3d. ", rank)))

	title := movie.Title
	if searchQuery != "" && strings.Contains(strings.ToLower(title), strings.ToLower(searchQuery)) {
		title = r.highlightMatch(title, searchQuery, base.Foreground(lipgloss.Color("226")).Bold(true), base)
	} else {
		title = base.Render(title)
	}
	parts = append(parts, title)

	if r.showReleaseYear && movie.Year() != 0 {
		parts = append(parts, base.Faint(true).Render(fmt.Sprintf(" (%d)", movie.Year())))
	}

	if r.showRatings {
		parts = append(parts, base.Render("  "))
		parts = append(parts, r.renderRating(movie, base))
	}

	line := strings.Join(parts, "")
	if width > 0 && lipgloss.Width(line) > width-4 {
		line = truncate(line, width-4)
	}
	return line
}

func (r *MovieRenderer) renderRating(movie domain.MovieSummary, base lipgloss.Style) string {
	if movie.VoteCount == 0 {
		return base.Faint(true).Render("unrated")
	}
	style := base.Foreground(lipgloss.Color(RatingColor(movie.VoteAverage)))
	return style.Render(fmt.Sprintf("★ %.1f", movie.VoteAverage)) +
		base.Faint(true).Render(fmt.Sprintf(" (%d)", movie.VoteCount))
}

// highlightMatch styles every case-insensitive occurrence of query in text
func (r *MovieRenderer) highlightMatch(text, query string, match, rest lipgloss.Style) string {
	lower := strings.ToLower(text)
	q := strings.ToLower(query)

	var b strings.Builder
	for {
		i := strings.Index(lower, q)
		if i < 0 || q == "" {
			b.WriteString(rest.Render(text))
			break
		}
		if i > 0 {
			b.WriteString(rest.Render(text[:i]))
		}
		b.WriteString(match.Render(text[i : i+len(q)]))
		text = text[i+len(q):]
		lower = lower[i+len(q):]
		if text == "" {
			break
		}
	}
	return b.String()
}

// truncate cuts s to width visible cells, ANSI sequences included
func truncate(s string, width int) string {
	if width <= 1 {
		return ""
	}
	var b strings.Builder
	visible := 0
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		}
		if inEscape {
			b.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		if visible >= width-1 {
			break
		}
		b.WriteRune(r)
		visible++
	}
	b.WriteString("…\x1b[0m")
	return b.String()
}
