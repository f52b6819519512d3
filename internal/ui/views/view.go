package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"reelgrip/internal/domain"
	"reelgrip/internal/ui/logic"
)

// listChromeLines is everything on the list screen except the rows:
// container padding, title, tabs, search line, two spacers and the footer.
const listChromeLines = 8

// detailChromeLines is the container padding, spacer and footer
const detailChromeLines = 4

// ListViewportHeight returns how many rows the list gets in a terminal of height lines
func ListViewportHeight(height int) int {
	if height <= 0 {
		return 20
	}
	h := height - listChromeLines
	if h < 3 {
		h = 3
	}
	return h
}

// DetailBodyHeight returns how many body lines the detail screen shows
func DetailBodyHeight(height int) int {
	if height <= 0 {
		return 20
	}
	h := height - detailChromeLines
	if h < 3 {
		h = 3
	}
	return h
}

// HelpEntry is one key binding in the help overlay
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpSection groups help entries under a heading
type HelpSection struct {
	Title   string
	Entries []HelpEntry
}

// ListViewState contains all the state needed to render the movies list
type ListViewState struct {
	Width          int
	Height         int
	Filter         domain.Filter
	Movies         []domain.MovieSummary
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int
	Loading        bool
	SpinnerView    string
	LoadError      string
	ActiveQuery    string
	InputMode      string
	TextInput      string
	SortName       string
	StatusMessage  string
	StatusIsError  bool
	ShowHelp       bool
	HelpSections   []HelpSection
	HelpModel      help.Model
	Keys           help.KeyMap
}

// DetailViewState contains all the state needed to render one movie
type DetailViewState struct {
	Width               int
	Height              int
	Movie               *domain.MovieDetail
	Genres              []domain.Genre
	ProductionCompanies []domain.ProductionCompany
	SpokenLanguages     []domain.SpokenLanguage
	Loading             bool
	SpinnerView         string
	LoadError           string
	ScrollOffset        int
	StatusMessage       string
	StatusIsError       bool
	ShowHelp            bool
	HelpSections        []HelpSection
	HelpModel           help.Model
	Keys                help.KeyMap
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	movieRender *MovieRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showRatings, showReleaseYear bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		movieRender: NewMovieRenderer(styles, showRatings, showReleaseYear),
		popupRender: NewPopupRenderer(styles),
	}
}

// RenderList produces the movies list screen
func (r *Renderer) RenderList(state ListViewState) string {
	content := &strings.Builder{}

	// Title with loading indicator and counts on the right
	logo := r.styles.Title.Render("reelgrip")
	var right []string
	if state.Loading {
		right = append(right, fmt.Sprintf("%s Loading", state.SpinnerView))
	} else if n := len(state.Movies); n == 1 {
		right = append(right, "1 movie")
	} else if n > 1 {
		right = append(right, fmt.Sprintf("%d movies", n))
	}
	if state.SortName != "" {
		right = append(right, "sort: "+state.SortName)
	}
	content.WriteString(r.alignRight(logo, r.styles.Dim.Render(strings.Join(right, " | ")), state.Width))
	content.WriteString("\n")

	content.WriteString(r.renderTabs(state.Filter))
	content.WriteString("\n")

	switch {
	case state.InputMode == "search":
		content.WriteString(state.TextInput)
	case state.ActiveQuery != "":
		content.WriteString(r.styles.Query.Render(fmt.Sprintf("Results for %q", state.ActiveQuery)))
		content.WriteString(r.styles.Dim.Render("  (/ to edit, esc to clear)"))
	default:
		content.WriteString(r.styles.Dim.Render("Press / to search"))
	}
	content.WriteString("\n\n")

	var main string
	switch {
	case len(state.Movies) == 0 && state.Loading:
		main = r.styles.Dim.Render("Loading movies...")
	case len(state.Movies) == 0 && state.LoadError != "":
		main = r.styles.StatusError.Render("Could not load movies: " + state.LoadError)
	case len(state.Movies) == 0:
		main = r.styles.Dim.Render("No movies found.")
	default:
		main = r.renderMovieList(state)
	}
	content.WriteString(main)

	footer := r.renderFooter(state.StatusMessage, state.StatusIsError, state.HelpModel, state.Keys)
	r.padToBottom(content, state.Height)
	content.WriteString("\n")
	content.WriteString(footer)

	mainStyle := r.styles.Main.MaxHeight(state.Height)
	finalContent := mainStyle.Render(content.String())

	if state.ShowHelp {
		helpContent := r.renderHelpContent(state.HelpSections, state.Height)
		return r.popupRender.RenderPopupOverlay(finalContent, helpContent, state.Height, state.Width, r.styles.InfoBox)
	}
	return finalContent
}

// RenderDetail produces the movie detail screen
func (r *Renderer) RenderDetail(state DetailViewState) string {
	content := &strings.Builder{}

	body := r.detailLines(state)
	bodyHeight := DetailBodyHeight(state.Height)
	offset := clampScroll(state.ScrollOffset, len(body), bodyHeight)

	end := offset + bodyHeight
	if end > len(body) {
		end = len(body)
	}
	visible := body[offset:end]
	if offset > 0 && len(visible) > 0 {
		visible[0] = r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", offset+1))
	}
	if end < len(body) && len(visible) > 0 {
		visible[len(visible)-1] = r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", len(body)-end+1))
	}
	content.WriteString(strings.Join(visible, "\n"))

	footer := r.renderFooter(state.StatusMessage, state.StatusIsError, state.HelpModel, state.Keys)
	r.padToBottom(content, state.Height)
	content.WriteString("\n")
	content.WriteString(footer)

	finalContent := r.styles.Main.MaxHeight(state.Height).Render(content.String())

	if state.ShowHelp {
		helpContent := r.renderHelpContent(state.HelpSections, state.Height)
		return r.popupRender.RenderPopupOverlay(finalContent, helpContent, state.Height, state.Width, r.styles.InfoBox)
	}
	return finalContent
}

// DetailMaxScroll returns the largest useful scroll offset for state
func (r *Renderer) DetailMaxScroll(state DetailViewState) int {
	n := len(r.detailLines(state)) - DetailBodyHeight(state.Height)
	if n < 0 {
		return 0
	}
	return n
}

func clampScroll(offset, total, height int) int {
	maxOffset := total - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (r *Renderer) detailLines(state DetailViewState) []string {
	if state.Movie == nil {
		switch {
		case state.LoadError != "":
			return []string{r.styles.StatusError.Render("Could not load movie: " + state.LoadError)}
		case state.Loading:
			return []string{r.styles.Dim.Render(state.SpinnerView + " Loading movie...")}
		default:
			return []string{r.styles.Dim.Render("No movie selected.")}
		}
	}

	m := state.Movie
	width := state.Width - 4
	if width <= 0 {
		width = 76
	}
	wrap := lipgloss.NewStyle().Width(width)

	var lines []string
	add := func(s string) {
		lines = append(lines, strings.Split(s, "\n")...)
	}

	title := r.styles.Title.Render(m.Title)
	if y := m.Year(); y != 0 {
		title += r.styles.Dim.Render(fmt.Sprintf(" (%d)", y))
	}
	if state.Loading {
		title += "  " + r.styles.Dim.Render(state.SpinnerView)
	}
	add(title)
	if m.Tagline != "" {
		add(r.styles.Tagline.Render(m.Tagline))
	}

	var facts []string
	if m.VoteCount > 0 {
		facts = append(facts, lipgloss.NewStyle().Foreground(lipgloss.Color(RatingColor(m.VoteAverage))).
			Render(fmt.Sprintf("★ %.1f", m.VoteAverage))+r.styles.Dim.Render(fmt.Sprintf(" (%d votes)", m.VoteCount)))
	}
	if m.ReleaseDate != "" {
		facts = append(facts, m.ReleaseDate)
	}
	if m.Runtime > 0 {
		facts = append(facts, fmt.Sprintf("%dh %02dm", m.Runtime/60, m.Runtime%60))
	}
	if m.Status != "" {
		facts = append(facts, m.Status)
	}
	if len(facts) > 0 {
		add(strings.Join(facts, r.styles.Dim.Render(" · ")))
	}

	if len(state.Genres) > 0 {
		chips := make([]string, 0, len(state.Genres))
		for _, g := range state.Genres {
			chips = append(chips, r.styles.Chip.Render(g.Name))
		}
		add("")
		add(wrap.Render(strings.Join(chips, " ")))
	}

	add("")
	add(r.styles.Section.UnsetMarginTop().Render("Overview"))
	if m.Overview != "" {
		add(wrap.Render(m.Overview))
	} else {
		add(r.styles.Dim.Render("No overview available."))
	}

	if len(state.ProductionCompanies) > 0 {
		add("")
		add(r.styles.Section.UnsetMarginTop().Render("Production"))
		for _, c := range state.ProductionCompanies {
			line := "  " + c.Name
			if c.OriginCountry != "" {
				line += r.styles.Dim.Render(" (" + c.OriginCountry + ")")
			}
			add(line)
		}
	}

	if len(state.SpokenLanguages) > 0 {
		add("")
		add(r.styles.Section.UnsetMarginTop().Render("Languages"))
		names := make([]string, 0, len(state.SpokenLanguages))
		for _, l := range state.SpokenLanguages {
			name := l.Name
			if name == "" {
				name = l.ISO639
			}
			names = append(names, name)
		}
		add(wrap.Render("  " + strings.Join(names, ", ")))
	}

	if m.Homepage != "" {
		add("")
		add(r.styles.Dim.Render(m.Homepage))
	}
	return lines
}

// renderMovieList renders the visible window of the list with scroll indicators
func (r *Renderer) renderMovieList(state ListViewState) string {
	total := len(state.Movies)
	offset := state.ViewportOffset
	if offset > total-1 {
		offset = total - 1
	}
	if offset < 0 {
		offset = 0
	}
	effectiveHeight := logic.EffectiveHeight(offset, state.ViewportHeight, total)

	var lines []string
	if offset > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", offset)))
	}

	end := offset + effectiveHeight
	if end > total {
		end = total
	}
	for i := offset; i < end; i++ {
		lines = append(lines, r.movieRender.RenderMovie(state.Movies[i], i+1, i == state.SelectedIndex, state.ActiveQuery, state.Width))
	}

	if end < total {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", total-end)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderTabs(filter domain.Filter) string {
	tabs := make([]string, 0, len(domain.Categories)+1)
	for _, c := range domain.Categories {
		if c == filter.Category {
			tabs = append(tabs, r.styles.ActiveTab.Render(c.Label()))
		} else {
			tabs = append(tabs, r.styles.Tab.Render(c.Label()))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var extra []string
	if filter.Genre != "" {
		extra = append(extra, "genre: "+filter.Genre)
	}
	if filter.Year != 0 {
		extra = append(extra, fmt.Sprintf("year: %d", filter.Year))
	}
	if len(extra) > 0 {
		line += "  " + r.styles.Dim.Render(strings.Join(extra, ", "))
	}
	return line
}

func (r *Renderer) renderFooter(status string, isError bool, model help.Model, keys help.KeyMap) string {
	if status != "" {
		if isError {
			return r.styles.StatusError.Render(status)
		}
		return r.styles.StatusSuccess.Render(status)
	}
	if keys == nil {
		return r.styles.Help.Render("Press ? for help")
	}
	return model.ShortHelpView(keys.ShortHelp())
}

// padToBottom pushes the footer to the last line of the screen
func (r *Renderer) padToBottom(content *strings.Builder, height int) {
	// Account for container padding (1 top, 1 bottom from Padding(1, 2))
	availableLines := height - 2
	if availableLines <= 0 {
		availableLines = 22
	}
	currentLines := strings.Count(content.String(), "\n") + 1
	paddingNeeded := availableLines - currentLines - 1
	if paddingNeeded > 0 {
		content.WriteString(strings.Repeat("\n", paddingNeeded))
	}
}

func (r *Renderer) alignRight(left, right string, width int) string {
	if right == "" {
		return left
	}
	if width <= 0 {
		width = 80
	}
	padding := width - 4 - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return left + strings.Repeat(" ", padding) + right
}

// renderHelpContent renders the help overlay, cut to fit height
func (r *Renderer) renderHelpContent(sections []HelpSection, height int) string {
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	keyWidth := 0
	for _, s := range sections {
		for _, e := range s.Entries {
			if w := lipgloss.Width(e.Key); w > keyWidth {
				keyWidth = w
			}
		}
	}

	var b strings.Builder
	b.WriteString(r.styles.Title.Render("reelgrip help"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(r.styles.Section.UnsetMarginTop().Render(s.Title))
		b.WriteString("\n")
		for _, e := range s.Entries {
			pad := strings.Repeat(" ", keyWidth-lipgloss.Width(e.Key)+2)
			b.WriteString(fmt.Sprintf("  %s%s%s\n", keyStyle.Render(e.Key), pad, descStyle.Render(e.Desc)))
		}
	}
	b.WriteString("\n")
	b.WriteString(r.styles.Dim.Render("H opens this in a pager"))

	lines := strings.Split(b.String(), "\n")
	visibleHeight := height - 6
	if visibleHeight < 5 {
		visibleHeight = 5
	}
	if len(lines) > visibleHeight {
		lines = lines[:visibleHeight]
		lines[len(lines)-1] = r.styles.Scroll.Render("↓ (more in pager: H)")
	}
	return strings.Join(lines, "\n")
}

// PlainHelp renders help sections as unstyled text for the pager
func PlainHelp(title string, sections []HelpSection) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(title)))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(s.Title)
		b.WriteString("\n")
		for _, e := range s.Entries {
			b.WriteString(fmt.Sprintf("  %-14s %s\n", stripANSI(e.Key), e.Desc))
		}
	}
	return b.String()
}
