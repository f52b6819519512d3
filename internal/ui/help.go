package ui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"

	"reelgrip/internal/ui/views"
)

var errNoProgram = errors.New("pager: program not set")

// listKeys is the footer help of the movies list
type listKeys struct {
	Move     key.Binding
	Category key.Binding
	Search   key.Binding
	Open     key.Binding
	Sort     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newListKeys() listKeys {
	return listKeys{
		Move:     key.NewBinding(key.WithKeys("up", "down", "j", "k"), key.WithHelp("↑/↓", "move")),
		Category: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "category")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Category, k.Search, k.Open, k.Sort, k.Help, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// detailKeys is the footer help of the detail screen
type detailKeys struct {
	Back     key.Binding
	Scroll   key.Binding
	Overview key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newDetailKeys() detailKeys {
	return detailKeys{
		Back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Scroll:   key.NewBinding(key.WithKeys("up", "down", "j", "k"), key.WithHelp("↑/↓", "scroll")),
		Overview: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "overview in pager")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k detailKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Scroll, k.Overview, k.Help, k.Quit}
}

func (k detailKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// listHelpSections describes every key of the movies list
func listHelpSections() []views.HelpSection {
	return []views.HelpSection{
		{Title: "Navigation", Entries: []views.HelpEntry{
			{Key: "↑/↓, j/k", Desc: "Move up/down"},
			{Key: "PgUp/PgDn", Desc: "Page up/down"},
			{Key: "gg/G", Desc: "Go to top/bottom"},
			{Key: "Enter", Desc: "Show movie details"},
		}},
		{Title: "Catalog", Entries: []views.HelpEntry{
			{Key: "Tab", Desc: "Next category"},
			{Key: "Shift+Tab", Desc: "Previous category"},
			{Key: "s", Desc: "Cycle sort (rank, title, year, rating)"},
			{Key: "r", Desc: "Reload"},
		}},
		{Title: "Search", Entries: []views.HelpEntry{
			{Key: "/", Desc: "Search titles (results update as you type)"},
			{Key: "Enter", Desc: "Run the search now"},
			{Key: "Esc", Desc: "Clear the search"},
		}},
		{Title: "Other", Entries: []views.HelpEntry{
			{Key: "?", Desc: "Toggle this help"},
			{Key: "H", Desc: "Open help in pager"},
			{Key: "q", Desc: "Quit"},
		}},
	}
}

// detailHelpSections describes every key of the detail screen
func detailHelpSections() []views.HelpSection {
	return []views.HelpSection{
		{Title: "Movie", Entries: []views.HelpEntry{
			{Key: "↑/↓, j/k", Desc: "Scroll"},
			{Key: "PgUp/PgDn", Desc: "Scroll a page"},
			{Key: "o", Desc: "Read the overview in a pager"},
			{Key: "r", Desc: "Reload"},
			{Key: "Esc, Backspace", Desc: "Back to the list"},
		}},
		{Title: "Other", Entries: []views.HelpEntry{
			{Key: "?", Desc: "Toggle this help"},
			{Key: "H", Desc: "Open help in pager"},
			{Key: "q", Desc: "Quit"},
		}},
	}
}

// Pager shows text in ov while Bubble Tea has released the terminal
type Pager struct {
	program *tea.Program
}

// NewPager creates a pager bound to program
func NewPager(program *tea.Program) *Pager {
	return &Pager{program: program}
}

// Show blocks until the user leaves the pager
func (p *Pager) Show(content string) error {
	if p == nil || p.program == nil {
		return errNoProgram
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// pagerCmd shows content in the pager, pausing rendering meanwhile
func pagerCmd(program *tea.Program, content string) tea.Cmd {
	return func() tea.Msg {
		if program == nil {
			return pagerMsg{err: errNoProgram}
		}
		program.Send(pauseRenderingMsg{})
		err := NewPager(program).Show(content)
		program.Send(resumeRenderingMsg{})
		return pagerMsg{err: err}
	}
}
