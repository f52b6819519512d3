package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"reelgrip/internal/domain"
	"reelgrip/internal/observable"
	"reelgrip/internal/ui/input"
	inputtypes "reelgrip/internal/ui/input/types"
	"reelgrip/internal/ui/state"
	"reelgrip/internal/ui/viewmodels"
	"reelgrip/internal/ui/views"
)

// detailScreen shows one movie
type detailScreen struct {
	host  host
	vm    *viewmodels.DetailViewModel
	input *input.Handler
	state *state.DetailState
	keys  detailKeys
}

func newDetailScreen(h host, nav viewmodels.NavRequest) *detailScreen {
	vm := viewmodels.NewDetailViewModel(h.deps())
	s := &detailScreen{
		host:  h,
		vm:    vm,
		input: input.New(inputtypes.ModeDetail),
		state: state.NewDetailState(nav.MovieID, nav.Filter),
		keys:  newDetailKeys(),
	}

	id := vm.Scope().ID()
	notify := func() { h.changed(id) }
	observable.Observe(vm.Scope(), vm.Movie, func(*domain.MovieDetail) { notify() })
	observable.Observe(vm.Scope(), vm.Genres, func([]domain.Genre) { notify() })
	observable.Observe(vm.Scope(), vm.ProductionCompanies, func([]domain.ProductionCompany) { notify() })
	observable.Observe(vm.Scope(), vm.SpokenLanguages, func([]domain.SpokenLanguage) { notify() })
	observable.Observe(vm.Scope(), vm.Loading, func(bool) { notify() })
	observable.Observe(vm.Scope(), vm.Err, func(error) { notify() })
	return s
}

func (s *detailScreen) ID() string { return s.vm.Scope().ID() }

func (s *detailScreen) Init() tea.Cmd {
	s.vm.LoadMovie(s.state.MovieID, s.state.Filter)
	return nil
}

func (s *detailScreen) Loading() bool { return s.state.Loading }

func (s *detailScreen) Close() {
	s.vm.Cleared()
}

func (s *detailScreen) Resize(width, height int) {
	s.clampScroll()
}

func (s *detailScreen) Refresh() tea.Cmd {
	s.state.Movie, _ = s.vm.Movie.Get()
	s.state.Genres, _ = s.vm.Genres.Get()
	s.state.ProductionCompanies, _ = s.vm.ProductionCompanies.Get()
	s.state.SpokenLanguages, _ = s.vm.SpokenLanguages.Get()
	s.state.Loading, _ = s.vm.Loading.Get()
	s.state.LoadError = ""
	if err, _ := s.vm.Err.Get(); err != nil {
		s.state.LoadError = err.Error()
	}
	s.clampScroll()
	return nil
}

// types.Context

func (s *detailScreen) CurrentIndex() int   { return 0 }
func (s *detailScreen) TotalItems() int     { return 0 }
func (s *detailScreen) SearchQuery() string { return "" }
func (s *detailScreen) HasMovie() bool      { return s.state.Movie != nil }

func (s *detailScreen) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if s.state.ShowHelp {
		switch msg.String() {
		case "?", "esc", "q":
			s.state.ShowHelp = false
			return nil
		case "H":
			return s.processAction(inputtypes.OpenHelpPagerAction{})
		case "ctrl+c":
			return s.host.quit()
		}
		return nil
	}

	actions, cmd := s.input.HandleKey(msg, s)
	cmds := []tea.Cmd{cmd}
	for _, action := range actions {
		cmds = append(cmds, s.processAction(action))
	}
	return tea.Batch(cmds...)
}

func (s *detailScreen) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.BackAction:
		return s.host.pop()

	case inputtypes.ScrollAction:
		s.state.ScrollOffset += a.Delta
		s.clampScroll()

	case inputtypes.OpenOverviewAction:
		return s.host.pager(overviewText(s.state))

	case inputtypes.RefreshAction:
		s.vm.LoadMovie(s.state.MovieID, s.state.Filter)

	case inputtypes.ToggleHelpAction:
		s.state.ShowHelp = !s.state.ShowHelp

	case inputtypes.OpenHelpPagerAction:
		return s.host.pager(views.PlainHelp("reelgrip help", detailHelpSections()))

	case inputtypes.QuitAction:
		return s.host.quit()
	}
	return nil
}

func (s *detailScreen) clampScroll() {
	maxScroll := s.host.renderer().DetailMaxScroll(s.host.viewModel().BuildDetailViewState(s.state))
	if s.state.ScrollOffset > maxScroll {
		s.state.ScrollOffset = maxScroll
	}
	if s.state.ScrollOffset < 0 {
		s.state.ScrollOffset = 0
	}
}

func (s *detailScreen) View(vm *viewmodels.ViewModel, r *views.Renderer) string {
	vm.SetHelp(s.keys, detailHelpSections())
	vm.SetInputMode(s.input.CurrentMode())
	return r.RenderDetail(vm.BuildDetailViewState(s.state))
}

// overviewText is the plain text shown in the pager
func overviewText(d *state.DetailState) string {
	m := d.Movie
	if m == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.Title)
	if y := m.Year(); y != 0 {
		fmt.Fprintf(&b, " (%d)", y)
	}
	b.WriteString("\n")
	if m.Tagline != "" {
		b.WriteString(m.Tagline)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.Overview != "" {
		b.WriteString(m.Overview)
	} else {
		b.WriteString("No overview available.")
	}
	b.WriteString("\n")

	if len(d.Genres) > 0 {
		names := make([]string, 0, len(d.Genres))
		for _, g := range d.Genres {
			names = append(names, g.Name)
		}
		fmt.Fprintf(&b, "\nGenres: %s\n", strings.Join(names, ", "))
	}
	if len(d.ProductionCompanies) > 0 {
		names := make([]string, 0, len(d.ProductionCompanies))
		for _, c := range d.ProductionCompanies {
			names = append(names, c.Name)
		}
		fmt.Fprintf(&b, "Production: %s\n", strings.Join(names, ", "))
	}
	return b.String()
}
