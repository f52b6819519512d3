package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"reelgrip/internal/debounce"
	"reelgrip/internal/domain"
	"reelgrip/internal/observable"
	"reelgrip/internal/ui/input"
	inputtypes "reelgrip/internal/ui/input/types"
	"reelgrip/internal/ui/logic"
	"reelgrip/internal/ui/state"
	"reelgrip/internal/ui/viewmodels"
	"reelgrip/internal/ui/views"
)

// moviesScreen is the movies list with category tabs and search
type moviesScreen struct {
	host      host
	vm        *viewmodels.MoviesViewModel
	coord     *debounce.Coordinator[domain.Filter]
	input     *input.Handler
	state     *state.AppState
	navigator *logic.Navigator
	keys      listKeys
	log       zerolog.Logger
}

func newMoviesScreen(h host, filter domain.Filter, quiet time.Duration) *moviesScreen {
	deps := h.deps()
	vm := viewmodels.NewMoviesViewModel(deps, filter)
	s := &moviesScreen{
		host:      h,
		vm:        vm,
		input:     input.New(inputtypes.ModeNormal),
		state:     state.NewAppState(filter),
		navigator: logic.NewNavigator(),
		keys:      newListKeys(),
		log:       deps.Logger.With().Str("component", "movies_screen").Logger(),
	}
	s.coord = debounce.New(vm.Scope(), debounce.Consumer[domain.Filter](vm), filter,
		debounce.WithQuietPeriod(quiet),
		debounce.WithLogger(deps.Logger))

	id := vm.Scope().ID()
	notify := func() { h.changed(id) }
	observable.Observe(vm.Scope(), vm.Movies, func([]domain.MovieSummary) { notify() })
	observable.Observe(vm.Scope(), vm.Loading, func(bool) { notify() })
	observable.Observe(vm.Scope(), vm.Err, func(error) { notify() })
	observable.Observe(vm.Scope(), vm.Query, func(string) { notify() })
	observable.Observe(vm.Scope(), vm.NavToDetail, func(*viewmodels.NavRequest) { notify() })
	return s
}

func (s *moviesScreen) ID() string { return s.vm.Scope().ID() }

func (s *moviesScreen) Init() tea.Cmd {
	s.vm.LoadMovies(s.state.Filter)
	return nil
}

func (s *moviesScreen) Loading() bool { return s.state.Loading }

func (s *moviesScreen) Close() {
	s.vm.Cleared()
}

func (s *moviesScreen) Resize(width, height int) {
	s.state.ViewportHeight = views.ListViewportHeight(height)
	s.syncNavigator()
}

func (s *moviesScreen) Refresh() tea.Cmd {
	movies, _ := s.vm.Movies.Get()
	s.state.SetMovies(movies)

	s.state.Loading, _ = s.vm.Loading.Get()
	s.state.ActiveQuery, _ = s.vm.Query.Get()
	s.state.LoadError = ""
	if err, _ := s.vm.Err.Get(); err != nil {
		s.state.LoadError = err.Error()
	}
	s.syncNavigator()

	if nav, _ := s.vm.NavToDetail.Get(); nav != nil {
		s.vm.OnMovieDetailNavigated()
		return s.host.push(newDetailScreen(s.host, *nav))
	}
	return nil
}

func (s *moviesScreen) syncNavigator() {
	s.navigator.UpdateState(s.state.SelectedIndex, s.state.ViewportOffset, s.state.ViewportHeight, len(s.state.Ordered))
	s.state.SelectedIndex, s.state.ViewportOffset = s.navigator.SetSelectedIndex(s.state.SelectedIndex)
}

// types.Context

func (s *moviesScreen) CurrentIndex() int   { return s.state.SelectedIndex }
func (s *moviesScreen) TotalItems() int     { return len(s.state.Ordered) }
func (s *moviesScreen) SearchQuery() string { return s.state.SearchQuery }

func (s *moviesScreen) HasMovie() bool {
	_, ok := s.state.SelectedMovie()
	return ok
}

func (s *moviesScreen) HandleKey(msg tea.KeyMsg) tea.Cmd {
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

func (s *moviesScreen) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		s.syncNavigator()
		s.state.SelectedIndex, s.state.ViewportOffset = s.navigator.Navigate(a.Direction)

	case inputtypes.UpdateTextAction:
		s.state.SearchQuery = a.Text
		s.coord.OnInputChanged(a.Text)

	case inputtypes.SubmitTextAction:
		s.state.SearchQuery = a.Text
		s.coord.Cancel()
		query := strings.TrimSpace(a.Text)
		switch {
		case query == "" && s.state.ActiveQuery != "":
			s.vm.ResetSearch()
		case query != "" && query != s.state.ActiveQuery:
			s.vm.FilterMoviesByQuery(query, s.state.Filter)
		}

	case inputtypes.CancelTextAction:
		if s.state.ActiveQuery == "" && !s.state.Loading {
			s.coord.Cancel()
		} else {
			// The reset goes through the quiet period like any other edit
			s.coord.OnInputChanged("")
		}
		s.state.SearchQuery = ""
		s.input.Reset(inputtypes.ModeNormal)

	case inputtypes.ClearSearchAction:
		s.coord.Cancel()
		s.state.SearchQuery = ""
		s.input.Reset(inputtypes.ModeNormal)
		s.vm.ResetSearch()

	case inputtypes.CycleCategoryAction:
		category := s.state.Filter.Category.Next()
		if !a.Forward {
			category = s.state.Filter.Category.Prev()
		}
		s.setFilter(s.state.Filter.WithCategory(category))

	case inputtypes.CycleSortAction:
		s.state.SetSort(s.state.Sort.Next())
		s.syncNavigator()

	case inputtypes.OpenDetailAction:
		if movie, ok := s.state.SelectedMovie(); ok {
			s.vm.ShowMovieDetail(movie)
		}

	case inputtypes.RefreshAction:
		s.reload()

	case inputtypes.ToggleHelpAction:
		s.state.ShowHelp = !s.state.ShowHelp

	case inputtypes.OpenHelpPagerAction:
		return s.host.pager(views.PlainHelp("reelgrip help", listHelpSections()))

	case inputtypes.QuitAction:
		return s.host.quit()
	}
	return nil
}

// setFilter switches the list to filter, keeping the search text
func (s *moviesScreen) setFilter(filter domain.Filter) {
	s.log.Debug().Stringer("filter", filter).Msg("filter changed")
	s.state.Filter = filter
	s.state.SelectedIndex = 0
	s.state.ViewportOffset = 0
	s.coord.SetFilter(filter)
	s.reload()
}

func (s *moviesScreen) reload() {
	s.coord.Cancel()
	if query := strings.TrimSpace(s.state.SearchQuery); query != "" {
		s.vm.FilterMoviesByQuery(query, s.state.Filter)
		return
	}
	s.vm.LoadMovies(s.state.Filter)
}

func (s *moviesScreen) View(vm *viewmodels.ViewModel, r *views.Renderer) string {
	vm.SetHelp(s.keys, listHelpSections())
	vm.SetInputMode(s.input.CurrentMode())
	if ti := s.input.TextInput(); ti != nil {
		vm.UpdateTextInput(*ti)
	}
	return r.RenderList(vm.BuildListViewState(s.state))
}
