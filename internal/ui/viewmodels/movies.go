package viewmodels

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"reelgrip/internal/catalog"
	"reelgrip/internal/debounce"
	"reelgrip/internal/domain"
	"reelgrip/internal/eventbus"
	"reelgrip/internal/observable"
	"reelgrip/internal/scope"
)

// Ops reported in LoadFailed events
const (
	OpLoadMovies = "load_movies"
	OpSearch     = "search"
	OpLoadMovie  = "load_movie"
)

// NavRequest asks the screen to open the detail of a movie
type NavRequest struct {
	MovieID int
	Filter  domain.Filter
}

// MoviesViewModel backs the movies list screen
type MoviesViewModel struct {
	Base

	Movies      *observable.Value[[]domain.MovieSummary]
	Loading     *observable.Value[bool]
	Err         *observable.Value[error]
	Query       *observable.Value[string] // query of the results in Movies
	NavToDetail *observable.Value[*NavRequest]

	store    catalog.Store
	pageSize int

	mu     sync.Mutex
	seq    uint64
	filter domain.Filter
}

var _ debounce.Consumer[domain.Filter] = (*MoviesViewModel)(nil)

// NewMoviesViewModel creates the view-model with filter as its initial criteria.
// Nothing is loaded until LoadMovies is called.
func NewMoviesViewModel(deps Deps, filter domain.Filter) *MoviesViewModel {
	return &MoviesViewModel{
		Base:        newBase("movies", deps),
		Movies:      observable.NewWithValue([]domain.MovieSummary{}),
		Loading:     observable.NewWithValue(false),
		Err:         observable.NewWithValue[error](nil),
		Query:       observable.NewWithValue(""),
		NavToDetail: observable.NewWithValue[*NavRequest](nil),
		store:       deps.Store,
		pageSize:    deps.pageSize(),
		filter:      filter,
	}
}

// Filter returns the criteria of the latest load
func (vm *MoviesViewModel) Filter() domain.Filter {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.filter
}

// LoadMovies loads the plain list for filter
func (vm *MoviesViewModel) LoadMovies(filter domain.Filter) {
	vm.load(OpLoadMovies, "", filter)
}

// FilterMoviesByQuery loads the movies matching query within filter
func (vm *MoviesViewModel) FilterMoviesByQuery(query string, filter domain.Filter) {
	query = strings.TrimSpace(query)
	if query == "" {
		vm.LoadMovies(filter)
		return
	}
	vm.load(OpSearch, query, filter)
}

// ResetSearch drops the active query and reloads the plain list
func (vm *MoviesViewModel) ResetSearch() {
	filter := vm.Filter()
	vm.LoadMovies(filter)
	vm.publish(eventbus.SearchResetEvent{Filter: filter})
}

// ShowMovieDetail requests navigation to movie
func (vm *MoviesViewModel) ShowMovieDetail(movie domain.MovieSummary) {
	vm.NavToDetail.Set(&NavRequest{MovieID: movie.ID, Filter: vm.Filter()})
}

// OnMovieDetailNavigated acknowledges the navigation request
func (vm *MoviesViewModel) OnMovieDetailNavigated() {
	vm.NavToDetail.Set(nil)
}

// OnQuery is called by the debounce coordinator
func (vm *MoviesViewModel) OnQuery(query string, filter domain.Filter) error {
	vm.FilterMoviesByQuery(query, filter)
	return nil
}

// OnReset is called by the debounce coordinator for an empty input
func (vm *MoviesViewModel) OnReset() error {
	vm.ResetSearch()
	return nil
}

func (vm *MoviesViewModel) load(op, query string, filter domain.Filter) {
	vm.mu.Lock()
	vm.seq++
	seq := vm.seq
	vm.filter = filter
	vm.mu.Unlock()

	vm.Loading.Set(true)
	vm.log.Debug().Str("op", op).Str("query", query).Stringer("filter", filter).Uint64("seq", seq).Msg("loading")

	scope.Launch(vm.Scope(),
		func(ctx context.Context) ([]domain.MovieSummary, error) {
			if query == "" {
				return vm.store.ListMovies(ctx, filter, vm.pageSize)
			}
			return vm.store.SearchMovies(ctx, query, filter, vm.pageSize)
		},
		func(movies []domain.MovieSummary, err error) {
			if !vm.latest(seq) {
				vm.log.Debug().Uint64("seq", seq).Msg("dropping superseded result")
				return
			}
			vm.Loading.Set(false)
			if err != nil {
				err = fmt.Errorf("%s %q: %w", op, filter.String(), err)
				vm.Err.Set(err)
				vm.fail(op, err)
				return
			}
			vm.Err.Set(nil)
			vm.Query.Set(query)
			vm.Movies.Set(movies)
			vm.publish(eventbus.MoviesLoadedEvent{Filter: filter, Query: query, Count: len(movies)})
		})
}

func (vm *MoviesViewModel) latest(seq uint64) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return seq == vm.seq
}
