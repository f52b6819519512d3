package viewmodels

import (
	"context"
	"fmt"
	"sync"

	"reelgrip/internal/catalog"
	"reelgrip/internal/domain"
	"reelgrip/internal/eventbus"
	"reelgrip/internal/observable"
	"reelgrip/internal/scope"
)

// DetailViewModel backs the movie detail screen
type DetailViewModel struct {
	Base

	Movie               *observable.Value[*domain.MovieDetail]
	Genres              *observable.Value[[]domain.Genre]
	ProductionCompanies *observable.Value[[]domain.ProductionCompany]
	SpokenLanguages     *observable.Value[[]domain.SpokenLanguage]
	Loading             *observable.Value[bool]
	Err                 *observable.Value[error]

	store catalog.Store

	mu     sync.Mutex
	seq    uint64
	filter domain.Filter
}

// NewDetailViewModel creates an empty detail view-model
func NewDetailViewModel(deps Deps) *DetailViewModel {
	return &DetailViewModel{
		Base:                newBase("detail", deps),
		Movie:               observable.NewWithValue[*domain.MovieDetail](nil),
		Genres:              observable.NewWithValue([]domain.Genre{}),
		ProductionCompanies: observable.NewWithValue([]domain.ProductionCompany{}),
		SpokenLanguages:     observable.NewWithValue([]domain.SpokenLanguage{}),
		Loading:             observable.NewWithValue(false),
		Err:                 observable.NewWithValue[error](nil),
		store:               deps.Store,
	}
}

// Filter returns the filter of the list the movie was opened from
func (vm *DetailViewModel) Filter() domain.Filter {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.filter
}

// LoadMovie loads the movie with id. filter is kept so the list can be
// restored on the way back.
func (vm *DetailViewModel) LoadMovie(id int, filter domain.Filter) {
	vm.mu.Lock()
	vm.seq++
	seq := vm.seq
	vm.filter = filter
	vm.mu.Unlock()

	vm.Loading.Set(true)
	vm.log.Debug().Int("movie_id", id).Uint64("seq", seq).Msg("loading")

	scope.Launch(vm.Scope(),
		func(ctx context.Context) (*domain.MovieDetail, error) {
			return vm.store.GetMovie(ctx, id)
		},
		func(movie *domain.MovieDetail, err error) {
			if !vm.latest(seq) {
				return
			}
			vm.Loading.Set(false)
			if err != nil {
				err = fmt.Errorf("%s %d: %w", OpLoadMovie, id, err)
				vm.Err.Set(err)
				vm.fail(OpLoadMovie, err)
				return
			}
			vm.Err.Set(nil)
			vm.Genres.Set(movie.Genres)
			vm.ProductionCompanies.Set(movie.ProductionCompanies)
			vm.SpokenLanguages.Set(movie.SpokenLanguages)
			vm.Movie.Set(movie)
			vm.publish(eventbus.MovieLoadedEvent{MovieID: id})
		})
}

func (vm *DetailViewModel) latest(seq uint64) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return seq == vm.seq
}
