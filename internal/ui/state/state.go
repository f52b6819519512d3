package state

import (
	"reelgrip/internal/domain"
	"reelgrip/internal/ui/logic"
)

// AppState contains the state of the movies list screen
type AppState struct {
	// Movie data
	Movies  []domain.MovieSummary // as loaded, in catalog rank order
	Ordered []domain.MovieSummary // Movies in display order

	// Query state
	Filter      domain.Filter
	SearchQuery string // text in the search field
	ActiveQuery string // query of the results on screen
	Sort        logic.SortMode

	// Selection state
	SelectedIndex int

	// UI state
	ViewportOffset int
	ViewportHeight int
	Loading        bool
	LoadError      string
	ShowHelp       bool
}

// NewAppState creates a new list state
func NewAppState(filter domain.Filter) *AppState {
	return &AppState{
		Filter:         filter,
		Movies:         make([]domain.MovieSummary, 0),
		Ordered:        make([]domain.MovieSummary, 0),
		Sort:           logic.SortByRank,
		ViewportHeight: 20, // Default
	}
}

// SetMovies replaces the list and reapplies the sort. The selection stays
// on the same movie when it is still present.
func (s *AppState) SetMovies(movies []domain.MovieSummary) {
	selectedID := 0
	if m, ok := s.SelectedMovie(); ok {
		selectedID = m.ID
	}

	s.Movies = movies
	s.resort()

	s.SelectedIndex = 0
	for i, m := range s.Ordered {
		if m.ID == selectedID {
			s.SelectedIndex = i
			break
		}
	}
}

// SetSort changes the display order
func (s *AppState) SetSort(mode logic.SortMode) {
	s.Sort = mode
	selected, ok := s.SelectedMovie()
	s.resort()
	if ok {
		for i, m := range s.Ordered {
			if m.ID == selected.ID {
				s.SelectedIndex = i
				break
			}
		}
	}
}

func (s *AppState) resort() {
	s.Ordered = append(s.Ordered[:0], s.Movies...)
	logic.SortMovies(s.Ordered, s.Sort)
}

// SelectedMovie returns the movie under the cursor
func (s *AppState) SelectedMovie() (domain.MovieSummary, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Ordered) {
		return domain.MovieSummary{}, false
	}
	return s.Ordered[s.SelectedIndex], true
}

// DetailState contains the state of the detail screen
type DetailState struct {
	MovieID             int
	Filter              domain.Filter
	Movie               *domain.MovieDetail
	Genres              []domain.Genre
	ProductionCompanies []domain.ProductionCompany
	SpokenLanguages     []domain.SpokenLanguage
	Loading             bool
	LoadError           string
	ScrollOffset        int
	ShowHelp            bool
}

// NewDetailState creates the state for one movie
func NewDetailState(movieID int, filter domain.Filter) *DetailState {
	return &DetailState{MovieID: movieID, Filter: filter, Loading: true}
}
