package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"reelgrip/internal/domain"
)

// MemoryStore is an in-memory implementation of Store
type MemoryStore struct {
	mu     sync.RWMutex
	movies map[int]*domain.MovieDetail
	rules  Rules
}

// NewMemoryStore creates an empty memory-based store
func NewMemoryStore(rules Rules) *MemoryStore {
	return &MemoryStore{
		movies: make(map[int]*domain.MovieDetail),
		rules:  rules,
	}
}

// ListMovies implements Store
func (s *MemoryStore) ListMovies(ctx context.Context, filter domain.Filter, limit int) ([]domain.MovieSummary, error) {
	return s.SearchMovies(ctx, "", filter, limit)
}

// SearchMovies implements Store
func (s *MemoryStore) SearchMovies(ctx context.Context, query string, filter domain.Filter, limit int) ([]domain.MovieSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := newMatcher(s.rules, query, filter)

	s.mu.RLock()
	result := []domain.MovieSummary{}
	for _, movie := range s.movies {
		if m.matches(movie) {
			result = append(result, movie.MovieSummary)
		}
	}
	s.mu.RUnlock()

	sortForCategory(result, filter.Category)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetMovie implements Store. The returned detail is a copy.
func (s *MemoryStore) GetMovie(ctx context.Context, id int) (*domain.MovieDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	movie, ok := s.movies[id]
	if !ok {
		return nil, fmt.Errorf("movie %d: %w", id, ErrNotFound)
	}
	return cloneDetail(movie), nil
}

// UpsertMovies implements Store
func (s *MemoryStore) UpsertMovies(ctx context.Context, movies []domain.MovieDetail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range movies {
		movie := cloneDetail(&movies[i])
		normalizeDetail(movie)
		s.movies[movie.ID] = movie
	}
	return nil
}

// Count implements Store
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies), nil
}

func cloneDetail(d *domain.MovieDetail) *domain.MovieDetail {
	c := *d
	c.Genres = append([]domain.Genre(nil), d.Genres...)
	c.ProductionCompanies = append([]domain.ProductionCompany(nil), d.ProductionCompanies...)
	c.SpokenLanguages = append([]domain.SpokenLanguage(nil), d.SpokenLanguages...)
	return &c
}

// matcher decides which movies belong to a list
type matcher struct {
	query    string
	filter   domain.Filter
	minVotes int
	today    string
	from     string
}

func newMatcher(rules Rules, query string, filter domain.Filter) matcher {
	return matcher{
		query:    foldCase(strings.TrimSpace(query)),
		filter:   filter,
		minVotes: rules.TopRatedMinVotes,
		today:    rules.today(),
		from:     rules.nowPlayingFrom(),
	}
}

func (m matcher) matches(movie *domain.MovieDetail) bool {
	if m.query != "" && !strings.Contains(foldCase(movie.Title), m.query) {
		return false
	}
	if m.filter.Genre != "" && !hasGenre(movie, m.filter.Genre) {
		return false
	}
	if m.filter.Year != 0 && movie.Year() != m.filter.Year {
		return false
	}

	switch m.filter.Category {
	case domain.CategoryTopRated:
		return movie.VoteCount >= m.minVotes
	case domain.CategoryUpcoming:
		return movie.ReleaseDate > m.today
	case domain.CategoryNowPlaying:
		return movie.ReleaseDate != "" && movie.ReleaseDate <= m.today && movie.ReleaseDate >= m.from
	default:
		return true
	}
}

func hasGenre(movie *domain.MovieDetail, name string) bool {
	name = foldCase(name)
	for _, g := range movie.Genres {
		if foldCase(g.Name) == name {
			return true
		}
	}
	return false
}

// sortForCategory orders movies the way each category ranks them, with the
// title as tie breaker
func sortForCategory(movies []domain.MovieSummary, c domain.Category) {
	sort.SliceStable(movies, func(i, j int) bool {
		a, b := movies[i], movies[j]
		switch c {
		case domain.CategoryTopRated:
			if a.VoteAverage != b.VoteAverage {
				return a.VoteAverage > b.VoteAverage
			}
			if a.VoteCount != b.VoteCount {
				return a.VoteCount > b.VoteCount
			}
		case domain.CategoryUpcoming:
			if a.ReleaseDate != b.ReleaseDate {
				return a.ReleaseDate < b.ReleaseDate
			}
		case domain.CategoryNowPlaying:
			if a.ReleaseDate != b.ReleaseDate {
				return a.ReleaseDate > b.ReleaseDate
			}
		default:
			if a.Popularity != b.Popularity {
				return a.Popularity > b.Popularity
			}
		}
		return a.Title < b.Title
	})
}
