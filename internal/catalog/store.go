// Package catalog stores movies and answers the list, search and detail
// queries the screens make.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"reelgrip/internal/domain"
)

// ErrNotFound is returned by GetMovie for an unknown id
var ErrNotFound = errors.New("catalog: movie not found")

// Store is the movies-loading backend
type Store interface {
	// ListMovies returns the movies of filter's category, best first.
	// A limit <= 0 means no limit.
	ListMovies(ctx context.Context, filter domain.Filter, limit int) ([]domain.MovieSummary, error)
	// SearchMovies is ListMovies narrowed to titles containing query, case-insensitively
	SearchMovies(ctx context.Context, query string, filter domain.Filter, limit int) ([]domain.MovieSummary, error)
	GetMovie(ctx context.Context, id int) (*domain.MovieDetail, error)
	UpsertMovies(ctx context.Context, movies []domain.MovieDetail) error
	Count(ctx context.Context) (int, error)
}

// Rules holds the thresholds that define the categories
type Rules struct {
	TopRatedMinVotes int
	NowPlayingWindow time.Duration
	Now              func() time.Time
}

// DefaultRules returns the rules used when none are configured
func DefaultRules() Rules {
	return Rules{
		TopRatedMinVotes: 50,
		NowPlayingWindow: 45 * 24 * time.Hour,
		Now:              time.Now,
	}
}

func (r Rules) today() string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return now().Format(domain.DateLayout)
}

func (r Rules) nowPlayingFrom() string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return now().Add(-r.NowPlayingWindow).Format(domain.DateLayout)
}

// foldCase is the case folding every store matches titles and genres with
func foldCase(s string) string {
	return strings.ToLower(s)
}

// normalizeDetail drops repeated genres, companies and languages from a
// movie, keeping the first of each. Genres repeat when their names fold
// to the same text.
func normalizeDetail(m *domain.MovieDetail) {
	m.Genres = dedupe(m.Genres, func(g domain.Genre) string { return foldCase(g.Name) })
	m.ProductionCompanies = dedupe(m.ProductionCompanies, func(c domain.ProductionCompany) string { return c.Name })
	m.SpokenLanguages = dedupe(m.SpokenLanguages, func(l domain.SpokenLanguage) string { return l.ISO639 })
}

func dedupe[T any](items []T, key func(T) string) []T {
	if len(items) < 2 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := items[:0:0]
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}
