package logic

import (
	"sort"
	"strings"

	"reelgrip/internal/domain"
)

// SortMode represents different sort modes
type SortMode int

const (
	SortByRank SortMode = iota // order the catalog returned
	SortByTitle
	SortByYear
	SortByRating
)

var sortNames = map[SortMode]string{
	SortByRank:   "rank",
	SortByTitle:  "title",
	SortByYear:   "year",
	SortByRating: "rating",
}

func (m SortMode) String() string {
	if name, ok := sortNames[m]; ok {
		return name
	}
	return "rank"
}

// Next returns the following sort mode, wrapping around
func (m SortMode) Next() SortMode {
	return (m + 1) % SortMode(len(sortNames))
}

// SortMovies sorts movies in place according to mode
func SortMovies(movies []domain.MovieSummary, mode SortMode) {
	switch mode {
	case SortByTitle:
		sort.SliceStable(movies, func(i, j int) bool {
			return strings.ToLower(movies[i].Title) < strings.ToLower(movies[j].Title)
		})
	case SortByYear:
		// Newest first, unknown years last
		sort.SliceStable(movies, func(i, j int) bool {
			yi, yj := movies[i].Year(), movies[j].Year()
			if yi == 0 || yj == 0 {
				return yj == 0 && yi != 0
			}
			return yi > yj
		})
	case SortByRating:
		sort.SliceStable(movies, func(i, j int) bool {
			if movies[i].VoteAverage != movies[j].VoteAverage {
				return movies[i].VoteAverage > movies[j].VoteAverage
			}
			return movies[i].VoteCount > movies[j].VoteCount
		})
	default:
		// Rank keeps the catalog order
	}
}
