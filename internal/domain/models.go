package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout used for release dates in the catalog
const DateLayout = "2006-01-02"

// MovieSummary is a movie as shown in the list screen
type MovieSummary struct {
	ID          int
	Title       string
	ReleaseDate string // YYYY-MM-DD, may be empty
	VoteAverage float64
	VoteCount   int
	Popularity  float64
	PosterPath  string
}

// Year returns the release year, or 0 if unknown
func (m MovieSummary) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	t, err := time.Parse(DateLayout, m.ReleaseDate)
	if err != nil {
		return 0
	}
	return t.Year()
}

// Genre is a movie genre
type Genre struct {
	ID   int
	Name string
}

// ProductionCompany is a company credited on a movie
type ProductionCompany struct {
	ID            int
	Name          string
	OriginCountry string
}

// SpokenLanguage is a language spoken in a movie
type SpokenLanguage struct {
	ISO639 string
	Name   string
}

// MovieDetail is everything the detail screen shows
type MovieDetail struct {
	MovieSummary
	Overview            string
	Tagline             string
	Runtime             int // minutes
	Status              string
	Homepage            string
	Genres              []Genre
	ProductionCompanies []ProductionCompany
	SpokenLanguages     []SpokenLanguage
}

// Summary returns the list view of the movie
func (d *MovieDetail) Summary() MovieSummary {
	return d.MovieSummary
}

// Category selects which slice of the catalog a list shows
type Category string

const (
	CategoryPopular    Category = "popular"
	CategoryTopRated   Category = "top_rated"
	CategoryUpcoming   Category = "upcoming"
	CategoryNowPlaying Category = "now_playing"
)

// Categories lists the categories in tab order
var Categories = []Category{
	CategoryPopular,
	CategoryTopRated,
	CategoryUpcoming,
	CategoryNowPlaying,
}

// ParseCategory parses a category name. Dashes and case are ignored.
func ParseCategory(s string) (Category, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if normalized == "" {
		return CategoryPopular, nil
	}
	for _, c := range Categories {
		if string(c) == normalized {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Label returns the human readable category name
func (c Category) Label() string {
	switch c {
	case CategoryPopular:
		return "Popular"
	case CategoryTopRated:
		return "Top Rated"
	case CategoryUpcoming:
		return "Upcoming"
	case CategoryNowPlaying:
		return "Now Playing"
	default:
		return string(c)
	}
}

// Next returns the category after c in tab order, wrapping around
func (c Category) Next() Category {
	for i, cat := range Categories {
		if cat == c {
			return Categories[(i+1)%len(Categories)]
		}
	}
	return CategoryPopular
}

// Prev returns the category before c in tab order, wrapping around
func (c Category) Prev() Category {
	for i, cat := range Categories {
		if cat == c {
			return Categories[(i+len(Categories)-1)%len(Categories)]
		}
	}
	return CategoryPopular
}

// Filter is the criteria a list was opened with. It is passed by value
// between screens and never mutated in place.
type Filter struct {
	Category Category
	Genre    string // optional, matched case-insensitively
	Year     int    // optional, 0 means any
}

// DefaultFilter returns the filter used when nothing else is configured
func DefaultFilter() Filter {
	return Filter{Category: CategoryPopular}
}

// WithCategory returns a copy of f with another category
func (f Filter) WithCategory(c Category) Filter {
	f.Category = c
	return f
}

func (f Filter) String() string {
	parts := []string{string(f.Category)}
	if f.Genre != "" {
		parts = append(parts, "genre="+f.Genre)
	}
	if f.Year != 0 {
		parts = append(parts, fmt.Sprintf("year=%d", f.Year))
	}
	return strings.Join(parts, " ")
}
