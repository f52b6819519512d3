package views

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelgrip/internal/domain"
)

var listed = []domain.MovieSummary{
	{ID: 3, Title: "Aliens", ReleaseDate: "1986-07-18", VoteAverage: 7.9, VoteCount: 9000},
	{ID: 2, Title: "Alien", ReleaseDate: "1979-05-25", VoteAverage: 8.1, VoteCount: 14000},
	{ID: 9, Title: "Obscure"},
}

func listState() ListViewState {
	return ListViewState{
		Width:          100,
		Height:         30,
		Filter:         domain.DefaultFilter(),
		Movies:         listed,
		ViewportHeight: ListViewportHeight(30),
		SortName:       "rank",
	}
}

func TestRenderListShowsMovies(t *testing.T) {
	r := NewRenderer(true, true)
	out := stripANSI(r.RenderList(listState()))

	assert.Contains(t, out, "reelgrip")
	assert.Contains(t, out, "3 movies")
	assert.Contains(t, out, "sort: rank")
	assert.Contains(t, out, "Popular")
	assert.Contains(t, out, "Top Rated")
	assert.Contains(t, out, "Press / to search")
	assert.Contains(t, out, "▶")
	assert.Contains(t, out, "Aliens (1986)")
	assert.Contains(t, out, "★ 8.1 (14000)")
	assert.Contains(t, out, "unrated")
	assert.Contains(t, out, "Press ? for help")
}

func TestRenderListStates(t *testing.T) {
	r := NewRenderer(true, true)

	s := listState()
	s.Movies = nil
	s.Loading = true
	assert.Contains(t, stripANSI(r.RenderList(s)), "Loading movies...")

	s.Loading = false
	s.LoadError = "database is locked"
	assert.Contains(t, stripANSI(r.RenderList(s)), "Could not load movies: database is locked")

	s.LoadError = ""
	assert.Contains(t, stripANSI(r.RenderList(s)), "No movies found.")

	s = listState()
	s.ActiveQuery = "alien"
	assert.Contains(t, stripANSI(r.RenderList(s)), `Results for "alien"`)

	s.InputMode = "search"
	s.TextInput = "Search: alie"
	out := stripANSI(r.RenderList(s))
	assert.Contains(t, out, "Search: alie")
	assert.NotContains(t, out, "Results for")

	s = listState()
	s.StatusMessage = "Imported 3 movies from seed.json"
	assert.Contains(t, stripANSI(r.RenderList(s)), "Imported 3 movies from seed.json")
}

func TestRenderListHidesRatingsWhenDisabled(t *testing.T) {
	r := NewRenderer(false, false)
	out := stripANSI(r.RenderList(listState()))

	assert.Contains(t, out, "Aliens")
	assert.NotContains(t, out, "(1986)")
	assert.NotContains(t, out, "★")
}

func TestRenderListScrollIndicators(t *testing.T) {
	var many []domain.MovieSummary
	for i := 1; i <= 40; i++ {
		many = append(many, domain.MovieSummary{ID: i, Title: "Movie"})
	}
	s := listState()
	s.Movies = many
	s.ViewportOffset = 10
	s.SelectedIndex = 12

	out := stripANSI(NewRenderer(true, true).RenderList(s))
	assert.Contains(t, out, "↑ 10 more above ↑")
	assert.Contains(t, out, "more below")
}

func TestRenderListHelpOverlay(t *testing.T) {
	s := listState()
	s.ShowHelp = true
	s.HelpSections = []HelpSection{{Title: "Search", Entries: []HelpEntry{{Key: "/", Desc: "Search titles"}}}}

	out := stripANSI(NewRenderer(true, true).RenderList(s))
	assert.Contains(t, out, "reelgrip help")
	assert.Contains(t, out, "Search titles")
}

func detailState() DetailViewState {
	return DetailViewState{
		Width:  100,
		Height: 40,
		Movie: &domain.MovieDetail{
			MovieSummary: domain.MovieSummary{ID: 1, Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: 7.9, VoteCount: 7000},
			Tagline:      "A Los Angeles crime saga",
			Overview:     "Obsessive master thief Neil McCauley leads a top-notch crew.",
			Runtime:      170,
		},
		Genres:              []domain.Genre{{ID: 28, Name: "Action"}, {ID: 80, Name: "Crime"}},
		ProductionCompanies: []domain.ProductionCompany{{ID: 508, Name: "Regency Enterprises", OriginCountry: "US"}},
		SpokenLanguages:     []domain.SpokenLanguage{{ISO639: "en", Name: "English"}},
	}
}

func TestRenderDetail(t *testing.T) {
	out := stripANSI(NewRenderer(true, true).RenderDetail(detailState()))

	assert.Contains(t, out, "Heat (1995)")
	assert.Contains(t, out, "A Los Angeles crime saga")
	assert.Contains(t, out, "Action")
	assert.Contains(t, out, "Crime")
	assert.Contains(t, out, "Overview")
	assert.Contains(t, out, "Neil McCauley")
	assert.Contains(t, out, "Regency Enterprises")
	assert.Contains(t, out, "English")
}

func TestDetailScrolling(t *testing.T) {
	r := NewRenderer(true, true)

	tall := detailState()
	assert.Zero(t, r.DetailMaxScroll(tall))

	short := detailState()
	short.Height = 8
	maxScroll := r.DetailMaxScroll(short)
	require.Positive(t, maxScroll)

	short.ScrollOffset = maxScroll + 50
	out := stripANSI(r.RenderDetail(short))
	assert.Contains(t, out, "more above")
	assert.NotContains(t, out, "more below")
}

func TestPlainHelp(t *testing.T) {
	out := PlainHelp("reelgrip help", []HelpSection{
		{Title: "Navigation", Entries: []HelpEntry{{Key: "j/k", Desc: "Move"}}},
		{Title: "Search", Entries: []HelpEntry{{Key: "/", Desc: "Search titles"}}},
	})

	lines := strings.Split(out, "\n")
	assert.Equal(t, "reelgrip help", lines[0])
	assert.Equal(t, "=============", lines[1])
	assert.Contains(t, out, "Navigation\n  j/k            Move\n")
	assert.Contains(t, out, "Search titles")
}

func TestViewportHeights(t *testing.T) {
	assert.Equal(t, 20, ListViewportHeight(0))
	assert.Equal(t, 22, ListViewportHeight(30))
	assert.Equal(t, 3, ListViewportHeight(5))
	assert.Equal(t, 36, DetailBodyHeight(40))
}
