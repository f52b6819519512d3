package catalog

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelgrip/internal/domain"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func testRules() Rules {
	r := DefaultRules()
	r.Now = func() time.Time { return testNow }
	return r
}

func movie(id int, title, date string, avg float64, votes int, pop float64, genres ...string) domain.MovieDetail {
	d := domain.MovieDetail{
		MovieSummary: domain.MovieSummary{
			ID:          id,
			Title:       title,
			ReleaseDate: date,
			VoteAverage: avg,
			VoteCount:   votes,
			Popularity:  pop,
		},
	}
	for _, g := range genres {
		d.Genres = append(d.Genres, domain.Genre{Name: g})
	}
	return d
}

func seedMovies() []domain.MovieDetail {
	heat := movie(1, "Heat", "1995-12-15", 7.9, 7000, 40, "Action", "Crime")
	heat.Overview = "A group of professional bank robbers."
	heat.ProductionCompanies = []domain.ProductionCompany{
		{Name: "Regency Enterprises", OriginCountry: "US"},
		{Name: "Forward Pass", OriginCountry: "US"},
	}
	heat.SpokenLanguages = []domain.SpokenLanguage{{ISO639: "en", Name: "English"}, {ISO639: "es", Name: "Spanish"}}

	return []domain.MovieDetail{
		heat,
		movie(2, "Alien", "1979-05-25", 8.1, 14000, 55, "Horror", "Science Fiction"),
		movie(3, "Aliens", "1986-07-18", 7.9, 9000, 60, "Action", "Science Fiction"),
		movie(4, "Obscure Gem", "2001-03-02", 9.5, 12, 1, "Drama"),
		movie(5, "Batman Returns Again", "2026-12-01", 0, 0, 80, "Action"),
		movie(6, "Fresh Release", "2026-10-01", 6.5, 80, 30, "Comedy"),
		movie(7, "Last Month", "2026-09-10", 7.0, 120, 20, "Drama"),
		movie(8, "Too Old For Theaters", "2026-08-01", 7.2, 300, 10, "Drama"),
	}
}

func ids(movies []domain.MovieSummary) []int {
	out := make([]int, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}

// storeFactories returns every Store implementation, seeded
func storeFactories(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	mem := NewMemoryStore(testRules())
	require.NoError(t, mem.UpsertMovies(ctx, seedMovies()))

	db, err := OpenSQLite(":memory:", testRules())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.UpsertMovies(ctx, seedMovies()))

	cachedBackend := NewMemoryStore(testRules())
	require.NoError(t, cachedBackend.UpsertMovies(ctx, seedMovies()))
	cached, err := NewCachedStore(cachedBackend, 16)
	require.NoError(t, err)

	return map[string]Store{"memory": mem, "sqlite": db, "cached": cached}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.Filter
		want   []int
	}{
		{"popular", domain.Filter{Category: domain.CategoryPopular}, []int{5, 3, 2, 1, 6, 7, 8, 4}},
		{"top rated needs votes", domain.Filter{Category: domain.CategoryTopRated}, []int{2, 3, 1, 8, 7, 6}},
		{"upcoming", domain.Filter{Category: domain.CategoryUpcoming}, []int{5}},
		{"now playing", domain.Filter{Category: domain.CategoryNowPlaying}, []int{6, 7}},
		{"genre narrows", domain.Filter{Category: domain.CategoryPopular, Genre: "action"}, []int{5, 3, 1}},
		{"year narrows", domain.Filter{Category: domain.CategoryTopRated, Year: 1979}, []int{2}},
	}

	for name, store := range storeFactories(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				got, err := store.ListMovies(context.Background(), tt.filter, 0)
				require.NoError(t, err)
				assert.Equal(t, tt.want, ids(got))
			})
		}
	}
}

func TestSearchMatchesTitleWithinFilter(t *testing.T) {
	for name, store := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			got, err := store.SearchMovies(ctx, "ALIEN", domain.DefaultFilter(), 0)
			require.NoError(t, err)
			assert.Equal(t, []int{3, 2}, ids(got))

			got, err = store.SearchMovies(ctx, "alien", domain.Filter{Category: domain.CategoryPopular, Genre: "Horror"}, 0)
			require.NoError(t, err)
			assert.Equal(t, []int{2}, ids(got))

			got, err = store.SearchMovies(ctx, "zzz", domain.DefaultFilter(), 0)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestLimit(t *testing.T) {
	for name, store := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.ListMovies(context.Background(), domain.DefaultFilter(), 2)
			require.NoError(t, err)
			assert.Equal(t, []int{5, 3}, ids(got))
		})
	}
}

func TestGetMovie(t *testing.T) {
	for name, store := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			heat, err := store.GetMovie(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, "Heat", heat.Title)
			assert.Equal(t, "A group of professional bank robbers.", heat.Overview)
			assert.Equal(t, 1995, heat.Year())

			var genres []string
			for _, g := range heat.Genres {
				genres = append(genres, g.Name)
			}
			assert.Equal(t, []string{"Action", "Crime"}, genres)
			require.Len(t, heat.ProductionCompanies, 2)
			assert.Equal(t, "Regency Enterprises", heat.ProductionCompanies[0].Name)
			assert.Equal(t, []domain.SpokenLanguage{{ISO639: "en", Name: "English"}, {ISO639: "es", Name: "Spanish"}}, heat.SpokenLanguages)

			_, err = store.GetMovie(ctx, 999)
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestUpsertReplacesMovie(t *testing.T) {
	for name, store := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			// warm any cache first
			_, err := store.GetMovie(ctx, 2)
			require.NoError(t, err)

			updated := movie(2, "Alien: Director's Cut", "1979-05-25", 8.2, 15000, 90, "Horror")
			require.NoError(t, store.UpsertMovies(ctx, []domain.MovieDetail{updated}))

			got, err := store.GetMovie(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, "Alien: Director's Cut", got.Title)
			require.Len(t, got.Genres, 1)
			assert.Equal(t, "Horror", got.Genres[0].Name)

			n, err := store.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 8, n)
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore(testRules())
	require.NoError(t, store.UpsertMovies(context.Background(), seedMovies()))

	heat, err := store.GetMovie(context.Background(), 1)
	require.NoError(t, err)
	heat.Genres[0].Name = "Mutated"

	again, err := store.GetMovie(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Action", again.Genres[0].Name)
}

type countingStore struct {
	Store
	searches int
	gets     int
}

func (c *countingStore) SearchMovies(ctx context.Context, query string, filter domain.Filter, limit int) ([]domain.MovieSummary, error) {
	c.searches++
	return c.Store.SearchMovies(ctx, query, filter, limit)
}

func (c *countingStore) GetMovie(ctx context.Context, id int) (*domain.MovieDetail, error) {
	c.gets++
	return c.Store.GetMovie(ctx, id)
}

func TestCachedStoreServesRepeatsFromCache(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore(testRules())
	require.NoError(t, backend.UpsertMovies(ctx, seedMovies()))
	counter := &countingStore{Store: backend}

	cached, err := NewCachedStore(counter, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := cached.ListMovies(ctx, domain.DefaultFilter(), 10)
		require.NoError(t, err)
		_, err = cached.SearchMovies(ctx, " Alien ", domain.DefaultFilter(), 10)
		require.NoError(t, err)
		_, err = cached.GetMovie(ctx, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, counter.searches)
	assert.Equal(t, 1, counter.gets)

	lists, details := cached.Len()
	assert.Equal(t, 2, lists)
	assert.Equal(t, 1, details)

	require.NoError(t, cached.UpsertMovies(ctx, []domain.MovieDetail{movie(9, "New", "2020-01-01", 5, 5, 5)}))
	lists, details = cached.Len()
	assert.Zero(t, lists)
	assert.Zero(t, details)
}

func TestCachedStoreRejectsBadSize(t *testing.T) {
	_, err := NewCachedStore(NewMemoryStore(testRules()), 0)
	assert.Error(t, err)
}

func TestOpenSQLiteCreatesFile(t *testing.T) {
	path := t.TempDir() + "/nested/catalog.db"
	store, err := OpenSQLite(path, testRules())
	require.NoError(t, err)
	require.NoError(t, store.UpsertMovies(context.Background(), seedMovies()[:2]))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path, testRules())
	require.NoError(t, err)
	defer reopened.Close()

	n, err := reopened.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCaseFoldingIsUnicodeAware(t *testing.T) {
	for name, store := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			amelie := movie(20, "Amélie", "2001-04-25", 7.9, 11000, 25, "Comédie", "Romance")
			require.NoError(t, store.UpsertMovies(ctx, []domain.MovieDetail{amelie}))

			for _, q := range []string{"AMÉLIE", "amélie", "Amél"} {
				got, err := store.SearchMovies(ctx, q, domain.DefaultFilter(), 0)
				require.NoError(t, err)
				assert.Equal(t, []int{20}, ids(got), q)
			}

			got, err := store.ListMovies(ctx, domain.Filter{Category: domain.CategoryPopular, Genre: "COMÉDIE"}, 0)
			require.NoError(t, err)
			assert.Equal(t, []int{20}, ids(got))
		})
	}
}

func TestRepeatedDetailsCollapse(t *testing.T) {
	for name, store := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first := movie(30, "First", "2010-01-01", 6, 100, 5, "Drama", "DRAMA", "Crime")
			first.ProductionCompanies = []domain.ProductionCompany{
				{Name: "Studio Nord", OriginCountry: "SE"},
				{Name: "Studio Nord", OriginCountry: "NO"},
			}
			first.SpokenLanguages = []domain.SpokenLanguage{{ISO639: "sv", Name: "Swedish"}, {ISO639: "sv", Name: "Svenska"}}
			second := movie(31, "Second", "2011-01-01", 6, 100, 4, "Crime")
			second.ProductionCompanies = []domain.ProductionCompany{{Name: "Studio Nord", OriginCountry: "FR"}}
			second.SpokenLanguages = []domain.SpokenLanguage{{ISO639: "sv", Name: "Svenska"}}
			require.NoError(t, store.UpsertMovies(ctx, []domain.MovieDetail{first, second}))

			got, err := store.GetMovie(ctx, 30)
			require.NoError(t, err)
			var genres []string
			for _, g := range got.Genres {
				genres = append(genres, g.Name)
			}
			assert.Equal(t, []string{"Drama", "Crime"}, genres)
			require.Len(t, got.ProductionCompanies, 1)
			assert.Equal(t, "SE", got.ProductionCompanies[0].OriginCountry)
			assert.Equal(t, []domain.SpokenLanguage{{ISO639: "sv", Name: "Swedish"}}, got.SpokenLanguages)

			got, err = store.GetMovie(ctx, 31)
			require.NoError(t, err)
			require.Len(t, got.ProductionCompanies, 1)
			assert.Equal(t, "FR", got.ProductionCompanies[0].OriginCountry)
			assert.Equal(t, "Svenska", got.SpokenLanguages[0].Name)
		})
	}
}

func TestOpenSQLiteRejectsOldSchema(t *testing.T) {
	path := t.TempDir() + "/old.db"
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE movies (id INTEGER PRIMARY KEY, title TEXT NOT NULL)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = OpenSQLite(path, testRules())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import again")
}

// gatedStore holds SearchMovies until release is closed
type gatedStore struct {
	Store
	entered chan struct{}
	release chan struct{}

	mu       sync.Mutex
	searches int
}

func (g *gatedStore) SearchMovies(ctx context.Context, query string, filter domain.Filter, limit int) ([]domain.MovieSummary, error) {
	g.mu.Lock()
	g.searches++
	g.mu.Unlock()
	select {
	case g.entered <- struct{}{}:
	default:
	}
	<-g.release
	return g.Store.SearchMovies(ctx, query, filter, limit)
}

func TestCachedStoreDropsResultsReadBeforeUpsert(t *testing.T) {
	ctx := context.Background()
	backend := &gatedStore{
		Store:   NewMemoryStore(testRules()),
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	require.NoError(t, backend.Store.UpsertMovies(ctx, seedMovies()))

	cached, err := NewCachedStore(backend, 8)
	require.NoError(t, err)

	done := make(chan []domain.MovieSummary)
	go func() {
		movies, err := cached.ListMovies(ctx, domain.DefaultFilter(), 0)
		assert.NoError(t, err)
		done <- movies
	}()
	<-backend.entered

	require.NoError(t, cached.UpsertMovies(ctx, []domain.MovieDetail{movie(9, "New", "2020-01-01", 5, 5, 500)}))
	close(backend.release)
	<-done

	lists, _ := cached.Len()
	assert.Zero(t, lists)

	fresh, err := cached.ListMovies(ctx, domain.DefaultFilter(), 0)
	require.NoError(t, err)
	assert.Equal(t, 9, fresh[0].ID)
	assert.Equal(t, 2, backend.searches)
}

func TestCachedStoreExpiresLists(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore(testRules())
	require.NoError(t, backend.UpsertMovies(ctx, seedMovies()))
	counter := &countingStore{Store: backend}

	cached, err := NewCachedStoreTTL(counter, 8, 20*time.Millisecond)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := cached.ListMovies(ctx, domain.DefaultFilter(), 0)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, counter.searches)

	time.Sleep(60 * time.Millisecond)
	_, err = cached.ListMovies(ctx, domain.DefaultFilter(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, counter.searches)

	_, err = NewCachedStoreTTL(backend, 8, 0)
	assert.Error(t, err)
}
