package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"reelgrip/internal/domain"
)

// DefaultListTTL bounds how long a cached list is served. Upcoming and
// now playing move with the date.
const DefaultListTTL = 10 * time.Minute

// CachedStore keeps recent list and detail results of another Store in
// memory. Writes through it drop everything cached.
type CachedStore struct {
	next    Store
	lists   *expirable.LRU[string, []domain.MovieSummary]
	details *lru.Cache[int, *domain.MovieDetail]

	// gen changes on every purge; a result read under an older gen is
	// returned but not cached
	mu  sync.Mutex
	gen uint64
}

// NewCachedStore wraps next with caches of size entries each, expiring
// lists after DefaultListTTL
func NewCachedStore(next Store, size int) (*CachedStore, error) {
	return NewCachedStoreTTL(next, size, DefaultListTTL)
}

// NewCachedStoreTTL is NewCachedStore with an explicit list lifetime
func NewCachedStoreTTL(next Store, size int, listTTL time.Duration) (*CachedStore, error) {
	if size <= 0 {
		return nil, fmt.Errorf("catalog: list cache: size must be positive, got %d", size)
	}
	if listTTL <= 0 {
		return nil, fmt.Errorf("catalog: list cache: ttl must be positive, got %s", listTTL)
	}
	details, err := lru.New[int, *domain.MovieDetail](size)
	if err != nil {
		return nil, fmt.Errorf("catalog: detail cache: %w", err)
	}
	return &CachedStore{
		next:    next,
		lists:   expirable.NewLRU[string, []domain.MovieSummary](size, nil, listTTL),
		details: details,
	}, nil
}

func listKey(query string, filter domain.Filter, limit int) string {
	return fmt.Sprintf("%s|%s|%d", foldCase(strings.TrimSpace(query)), filter, limit)
}

func (c *CachedStore) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// keep runs add unless a purge happened since gen was read
func (c *CachedStore) keep(gen uint64, add func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		add()
	}
}

// ListMovies implements Store
func (c *CachedStore) ListMovies(ctx context.Context, filter domain.Filter, limit int) ([]domain.MovieSummary, error) {
	return c.SearchMovies(ctx, "", filter, limit)
}

// SearchMovies implements Store
func (c *CachedStore) SearchMovies(ctx context.Context, query string, filter domain.Filter, limit int) ([]domain.MovieSummary, error) {
	key := listKey(query, filter, limit)
	if movies, ok := c.lists.Get(key); ok {
		return append([]domain.MovieSummary(nil), movies...), nil
	}

	gen := c.generation()
	movies, err := c.next.SearchMovies(ctx, query, filter, limit)
	if err != nil {
		return nil, err
	}
	c.keep(gen, func() { c.lists.Add(key, append([]domain.MovieSummary(nil), movies...)) })
	return movies, nil
}

// GetMovie implements Store
func (c *CachedStore) GetMovie(ctx context.Context, id int) (*domain.MovieDetail, error) {
	if movie, ok := c.details.Get(id); ok {
		return cloneDetail(movie), nil
	}

	gen := c.generation()
	movie, err := c.next.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	c.keep(gen, func() { c.details.Add(id, cloneDetail(movie)) })
	return movie, nil
}

// UpsertMovies implements Store
func (c *CachedStore) UpsertMovies(ctx context.Context, movies []domain.MovieDetail) error {
	defer c.Purge()
	return c.next.UpsertMovies(ctx, movies)
}

// Count implements Store
func (c *CachedStore) Count(ctx context.Context) (int, error) {
	return c.next.Count(ctx)
}

// Purge drops every cached result
func (c *CachedStore) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lists.Purge()
	c.details.Purge()
}

// Len returns the number of cached list and detail entries
func (c *CachedStore) Len() (lists, details int) {
	return c.lists.Len(), c.details.Len()
}
