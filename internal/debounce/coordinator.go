// Package debounce turns a stream of text edits into at most one query per
// quiet period. Every edit supersedes the previous pending one.
package debounce

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"reelgrip/internal/scope"
)

// DefaultQuietPeriod is how long input must stay unchanged before it is acted on
const DefaultQuietPeriod = 500 * time.Millisecond

// Consumer receives the debounced result. F is the filter the query runs
// against; the coordinator passes it through untouched.
type Consumer[F any] interface {
	OnQuery(query string, filter F) error
	OnReset() error
}

type config struct {
	quiet time.Duration
	log   zerolog.Logger
}

// Option configures a Coordinator
type Option func(*config)

// WithQuietPeriod overrides DefaultQuietPeriod
func WithQuietPeriod(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.quiet = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) { c.log = logger }
}

// Coordinator owns a single pending task in a scope
type Coordinator[F any] struct {
	scope    *scope.Scope
	consumer Consumer[F]
	quiet    time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	filter  F
	pending *scope.Task
	gen     uint64
}

// New creates a coordinator whose tasks live in s
func New[F any](s *scope.Scope, consumer Consumer[F], filter F, opts ...Option) *Coordinator[F] {
	cfg := config{quiet: DefaultQuietPeriod, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Coordinator[F]{
		scope:    s,
		consumer: consumer,
		quiet:    cfg.quiet,
		log:      cfg.log.With().Str("component", "debounce").Logger(),
		filter:   filter,
	}
}

// QuietPeriod returns the configured interval
func (c *Coordinator[F]) QuietPeriod() time.Duration {
	return c.quiet
}

// SetFilter changes the filter used by tasks scheduled from now on
func (c *Coordinator[F]) SetFilter(filter F) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = filter
}

// Filter returns the current filter
func (c *Coordinator[F]) Filter() F {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// OnInputChanged replaces any pending task with one for text.
// When it fires, empty text resets the search and anything else is queried.
func (c *Coordinator[F]) OnInputChanged(text string) {
	query := strings.TrimSpace(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		c.pending.Cancel()
	}
	c.gen++
	gen := c.gen
	filter := c.filter
	c.pending = c.scope.Schedule(c.quiet, func() error {
		return c.fire(gen, query, filter)
	})
}

// Cancel drops the pending task, if any
func (c *Coordinator[F]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
	c.gen++
}

// Pending reports whether a task is waiting to fire
func (c *Coordinator[F]) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil && c.pending.State() == scope.Scheduled
}

func (c *Coordinator[F]) fire(gen uint64, query string, filter F) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer edit arrived between expiry and here
	if gen != c.gen {
		return nil
	}
	c.pending = nil

	if query == "" {
		c.log.Debug().Msg("reset")
		return c.consumer.OnReset()
	}
	c.log.Debug().Str("query", query).Msg("query")
	return c.consumer.OnQuery(query, filter)
}
