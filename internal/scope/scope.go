// Package scope binds delayed and background work to the lifetime of a
// screen. Tearing a scope down cancels everything it owns; once Teardown
// returns no effect registered through the scope runs again.
package scope

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"reelgrip/internal/eventbus"
)

// ErrTornDown is the panic value (wrapped) for use of a finished scope
var ErrTornDown = errors.New("scope: torn down")

// Timer is the part of *time.Timer the scope needs
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run on its own goroutine after d.
// It must never call f synchronously.
type AfterFunc func(d time.Duration, f func()) Timer

// RealAfterFunc is the default AfterFunc backed by time.AfterFunc
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type lifecycle int

const (
	live lifecycle = iota
	tearing
	done
)

// Option configures a Scope
type Option func(*Scope)

// WithName labels the scope in logs and events
func WithName(name string) Option {
	return func(s *Scope) { s.name = name }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scope) { s.log = logger }
}

// WithAfterFunc replaces the timer source (tests use a fake clock)
func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Scope) { s.afterFunc = fn }
}

// WithErrorHandler receives every error returned by a task effect or a Go func
func WithErrorHandler(fn func(error)) Option {
	return func(s *Scope) { s.onError = fn }
}

// WithBus publishes a ScopeTornDownEvent on teardown
func WithBus(bus eventbus.EventBus) Option {
	return func(s *Scope) { s.bus = bus }
}

// Scope owns the tasks started on behalf of one screen
type Scope struct {
	id        string
	name      string
	ctx       context.Context
	cancel    context.CancelFunc
	afterFunc AfterFunc
	onError   func(error)
	bus       eventbus.EventBus
	log       zerolog.Logger

	mu       sync.Mutex
	state    lifecycle
	tasks    map[*Task]struct{}
	cleanups []func()
	errs     []error

	// Effects hold gate for reading; Teardown takes it for writing to
	// wait out effects that were already running.
	gate  sync.RWMutex
	group errgroup.Group
	once  sync.Once
}

// New creates a live scope whose context is derived from parent
func New(parent context.Context, opts ...Option) *Scope {
	ctx, cancel := context.WithCancel(parent)
	s := &Scope{
		id:        uuid.NewString(),
		name:      "scope",
		ctx:       ctx,
		cancel:    cancel,
		afterFunc: RealAfterFunc,
		log:       zerolog.Nop(),
		tasks:     make(map[*Task]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().
		Str("component", "scope").
		Str("scope", s.name).
		Str("scope_id", s.id).
		Logger()
	return s
}

// ID returns the unique id of the scope
func (s *Scope) ID() string { return s.id }

// Name returns the label given with WithName
func (s *Scope) Name() string { return s.name }

// Context is cancelled when teardown starts
func (s *Scope) Context() context.Context { return s.ctx }

// Schedule runs effect after d unless the task is cancelled or the scope
// is torn down first. Scheduling on a torn-down scope panics.
func (s *Scope) Schedule(d time.Duration, effect func() error) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &Task{scope: s, effect: effect}
	switch s.state {
	case done:
		panic(fmt.Errorf("schedule on %q: %w", s.name, ErrTornDown))
	case tearing:
		// Requested by an effect that was already running when teardown
		// began. It will never fire.
		t.state = Cancelled
		return t
	}

	t.state = Scheduled
	s.tasks[t] = struct{}{}
	t.timer = s.afterFunc(d, t.fire)
	return t
}

// Go runs fn in the background with the scope's context. A non-nil error
// is reported unless the scope is being torn down.
func (s *Scope) Go(fn func(ctx context.Context) error) {
	s.spawn(func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && !s.closing() {
			s.report(err)
		}
		return err
	})
}

func (s *Scope) spawn(fn func(ctx context.Context) error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	switch state {
	case done:
		panic(fmt.Errorf("launch on %q: %w", s.name, ErrTornDown))
	case tearing:
		return
	}
	s.group.Go(func() error { return fn(s.ctx) })
}

// Launch runs work in the background and hands its result to apply.
// apply runs under the same guarantee as a task effect: never after
// Teardown has started, and Teardown waits for it to return.
func Launch[T any](s *Scope, work func(ctx context.Context) (T, error), apply func(T, error)) {
	s.spawn(func(ctx context.Context) error {
		v, err := work(ctx)
		s.Do(func() { apply(v, err) })
		return err
	})
}

// Do runs fn unless teardown has started. It reports whether fn ran.
func (s *Scope) Do(fn func()) bool {
	s.gate.RLock()
	defer s.gate.RUnlock()

	if s.closing() {
		return false
	}
	fn()
	return true
}

// OnTeardown registers fn to run after all effects have stopped.
// Cleanups run in reverse registration order.
func (s *Scope) OnTeardown(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == done {
		panic(fmt.Errorf("register cleanup on %q: %w", s.name, ErrTornDown))
	}
	s.cleanups = append(s.cleanups, fn)
}

// Pending returns the number of tasks still waiting to fire
func (s *Scope) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for t := range s.tasks {
		if t.state == Scheduled {
			n++
		}
	}
	return n
}

// TornDown reports whether Teardown has been called
func (s *Scope) TornDown() bool {
	return s.closing()
}

// Err returns every error reported so far, joined
func (s *Scope) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.errs...)
}

// Wait blocks until all background work started with Go or Launch returns
// and yields the first error among them.
func (s *Scope) Wait() error {
	return s.group.Wait()
}

// Teardown cancels every scheduled task and the scope context, waits for
// running effects, then runs the registered cleanups. It must not be
// called from inside an effect of the same scope. Extra calls are no-ops.
func (s *Scope) Teardown() {
	s.once.Do(func() {
		s.mu.Lock()
		s.state = tearing
		cancelled := 0
		for t := range s.tasks {
			if t.state == Scheduled {
				t.state = Cancelled
				t.timer.Stop()
				cancelled++
			}
		}
		s.tasks = make(map[*Task]struct{})
		s.mu.Unlock()

		s.cancel()

		s.gate.Lock()
		s.gate.Unlock()

		s.mu.Lock()
		s.state = done
		cleanups := s.cleanups
		s.cleanups = nil
		s.mu.Unlock()

		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}

		s.log.Debug().Int("cancelled", cancelled).Msg("scope torn down")
		if s.bus != nil {
			s.bus.Publish(eventbus.ScopeTornDownEvent{
				ScopeID:   s.id,
				Name:      s.name,
				Cancelled: cancelled,
			})
		}
	})
}

func (s *Scope) closing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != live
}

func (s *Scope) report(err error) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	handler := s.onError
	s.mu.Unlock()

	if handler != nil {
		handler(err)
		return
	}
	s.log.Error().Err(err).Msg("task failed")
}
