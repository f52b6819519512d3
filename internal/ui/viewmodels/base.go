package viewmodels

import (
	"context"

	"github.com/rs/zerolog"

	"reelgrip/internal/catalog"
	"reelgrip/internal/eventbus"
	"reelgrip/internal/scope"
)

// DefaultPageSize caps list and search results when Deps.PageSize is unset
const DefaultPageSize = 200

// Deps are the collaborators every screen view-model needs
type Deps struct {
	Store        catalog.Store
	Bus          eventbus.EventBus // optional
	Logger       zerolog.Logger
	PageSize     int
	ScopeOptions []scope.Option // extra options, e.g. a fake clock in tests
}

func (d Deps) pageSize() int {
	if d.PageSize > 0 {
		return d.PageSize
	}
	return DefaultPageSize
}

// Base owns the task scope of one screen
type Base struct {
	scope *scope.Scope
	bus   eventbus.EventBus
	log   zerolog.Logger
}

func newBase(name string, deps Deps) Base {
	log := deps.Logger.With().Str("component", name).Logger()
	opts := []scope.Option{scope.WithName(name), scope.WithLogger(deps.Logger)}
	if deps.Bus != nil {
		opts = append(opts, scope.WithBus(deps.Bus))
	}
	opts = append(opts, deps.ScopeOptions...)
	return Base{
		scope: scope.New(context.Background(), opts...),
		bus:   deps.Bus,
		log:   log,
	}
}

// Scope is where the screen schedules its delayed and background work
func (b *Base) Scope() *scope.Scope {
	return b.scope
}

// Cleared is called when the owning screen goes away. It tears the scope
// down; nothing the view-model started runs afterwards.
func (b *Base) Cleared() {
	b.scope.Teardown()
}

func (b *Base) publish(event eventbus.DomainEvent) {
	if b.bus != nil {
		b.bus.Publish(event)
	}
}

func (b *Base) fail(op string, err error) {
	b.log.Error().Err(err).Str("op", op).Msg("load failed")
	b.publish(eventbus.LoadFailedEvent{Op: op, Err: err})
}
