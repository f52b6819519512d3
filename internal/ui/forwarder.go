package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// DefaultForwardBuffer is the capacity of the forwarding channel
const DefaultForwardBuffer = 256

// Forwarder carries messages from background goroutines to the Bubble Tea
// program. Sends never block: when the buffer is full the message is dropped
// and logged. State change pings are coalesced per scope so at most one is
// queued for each live screen.
type Forwarder struct {
	ch  chan tea.Msg
	log zerolog.Logger

	mu    sync.Mutex
	dirty map[string]bool
}

// NewForwarder creates a forwarder with a buffer of size messages
func NewForwarder(size int, logger zerolog.Logger) *Forwarder {
	if size <= 0 {
		size = DefaultForwardBuffer
	}
	return &Forwarder{
		ch:    make(chan tea.Msg, size),
		log:   logger.With().Str("component", "forwarder").Logger(),
		dirty: make(map[string]bool),
	}
}

// Send queues msg and reports whether it was accepted
func (f *Forwarder) Send(msg tea.Msg) bool {
	select {
	case f.ch <- msg:
		return true
	default:
		f.log.Warn().Str("msg", typeName(msg)).Msg("ui channel full, dropping message")
		return false
	}
}

// Changed queues a state change ping for scopeID unless one is already queued
func (f *Forwarder) Changed(scopeID string) {
	f.mu.Lock()
	if f.dirty[scopeID] {
		f.mu.Unlock()
		return
	}
	f.dirty[scopeID] = true
	f.mu.Unlock()

	if !f.Send(stateChangedMsg{scopeID: scopeID}) {
		// Let the next change try again
		f.ack(scopeID)
	}
}

// ack is called by the model before it reads the state of scopeID
func (f *Forwarder) ack(scopeID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.dirty, scopeID)
}

// C exposes the queued messages
func (f *Forwarder) C() <-chan tea.Msg {
	return f.ch
}

// Run hands queued messages to send until ctx is done
func (f *Forwarder) Run(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-f.ch:
			send(msg)
		}
	}
}

func typeName(msg tea.Msg) string {
	switch m := msg.(type) {
	case stateChangedMsg:
		return "state_changed"
	case EventMsg:
		return string(m.Event.Type())
	default:
		return "other"
	}
}
