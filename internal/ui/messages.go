package ui

import (
	"reelgrip/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// stateChangedMsg tells the model that an observable of the screen owning
// scopeID changed. The screen pulls the current values when it arrives.
type stateChangedMsg struct {
	scopeID string
}

// clearStatusMsg clears the status bar if nothing newer replaced it
type clearStatusMsg struct {
	seq int
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
