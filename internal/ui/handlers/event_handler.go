package handlers

import (
	"errors"
	"fmt"

	"reelgrip/internal/catalog"
	"reelgrip/internal/eventbus"
)

// Status is what the status bar should show for an event
type Status struct {
	Message string
	IsError bool
}

// EventHandler turns domain events into status bar messages
type EventHandler struct{}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// HandleEvent returns the status for event and whether there is one
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) (Status, bool) {
	switch e := event.(type) {
	case eventbus.LoadFailedEvent:
		if errors.Is(e.Err, catalog.ErrNotFound) {
			return Status{Message: "Movie not found in catalog", IsError: true}, true
		}
		return Status{Message: fmt.Sprintf("Error: %s failed: %v", describeOp(e.Op), e.Err), IsError: true}, true

	case eventbus.CatalogImportedEvent:
		return Status{Message: fmt.Sprintf("Imported %d movies from %s", e.Count, e.Source)}, true

	case eventbus.ConfigSavedEvent:
		return Status{Message: "Configuration saved"}, true
	}
	return Status{}, false
}

func describeOp(op string) string {
	switch op {
	case "load_movies":
		return "loading movies"
	case "search":
		return "search"
	case "load_movie":
		return "loading movie"
	default:
		return op
	}
}
