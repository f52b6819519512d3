package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"reelgrip/internal/ui/viewmodels"
	"reelgrip/internal/ui/views"
)

// screen is one entry of the navigation stack. Each screen owns a
// view-model whose scope lives exactly as long as the screen.
type screen interface {
	// ID is the id of the screen's task scope
	ID() string
	Init() tea.Cmd
	HandleKey(msg tea.KeyMsg) tea.Cmd
	// Refresh pulls the current observable values into the screen state
	Refresh() tea.Cmd
	Resize(width, height int)
	Loading() bool
	View(vm *viewmodels.ViewModel, r *views.Renderer) string
	// Close tears the view-model down
	Close()
}

// host is what screens need from the root model
type host interface {
	push(s screen) tea.Cmd
	pop() tea.Cmd
	changed(scopeID string)
	pager(content string) tea.Cmd
	quit() tea.Cmd
	deps() viewmodels.Deps
	renderer() *views.Renderer
	viewModel() *viewmodels.ViewModel
}
