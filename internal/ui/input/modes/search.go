package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"reelgrip/internal/ui/input/types"
)

// SearchMode edits the title query. Every edit is reported as an
// UpdateTextAction; esc clears the query.
type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", "Search: ", ti),
	}
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "up", "down", "pgup", "pgdown":
		// Let the list scroll while typing
		dirs := map[string]string{"up": "up", "down": "down", "pgup": "pageup", "pgdown": "pagedown"}
		return []types.Action{types.NavigateAction{Direction: dirs[msg.String()]}}, true
	}
	return m.TextInputMode.HandleKey(msg, ctx)
}
