package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"reelgrip/internal/ui/input/types"
)

// DetailMode handles keys on the movie detail screen
type DetailMode struct{}

func NewDetailMode() *DetailMode {
	return &DetailMode{}
}

func (m *DetailMode) Name() string {
	return "detail"
}

func (m *DetailMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *DetailMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *DetailMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "backspace", "h", "left":
		return []types.Action{types.BackAction{}}, true
	case "up", "k":
		return []types.Action{types.ScrollAction{Delta: -1}}, true
	case "down", "j":
		return []types.Action{types.ScrollAction{Delta: 1}}, true
	case "pgup":
		return []types.Action{types.ScrollAction{Delta: -10}}, true
	case "pgdown", " ":
		return []types.Action{types.ScrollAction{Delta: 10}}, true
	case "H":
		return []types.Action{types.OpenHelpPagerAction{}}, true
	case "o":
		if ctx.HasMovie() {
			return []types.Action{types.OpenOverviewAction{}}, true
		}
		return nil, true
	case "r":
		return []types.Action{types.RefreshAction{}}, true
	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true
	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true
	}
	return nil, false
}
