package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelgrip/internal/ui/input/types"
)

type fakeContext struct {
	total   int
	query   string
	hasItem bool
}

func (c fakeContext) CurrentIndex() int   { return 0 }
func (c fakeContext) TotalItems() int     { return c.total }
func (c fakeContext) SearchQuery() string { return c.query }
func (c fakeContext) HasMovie() bool      { return c.hasItem }

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSlashEntersSearchWithCurrentQuery(t *testing.T) {
	h := New(types.ModeNormal)

	actions, _ := h.HandleKey(key("/"), fakeContext{total: 3, query: "ali"})
	assert.Empty(t, actions)
	assert.Equal(t, types.ModeSearch, h.CurrentMode())
	assert.Equal(t, "search", h.ModeName())
	require.NotNil(t, h.TextInput())
	assert.Equal(t, "ali", h.Value())
}

func TestTypingReportsEveryEdit(t *testing.T) {
	h := New(types.ModeNormal)
	ctx := fakeContext{total: 3}
	h.HandleKey(key("/"), ctx)

	var texts []string
	for _, r := range "ali" {
		actions, _ := h.HandleKey(key(string(r)), ctx)
		require.Len(t, actions, 1)
		update, ok := actions[0].(types.UpdateTextAction)
		require.True(t, ok, "got %T", actions[0])
		texts = append(texts, update.Text)
	}
	assert.Equal(t, []string{"a", "al", "ali"}, texts)

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyBackspace}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.UpdateTextAction{Text: "al"}, actions[0])
}

func TestEnterSubmitsAndLeavesSearch(t *testing.T) {
	h := New(types.ModeNormal)
	ctx := fakeContext{total: 3}
	h.HandleKey(key("/"), ctx)
	h.HandleKey(key("x"), ctx)

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	require.NotEmpty(t, actions)
	assert.Equal(t, types.SubmitTextAction{Text: "x", Mode: types.ModeSearch}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Nil(t, h.TextInput())
}

func TestEscCancelsSearch(t *testing.T) {
	h := New(types.ModeNormal)
	ctx := fakeContext{total: 3}
	h.HandleKey(key("/"), ctx)

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	require.NotEmpty(t, actions)
	assert.Equal(t, types.CancelTextAction{}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestNormalModeKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		ctx  fakeContext
		want []types.Action
	}{
		{"down", key("j"), fakeContext{total: 3}, []types.Action{types.NavigateAction{Direction: "down"}}},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, fakeContext{total: 3}, []types.Action{types.NavigateAction{Direction: "up"}}},
		{"end", key("G"), fakeContext{total: 3}, []types.Action{types.NavigateAction{Direction: "end"}}},
		{"next category", tea.KeyMsg{Type: tea.KeyTab}, fakeContext{}, []types.Action{types.CycleCategoryAction{Forward: true}}},
		{"previous category", tea.KeyMsg{Type: tea.KeyShiftTab}, fakeContext{}, []types.Action{types.CycleCategoryAction{Forward: false}}},
		{"sort", key("s"), fakeContext{}, []types.Action{types.CycleSortAction{}}},
		{"open", tea.KeyMsg{Type: tea.KeyEnter}, fakeContext{total: 1}, []types.Action{types.OpenDetailAction{}}},
		{"open empty list", tea.KeyMsg{Type: tea.KeyEnter}, fakeContext{}, nil},
		{"clear search", tea.KeyMsg{Type: tea.KeyEsc}, fakeContext{query: "x"}, []types.Action{types.ClearSearchAction{}}},
		{"esc without search", tea.KeyMsg{Type: tea.KeyEsc}, fakeContext{}, nil},
		{"help", key("?"), fakeContext{}, []types.Action{types.ToggleHelpAction{}}},
		{"quit", key("q"), fakeContext{}, []types.Action{types.QuitAction{Force: false}}},
		{"force quit", tea.KeyMsg{Type: tea.KeyCtrlC}, fakeContext{}, []types.Action{types.QuitAction{Force: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(types.ModeNormal)
			actions, _ := h.HandleKey(tt.msg, tt.ctx)
			assert.Equal(t, tt.want, actions)
			assert.Equal(t, types.ModeNormal, h.CurrentMode())
		})
	}
}

func TestGGGoesHome(t *testing.T) {
	h := New(types.ModeNormal)
	ctx := fakeContext{total: 10}

	actions, _ := h.HandleKey(key("g"), ctx)
	assert.Empty(t, actions)
	actions, _ = h.HandleKey(key("g"), ctx)
	assert.Equal(t, []types.Action{types.NavigateAction{Direction: "home"}}, actions)
}

func TestDetailModeKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		ctx  fakeContext
		want []types.Action
	}{
		{"esc goes back", tea.KeyMsg{Type: tea.KeyEsc}, fakeContext{}, []types.Action{types.BackAction{}}},
		{"backspace goes back", tea.KeyMsg{Type: tea.KeyBackspace}, fakeContext{}, []types.Action{types.BackAction{}}},
		{"scroll down", key("j"), fakeContext{}, []types.Action{types.ScrollAction{Delta: 1}}},
		{"page up", tea.KeyMsg{Type: tea.KeyPgUp}, fakeContext{}, []types.Action{types.ScrollAction{Delta: -10}}},
		{"overview", key("o"), fakeContext{hasItem: true}, []types.Action{types.OpenOverviewAction{}}},
		{"overview before load", key("o"), fakeContext{}, nil},
		{"help pager", key("H"), fakeContext{}, []types.Action{types.OpenHelpPagerAction{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(types.ModeDetail)
			actions, _ := h.HandleKey(tt.msg, tt.ctx)
			assert.Equal(t, tt.want, actions)
		})
	}
}

func TestReset(t *testing.T) {
	h := New(types.ModeNormal)
	ctx := fakeContext{total: 3}
	h.HandleKey(key("/"), ctx)
	h.HandleKey(key("z"), ctx)

	h.Reset(types.ModeNormal)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Empty(t, h.Value())
}
