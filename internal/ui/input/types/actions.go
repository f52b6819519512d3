package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data string // initial text for text modes
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// List actions
type CycleCategoryAction struct {
	Forward bool
}

func (a CycleCategoryAction) Type() string { return "cycle_category" }

type CycleSortAction struct{}

func (a CycleSortAction) Type() string { return "cycle_sort" }

type ClearSearchAction struct{}

func (a ClearSearchAction) Type() string { return "clear_search" }

type OpenDetailAction struct{}

func (a OpenDetailAction) Type() string { return "open_detail" }

// Detail actions
type BackAction struct{}

func (a BackAction) Type() string { return "back" }

type OpenOverviewAction struct{}

func (a OpenOverviewAction) Type() string { return "open_overview" }

type ScrollAction struct {
	Delta int
}

func (a ScrollAction) Type() string { return "scroll" }

// Other actions
type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type OpenHelpPagerAction struct{}

func (a OpenHelpPagerAction) Type() string { return "open_help_pager" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
