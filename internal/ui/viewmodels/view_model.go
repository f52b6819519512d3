package viewmodels

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"reelgrip/internal/config"
	"reelgrip/internal/ui/input/types"
	"reelgrip/internal/ui/state"
	"reelgrip/internal/ui/views"
)

// ViewModel transforms screen state into view-ready data
type ViewModel struct {
	config           *config.Config
	width            int
	height           int
	help             help.Model
	keys             help.KeyMap
	sections         []views.HelpSection
	spinner          string
	status           string
	statusIsError    bool
	inputTransformer *InputTransformer
}

// NewViewModel creates a new view model
func NewViewModel(cfg *config.Config, textInput textinput.Model) *ViewModel {
	return &ViewModel{
		config:           cfg,
		help:             help.New(),
		inputTransformer: NewInputTransformer(textInput),
	}
}

// SetDimensions sets the current terminal dimensions
func (vm *ViewModel) SetDimensions(width, height int) {
	vm.width = width
	vm.height = height
	vm.help.Width = width - 4
}

// SetHelp sets the key map shown in the footer and the help overlay sections
func (vm *ViewModel) SetHelp(keys help.KeyMap, sections []views.HelpSection) {
	vm.keys = keys
	vm.sections = sections
}

// SetSpinner sets the current spinner frame
func (vm *ViewModel) SetSpinner(frame string) {
	vm.spinner = frame
}

// SetStatus sets the status bar message; an empty message shows the key help
func (vm *ViewModel) SetStatus(message string, isError bool) {
	vm.status = message
	vm.statusIsError = isError
}

// SetInputMode sets the current input mode
func (vm *ViewModel) SetInputMode(mode types.Mode) {
	vm.inputTransformer.SetMode(mode)
}

// UpdateTextInput updates the text input model
func (vm *ViewModel) UpdateTextInput(textInput textinput.Model) {
	vm.inputTransformer.SetTextInput(textInput)
}

// BuildListViewState creates the state for rendering the movies list
func (vm *ViewModel) BuildListViewState(s *state.AppState) views.ListViewState {
	return views.ListViewState{
		Width:          vm.width,
		Height:         vm.height,
		Filter:         s.Filter,
		Movies:         s.Ordered,
		SelectedIndex:  s.SelectedIndex,
		ViewportOffset: s.ViewportOffset,
		ViewportHeight: s.ViewportHeight,
		Loading:        s.Loading,
		SpinnerView:    vm.spinner,
		LoadError:      s.LoadError,
		ActiveQuery:    s.ActiveQuery,
		InputMode:      vm.inputTransformer.GetInputModeString(),
		TextInput:      vm.inputTransformer.GetInputText(),
		SortName:       s.Sort.String(),
		StatusMessage:  vm.status,
		StatusIsError:  vm.statusIsError,
		ShowHelp:       s.ShowHelp,
		HelpSections:   vm.sections,
		HelpModel:      vm.help,
		Keys:           vm.keys,
	}
}

// BuildDetailViewState creates the state for rendering one movie
func (vm *ViewModel) BuildDetailViewState(s *state.DetailState) views.DetailViewState {
	return views.DetailViewState{
		Width:               vm.width,
		Height:              vm.height,
		Movie:               s.Movie,
		Genres:              s.Genres,
		ProductionCompanies: s.ProductionCompanies,
		SpokenLanguages:     s.SpokenLanguages,
		Loading:             s.Loading,
		SpinnerView:         vm.spinner,
		LoadError:           s.LoadError,
		ScrollOffset:        s.ScrollOffset,
		StatusMessage:       vm.status,
		StatusIsError:       vm.statusIsError,
		ShowHelp:            s.ShowHelp,
		HelpSections:        vm.sections,
		HelpModel:           vm.help,
		Keys:                vm.keys,
	}
}

// ShowRatings reports whether ratings are rendered in the list
func (vm *ViewModel) ShowRatings() bool {
	return vm.config == nil || vm.config.UISettings.ShowRatings
}

// ShowReleaseYear reports whether release years are rendered in the list
func (vm *ViewModel) ShowReleaseYear() bool {
	return vm.config == nil || vm.config.UISettings.ShowReleaseYear
}
