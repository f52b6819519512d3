package viewmodels

import (
	"github.com/charmbracelet/bubbles/textinput"

	"reelgrip/internal/ui/input/types"
)

// InputTransformer renders the prompt line for the active input mode
type InputTransformer struct {
	mode      types.Mode
	textInput textinput.Model
}

// NewInputTransformer creates a new input transformer
func NewInputTransformer(textInput textinput.Model) *InputTransformer {
	return &InputTransformer{
		mode:      types.ModeNormal,
		textInput: textInput,
	}
}

// SetMode sets the current input mode
func (it *InputTransformer) SetMode(mode types.Mode) {
	it.mode = mode
}

// SetTextInput replaces the text input whose view is rendered
func (it *InputTransformer) SetTextInput(textInput textinput.Model) {
	it.textInput = textInput
}

// GetInputText returns the current text input string for the view
func (it *InputTransformer) GetInputText() string {
	switch it.mode {
	case types.ModeSearch:
		return "Search: " + it.textInput.View()
	default:
		return ""
	}
}

// GetInputModeString returns the string representation of the input mode
func (it *InputTransformer) GetInputModeString() string {
	switch it.mode {
	case types.ModeSearch:
		return "search"
	default:
		return ""
	}
}
