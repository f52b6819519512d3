package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay centers the popup over a greyed-out copy of the main
// content. Rows of the base that the popup covers are replaced entirely.
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	styledPopup := popupStyle.MaxWidth(width - 2).MaxHeight(height - 2).Render(popupContent)
	modal := lipgloss.Place(width, lipgloss.Height(styledPopup), lipgloss.Center, lipgloss.Top, styledPopup)

	base := strings.Split(desaturateANSI(mainContent), "\n")
	for len(base) < height {
		base = append(base, "")
	}
	base = base[:height]

	modalLines := strings.Split(modal, "\n")
	top := (height - len(modalLines)) / 2
	if top < 0 {
		top = 0
	}
	for i, line := range modalLines {
		if top+i >= len(base) {
			break
		}
		base[top+i] = line
	}
	return strings.Join(base, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturateANSI strips ANSI color/style codes and recolors text dim gray
func desaturateANSI(s string) string {
	lines := strings.Split(s, "\n")
	gray := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	for i, line := range lines {
		lines[i] = gray.Render(ansiRE.ReplaceAllString(line, ""))
	}
	return strings.Join(lines, "\n")
}

// stripANSI returns s without styling
func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
