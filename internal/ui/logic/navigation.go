package logic

// Navigator handles navigation and viewport management for a flat list
type Navigator struct {
	selectedIndex  int
	viewportOffset int
	viewportHeight int
	totalItems     int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{viewportHeight: 20}
}

// UpdateState updates the navigator's state
func (n *Navigator) UpdateState(selectedIndex, viewportOffset, viewportHeight, totalItems int) {
	n.selectedIndex = selectedIndex
	n.viewportOffset = viewportOffset
	n.viewportHeight = viewportHeight
	n.totalItems = totalItems
}

// GetSelectedIndex returns the current selected index
func (n *Navigator) GetSelectedIndex() int {
	return n.selectedIndex
}

// GetViewportOffset returns the current viewport offset
func (n *Navigator) GetViewportOffset() int {
	return n.viewportOffset
}

// SetSelectedIndex sets the selected index and ensures it's visible
func (n *Navigator) SetSelectedIndex(index int) (int, int) {
	n.selectedIndex = n.clamp(index)
	n.ensureSelectedVisible()
	return n.selectedIndex, n.viewportOffset
}

// Navigate moves the selection in direction and returns the new
// selected index and viewport offset
func (n *Navigator) Navigate(direction string) (int, int) {
	page := n.viewportHeight - 2
	if page < 1 {
		page = 1
	}

	switch direction {
	case "up":
		return n.SetSelectedIndex(n.selectedIndex - 1)
	case "down":
		return n.SetSelectedIndex(n.selectedIndex + 1)
	case "pageup":
		return n.SetSelectedIndex(n.selectedIndex - page)
	case "pagedown":
		return n.SetSelectedIndex(n.selectedIndex + page)
	case "home":
		return n.SetSelectedIndex(0)
	case "end":
		return n.SetSelectedIndex(n.totalItems - 1)
	}
	return n.selectedIndex, n.viewportOffset
}

func (n *Navigator) clamp(index int) int {
	if index >= n.totalItems {
		index = n.totalItems - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}

// ensureSelectedVisible adjusts the viewport to keep the selected item
// visible, leaving room for the scroll indicators
func (n *Navigator) ensureSelectedVisible() {
	if n.selectedIndex < n.viewportOffset {
		n.viewportOffset = n.selectedIndex
	}

	effectiveHeight := EffectiveHeight(n.viewportOffset, n.viewportHeight, n.totalItems)

	if n.selectedIndex >= n.viewportOffset+effectiveHeight {
		newOffset := n.selectedIndex - effectiveHeight + 1
		// Recompute with the new offset: a top indicator may appear
		effectiveHeight = EffectiveHeight(newOffset, n.viewportHeight, n.totalItems)
		newOffset = n.selectedIndex - effectiveHeight + 1

		maxPossibleOffset := n.totalItems - effectiveHeight
		if maxPossibleOffset < 0 {
			maxPossibleOffset = 0
		}
		if newOffset > maxPossibleOffset {
			newOffset = maxPossibleOffset
		}
		if newOffset < 0 {
			newOffset = 0
		}
		n.viewportOffset = newOffset
	}

	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}

// EffectiveHeight returns how many rows fit in a viewport of height lines
// starting at offset once the scroll indicators are drawn
func EffectiveHeight(offset, height, total int) int {
	needsTop := offset > 0
	needsBottom := offset+height < total
	if !needsBottom && needsTop {
		if total-offset > height-1 {
			needsBottom = true
		}
	}

	effective := height
	if needsTop {
		effective--
	}
	if needsBottom {
		effective--
	}
	if effective < 1 {
		effective = 1
	}
	return effective
}
