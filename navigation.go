package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"weft/internal/geom"
)

func (m *model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	return m.handlePan(key, speed), nil
}

// handlePan moves the view by the configured step. Keys name the direction
// the camera travels, so the canvas content moves the other way.
func (m *model) handlePan(key string, speed int) tea.Model {
	step := m.config.Canvas.PanStepPx * float64(speed)
	switch key {
	case "h", "left", "shift+left":
		m.buf.view.Pan(geom.Point{X: step})
	case "l", "right", "shift+right":
		m.buf.view.Pan(geom.Point{X: -step})
	case "k", "up", "shift+up":
		m.buf.view.Pan(geom.Point{Y: step})
	case "j", "down", "shift+down":
		m.buf.view.Pan(geom.Point{Y: -step})
	}
	return m
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}

// zoom scales the view around the cursor.
func (m *model) zoom(factor float64) {
	scale := m.buf.view.ZoomBy(m.screenAt(m.cursorX, m.cursorY), factor)
	m.successMessage = zoomLabel(scale)
}

// isNavigationKey reports whether key pans the view.
func isNavigationKey(key string) bool {
	switch key {
	case "h", "j", "k", "l", "left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		return true
	}
	return false
}
