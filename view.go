package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"weft/internal/graph"
	"weft/internal/render"
)

var (
	statusStyle  = lipgloss.NewStyle().Reverse(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	helpKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

var helpLines = []string{
	"weft help",
	"",
	"Navigation:",
	"  h/j/k/l, arrows  Pan the canvas",
	"  shift+arrows     Pan faster",
	"  +/-, wheel       Zoom at the cursor",
	"  0                Reset zoom and pan",
	"  drag empty space Pan",
	"",
	"Nodes:",
	"  a                Add a node at the cursor",
	"  tab/shift+tab    Cycle the current node",
	"  space            Toggle the current node in the selection",
	"  drag node        Move (shift+click extends the selection)",
	"  drag corner      Resize",
	"  c                Collapse / expand",
	"  p                Pin / unpin",
	"  z                Hide / show optional ports",
	"  x                Delete node or selected wire",
	"  C / V            Copy / paste nodes",
	"",
	"Wires:",
	"  drag from ●      Draw a wire, release on ○ to connect",
	"  S                Split the wire under the cursor with a reroute dot",
	"",
	"Groups:",
	"  g                Group the selection",
	"  G                Ungroup",
	"  drag title       Move the group",
	"",
	"Docking:",
	"  F / L / R        Dock full, left, right",
	"  y / u / b / n    Dock top-left, top-right, bottom-left, bottom-right",
	"  1-4              Dock to a quadrant strip",
	"  [ / ]            Previous / next quadrant",
	"  v                Flip between top and bottom corner",
	"  U                Undock",
	"  f                Focus / unfocus",
	"",
	"Files:",
	"  s                Save",
	"  e                Export PNG",
	"  E                Export text",
	"",
	"General:",
	"  ctrl+z / ctrl+y  Undo / redo",
	"  esc              Cancel drag or clear selection",
	"  ?                Toggle this help",
	"  q / ctrl+c       Quit",
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	cols, rows := m.canvasSize()
	lines := render.Text(m.frame(), cols, rows, m.cell())
	if m.cursorY >= 0 && m.cursorY < len(lines) {
		lines[m.cursorY] = withCursor(lines[m.cursorY], m.cursorX)
	}

	var result strings.Builder
	result.WriteString(strings.Join(lines, "\n"))
	result.WriteString("\n")
	result.WriteString(m.statusLine(cols))
	return result.String()
}

// withCursor highlights the cell at x.
func withCursor(line string, x int) string {
	runes := []rune(line)
	if x < 0 || x >= len(runes) {
		return line
	}
	return string(runes[:x]) + cursorStyle.Render(string(runes[x])) + string(runes[x+1:])
}

func (m model) statusLine(width int) string {
	switch m.mode {
	case ModeCreating:
		t := graph.Types()[m.typeIndex]
		return statusStyle.Width(width).Render(fmt.Sprintf("Add node: %s (j/k to choose, enter to add, esc to cancel)", t.Info().Label))
	case ModeFileInput:
		return statusStyle.Width(width).Render(fmt.Sprintf("%s: %s▏ (enter to confirm, esc to cancel)", fileOpLabel(m.fileOp), m.filename))
	case ModeConfirm:
		return statusStyle.Width(width).Render(confirmLabel(m.confirmAction) + " (y/n)")
	}

	status := fmt.Sprintf("%s | %s", m.modeString(), zoomLabel(m.buf.view.Sanitize().Scale))
	if name := m.buf.filename; name != "" {
		status += " | " + name
		if m.buf.dirty {
			status += " *"
		}
	}
	if n, err := m.currentNode(); err == nil {
		status += " | " + n.Title()
		if n.Docked() {
			status += " [" + string(n.Mode()) + "]"
		}
	}
	if len(m.selected) > 1 {
		status += fmt.Sprintf(" | %d selected", len(m.selected))
	}
	if m.watching {
		status += " | watching"
	}

	line := statusStyle.Render(status)
	switch {
	case m.errorMessage != "":
		line += " " + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		line += " " + successStyle.Render(m.successMessage)
	default:
		line += " ? for help | q to quit"
	}
	return line
}

func (m model) modeString() string {
	if m.drag != nil {
		switch m.drag.kind {
		case DragMove:
			return "MOVE"
		case DragResize:
			return "RESIZE"
		case DragPan:
			return "PAN"
		case DragWire:
			return "WIRE"
		case DragGroup:
			return "GROUP"
		}
	}
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeCreating:
		return "CREATE"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func fileOpLabel(op FileOperation) string {
	switch op {
	case FileOpSavePNG:
		return "Export PNG"
	case FileOpSaveVisualTXT:
		return "Export text"
	default:
		return "Save as"
	}
}

func confirmLabel(a ConfirmAction) string {
	switch a {
	case ConfirmDeleteNode:
		return "Delete selected node(s)?"
	case ConfirmDeleteConnection:
		return "Delete wire?"
	case ConfirmQuit:
		return "Quit without saving?"
	case ConfirmReload:
		return "Canvas changed on disk. Reload and drop unsaved changes?"
	}
	return "Are you sure?"
}

func zoomLabel(scale float64) string {
	return fmt.Sprintf("%.0f%%", scale*100)
}

func (m model) handleHelpKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		visibleHeight := max(m.height-1, 1)
		maxScroll := max(len(helpLines)-visibleHeight, 0)
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m, nil
}

func (m model) helpView() string {
	visibleHeight := max(m.height-1, 1)

	startLine := min(m.helpScroll, max(len(helpLines)-visibleHeight, 0))
	endLine := min(startLine+visibleHeight, len(helpLines))

	visible := make([]string, 0, endLine-startLine)
	for i, line := range helpLines[startLine:endLine] {
		switch {
		case startLine+i == 0:
			line = titleStyle.Render(line)
		case strings.HasPrefix(line, "  ") && len([]rune(line)) > 19:
			r := []rune(line)
			line = "  " + helpKeyStyle.Render(string(r[2:19])) + string(r[19:])
		}
		visible = append(visible, line)
	}

	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, any other key to close",
		startLine+1, endLine, len(helpLines))
	return strings.Join(visible, "\n") + "\n" + statusStyle.Render(statusLine)
}
