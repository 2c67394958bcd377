package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"weft/internal/dock"
	"weft/internal/geom"
	"weft/internal/graph"
)

// dockKeys maps direct dock keys to their target mode.
var dockKeys = map[string]graph.DockMode{
	"F": graph.DockFull,
	"L": graph.DockLeft,
	"R": graph.DockRight,
	"1": graph.DockQ1,
	"2": graph.DockQ2,
	"3": graph.DockQ3,
	"4": graph.DockQ4,
	"y": graph.DockTL,
	"u": graph.DockTR,
	"b": graph.DockBL,
	"n": graph.DockBR,
}

var cycleKeys = map[string]dock.Event{
	"]": dock.EventCycleNext,
	"[": dock.EventCyclePrev,
	"v": dock.EventCycleVertical,
	"U": dock.EventUndock,
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.help {
		return m.handleHelpKey(key)
	}

	switch m.mode {
	case ModeCreating:
		return m.handleCreateKey(key)
	case ModeFileInput:
		return m.handleFileInputKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(key)
	}

	m.errorMessage = ""
	m.successMessage = ""

	if isNavigationKey(key) {
		m.handleNavigation(key, m.getMoveSpeed(key))
		return m, nil
	}
	if mode, ok := dockKeys[key]; ok {
		m.report(m.applyDock(dock.DockTo(mode)))
		return m, nil
	}
	if event, ok := cycleKeys[key]; ok {
		m.report(m.applyDock(event))
		return m, nil
	}

	switch key {
	case "esc":
		if m.drag != nil {
			m.endDrag(false)
			return m, nil
		}
		m.selected = make(map[string]bool)
		m.current = ""
		m.currentWire = ""

	case "?":
		m.help = true
		m.helpScroll = 0

	case "q":
		if m.buf.dirty && m.config.Files.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m, tea.Quit

	case "+", "=":
		m.zoom(m.config.Canvas.ZoomStep)
	case "-", "_":
		m.zoom(1 / m.config.Canvas.ZoomStep)
	case "0":
		m.buf.view.Reset()
		m.successMessage = zoomLabel(1)

	case "tab":
		m.cycleCurrent(1)
	case "shift+tab":
		m.cycleCurrent(-1)
	case " ", "space":
		m.toggleSelection()

	case "a":
		m.mode = ModeCreating

	case "g":
		m.report(m.groupSelection())
	case "G":
		m.report(m.ungroupCurrent())

	case "c":
		m.report(m.toggleNode(func(n graph.Node) error {
			return m.buf.store.SetCollapsed(n.ID, !n.IsCollapsed)
		}))
	case "p":
		m.report(m.toggleNode(func(n graph.Node) error {
			return m.buf.store.SetPinned(n.ID, !n.IsPinned)
		}))
	case "z":
		m.report(m.toggleNode(func(n graph.Node) error {
			return m.buf.store.SetCollapsedHandles(n.ID, !n.CollapsedHandles)
		}))
	case "f":
		m.report(m.toggleFocus())

	case "x":
		return m.confirmDelete()

	case "S":
		m.report(m.splitWire())

	case "C":
		m.report(m.copyNodes())
	case "V":
		m.report(m.pasteNodes())

	case "ctrl+z":
		m.undo()
	case "ctrl+y":
		m.redo()

	case "s":
		if m.buf.filename == "" {
			return m.startFileInput(FileOpSave, "canvas.json")
		}
		m.report(m.saveTo(m.buf.filename))
	case "e":
		return m.startFileInput(FileOpSavePNG, m.exportName(".png"))
	case "E":
		return m.startFileInput(FileOpSaveVisualTXT, m.exportName(".txt"))
	}
	return m, nil
}

// report shows err in the status line.
func (m *model) report(err error) {
	if err != nil {
		m.errorMessage = err.Error()
		m.logger.Debug("command failed", "error", err)
	}
}

func (m *model) applyDock(event dock.Event) error {
	n, err := m.currentNode()
	if err != nil {
		return err
	}
	var mode graph.DockMode
	err = m.mutate(func() error {
		var err error
		mode, err = m.dock.Apply(m.buf.store, n.ID, event)
		return err
	})
	if err != nil {
		return err
	}
	if mode == dock.Free {
		m.successMessage = "Undocked " + n.Title()
	} else {
		m.successMessage = fmt.Sprintf("Docked %s: %s", n.Title(), mode)
	}
	return nil
}

func (m *model) toggleFocus() error {
	n, err := m.currentNode()
	if err != nil {
		return err
	}
	focused, err := m.dock.ToggleFocus(m.buf.store, n.ID)
	if err != nil {
		return err
	}
	if focused {
		m.successMessage = "Focused " + n.Title()
	}
	return nil
}

// toggleNode applies fn to every target node as one undo step.
func (m *model) toggleNode(fn func(graph.Node) error) error {
	nodes := m.targets()
	if len(nodes) == 0 {
		return errors.New("no node selected")
	}
	return m.mutate(func() error {
		for _, n := range nodes {
			if err := fn(n); err != nil {
				return err
			}
		}
		return nil
	})
}

// cycleCurrent moves the current node through the visible nodes.
func (m *model) cycleCurrent(step int) {
	nodes := m.frame().Nodes
	if len(nodes) == 0 {
		m.current = ""
		return
	}
	idx := -1
	for i, n := range nodes {
		if n.ID == m.current {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && step < 0:
		idx = len(nodes) - 1
	case idx < 0:
		idx = 0
	default:
		idx = (idx + step + len(nodes)) % len(nodes)
	}
	m.current = nodes[idx].ID
}

func (m *model) toggleSelection() {
	if m.current == "" {
		return
	}
	if m.selected[m.current] {
		delete(m.selected, m.current)
	} else {
		m.selected[m.current] = true
	}
}

func (m *model) groupSelection() error {
	nodes := m.targets()
	if len(nodes) == 0 {
		return errors.New("no node selected")
	}
	var g graph.Group
	err := m.mutate(func() error {
		var ok bool
		if g, ok = m.buf.store.AddGroup(nodes, ""); !ok {
			return errors.New("nothing to group")
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.successMessage = "Created " + g.Title
	return nil
}

func (m *model) ungroupCurrent() error {
	n, err := m.currentNode()
	if err != nil {
		return err
	}
	gid, ok := m.buf.store.GroupOf(n.ID)
	if !ok {
		return errors.New("node is not in a group")
	}
	return m.mutate(func() error { return m.buf.store.RemoveGroup(gid) })
}

// splitWire inserts a reroute dot into the wire under the cursor.
func (m *model) splitWire() error {
	at := m.worldCoords()
	id := m.currentWire
	if w, ok := m.frame().WireAt(at, m.hitRadius()); ok {
		id = w.ID
	}
	if id == "" {
		return errors.New("no wire under cursor")
	}
	var dot graph.Node
	err := m.mutate(func() error {
		var err error
		dot, err = m.buf.store.SplitConnection(id, at)
		return err
	})
	if err != nil {
		return err
	}
	m.current = dot.ID
	m.currentWire = ""
	return nil
}

func (m model) confirmDelete() (tea.Model, tea.Cmd) {
	action := ConfirmDeleteNode
	switch {
	case m.currentWire != "":
		action = ConfirmDeleteConnection
	case len(m.targets()) == 0:
		m.errorMessage = "Nothing to delete"
		return m, nil
	}
	if !m.config.Files.Confirmations {
		m.report(m.deleteTargets(action))
		return m, nil
	}
	m.mode = ModeConfirm
	m.confirmAction = action
	return m, nil
}

func (m *model) deleteTargets(action ConfirmAction) error {
	if action == ConfirmDeleteConnection {
		id := m.currentWire
		m.currentWire = ""
		return m.mutate(func() error { return m.buf.store.RemoveConnection(id) })
	}
	nodes := m.targets()
	err := m.mutate(func() error {
		for _, n := range nodes {
			if _, err := m.buf.store.DeleteNode(n.ID); err != nil {
				return err
			}
			m.dock.Layers().Forget(n.ID)
		}
		return nil
	})
	m.dropMissingSelection()
	return err
}

func (m model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y", "enter":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmReload:
			m.report(m.reload())
		default:
			m.report(m.deleteTargets(m.confirmAction))
		}
	case "n", "N", "esc":
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) handleCreateKey(key string) (tea.Model, tea.Cmd) {
	types := graph.Types()
	switch key {
	case "j", "down", "tab":
		m.typeIndex = (m.typeIndex + 1) % len(types)
	case "k", "up", "shift+tab":
		m.typeIndex = (m.typeIndex - 1 + len(types)) % len(types)
	case "enter":
		m.mode = ModeNormal
		m.report(m.addNode(types[m.typeIndex], m.worldCoords()))
	case "esc", "q":
		m.mode = ModeNormal
	}
	return m, nil
}

// addNode creates a node of type t with its top-left corner at p.
func (m *model) addNode(t graph.NodeType, p geom.Point) error {
	var n graph.Node
	err := m.mutate(func() error {
		var err error
		n, err = m.buf.store.AddNode(graph.NewNode(t, p))
		return err
	})
	if err != nil {
		return err
	}
	m.current = n.ID
	m.selected = map[string]bool{n.ID: true}
	m.successMessage = "Added " + n.Title()
	return nil
}

func (m model) startFileInput(op FileOperation, suggestion string) (tea.Model, tea.Cmd) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = suggestion
	return m, nil
}

func (m model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.filename = ""
	case tea.KeyEnter:
		name := strings.TrimSpace(m.filename)
		m.mode = ModeNormal
		m.filename = ""
		if name == "" {
			m.errorMessage = "No filename given"
			return m, nil
		}
		m.report(m.runFileOp(m.fileOp, m.config.SavePath(name)))
	case tea.KeyBackspace:
		if r := []rune(m.filename); len(r) > 0 {
			m.filename = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.filename += " "
	case tea.KeyRunes:
		m.filename += string(msg.Runes)
	}
	return m, nil
}

func (m *model) runFileOp(op FileOperation, path string) error {
	var err error
	switch op {
	case FileOpSave:
		err = m.saveTo(path)
	case FileOpSavePNG:
		err = m.exportPNG(path)
	case FileOpSaveVisualTXT:
		err = m.exportVisualTXT(path)
	}
	if err != nil {
		return err
	}
	if op != FileOpSave {
		m.successMessage = "Exported " + path
	}
	return nil
}

func (m *model) saveTo(path string) error {
	if err := m.buf.save(path); err != nil {
		return err
	}
	m.successMessage = "Saved " + path
	return nil
}

// exportName suggests an export filename next to the canvas file.
func (m *model) exportName(ext string) string {
	if m.buf.filename == "" {
		return "canvas" + ext
	}
	base := filepath.Base(m.buf.filename)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}
