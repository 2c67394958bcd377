package main

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"weft/internal/config"
	"weft/internal/dock"
	"weft/internal/geom"
	"weft/internal/graph"
	"weft/internal/logging"
	"weft/internal/render"
)

func initialModel(cfg *config.Config, buf *Buffer, machine *dock.Machine, logger *slog.Logger) model {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if machine == nil {
		machine = newDockMachine(cfg, logger)
	}
	if buf == nil {
		buf = newBuffer(cfg, machine, logger, "")
	}
	m := model{
		width:    80,
		height:   24,
		buf:      buf,
		dock:     machine,
		config:   cfg,
		logger:   logger,
		clip:     systemClipboard{},
		mode:     ModeNormal,
		selected: make(map[string]bool),
	}
	m.resizeView()
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeView()
		return m, nil

	case tea.BlurMsg:
		// Losing the terminal means the release may never arrive.
		m.endDrag(false)
		return m, nil

	case tea.FocusMsg:
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case fileChangedMsg:
		return m.handleFileChanged(msg)

	case watchErrMsg:
		m.errorMessage = fmt.Sprintf("watch: %v", msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.cursorX, m.cursorY = msg.X, msg.Y

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.zoom(m.config.Canvas.ZoomStep)
		case tea.MouseButtonWheelDown:
			m.zoom(1 / m.config.Canvas.ZoomStep)
		case tea.MouseButtonLeft:
			// A press while a drag is open means its release was lost.
			m.endDrag(true)
			if _, rows := m.canvasSize(); msg.Y < rows {
				m.beginDrag(msg.Shift)
			}
		}
	case tea.MouseActionMotion:
		m.moveDrag()
	case tea.MouseActionRelease:
		m.endDrag(true)
	}
	return m, nil
}

// beginDrag starts the drag that a press at the cursor selects: a wire from
// an output handle, a resize from a node's corner, a move of the node or
// its group, or a pan of the empty canvas.
func (m *model) beginDrag(shift bool) {
	f := m.frame()
	sp := m.screenAt(m.cursorX, m.cursorY)
	wp := m.buf.view.ScreenToWorld(sp)
	radius := m.hitRadius()
	m.currentWire = ""

	if p, ok := f.PanelAt(sp); ok {
		m.selectNode(p.Node.ID, shift)
		m.dock.Layers().Raise(p.Node.ID)
		return
	}

	if n, h, ok := f.HandleAt(wp, radius); ok && !h.Input && !n.Docked() {
		m.drag = &dragState{kind: DragWire, start: sp, last: sp, nodeID: n.ID, handleID: h.ID, wireEnd: wp}
		return
	}

	if n, ok := f.NodeAt(wp); ok {
		m.selectNode(n.ID, shift)
		snapshot := m.buf.store.Document()
		_ = m.buf.store.RaiseNode(n.ID)
		d := &dragState{start: sp, last: sp, nodeID: n.ID, snapshot: snapshot}
		switch {
		case m.inResizeGrip(n, sp):
			d.kind = DragResize
			d.origW, d.origH = n.Size()
			d.origins = map[string]geom.Point{n.ID: n.Pos()}
		case !n.IsPinned && !n.Docked():
			d.kind = DragMove
			d.origins = make(map[string]geom.Point)
			for _, t := range m.targets() {
				if !t.IsPinned && !t.Docked() {
					d.origins[t.ID] = t.Pos()
				}
			}
		default:
			return
		}
		m.drag = d
		return
	}

	if w, ok := f.WireAt(wp, radius); ok {
		m.currentWire = w.ID
		return
	}

	if g, ok := groupHeaderAt(f, wp, m.cell().H/m.buf.view.Sanitize().Scale); ok {
		m.drag = &dragState{kind: DragGroup, start: sp, last: sp, groupID: g.ID, snapshot: m.buf.store.Document()}
		return
	}

	if !shift {
		m.selected = make(map[string]bool)
		m.current = ""
	}
	m.drag = &dragState{kind: DragPan, start: sp, last: sp}
}

// moveDrag applies the cursor position to the open drag.
func (m *model) moveDrag() {
	d := m.drag
	if d == nil {
		return
	}
	sp := m.screenAt(m.cursorX, m.cursorY)
	scale := m.buf.view.Sanitize().Scale
	delta := sp.Sub(d.start).Scale(1 / scale)

	switch d.kind {
	case DragPan:
		m.buf.view.Pan(sp.Sub(d.last))
	case DragMove:
		for id, origin := range d.origins {
			_ = m.buf.store.MoveNode(id, origin.Add(delta))
		}
	case DragResize:
		_ = m.buf.store.ResizeNode(d.nodeID, d.origW+delta.X, d.origH+delta.Y)
	case DragGroup:
		_ = m.buf.store.MoveGroup(d.groupID, sp.Sub(d.last).Scale(1/scale))
	case DragWire:
		d.wireEnd = m.buf.view.ScreenToWorld(sp)
	}
	if sp != d.start {
		d.changed = true
	}
	d.last = sp
}

// endDrag closes the open drag. A wire is connected only when complete is
// set and the cursor is over an input handle of another node; otherwise it
// is discarded.
func (m *model) endDrag(complete bool) {
	d := m.drag
	if d == nil {
		return
	}
	m.drag = nil

	switch d.kind {
	case DragWire:
		if !complete {
			return
		}
		f := m.frame()
		n, h, ok := f.HandleAt(m.worldCoords(), m.hitRadius())
		if !ok || !h.Input || n.ID == d.nodeID {
			m.logger.Debug("wire discarded", "from", d.nodeID)
			return
		}
		err := m.mutate(func() error {
			_, err := m.buf.store.AddConnection(graph.Connection{
				FromNodeID:   d.nodeID,
				FromHandleID: d.handleID,
				ToNodeID:     n.ID,
				ToHandleID:   h.ID,
			})
			return err
		})
		if err != nil {
			m.errorMessage = err.Error()
		}
	case DragMove, DragResize, DragGroup:
		if d.changed {
			m.buf.pushUndo(d.snapshot)
		}
	}
}

// inResizeGrip reports whether screen point sp is on the bottom-right corner
// of n.
func (m *model) inResizeGrip(n graph.Node, sp geom.Point) bool {
	if n.Docked() || n.IsCollapsed || n.Type == graph.TypeRerouteDot {
		return false
	}
	r := render.NodeBox(n)
	br := m.buf.view.WorldToScreen(geom.Point{X: r.Right(), Y: r.Bottom()})
	c := m.cell()
	return sp.X >= br.X-c.W*resizeGripCells && sp.Y >= br.Y-c.H*resizeGripCells
}

// groupHeaderAt returns the group whose title band, band world units tall,
// contains p.
func groupHeaderAt(f render.Frame, p geom.Point, band float64) (graph.Group, bool) {
	for i := len(f.Groups) - 1; i >= 0; i-- {
		b := f.Groups[i].Bounds()
		b.H = min(b.H, band)
		if b.Contains(p) {
			return f.Groups[i], true
		}
	}
	return graph.Group{}, false
}

// selectNode makes id current. With extend the selection grows, otherwise
// it is replaced unless id is already part of it.
func (m *model) selectNode(id string, extend bool) {
	m.current = id
	if extend {
		m.selected[id] = true
		return
	}
	if !m.selected[id] {
		m.selected = map[string]bool{id: true}
	}
}

func (m model) handleFileChanged(msg fileChangedMsg) (tea.Model, tea.Cmd) {
	doc, err := graph.Load(m.buf.filename)
	if err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	if m.buf.sameContent(doc) {
		// Our own save, or a write that changed nothing.
		m.buf.dirty = false
		return m, nil
	}
	if m.buf.dirty && m.config.Files.Confirmations {
		m.mode = ModeConfirm
		m.confirmAction = ConfirmReload
		return m, nil
	}
	m.replaceDocument(doc)
	m.successMessage = "Reloaded " + msg.path
	return m, nil
}

// reload replaces the canvas with the file on disk, keeping the view.
func (m *model) reload() error {
	doc, err := graph.Load(m.buf.filename)
	if err != nil {
		return err
	}
	if m.buf.sameContent(doc) {
		m.buf.dirty = false
		return nil
	}
	m.replaceDocument(doc)
	return nil
}

// replaceDocument swaps in doc as one undoable step and keeps the current
// view.
func (m *model) replaceDocument(doc graph.Document) {
	m.endDrag(false)
	m.recordAction()
	doc.Viewport = nil
	state := m.buf.view.State()
	m.buf.load(doc, m.dock)
	m.buf.view.Restore(&state)
	m.buf.dirty = false
	m.dropMissingSelection()
}
