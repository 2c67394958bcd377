package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"weft/internal/config"
	"weft/internal/dock"
	"weft/internal/geom"
	"weft/internal/graph"
	"weft/internal/render"
	"weft/internal/viewport"
)

// newBuffer returns an empty canvas named filename.
func newBuffer(cfg *config.Config, machine *dock.Machine, logger *slog.Logger, filename string) *Buffer {
	store := graph.NewStore(graph.WithLogger(logger))
	view := viewport.New(geom.Rect{}, viewport.WithScaleLimits(cfg.Canvas.MinScale, cfg.Canvas.MaxScale))
	scene := render.NewScene(store, view, machine)
	scene.Buffer = cfg.Canvas.CullBufferPx
	return &Buffer{
		store:    store,
		view:     view,
		scene:    scene,
		filename: filename,
	}
}

// openBuffer loads filename into a new buffer. A missing file gives an empty
// canvas that will be created on first save.
func openBuffer(cfg *config.Config, machine *dock.Machine, logger *slog.Logger, filename string) (*Buffer, error) {
	buf := newBuffer(cfg, machine, logger, filename)
	if filename == "" {
		return buf, nil
	}
	doc, err := graph.Load(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return buf, nil
	}
	if err != nil {
		return nil, err
	}
	buf.load(doc, machine)
	return buf, nil
}

// load replaces the buffer contents with doc and restores its view.
func (b *Buffer) load(doc graph.Document, machine *dock.Machine) {
	b.store.LoadDocument(doc)
	b.view.Restore(doc.Viewport)
	if machine != nil {
		for _, n := range b.store.Nodes() {
			if n.Docked() {
				machine.Layers().Raise(n.ID)
			}
		}
	}
}

// save writes the canvas and its current view to path.
func (b *Buffer) save(path string) error {
	doc := b.store.Document()
	state := b.view.State()
	doc.Viewport = &state
	if err := graph.Save(path, doc); err != nil {
		return err
	}
	b.filename = path
	b.dirty = false
	return nil
}

// sameContent reports whether doc holds exactly what the buffer shows. Both
// sides go through the store so load-time cleanup does not count as a change.
func (b *Buffer) sameContent(doc graph.Document) bool {
	scratch := graph.NewStore()
	scratch.LoadDocument(doc)
	disk, err := json.Marshal(scratch.Document())
	if err != nil {
		return false
	}
	current, err := json.Marshal(b.store.Document())
	if err != nil {
		return false
	}
	return bytes.Equal(disk, current)
}

// pushUndo records doc as the state to return to on undo.
func (b *Buffer) pushUndo(doc graph.Document) {
	b.undoStack = append(b.undoStack, doc)
	if len(b.undoStack) > maxUndo {
		b.undoStack = b.undoStack[len(b.undoStack)-maxUndo:]
	}
	b.redoStack = b.redoStack[:0]
	b.dirty = true
}

// recordAction snapshots the canvas before a change.
func (m *model) recordAction() {
	m.buf.pushUndo(m.buf.store.Document())
}

// mutate runs fn and keeps an undo snapshot only when fn succeeds.
func (m *model) mutate(fn func() error) error {
	snapshot := m.buf.store.Document()
	if err := fn(); err != nil {
		return err
	}
	m.buf.pushUndo(snapshot)
	return nil
}

func (m *model) cell() render.Cell {
	return render.Cell{W: m.config.Render.CellWidthPx, H: m.config.Render.CellHeightPx}
}

// canvasSize is the number of terminal cells the canvas occupies. The last
// row holds the status line.
func (m *model) canvasSize() (int, int) {
	return max(m.width, 1), max(m.height-1, 1)
}

// resizeView matches the viewport to the terminal.
func (m *model) resizeView() {
	cols, rows := m.canvasSize()
	c := m.cell()
	m.buf.view.SetRect(geom.Rect{W: float64(cols) * c.W, H: float64(rows) * c.H})
}

// screenAt returns the screen point at the centre of cell x, y.
func (m *model) screenAt(x, y int) geom.Point {
	c := m.cell()
	return geom.Point{X: (float64(x) + 0.5) * c.W, Y: (float64(y) + 0.5) * c.H}
}

func (m *model) worldAt(x, y int) geom.Point {
	return m.buf.view.ScreenToWorld(m.screenAt(x, y))
}

// worldCoords is the world point under the cursor.
func (m *model) worldCoords() geom.Point {
	return m.worldAt(m.cursorX, m.cursorY)
}

// hitRadius converts the configured screen hit threshold to world units.
func (m *model) hitRadius() float64 {
	return m.config.Canvas.HitThresholdPx / m.buf.view.Sanitize().Scale
}

// frame builds the drawable state of the current view.
func (m *model) frame() render.Frame {
	var dragging map[string]geom.Point
	if m.drag != nil && len(m.drag.origins) > 0 {
		dragging = make(map[string]geom.Point, len(m.drag.origins))
		for id := range m.drag.origins {
			if n, ok := m.buf.store.Node(id); ok {
				dragging[id] = n.Pos()
			}
		}
	}
	f := m.buf.scene.Frame(m.selected, dragging)
	if d := m.drag; d != nil && d.kind == DragWire {
		if n, ok := m.buf.store.Node(d.nodeID); ok {
			from, _ := m.buf.scene.Resolver.Resolve(n, d.handleID, false)
			f.Preview = &render.Wire{From: from, To: d.wireEnd}
		}
	}
	return f
}

// targets returns the selected nodes, or the current node when nothing is
// selected.
func (m *model) targets() []graph.Node {
	var out []graph.Node
	for _, n := range m.buf.store.Nodes() {
		if m.selected[n.ID] {
			out = append(out, n)
		}
	}
	if len(out) == 0 && m.current != "" {
		if n, ok := m.buf.store.Node(m.current); ok {
			out = append(out, n)
		}
	}
	return out
}

// currentNode returns the node keyboard commands act on.
func (m *model) currentNode() (graph.Node, error) {
	if m.current == "" {
		return graph.Node{}, errors.New("no node selected")
	}
	id := m.current
	n, ok := m.buf.store.Node(id)
	if !ok {
		m.current = ""
		return graph.Node{}, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	return n, nil
}
