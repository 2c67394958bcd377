package dock

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"weft/internal/geom"
	"weft/internal/graph"
	"weft/internal/logging"
)

// Layers hands out increasing stacking levels for docked panels. One
// instance is shared by everything that raises panels.
type Layers struct {
	next int
	byID map[string]int
}

// NewLayers returns a counter whose first allocation is base+1.
func NewLayers(base int) *Layers {
	return &Layers{next: base, byID: make(map[string]int)}
}

// AllocateNextLayer returns a level above every level handed out so far.
func (l *Layers) AllocateNextLayer() int {
	l.next++
	return l.next
}

// Raise puts the panel for id above all others and returns its level.
func (l *Layers) Raise(id string) int {
	z := l.AllocateNextLayer()
	l.byID[id] = z
	return z
}

// Of returns the level of id, or 0 if it was never raised.
func (l *Layers) Of(id string) int {
	return l.byID[id]
}

// Forget drops id's level.
func (l *Layers) Forget(id string) {
	delete(l.byID, id)
}

// Machine applies docking events to nodes in a store.
type Machine struct {
	layers     *Layers
	margin     float64
	focusLayer int
	logger     *slog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger for transition records.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMargin sets the screen margin used for boxes.
func WithMargin(margin float64) Option {
	return func(m *Machine) { m.margin = margin }
}

// WithFocusLayer sets the stacking level of a focused panel.
func WithFocusLayer(z int) Option {
	return func(m *Machine) { m.focusLayer = z }
}

// NewMachine returns a machine that stacks panels with layers.
func NewMachine(layers *Layers, opts ...Option) *Machine {
	m := &Machine{
		layers:     layers,
		margin:     DefaultMargin,
		focusLayer: 10000,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.layers == nil {
		m.layers = NewLayers(0)
	}
	return m
}

// Layers returns the shared stacking counter.
func (m *Machine) Layers() *Layers { return m.layers }

// Apply runs event against node id and stores the resulting state. A node
// that becomes or stays docked is raised above the other panels.
func (m *Machine) Apply(s *graph.Store, id string, event Event) (graph.DockMode, error) {
	n, ok := s.Node(id)
	if !ok {
		return Free, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	from := n.Mode()
	to, err := Next(n.Type, from, event)
	if err != nil {
		m.logger.Debug("dock transition rejected", "node", id, "event", string(event), "error", err)
		return from, err
	}

	var state *graph.DockState
	if to != Free {
		state = &graph.DockState{Mode: to}
	}
	if err := s.SetDockState(id, state); err != nil {
		return from, err
	}
	if to == Free {
		m.layers.Forget(id)
	} else {
		m.layers.Raise(id)
	}
	m.logger.Debug("dock transition", "node", id, "event", string(event), "from", string(from), "to", string(to))
	return to, nil
}

// ToggleFocus flips the full-screen flag of node id. Focusing a node clears
// focus from every other node. The dock mode is left untouched.
func (m *Machine) ToggleFocus(s *graph.Store, id string) (bool, error) {
	n, ok := s.Node(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	if !n.Type.Info().Dockable {
		return false, fmt.Errorf("%w: %s", ErrNotDockable, n.Type)
	}
	focus := !n.IsFocused
	if focus {
		for _, other := range s.Nodes() {
			if other.IsFocused && other.ID != id {
				if err := s.SetFocused(other.ID, false); err != nil {
					return false, err
				}
			}
		}
	}
	if err := s.SetFocused(id, focus); err != nil {
		return false, err
	}
	m.logger.Debug("focus toggled", "node", id, "focused", focus)
	return focus, nil
}

// Panel is a node placed on screen.
type Panel struct {
	Node  graph.Node
	Box   Box
	Layer int
}

// Box places n on screen.
func (m *Machine) Box(n graph.Node, screen geom.Rect) (Panel, bool) {
	b, ok := For(n, screen, m.margin)
	if !ok {
		return Panel{}, false
	}
	z := m.layers.Of(n.ID)
	if b.Focused {
		z = m.focusLayer
	}
	return Panel{Node: n, Box: b, Layer: z}, true
}

// Panels returns the placed boxes for every docked or focused node in
// nodes, lowest layer first.
func (m *Machine) Panels(nodes []graph.Node, screen geom.Rect) []Panel {
	var out []Panel
	for _, n := range nodes {
		if p, ok := m.Box(n, screen); ok {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b Panel) int { return cmp.Compare(a.Layer, b.Layer) })
	return out
}
