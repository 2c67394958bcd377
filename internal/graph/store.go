// Package graph is the in-memory model of a canvas: nodes, the wires between
// them and the groups framing them. The Store is the single writer; every
// other package reads snapshots from it and writes back through its methods.
package graph

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"weft/internal/geom"
	"weft/internal/logging"
)

var (
	ErrNodeNotFound       = errors.New("node not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrDuplicateID        = errors.New("duplicate id")
)

// Store holds the canvas entities. It is not safe for concurrent use; the
// canvas mutates it from a single event loop.
type Store struct {
	nodes       []Node
	index       map[string]int
	connections []Connection
	groups      []Group
	membership  map[string]string
	groupSeq    int
	rev         uint64
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for structural changes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		nodes:       make([]Node, 0),
		index:       make(map[string]int),
		connections: make([]Connection, 0),
		groups:      make([]Group, 0),
		membership:  make(map[string]string),
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Revision changes every time the store is mutated.
func (s *Store) Revision() uint64 { return s.rev }

func (s *Store) touch() { s.rev++ }

// Nodes returns the nodes in draw order.
func (s *Store) Nodes() []Node {
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Node returns the node with the given id.
func (s *Store) Node(id string) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Len returns the number of nodes.
func (s *Store) Len() int { return len(s.nodes) }

// AddNode appends n, assigning an id when it has none. Sizes are clamped to
// the type minimum.
func (s *Store) AddNode(n Node) (Node, error) {
	if n.ID == "" {
		n.ID = NewID()
	}
	if _, ok := s.index[n.ID]; ok {
		return Node{}, fmt.Errorf("%w: node %s", ErrDuplicateID, n.ID)
	}
	n.Position = n.Position.Sanitize()
	n.Width, n.Height = clampSize(n.Type, n.Width, n.Height)
	s.index[n.ID] = len(s.nodes)
	s.nodes = append(s.nodes, n)
	s.touch()
	return n, nil
}

func clampSize(t NodeType, w, h float64) (float64, float64) {
	info := t.Info()
	if !geom.IsFinite(w) || w <= 0 {
		w = info.DefaultWidth
	}
	if !geom.IsFinite(h) || h <= 0 {
		h = info.DefaultHeight
	}
	if t == TypeRerouteDot {
		return w, h
	}
	return math.Max(w, info.MinWidth), math.Max(h, info.MinHeight)
}

// update applies fn to the node with the given id. When geometry is true the
// bounds of the node's group are recomputed afterwards.
func (s *Store) update(id string, geometry bool, fn func(*Node)) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	fn(&s.nodes[i])
	s.touch()
	if geometry {
		if gid, ok := s.membership[id]; ok {
			_ = s.UpdateGroupBounds(gid, s.nodes)
		}
	}
	return nil
}

// MoveNode sets the node's world position.
func (s *Store) MoveNode(id string, pos geom.Point) error {
	return s.update(id, true, func(n *Node) { n.Position = pos.Sanitize() })
}

// ResizeNode sets the node size, clamped to the type minimum.
func (s *Store) ResizeNode(id string, w, h float64) error {
	return s.update(id, true, func(n *Node) { n.Width, n.Height = clampSize(n.Type, w, h) })
}

// SetCollapsed collapses or expands the node.
func (s *Store) SetCollapsed(id string, collapsed bool) error {
	return s.update(id, true, func(n *Node) { n.IsCollapsed = collapsed })
}

// SetPinned pins the node so it is never culled.
func (s *Store) SetPinned(id string, pinned bool) error {
	return s.update(id, false, func(n *Node) { n.IsPinned = pinned })
}

// SetCollapsedHandles hides or shows the node's optional output handles.
func (s *Store) SetCollapsedHandles(id string, collapsed bool) error {
	return s.update(id, false, func(n *Node) { n.CollapsedHandles = collapsed })
}

// SetValue replaces the node's payload.
func (s *Store) SetValue(id, value string) error {
	return s.update(id, false, func(n *Node) { n.Value = value })
}

// SetDockState docks the node, or undocks it when state is nil.
func (s *Store) SetDockState(id string, state *DockState) error {
	return s.update(id, false, func(n *Node) {
		if state == nil {
			n.DockState = nil
			return
		}
		st := *state
		n.DockState = &st
	})
}

// SetFocused marks the node as full-screen focused.
func (s *Store) SetFocused(id string, focused bool) error {
	return s.update(id, false, func(n *Node) { n.IsFocused = focused })
}

// RaiseNode moves the node to the end of the draw order so it renders on top.
func (s *Store) RaiseNode(id string) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if i == len(s.nodes)-1 {
		return nil
	}
	n := s.nodes[i]
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	s.nodes = append(s.nodes, n)
	s.reindex()
	s.touch()
	return nil
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.nodes))
	for i, n := range s.nodes {
		s.index[n.ID] = i
	}
}

// DeleteNode removes the node and every connection touching it, and takes it
// out of its group. A group left without members is removed. It returns the
// number of connections removed.
func (s *Store) DeleteNode(id string) (int, error) {
	i, ok := s.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	s.reindex()

	kept := make([]Connection, 0, len(s.connections))
	for _, c := range s.connections {
		if c.FromNodeID != id && c.ToNodeID != id {
			kept = append(kept, c)
		}
	}
	removed := len(s.connections) - len(kept)
	s.connections = kept
	s.touch()

	if gid, ok := s.membership[id]; ok {
		s.removeMember(gid, id)
		if i := s.groupIndex(gid); i >= 0 && len(s.groups[i].NodeIDs) == 0 {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			s.logger.Debug("group removed", "group_id", gid)
		}
		s.rebuildMembership()
	}
	s.logger.Debug("node deleted", "node_id", id, "connections_removed", removed)
	return removed, nil
}

// Connections returns all connections, including ones whose endpoints no
// longer exist. Consumers filter those out.
func (s *Store) Connections() []Connection {
	out := make([]Connection, len(s.connections))
	copy(out, s.connections)
	return out
}

// Connection returns the connection with the given id.
func (s *Store) Connection(id string) (Connection, bool) {
	for _, c := range s.connections {
		if c.ID == id {
			return c, true
		}
	}
	return Connection{}, false
}

// ConnectionsOf returns the connections that start or end at the node.
func (s *Store) ConnectionsOf(nodeID string) []Connection {
	var out []Connection
	for _, c := range s.connections {
		if c.FromNodeID == nodeID || c.ToNodeID == nodeID {
			out = append(out, c)
		}
	}
	return out
}

// AddConnection appends c, assigning an id when it has none. Endpoints are
// not checked here; dangling wires are dropped when read.
func (s *Store) AddConnection(c Connection) (Connection, error) {
	if c.ID == "" {
		c.ID = NewID()
	}
	if _, ok := s.Connection(c.ID); ok {
		return Connection{}, fmt.Errorf("%w: connection %s", ErrDuplicateID, c.ID)
	}
	s.connections = append(s.connections, c)
	s.touch()
	return c, nil
}

// RemoveConnection deletes the connection with the given id.
func (s *Store) RemoveConnection(id string) error {
	for i, c := range s.connections {
		if c.ID == id {
			s.connections = append(s.connections[:i], s.connections[i+1:]...)
			s.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrConnectionNotFound, id)
}

// SplitConnection replaces a wire with two wires joined by a new reroute dot
// centred on at. The new dot is returned.
func (s *Store) SplitConnection(id string, at geom.Point) (Node, error) {
	c, ok := s.Connection(id)
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrConnectionNotFound, id)
	}
	dot := NewNode(TypeRerouteDot, geom.Point{})
	dot.Position = at.Sanitize().Sub(geom.Point{X: dot.Width / 2, Y: dot.Height / 2})
	dot, err := s.AddNode(dot)
	if err != nil {
		return Node{}, err
	}
	if err := s.RemoveConnection(id); err != nil {
		return Node{}, err
	}
	if _, err := s.AddConnection(Connection{FromNodeID: c.FromNodeID, FromHandleID: c.FromHandleID, ToNodeID: dot.ID}); err != nil {
		return Node{}, err
	}
	if _, err := s.AddConnection(Connection{FromNodeID: dot.ID, ToNodeID: c.ToNodeID, ToHandleID: c.ToHandleID}); err != nil {
		return Node{}, err
	}
	s.logger.Debug("connection split", "connection_id", id, "reroute_id", dot.ID)
	return dot, nil
}
