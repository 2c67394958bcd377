// Package dock implements the docking state machine for nodes shown as
// fixed screen panels.
//
// A node is either free on the canvas or docked in one of eleven screen
// regions. Transitions are looked up in a table built per node class, so a
// node type that may not cycle simply has no cycle entries. Full-screen
// focus is a separate flag that overlays whatever state the node is in.
package dock

import (
	"errors"
	"fmt"

	"weft/internal/graph"
)

var (
	ErrIllegalTransition = errors.New("illegal dock transition")
	ErrNotDockable       = errors.New("node cannot be docked")
)

// Free is the state of a node that is not docked.
const Free graph.DockMode = ""

// Event is a docking command.
type Event string

const (
	EventCycleNext     Event = "cycle-next"
	EventCyclePrev     Event = "cycle-prev"
	EventCycleVertical Event = "cycle-vertical"
	EventUndock        Event = "undock"
)

// DockTo returns the event that docks a node in mode m.
func DockTo(m graph.DockMode) Event {
	return Event("dock-" + string(m))
}

// States lists every docked mode. Free is not included.
var States = []graph.DockMode{
	graph.DockFull,
	graph.DockLeft, graph.DockRight,
	graph.DockTL, graph.DockTR, graph.DockBL, graph.DockBR,
	graph.DockQ1, graph.DockQ2, graph.DockQ3, graph.DockQ4,
}

var quadrants = []graph.DockMode{graph.DockQ1, graph.DockQ2, graph.DockQ3, graph.DockQ4}

var verticalPairs = map[graph.DockMode]graph.DockMode{
	graph.DockTL: graph.DockBL,
	graph.DockBL: graph.DockTL,
	graph.DockTR: graph.DockBR,
	graph.DockBR: graph.DockTR,
}

// restrictedTargets are the only docks open to restricted node types.
var restrictedTargets = []graph.DockMode{
	graph.DockLeft, graph.DockRight,
	graph.DockTL, graph.DockTR, graph.DockBL, graph.DockBR,
}

type key struct {
	from  graph.DockMode
	event Event
}

// Table maps a state and an event to the next state. Missing entries are
// illegal.
type Table map[key]graph.DockMode

// Next looks up the transition for event in state from.
func (t Table) Next(from graph.DockMode, event Event) (graph.DockMode, bool) {
	to, ok := t[key{from: from, event: event}]
	return to, ok
}

func newTable(targets []graph.DockMode, cycling bool) Table {
	t := make(Table)
	from := append([]graph.DockMode{Free}, States...)
	for _, f := range from {
		for _, to := range targets {
			t[key{f, DockTo(to)}] = to
		}
		t[key{f, EventUndock}] = Free
	}
	if !cycling {
		return t
	}
	for i, q := range quadrants {
		t[key{q, EventCycleNext}] = quadrants[min(i+1, len(quadrants)-1)]
		t[key{q, EventCyclePrev}] = quadrants[max(i-1, 0)]
	}
	for a, b := range verticalPairs {
		t[key{a, EventCycleVertical}] = b
	}
	return t
}

var (
	standardTable   = newTable(States, true)
	restrictedTable = newTable(restrictedTargets, false)
	// Nodes that cannot dock may still be undocked, which repairs bad saves.
	fixedTable = newTable(nil, false)
)

// TableFor returns the transition table for nodes of type t.
func TableFor(t graph.NodeType) Table {
	info := t.Info()
	switch {
	case !info.Dockable:
		return fixedTable
	case info.DockRestricted:
		return restrictedTable
	}
	return standardTable
}

// Next returns the state a node of type t moves to from state from on
// event.
func Next(t graph.NodeType, from graph.DockMode, event Event) (graph.DockMode, error) {
	if !from.Valid() {
		from = Free
	}
	to, ok := TableFor(t).Next(from, event)
	if ok {
		return to, nil
	}
	if !t.Info().Dockable {
		return from, fmt.Errorf("%w: %s", ErrNotDockable, t)
	}
	return from, fmt.Errorf("%w: %s on %s from %q", ErrIllegalTransition, event, t, from)
}
