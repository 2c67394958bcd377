package render

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weft/internal/anchor"
	"weft/internal/dock"
	"weft/internal/geom"
	"weft/internal/graph"
	"weft/internal/viewport"
)

func node(id string, t graph.NodeType, x, y float64) graph.Node {
	info := t.Info()
	return graph.Node{
		ID:       id,
		Type:     t,
		Position: geom.Point{X: x, Y: y},
		Width:    info.DefaultWidth,
		Height:   info.DefaultHeight,
	}
}

func frameOf(nodes ...graph.Node) Frame {
	f := Frame{
		Nodes:   nodes,
		View:    viewport.Identity(),
		Screen:  geom.Rect{W: 800, H: 320},
		Handles: map[string][]anchor.Handle{},
	}
	for _, n := range nodes {
		f.Handles[n.ID] = append(anchor.Handles(n, true), anchor.Handles(n, false)...)
	}
	return f
}

func runeAt(lines []string, x, y int) rune {
	return []rune(lines[y])[x]
}

func TestText_NodeBoxAndLabel(t *testing.T) {
	f := frameOf(node("n", graph.TypeNote, 80, 32))
	lines := Text(f, 100, 20, DefaultCell)

	require.Len(t, lines, 20)
	assert.Equal(t, '┌', runeAt(lines, 10, 2))
	assert.Equal(t, '┐', runeAt(lines, 44, 2))
	assert.Equal(t, '└', runeAt(lines, 10, 14))
	assert.Contains(t, lines[2], "Note")
	assert.Contains(t, lines[3], "note")
}

func TestText_SelectedUsesDoubleBorder(t *testing.T) {
	f := frameOf(node("n", graph.TypeNote, 80, 32))
	f.Selected = map[string]bool{"n": true}
	lines := Text(f, 100, 20, DefaultCell)
	assert.Equal(t, '╔', runeAt(lines, 10, 2))
}

func TestText_HandleMarkers(t *testing.T) {
	f := frameOf(node("t", graph.TypeTextInput, 0, 0), node("p", graph.TypePromptProcessor, 480, 0))
	lines := Text(f, 120, 20, DefaultCell)

	// Output of the text input sits on its right edge at (460, 150).
	assert.Equal(t, outputRune, runeAt(lines, 57, 9))
	// Input of the processor sits on its left edge at (480, 160).
	assert.Equal(t, inputRune, runeAt(lines, 60, 10))
}

func TestText_CollapsedAndPinnedLabel(t *testing.T) {
	n := node("n", graph.TypeNote, 0, 0)
	n.IsCollapsed = true
	n.IsPinned = true
	lines := Text(frameOf(n), 60, 10, DefaultCell)

	assert.Contains(t, lines[0], "▸ Note ⌖")
	assert.NotContains(t, lines[1], "note", "collapsed nodes show only the header")
}

func TestText_Wire(t *testing.T) {
	f := frameOf()
	f.Wires = []Wire{{From: geom.Point{X: 0, Y: 8}, To: geom.Point{X: 400, Y: 8}}}
	lines := Text(f, 60, 4, DefaultCell)
	assert.Contains(t, lines[0], string(wireRune))
	assert.NotContains(t, strings.Join(lines[1:], ""), string(wireRune))
}

func TestText_PreviewWire(t *testing.T) {
	f := frameOf()
	f.Preview = &Wire{From: geom.Point{X: 0, Y: 8}, To: geom.Point{X: 200, Y: 8}}
	lines := Text(f, 40, 2, DefaultCell)
	assert.Contains(t, lines[0], string(previewRune))
}

func TestText_Group(t *testing.T) {
	f := frameOf()
	f.Groups = []graph.Group{{ID: "g", Title: "Shots", Width: 320, Height: 160}}
	lines := Text(f, 60, 12, DefaultCell)

	assert.Equal(t, '╭', runeAt(lines, 0, 0))
	assert.Contains(t, lines[0], "Shots")
	assert.Equal(t, '╯', runeAt(lines, 39, 9))
}

func TestText_Reroute(t *testing.T) {
	f := frameOf(node("r", graph.TypeRerouteDot, 0, 0))
	lines := Text(f, 10, 4, DefaultCell)
	assert.Equal(t, rerouteRune, runeAt(lines, 3, 1))
}

func TestText_Panel(t *testing.T) {
	n := node("t", graph.TypeTextInput, 2000, 2000)
	n.DockState = &graph.DockState{Mode: graph.DockLeft}
	f := frameOf(n)
	f.Panels = []dock.Panel{{Node: n, Box: dock.Box{Rect: geom.Rect{W: 200, H: 160}}}}
	lines := Text(f, 60, 12, DefaultCell)

	assert.Equal(t, '┏', runeAt(lines, 0, 0))
	assert.Contains(t, lines[0], "Text Input [left]")
	assert.Contains(t, lines[2], "● default")
}

func TestText_FocusedPanelTitle(t *testing.T) {
	n := node("t", graph.TypeTextInput, 0, 0)
	f := frameOf()
	f.Panels = []dock.Panel{{Node: n, Box: dock.Focus(geom.Rect{W: 400, H: 160})}}
	lines := Text(f, 50, 10, DefaultCell)
	assert.Contains(t, lines[0], "Text Input [focus]")
}

func TestText_ZoomedOutShrinks(t *testing.T) {
	f := frameOf(node("n", graph.TypeNote, 0, 0))
	f.View = viewport.Transform{Scale: 0.5}
	lines := Text(f, 40, 10, DefaultCell)

	assert.Equal(t, '┐', runeAt(lines, 17, 0), "280 wide at half scale is 140px or 18 cells")
}

func TestText_ExtremeGeometryIsSafe(t *testing.T) {
	far := node("far", graph.TypeNote, 1e15, -1e15)
	nan := node("nan", graph.TypeNote, math.NaN(), math.Inf(1))
	f := frameOf(far, nan)
	f.Wires = []Wire{{From: geom.Point{X: -1e12, Y: 0}, To: geom.Point{X: 1e12, Y: 1e9}}}

	assert.NotPanics(t, func() {
		Text(f, 20, 5, Cell{W: math.NaN(), H: -1})
	})
}
