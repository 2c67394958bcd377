package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGrid_MinimumSize(t *testing.T) {
	g := NewGrid(0, -3)
	w, h := g.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
	assert.Equal(t, " ", g.String())
}

func TestGrid_SetOutsideIsDropped(t *testing.T) {
	g := NewGrid(3, 2)
	g.Set(-1, 0, 'x')
	g.Set(3, 0, 'x')
	g.Set(0, 2, 'x')
	assert.Equal(t, "   \n   ", g.String())
	assert.Equal(t, rune(0), g.At(5, 5))
}

func TestGrid_SetIfEmpty(t *testing.T) {
	g := NewGrid(2, 1)
	g.Set(0, 0, 'a')
	g.SetIfEmpty(0, 0, 'b')
	g.SetIfEmpty(1, 0, 'b')
	assert.Equal(t, "ab", g.String())
}

func TestGrid_Box(t *testing.T) {
	g := NewGrid(6, 4)
	g.Box(0, 0, 4, 3, lightBox)

	assert.Equal(t, []string{
		"┌──┐  ",
		"│  │  ",
		"└──┘  ",
		"      ",
	}, g.Lines())
}

func TestGrid_BoxClipped(t *testing.T) {
	g := NewGrid(4, 4)
	g.Box(-2, -2, 5, 5, lightBox)

	assert.Equal(t, []string{
		"  │ ",
		"  │ ",
		"──┘ ",
		"    ",
	}, g.Lines())
}

func TestGrid_BoxHugeDoesNotHang(t *testing.T) {
	g := NewGrid(4, 2)
	g.Box(-1<<20, -1<<20, 1<<21, 1<<21, heavyBox)
	assert.Equal(t, "    \n    ", g.String(), "borders lie outside the grid")
}

func TestGrid_ThinBoxCollapses(t *testing.T) {
	g := NewGrid(4, 1)
	g.Box(0, 0, 3, 1, doubleBox)
	assert.Equal(t, "═══ ", g.String())
}

func TestGrid_Line(t *testing.T) {
	g := NewGrid(4, 3)
	g.Set(2, 0, '#')
	g.Line(0, 0, 3, 0, '*')
	g.Line(0, 2, 2, 0, '+')

	assert.Equal(t, []string{
		"**#*",
		" +  ",
		"+   ",
	}, g.Lines())
}

func TestGrid_TextAndFill(t *testing.T) {
	g := NewGrid(4, 2)
	g.Text(2, 0, "hello")
	g.Text(0, 5, "lost")
	assert.Equal(t, "  he\n    ", g.String())

	g.Fill(0, 0, 3, 1)
	assert.Equal(t, "   e\n    ", g.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "he…", truncate("hello", 3))
	assert.Equal(t, "hi", truncate("hi", 5))
	assert.Equal(t, "…", truncate("hello", 1))
	assert.Empty(t, truncate("hello", 0))
}
