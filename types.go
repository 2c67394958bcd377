package main

import (
	"log/slog"

	"weft/internal/config"
	"weft/internal/dock"
	"weft/internal/geom"
	"weft/internal/graph"
	"weft/internal/render"
	"weft/internal/viewport"
)

// Buffer is one open canvas with its view and history.
type Buffer struct {
	store     *graph.Store
	view      *viewport.Viewport
	scene     *render.Scene
	undoStack []graph.Document
	redoStack []graph.Document
	filename  string
	dirty     bool
}

type model struct {
	width   int
	height  int
	cursorX int
	cursorY int

	buf    *Buffer
	dock   *dock.Machine
	config *config.Config
	logger *slog.Logger
	clip   Clipboard

	mode       Mode
	help       bool
	helpScroll int

	// current is the node keyboard commands act on.
	current  string
	selected map[string]bool
	// currentWire is the connection under the cursor at the last click.
	currentWire string

	drag *dragState

	typeIndex     int
	fileOp        FileOperation
	filename      string
	confirmAction ConfirmAction

	errorMessage   string
	successMessage string
	watching       bool
}

// dragState tracks one begin, move, end sequence.
type dragState struct {
	kind DragKind
	// start is the screen point where the drag began and last the most
	// recent one.
	start geom.Point
	last  geom.Point
	// nodeID is the node being moved, resized or wired from.
	nodeID   string
	handleID string
	groupID  string
	// origins are the positions of every moved node at begin.
	origins map[string]geom.Point
	origW   float64
	origH   float64
	// wireEnd is the world point the wire preview follows.
	wireEnd  geom.Point
	snapshot graph.Document
	changed  bool
}

// fileChangedMsg reports that the open canvas changed on disk.
type fileChangedMsg struct {
	path string
}

// watchErrMsg reports a watcher failure.
type watchErrMsg struct {
	err error
}
