package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeCreating
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSavePNG
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmDeleteNode ConfirmAction = iota
	ConfirmDeleteConnection
	ConfirmQuit
	ConfirmReload
)

type DragKind int

const (
	DragNone DragKind = iota
	DragMove
	DragResize
	DragPan
	DragWire
	DragGroup
)

const (
	// maxUndo bounds the snapshot history of one buffer.
	maxUndo = 100
	// resizeGripCells is how close to the bottom-right corner, in cells, a
	// press has to land to start a resize instead of a move.
	resizeGripCells = 1
	// pasteOffset shifts pasted nodes so they do not hide the original.
	pasteOffset = 40.0
)
