package main

import (
	"fmt"
	"os"

	"weft/internal/render"
)

// exportVisualTXT writes the canvas exactly as it appears on screen,
// without cursor or selection.
func (m *model) exportVisualTXT(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	f := m.buf.scene.Frame(nil, nil)
	cols, rows := m.canvasSize()
	for _, line := range render.Text(f, cols, rows, m.cell()) {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return err
		}
	}
	return nil
}

// exportPNG draws the whole canvas to filename.
func (m *model) exportPNG(filename string) error {
	return render.ExportPNG(filename, m.buf.scene.FullFrame(nil), render.PNGOptions{})
}
