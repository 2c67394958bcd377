package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"weft/internal/geom"
	"weft/internal/graph"
)

// Clipboard is the system clipboard. Tests swap in a fake.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) { return readClipboardText() }

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// clipPayload is the clipboard form of copied nodes.
type clipPayload struct {
	Kind        string             `json:"kind"`
	Nodes       []graph.Node       `json:"nodes"`
	Connections []graph.Connection `json:"connections,omitempty"`
}

const clipKind = "weft/nodes"

var errNotNodes = errors.New("clipboard does not hold nodes")

// copyNodes puts the target nodes and the wires between them on the
// clipboard.
func (m *model) copyNodes() error {
	nodes := m.targets()
	if len(nodes) == 0 {
		return errors.New("no node selected")
	}
	ids := make(map[string]bool, len(nodes))
	for i := range nodes {
		ids[nodes[i].ID] = true
		nodes[i].DockState = nil
		nodes[i].IsFocused = false
	}
	payload := clipPayload{Kind: clipKind, Nodes: nodes}
	for _, c := range m.buf.store.Connections() {
		if ids[c.FromNodeID] && ids[c.ToNodeID] {
			payload.Connections = append(payload.Connections, c)
		}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode clipboard: %w", err)
	}
	if err := m.clip.WriteAll(string(data)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	m.successMessage = fmt.Sprintf("Copied %d node(s)", len(nodes))
	return nil
}

// pasteNodes adds the clipboard nodes with fresh ids, shifted so the copy
// does not cover the original. Pasted nodes become the selection.
func (m *model) pasteNodes() error {
	text, err := m.clip.ReadAll()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	var payload clipPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &payload); err != nil || payload.Kind != clipKind {
		return errNotNodes
	}
	if len(payload.Nodes) == 0 {
		return errNotNodes
	}

	offset := geom.Point{X: pasteOffset, Y: pasteOffset}
	remap := make(map[string]string, len(payload.Nodes))
	err = m.mutate(func() error {
		for _, n := range payload.Nodes {
			old := n.ID
			n.ID = graph.NewID()
			n.Position = n.Pos().Add(offset)
			added, err := m.buf.store.AddNode(n)
			if err != nil {
				return err
			}
			remap[old] = added.ID
		}
		for _, c := range payload.Connections {
			from, okFrom := remap[c.FromNodeID]
			to, okTo := remap[c.ToNodeID]
			if !okFrom || !okTo {
				continue
			}
			c.ID = ""
			c.FromNodeID, c.ToNodeID = from, to
			if _, err := m.buf.store.AddConnection(c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.selected = make(map[string]bool, len(remap))
	for _, id := range remap {
		m.selected[id] = true
	}
	m.current = remap[payload.Nodes[len(payload.Nodes)-1].ID]
	m.successMessage = fmt.Sprintf("Pasted %d node(s)", len(remap))
	return nil
}
