package main

func (m *model) undo() {
	buf := m.buf
	if buf == nil || len(buf.undoStack) == 0 {
		m.errorMessage = "Nothing to undo"
		return
	}

	lastIndex := len(buf.undoStack) - 1
	doc := buf.undoStack[lastIndex]
	buf.undoStack = buf.undoStack[:lastIndex]

	buf.redoStack = append(buf.redoStack, buf.store.Document())
	buf.store.LoadDocument(doc)
	buf.dirty = true
	m.dropMissingSelection()
}

func (m *model) redo() {
	buf := m.buf
	if buf == nil || len(buf.redoStack) == 0 {
		m.errorMessage = "Nothing to redo"
		return
	}

	lastIndex := len(buf.redoStack) - 1
	doc := buf.redoStack[lastIndex]
	buf.redoStack = buf.redoStack[:lastIndex]

	buf.undoStack = append(buf.undoStack, buf.store.Document())
	buf.store.LoadDocument(doc)
	buf.dirty = true
	m.dropMissingSelection()
}

// dropMissingSelection forgets selected ids that no longer exist.
func (m *model) dropMissingSelection() {
	for id := range m.selected {
		if _, ok := m.buf.store.Node(id); !ok {
			delete(m.selected, id)
		}
	}
	if _, ok := m.buf.store.Node(m.current); !ok {
		m.current = ""
	}
}
