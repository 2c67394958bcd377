package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"weft/internal/geom"
)

// ViewState is the persisted pan and zoom of a canvas.
type ViewState struct {
	Scale     float64    `json:"scale"`
	Translate geom.Point `json:"translate"`
}

// Document is the on-disk form of a canvas.
type Document struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
	Groups      []Group      `json:"groups"`
	Viewport    *ViewState   `json:"viewport,omitempty"`
}

// Document returns a snapshot of the store contents.
func (s *Store) Document() Document {
	return Document{
		Nodes:       s.Nodes(),
		Connections: s.Connections(),
		Groups:      s.Groups(),
	}
}

// LoadDocument replaces the store contents with doc. Duplicate node ids keep
// their first occurrence. Connections and groups pointing at missing nodes
// are kept as they are; readers skip them. The group id counter never moves
// back, so ids handed out earlier in the session are not reused.
func (s *Store) LoadDocument(doc Document) {
	s.nodes = make([]Node, 0, len(doc.Nodes))
	s.index = make(map[string]int, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.ID == "" {
			n.ID = NewID()
		}
		if _, dup := s.index[n.ID]; dup {
			s.logger.Warn("duplicate node id in document", "node_id", n.ID)
			continue
		}
		n.IsFocused = false
		s.index[n.ID] = len(s.nodes)
		s.nodes = append(s.nodes, n)
	}

	s.connections = make([]Connection, 0, len(doc.Connections))
	for _, c := range doc.Connections {
		if c.ID == "" {
			c.ID = NewID()
		}
		s.connections = append(s.connections, c)
	}

	s.groups = make([]Group, 0, len(doc.Groups))
	for _, g := range doc.Groups {
		g.NodeIDs = append([]string(nil), g.NodeIDs...)
		s.groups = append(s.groups, g)
		if n := groupSeqFrom(g.ID); n > s.groupSeq {
			s.groupSeq = n
		}
	}
	s.rebuildMembership()
	s.touch()
	s.logger.Debug("document loaded", "nodes", len(s.nodes), "connections", len(s.connections), "groups", len(s.groups))
}

// Save writes doc as indented JSON.
func Save(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode canvas: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write canvas: %w", err)
	}
	return nil
}

// Load reads a document written by Save.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read canvas: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode canvas %s: %w", path, err)
	}
	return doc, nil
}
