package graph

import (
	"fmt"
	"strconv"
	"strings"

	"weft/internal/geom"
)

const groupIDPrefix = "group-"

// Groups returns all groups in creation order.
func (s *Store) Groups() []Group {
	out := make([]Group, len(s.groups))
	for i, g := range s.groups {
		out[i] = g
		out[i].NodeIDs = append([]string(nil), g.NodeIDs...)
	}
	return out
}

// Group returns the group with the given id.
func (s *Store) Group(id string) (Group, bool) {
	i := s.groupIndex(id)
	if i < 0 {
		return Group{}, false
	}
	g := s.groups[i]
	g.NodeIDs = append([]string(nil), g.NodeIDs...)
	return g, true
}

func (s *Store) groupIndex(id string) int {
	for i, g := range s.groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// GroupOf returns the id of the group the node belongs to.
func (s *Store) GroupOf(nodeID string) (string, bool) {
	gid, ok := s.membership[nodeID]
	return gid, ok
}

// Membership returns a copy of the node id to group id map.
func (s *Store) Membership() map[string]string {
	out := make(map[string]string, len(s.membership))
	for k, v := range s.membership {
		out[k] = v
	}
	return out
}

// rebuildMembership recomputes the node to group map from scratch. Group
// counts are small so a full rebuild on every group change is fine.
func (s *Store) rebuildMembership() {
	s.membership = make(map[string]string)
	for _, g := range s.groups {
		for _, id := range g.NodeIDs {
			s.membership[id] = g.ID
		}
	}
}

// AddGroup frames nodes in a new group. It does nothing and returns false
// when nodes is empty. Nodes that already belong to a group are moved out of
// it first.
func (s *Store) AddGroup(nodes []Node, title string) (Group, bool) {
	bounds := GroupBounds(nodes)
	if bounds == nil {
		return Group{}, false
	}
	s.groupSeq++
	id := groupIDPrefix + strconv.Itoa(s.groupSeq)
	if title == "" {
		title = fmt.Sprintf("Group %d", s.groupSeq)
	}

	ids := make([]string, 0, len(nodes))
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		ids = append(ids, n.ID)
		if old, ok := s.membership[n.ID]; ok {
			s.removeMember(old, n.ID)
		}
	}

	g := Group{
		ID:       id,
		Title:    title,
		Position: bounds.Min(),
		Width:    bounds.W,
		Height:   bounds.H,
		NodeIDs:  ids,
	}
	s.groups = append(s.groups, g)
	s.rebuildMembership()
	s.touch()
	s.logger.Debug("group created", "group_id", id, "members", len(ids))
	return g, true
}

// RemoveGroup deletes the group. Member nodes are left untouched.
func (s *Store) RemoveGroup(id string) error {
	i := s.groupIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	s.groups = append(s.groups[:i], s.groups[i+1:]...)
	s.rebuildMembership()
	s.touch()
	s.logger.Debug("group removed", "group_id", id)
	return nil
}

// UpdateGroupBounds recomputes the group frame from those of its members
// present in allNodes. A group whose members are all gone keeps its frame.
func (s *Store) UpdateGroupBounds(groupID string, allNodes []Node) error {
	i := s.groupIndex(groupID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	g := &s.groups[i]
	members := make([]Node, 0, len(g.NodeIDs))
	for _, n := range allNodes {
		if g.Has(n.ID) {
			members = append(members, n)
		}
	}
	if b := GroupBounds(members); b != nil {
		g.Position = b.Min()
		g.Width = b.W
		g.Height = b.H
	}
	s.touch()
	return nil
}

// DetachFromGroup takes one node out of the group and shrinks the frame.
func (s *Store) DetachFromGroup(groupID, nodeID string) error {
	if s.groupIndex(groupID) < 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	if !s.removeMember(groupID, nodeID) {
		return fmt.Errorf("%w: %s in %s", ErrNodeNotFound, nodeID, groupID)
	}
	s.rebuildMembership()
	s.touch()
	return nil
}

func (s *Store) removeMember(groupID, nodeID string) bool {
	i := s.groupIndex(groupID)
	if i < 0 {
		return false
	}
	g := &s.groups[i]
	for j, id := range g.NodeIDs {
		if id == nodeID {
			g.NodeIDs = append(g.NodeIDs[:j], g.NodeIDs[j+1:]...)
			if b := GroupBounds(s.members(*g)); b != nil {
				g.Position = b.Min()
				g.Width = b.W
				g.Height = b.H
			}
			return true
		}
	}
	return false
}

func (s *Store) members(g Group) []Node {
	out := make([]Node, 0, len(g.NodeIDs))
	for _, id := range g.NodeIDs {
		if i, ok := s.index[id]; ok {
			out = append(out, s.nodes[i])
		}
	}
	return out
}

// MoveGroup shifts the group and all of its members by delta.
func (s *Store) MoveGroup(groupID string, delta geom.Point) error {
	i := s.groupIndex(groupID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	delta = delta.Sanitize()
	s.groups[i].Position = s.groups[i].Position.Sanitize().Add(delta)
	for _, id := range s.groups[i].NodeIDs {
		if j, ok := s.index[id]; ok {
			s.nodes[j].Position = s.nodes[j].Pos().Add(delta)
		}
	}
	return s.UpdateGroupBounds(groupID, s.nodes)
}

// groupSeqFrom returns the counter value implied by a group id, or 0.
func groupSeqFrom(id string) int {
	if !strings.HasPrefix(id, groupIDPrefix) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, groupIDPrefix))
	if err != nil {
		return 0
	}
	return n
}
