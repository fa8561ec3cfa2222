// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package canvas

import (
	"log"

	"github.com/canvascraft/canvascraft/pkg/cnode"
)

// CopyComponent snapshots the node with id into the store clipboard.  The
// snapshot is a tree value, so later edits to the canvas do not leak into
// a pending paste.
func (s *Store) CopyComponent(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	node := cnode.FindNodeById(s.tree, id)
	if node == nil {
		log.Printf("[canvas] copy: component %s not found\n", id)
		return false
	}
	snapshot := *node
	s.clipboard = &snapshot
	return true
}

// PasteComponent inserts a clone of the clipboard at top level, offset
// from the source position so the copy is visible, with fresh ids
// throughout.  The clipboard survives the paste (paste twice, get two
// copies).  Returns the new root id.
func (s *Store) PasteComponent() (string, bool) {
	s.lock.Lock()
	if s.clipboard == nil {
		s.lock.Unlock()
		log.Printf("[canvas] paste: clipboard is empty\n")
		return "", false
	}
	clone := cnode.CloneComponentWithNewIds(*s.clipboard)
	clone.X = s.clipboard.X + PasteOffset
	clone.Y = s.clipboard.Y + PasteOffset
	clone.ParentId = ""
	s.commit(append(s.tree[0:len(s.tree):len(s.tree)], clone))
	s.selectedId = clone.Id
	s.lock.Unlock()
	s.notifyUpdate()
	return clone.Id, true
}

// DuplicateComponent is copy+paste in one step, except the clone lands
// next to the original: same parent, offset position.  The clipboard is
// not touched.
func (s *Store) DuplicateComponent(id string) (string, bool) {
	s.lock.Lock()
	node := cnode.FindNodeById(s.tree, id)
	if node == nil {
		s.lock.Unlock()
		log.Printf("[canvas] duplicate: component %s not found\n", id)
		return "", false
	}
	clone := cnode.CloneComponentWithNewIds(*node)
	clone.X = node.X + PasteOffset
	clone.Y = node.Y + PasteOffset
	clone.ParentId = node.ParentId
	if node.ParentId != "" {
		s.commit(cnode.AddNodeToParent(s.tree, node.ParentId, clone))
	} else {
		s.commit(append(s.tree[0:len(s.tree):len(s.tree)], clone))
	}
	s.selectedId = clone.Id
	s.lock.Unlock()
	s.notifyUpdate()
	return clone.Id, true
}
