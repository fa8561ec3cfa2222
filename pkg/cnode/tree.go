// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package cnode

import (
	"github.com/canvascraft/canvascraft/pkg/cutil"
)

// tree helpers never error on lookup misses.  a missing id is a silent
// no-op (the input comes back unchanged) -- stale ids from already-removed
// nodes are a normal UI race, not a corruption.

// FindNodeById returns the first node matching id in DFS pre-order, or nil.
// The returned pointer aliases the tree; callers must not mutate through it.
func FindNodeById(nodes []ComponentNode, id string) *ComponentNode {
	for i := range nodes {
		if nodes[i].Id == id {
			return &nodes[i]
		}
		if found := FindNodeById(nodes[i].Children, id); found != nil {
			return found
		}
	}
	return nil
}

// RemoveNodeById filters the node with matching id out of whatever array
// contains it, at any depth, rebuilding ancestor arrays.
func RemoveNodeById(nodes []ComponentNode, id string) []ComponentNode {
	rtn := make([]ComponentNode, 0, len(nodes))
	for _, node := range nodes {
		if node.Id == id {
			continue
		}
		if node.Children != nil {
			node.Children = RemoveNodeById(node.Children, id)
		}
		rtn = append(rtn, node)
	}
	return rtn
}

// AddNodeToParent appends newNode to the children of the node matching
// parentId (creating the children array if absent).  If parentId is not in
// the tree the input is returned unchanged.
func AddNodeToParent(nodes []ComponentNode, parentId string, newNode ComponentNode) []ComponentNode {
	rtn := make([]ComponentNode, len(nodes))
	for i, node := range nodes {
		if node.Id == parentId {
			children := make([]ComponentNode, 0, len(node.Children)+1)
			children = append(children, node.Children...)
			node.Children = append(children, newNode)
		} else if node.Children != nil {
			node.Children = AddNodeToParent(node.Children, parentId, newNode)
		}
		rtn[i] = node
	}
	return rtn
}

// InsertComponent is AddNodeToParent with a root-level escape: an empty
// parentId appends at the forest root.
func InsertComponent(nodes []ComponentNode, parentId string, newNode ComponentNode) []ComponentNode {
	if parentId == "" {
		rtn := make([]ComponentNode, 0, len(nodes)+1)
		rtn = append(rtn, nodes...)
		return append(rtn, newNode)
	}
	return AddNodeToParent(nodes, parentId, newNode)
}

// UpdateComponentPosition sets x/y on the matching node only.
func UpdateComponentPosition(nodes []ComponentNode, id string, x float64, y float64) []ComponentNode {
	return TransformNodeById(nodes, id, func(node ComponentNode) ComponentNode {
		node.X = x
		node.Y = y
		return node
	})
}

// UpdateNodePropsById shallow-merges newProps into the matching node's
// props.  When every incoming value already equals the current value the
// input slice is returned as-is with changed=false -- callers use that to
// skip redundant history entries and code regeneration.
func UpdateNodePropsById(nodes []ComponentNode, id string, newProps map[string]any) ([]ComponentNode, bool) {
	changed := false
	rtn := make([]ComponentNode, len(nodes))
	for i, node := range nodes {
		if node.Id == id {
			hasChanged := false
			for key, val := range newProps {
				if !cutil.PropValEqual(node.Props[key], val) {
					hasChanged = true
					break
				}
			}
			if hasChanged {
				props := make(map[string]any, len(node.Props)+len(newProps))
				for key, val := range node.Props {
					props[key] = val
				}
				for key, val := range newProps {
					props[key] = val
				}
				node.Props = props
				changed = true
			}
		} else if node.Children != nil {
			newChildren, childChanged := UpdateNodePropsById(node.Children, id, newProps)
			if childChanged {
				node.Children = newChildren
				changed = true
			}
		}
		rtn[i] = node
	}
	if !changed {
		return nodes, false
	}
	return rtn, true
}

// TransformNodeById applies fn to the node matching id (anywhere in the
// tree), rebuilding the spine above it.
func TransformNodeById(nodes []ComponentNode, id string, fn func(ComponentNode) ComponentNode) []ComponentNode {
	rtn := make([]ComponentNode, len(nodes))
	for i, node := range nodes {
		if node.Id == id {
			node = fn(node)
		} else if node.Children != nil {
			node.Children = TransformNodeById(node.Children, id, fn)
		}
		rtn[i] = node
	}
	return rtn
}

// CloneComponentWithNewIds deep-copies node, minting a fresh id for it and
// every descendant.  ParentId back-references inside the copy are rewritten
// to the fresh ids; the root copy's ParentId is left for the caller to set.
func CloneComponentWithNewIds(node ComponentNode) ComponentNode {
	rtn := node
	rtn.Id = NewNodeId()
	rtn.Props = copyProps(node.Props)
	if node.Children != nil {
		children := make([]ComponentNode, len(node.Children))
		for i, child := range node.Children {
			childCopy := CloneComponentWithNewIds(child)
			childCopy.ParentId = rtn.Id
			children[i] = childCopy
		}
		rtn.Children = children
	}
	return rtn
}

func copyProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	rtn := make(map[string]any, len(props))
	for key, val := range props {
		rtn[key] = val
	}
	return rtn
}
