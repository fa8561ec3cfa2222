// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package cnode

import (
	"reflect"
	"testing"
)

func makeTestTree() []ComponentNode {
	return []ComponentNode{
		{
			Id:   "div-1",
			Type: "Div",
			Children: []ComponentNode{
				{Id: "p-1", Type: "P", Props: map[string]any{"children": "hello"}, ParentId: "div-1"},
				{Id: "btn-1", Type: "Button", Props: map[string]any{"children": "Click", "variant": "primary"}, ParentId: "div-1"},
			},
		},
		{Id: "p-2", Type: "P", Props: map[string]any{"children": "world"}, X: 100, Y: 200},
	}
}

func TestFindNodeById(t *testing.T) {
	tree := makeTestTree()
	node := FindNodeById(tree, "btn-1")
	if node == nil {
		t.Fatalf("expected to find btn-1")
	}
	if node.Type != "Button" {
		t.Errorf("expected Button, got %q", node.Type)
	}
	if FindNodeById(tree, "no-such-id") != nil {
		t.Errorf("expected nil for missing id")
	}
}

func TestRemoveNodeById(t *testing.T) {
	tree := makeTestTree()
	newTree := RemoveNodeById(tree, "p-1")
	if FindNodeById(newTree, "p-1") != nil {
		t.Fatalf("p-1 should be removed")
	}
	if FindNodeById(newTree, "btn-1") == nil {
		t.Fatalf("btn-1 should survive sibling removal")
	}
	// original tree value untouched
	if FindNodeById(tree, "p-1") == nil {
		t.Errorf("input tree was mutated")
	}
	// removing an absent id is structurally a no-op
	again := RemoveNodeById(newTree, "p-1")
	if !reflect.DeepEqual(newTree, again) {
		t.Errorf("second removal changed the tree")
	}
}

func TestAddNodeToParent(t *testing.T) {
	tree := makeTestTree()
	newNode := ComponentNode{Id: "new-1", Type: "P", ParentId: "div-1"}
	newTree := AddNodeToParent(tree, "div-1", newNode)
	parent := FindNodeById(newTree, "div-1")
	if len(parent.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(parent.Children))
	}
	if parent.Children[2].Id != "new-1" {
		t.Errorf("new node should append at the end")
	}
	// missing parent leaves the tree unchanged
	unchanged := AddNodeToParent(tree, "no-such-id", newNode)
	if !reflect.DeepEqual(tree, unchanged) {
		t.Errorf("add with missing parent changed the tree")
	}
}

func TestInsertComponentAtRoot(t *testing.T) {
	tree := makeTestTree()
	newTree := InsertComponent(tree, "", ComponentNode{Id: "root-new", Type: "Div"})
	if len(newTree) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(newTree))
	}
	if newTree[2].Id != "root-new" {
		t.Errorf("new root should append at the end")
	}
}

func TestUpdateComponentPosition(t *testing.T) {
	tree := makeTestTree()
	newTree := UpdateComponentPosition(tree, "p-2", 300, 400)
	node := FindNodeById(newTree, "p-2")
	if node.X != 300 || node.Y != 400 {
		t.Errorf("position not updated: %v,%v", node.X, node.Y)
	}
	orig := FindNodeById(tree, "p-2")
	if orig.X != 100 || orig.Y != 200 {
		t.Errorf("input tree was mutated")
	}
}

func TestUpdateNodePropsByIdMerge(t *testing.T) {
	tree := makeTestTree()
	newTree, changed := UpdateNodePropsById(tree, "btn-1", map[string]any{"variant": "ghost", "size": "lg"})
	if !changed {
		t.Fatalf("expected changed=true")
	}
	node := FindNodeById(newTree, "btn-1")
	if node.Props["variant"] != "ghost" || node.Props["size"] != "lg" {
		t.Errorf("props not merged: %v", node.Props)
	}
	if node.Props["children"] != "Click" {
		t.Errorf("unrelated prop lost: %v", node.Props)
	}
}

func TestUpdateNodePropsByIdNoOp(t *testing.T) {
	tree := makeTestTree()
	newTree, changed := UpdateNodePropsById(tree, "btn-1", map[string]any{"variant": "primary"})
	if changed {
		t.Fatalf("expected changed=false for identical values")
	}
	if &newTree[0] != &tree[0] {
		t.Errorf("no-op update should return the input slice")
	}
	// int vs float64 with equal value is still a no-op
	tree2, _ := UpdateNodePropsById(tree, "btn-1", map[string]any{"count": 4})
	_, changed = UpdateNodePropsById(tree2, "btn-1", map[string]any{"count": float64(4)})
	if changed {
		t.Errorf("numeric widening should compare equal")
	}
}

func TestTransformNodeById(t *testing.T) {
	tree := makeTestTree()
	newTree := TransformNodeById(tree, "p-1", func(node ComponentNode) ComponentNode {
		node.Type = "Label"
		return node
	})
	if FindNodeById(newTree, "p-1").Type != "Label" {
		t.Errorf("transform not applied")
	}
	if FindNodeById(tree, "p-1").Type != "P" {
		t.Errorf("input tree was mutated")
	}
}

func TestCloneComponentWithNewIds(t *testing.T) {
	tree := makeTestTree()
	orig := *FindNodeById(tree, "div-1")
	clone := CloneComponentWithNewIds(orig)
	if clone.Id == orig.Id {
		t.Fatalf("clone root kept its id")
	}
	if len(clone.Children) != len(orig.Children) {
		t.Fatalf("clone lost children")
	}
	origIds := map[string]bool{}
	collectIds(orig, origIds)
	cloneIds := map[string]bool{}
	collectIds(clone, cloneIds)
	for id := range cloneIds {
		if origIds[id] {
			t.Errorf("clone reused id %s", id)
		}
	}
	for _, child := range clone.Children {
		if child.ParentId != clone.Id {
			t.Errorf("child parentid not rewritten: %s", child.ParentId)
		}
	}
	// clone props are independent
	clone.Children[0].Props["children"] = "changed"
	if orig.Children[0].Props["children"] != "hello" {
		t.Errorf("clone props alias the original")
	}
}

func collectIds(node ComponentNode, ids map[string]bool) {
	ids[node.Id] = true
	for _, child := range node.Children {
		collectIds(child, ids)
	}
}
