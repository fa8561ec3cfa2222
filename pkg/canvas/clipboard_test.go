// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package canvas

import (
	"testing"

	"github.com/canvascraft/canvascraft/pkg/cnode"
)

func TestCopyPasteOffset(t *testing.T) {
	store := MakeStore(nil)
	id := store.AddComponent("Card", "")
	store.SetComponentPosition(id, 100, 150)

	if !store.CopyComponent(id) {
		t.Fatalf("copy failed")
	}
	newId, ok := store.PasteComponent()
	if !ok {
		t.Fatalf("paste failed")
	}
	if newId == id {
		t.Fatalf("paste should mint a new id")
	}
	pasted := cnode.FindNodeById(store.Tree(), newId)
	if pasted == nil {
		t.Fatalf("pasted node not in tree")
	}
	if pasted.X != 120 || pasted.Y != 170 {
		t.Errorf("paste should offset by %d, got %v,%v", PasteOffset, pasted.X, pasted.Y)
	}
	if pasted.ParentId != "" {
		t.Errorf("paste should land top-level")
	}
	if store.SelectedId() != newId {
		t.Errorf("pasted node should become the selection")
	}
	// subtree ids are all fresh
	orig := cnode.FindNodeById(store.Tree(), id)
	origIds := map[string]bool{}
	walkIds(*orig, origIds)
	pastedIds := map[string]bool{}
	walkIds(*pasted, pastedIds)
	for pid := range pastedIds {
		if origIds[pid] {
			t.Errorf("pasted subtree reused id %s", pid)
		}
	}
}

func TestPasteTwice(t *testing.T) {
	store := MakeStore(nil)
	id := store.AddComponent("Button", "")
	store.CopyComponent(id)
	first, _ := store.PasteComponent()
	second, ok := store.PasteComponent()
	if !ok {
		t.Fatalf("clipboard should survive a paste")
	}
	if first == second {
		t.Errorf("two pastes should mint distinct ids")
	}
	if len(store.Tree()) != 3 {
		t.Errorf("expected 3 roots, got %d", len(store.Tree()))
	}
}

func TestPasteEmptyClipboard(t *testing.T) {
	store := MakeStore(nil)
	if _, ok := store.PasteComponent(); ok {
		t.Errorf("paste with empty clipboard should fail")
	}
}

func TestClipboardIsSnapshot(t *testing.T) {
	store := MakeStore(nil)
	id := store.AddComponent("Button", "")
	store.CopyComponent(id)
	store.UpdateProps(id, map[string]any{"children": "Changed"})
	newId, _ := store.PasteComponent()
	pasted := cnode.FindNodeById(store.Tree(), newId)
	if pasted.Props[cnode.ChildrenPropKey] != "Button" {
		t.Errorf("clipboard should hold the snapshot from copy time, got %v", pasted.Props)
	}
}

func TestDuplicateKeepsParent(t *testing.T) {
	store := MakeStore(nil)
	divId := store.AddComponent("Div", "")
	childId, _ := store.AddComponentToParent("Button", divId)

	newId, ok := store.DuplicateComponent(childId)
	if !ok {
		t.Fatalf("duplicate failed")
	}
	dup := cnode.FindNodeById(store.Tree(), newId)
	if dup == nil || dup.ParentId != divId {
		t.Fatalf("duplicate should land next to the original (same parent)")
	}
	parent := cnode.FindNodeById(store.Tree(), divId)
	if len(parent.Children) != 2 {
		t.Errorf("parent should hold original + duplicate, got %d", len(parent.Children))
	}
	if _, ok := store.DuplicateComponent("missing-id"); ok {
		t.Errorf("duplicating a missing id should fail")
	}
}

func walkIds(node cnode.ComponentNode, ids map[string]bool) {
	ids[node.Id] = true
	for _, child := range node.Children {
		walkIds(child, ids)
	}
}
