// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package filetree

import (
	"testing"

	"github.com/canvascraft/canvascraft/pkg/cnode"
)

func findFolder(root FileNode, name string) *FileNode {
	for i := range root.Children {
		if root.Children[i].Name == name && root.Children[i].IsFolder() {
			return &root.Children[i]
		}
	}
	return nil
}

func TestDefaultLayout(t *testing.T) {
	store := MakeStore()
	root := store.Root()
	if root.Id != RootId || !root.IsFolder() {
		t.Fatalf("bad root: %+v", root)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected index file + components folder, got %d children", len(root.Children))
	}
	if root.Children[0].Name != "index.tsx" || root.Children[0].IsFolder() {
		t.Errorf("first child should be the index file")
	}
	if findFolder(root, "components") == nil {
		t.Errorf("components folder missing")
	}
}

func TestAddFileAndFolder(t *testing.T) {
	store := MakeStore()
	folder := findFolder(store.Root(), "components")
	fileId := store.AddFile(folder.Id, "Hero.tsx")
	if store.FileById(fileId) == nil {
		t.Fatalf("added file not found")
	}
	subId := store.AddFolder(folder.Id, "widgets")
	sub := store.FileById(subId)
	if sub == nil || !sub.IsFolder() {
		t.Fatalf("added folder not found")
	}
	// adding under a file is a no-op
	before := store.Root()
	store.AddFile(fileId, "nope.tsx")
	after := store.Root()
	if len(after.Children) != len(before.Children) {
		t.Errorf("adding under a file should not change the tree")
	}
	nested := store.FileById(fileId)
	if len(nested.Children) != 0 {
		t.Errorf("file should not gain children")
	}
}

func TestUpdateFileCanvasTreeAndContent(t *testing.T) {
	store := MakeStore()
	fileId := store.Root().Children[0].Id
	tree := []cnode.ComponentNode{{Id: "n-1", Type: "P"}}
	store.UpdateFileCanvasTree(fileId, tree)
	store.UpdateFileContent(fileId, "<P></P>")
	file := store.FileById(fileId)
	if len(file.CanvasTree) != 1 || file.CanvasTree[0].Id != "n-1" {
		t.Errorf("canvas tree not stored")
	}
	if file.Content != "<P></P>" {
		t.Errorf("content not stored")
	}
}

func TestDeleteNode(t *testing.T) {
	store := MakeStore()
	fileId := store.Root().Children[0].Id
	store.SelectFile(fileId)
	store.DeleteNode(fileId)
	if store.FileById(fileId) != nil {
		t.Fatalf("file should be deleted")
	}
	if store.SelectedFileId() != "" {
		t.Errorf("deleting the selected file should clear selection")
	}
	store.DeleteNode(RootId)
	if store.Root().Id != RootId {
		t.Errorf("root must not be deletable")
	}
}

func TestRenameAndMarkCustom(t *testing.T) {
	store := MakeStore()
	folder := findFolder(store.Root(), "components")
	fileId := store.AddFile(folder.Id, "hero.tsx")
	store.RenameNode(fileId, "Hero.tsx")
	if store.FileById(fileId).Name != "Hero.tsx" {
		t.Errorf("rename not applied")
	}
	store.MarkAsCustomComponent(fileId, true)
	custom := store.CustomComponentFiles()
	if len(custom) != 1 || custom[0].Id != fileId {
		t.Fatalf("custom component listing wrong: %+v", custom)
	}
	store.MarkAsCustomComponent(fileId, false)
	if len(store.CustomComponentFiles()) != 0 {
		t.Errorf("unmark not applied")
	}
}

func TestSelectedFile(t *testing.T) {
	store := MakeStore()
	if store.SelectedFile() != nil {
		t.Errorf("no selection should return nil")
	}
	fileId := store.Root().Children[0].Id
	store.SelectFile(fileId)
	sel := store.SelectedFile()
	if sel == nil || sel.Id != fileId {
		t.Errorf("selected file lookup failed")
	}
}
