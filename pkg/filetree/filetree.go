// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package filetree models the project workspace: a folder/file tree where
// each file carries its own canvas tree and generated source.  Same
// immutability rule as the canvas tree: mutations rebuild the changed
// spine and swap the root, so snapshots handed out stay valid.
package filetree

import (
	"sync"

	"github.com/canvascraft/canvascraft/pkg/cnode"
	"github.com/google/uuid"
)

const (
	NodeTypeFile   = "file"
	NodeTypeFolder = "folder"

	RootId = "root"
)

type FileNode struct {
	Id                string                `json:"id"`
	Name              string                `json:"name"`
	Type              string                `json:"type"`
	Content           string                `json:"content,omitempty"`
	CanvasTree        []cnode.ComponentNode `json:"canvastree,omitempty"`
	Children          []FileNode            `json:"children,omitempty"`
	IsCustomComponent bool                  `json:"iscustomcomponent,omitempty"`
}

func (n *FileNode) IsFolder() bool {
	return n.Type == NodeTypeFolder
}

type Store struct {
	lock           sync.Mutex
	root           FileNode
	selectedFileId string
}

// MakeStore builds a workspace with the default layout: an index file plus
// an empty components folder.
func MakeStore() *Store {
	return &Store{
		root: FileNode{
			Id:   RootId,
			Name: "project-root",
			Type: NodeTypeFolder,
			Children: []FileNode{
				{Id: uuid.New().String(), Name: "index.tsx", Type: NodeTypeFile},
				{Id: uuid.New().String(), Name: "components", Type: NodeTypeFolder, Children: []FileNode{}},
			},
		},
	}
}

// Root returns the current tree value (immutable snapshot).
func (s *Store) Root() FileNode {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.root
}

// SetRoot replaces the whole workspace (project load).  Selection is
// cleared since its id space just changed.
func (s *Store) SetRoot(root FileNode) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.root = root
	s.selectedFileId = ""
}

func (s *Store) SelectFile(id string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.selectedFileId = id
}

func (s *Store) SelectedFileId() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.selectedFileId
}

// SelectedFile returns a copy of the selected node, or nil.
func (s *Store) SelectedFile() *FileNode {
	s.lock.Lock()
	defer s.lock.Unlock()
	return findNode(s.root, s.selectedFileId)
}

// FileById returns a copy of the node with id, or nil.
func (s *Store) FileById(id string) *FileNode {
	s.lock.Lock()
	defer s.lock.Unlock()
	return findNode(s.root, id)
}

// UpdateFileContent stores generated source text on a file node.
func (s *Store) UpdateFileContent(id string, content string) {
	s.transform(id, func(node FileNode) FileNode {
		node.Content = content
		return node
	})
}

// UpdateFileCanvasTree stores a canvas snapshot on a file node (autosave
// target of the canvas store's persist callback).
func (s *Store) UpdateFileCanvasTree(id string, tree []cnode.ComponentNode) {
	s.transform(id, func(node FileNode) FileNode {
		node.CanvasTree = tree
		return node
	})
}

// AddFile creates an empty file under the folder parentId.  No-op when
// parentId is missing or not a folder.
func (s *Store) AddFile(parentId string, name string) string {
	newId := uuid.New().String()
	s.transform(parentId, func(node FileNode) FileNode {
		if !node.IsFolder() {
			return node
		}
		node.Children = appendChild(node.Children, FileNode{Id: newId, Name: name, Type: NodeTypeFile})
		return node
	})
	return newId
}

func (s *Store) AddFolder(parentId string, name string) string {
	newId := uuid.New().String()
	s.transform(parentId, func(node FileNode) FileNode {
		if !node.IsFolder() {
			return node
		}
		node.Children = appendChild(node.Children, FileNode{Id: newId, Name: name, Type: NodeTypeFolder, Children: []FileNode{}})
		return node
	})
	return newId
}

// DeleteNode removes the node (file or whole folder subtree).  The root
// itself cannot be deleted.
func (s *Store) DeleteNode(id string) {
	if id == RootId {
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.root = *removeNode(s.root, id)
	if s.selectedFileId == id {
		s.selectedFileId = ""
	}
}

func (s *Store) RenameNode(id string, newName string) {
	s.transform(id, func(node FileNode) FileNode {
		node.Name = newName
		return node
	})
}

// MarkAsCustomComponent flags a file as a reusable component so the
// generator can reference it from other files.
func (s *Store) MarkAsCustomComponent(id string, value bool) {
	s.transform(id, func(node FileNode) FileNode {
		node.IsCustomComponent = value
		return node
	})
}

// CustomComponentFiles returns copies of every file flagged as a custom
// component, in tree order.
func (s *Store) CustomComponentFiles() []FileNode {
	s.lock.Lock()
	defer s.lock.Unlock()
	var rtn []FileNode
	var walk func(node FileNode)
	walk = func(node FileNode) {
		if node.IsCustomComponent && !node.IsFolder() {
			rtn = append(rtn, node)
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(s.root)
	return rtn
}

func (s *Store) transform(id string, fn func(FileNode) FileNode) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.root = transformNode(s.root, id, fn)
}

func transformNode(node FileNode, id string, fn func(FileNode) FileNode) FileNode {
	if node.Id == id {
		return fn(node)
	}
	if node.Children != nil {
		children := make([]FileNode, len(node.Children))
		for i, child := range node.Children {
			children[i] = transformNode(child, id, fn)
		}
		node.Children = children
	}
	return node
}

func findNode(node FileNode, id string) *FileNode {
	if id == "" {
		return nil
	}
	if node.Id == id {
		rtn := node
		return &rtn
	}
	for _, child := range node.Children {
		if found := findNode(child, id); found != nil {
			return found
		}
	}
	return nil
}

func removeNode(node FileNode, id string) *FileNode {
	if node.Id == id {
		return nil
	}
	if node.Children != nil {
		children := make([]FileNode, 0, len(node.Children))
		for _, child := range node.Children {
			if kept := removeNode(child, id); kept != nil {
				children = append(children, *kept)
			}
		}
		node.Children = children
	}
	return &node
}

func appendChild(children []FileNode, child FileNode) []FileNode {
	rtn := make([]FileNode, 0, len(children)+1)
	rtn = append(rtn, children...)
	return append(rtn, child)
}
