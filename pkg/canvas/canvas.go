// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package canvas is the stateful document store for one open canvas: the
// current tree, the undo/redo history, selection, nesting mode, and the
// clipboard.  All mutations funnel through commit() so history, persistence
// scheduling, and update notification stay consistent.
package canvas

import (
	"log"
	"sync"
	"time"

	"github.com/canvascraft/canvascraft/pkg/cnode"
	"github.com/canvascraft/canvascraft/pkg/codegen"
	"github.com/canvascraft/canvascraft/pkg/codeparse"
	"github.com/canvascraft/canvascraft/pkg/cschema"
	"github.com/canvascraft/canvascraft/pkg/cutil"
)

const (
	MaxHistorySize         = 50
	PersistDebounceTime    = 500 * time.Millisecond
	MoveThrottleTime       = 16 * time.Millisecond
	SourceEditDebounceTime = 500 * time.Millisecond

	DefaultDropX = 50
	DefaultDropY = 50
	PasteOffset  = 20
)

// PersistFn saves a tree snapshot for docId.  Called off the store lock,
// debounced; the tree value is immutable so late writes are safe.
type PersistFn func(docId string, tree []cnode.ComponentNode)

// UpdateFn is notified after every committed tree change (including
// undo/redo and source edits).  Called off the store lock.
type UpdateFn func(docId string, tree []cnode.ComponentNode)

// TabItemIds carries the trigger/content pair selected through a shared
// tab value token.
type TabItemIds struct {
	TriggerId string `json:"triggerid,omitempty"`
	ContentId string `json:"contentid,omitempty"`
}

type Store struct {
	lock sync.Mutex

	docId        string
	tree         []cnode.ComponentNode
	history      [][]cnode.ComponentNode
	historyIndex int

	selectedId       string
	expandedParentId string
	selectedTabItems TabItemIds

	nestingMode     bool
	nestingTargetId string

	clipboard *cnode.ComponentNode

	persistFn           PersistFn
	updateFns           []UpdateFn
	persistDebouncer    *Debouncer
	moveThrottler       *Throttler
	sourceEditDebouncer *Debouncer
}

func MakeStore(persistFn PersistFn) *Store {
	return &Store{
		history:             [][]cnode.ComponentNode{nil},
		historyIndex:        0,
		persistFn:           persistFn,
		persistDebouncer:    MakeDebouncer(PersistDebounceTime),
		moveThrottler:       MakeThrottler(MoveThrottleTime),
		sourceEditDebouncer: MakeDebouncer(SourceEditDebounceTime),
	}
}

// OnUpdate registers a listener for committed tree changes.  Not
// synchronized with in-flight commits; register before use.
func (s *Store) OnUpdate(fn UpdateFn) {
	s.updateFns = append(s.updateFns, fn)
}

// commit records tree as the new current version: history is truncated at
// the cursor (redo states die on a new edit), the snapshot appended, and
// the window pruned to MaxHistorySize.  Persistence is scheduled debounced.
// Caller holds the lock.
func (s *Store) commit(tree []cnode.ComponentNode) {
	newHistory := make([][]cnode.ComponentNode, 0, s.historyIndex+2)
	newHistory = append(newHistory, s.history[:s.historyIndex+1]...)
	newHistory = append(newHistory, tree)
	if len(newHistory) > MaxHistorySize {
		newHistory = newHistory[len(newHistory)-MaxHistorySize:]
	}
	s.history = newHistory
	s.historyIndex = len(newHistory) - 1
	s.tree = tree
	s.schedulePersist()
}

// schedulePersist arms the debounced save for the current doc.  Caller
// holds the lock; the saved values are captured now so a later doc switch
// cannot cross-write.
func (s *Store) schedulePersist() {
	if s.persistFn == nil || s.docId == "" {
		return
	}
	docId, tree, persistFn := s.docId, s.tree, s.persistFn
	s.persistDebouncer.Trigger(func() {
		persistFn(docId, tree)
	})
}

// notifyUpdate runs the update listeners with the current doc/tree.  Called
// after unlocking.
func (s *Store) notifyUpdate() {
	s.lock.Lock()
	docId, tree := s.docId, s.tree
	updateFns := s.updateFns
	s.lock.Unlock()
	for _, fn := range updateFns {
		func() {
			defer func() {
				cutil.PanicHandler("canvas update listener", recover())
			}()
			fn(docId, tree)
		}()
	}
}

// SetTree loads a document, replacing all store state.  Any pending save
// for the previous doc is flushed first so a quick doc switch cannot lose
// an edit.  History restarts with the loaded tree as its only entry.
func (s *Store) SetTree(docId string, tree []cnode.ComponentNode) {
	s.persistDebouncer.Flush()
	// a half-typed edit for the previous doc must not land in the new one
	s.sourceEditDebouncer.Stop()
	s.lock.Lock()
	s.docId = docId
	s.tree = tree
	s.history = [][]cnode.ComponentNode{tree}
	s.historyIndex = 0
	s.selectedId = ""
	s.expandedParentId = ""
	s.selectedTabItems = TabItemIds{}
	s.nestingMode = false
	s.nestingTargetId = ""
	s.moveThrottler.Reset()
	s.lock.Unlock()
	s.notifyUpdate()
}

func (s *Store) DocId() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.docId
}

// Tree returns the current tree value.  Tree values are immutable; callers
// may hold the result indefinitely.
func (s *Store) Tree() []cnode.ComponentNode {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.tree
}

// FlushPersist forces any pending debounced save to run now (shutdown,
// explicit save).
func (s *Store) FlushPersist() {
	s.persistDebouncer.Flush()
}

// AddComponent creates a node (or composite subtree) of ctype and inserts
// it under parentId, or at top level with the default drop position when
// parentId is empty.  Returns the new node's id.
func (s *Store) AddComponent(ctype string, parentId string) string {
	s.lock.Lock()
	node := cnode.MakeComponentNode(ctype, parentId)
	if parentId == "" {
		node.X = DefaultDropX
		node.Y = DefaultDropY
	}
	s.commit(cnode.InsertComponent(s.tree, parentId, node))
	s.lock.Unlock()
	s.notifyUpdate()
	return node.Id
}

// AddComponentToParent nests a new node of ctype under an existing
// container.  Fails when the parent is missing or is a void type that
// cannot hold children.
func (s *Store) AddComponentToParent(ctype string, parentId string) (string, bool) {
	s.lock.Lock()
	parent := cnode.FindNodeById(s.tree, parentId)
	if parent == nil || cschema.IsVoid(parent.Type) {
		s.lock.Unlock()
		return "", false
	}
	node := cnode.MakeComponentNode(ctype, parentId)
	s.commit(cnode.AddNodeToParent(s.tree, parentId, node))
	s.lock.Unlock()
	s.notifyUpdate()
	return node.Id, true
}

// MoveComponent updates a node's canvas position, rate-limited for drag
// streams.  Gated calls are dropped (only the latest position matters);
// use SetComponentPosition for the drag-end absolute position.
func (s *Store) MoveComponent(id string, x float64, y float64) {
	if !s.moveThrottler.Allow() {
		return
	}
	s.SetComponentPosition(id, x, y)
}

// SetComponentPosition applies a position unconditionally.
func (s *Store) SetComponentPosition(id string, x float64, y float64) {
	s.lock.Lock()
	s.commit(cnode.UpdateComponentPosition(s.tree, id, x, y))
	s.lock.Unlock()
	s.notifyUpdate()
}

// UpdateProps shallow-merges newProps into the node's props.  A no-op
// merge (every value already equal) commits nothing: no history entry, no
// save, no notification.
func (s *Store) UpdateProps(id string, newProps map[string]any) bool {
	s.lock.Lock()
	newTree, changed := cnode.UpdateNodePropsById(s.tree, id, newProps)
	if !changed {
		s.lock.Unlock()
		return false
	}
	s.commit(newTree)
	s.lock.Unlock()
	s.notifyUpdate()
	return true
}

// RemoveComponent deletes the node (and its subtree) wherever it sits.
// Removing a missing id is a full no-op (no history entry, no save) and
// returns false.  Selection pointing into the removed subtree is cleared.
func (s *Store) RemoveComponent(id string) bool {
	s.lock.Lock()
	if cnode.FindNodeById(s.tree, id) == nil {
		s.lock.Unlock()
		return false
	}
	s.commit(cnode.RemoveNodeById(s.tree, id))
	if s.selectedId != "" && cnode.FindNodeById(s.tree, s.selectedId) == nil {
		s.selectedId = ""
		s.expandedParentId = ""
		s.selectedTabItems = TabItemIds{}
	}
	s.lock.Unlock()
	s.notifyUpdate()
	return true
}

// Undo steps the history cursor back one version.  Returns false at the
// oldest version.
func (s *Store) Undo() bool {
	s.lock.Lock()
	if s.historyIndex <= 0 {
		s.lock.Unlock()
		return false
	}
	s.historyIndex--
	s.tree = s.history[s.historyIndex]
	s.schedulePersist()
	s.lock.Unlock()
	s.notifyUpdate()
	return true
}

// Redo steps the cursor forward one version.  Returns false at the newest.
func (s *Store) Redo() bool {
	s.lock.Lock()
	if s.historyIndex >= len(s.history)-1 {
		s.lock.Unlock()
		return false
	}
	s.historyIndex++
	s.tree = s.history[s.historyIndex]
	s.schedulePersist()
	s.lock.Unlock()
	s.notifyUpdate()
	return true
}

// StartNesting arms nesting mode: the next PerformNesting call reparents
// its argument under targetId.  Fails on a missing or void target.
func (s *Store) StartNesting(targetId string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	target := cnode.FindNodeById(s.tree, targetId)
	if target == nil || cschema.IsVoid(target.Type) {
		return false
	}
	s.nestingMode = true
	s.nestingTargetId = targetId
	s.selectedId = ""
	return true
}

func (s *Store) CancelNesting() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.nestingMode = false
	s.nestingTargetId = ""
}

// NestingTarget returns the armed target id, or "" when nesting mode is
// off.
func (s *Store) NestingTarget() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.nestingMode {
		return ""
	}
	return s.nestingTargetId
}

// PerformNesting moves the node with id under the armed target: removed
// from its current position, appended to the target's children with
// position zeroed (children are laid out by the container, not by canvas
// coordinates).  Nesting mode disarms and the target becomes the
// selection.  Nesting a node into itself or its own descendant is refused.
func (s *Store) PerformNesting(id string) bool {
	s.lock.Lock()
	if !s.nestingMode || s.nestingTargetId == "" {
		s.lock.Unlock()
		return false
	}
	targetId := s.nestingTargetId
	node := cnode.FindNodeById(s.tree, id)
	if node == nil || id == targetId || cnode.FindNodeById(node.Children, targetId) != nil {
		s.lock.Unlock()
		return false
	}
	moved := *node
	moved.ParentId = targetId
	moved.X = 0
	moved.Y = 0
	newTree := cnode.RemoveNodeById(s.tree, id)
	s.commit(cnode.AddNodeToParent(newTree, targetId, moved))
	s.nestingMode = false
	s.nestingTargetId = ""
	s.selectedId = targetId
	s.lock.Unlock()
	s.notifyUpdate()
	return true
}

// AddAccordionItem appends a complete item (trigger plus content panel) to
// an existing accordion.
func (s *Store) AddAccordionItem(accordionId string) {
	s.lock.Lock()
	item := cnode.MakeAccordionItem(accordionId, "New Accordion Heading", "New Accordion Content")
	s.commit(cnode.AddNodeToParent(s.tree, accordionId, item))
	s.lock.Unlock()
	s.notifyUpdate()
}

// AddTabItem appends a trigger to the tabs' TabsList child and a matching
// content panel to the tabs container, paired through a fresh shared value
// token.
func (s *Store) AddTabItem(tabsId string) {
	s.lock.Lock()
	token := cnode.ShortToken()
	value := "tab" + token
	newTree := cnode.TransformNodeById(s.tree, tabsId, func(tabs cnode.ComponentNode) cnode.ComponentNode {
		children := make([]cnode.ComponentNode, len(tabs.Children))
		for i, child := range tabs.Children {
			if child.Type == "TabsList" {
				trigger := cnode.MakeTabTrigger(child.Id, value, "Tab "+token)
				grand := make([]cnode.ComponentNode, 0, len(child.Children)+1)
				grand = append(grand, child.Children...)
				child.Children = append(grand, trigger)
			}
			children[i] = child
		}
		tabs.Children = children
		return tabs
	})
	panel := cnode.MakeTabContent(tabsId, value, "Content for "+value)
	s.commit(cnode.AddNodeToParent(newTree, tabsId, panel))
	s.lock.Unlock()
	s.notifyUpdate()
}

// ApplySourceEdit parses edited source text and commits the resulting tree.
// Guards against feedback loops and destructive parse failures:
//   - an empty parse never overwrites a non-empty tree (malformed or
//     mid-keystroke input)
//   - a parse whose regenerated text matches the current tree's is dropped,
//     so a generator-push echoed back by the editor does not churn ids or
//     append a history entry
func (s *Store) ApplySourceEdit(source string) bool {
	newTree := codeparse.ParseToTree(source)
	s.lock.Lock()
	if len(newTree) == 0 && len(s.tree) > 0 {
		s.lock.Unlock()
		log.Printf("[canvas] source edit parsed empty, keeping current tree\n")
		return false
	}
	if codegen.GenerateFromTree(newTree) == codegen.GenerateFromTree(s.tree) {
		s.lock.Unlock()
		return false
	}
	s.commit(newTree)
	s.lock.Unlock()
	s.notifyUpdate()
	return true
}

// QueueSourceEdit schedules a debounced ApplySourceEdit so a stream of
// mid-keystroke states collapses to one parse of the final text.  Only the
// latest queued edit survives; the store state is read at fire time.
// resultFn (optional) receives the applied/rejected outcome.
func (s *Store) QueueSourceEdit(source string, resultFn func(applied bool)) {
	s.sourceEditDebouncer.Trigger(func() {
		applied := s.ApplySourceEdit(source)
		if resultFn != nil {
			resultFn(applied)
		}
	})
}

// FlushSourceEdit applies any pending queued edit now.
func (s *Store) FlushSourceEdit() {
	s.sourceEditDebouncer.Flush()
}

// GenerateSource renders the current tree.
func (s *Store) GenerateSource() string {
	return codegen.GenerateFromTree(s.Tree())
}

// SelectedId returns the current selection (possibly redirected by
// SelectComponent).
func (s *Store) SelectedId() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.selectedId
}

func (s *Store) ExpandedParentId() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.expandedParentId
}

func (s *Store) SelectedTabItems() TabItemIds {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.selectedTabItems
}

// SelectedComponent returns a copy of the selected node, or nil.
func (s *Store) SelectedComponent() *cnode.ComponentNode {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.selectedId == "" {
		return nil
	}
	node := cnode.FindNodeById(s.tree, s.selectedId)
	if node == nil {
		return nil
	}
	rtn := *node
	return &rtn
}

// SelectComponent sets the selection, with redirection for composite
// internals: clicks inside a TabsContent select the panel, an
// AccordionItem click lands on its trigger, and tab trigger/content clicks
// select the owning Tabs container while recording the paired
// trigger/content ids (paired through the shared value token).
func (s *Store) SelectComponent(id string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	node := cnode.FindNodeById(s.tree, id)
	prevSelectedId := s.selectedId
	s.selectedTabItems = TabItemIds{}
	s.expandedParentId = ""
	s.selectedId = id
	if node == nil {
		return
	}

	var parent *cnode.ComponentNode
	if node.ParentId != "" {
		parent = cnode.FindNodeById(s.tree, node.ParentId)
	}

	switch {
	// first click inside a TabsContent selects the panel; once the panel
	// is selected, a second click drills down to the child itself
	case parent != nil && parent.Type == "TabsContent" && parent.Id != prevSelectedId:
		s.selectedId = parent.Id
	case node.Type == "AccordionItem":
		for _, child := range node.Children {
			if child.Type == "AccordionTrigger" {
				s.selectedId = child.Id
				s.expandedParentId = child.Id
				break
			}
		}
	case node.Type == "TabsTrigger":
		// parent is the TabsList; its parent is the Tabs container
		if parent != nil {
			s.selectedId = parent.Id
			if tabs := cnode.FindNodeById(s.tree, parent.ParentId); tabs != nil {
				s.selectedTabItems = findTabPair(tabs, node.StringProp("value"))
			}
		}
	case node.Type == "TabsContent":
		if parent != nil {
			s.selectedId = parent.Id
			s.selectedTabItems = findTabPair(parent, node.StringProp("value"))
		}
		if len(node.Children) > 0 {
			s.expandedParentId = node.Id
		}
	default:
		if len(node.Children) > 0 {
			s.expandedParentId = node.Id
		}
	}
}

// findTabPair locates the trigger (inside the TabsList child) and content
// panel of tabs sharing the given value token.
func findTabPair(tabs *cnode.ComponentNode, value string) TabItemIds {
	var rtn TabItemIds
	if value == "" {
		return rtn
	}
	for _, child := range tabs.Children {
		if child.Type == "TabsList" {
			for _, trigger := range child.Children {
				if trigger.Type == "TabsTrigger" && trigger.StringProp("value") == value {
					rtn.TriggerId = trigger.Id
				}
			}
		}
		if child.Type == "TabsContent" && child.StringProp("value") == value {
			rtn.ContentId = child.Id
		}
	}
	return rtn
}
