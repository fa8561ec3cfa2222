// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package cnode defines the canvas component tree and the pure functions
// that operate on it.  Trees are immutable per version: every mutation
// rebuilds the spine from the changed node up to the root and returns a new
// slice, so older tree values stay valid (history snapshots, async readers).
package cnode

import (
	"github.com/google/uuid"
)

// prop values are JSON building blocks: string, float64, bool, nil
// (numbers may arrive as int from Go callers; compare with cutil.PropValEqual)

// ChildrenPropKey is overloaded: when a node has no nested children it holds
// the node's literal text content.
const ChildrenPropKey = "children"

// ClassNamePropKey holds a space-separated set of styling tokens.
const ClassNamePropKey = "className"

// ComponentNode is a single node on the canvas.  ParentId is a lookup aid
// only; ownership flows strictly top-down through Children.
type ComponentNode struct {
	Id       string          `json:"id"`
	Type     string          `json:"type"`
	Props    map[string]any  `json:"props,omitempty"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	ParentId string          `json:"parentid,omitempty"`
	Children []ComponentNode `json:"children,omitempty"`
}

func NewNodeId() string {
	return uuid.New().String()
}

// ShortToken returns a short random token, used for accordion item values
// and tab pairing values (value tokens survive serialization, unlike ids).
func ShortToken() string {
	return uuid.New().String()[0:4]
}

func (n *ComponentNode) Prop(key string) any {
	if n.Props == nil {
		return nil
	}
	return n.Props[key]
}

func (n *ComponentNode) StringProp(key string) string {
	val, ok := n.Prop(key).(string)
	if !ok {
		return ""
	}
	return val
}

// TextContent returns the literal text stored in props.children, or "" if
// the node has nested children or no text.
func (n *ComponentNode) TextContent() string {
	if len(n.Children) > 0 {
		return ""
	}
	return n.StringProp(ChildrenPropKey)
}
