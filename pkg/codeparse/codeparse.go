// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package codeparse decompiles source text back into a component tree.  The
// grammar is the constrained tag-based subset the generator emits (elements,
// attributes, literal text, import lines) -- not general-purpose source
// code.  Malformed input never escapes as a panic or error: the result is
// simply empty and the caller decides whether empty should overwrite
// anything.
package codeparse

import (
	"encoding/json"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/canvascraft/canvascraft/pkg/cnode"
	"github.com/canvascraft/canvascraft/pkg/cutil"

	"github.com/wavetermdev/htmltoken"
)

// UnknownExprPlaceholder marks an attribute expression the parser cannot
// evaluate to a literal.  It is never silently replaced with a
// plausible-looking value.
const UnknownExprPlaceholder = "..."

const fragmentTag = "Fragment"

var (
	namedImportRe   = regexp.MustCompile(`^\s*import\s*\{([^}]*)\}\s*from\s*['"][^'"]+['"]\s*;?\s*$`)
	defaultImportRe = regexp.MustCompile(`^\s*import\s+([A-Za-z_][A-Za-z0-9_]*)\s+from\s*['"][^'"]+['"]\s*;?\s*$`)
)

// ParseToTree parses source text into a forest of component nodes.  Every
// node gets a freshly minted id -- identity continuity across a round trip
// is the document store's job, not the parser's.
func ParseToTree(source string) []cnode.ComponentNode {
	defer func() {
		cutil.PanicHandler("codeparse.ParseToTree", recover())
	}()
	aliasMap, body := extractImports(source)
	body = rewriteFragments(body)

	type elemFrame struct {
		node  *cnode.ComponentNode
		texts []string
	}
	root := &cnode.ComponentNode{Type: fragmentTag}
	stack := []*elemFrame{{node: root}}

	appendChild := func(child cnode.ComponentNode) {
		parent := stack[len(stack)-1]
		if parent.node != root {
			child.ParentId = parent.node.Id
		}
		parent.node.Children = append(parent.node.Children, child)
	}
	popFrame := func() {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		// a single direct text child becomes props.children
		if len(frame.node.Children) == 0 && len(frame.texts) == 1 {
			if frame.node.Props == nil {
				frame.node.Props = make(map[string]any)
			}
			frame.node.Props[cnode.ChildrenPropKey] = frame.texts[0]
		}
		appendChild(*frame.node)
	}

	iter := htmltoken.NewTokenizer(strings.NewReader(body))
outer:
	for {
		tokenType := iter.Next()
		token := iter.Token()
		switch tokenType {
		case htmltoken.StartTagToken:
			elem := tokenToNode(token, aliasMap)
			stack = append(stack, &elemFrame{node: elem})
		case htmltoken.EndTagToken:
			if len(stack) <= 1 {
				log.Printf("[codeparse] end tag %q without start tag\n", token.Data)
				return nil
			}
			curTag := stack[len(stack)-1].node.Type
			if curTag != resolveTag(token.Data, aliasMap) {
				log.Printf("[codeparse] end tag %q does not match start tag %q\n", token.Data, curTag)
				return nil
			}
			popFrame()
		case htmltoken.SelfClosingTagToken:
			elem := tokenToNode(token, aliasMap)
			appendChild(*elem)
		case htmltoken.TextToken:
			text := strings.TrimSpace(token.Data)
			if text == "" {
				continue
			}
			stack[len(stack)-1].texts = append(stack[len(stack)-1].texts, text)
		case htmltoken.CommentToken, htmltoken.DoctypeToken:
			continue
		case htmltoken.ErrorToken:
			if iter.Err() == io.EOF {
				break outer
			}
			log.Printf("[codeparse] tokenize error: %v\n", iter.Err())
			return nil
		}
	}
	// tolerate unclosed trailing tags (mid-keystroke edits)
	for len(stack) > 1 {
		popFrame()
	}

	roots := root.Children
	if len(roots) == 1 && roots[0].Type == fragmentTag {
		roots = roots[0].Children
		for i := range roots {
			roots[i].ParentId = ""
		}
	}
	return roots
}

// ParseAttributesToProps extracts the props of the first element in source
// (string literals map directly, expression-wrapped boolean/numeric
// literals map to typed values, a single direct text child becomes
// props.children).  Returns an empty map on malformed input.
func ParseAttributesToProps(source string) map[string]any {
	defer func() {
		cutil.PanicHandler("codeparse.ParseAttributesToProps", recover())
	}()
	nodes := ParseToTree(source)
	if len(nodes) == 0 || nodes[0].Props == nil {
		return map[string]any{}
	}
	return nodes[0].Props
}

func tokenToNode(token htmltoken.Token, aliasMap map[string]string) *cnode.ComponentNode {
	elem := &cnode.ComponentNode{
		Id:   cnode.NewNodeId(),
		Type: resolveTag(token.Data, aliasMap),
	}
	if len(token.Attr) > 0 {
		elem.Props = make(map[string]any)
	}
	for _, attr := range token.Attr {
		if attr.Key == "" {
			continue
		}
		elem.Props[attr.Key] = attrToPropValue(attr)
	}
	return elem
}

// attrToPropValue maps an attribute to a typed prop value.  A valueless
// attribute is a boolean true; a brace-wrapped value is parsed as a JSON
// literal; anything unevaluable becomes the placeholder sentinel.
func attrToPropValue(attr htmltoken.Attribute) any {
	if attr.IsJson {
		var val any
		if err := json.Unmarshal([]byte(attr.Val), &val); err != nil {
			return UnknownExprPlaceholder
		}
		switch v := val.(type) {
		case bool:
			return v
		case float64:
			return v
		case string:
			return v
		default:
			// objects, arrays, null: not evaluated, not fabricated
			return UnknownExprPlaceholder
		}
	}
	if attr.Val == "" {
		return true
	}
	return attr.Val
}

func resolveTag(tag string, aliasMap map[string]string) string {
	if canonical, ok := aliasMap[tag]; ok {
		return canonical
	}
	return tag
}

// extractImports collects an alias map (local name -> canonical component
// name) from import lines and returns the remaining source.
func extractImports(source string) (map[string]string, string) {
	aliasMap := make(map[string]string)
	var bodyLines []string
	for _, line := range strings.Split(source, "\n") {
		if m := namedImportRe.FindStringSubmatch(line); m != nil {
			for _, entry := range strings.Split(m[1], ",") {
				entry = strings.TrimSpace(entry)
				if entry == "" {
					continue
				}
				// "Imported as Local" binds Local back to Imported
				if imported, local, found := strings.Cut(entry, " as "); found {
					aliasMap[strings.TrimSpace(local)] = strings.TrimSpace(imported)
				} else {
					aliasMap[entry] = entry
				}
			}
			continue
		}
		if m := defaultImportRe.FindStringSubmatch(line); m != nil {
			aliasMap[m[1]] = m[1]
			continue
		}
		bodyLines = append(bodyLines, line)
	}
	return aliasMap, strings.Join(bodyLines, "\n")
}

// rewriteFragments maps JSX fragment shorthand onto a named tag the
// tokenizer can handle.
func rewriteFragments(body string) string {
	body = strings.ReplaceAll(body, "</>", "</"+fragmentTag+">")
	return strings.ReplaceAll(body, "<>", "<"+fragmentTag+">")
}
