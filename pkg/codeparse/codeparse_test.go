// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package codeparse

import (
	"testing"

	"github.com/canvascraft/canvascraft/pkg/cnode"
	"github.com/canvascraft/canvascraft/pkg/codegen"
)

func TestParseSimpleElement(t *testing.T) {
	tree := ParseToTree(`<P className="text-lg">hello world</P>`)
	if len(tree) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tree))
	}
	node := tree[0]
	if node.Type != "P" {
		t.Errorf("expected P, got %q", node.Type)
	}
	if node.Id == "" {
		t.Errorf("parsed node should get a fresh id")
	}
	if node.Props["className"] != "text-lg" {
		t.Errorf("className not parsed: %v", node.Props)
	}
	if node.Props[cnode.ChildrenPropKey] != "hello world" {
		t.Errorf("text content not captured: %v", node.Props)
	}
}

func TestParseAttrTypes(t *testing.T) {
	tree := ParseToTree(`<Textarea rows={4} readOnly placeholder="hi" count={notaliteral}></Textarea>`)
	if len(tree) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tree))
	}
	props := tree[0].Props
	if props["rows"] != float64(4) {
		t.Errorf("brace-wrapped number should parse as float64, got %T %v", props["rows"], props["rows"])
	}
	if props["readOnly"] != true {
		t.Errorf("valueless attr should parse as true, got %v", props["readOnly"])
	}
	if props["placeholder"] != "hi" {
		t.Errorf("string attr: %v", props["placeholder"])
	}
	if props["count"] != UnknownExprPlaceholder {
		t.Errorf("unevaluable expression should become placeholder, got %v", props["count"])
	}
}

func TestParseNestedSetsParentIds(t *testing.T) {
	tree := ParseToTree("<Div>\n  <P>inner</P>\n  <Button>go</Button>\n</Div>")
	if len(tree) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tree))
	}
	root := tree[0]
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	for _, child := range root.Children {
		if child.ParentId != root.Id {
			t.Errorf("child parentid %q does not match root %q", child.ParentId, root.Id)
		}
	}
	if root.ParentId != "" {
		t.Errorf("root should have no parentid")
	}
}

func TestParseFragmentMultiRoot(t *testing.T) {
	tree := ParseToTree("<>\n<P>one</P>\n<P>two</P>\n</>")
	if len(tree) != 2 {
		t.Fatalf("fragment should unwrap to 2 roots, got %d", len(tree))
	}
	for _, node := range tree {
		if node.ParentId != "" {
			t.Errorf("unwrapped root should have no parentid")
		}
	}
}

func TestParseImportAliases(t *testing.T) {
	source := `import { Button } from '@/components/ui/button';
import MyWidget from "./components/MyWidget";

<Div>
  <Button>go</Button>
  <MyWidget />
</Div>`
	tree := ParseToTree(source)
	if len(tree) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tree))
	}
	types := []string{tree[0].Children[0].Type, tree[0].Children[1].Type}
	if types[0] != "Button" || types[1] != "MyWidget" {
		t.Errorf("unexpected child types %v", types)
	}
}

func TestParseMalformedReturnsEmpty(t *testing.T) {
	if tree := ParseToTree("</P>"); len(tree) != 0 {
		t.Errorf("stray end tag should parse empty, got %d nodes", len(tree))
	}
	if tree := ParseToTree("<Div><P>x</Div>"); len(tree) != 0 {
		t.Errorf("mismatched close should parse empty, got %d nodes", len(tree))
	}
	if tree := ParseToTree(""); len(tree) != 0 {
		t.Errorf("empty input should parse empty")
	}
}

func TestParseUnclosedTrailingTag(t *testing.T) {
	// mid-keystroke input: trailing open tags are tolerated
	tree := ParseToTree("<Div>\n  <P>partial")
	if len(tree) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tree))
	}
	if tree[0].Type != "Div" || len(tree[0].Children) != 1 {
		t.Fatalf("unexpected shape: %+v", tree[0])
	}
	if tree[0].Children[0].Props[cnode.ChildrenPropKey] != "partial" {
		t.Errorf("text before EOF should be kept")
	}
}

func TestParseFreshIdsEachTime(t *testing.T) {
	source := `<P>hello</P>`
	first := ParseToTree(source)
	second := ParseToTree(source)
	if first[0].Id == second[0].Id {
		t.Errorf("each parse should mint fresh ids")
	}
}

func TestParseAttributesToProps(t *testing.T) {
	props := ParseAttributesToProps(`<Button variant="ghost" disabled>Click</Button>`)
	if props["variant"] != "ghost" || props["disabled"] != true {
		t.Errorf("unexpected props: %v", props)
	}
	if props[cnode.ChildrenPropKey] != "Click" {
		t.Errorf("text child should land in props.children: %v", props)
	}
	if len(ParseAttributesToProps("not source")) != 0 {
		t.Errorf("malformed input should return empty map")
	}
}

// generate -> parse -> generate must be a fixpoint
func TestRoundTrip(t *testing.T) {
	trees := map[string][]cnode.ComponentNode{
		"simple": {
			{Id: "p-1", Type: "P", Props: map[string]any{"children": "hello", "fontSize": "text-xl"}},
		},
		"composite": {
			cnode.MakeComponentNode("Card", ""),
			cnode.MakeComponentNode("Accordion", ""),
		},
		"tabs": {
			cnode.MakeComponentNode("Tabs", ""),
		},
		"custom+attrs": {
			{Id: "d-1", Type: "Div", Props: map[string]any{"className": "p-2"}, Children: []cnode.ComponentNode{
				{Id: "c-1", Type: "MyWidget", ParentId: "d-1"},
				{Id: "t-1", Type: "Textarea", Props: map[string]any{"rows": float64(3), "readOnly": true}, ParentId: "d-1"},
			}},
		},
	}
	for name, tree := range trees {
		source := codegen.GenerateFromTree(tree)
		parsed := ParseToTree(source)
		if len(parsed) == 0 {
			t.Fatalf("%s: generated source did not parse:\n%s", name, source)
		}
		regen := codegen.GenerateFromTree(parsed)
		if regen != source {
			t.Errorf("%s: round trip not stable:\n--- first\n%s\n--- second\n%s", name, source, regen)
		}
	}
}
