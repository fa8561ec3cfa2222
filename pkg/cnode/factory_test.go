// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package cnode

import (
	"strings"
	"testing"
)

func TestMakeComponentNodeSimple(t *testing.T) {
	node := MakeComponentNode("Button", "parent-1")
	if node.Id == "" {
		t.Fatalf("node has no id")
	}
	if node.Type != "Button" {
		t.Errorf("wrong type %q", node.Type)
	}
	if node.ParentId != "parent-1" {
		t.Errorf("wrong parentid %q", node.ParentId)
	}
	if node.Props[ChildrenPropKey] != "Button" {
		t.Errorf("simple node should get placeholder text, got %v", node.Props[ChildrenPropKey])
	}
	if len(node.Children) != 0 {
		t.Errorf("simple node should have no children")
	}
}

func TestMakeComponentNodeAccordion(t *testing.T) {
	node := MakeComponentNode("Accordion", "")
	if len(node.Children) != 1 {
		t.Fatalf("accordion should start with 1 item, got %d", len(node.Children))
	}
	item := node.Children[0]
	if item.Type != "AccordionItem" {
		t.Fatalf("expected AccordionItem, got %q", item.Type)
	}
	if item.ParentId != node.Id {
		t.Errorf("item parentid not set")
	}
	value := item.Props["value"].(string)
	if !strings.HasPrefix(value, "item-") {
		t.Errorf("item value should have item- prefix, got %q", value)
	}
	if len(item.Children) != 2 {
		t.Fatalf("item should have trigger + content, got %d children", len(item.Children))
	}
	trigger, content := item.Children[0], item.Children[1]
	if trigger.Type != "AccordionTrigger" || content.Type != "AccordionContent" {
		t.Fatalf("wrong item children: %q, %q", trigger.Type, content.Type)
	}
	if len(trigger.Children) != 1 || trigger.Children[0].Type != "P" {
		t.Errorf("trigger should hold one text node")
	}
	if len(content.Children) != 1 || content.Children[0].Type != "P" {
		t.Errorf("content should hold one text node")
	}
}

func TestMakeComponentNodeCard(t *testing.T) {
	node := MakeComponentNode("Card", "")
	if len(node.Children) != 3 {
		t.Fatalf("card should have header/content/footer, got %d", len(node.Children))
	}
	types := []string{node.Children[0].Type, node.Children[1].Type, node.Children[2].Type}
	want := []string{"CardHeader", "CardContent", "CardFooter"}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("child %d: expected %q, got %q", i, want[i], types[i])
		}
	}
	header := node.Children[0]
	if len(header.Children) != 2 || header.Children[0].Type != "CardTitle" || header.Children[1].Type != "CardDescription" {
		t.Errorf("header should hold title + description")
	}
}

func TestMakeComponentNodeTabs(t *testing.T) {
	node := MakeComponentNode("Tabs", "")
	if node.Props["defaultValue"] != "tab1" {
		t.Errorf("tabs defaultValue should be tab1")
	}
	if len(node.Children) != 3 {
		t.Fatalf("tabs should have list + 2 panels, got %d", len(node.Children))
	}
	list := node.Children[0]
	if list.Type != "TabsList" || len(list.Children) != 2 {
		t.Fatalf("TabsList should hold 2 triggers")
	}
	// every trigger pairs with a content panel through the value token
	for _, trigger := range list.Children {
		value := trigger.Props["value"]
		found := false
		for _, panel := range node.Children[1:] {
			if panel.Type == "TabsContent" && panel.Props["value"] == value {
				found = true
			}
		}
		if !found {
			t.Errorf("trigger value %v has no matching content panel", value)
		}
	}
}

func TestMakeAccordionItemUniqueValues(t *testing.T) {
	item1 := MakeAccordionItem("acc-1", "h", "c")
	item2 := MakeAccordionItem("acc-1", "h", "c")
	if item1.Props["value"] == item2.Props["value"] {
		t.Errorf("two items should get distinct value tokens")
	}
	if item1.Id == item2.Id {
		t.Errorf("two items should get distinct ids")
	}
}
