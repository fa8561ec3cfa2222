// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package cnode

// composite kinds (accordions, cards, tabs) have structural requirements
// that a single flat node cannot satisfy, so the factory builds the whole
// valid subtree in one call -- a half-built composite is never visible to
// the rest of the system.

// MakeComponentNode builds the node (or subtree) for a freshly added
// component.  Simple kinds get props.children = type as placeholder label
// text.  parentId may be empty for a top-level node.
func MakeComponentNode(ctype string, parentId string) ComponentNode {
	node := ComponentNode{
		Id:       NewNodeId(),
		Type:     ctype,
		Props:    map[string]any{ChildrenPropKey: ctype},
		ParentId: parentId,
	}
	switch ctype {
	case "Accordion":
		node.Children = []ComponentNode{
			MakeAccordionItem(node.Id, "Accordion Heading", "Accordion Content"),
		}
	case "Card":
		node.Props = map[string]any{ClassNamePropKey: "w-full max-w-sm"}
		node.Children = makeCardChildren(node.Id)
	case "Tabs":
		node.Props = map[string]any{"defaultValue": "tab1"}
		node.Children = makeTabsChildren(node.Id)
	}
	return node
}

func makeTextNode(parentId string, text string) ComponentNode {
	return ComponentNode{
		Id:       NewNodeId(),
		Type:     "P",
		Props:    map[string]any{ChildrenPropKey: text},
		ParentId: parentId,
	}
}

// MakeAccordionItem builds one item with a trigger (holding a text node)
// and a content panel (holding a text node).  Used both by the factory and
// by the store's add-another-item operation.
func MakeAccordionItem(accordionId string, heading string, content string) ComponentNode {
	item := ComponentNode{
		Id:       NewNodeId(),
		Type:     "AccordionItem",
		Props:    map[string]any{"value": "item-" + ShortToken()},
		ParentId: accordionId,
	}
	trigger := ComponentNode{
		Id:       NewNodeId(),
		Type:     "AccordionTrigger",
		Props:    map[string]any{},
		ParentId: item.Id,
	}
	trigger.Children = []ComponentNode{makeTextNode(trigger.Id, heading)}
	panel := ComponentNode{
		Id:       NewNodeId(),
		Type:     "AccordionContent",
		Props:    map[string]any{},
		ParentId: item.Id,
	}
	panel.Children = []ComponentNode{makeTextNode(panel.Id, content)}
	item.Children = []ComponentNode{trigger, panel}
	return item
}

func makeCardChildren(cardId string) []ComponentNode {
	header := ComponentNode{
		Id:       NewNodeId(),
		Type:     "CardHeader",
		Props:    map[string]any{},
		ParentId: cardId,
	}
	header.Children = []ComponentNode{
		{
			Id:       NewNodeId(),
			Type:     "CardTitle",
			Props:    map[string]any{ChildrenPropKey: "Card Title"},
			ParentId: header.Id,
		},
		{
			Id:       NewNodeId(),
			Type:     "CardDescription",
			Props:    map[string]any{ChildrenPropKey: "Card Description"},
			ParentId: header.Id,
		},
	}
	content := ComponentNode{
		Id:       NewNodeId(),
		Type:     "CardContent",
		Props:    map[string]any{},
		ParentId: cardId,
	}
	content.Children = []ComponentNode{makeTextNode(content.Id, "Card Content")}
	footer := ComponentNode{
		Id:       NewNodeId(),
		Type:     "CardFooter",
		Props:    map[string]any{},
		ParentId: cardId,
	}
	footer.Children = []ComponentNode{makeTextNode(footer.Id, "Card Footer")}
	return []ComponentNode{header, content, footer}
}

// MakeTabTrigger and MakeTabContent are paired through a shared value token
// (not an id reference) so the pairing survives serialization/reparsing.
func MakeTabTrigger(parentId string, value string, label string) ComponentNode {
	return ComponentNode{
		Id:       NewNodeId(),
		Type:     "TabsTrigger",
		Props:    map[string]any{"value": value, ChildrenPropKey: label},
		ParentId: parentId,
	}
}

func MakeTabContent(tabsId string, value string, text string) ComponentNode {
	panel := ComponentNode{
		Id:       NewNodeId(),
		Type:     "TabsContent",
		Props:    map[string]any{"value": value},
		ParentId: tabsId,
	}
	panel.Children = []ComponentNode{makeTextNode(panel.Id, text)}
	return panel
}

func makeTabsChildren(tabsId string) []ComponentNode {
	list := ComponentNode{
		Id:       NewNodeId(),
		Type:     "TabsList",
		Props:    map[string]any{ClassNamePropKey: "flex flex-wrap"},
		ParentId: tabsId,
	}
	list.Children = []ComponentNode{
		MakeTabTrigger(list.Id, "tab1", "Tab 1"),
		MakeTabTrigger(list.Id, "tab2", "Tab 2"),
	}
	return []ComponentNode{
		list,
		MakeTabContent(tabsId, "tab1", "Content for Tab 1"),
		MakeTabContent(tabsId, "tab2", "Content for Tab 2"),
	}
}
