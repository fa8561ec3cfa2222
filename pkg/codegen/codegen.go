// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package codegen compiles a component tree to source text.  Output is
// deterministic: the same tree value always produces byte-identical text
// (prop emission follows the schema-declared key order, then sorted
// unknown keys -- never raw map iteration).
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/canvascraft/canvascraft/pkg/cnode"
	"github.com/canvascraft/canvascraft/pkg/cschema"
	"github.com/canvascraft/canvascraft/pkg/cutil"
)

const indentStr = "  "

// GenerateFromTree renders the whole forest: import lines (one per built-in
// group used, one per custom component referenced) followed by the body.
// Multiple roots are wrapped in a fragment so the output is one well-formed
// unit.
func GenerateFromTree(tree []cnode.ComponentNode) string {
	imports, jsx := generate(tree)
	if imports == "" {
		return jsx
	}
	return imports + "\n\n" + jsx
}

// GenerateForNode renders a single node (no import lines), for the
// per-node source editor.
func GenerateForNode(node cnode.ComponentNode) string {
	used := make(map[string]bool)
	return generateNode(node, 0, used, used)
}

// GenerateComponentFile wraps the tree in a component-file template for
// project export.
func GenerateComponentFile(tree []cnode.ComponentNode, componentName string) string {
	imports, jsx := generate(tree)
	var buf strings.Builder
	if imports != "" {
		buf.WriteString(imports)
		buf.WriteString("\n\n")
	}
	fmt.Fprintf(&buf, "const %s = () => {\n", componentName)
	buf.WriteString("  return (\n")
	for _, line := range strings.Split(jsx, "\n") {
		buf.WriteString(indentStr + indentStr + line + "\n")
	}
	buf.WriteString("  );\n")
	buf.WriteString("};\n\n")
	fmt.Fprintf(&buf, "export default %s;\n", componentName)
	return buf.String()
}

func generate(tree []cnode.ComponentNode) (imports string, jsx string) {
	usedGroups := make(map[string]bool)
	usedCustom := make(map[string]bool)
	parts := make([]string, len(tree))
	for i, node := range tree {
		parts[i] = generateNode(node, 0, usedGroups, usedCustom)
	}
	jsx = strings.Join(parts, "\n")
	if len(tree) > 1 {
		jsx = "<>\n" + jsx + "\n</>"
	}
	var lines []string
	for _, group := range sortedKeys(usedGroups) {
		if line := cschema.ImportLineFor(group); line != "" {
			lines = append(lines, line)
		}
	}
	for _, name := range sortedKeys(usedCustom) {
		lines = append(lines, cschema.CustomImportLine(name))
	}
	return strings.Join(lines, "\n"), jsx
}

func generateNode(node cnode.ComponentNode, indentLevel int, usedGroups map[string]bool, usedCustom map[string]bool) string {
	indent := strings.Repeat(indentStr, indentLevel)

	// unknown types are references to user-defined components: emit a
	// self-closing reference tag, never expand their internals inline
	if !cschema.IsBuiltIn(node.Type) {
		name := cschema.FormatComponentName(node.Type)
		usedCustom[name] = true
		return indent + "<" + name + " />"
	}
	usedGroups[cschema.ImportGroupFor(node.Type)] = true

	propStr := buildPropString(node)
	openingTag := "<" + node.Type + ">"
	if propStr != "" {
		openingTag = "<" + node.Type + " " + propStr + ">"
	}
	closingTag := "</" + node.Type + ">"

	if len(node.Children) > 0 {
		parts := make([]string, len(node.Children))
		for i, child := range node.Children {
			parts[i] = generateNode(child, indentLevel+1, usedGroups, usedCustom)
		}
		return indent + openingTag + "\n" + strings.Join(parts, "\n") + "\n" + indent + closingTag
	}
	if text := node.TextContent(); text != "" {
		return indent + openingTag + "\n" + indent + indentStr + text + "\n" + indent + closingTag
	}
	return indent + openingTag + closingTag
}

// buildPropString splits props into styling tokens (merged into one
// className attribute, emitted first) and literal attributes.  Boolean true
// emits the bare name, false is omitted, numbers are brace-wrapped, strings
// are quoted; empty strings and nils are omitted entirely.
func buildPropString(node cnode.ComponentNode) string {
	var classTokens []string
	for _, key := range cschema.StylingKeysFor(node.Type) {
		if token, ok := node.Props[key].(string); ok && token != "" {
			classTokens = append(classTokens, token)
		}
	}

	var attrs []string
	emitted := map[string]bool{cnode.ChildrenPropKey: true}
	for _, key := range cschema.StylingKeysFor(node.Type) {
		emitted[key] = true
	}
	for _, key := range cschema.PropKeysFor(node.Type) {
		if emitted[key] {
			continue
		}
		emitted[key] = true
		if attr := formatAttr(key, node.Props[key]); attr != "" {
			attrs = append(attrs, attr)
		}
	}
	var extraKeys []string
	for key := range node.Props {
		if !emitted[key] {
			extraKeys = append(extraKeys, key)
		}
	}
	sort.Strings(extraKeys)
	for _, key := range extraKeys {
		if attr := formatAttr(key, node.Props[key]); attr != "" {
			attrs = append(attrs, attr)
		}
	}

	var parts []string
	if len(classTokens) > 0 {
		parts = append(parts, fmt.Sprintf("%s=%q", cnode.ClassNamePropKey, strings.Join(classTokens, " ")))
	}
	parts = append(parts, attrs...)
	return strings.Join(parts, " ")
}

func formatAttr(key string, val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return key
		}
		return ""
	case string:
		if v == "" {
			return ""
		}
		return fmt.Sprintf("%s=%q", key, v)
	default:
		if numStr, ok := cutil.NumToString(val); ok {
			return fmt.Sprintf("%s={%s}", key, numStr)
		}
		// non-literal prop values are not representable in the grammar
		return ""
	}
}

func sortedKeys(m map[string]bool) []string {
	rtn := make([]string, 0, len(m))
	for key := range m {
		rtn = append(rtn, key)
	}
	sort.Strings(rtn)
	return rtn
}
