// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package cschema is the static component registry: which type names are
// built in, which prop keys are styling tokens vs literals, which import
// group a type belongs to, and the import line each group needs.  This is
// configuration data, not logic -- the generator, parser, and store all
// consult it but never modify it.
package cschema

import (
	"fmt"
	"sort"
	"strings"
)

// styling keys common to every container-ish built-in.  their values are
// single styling-class tokens; the generator merges them into className.
var commonStylingKeys = []string{
	"display", "flexDirection", "justifyContent", "alignItems", "gap",
	"paddingTop", "paddingRight", "paddingBottom", "paddingLeft",
	"paddingX", "paddingY",
	"marginTop", "marginRight", "marginBottom", "marginLeft",
	"marginX", "marginY",
	"bgColor", "width", "height",
	"borderRadius", "borderWidth", "borderColor", "shadow",
}

var textStylingKeys = []string{
	"fontSize", "fontWeight", "textAlign", "textColor",
}

type typeSchema struct {
	// literal prop keys in display/emission order (children excluded from
	// attribute emission, className handled via the styling merge)
	PropKeys    []string
	StylingKeys []string
	Void        bool
}

func makeSchema(propKeys []string, textStyling bool, void bool) typeSchema {
	styling := []string{"className"}
	if textStyling {
		styling = append(styling, textStylingKeys...)
	}
	styling = append(styling, commonStylingKeys...)
	return typeSchema{PropKeys: propKeys, StylingKeys: styling, Void: void}
}

var typeSchemas = map[string]typeSchema{
	"Button": makeSchema([]string{
		"children", "value", "disabled", "isLoading", "loadingText",
		"iconLeft", "iconRight", "href", "target", "variant", "size", "type",
	}, false, false),
	"Div":     makeSchema([]string{"children"}, false, false),
	"FlexBox": makeSchema([]string{"direction", "gap", "justifyContent", "alignItems", "flexWrap", "alignContent"}, false, false),
	"P":       makeSchema([]string{"children"}, true, false),

	"Card":            makeSchema(nil, false, false),
	"CardHeader":      makeSchema(nil, false, false),
	"CardTitle":       makeSchema([]string{"children"}, true, false),
	"CardDescription": makeSchema([]string{"children"}, true, false),
	"CardAction":      makeSchema(nil, false, false),
	"CardContent":     makeSchema(nil, false, false),
	"CardFooter":      makeSchema(nil, false, false),

	"Label": makeSchema([]string{"children", "htmlFor"}, true, false),

	"Accordion":        makeSchema([]string{"type", "collapsible", "defaultValue"}, false, false),
	"AccordionItem":    makeSchema([]string{"value"}, false, false),
	"AccordionTrigger": makeSchema([]string{"children"}, true, false),
	"AccordionContent": makeSchema([]string{"children"}, true, false),

	"Tabs":        makeSchema([]string{"defaultValue"}, false, false),
	"TabsList":    makeSchema(nil, false, false),
	"TabsTrigger": makeSchema([]string{"value", "children"}, true, false),
	"TabsContent": makeSchema([]string{"value"}, false, false),

	"Alert":    makeSchema([]string{"title", "description", "variant", "icon", "showCloseButton"}, false, false),
	"Input":    makeSchema([]string{"placeholder", "type"}, false, true),
	"Textarea": makeSchema([]string{"label", "placeholder", "helperText", "disabled", "readOnly", "rows"}, false, false),
	"Checkbox": makeSchema([]string{"value", "checked"}, false, true),
}

// import lines keyed by group name; several sub-types share one group.
var importLines = map[string]string{
	"Button":        `import { Button } from '@/components/ui/button';`,
	"Div":           `import Div from '@/components/ui/div';`,
	"FlexBox":       `import FlexBox from '@/components/ui/flexbox';`,
	"P":             `import { P } from '@/components/ui/p';`,
	"Card":          `import { Card, CardHeader, CardTitle, CardDescription, CardContent, CardFooter, CardAction } from '@/components/ui/card';`,
	"Accordion":     `import { Accordion, AccordionTrigger, AccordionContent } from '@/components/ui/accordion';`,
	"AccordionItem": `import AccordionItem from '@/components/AccordionItem';`,
	"Tabs":          `import { Tabs, TabsList, TabsTrigger, TabsContent } from '@/components/ui/tabs';`,
	"Alert":         `import { Alert } from '@/components/ui/alert';`,
	"Input":         `import { Input } from '@/components/ui/input';`,
	"Textarea":      `import { Textarea } from '@/components/ui/textarea';`,
	"Checkbox":      `import { Checkbox } from '@/components/ui/checkbox';`,
	"Label":         `import { Label } from '@/components/ui/label';`,
}

var componentGroups = map[string]string{
	"CardHeader":       "Card",
	"CardTitle":        "Card",
	"CardDescription":  "Card",
	"CardContent":      "Card",
	"CardFooter":       "Card",
	"CardAction":       "Card",
	"AccordionTrigger": "Accordion",
	"AccordionContent": "Accordion",
	"TabsList":         "Tabs",
	"TabsTrigger":      "Tabs",
	"TabsContent":      "Tabs",
}

func IsBuiltIn(ctype string) bool {
	_, ok := typeSchemas[ctype]
	return ok
}

// IsVoid reports whether ctype must never carry nested children.
func IsVoid(ctype string) bool {
	return typeSchemas[ctype].Void
}

// PropKeysFor returns the schema-declared literal prop keys for ctype in
// emission order (nil for unknown types).
func PropKeysFor(ctype string) []string {
	return typeSchemas[ctype].PropKeys
}

// StylingKeysFor returns the styling-token prop keys for ctype, className
// first, in emission order.
func StylingKeysFor(ctype string) []string {
	return typeSchemas[ctype].StylingKeys
}

func IsStylingKey(ctype string, key string) bool {
	for _, sk := range typeSchemas[ctype].StylingKeys {
		if sk == key {
			return true
		}
	}
	return false
}

// ImportGroupFor returns the import group a built-in type belongs to
// (several sub-types share one import line).
func ImportGroupFor(ctype string) string {
	if group, ok := componentGroups[ctype]; ok {
		return group
	}
	return ctype
}

func ImportLineFor(group string) string {
	return importLines[group]
}

// CustomImportLine is the import emitted for a reference to a user-defined
// composite component.
func CustomImportLine(name string) string {
	return fmt.Sprintf("import %s from \"./components/%s\";", name, name)
}

// FormatComponentName normalizes a user-defined component reference:
// capitalized, file extension stripped.
func FormatComponentName(name string) string {
	name = strings.TrimSuffix(name, ".tsx")
	if name == "" {
		return "UnknownComponent"
	}
	return strings.ToUpper(name[0:1]) + name[1:]
}

// BuiltInTypes returns all registered type names, sorted.
func BuiltInTypes() []string {
	rtn := make([]string, 0, len(typeSchemas))
	for ctype := range typeSchemas {
		rtn = append(rtn, ctype)
	}
	sort.Strings(rtn)
	return rtn
}
