// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/canvascraft/canvascraft/pkg/cnode"
)

// op names accepted by /canvas/op
const (
	Op_AddComponent         = "addcomponent"
	Op_AddComponentToParent = "addcomponenttoparent"
	Op_MoveComponent        = "movecomponent"
	Op_SetPosition          = "setposition"
	Op_UpdateProps          = "updateprops"
	Op_RemoveComponent      = "removecomponent"
	Op_SelectComponent      = "selectcomponent"
	Op_CopyComponent        = "copycomponent"
	Op_PasteComponent       = "pastecomponent"
	Op_DuplicateComponent   = "duplicatecomponent"
	Op_Undo                 = "undo"
	Op_Redo                 = "redo"
	Op_StartNesting         = "startnesting"
	Op_CancelNesting        = "cancelnesting"
	Op_PerformNesting       = "performnesting"
	Op_AddAccordionItem     = "addaccordionitem"
	Op_AddTabItem           = "addtabitem"
	Op_SetTree              = "settree"
	Op_SourceEdit           = "sourceedit"
)

type addComponentOp struct {
	Type     string `json:"type"`
	ParentId string `json:"parentid"`
}

type moveComponentOp struct {
	Id string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type updatePropsOp struct {
	Id    string         `json:"id"`
	Props map[string]any `json:"props"`
}

type idOp struct {
	Id string `json:"id"`
}

type setTreeOp struct {
	DocId string                `json:"docid"`
	Tree  []cnode.ComponentNode `json:"tree"`
}

type sourceEditOp struct {
	Source string `json:"source"`
}

func doMapStructure(out any, input any) error {
	dconfig := &mapstructure.DecoderConfig{
		Result:  out,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(dconfig)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// dispatchOp routes a decoded /canvas/op call to the canvas store.  The
// "op" key selects the operation; remaining keys are the payload.
func (srv *Srv) dispatchOp(opCall map[string]any) (any, error) {
	opName, _ := opCall["op"].(string)
	switch opName {
	case Op_AddComponent:
		var op addComponentOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		if op.Type == "" {
			return nil, fmt.Errorf("type is required")
		}
		newId := srv.Canvas.AddComponent(op.Type, op.ParentId)
		return map[string]any{"id": newId}, nil
	case Op_AddComponentToParent:
		var op addComponentOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		newId, ok := srv.Canvas.AddComponentToParent(op.Type, op.ParentId)
		if !ok {
			return nil, fmt.Errorf("cannot nest %q under %q", op.Type, op.ParentId)
		}
		return map[string]any{"id": newId}, nil
	case Op_MoveComponent:
		var op moveComponentOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		srv.Canvas.MoveComponent(op.Id, op.X, op.Y)
		return nil, nil
	case Op_SetPosition:
		var op moveComponentOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		srv.Canvas.SetComponentPosition(op.Id, op.X, op.Y)
		return nil, nil
	case Op_UpdateProps:
		var op updatePropsOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		changed := srv.Canvas.UpdateProps(op.Id, op.Props)
		return map[string]any{"changed": changed}, nil
	case Op_RemoveComponent:
		var op idOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		return map[string]any{"removed": srv.Canvas.RemoveComponent(op.Id)}, nil
	case Op_SelectComponent:
		var op idOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		srv.Canvas.SelectComponent(op.Id)
		return map[string]any{"selectedid": srv.Canvas.SelectedId()}, nil
	case Op_CopyComponent:
		var op idOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		if !srv.Canvas.CopyComponent(op.Id) {
			return nil, fmt.Errorf("component %s not found", op.Id)
		}
		return nil, nil
	case Op_PasteComponent:
		newId, ok := srv.Canvas.PasteComponent()
		if !ok {
			return nil, fmt.Errorf("clipboard is empty")
		}
		return map[string]any{"id": newId}, nil
	case Op_DuplicateComponent:
		var op idOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		newId, ok := srv.Canvas.DuplicateComponent(op.Id)
		if !ok {
			return nil, fmt.Errorf("component %s not found", op.Id)
		}
		return map[string]any{"id": newId}, nil
	case Op_Undo:
		return map[string]any{"applied": srv.Canvas.Undo()}, nil
	case Op_Redo:
		return map[string]any{"applied": srv.Canvas.Redo()}, nil
	case Op_StartNesting:
		var op idOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		if !srv.Canvas.StartNesting(op.Id) {
			return nil, fmt.Errorf("cannot nest into %q", op.Id)
		}
		return nil, nil
	case Op_CancelNesting:
		srv.Canvas.CancelNesting()
		return nil, nil
	case Op_PerformNesting:
		var op idOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		if !srv.Canvas.PerformNesting(op.Id) {
			return nil, fmt.Errorf("cannot nest component %q", op.Id)
		}
		return nil, nil
	case Op_AddAccordionItem:
		var op idOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		srv.Canvas.AddAccordionItem(op.Id)
		return nil, nil
	case Op_AddTabItem:
		var op idOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		srv.Canvas.AddTabItem(op.Id)
		return nil, nil
	case Op_SetTree:
		var op setTreeOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		srv.Canvas.SetTree(op.DocId, op.Tree)
		if op.DocId != "" && srv.Files != nil {
			srv.Files.UpdateFileCanvasTree(op.DocId, op.Tree)
		}
		return nil, nil
	case Op_SourceEdit:
		var op sourceEditOp
		if err := doMapStructure(&op, opCall); err != nil {
			return nil, err
		}
		return map[string]any{"applied": srv.Canvas.ApplySourceEdit(op.Source)}, nil
	default:
		return nil, fmt.Errorf("unknown op %q", opName)
	}
}
