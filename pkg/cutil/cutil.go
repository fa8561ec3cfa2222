// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package cutil has small helpers shared across the canvascraft packages.
package cutil

import (
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
)

// PanicHandler handles panic recovery and logging.
// It can be called directly with recover() without checking for nil first.
// Example usage:
//
//	defer func() {
//	    cutil.PanicHandler("operation name", recover())
//	}()
func PanicHandler(debugStr string, recoverVal any) error {
	if recoverVal == nil {
		return nil
	}
	log.Printf("[panic] in %s: %v\n", debugStr, recoverVal)
	debug.PrintStack()
	if err, ok := recoverVal.(error); ok {
		return fmt.Errorf("panic in %s: %w", debugStr, err)
	}
	return fmt.Errorf("panic in %s: %v", debugStr, recoverVal)
}

// PropValEqual is a shallow equal for prop values (string, bool, nil, and
// any numeric type).  Numeric values are up-converted to float64 before
// comparing so an int 4 equals a parsed float64 4.
func PropValEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if isNumericType(a) && isNumericType(b) {
		valA, okA := ToFloat64(a)
		valB, okB := ToFloat64(b)
		return okA && okB && valA == valB
	}
	return a == b
}

func isNumericType(val any) bool {
	switch val.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

func ToFloat64(val any) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func ToInt(val any) (int, bool) {
	f, ok := ToFloat64(val)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// NumToString formats a numeric prop value without a trailing ".0" for
// whole numbers (4.0 renders as "4").
func NumToString(val any) (string, bool) {
	f, ok := ToFloat64(val)
	if !ok {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}
