// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package cmd holds the canvascraft CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/canvascraft/canvascraft/pkg/cbase"
)

var rootCmd = &cobra.Command{
	Use:          "canvascraft",
	Short:        "visual UI builder with two-way code sync",
	Long:         `canvascraft serves a visual canvas of UI components kept in sync with generated source code, both directions.`,
	Version:      cbase.CraftVersion,
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
