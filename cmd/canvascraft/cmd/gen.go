// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/canvascraft/canvascraft/pkg/cnode"
	"github.com/canvascraft/canvascraft/pkg/codegen"
	"github.com/canvascraft/canvascraft/pkg/codeparse"
)

var genCmd = &cobra.Command{
	Use:   "gen [tree.json]",
	Short: "generate source code from a component tree (stdin if no file)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  genRun,
}

var genComponentName string

var parseCmd = &cobra.Command{
	Use:   "parse [source-file]",
	Short: "parse source code into a component tree (stdin if no file)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  parseRun,
}

func init() {
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(parseCmd)
	genCmd.Flags().StringVar(&genComponentName, "component", "", "wrap output in a component-file template with this name")
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func genRun(cmd *cobra.Command, args []string) error {
	barr, err := readInput(args)
	if err != nil {
		return err
	}
	var tree []cnode.ComponentNode
	err = json.Unmarshal(barr, &tree)
	if err != nil {
		return fmt.Errorf("parsing tree json: %w", err)
	}
	if genComponentName != "" {
		fmt.Print(codegen.GenerateComponentFile(tree, genComponentName))
		return nil
	}
	fmt.Println(codegen.GenerateFromTree(tree))
	return nil
}

func parseRun(cmd *cobra.Command, args []string) error {
	barr, err := readInput(args)
	if err != nil {
		return err
	}
	tree := codeparse.ParseToTree(string(barr))
	if len(tree) == 0 && len(barr) > 0 {
		return fmt.Errorf("could not parse input into a component tree")
	}
	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
