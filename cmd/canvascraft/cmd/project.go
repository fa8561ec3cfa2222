// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/canvascraft/canvascraft/pkg/export"
	"github.com/canvascraft/canvascraft/pkg/filetree"
	"github.com/canvascraft/canvascraft/pkg/projstore"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "manage saved projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "list saved projects",
	RunE:  projectListRun,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete [projectid]",
	Short: "delete a saved project",
	Args:  cobra.ExactArgs(1),
	RunE:  projectDeleteRun,
}

var exportCmd = &cobra.Command{
	Use:   "export [workspace.json]",
	Short: "export a workspace (or saved project) to a zip archive",
	Args:  cobra.MaximumNArgs(1),
	RunE:  exportRun,
}

var exportOutput string
var exportProjectId string

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "project.zip", "output zip file")
	exportCmd.Flags().StringVar(&exportProjectId, "project", "", "export a saved project by id instead of a workspace file")
}

func storeCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func projectListRun(cmd *cobra.Command, args []string) error {
	err := projstore.EnsureDB()
	if err != nil {
		return err
	}
	defer projstore.CloseDB()
	ctx, cancel := storeCtx()
	defer cancel()
	projects, err := projstore.GetAllProjects(ctx)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("no saved projects")
		return nil
	}
	for _, proj := range projects {
		modified := time.UnixMilli(proj.ModifiedTs).Format("2006-01-02 15:04:05")
		fmt.Printf("%s  %-30s  %s\n", proj.ProjectId, proj.Name, modified)
	}
	return nil
}

func projectDeleteRun(cmd *cobra.Command, args []string) error {
	err := projstore.EnsureDB()
	if err != nil {
		return err
	}
	defer projstore.CloseDB()
	ctx, cancel := storeCtx()
	defer cancel()
	err = projstore.DeleteProject(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("deleted project %s\n", args[0])
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	var root filetree.FileNode
	if exportProjectId != "" {
		err := projstore.EnsureDB()
		if err != nil {
			return err
		}
		defer projstore.CloseDB()
		ctx, cancel := storeCtx()
		defer cancel()
		proj, err := projstore.GetProject(ctx, exportProjectId)
		if err != nil {
			return err
		}
		if proj == nil {
			return fmt.Errorf("project %s not found", exportProjectId)
		}
		root = proj.Workspace
	} else {
		if len(args) == 0 {
			return fmt.Errorf("workspace file or --project is required")
		}
		barr, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		err = json.Unmarshal(barr, &root)
		if err != nil {
			return fmt.Errorf("parsing workspace json: %w", err)
		}
	}
	err := export.ExportWorkspaceToFile(exportOutput, root)
	if err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", exportOutput)
	return nil
}
