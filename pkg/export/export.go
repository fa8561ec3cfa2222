// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package export packages a workspace into a zip archive of generated
// source files, mirroring the workspace folder layout.
package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/canvascraft/canvascraft/pkg/codegen"
	"github.com/canvascraft/canvascraft/pkg/cschema"
	"github.com/canvascraft/canvascraft/pkg/filetree"
)

// ExportWorkspace writes the workspace as a zip archive.  Files carrying a
// canvas tree are rendered through the generator (component-file template,
// component name derived from the file name); files with literal content
// are written as-is; empty files are skipped.
func ExportWorkspace(w io.Writer, root filetree.FileNode) error {
	zw := zip.NewWriter(w)
	err := writeNode(zw, "", root)
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ExportWorkspaceToFile is ExportWorkspace against a file path (written
// atomically via temp file + rename).
func ExportWorkspaceToFile(fileName string, root filetree.FileNode) error {
	tmpName := fileName + ".tmp"
	fd, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("cannot create export file %q: %w", tmpName, err)
	}
	err = ExportWorkspace(fd, root)
	if closeErr := fd.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, fileName)
}

func writeNode(zw *zip.Writer, dir string, node filetree.FileNode) error {
	if node.IsFolder() {
		subDir := dir
		// the root folder itself is not a zip entry
		if node.Id != filetree.RootId {
			subDir = path.Join(dir, node.Name)
			_, err := zw.Create(subDir + "/")
			if err != nil {
				return fmt.Errorf("creating zip dir %q: %w", subDir, err)
			}
		}
		for _, child := range node.Children {
			err := writeNode(zw, subDir, child)
			if err != nil {
				return err
			}
		}
		return nil
	}
	content := renderFile(node)
	if content == "" {
		return nil
	}
	entryName := path.Join(dir, node.Name)
	fw, err := zw.Create(entryName)
	if err != nil {
		return fmt.Errorf("creating zip entry %q: %w", entryName, err)
	}
	_, err = io.WriteString(fw, content)
	if err != nil {
		return fmt.Errorf("writing zip entry %q: %w", entryName, err)
	}
	return nil
}

func renderFile(node filetree.FileNode) string {
	if len(node.CanvasTree) > 0 {
		return codegen.GenerateComponentFile(node.CanvasTree, componentNameFor(node.Name))
	}
	return node.Content
}

func componentNameFor(fileName string) string {
	base := strings.TrimSuffix(fileName, path.Ext(fileName))
	if base == "index" {
		return "Page"
	}
	return cschema.FormatComponentName(base)
}
