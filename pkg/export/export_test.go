// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/canvascraft/canvascraft/pkg/cnode"
	"github.com/canvascraft/canvascraft/pkg/filetree"
)

func readZip(t *testing.T, barr []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(barr), int64(len(barr)))
	if err != nil {
		t.Fatalf("reading zip: %v", err)
	}
	rtn := map[string]string{}
	for _, zf := range zr.File {
		fd, err := zf.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", zf.Name, err)
		}
		data, err := io.ReadAll(fd)
		fd.Close()
		if err != nil {
			t.Fatalf("reading %s: %v", zf.Name, err)
		}
		rtn[zf.Name] = string(data)
	}
	return rtn
}

func TestExportWorkspace(t *testing.T) {
	root := filetree.FileNode{
		Id:   filetree.RootId,
		Name: "project-root",
		Type: filetree.NodeTypeFolder,
		Children: []filetree.FileNode{
			{
				Id: "f-1", Name: "index.tsx", Type: filetree.NodeTypeFile,
				CanvasTree: []cnode.ComponentNode{
					{Id: "p-1", Type: "P", Props: map[string]any{"children": "hello"}},
				},
			},
			{
				Id: "d-1", Name: "components", Type: filetree.NodeTypeFolder,
				Children: []filetree.FileNode{
					{
						Id: "f-2", Name: "Hero.tsx", Type: filetree.NodeTypeFile,
						CanvasTree: []cnode.ComponentNode{
							{Id: "b-1", Type: "Button", Props: map[string]any{"children": "Go"}},
						},
					},
					{Id: "f-3", Name: "notes.txt", Type: filetree.NodeTypeFile, Content: "plain text"},
					{Id: "f-4", Name: "empty.tsx", Type: filetree.NodeTypeFile},
				},
			},
		},
	}

	var buf bytes.Buffer
	err := ExportWorkspace(&buf, root)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	entries := readZip(t, buf.Bytes())

	index, ok := entries["index.tsx"]
	if !ok {
		t.Fatalf("index.tsx missing from archive: %v", entries)
	}
	if !strings.Contains(index, "const Page = () => {") {
		t.Errorf("index file should render as the Page component:\n%s", index)
	}
	hero, ok := entries["components/Hero.tsx"]
	if !ok {
		t.Fatalf("nested component missing from archive")
	}
	if !strings.Contains(hero, "const Hero = () => {") || !strings.Contains(hero, "export default Hero;") {
		t.Errorf("component file template wrong:\n%s", hero)
	}
	if entries["components/notes.txt"] != "plain text" {
		t.Errorf("literal content file wrong: %q", entries["components/notes.txt"])
	}
	if _, ok := entries["components/empty.tsx"]; ok {
		t.Errorf("empty files should be skipped")
	}
}
