// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/canvascraft/canvascraft/pkg/canvas"
	"github.com/canvascraft/canvascraft/pkg/cconfig"
	"github.com/canvascraft/canvascraft/pkg/cnode"
	"github.com/canvascraft/canvascraft/pkg/filetree"
	"github.com/canvascraft/canvascraft/pkg/projstore"
	"github.com/canvascraft/canvascraft/pkg/web"
)

// AutosaveSlotId is the single crash-recovery slot (newest snapshot wins,
// independent of named project saves).
const AutosaveSlotId = "current"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the builder server",
	RunE:  serveRun,
}

var serveListenAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "listen address (overrides settings)")
}

// wsAddrFor derives the websocket address from the main address (next
// port up).
func wsAddrFor(listenAddr string) string {
	idx := strings.LastIndex(listenAddr, ":")
	if idx < 0 {
		return listenAddr
	}
	port, err := strconv.Atoi(listenAddr[idx+1:])
	if err != nil {
		return listenAddr
	}
	return fmt.Sprintf("%s:%d", listenAddr[:idx], port+1)
}

func serveRun(cmd *cobra.Command, args []string) error {
	settings, err := cconfig.ReadSettings()
	if err != nil {
		return err
	}
	if serveListenAddr != "" {
		settings.ListenAddr = serveListenAddr
	}
	err = projstore.EnsureDB()
	if err != nil {
		return fmt.Errorf("initializing project db: %w", err)
	}
	defer projstore.CloseDB()

	fileStore := filetree.MakeStore()
	canvasStore := canvas.MakeStore(func(docId string, tree []cnode.ComponentNode) {
		fileStore.UpdateFileCanvasTree(docId, tree)
	})

	// open the workspace index file as the initial canvas doc
	root := fileStore.Root()
	for _, child := range root.Children {
		if child.Type == filetree.NodeTypeFile {
			fileStore.SelectFile(child.Id)
			canvasStore.SetTree(child.Id, child.CanvasTree)
			break
		}
	}

	srv := web.MakeSrv(canvasStore, fileStore)
	srv.DefaultProjectName = settings.DefaultProjectName
	srv.RegisterCodePush()

	go autosaveLoop(time.Duration(settings.AutoSaveIntervalMs)*time.Millisecond, canvasStore, fileStore)
	go srv.RunWebSocketServer(wsAddrFor(settings.ListenAddr))

	listener, err := web.MakeTCPListener(settings.ListenAddr)
	if err != nil {
		return err
	}
	srv.RunWebServer(listener)
	return nil
}

func autosaveLoop(interval time.Duration, canvasStore *canvas.Store, fileStore *filetree.Store) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		canvasStore.FlushPersist()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := projstore.UpsertAutosave(ctx, AutosaveSlotId, fileStore.Root())
		cancel()
		if err != nil {
			log.Printf("[autosave] error: %v\n", err)
		}
	}
}
