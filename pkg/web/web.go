// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package web exposes the builder over HTTP: read endpoints for the tree
// and generated source, a single op endpoint for mutations, project
// save/load, zip export, and a websocket that pushes regenerated source
// after every committed change.
package web

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/canvascraft/canvascraft/pkg/canvas"
	"github.com/canvascraft/canvascraft/pkg/cbase"
	"github.com/canvascraft/canvascraft/pkg/cnode"
	"github.com/canvascraft/canvascraft/pkg/codegen"
	"github.com/canvascraft/canvascraft/pkg/export"
	"github.com/canvascraft/canvascraft/pkg/filetree"
	"github.com/canvascraft/canvascraft/pkg/projstore"
)

type WebFnType = func(http.ResponseWriter, *http.Request)

const (
	CacheControlHeaderKey     = "Cache-Control"
	CacheControlHeaderNoCache = "no-cache"

	ContentTypeHeaderKey = "Content-Type"
	ContentTypeJson      = "application/json"
	ContentTypeText      = "text/plain; charset=utf-8"
	ContentTypeZip       = "application/zip"

	ContentLengthHeaderKey = "Content-Length"
)

const HttpReadTimeout = 5 * time.Second
const HttpWriteTimeout = 21 * time.Second
const HttpMaxHeaderBytes = 60000
const HttpTimeoutDuration = 21 * time.Second

type WebFnOpts struct {
	AllowCaching bool
	JsonErrors   bool
}

// Srv ties the stores together for the HTTP layer.
type Srv struct {
	Canvas *canvas.Store
	Files  *filetree.Store

	// fallback name for /project/save when no name is given
	DefaultProjectName string
}

func MakeSrv(canvasStore *canvas.Store, fileStore *filetree.Store) *Srv {
	return &Srv{Canvas: canvasStore, Files: fileStore}
}

func marshalReturnValue(data any, err error) []byte {
	var mapRtn = make(map[string]any)
	if err != nil {
		mapRtn["error"] = err.Error()
	} else {
		mapRtn["success"] = true
		mapRtn["data"] = data
	}
	rtn, err := json.Marshal(mapRtn)
	if err != nil {
		return marshalReturnValue(nil, fmt.Errorf("error serializing response: %v", err))
	}
	return rtn
}

func writeJson(w http.ResponseWriter, data any, err error) {
	jsonRtn := marshalReturnValue(data, err)
	w.Header().Set(ContentTypeHeaderKey, ContentTypeJson)
	w.Header().Set(ContentLengthHeaderKey, fmt.Sprintf("%d", len(jsonRtn)))
	w.WriteHeader(http.StatusOK)
	w.Write(jsonRtn)
}

func (srv *Srv) handleGetTree(w http.ResponseWriter, r *http.Request) {
	writeJson(w, map[string]any{
		"docid": srv.Canvas.DocId(),
		"tree":  srv.Canvas.Tree(),
	}, nil)
}

func (srv *Srv) handleGetCode(w http.ResponseWriter, r *http.Request) {
	source := srv.Canvas.GenerateSource()
	w.Header().Set(ContentTypeHeaderKey, ContentTypeText)
	w.Header().Set(ContentLengthHeaderKey, fmt.Sprintf("%d", len(source)))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, source)
}

func (srv *Srv) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	writeJson(w, map[string]any{
		"selectedid":       srv.Canvas.SelectedId(),
		"expandedparentid": srv.Canvas.ExpandedParentId(),
		"tabitems":         srv.Canvas.SelectedTabItems(),
	}, nil)
}

func (srv *Srv) handleCanvasOp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}
	bodyData, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Unable to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	var opCall map[string]any
	err = json.Unmarshal(bodyData, &opCall)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	data, err := srv.dispatchOp(opCall)
	writeJson(w, data, err)
}

func (srv *Srv) handleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	writeJson(w, srv.Files.Root(), nil)
}

func (srv *Srv) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := projstore.GetAllProjects(r.Context())
	writeJson(w, projects, err)
}

func (srv *Srv) handleSaveProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = srv.DefaultProjectName
	}
	if name == "" {
		writeJson(w, nil, fmt.Errorf("name is required"))
		return
	}
	srv.Canvas.FlushPersist()
	proj, err := projstore.InsertProject(r.Context(), name, srv.Files.Root())
	writeJson(w, proj, err)
}

func (srv *Srv) handleLoadProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}
	projectId := r.URL.Query().Get("projectid")
	proj, err := projstore.GetProject(r.Context(), projectId)
	if err != nil {
		writeJson(w, nil, err)
		return
	}
	if proj == nil {
		writeJson(w, nil, fmt.Errorf("project %s not found", projectId))
		return
	}
	srv.Files.SetRoot(proj.Workspace)
	srv.Canvas.SetTree("", nil)
	writeJson(w, proj, nil)
}

func (srv *Srv) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}
	projectId := r.URL.Query().Get("projectid")
	err := projstore.DeleteProject(r.Context(), projectId)
	writeJson(w, map[string]any{"projectid": projectId}, err)
}

func (srv *Srv) handleExport(w http.ResponseWriter, r *http.Request) {
	srv.Canvas.FlushPersist()
	w.Header().Set(ContentTypeHeaderKey, ContentTypeZip)
	w.Header().Set("Content-Disposition", `attachment; filename="project.zip"`)
	err := export.ExportWorkspace(w, srv.Files.Root())
	if err != nil {
		// headers are already gone, just log
		log.Printf("[web] export error: %v\n", err)
	}
}

// handleGenPreview renders a posted tree without touching store state
// (used by the component-library preview pane).
func (srv *Srv) handleGenPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}
	bodyData, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Unable to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	var tree []cnode.ComponentNode
	err = json.Unmarshal(bodyData, &tree)
	if err != nil {
		writeJson(w, nil, fmt.Errorf("invalid tree: %w", err))
		return
	}
	writeJson(w, map[string]any{"source": codegen.GenerateFromTree(tree)}, nil)
}

func WebFnWrap(opts WebFnOpts, fn WebFnType) WebFnType {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recErr := recover()
			if recErr == nil {
				return
			}
			panicStr := fmt.Sprintf("panic: %v", recErr)
			log.Printf("panic: %v\n", recErr)
			debug.PrintStack()
			if opts.JsonErrors {
				jsonRtn := marshalReturnValue(nil, fmt.Errorf("%s", panicStr))
				w.Header().Set(ContentTypeHeaderKey, ContentTypeJson)
				w.Header().Set(ContentLengthHeaderKey, fmt.Sprintf("%d", len(jsonRtn)))
				w.WriteHeader(http.StatusOK)
				w.Write(jsonRtn)
			} else {
				http.Error(w, panicStr, http.StatusInternalServerError)
			}
		}()
		if !opts.AllowCaching {
			w.Header().Set(CacheControlHeaderKey, CacheControlHeaderNoCache)
		}
		fn(w, r)
	}
}

func MakeTCPListener(serverAddr string) (net.Listener, error) {
	rtn, err := net.Listen("tcp", serverAddr)
	if err != nil {
		return nil, fmt.Errorf("error creating listener at %v: %v", serverAddr, err)
	}
	log.Printf("Server listening on %s\n", serverAddr)
	return rtn, nil
}

// blocking
func (srv *Srv) RunWebServer(listener net.Listener) {
	gr := mux.NewRouter()
	gr.HandleFunc("/canvas/tree", WebFnWrap(WebFnOpts{JsonErrors: true}, srv.handleGetTree))
	gr.HandleFunc("/canvas/code", WebFnWrap(WebFnOpts{}, srv.handleGetCode))
	gr.HandleFunc("/canvas/selection", WebFnWrap(WebFnOpts{JsonErrors: true}, srv.handleGetSelection))
	gr.HandleFunc("/canvas/op", WebFnWrap(WebFnOpts{JsonErrors: true}, srv.handleCanvasOp))
	gr.HandleFunc("/canvas/gen", WebFnWrap(WebFnOpts{JsonErrors: true}, srv.handleGenPreview))
	gr.HandleFunc("/workspace", WebFnWrap(WebFnOpts{JsonErrors: true}, srv.handleGetWorkspace))
	gr.HandleFunc("/project/list", WebFnWrap(WebFnOpts{JsonErrors: true}, srv.handleListProjects))
	gr.HandleFunc("/project/save", WebFnWrap(WebFnOpts{JsonErrors: true}, srv.handleSaveProject))
	gr.HandleFunc("/project/load", WebFnWrap(WebFnOpts{JsonErrors: true}, srv.handleLoadProject))
	gr.HandleFunc("/project/delete", WebFnWrap(WebFnOpts{JsonErrors: true}, srv.handleDeleteProject))
	gr.HandleFunc("/project/export", WebFnWrap(WebFnOpts{}, srv.handleExport))
	var corsOpts []handlers.CORSOption
	if cbase.IsDevMode() {
		corsOpts = append(corsOpts, handlers.AllowedOrigins([]string{"*"}))
	}
	server := &http.Server{
		ReadTimeout:    HttpReadTimeout,
		WriteTimeout:   HttpWriteTimeout,
		MaxHeaderBytes: HttpMaxHeaderBytes,
		Handler:        handlers.CORS(corsOpts...)(http.TimeoutHandler(gr, HttpTimeoutDuration, "Timeout")),
	}
	err := server.Serve(listener)
	if err != nil {
		log.Printf("ERROR: %v\n", err)
	}
}
