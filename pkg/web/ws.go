// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/canvascraft/canvascraft/pkg/cnode"
	"github.com/canvascraft/canvascraft/pkg/codegen"
)

const wsReadWaitTimeout = 15 * time.Second
const wsWriteWaitTimeout = 10 * time.Second
const wsPingPeriodTickTime = 10 * time.Second
const wsInitialPingTime = 1 * time.Second
const wsOutputChSize = 100

var wsChannelLock = &sync.Mutex{}
var wsChannels = make(map[string]chan any)

func registerWSChannel(connId string, ch chan any) {
	wsChannelLock.Lock()
	defer wsChannelLock.Unlock()
	wsChannels[connId] = ch
}

func unregisterWSChannel(connId string) {
	wsChannelLock.Lock()
	defer wsChannelLock.Unlock()
	delete(wsChannels, connId)
}

// broadcastWS fans a message out to every connected client.  Slow clients
// drop messages rather than blocking the canvas store's update path.
func broadcastWS(msg any) {
	wsChannelLock.Lock()
	defer wsChannelLock.Unlock()
	for connId, ch := range wsChannels {
		select {
		case ch <- msg:
		default:
			log.Printf("[ws] dropping message for slow connection %s\n", connId)
		}
	}
}

// RegisterCodePush hooks the canvas store so every committed tree change
// pushes regenerated source to all websocket clients.
func (srv *Srv) RegisterCodePush() {
	srv.Canvas.OnUpdate(func(docId string, tree []cnode.ComponentNode) {
		broadcastWS(map[string]any{
			"type":   "code",
			"docid":  docId,
			"source": codegen.GenerateFromTree(tree),
		})
	})
}

// RunWebSocketServer runs the websocket endpoint on its own server (the
// main server's write timeout would kill long-lived connections).
// Blocking.
func (srv *Srv) RunWebSocketServer(serverAddr string) {
	gr := mux.NewRouter()
	gr.HandleFunc("/ws", srv.HandleWs)
	server := &http.Server{
		Addr:           serverAddr,
		ReadTimeout:    HttpReadTimeout,
		WriteTimeout:   HttpWriteTimeout,
		MaxHeaderBytes: HttpMaxHeaderBytes,
		Handler:        gr,
	}
	server.SetKeepAlivesEnabled(false)
	log.Printf("Running websocket server on %s\n", serverAddr)
	err := server.ListenAndServe()
	if err != nil {
		log.Printf("[error] trying to run websocket server: %v\n", err)
	}
}

var WebSocketUpgrader = websocket.Upgrader{
	ReadBufferSize:   4 * 1024,
	WriteBufferSize:  32 * 1024,
	HandshakeTimeout: 1 * time.Second,
	CheckOrigin:      func(r *http.Request) bool { return true },
}

func (srv *Srv) HandleWs(w http.ResponseWriter, r *http.Request) {
	err := srv.handleWsInternal(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func getMessageType(jmsg map[string]any) string {
	if str, ok := jmsg["type"].(string); ok {
		return str
	}
	return ""
}

func getStringFromMap(jmsg map[string]any, key string) string {
	if str, ok := jmsg[key].(string); ok {
		return str
	}
	return ""
}

// processMessage handles one client message.  "sourceedit" feeds the
// edited text through the parser into the canvas store; the resulting
// code push (if the edit changed anything) goes out via the update hook.
func (srv *Srv) processMessage(jmsg map[string]any, outputCh chan any) {
	var rtnErr error
	defer func() {
		r := recover()
		if r != nil {
			rtnErr = fmt.Errorf("panic: %v", r)
			log.Printf("panic in processMessage: %v\n", r)
			debug.PrintStack()
		}
		if rtnErr == nil {
			return
		}
		rtn := map[string]any{"type": "error", "error": rtnErr.Error()}
		outputCh <- rtn
	}()
	msgType := getMessageType(jmsg)
	switch msgType {
	case "sourceedit":
		source := getStringFromMap(jmsg, "source")
		docId := srv.Canvas.DocId()
		srv.Canvas.QueueSourceEdit(source, func(applied bool) {
			if applied {
				return
			}
			select {
			case outputCh <- map[string]any{"type": "sourceedit:rejected", "docid": docId}:
			default:
				log.Printf("[ws] dropping sourceedit:rejected (channel full)\n")
			}
		})
	case "select":
		srv.Canvas.SelectComponent(getStringFromMap(jmsg, "id"))
	default:
		rtnErr = fmt.Errorf("unknown message type %q", msgType)
	}
}

func (srv *Srv) readLoop(conn *websocket.Conn, outputCh chan any, closeCh chan any) {
	readWait := wsReadWaitTimeout
	conn.SetReadLimit(64 * 1024)
	conn.SetReadDeadline(time.Now().Add(readWait))
	defer close(closeCh)
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("ReadPump error: %v\n", err)
			break
		}
		jmsg := map[string]any{}
		err = json.Unmarshal(message, &jmsg)
		if err != nil {
			log.Printf("Error unmarshalling json: %v\n", err)
			break
		}
		conn.SetReadDeadline(time.Now().Add(readWait))
		msgType := getMessageType(jmsg)
		if msgType == "pong" {
			// nothing
			continue
		}
		if msgType == "ping" {
			now := time.Now()
			pongMessage := map[string]any{"type": "pong", "stime": now.UnixMilli()}
			outputCh <- pongMessage
			continue
		}
		go srv.processMessage(jmsg, outputCh)
	}
}

func writePing(conn *websocket.Conn) error {
	now := time.Now()
	pingMessage := map[string]any{"type": "ping", "stime": now.UnixMilli()}
	jsonVal, _ := json.Marshal(pingMessage)
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWaitTimeout)) // no error
	return conn.WriteMessage(websocket.TextMessage, jsonVal)
}

func writeLoop(conn *websocket.Conn, outputCh chan any, closeCh chan any) {
	ticker := time.NewTicker(wsInitialPingTime)
	defer ticker.Stop()
	initialPing := true
	for {
		select {
		case msg := <-outputCh:
			var barr []byte
			var err error
			if msgBytes, ok := msg.([]byte); ok {
				barr = msgBytes
			} else {
				barr, err = json.Marshal(msg)
				if err != nil {
					log.Printf("cannot marshal websocket message: %v\n", err)
					// just loop again
					break
				}
			}
			err = conn.WriteMessage(websocket.TextMessage, barr)
			if err != nil {
				conn.Close()
				log.Printf("WritePump error: %v\n", err)
				return
			}

		case <-ticker.C:
			err := writePing(conn)
			if err != nil {
				log.Printf("WritePump error: %v\n", err)
				return
			}
			if initialPing {
				initialPing = false
				ticker.Reset(wsPingPeriodTickTime)
			}

		case <-closeCh:
			return
		}
	}
}

func (srv *Srv) handleWsInternal(w http.ResponseWriter, r *http.Request) error {
	conn, err := WebSocketUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("WebSocket Upgrade Failed: %v", err)
	}
	defer conn.Close()
	wsConnId := uuid.New().String()
	log.Printf("New websocket connection: connid:%s\n", wsConnId)
	outputCh := make(chan any, wsOutputChSize)
	closeCh := make(chan any)
	registerWSChannel(wsConnId, outputCh)
	defer unregisterWSChannel(wsConnId)
	wg := &sync.WaitGroup{}
	wg.Add(2)
	go func() {
		// read loop
		defer wg.Done()
		srv.readLoop(conn, outputCh, closeCh)
	}()
	go func() {
		// write loop
		defer wg.Done()
		writeLoop(conn, outputCh, closeCh)
	}()
	wg.Wait()
	return nil
}
