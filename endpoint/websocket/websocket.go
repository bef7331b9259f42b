/*
 * Copyright 2024 The ECA Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package websocket ingests events over a WebSocket connection. Each
// text frame is a JSON envelope {"name": ..., "data": {...}}; every
// accepted frame is acknowledged with the generated event id.
package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/utils/json"
)

// EventPath is the upgrade route.
const EventPath = "/ws"

// eventEnvelope is the wire form of one event.
type eventEnvelope struct {
	Name string                 `json:"name"`
	Data map[string]interface{} `json:"data"`
}

// Config is the Websocket server configuration.
type Config struct {
	Addr        string
	CertFile    string
	CertKeyFile string
}

// Websocket is a WebSocket event source.
type Websocket struct {
	Config   Config
	target   types.EventReceiver
	logger   types.Logger
	router   *httprouter.Router
	server   *http.Server
	upgrader websocket.Upgrader
}

// Ensuring Websocket implements types.Endpoint.
var _ types.Endpoint = (*Websocket)(nil)

// New creates a Websocket endpoint delivering to target.
func New(config Config, ruleConfig types.Config, target types.EventReceiver) *Websocket {
	ws := &Websocket{
		Config: config,
		target: target,
		logger: types.NewLogger(ruleConfig.Logger),
		router: httprouter.New(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	ws.router.GET(EventPath, ws.handler())
	return ws
}

// Type returns the endpoint type.
func (ws *Websocket) Type() string {
	return "ws"
}

// Router exposes the underlying router.
func (ws *Websocket) Router() *httprouter.Router {
	return ws.router
}

// Start serves until Close is called. It blocks.
func (ws *Websocket) Start() error {
	ws.server = &http.Server{Addr: ws.Config.Addr, Handler: ws.router}
	var err error
	if ws.Config.CertKeyFile != "" && ws.Config.CertFile != "" {
		ws.logger.Printf("starting ws endpoint with TLS on %s", ws.Config.Addr)
		err = ws.server.ListenAndServeTLS(ws.Config.CertFile, ws.Config.CertKeyFile)
	} else {
		ws.logger.Printf("starting ws endpoint on %s", ws.Config.Addr)
		err = ws.server.ListenAndServe()
	}
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close stops the server. Open connections are dropped.
func (ws *Websocket) Close() error {
	if ws.server != nil {
		return ws.server.Close()
	}
	return nil
}

func (ws *Websocket) handler() httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
		conn, err := ws.upgrader.Upgrade(w, req, nil)
		if err != nil {
			ws.logger.Printf("ws upgrade err :%v", err)
			return
		}
		go ws.readLoop(conn)
	}
}

func (ws *Websocket) readLoop(conn *websocket.Conn) {
	defer func() {
		if e := recover(); e != nil {
			ws.logger.Printf("ws read loop err :%v", e)
		}
		_ = conn.Close()
	}()

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			ws.reply(conn, map[string]interface{}{"error": "only text frames are accepted"})
			continue
		}
		var envelope eventEnvelope
		if err = json.Unmarshal(payload, &envelope); err != nil || envelope.Name == "" {
			ws.reply(conn, map[string]interface{}{"error": "frame is not an event envelope"})
			continue
		}

		event := types.NewEvent(envelope.Name, envelope.Data)
		ws.target.Enqueue(event)
		ws.reply(conn, map[string]interface{}{"id": event.Id()})
	}
}

func (ws *Websocket) reply(conn *websocket.Conn, body map[string]interface{}) {
	payload, _ := json.Marshal(body)
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		ws.logger.Printf("ws write err :%v", err)
	}
}
