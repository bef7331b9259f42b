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

// Package rest ingests events over HTTP. POST /events/:name constructs
// an event named after the path parameter, with the JSON request body
// as its attribute mapping, and delivers it to the target context.
package rest

import (
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/utils/json"
)

const (
	ContentTypeKey  = "Content-Type"
	JsonContextType = "application/json"

	// EventPath is the ingestion route.
	EventPath = "/events/:name"
)

// Config is the Rest server configuration.
type Config struct {
	Addr        string
	CertFile    string
	CertKeyFile string
}

// Rest is an HTTP event source.
type Rest struct {
	Config Config
	target types.EventReceiver
	logger types.Logger
	router *httprouter.Router
	server *http.Server
}

// Ensuring Rest implements types.Endpoint.
var _ types.Endpoint = (*Rest)(nil)

// New creates a Rest endpoint delivering to target.
func New(config Config, ruleConfig types.Config, target types.EventReceiver) *Rest {
	r := &Rest{
		Config: config,
		target: target,
		logger: types.NewLogger(ruleConfig.Logger),
		router: httprouter.New(),
	}
	r.router.POST(EventPath, r.handler())
	return r
}

// Type returns the endpoint type.
func (r *Rest) Type() string {
	return "rest"
}

// Router exposes the underlying router, e.g. to mount extra routes or
// to serve it from an existing server.
func (r *Rest) Router() *httprouter.Router {
	return r.router
}

// Start serves until Close is called. It blocks.
func (r *Rest) Start() error {
	r.server = &http.Server{Addr: r.Config.Addr, Handler: r.router}
	var err error
	if r.Config.CertKeyFile != "" && r.Config.CertFile != "" {
		r.logger.Printf("starting rest endpoint with TLS on %s", r.Config.Addr)
		err = r.server.ListenAndServeTLS(r.Config.CertFile, r.Config.CertKeyFile)
	} else {
		r.logger.Printf("starting rest endpoint on %s", r.Config.Addr)
		err = r.server.ListenAndServe()
	}
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close stops the server.
func (r *Rest) Close() error {
	if r.server != nil {
		return r.server.Close()
	}
	return nil
}

func (r *Rest) handler() httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
		defer func() {
			if e := recover(); e != nil {
				r.logger.Printf("rest handler err :%v", e)
				w.WriteHeader(http.StatusInternalServerError)
			}
		}()

		name := params.ByName("name")
		if name == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		body, err := io.ReadAll(req.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		data := make(map[string]interface{})
		if len(body) > 0 {
			if err = json.Unmarshal(body, &data); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"body is not a json object"}`))
				return
			}
		}
		// query parameters fill attribute gaps, body wins on conflict
		for key, values := range req.URL.Query() {
			if _, ok := data[key]; !ok && len(values) > 0 {
				data[key] = values[0]
			}
		}

		event := types.NewEvent(name, data)
		r.target.Enqueue(event)

		w.Header().Set(ContentTypeKey, JsonContextType)
		w.WriteHeader(http.StatusAccepted)
		response, _ := json.Marshal(map[string]interface{}{"id": event.Id()})
		_, _ = w.Write(response)
	}
}
