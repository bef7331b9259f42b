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

package action

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/test/assert"
	"github.com/MichRacz00/eca/utils/json"
)

func TestRestApiCallPost(t *testing.T) {
	type received struct {
		method string
		path   string
		header string
		body   map[string]interface{}
	}
	got := make(chan received, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)
		got <- received{method: r.Method, path: r.URL.Path, header: r.Header.Get("X-Event"), body: body}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	x := &RestApiCall{}
	err := x.Init(types.NewConfig(), types.Configuration{
		"restEndpointUrlPattern": server.URL + "/hooks/${name}",
		"headers":                map[string]string{"X-Event": "${name}"},
	})
	assert.Nil(t, err)
	defer x.Destroy()

	event := types.NewEvent("alarm", map[string]interface{}{"level": "high"})
	err = x.Execute(context.Background(), types.NewScope(), event)
	assert.Nil(t, err)

	r := <-got
	assert.Equal(t, http.MethodPost, r.method)
	assert.Equal(t, "/hooks/alarm", r.path)
	assert.Equal(t, "alarm", r.header)
	assert.Equal(t, "alarm", r.body["name"])
	data := r.body["data"].(map[string]interface{})
	assert.Equal(t, "high", data["level"])
}

func TestRestApiCallGetHasNoBody(t *testing.T) {
	got := make(chan int64, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.ContentLength
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	x := &RestApiCall{}
	err := x.Init(types.NewConfig(), types.Configuration{
		"restEndpointUrlPattern": server.URL + "/ping",
		"requestMethod":          "GET",
	})
	assert.Nil(t, err)
	defer x.Destroy()

	err = x.Execute(context.Background(), types.NewScope(), types.NewEvent("ping", nil))
	assert.Nil(t, err)
	assert.Equal(t, int64(0), <-got)
}

func TestRestApiCallNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	x := &RestApiCall{}
	err := x.Init(types.NewConfig(), types.Configuration{
		"restEndpointUrlPattern": server.URL,
	})
	assert.Nil(t, err)
	defer x.Destroy()

	err = x.Execute(context.Background(), types.NewScope(), types.NewEvent("ping", nil))
	assert.NotNil(t, err)
}

func TestRestApiCallInitRejectsEmptyUrl(t *testing.T) {
	x := &RestApiCall{}
	err := x.Init(types.NewConfig(), types.Configuration{})
	assert.NotNil(t, err)
}
