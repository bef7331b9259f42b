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

// Rule definition example:
//
//	{
//	  "type": "restApiCall",
//	  "configuration": {
//	    "restEndpointUrlPattern": "http://192.168.1.100:9090/hooks/${name}",
//	    "requestMethod": "POST"
//	  }
//	}
import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/utils/json"
	"github.com/MichRacz00/eca/utils/maps"
	"github.com/MichRacz00/eca/utils/str"
)

func init() {
	Registry.Add(&RestApiCall{})
}

// RestApiCallConfiguration configures the component.
type RestApiCallConfiguration struct {
	// RestEndpointUrlPattern is the request url, ${} placeholders are
	// substituted per event.
	RestEndpointUrlPattern string
	// RequestMethod defaults to POST. POST, PUT and PATCH requests
	// carry the event as a JSON body.
	RequestMethod string
	// Headers are added to every request, values support ${}
	// placeholders.
	Headers map[string]string
	// ReadTimeoutMs bounds the whole request, 0 means 2000.
	ReadTimeoutMs int
	// EnableProxy routes requests through the configured proxy.
	EnableProxy bool
	// ProxyScheme is http or socks5.
	ProxyScheme string
	ProxyHost   string
	ProxyPort   int
	ProxyUser   string
	ProxyPassword string
}

// RestApiCall is an action pushing the matched event to an HTTP
// endpoint.
type RestApiCall struct {
	Config RestApiCallConfiguration
	client *http.Client
	urlVar bool
}

// Type returns the component type.
func (x *RestApiCall) Type() string {
	return "restApiCall"
}

func (x *RestApiCall) New() types.Component {
	return &RestApiCall{Config: RestApiCallConfiguration{
		RequestMethod: http.MethodPost,
		Headers:       map[string]string{"Content-Type": "application/json"},
		ReadTimeoutMs: 2000,
	}}
}

// Init builds the http client.
func (x *RestApiCall) Init(config types.Config, configuration types.Configuration) error {
	if err := maps.Map2Struct(configuration, &x.Config); err != nil {
		return err
	}
	if x.Config.RestEndpointUrlPattern == "" {
		return fmt.Errorf("restEndpointUrlPattern can not be empty")
	}
	if x.Config.RequestMethod == "" {
		x.Config.RequestMethod = http.MethodPost
	}
	x.Config.RequestMethod = strings.ToUpper(x.Config.RequestMethod)
	x.urlVar = str.CheckHasVar(x.Config.RestEndpointUrlPattern)

	client, err := x.newClient()
	if err != nil {
		return err
	}
	x.client = client
	return nil
}

// Execute sends the request. Non-2xx responses are errors.
func (x *RestApiCall) Execute(ctx context.Context, scope *types.Scope, event types.Event) error {
	evn := Evn(scope, event)
	endpointUrl := x.Config.RestEndpointUrlPattern
	if x.urlVar {
		endpointUrl = str.ExecuteTemplate(endpointUrl, evn)
	}

	var body *bytes.Reader
	switch x.Config.RequestMethod {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		payload, err := json.Marshal(map[string]interface{}{
			"name": event.Name(),
			"data": event.Data(),
		})
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	default:
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, x.Config.RequestMethod, endpointUrl, body)
	if err != nil {
		return err
	}
	for key, value := range x.Config.Headers {
		req.Header.Set(str.ExecuteTemplate(key, evn), str.ExecuteTemplate(value, evn))
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("restApiCall %s returned status %d", endpointUrl, resp.StatusCode)
	}
	return nil
}

// Destroy releases the component.
func (x *RestApiCall) Destroy() {
	if x.client != nil {
		x.client.CloseIdleConnections()
	}
}

func (x *RestApiCall) newClient() (*http.Client, error) {
	readTimeoutMs := x.Config.ReadTimeoutMs
	if readTimeoutMs <= 0 {
		readTimeoutMs = 2000
	}
	client := &http.Client{Timeout: time.Duration(readTimeoutMs) * time.Millisecond}

	if !x.Config.EnableProxy {
		return client, nil
	}
	proxyAddr := fmt.Sprintf("%s:%d", x.Config.ProxyHost, x.Config.ProxyPort)
	if strings.EqualFold(x.Config.ProxyScheme, "socks5") {
		var auth *proxy.Auth
		if x.Config.ProxyUser != "" {
			auth = &proxy.Auth{
				User:     x.Config.ProxyUser,
				Password: x.Config.ProxyPassword,
			}
		}
		dialer, err := proxy.SOCKS5("tcp", proxyAddr, auth, proxy.Direct)
		if err != nil {
			return nil, err
		}
		client.Transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}
		return client, nil
	}

	proxyUrl, err := url.Parse(fmt.Sprintf("%s://%s", x.Config.ProxyScheme, proxyAddr))
	if err != nil {
		return nil, err
	}
	client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyUrl)}
	return client, nil
}
