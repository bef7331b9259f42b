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
//	  "type": "mqttPublish",
//	  "configuration": {
//	    "server": "tcp://127.0.0.1:1883",
//	    "topic": "/alerts/${event.device}"
//	  }
//	}
import (
	"context"
	"sync"
	"time"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/utils/json"
	"github.com/MichRacz00/eca/utils/maps"
	"github.com/MichRacz00/eca/utils/mqtt"
	"github.com/MichRacz00/eca/utils/str"
)

func init() {
	Registry.Add(&MqttPublish{})
}

// MqttPublishConfiguration configures the component. Connection fields
// mirror the mqtt client config.
type MqttPublishConfiguration struct {
	// Topic is the publish topic, ${} placeholders are substituted per
	// event.
	Topic                string
	Server               string
	Username             string
	Password             string
	MaxReconnectInterval int
	QOS                  uint8
	CleanSession         bool
	ClientID             string
	CAFile               string
	CertFile             string
	CertKeyFile          string
	// ConnectTimeout bounds the first broker connect in seconds,
	// defaulting to 10.
	ConnectTimeout int
}

// MqttPublish is an action publishing the event as JSON to an MQTT
// topic. The broker connection is shared by all executions and opened
// on first use.
type MqttPublish struct {
	Config   MqttPublishConfiguration
	topicVar bool

	mu     sync.Mutex
	client *mqtt.Client
}

// Type returns the component type.
func (x *MqttPublish) Type() string {
	return "mqttPublish"
}

func (x *MqttPublish) New() types.Component {
	return &MqttPublish{Config: MqttPublishConfiguration{
		Topic:  "/device/msg",
		Server: "127.0.0.1:1883",
	}}
}

// Init validates the configuration. The connection is opened lazily.
func (x *MqttPublish) Init(config types.Config, configuration types.Configuration) error {
	if err := maps.Map2Struct(configuration, &x.Config); err != nil {
		return err
	}
	x.topicVar = str.CheckHasVar(x.Config.Topic)
	return nil
}

// Execute publishes the event. The payload is the JSON rendering of
// {"name": ..., "data": {...}}.
func (x *MqttPublish) Execute(ctx context.Context, scope *types.Scope, event types.Event) error {
	client, err := x.getClient(ctx)
	if err != nil {
		return err
	}
	topic := x.Config.Topic
	if x.topicVar {
		topic = str.ExecuteTemplate(topic, Evn(scope, event))
	}
	payload, err := json.Marshal(map[string]interface{}{
		"name": event.Name(),
		"data": event.Data(),
	})
	if err != nil {
		return err
	}
	return client.Publish(topic, x.Config.QOS, payload)
}

// Destroy closes the broker connection.
func (x *MqttPublish) Destroy() {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.client != nil {
		_ = x.client.Close()
		x.client = nil
	}
}

func (x *MqttPublish) getClient(ctx context.Context) (*mqtt.Client, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.client != nil {
		return x.client, nil
	}
	connectTimeout := x.Config.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10
	}
	dialCtx, cancel := context.WithTimeout(ctx, time.Duration(connectTimeout)*time.Second)
	defer cancel()
	client, err := mqtt.NewClient(dialCtx, mqtt.Config{
		Server:               x.Config.Server,
		Username:             x.Config.Username,
		Password:             x.Config.Password,
		MaxReconnectInterval: time.Duration(x.Config.MaxReconnectInterval) * time.Second,
		QOS:                  x.Config.QOS,
		CleanSession:         x.Config.CleanSession,
		ClientID:             x.Config.ClientID,
		CAFile:               x.Config.CAFile,
		CertFile:             x.Config.CertFile,
		CertKeyFile:          x.Config.CertKeyFile,
	})
	if err != nil {
		return nil, err
	}
	x.client = client
	return x.client, nil
}
