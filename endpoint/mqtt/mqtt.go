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

// Package mqtt ingests events from MQTT subscriptions. A JSON object
// payload becomes the attribute mapping, any other payload is wrapped
// as {"payload": <string>}. The event name is the configured one or,
// when empty, the last topic segment.
package mqtt

import (
	"context"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/utils/json"
	"github.com/MichRacz00/eca/utils/mqtt"
)

// Config is the Mqtt endpoint configuration. Connection fields mirror
// the mqtt client config.
type Config struct {
	Server               string
	Username             string
	Password             string
	MaxReconnectInterval time.Duration
	QOS                  uint8
	CleanSession         bool
	ClientID             string
	CAFile               string
	CertFile             string
	CertKeyFile          string
	// Topics are the subscription topic filters.
	Topics []string
	// EventName overrides the per-topic derived event name.
	EventName string
	// ConnectTimeout bounds the first broker connect, defaulting to 10
	// seconds.
	ConnectTimeout time.Duration
}

// Mqtt is an MQTT event source.
type Mqtt struct {
	Config Config
	target types.EventReceiver
	logger types.Logger
	client *mqtt.Client
}

// Ensuring Mqtt implements types.Endpoint.
var _ types.Endpoint = (*Mqtt)(nil)

// New creates an Mqtt endpoint delivering to target.
func New(config Config, ruleConfig types.Config, target types.EventReceiver) *Mqtt {
	return &Mqtt{
		Config: config,
		target: target,
		logger: types.NewLogger(ruleConfig.Logger),
	}
}

// Type returns the endpoint type.
func (m *Mqtt) Type() string {
	return "mqtt"
}

// Start connects to the broker and subscribes the configured topics.
// It returns once the subscriptions are registered.
func (m *Mqtt) Start() error {
	connectTimeout := m.Config.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mqtt.NewClient(ctx, mqtt.Config{
		Server:               m.Config.Server,
		Username:             m.Config.Username,
		Password:             m.Config.Password,
		MaxReconnectInterval: m.Config.MaxReconnectInterval,
		QOS:                  m.Config.QOS,
		CleanSession:         m.Config.CleanSession,
		ClientID:             m.Config.ClientID,
		CAFile:               m.Config.CAFile,
		CertFile:             m.Config.CertFile,
		CertKeyFile:          m.Config.CertKeyFile,
	})
	if err != nil {
		return err
	}
	m.client = client

	for _, topic := range m.Config.Topics {
		m.client.RegisterHandler(mqtt.Handler{
			Topic:  topic,
			Qos:    m.Config.QOS,
			Handle: m.handler(),
		})
	}
	return nil
}

// Close unsubscribes and disconnects.
func (m *Mqtt) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

func (m *Mqtt) handler() func(c paho.Client, data paho.Message) {
	return func(c paho.Client, data paho.Message) {
		defer func() {
			if e := recover(); e != nil {
				m.logger.Printf("mqtt handler err :%v", e)
			}
		}()
		name := m.Config.EventName
		if name == "" {
			name = EventNameFromTopic(data.Topic())
		}
		m.target.Enqueue(types.NewEvent(name, DecodePayload(data.Payload())))
	}
}

// EventNameFromTopic derives an event name from a topic: its last
// non-empty segment.
func EventNameFromTopic(topic string) string {
	segments := strings.Split(strings.TrimRight(topic, "/"), "/")
	return segments[len(segments)-1]
}

// DecodePayload maps a message payload to an attribute mapping: a JSON
// object is used as is, anything else is wrapped under "payload".
func DecodePayload(payload []byte) map[string]interface{} {
	data := make(map[string]interface{})
	if err := json.Unmarshal(payload, &data); err != nil {
		data = map[string]interface{}{"payload": string(payload)}
	}
	return data
}
