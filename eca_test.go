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

package eca

import (
	"context"
	"testing"
	"time"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/test/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	config := NewConfig()
	assert.NotNil(t, config.ComponentsRegistry)
	assert.NotNil(t, config.Parser)
	assert.NotNil(t, config.Logger)
	assert.Equal(t, time.Second, config.PollInterval)
}

func TestDefaultComponentRegistryContents(t *testing.T) {
	components := Registry.GetComponents()
	for _, componentType := range []string{"exprFilter", "jsFilter", "jsAction", "dbClient", "mqttPublish", "restApiCall", "ssh"} {
		_, ok := components[componentType]
		assert.True(t, ok)
	}
}

func TestFacadeRegistration(t *testing.T) {
	r := NewRule("facade-test", func(ctx context.Context, scope *types.Scope, event types.Event) error {
		return nil
	})
	OnEvent(r, "alpha", "beta")
	WithCondition(r, func(ctx context.Context, scope *types.Scope, event types.Event) (bool, error) {
		return true, nil
	})

	assert.True(t, r.ReactsTo("alpha"))
	assert.True(t, r.ReactsTo("beta"))
	assert.Equal(t, 1, len(r.Conditions()))

	found := false
	for _, registered := range Rules.Rules() {
		if registered == r {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoadWithBuiltinComponents(t *testing.T) {
	rules, err := Load([]byte(`{
  "rules": [{
    "name": "admin-login",
    "events": ["login"],
    "conditions": [{"type": "exprFilter", "configuration": {"expr": "event.user == 'admin'"}}],
    "action": {"type": "jsAction", "configuration": {"script": "function Action(scope, event, emit) { return {lastUser: event.user}; }"}}
  }]
}`), NewConfig())
	assert.Nil(t, err)
	assert.Equal(t, 1, len(rules))

	scope := types.NewScope()
	ctx := context.Background()

	admin := types.NewEvent("login", map[string]interface{}{"user": "admin"})
	ok, err := rules[0].Matches(ctx, scope, admin)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Nil(t, rules[0].Run(ctx, scope, admin))
	lastUser, _ := scope.Get("lastUser")
	assert.Equal(t, "admin", lastUser)

	guest := types.NewEvent("login", map[string]interface{}{"user": "guest"})
	ok, err = rules[0].Matches(ctx, scope, guest)
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestEndToEndThroughContext(t *testing.T) {
	done := make(chan string, 1)
	r := NewRule("greet", func(ctx context.Context, scope *types.Scope, event types.Event) error {
		who, err := event.Attr("who")
		if err != nil {
			return err
		}
		done <- who.(string)
		return nil
	})
	OnEvent(r, "greeting")

	c := NewContext(NewConfig(types.WithPollInterval(10 * time.Millisecond)))
	c.Start()
	defer c.Stop()
	c.Enqueue(types.NewEvent("greeting", map[string]interface{}{"who": "world"}))

	select {
	case who := <-done:
		assert.Equal(t, "world", who)
	case <-time.After(time.Second):
		t.Fatal("rule did not fire")
	}
}
