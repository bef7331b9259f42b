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

// Package eca is an embedded event-condition-action rule engine.
//
// Rules react to named events, guarded by conditions and executing an
// action. Each execution context owns a variable scope and a FIFO event
// queue, all contexts dispatch against a shared rule registry.
//
// # Usage
//
// Register a rule in code:
//
//	count := eca.NewRule("count-ticks", func(ctx context.Context, scope *types.Scope, event types.Event) error {
//		n, _ := scope.Get("count")
//		scope.Set("count", n.(int)+1)
//		return eca.Emit(ctx, "ticked", map[string]interface{}{"n": n.(int) + 1})
//	})
//	eca.OnEvent(count, "tick")
//	eca.WithCondition(count, func(ctx context.Context, scope *types.Scope, event types.Event) (bool, error) {
//		return scope.Has("count"), nil
//	})
//
// or declaratively:
//
//	_, err := eca.Load([]byte(`{
//	  "rules": [{
//	    "name": "admin-login",
//	    "events": ["login"],
//	    "conditions": [{"type": "exprFilter", "configuration": {"expr": "event.user == 'admin'"}}],
//	    "action": {"type": "jsAction", "configuration": {"script": "function Action(scope, event, emit) { emit('audit', {user: event.user}); }"}}
//	  }]
//	}`), eca.NewConfig())
//
// then run a context:
//
//	c := eca.NewContext(eca.NewConfig())
//	c.Start()
//	c.Enqueue(types.NewEvent("tick", nil))
//	defer c.Stop()
//
// Registration and dispatch are separate phases: register all rules
// before starting contexts.
package eca

import (
	"context"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/engine"
)

// Rules is the default rule registry, shared by every context created
// through this package.
var Rules = engine.NewRegistry()

// NewConfig creates a config with the package defaults applied: the
// default component registry and the JSON rule set parser.
func NewConfig(opts ...types.Option) types.Config {
	config := types.NewConfig(opts...)
	if config.ComponentsRegistry == nil {
		config.ComponentsRegistry = Registry
	}
	if config.Parser == nil {
		config.Parser = &engine.JsonParser{}
	}
	return config
}

// NewRule creates a rule handle around an action. The rule enters the
// default registry with the first OnEvent or WithCondition call.
func NewRule(name string, action types.Action) *engine.Rule {
	return engine.NewRule(name, action)
}

// OnEvent attaches event names to the rule, registering it in the
// default registry if needed.
func OnEvent(r *engine.Rule, eventNames ...string) *engine.Rule {
	return Rules.AttachEvent(r, eventNames...)
}

// WithCondition appends conditions to the rule, registering it in the
// default registry if needed.
func WithCondition(r *engine.Rule, conditions ...types.Condition) *engine.Rule {
	return Rules.AttachCondition(r, conditions...)
}

// Load registers the rules of a serialized rule set definition into the
// default registry.
func Load(def []byte, config types.Config) ([]*engine.Rule, error) {
	if config.ComponentsRegistry == nil {
		config.ComponentsRegistry = Registry
	}
	return engine.LoadRuleSet(def, Rules, config)
}

// NewContext creates an execution context dispatching against the
// default registry.
func NewContext(config types.Config, opts ...engine.ContextOption) *engine.Context {
	return engine.NewContext(Rules, config, opts...)
}

// Emit delivers a new event to the execution context the calling
// goroutine is currently bound to. See types.Emit.
func Emit(ctx context.Context, name string, data map[string]interface{}) error {
	return types.Emit(ctx, name, data)
}
