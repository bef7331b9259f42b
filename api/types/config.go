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

package types

import "time"

// Config defines the configuration shared by engine contexts,
// components and endpoints.
type Config struct {
	// Logger is the logging interface, defaulting to DefaultLogger().
	// Context trace output goes through it.
	Logger Logger
	// PollInterval bounds how long a context run loop waits for a
	// queued event before re-checking its termination flag. It must be
	// greater than zero; stopping a context takes at most one poll
	// interval once its queue is drained. Defaults to one second.
	PollInterval time.Duration
	// OnRuleError is called when a condition or an action of a rule
	// returns an error during dispatch. The failed rule is skipped and
	// dispatch continues; see the engine package docs for the policy.
	// - contextId: id of the dispatching context.
	// - ruleName: name of the failed rule.
	// - event: the event being dispatched.
	// - err: the condition or action error.
	OnRuleError func(contextId string, ruleName string, event Event, err error)
	// ScriptMaxExecutionTime is the maximum execution time for scripted
	// conditions and actions, defaulting to 2000 milliseconds.
	ScriptMaxExecutionTime time.Duration
	// ComponentsRegistry resolves component types referenced by rule
	// set definitions. Defaulting to the root package registry.
	ComponentsRegistry ComponentRegistry
	// Parser decodes rule set definitions, defaulting to the engine
	// JSON parser.
	Parser Parser
	// Properties are global properties in key-value format, exposed to
	// scripted components as the `global` variable.
	Properties Metadata
	// Udf is a map of custom functions and native scripts callable from
	// scripted conditions and actions.
	Udf map[string]interface{}
}

// RegisterUdf registers a custom function under the given name.
func (c *Config) RegisterUdf(name string, value interface{}) {
	if c.Udf == nil {
		c.Udf = make(map[string]interface{})
	}
	c.Udf[name] = value
}

// NewConfig creates a new Config with default values and applies the
// provided options.
func NewConfig(opts ...Option) Config {
	c := &Config{
		Logger:                 DefaultLogger(),
		PollInterval:           time.Second,
		ScriptMaxExecutionTime: time.Millisecond * 2000,
		Properties:             NewMetadata(),
	}
	for _, opt := range opts {
		_ = opt(c)
	}
	return *c
}
