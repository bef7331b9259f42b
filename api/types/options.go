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

// Option is a function type that modifies the Config.
type Option func(*Config) error

// WithLogger is an option that sets the logger of the Config.
func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithPollInterval is an option that sets the run loop poll interval of
// the Config. Non-positive values are ignored.
func WithPollInterval(pollInterval time.Duration) Option {
	return func(c *Config) error {
		if pollInterval > 0 {
			c.PollInterval = pollInterval
		}
		return nil
	}
}

// WithOnRuleError is an option that sets the rule error callback of the
// Config.
func WithOnRuleError(onRuleError func(contextId string, ruleName string, event Event, err error)) Option {
	return func(c *Config) error {
		c.OnRuleError = onRuleError
		return nil
	}
}

// WithScriptMaxExecutionTime is an option that sets the script max
// execution time of the Config.
func WithScriptMaxExecutionTime(scriptMaxExecutionTime time.Duration) Option {
	return func(c *Config) error {
		c.ScriptMaxExecutionTime = scriptMaxExecutionTime
		return nil
	}
}

// WithComponentsRegistry is an option that sets the components registry
// of the Config.
func WithComponentsRegistry(componentsRegistry ComponentRegistry) Option {
	return func(c *Config) error {
		c.ComponentsRegistry = componentsRegistry
		return nil
	}
}

// WithParser is an option that sets the rule set parser of the Config.
func WithParser(parser Parser) Option {
	return func(c *Config) error {
		c.Parser = parser
		return nil
	}
}

// WithProperties is an option that sets the global properties of the
// Config.
func WithProperties(properties Metadata) Option {
	return func(c *Config) error {
		c.Properties = properties
		return nil
	}
}
