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

// RuleSetDefinition is the declarative form of a set of rules. Example:
//
//	{
//	  "rules": [
//	    {
//	      "name": "admin-login",
//	      "events": ["login"],
//	      "conditions": [
//	        {"type": "exprFilter", "configuration": {"expr": "event.user == 'admin'"}}
//	      ],
//	      "action": {"type": "jsAction", "configuration": {"script": "function Action(scope, event, emit) { emit('audit', {user: event.user}); }"}}
//	    }
//	  ]
//	}
type RuleSetDefinition struct {
	Rules []RuleDefinition `json:"rules"`
}

// RuleDefinition describes one rule: the event names it reacts to, its
// conditions in evaluation order and its action.
type RuleDefinition struct {
	// Name identifies the rule in trace output and error callbacks.
	Name string `json:"name"`
	// Events are the event names the rule reacts to. At least one is
	// required, a rule without event names can never match.
	Events []string `json:"events"`
	// Conditions are evaluated in the given order, all must hold.
	Conditions []ComponentDefinition `json:"conditions"`
	// Action runs when the rule matches.
	Action ComponentDefinition `json:"action"`
}

// ComponentDefinition references a registered component type together
// with its raw configuration.
type ComponentDefinition struct {
	Type          string        `json:"type"`
	Configuration Configuration `json:"configuration"`
}

// Parser decodes rule set definitions from their serialized form.
type Parser interface {
	DecodeRuleSet(def []byte) (RuleSetDefinition, error)
}
