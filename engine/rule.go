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

package engine

import (
	"context"
	"errors"
	"sort"

	"github.com/MichRacz00/eca/api/types"
)

// Rule is one event-condition-action unit: the set of event names it
// reacts to, its conditions in attachment order and its action. A Rule
// value is the identity handle used by the registry, attaching more
// event names or conditions mutates the same Rule rather than creating
// a second registry entry.
//
// Rules are assembled during a setup phase and are not mutated once
// dispatch is running.
type Rule struct {
	name       string
	events     map[string]struct{}
	conditions []types.Condition
	action     types.Action
}

// NewRule creates a rule handle around an action. The rule is inert
// until it is registered and at least one event name is attached.
func NewRule(name string, action types.Action) *Rule {
	return &Rule{
		name:   name,
		events: make(map[string]struct{}),
		action: action,
	}
}

// Name returns the rule name used in trace output and error callbacks.
func (r *Rule) Name() string {
	return r.name
}

// Events returns the attached event names in sorted order.
func (r *Rule) Events() []string {
	names := make([]string, 0, len(r.events))
	for name := range r.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReactsTo reports whether the rule reacts to the event name. A rule
// without attached event names reacts to nothing.
func (r *Rule) ReactsTo(eventName string) bool {
	_, ok := r.events[eventName]
	return ok
}

// Conditions returns the attached conditions in attachment order.
func (r *Rule) Conditions() []types.Condition {
	out := make([]types.Condition, len(r.conditions))
	copy(out, r.conditions)
	return out
}

// Matches evaluates the conditions in attachment order against the
// scope and the event. All conditions must hold. Evaluation stops at
// the first condition that fails or returns an error.
func (r *Rule) Matches(ctx context.Context, scope *types.Scope, event types.Event) (bool, error) {
	for _, condition := range r.conditions {
		ok, err := condition(ctx, scope, event)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Run invokes the action.
func (r *Rule) Run(ctx context.Context, scope *types.Scope, event types.Event) error {
	if r.action == nil {
		return errors.New("rule has no action: " + r.name)
	}
	return r.action(ctx, scope, event)
}

func (r *Rule) addEvent(eventName string) {
	if eventName != "" {
		r.events[eventName] = struct{}{}
	}
}

func (r *Rule) addCondition(condition types.Condition) {
	if condition != nil {
		r.conditions = append(r.conditions, condition)
	}
}
