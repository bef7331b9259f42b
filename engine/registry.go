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
	"sync"

	"github.com/MichRacz00/eca/api/types"
)

// Registry is a set of rules shared by any number of contexts. Entries
// are unique by rule handle identity and kept in registration order,
// which is the dispatch order for rules matching the same event.
//
// Registration is guarded for convenience, but the engine expects a
// setup-then-run discipline: registering rules while contexts are
// dispatching is the caller's responsibility to avoid.
type Registry struct {
	mu    sync.RWMutex
	rules []*Rule
	index map[*Rule]struct{}
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[*Rule]struct{}),
	}
}

// Register inserts the rule if it is not present. Registering the same
// handle again is a no-op, the registry holds exactly one entry per
// handle no matter how many registration calls reference it.
func (reg *Registry) Register(r *Rule) *Rule {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.register(r)
	return r
}

// register inserts without locking. Callers hold reg.mu.
func (reg *Registry) register(r *Rule) {
	if _, ok := reg.index[r]; ok {
		return
	}
	reg.index[r] = struct{}{}
	reg.rules = append(reg.rules, r)
}

// AttachEvent adds event names to the rule, inserting the rule into the
// registry first if needed. It may be combined with AttachCondition in
// any order and any number of times.
func (reg *Registry) AttachEvent(r *Rule, eventNames ...string) *Rule {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.register(r)
	for _, name := range eventNames {
		r.addEvent(name)
	}
	return r
}

// AttachCondition appends conditions to the rule, inserting the rule
// into the registry first if needed.
func (reg *Registry) AttachCondition(r *Rule, conditions ...types.Condition) *Rule {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.register(r)
	for _, condition := range conditions {
		r.addCondition(condition)
	}
	return r
}

// Rules returns a snapshot of all rules in registration order.
func (reg *Registry) Rules() []*Rule {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Rule, len(reg.rules))
	copy(out, reg.rules)
	return out
}

// Candidates returns the rules reacting to the event name, in
// registration order. Conditions are not evaluated here.
func (reg *Registry) Candidates(eventName string) []*Rule {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	var candidates []*Rule
	for _, r := range reg.rules {
		if r.ReactsTo(eventName) {
			candidates = append(candidates, r)
		}
	}
	return candidates
}

// Len returns the number of registered rules.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rules)
}
