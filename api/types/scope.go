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

import "sync"

// Scope is the mutable variable namespace of an execution context.
// A scope is owned by exactly one context, rules dispatched by that
// context read and write it sequentially. The lock only protects
// observers on other goroutines, such as endpoints or tests.
type Scope struct {
	mu   sync.RWMutex
	vars map[string]interface{}
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]interface{})}
}

// Get returns the value of a variable and whether it is set.
func (s *Scope) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[key]
	return v, ok
}

// Has reports whether the variable is set.
func (s *Scope) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Set stores a variable. Empty keys are ignored.
func (s *Scope) Set(key string, value interface{}) {
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[key] = value
}

// Delete removes a variable.
func (s *Scope) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vars, key)
}

// Values returns a snapshot copy of all variables.
func (s *Scope) Values() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make(map[string]interface{}, len(s.vars))
	for k, v := range s.vars {
		copied[k] = v
	}
	return copied
}

// Len returns the number of variables.
func (s *Scope) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vars)
}
