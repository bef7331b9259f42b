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

// Package types defines the public contracts of the ECA rule engine:
// events, scopes, condition and action signatures, component lifecycle
// and engine configuration.
package types

import (
	"context"
	"sync"
)

// Condition is a rule guard. It is evaluated with the scope of the
// dispatching context and the incoming event and must report whether
// the rule may fire. Conditions should be free of observable side
// effects, the engine does not promise to evaluate all of them.
type Condition func(ctx context.Context, scope *Scope, event Event) (bool, error)

// Action is a rule body. It runs with the scope of the dispatching
// context and the matched event. The calling goroutine is bound to the
// dispatching context for the duration of the call, so the action may
// emit follow-up events via Emit.
type Action func(ctx context.Context, scope *Scope, event Event) error

// EventReceiver accepts events for later processing. It is implemented
// by the engine context and consumed by the endpoint packages. Enqueue
// is safe for use from any goroutine and returns once the event is
// queued, before it is dispatched.
type EventReceiver interface {
	Enqueue(event Event)
}

// Configuration holds the raw, untyped settings of a component as they
// appear in a rule set definition. Components decode it into their own
// typed Config struct during Init.
type Configuration map[string]interface{}

// Component is the lifecycle shared by condition and action components.
type Component interface {
	// Type returns the component type used in rule set definitions.
	Type() string
	// New creates a fresh instance of this component type.
	New() Component
	// Init configures the instance. It is called once before first use.
	Init(config Config, configuration Configuration) error
	// Destroy releases resources held by the instance.
	Destroy()
}

// ConditionComponent is a component usable as a rule condition.
type ConditionComponent interface {
	Component
	Check(ctx context.Context, scope *Scope, event Event) (bool, error)
}

// ActionComponent is a component usable as a rule action.
type ActionComponent interface {
	Component
	Execute(ctx context.Context, scope *Scope, event Event) error
}

// ComponentRegistry resolves component types to prototype instances.
type ComponentRegistry interface {
	// Register adds a component prototype. It returns an error if the
	// type is already taken.
	Register(component Component) error
	// Unregister removes a component type.
	Unregister(componentType string) error
	// NewComponent creates a fresh instance of the given type.
	NewComponent(componentType string) (Component, error)
	// GetComponents lists all registered prototypes by type.
	GetComponents() map[string]Component
}

// ComponentList collects the component prototypes provided by a single
// package, to be aggregated into a ComponentRegistry.
type ComponentList struct {
	mu         sync.Mutex
	components []Component
}

// Add appends a component prototype.
func (l *ComponentList) Add(component Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.components = append(l.components, component)
}

// Components returns the collected prototypes.
func (l *ComponentList) Components() []Component {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Component, len(l.components))
	copy(out, l.components)
	return out
}

// Endpoint is an event source that constructs events from an external
// transport and delivers them to an EventReceiver.
type Endpoint interface {
	// Type returns the endpoint type, e.g. "rest" or "mqtt".
	Type() string
	// Start begins accepting input. Whether it blocks is up to the
	// implementation, see the endpoint package docs.
	Start() error
	// Close stops the endpoint and releases its resources.
	Close() error
}
