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
	"errors"
	"fmt"
	"sync"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/components/action"
	"github.com/MichRacz00/eca/components/filter"
)

// Registry is the default component registry. Rule set definitions
// loaded through this package resolve their condition and action types
// here.
var Registry = new(ComponentRegistry)

// register the built-in components
func init() {
	var components []types.Component
	components = append(components, filter.Registry.Components()...)
	components = append(components, action.Registry.Components()...)

	for _, component := range components {
		_ = Registry.Register(component)
	}
}

// Ensuring ComponentRegistry implements types.ComponentRegistry.
var _ types.ComponentRegistry = (*ComponentRegistry)(nil)

// ComponentRegistry maps component type names to prototype instances.
type ComponentRegistry struct {
	components map[string]types.Component
	sync.RWMutex
}

// Register adds a component prototype. It returns an error if the type
// name is already taken.
func (r *ComponentRegistry) Register(component types.Component) error {
	r.Lock()
	defer r.Unlock()
	if r.components == nil {
		r.components = make(map[string]types.Component)
	}
	if _, ok := r.components[component.Type()]; ok {
		return errors.New("the component already exists. type=" + component.Type())
	}
	r.components[component.Type()] = component
	return nil
}

// Unregister removes a component type.
func (r *ComponentRegistry) Unregister(componentType string) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.components[componentType]; !ok {
		return fmt.Errorf("component not found. type=%s", componentType)
	}
	delete(r.components, componentType)
	return nil
}

// NewComponent creates a fresh, uninitialized instance of the type.
func (r *ComponentRegistry) NewComponent(componentType string) (types.Component, error) {
	r.RLock()
	defer r.RUnlock()
	component, ok := r.components[componentType]
	if !ok {
		return nil, fmt.Errorf("component not found. type=%s", componentType)
	}
	return component.New(), nil
}

// GetComponents lists all registered prototypes by type.
func (r *ComponentRegistry) GetComponents() map[string]types.Component {
	r.RLock()
	defer r.RUnlock()
	components := make(map[string]types.Component, len(r.components))
	for componentType, component := range r.components {
		components[componentType] = component
	}
	return components
}
