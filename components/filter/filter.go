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

// Package filter provides the built-in condition components: expression
// and JavaScript predicates evaluated against the context scope and the
// incoming event.
package filter

import "github.com/MichRacz00/eca/api/types"

// Registry holds the condition components provided by this package.
var Registry = new(types.ComponentList)

// Evn builds the variable environment shared by the condition
// components: the event name, id, timestamp and attributes plus a
// snapshot of the scope.
func Evn(scope *types.Scope, event types.Event) map[string]interface{} {
	return map[string]interface{}{
		"name":  event.Name(),
		"id":    event.Id(),
		"ts":    event.Ts(),
		"event": event.Data(),
		"scope": scope.Values(),
	}
}
