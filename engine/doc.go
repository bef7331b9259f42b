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

// Package engine implements the core of the ECA rule engine: the rule
// registry, the per-context run loop and the declarative rule set
// loader.
//
// An execution Context owns a variable scope and a FIFO event queue.
// Its run loop waits for queued events with a bounded poll, so that a
// cooperative Stop is observed within one poll interval, and dispatches
// each event against the shared rule Registry: rules whose event-name
// set contains the event name are candidates, a candidate fires when
// all of its conditions hold, fired actions run sequentially in
// registration order and share the context scope.
//
// Failure policy: a condition or action error terminates only that
// rule's dispatch for that event. The loop logs the error, invokes the
// configured OnRuleError callback and continues with the next
// candidate. The loop itself never aborts because of a rule failure.
//
// While an action runs, the dispatching goroutine is bound to its
// Context through the context.Context passed into the action, so code
// arbitrarily deep in the call chain can deliver follow-up events with
// types.Emit without threading the Context explicitly.
package engine
