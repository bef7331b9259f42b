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

import (
	"context"
	"errors"
)

// ErrNoCurrentContext is returned by Emit when the calling goroutine is
// not bound to any execution context.
var ErrNoCurrentContext = errors.New("no current context")

// currentKey is the context.Context key of the current-context binding.
type currentKey struct{}

// WithCurrent binds receiver as the current execution context for every
// call that receives the returned context.Context. Bindings nest: a
// derived binding shadows the outer one for its dynamic extent only and
// the outer binding is restored simply by using the parent context
// again, on every exit path. The run loop of each engine context binds
// itself before dispatching rules, so actions rarely call this
// directly. It exists for ad-hoc switches, such as feeding events into
// a context from setup code or from another context's action.
func WithCurrent(parent context.Context, receiver EventReceiver) context.Context {
	return context.WithValue(parent, currentKey{}, receiver)
}

// CurrentFrom returns the current-context binding of ctx, if any.
func CurrentFrom(ctx context.Context) (EventReceiver, bool) {
	receiver, ok := ctx.Value(currentKey{}).(EventReceiver)
	return receiver, ok
}

// Emit constructs a new event and delivers it to the queue of the
// currently bound execution context. Delivery is fire and forget: Emit
// returns once the event is enqueued, before any rule reacts to it.
// It fails with ErrNoCurrentContext when no context is bound and with a
// plain error when the event name is empty.
func Emit(ctx context.Context, name string, data map[string]interface{}) error {
	if name == "" {
		return errors.New("event name can not be empty")
	}
	receiver, ok := CurrentFrom(ctx)
	if !ok {
		return ErrNoCurrentContext
	}
	receiver.Enqueue(NewEvent(name, data))
	return nil
}
