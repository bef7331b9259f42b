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
	"sync"
	"sync/atomic"

	"github.com/gofrs/uuid/v5"

	"github.com/MichRacz00/eca/api/types"
)

// Ensuring Context implements types.EventReceiver.
var _ types.EventReceiver = (*Context)(nil)

// Context is an isolated execution context: a variable scope, a FIFO
// event queue and a run loop that dispatches queued events against a
// rule registry. Scope and queue are owned exclusively, two contexts
// never share them. Enqueue may be called from any goroutine, dispatch
// within one context is strictly sequential.
type Context struct {
	id       string
	config   types.Config
	registry *Registry
	scope    *types.Scope
	queue    *eventQueue
	trace    bool
	done     atomic.Bool
	stopped  chan struct{}
	starting sync.Once
}

// ContextOption modifies a Context at construction time.
type ContextOption func(*Context)

// WithTrace enables diagnostic trace output through the configured
// logger: one line per received event, dispatched event and selected
// rule. The line format is not a stability contract.
func WithTrace() ContextOption {
	return func(c *Context) {
		c.trace = true
	}
}

// WithId overrides the generated context id.
func WithId(id string) ContextOption {
	return func(c *Context) {
		if id != "" {
			c.id = id
		}
	}
}

// NewContext creates a context dispatching against the given registry.
func NewContext(registry *Registry, config types.Config, opts ...ContextOption) *Context {
	if registry == nil {
		registry = NewRegistry()
	}
	if config.Logger == nil {
		config.Logger = types.DefaultLogger()
	}
	if config.PollInterval <= 0 {
		config.PollInterval = types.NewConfig().PollInterval
	}
	uuId, _ := uuid.NewV4()
	c := &Context{
		id:       uuId.String(),
		config:   config,
		registry: registry,
		scope:    types.NewScope(),
		queue:    newEventQueue(),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Id returns the context id.
func (c *Context) Id() string {
	return c.id
}

// Scope returns the variable namespace owned by this context.
func (c *Context) Scope() *types.Scope {
	return c.scope
}

// Registry returns the rule registry this context dispatches against.
func (c *Context) Registry() *Registry {
	return c.registry
}

// QueueLen returns the number of events waiting to be dispatched.
func (c *Context) QueueLen() int {
	return c.queue.len()
}

// Enqueue delivers an event to this context. It is safe from any
// goroutine and returns once the event is queued.
func (c *Context) Enqueue(event types.Event) {
	c.tracef("received event: %s", event)
	c.queue.push(event)
}

// Start begins processing queued events on a new goroutine. Subsequent
// calls are no-ops.
func (c *Context) Start() {
	c.starting.Do(func() {
		go c.run()
	})
}

// Stop requests cooperative termination. The run loop observes the
// flag after its current wait or dispatch finishes, so termination
// takes at most one poll interval once the queue is idle. Events still
// queued at that point are not dispatched.
func (c *Context) Stop() {
	c.done.Store(true)
}

// Done reports whether termination has been requested.
func (c *Context) Done() bool {
	return c.done.Load()
}

// Stopped is closed when the run loop has exited.
func (c *Context) Stopped() <-chan struct{} {
	return c.stopped
}

// run is the main event loop. The goroutine is bound to this context
// for its whole lifetime, so rule actions can emit follow-up events
// without being handed the context explicitly.
func (c *Context) run() {
	defer close(c.stopped)
	ctx := types.WithCurrent(context.Background(), c)
	for !c.done.Load() {
		c.handleOne(ctx)
	}
}

// handleOne dispatches a single event, or times out after receiving
// nothing within the poll interval.
func (c *Context) handleOne(ctx context.Context) {
	event, ok := c.queue.poll(c.config.PollInterval)
	if !ok {
		// timeout, loop to check the termination flag
		return
	}
	c.tracef("working on event: %s", event)
	c.dispatch(ctx, event)
}

// dispatch runs the matching algorithm for one event: filter the
// registry by event name, evaluate each candidate's conditions in
// order, run the actions of the rules that match. Candidates run in
// registration order and see scope mutations made by earlier rules of
// the same dispatch. A condition or action error skips only that rule.
func (c *Context) dispatch(ctx context.Context, event types.Event) {
	for _, r := range c.registry.Candidates(event.Name()) {
		matched, err := r.Matches(ctx, c.scope, event)
		if err != nil {
			c.onRuleError(r, event, err)
			continue
		}
		if !matched {
			continue
		}
		c.tracef("rule: %s", r.Name())
		if err := r.Run(ctx, c.scope, event); err != nil {
			c.onRuleError(r, event, err)
		}
	}
}

// onRuleError applies the isolate-and-log failure policy.
func (c *Context) onRuleError(r *Rule, event types.Event, err error) {
	c.config.Logger.Printf("context %s: rule %s failed on %s: %v", c.id, r.Name(), event, err)
	if c.config.OnRuleError != nil {
		c.config.OnRuleError(c.id, r.Name(), event, err)
	}
}

func (c *Context) tracef(format string, v ...interface{}) {
	if c.trace {
		c.config.Logger.Printf("("+format+")", v...)
	}
}
