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
	"time"

	"github.com/MichRacz00/eca/api/types"
)

// eventQueue is an unbounded FIFO queue with a bounded-wait poll.
// Pushing never blocks, so emitting from inside a rule action cannot
// deadlock the loop that is draining the queue.
type eventQueue struct {
	mu     sync.Mutex
	items  []types.Event
	notify chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		notify: make(chan struct{}, 1),
	}
}

// push appends an event and wakes up a waiting poll.
func (q *eventQueue) push(event types.Event) {
	q.mu.Lock()
	q.items = append(q.items, event)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// pop removes and returns the oldest event.
func (q *eventQueue) pop() (types.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return types.Event{}, false
	}
	event := q.items[0]
	q.items = q.items[1:]
	return event, true
}

// poll returns the oldest event, waiting up to timeout for one to
// arrive. Returning with ok=false after the timeout is the expected
// periodic path that lets the run loop observe its termination flag.
func (q *eventQueue) poll(timeout time.Duration) (types.Event, bool) {
	if event, ok := q.pop(); ok {
		return event, true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-q.notify:
		return q.pop()
	case <-timer.C:
		// a push may have raced the timer
		return q.pop()
	}
}

// len returns the number of queued events.
func (q *eventQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
