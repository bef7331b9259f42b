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

package action

import (
	"context"
	"testing"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/test/assert"
)

// queueRecorder captures enqueued events.
type queueRecorder struct {
	events []types.Event
}

func (q *queueRecorder) Enqueue(event types.Event) {
	q.events = append(q.events, event)
}

func newJsAction(t *testing.T, script string) *JsAction {
	t.Helper()
	x := &JsAction{}
	err := x.Init(types.NewConfig(), types.Configuration{"script": script})
	assert.Nil(t, err)
	return x
}

func TestJsActionMergesReturnIntoScope(t *testing.T) {
	x := newJsAction(t, "function Action(scope, event, emit) { return {count: (scope.count || 0) + 1, last: event.$name}; }")
	defer x.Destroy()

	scope := types.NewScope()
	err := x.Execute(context.Background(), scope, types.NewEvent("tick", nil))
	assert.Nil(t, err)

	count, _ := scope.Get("count")
	assert.Equal(t, int64(1), count)
	last, _ := scope.Get("last")
	assert.Equal(t, "tick", last)
}

func TestJsActionEmit(t *testing.T) {
	x := newJsAction(t, "function Action(scope, event, emit) { emit('ticked', {n: event.n}); }")
	defer x.Destroy()

	recorder := &queueRecorder{}
	ctx := types.WithCurrent(context.Background(), recorder)

	err := x.Execute(ctx, types.NewScope(), types.NewEvent("tick", map[string]interface{}{"n": 7}))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(recorder.events))
	assert.Equal(t, "ticked", recorder.events[0].Name())
	n, err := recorder.events[0].Attr("n")
	assert.Nil(t, err)
	assert.Equal(t, int64(7), n)
}

func TestJsActionThrow(t *testing.T) {
	x := newJsAction(t, "function Action(scope, event, emit) { throw new Error('boom'); }")
	defer x.Destroy()
	err := x.Execute(context.Background(), types.NewScope(), types.NewEvent("tick", nil))
	assert.NotNil(t, err)
}

func TestJsActionSyntaxError(t *testing.T) {
	x := &JsAction{}
	err := x.Init(types.NewConfig(), types.Configuration{"script": "function Action(scope"})
	assert.NotNil(t, err)
}
