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
	"testing"

	"github.com/MichRacz00/eca/test/assert"
)

// queueRecorder collects enqueued events.
type queueRecorder struct {
	events []Event
}

func (q *queueRecorder) Enqueue(event Event) {
	q.events = append(q.events, event)
}

func TestEmitWithoutCurrentContext(t *testing.T) {
	err := Emit(context.Background(), "tick", nil)
	assert.True(t, errors.Is(err, ErrNoCurrentContext))
}

func TestEmitEmptyName(t *testing.T) {
	q := &queueRecorder{}
	ctx := WithCurrent(context.Background(), q)
	err := Emit(ctx, "", nil)
	assert.NotNil(t, err)
	assert.False(t, errors.Is(err, ErrNoCurrentContext))
	assert.Equal(t, 0, len(q.events))
}

func TestEmitDeliversToCurrent(t *testing.T) {
	q := &queueRecorder{}
	ctx := WithCurrent(context.Background(), q)
	assert.Nil(t, Emit(ctx, "tick", map[string]interface{}{"n": 1}))
	assert.Equal(t, 1, len(q.events))
	assert.Equal(t, "tick", q.events[0].Name())
}

func TestNestedCurrentContext(t *testing.T) {
	outer := &queueRecorder{}
	inner := &queueRecorder{}

	ctx := WithCurrent(context.Background(), outer)
	assert.Nil(t, Emit(ctx, "outer-before", nil))

	// the inner binding shadows the outer one for its extent only
	func(ctx context.Context) {
		ctx = WithCurrent(ctx, inner)
		assert.Nil(t, Emit(ctx, "inner", nil))
	}(ctx)

	assert.Nil(t, Emit(ctx, "outer-after", nil))

	assert.Equal(t, 2, len(outer.events))
	assert.Equal(t, "outer-before", outer.events[0].Name())
	assert.Equal(t, "outer-after", outer.events[1].Name())
	assert.Equal(t, 1, len(inner.events))
	assert.Equal(t, "inner", inner.events[0].Name())
}

func TestNestedCurrentContextRestoredOnPanic(t *testing.T) {
	outer := &queueRecorder{}
	inner := &queueRecorder{}
	ctx := WithCurrent(context.Background(), outer)

	func() {
		defer func() {
			_ = recover()
		}()
		innerCtx := WithCurrent(ctx, inner)
		_ = Emit(innerCtx, "inner", nil)
		panic("inner scope failed")
	}()

	// the outer binding is intact after the abnormal exit
	current, ok := CurrentFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, EventReceiver(outer), current)
	assert.Nil(t, Emit(ctx, "outer", nil))
	assert.Equal(t, 1, len(outer.events))
}
