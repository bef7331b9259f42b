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

package filter

import (
	"context"
	"testing"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/test/assert"
)

func newExprFilter(t *testing.T, expr string) *ExprFilter {
	t.Helper()
	x := &ExprFilter{}
	err := x.Init(types.NewConfig(), types.Configuration{"expr": expr})
	assert.Nil(t, err)
	return x
}

func TestExprFilterOnEventAttributes(t *testing.T) {
	x := newExprFilter(t, "event.temperature > 50")
	scope := types.NewScope()

	hot := types.NewEvent("reading", map[string]interface{}{"temperature": 60})
	ok, err := x.Check(context.Background(), scope, hot)
	assert.Nil(t, err)
	assert.True(t, ok)

	cold := types.NewEvent("reading", map[string]interface{}{"temperature": 20})
	ok, err = x.Check(context.Background(), scope, cold)
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestExprFilterOnScopeAndName(t *testing.T) {
	x := newExprFilter(t, "name == 'login' && scope.attempts < 3")
	scope := types.NewScope()
	scope.Set("attempts", 1)

	ok, err := x.Check(context.Background(), scope, types.NewEvent("login", nil))
	assert.Nil(t, err)
	assert.True(t, ok)

	scope.Set("attempts", 5)
	ok, err = x.Check(context.Background(), scope, types.NewEvent("login", nil))
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestExprFilterUndefinedVariable(t *testing.T) {
	// undefined attributes evaluate to nil, not an error
	x := newExprFilter(t, "event.missing == 'x'")
	ok, err := x.Check(context.Background(), types.NewScope(), types.NewEvent("any", nil))
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestExprFilterInitErrors(t *testing.T) {
	x := &ExprFilter{}
	assert.NotNil(t, x.Init(types.NewConfig(), types.Configuration{"expr": ""}))

	x = &ExprFilter{}
	assert.NotNil(t, x.Init(types.NewConfig(), types.Configuration{"expr": "1 +"}))
}
