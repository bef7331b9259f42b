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

func newJsFilter(t *testing.T, script string) *JsFilter {
	t.Helper()
	x := &JsFilter{}
	err := x.Init(types.NewConfig(), types.Configuration{"script": script})
	assert.Nil(t, err)
	return x
}

func TestJsFilter(t *testing.T) {
	x := newJsFilter(t, "function Filter(scope, event) { return event.user === 'admin'; }")
	defer x.Destroy()
	scope := types.NewScope()

	ok, err := x.Check(context.Background(), scope, types.NewEvent("login", map[string]interface{}{"user": "admin"}))
	assert.Nil(t, err)
	assert.True(t, ok)

	ok, err = x.Check(context.Background(), scope, types.NewEvent("login", map[string]interface{}{"user": "guest"}))
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestJsFilterSeesScopeAndMetaFields(t *testing.T) {
	x := newJsFilter(t, "function Filter(scope, event) { return event.$name === 'tick' && scope.armed === true; }")
	defer x.Destroy()

	scope := types.NewScope()
	scope.Set("armed", true)
	ok, err := x.Check(context.Background(), scope, types.NewEvent("tick", nil))
	assert.Nil(t, err)
	assert.True(t, ok)

	scope.Set("armed", false)
	ok, err = x.Check(context.Background(), scope, types.NewEvent("tick", nil))
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestJsFilterNonBoolReturn(t *testing.T) {
	x := newJsFilter(t, "function Filter(scope, event) { return 'yes'; }")
	defer x.Destroy()
	_, err := x.Check(context.Background(), types.NewScope(), types.NewEvent("tick", nil))
	assert.NotNil(t, err)
}

func TestJsFilterSyntaxError(t *testing.T) {
	x := &JsFilter{}
	err := x.Init(types.NewConfig(), types.Configuration{"script": "function Filter(scope, event) {"})
	assert.NotNil(t, err)
}
