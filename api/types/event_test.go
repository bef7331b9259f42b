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
	"errors"
	"testing"

	"github.com/MichRacz00/eca/test/assert"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent("login", map[string]interface{}{"user": "admin"})
	assert.Equal(t, "login", e.Name())
	assert.True(t, e.Id() != "")
	assert.True(t, e.Ts() > 0)

	v, err := e.Attr("user")
	assert.Nil(t, err)
	assert.Equal(t, "admin", v)
	assert.True(t, e.Has("user"))
	assert.False(t, e.Has("password"))
}

func TestEventAttrNotFound(t *testing.T) {
	e := NewEvent("login", nil)
	_, err := e.Attr("user")
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrAttributeNotFound))
}

func TestEventFreshInstances(t *testing.T) {
	e1 := NewEvent("tick", nil)
	e2 := NewEvent("tick", nil)
	assert.NotEqual(t, e1.Id(), e2.Id())
}

func TestEventImmutable(t *testing.T) {
	source := map[string]interface{}{"n": 1}
	e := NewEvent("tick", source)

	// mutating the source after construction changes nothing
	source["n"] = 2
	v, _ := e.Attr("n")
	assert.Equal(t, 1, v)

	// mutating the returned mapping changes nothing either
	e.Data()["n"] = 3
	v, _ = e.Attr("n")
	assert.Equal(t, 1, v)
}

func TestEventString(t *testing.T) {
	e := NewEvent("login", map[string]interface{}{"user": "admin", "attempt": 2})
	assert.Equal(t, "'login' with {attempt=2, user=admin}", e.String())

	empty := NewEvent("tick", nil)
	assert.Equal(t, "'tick' with {}", empty.String())
}
