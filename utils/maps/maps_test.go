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

package maps

import (
	"testing"

	"github.com/MichRacz00/eca/test/assert"
)

func TestMap2Struct(t *testing.T) {
	type target struct {
		Expr     string
		PoolSize int
	}
	var out target
	err := Map2Struct(map[string]interface{}{"expr": "1 > 0", "poolSize": 5}, &out)
	assert.Nil(t, err)
	assert.Equal(t, "1 > 0", out.Expr)
	assert.Equal(t, 5, out.PoolSize)
}

func TestGet(t *testing.T) {
	dict := map[string]interface{}{
		"name": "login",
		"event": map[string]interface{}{
			"user": "admin",
		},
	}
	assert.Equal(t, "login", Get(dict, "name"))
	assert.Equal(t, "admin", Get(dict, "event.user"))
	assert.Nil(t, Get(dict, "event.missing"))
	assert.Nil(t, Get(dict, "missing.path"))
	assert.Nil(t, Get(dict, "name.not-a-map"))
}
