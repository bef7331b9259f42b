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

package js

import (
	"context"
	"testing"
	"time"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/test/assert"
)

func TestEngineExecute(t *testing.T) {
	engine, err := NewEngine(types.NewConfig(), "function Add(a, b) { return a + b; }", nil)
	assert.Nil(t, err)
	defer engine.Stop()

	out, err := engine.Execute(context.Background(), "Add", 2, 3)
	assert.Nil(t, err)
	assert.Equal(t, int64(5), out)
}

func TestEngineCompileError(t *testing.T) {
	_, err := NewEngine(types.NewConfig(), "function Broken( {", nil)
	assert.NotNil(t, err)
}

func TestEngineUnknownFunction(t *testing.T) {
	engine, err := NewEngine(types.NewConfig(), "function Known() { return 1; }", nil)
	assert.Nil(t, err)
	defer engine.Stop()

	_, err = engine.Execute(context.Background(), "Unknown")
	assert.NotNil(t, err)
}

func TestEngineFromVars(t *testing.T) {
	engine, err := NewEngine(types.NewConfig(), "function Greet() { return 'hello ' + who; }", map[string]interface{}{"who": "world"})
	assert.Nil(t, err)
	defer engine.Stop()

	out, err := engine.Execute(context.Background(), "Greet")
	assert.Nil(t, err)
	assert.Equal(t, "hello world", out)
}

func TestEngineGlobalProperties(t *testing.T) {
	config := types.NewConfig(types.WithProperties(types.BuildMetadata(map[string]string{"env": "test"})))
	engine, err := NewEngine(config, "function Env() { return global.env; }", nil)
	assert.Nil(t, err)
	defer engine.Stop()

	out, err := engine.Execute(context.Background(), "Env")
	assert.Nil(t, err)
	assert.Equal(t, "test", out)
}

func TestEngineUdf(t *testing.T) {
	config := types.NewConfig()
	config.RegisterUdf("double", "function double(x) { return x * 2; }")
	config.RegisterUdf("shout", func(s string) string { return s + "!" })

	engine, err := NewEngine(config, "function Use(x) { return shout(String(double(x))); }", nil)
	assert.Nil(t, err)
	defer engine.Stop()

	out, err := engine.Execute(context.Background(), "Use", 4)
	assert.Nil(t, err)
	assert.Equal(t, "8!", out)
}

func TestEngineExecutionTimeout(t *testing.T) {
	config := types.NewConfig(types.WithScriptMaxExecutionTime(50 * time.Millisecond))
	engine, err := NewEngine(config, "function Loop() { while (true) {} }", nil)
	assert.Nil(t, err)
	defer engine.Stop()

	_, err = engine.Execute(context.Background(), "Loop")
	assert.NotNil(t, err)
}
