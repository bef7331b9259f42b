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

// Package js runs JavaScript conditions and actions on the goja
// runtime. A compiled program is shared, ready-to-use VMs are pooled.
package js

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/MichRacz00/eca/api/types"
)

// GlobalKey is the name under which Config.Properties is exposed to
// scripts.
const GlobalKey = "global"

// Engine compiles a script once and executes its functions on pooled
// goja VMs.
type Engine struct {
	vmPool          sync.Pool
	config          types.Config
	program         *goja.Program
	udfProgramCache map[string]*goja.Program
}

// NewEngine compiles the script and the configured UDFs. fromVars are
// set on every VM before the script runs.
func NewEngine(config types.Config, script string, fromVars map[string]interface{}) (*Engine, error) {
	program, err := goja.Compile("", script, true)
	if err != nil {
		return nil, err
	}
	engine := &Engine{
		config:  config,
		program: program,
	}
	if err = engine.preCompileUdf(config); err != nil {
		return nil, err
	}
	engine.vmPool = sync.Pool{
		New: func() interface{} {
			return engine.newVm(config, fromVars)
		},
	}
	return engine, nil
}

// preCompileUdf compiles user defined functions given as script source.
func (g *Engine) preCompileUdf(config types.Config) error {
	udfProgramCache := make(map[string]*goja.Program)
	for k, v := range config.Udf {
		if src, ok := v.(string); ok {
			p, err := goja.Compile(k, src, true)
			if err != nil {
				return err
			}
			udfProgramCache[k] = p
		}
	}
	g.udfProgramCache = udfProgramCache
	return nil
}

func (g *Engine) newVm(config types.Config, fromVars map[string]interface{}) *goja.Runtime {
	vm := goja.New()

	for k, v := range fromVars {
		if err := vm.Set(k, v); err != nil {
			config.Logger.Printf("set fromVar %s error: %s", k, err.Error())
		}
	}
	if len(config.Properties.Values()) != 0 {
		if err := vm.Set(GlobalKey, config.Properties.Values()); err != nil {
			config.Logger.Printf("set global properties error: %s", err.Error())
		}
	}
	for k, v := range config.Udf {
		var err error
		if _, ok := v.(string); ok {
			if p, exists := g.udfProgramCache[k]; exists {
				_, err = vm.RunProgram(p)
			}
		} else {
			// native Go function
			err = vm.Set(k, v)
		}
		if err != nil {
			config.Logger.Printf("parse udf %s error: %s", k, err.Error())
		}
	}

	timer := g.startTimeout(vm)
	_, err := vm.RunProgram(g.program)
	g.stopTimeout(timer)
	if err != nil {
		config.Logger.Printf("js vm error: %s", err.Error())
	}
	return vm
}

// Execute calls the named function defined by the script. Arguments are
// converted to goja values, the result is exported back to Go.
func (g *Engine) Execute(ctx context.Context, functionName string, argumentList ...interface{}) (out interface{}, err error) {
	defer func() {
		if caught := recover(); caught != nil {
			err = fmt.Errorf("%s", caught)
		}
	}()

	vm := g.vmPool.Get().(*goja.Runtime)
	defer g.vmPool.Put(vm)

	var timer *time.Timer
	if g.config.ScriptMaxExecutionTime > 0 {
		timer = g.startTimeout(vm)
		defer g.stopTimeout(timer)
	}

	f, ok := goja.AssertFunction(vm.Get(functionName))
	if !ok {
		return nil, errors.New(functionName + " is not a function")
	}

	var params []goja.Value
	if len(argumentList) > 0 {
		params = make([]goja.Value, len(argumentList))
		for i, v := range argumentList {
			params[i] = vm.ToValue(v)
		}
	}

	res, err := f(goja.Undefined(), params...)
	if err != nil {
		return nil, err
	}
	return res.Export(), nil
}

// Stop releases the engine. Pooled VMs are reclaimed by the GC.
func (g *Engine) Stop() {
}

func (g *Engine) startTimeout(vm *goja.Runtime) *time.Timer {
	if g.config.ScriptMaxExecutionTime <= 0 {
		return nil
	}
	return time.AfterFunc(g.config.ScriptMaxExecutionTime, func() {
		vm.Interrupt("execution timeout")
	})
}

func (g *Engine) stopTimeout(timer *time.Timer) {
	if timer != nil {
		timer.Stop()
	}
}
