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

// Rule definition example:
//
//	{
//	  "type": "jsAction",
//	  "configuration": {
//	    "script": "function Action(scope, event, emit) { emit('ticked', {n: scope.count}); }"
//	  }
//	}
import (
	"context"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/utils/js"
	"github.com/MichRacz00/eca/utils/maps"
)

func init() {
	Registry.Add(&JsAction{})
}

// JsActionConfiguration configures the component.
type JsActionConfiguration struct {
	// Script must define `function Action(scope, event, emit)`. scope
	// is a snapshot of the context variables, event the attribute
	// mapping extended with $name, $id and $ts, and emit a function
	// emitting a follow-up event to the dispatching context. Scope
	// writes must go through the returned object: return {key: value}
	// merges the returned mapping into the context scope.
	Script string
}

// JsAction is an action implemented by a JavaScript function.
type JsAction struct {
	Config   JsActionConfiguration
	jsEngine *js.Engine
}

// Type returns the component type.
func (x *JsAction) Type() string {
	return "jsAction"
}

func (x *JsAction) New() types.Component {
	return &JsAction{}
}

// Init compiles the script.
func (x *JsAction) Init(config types.Config, configuration types.Configuration) error {
	if err := maps.Map2Struct(configuration, &x.Config); err != nil {
		return err
	}
	jsEngine, err := js.NewEngine(config, x.Config.Script, nil)
	if err != nil {
		return err
	}
	x.jsEngine = jsEngine
	return nil
}

// Execute calls the Action function. A returned mapping is merged into
// the context scope.
func (x *JsAction) Execute(ctx context.Context, scope *types.Scope, event types.Event) error {
	arg := event.Data()
	arg["$name"] = event.Name()
	arg["$id"] = event.Id()
	arg["$ts"] = event.Ts()

	emit := func(name string, data map[string]interface{}) {
		_ = types.Emit(ctx, name, data)
	}

	out, err := x.jsEngine.Execute(ctx, "Action", scope.Values(), arg, emit)
	if err != nil {
		return err
	}
	if updates, ok := out.(map[string]interface{}); ok {
		for k, v := range updates {
			scope.Set(k, v)
		}
	}
	return nil
}

// Destroy releases the component.
func (x *JsAction) Destroy() {
	if x.jsEngine != nil {
		x.jsEngine.Stop()
	}
}
