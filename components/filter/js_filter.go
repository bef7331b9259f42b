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

// Rule definition example:
//
//	{
//	  "type": "jsFilter",
//	  "configuration": {
//	    "script": "function Filter(scope, event) { return event.user === 'admin'; }"
//	  }
//	}
import (
	"context"
	"errors"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/utils/js"
	"github.com/MichRacz00/eca/utils/maps"
)

func init() {
	Registry.Add(&JsFilter{})
}

// JsFilterConfiguration configures the component.
type JsFilterConfiguration struct {
	// Script must define `function Filter(scope, event)` returning a
	// boolean. scope is a snapshot of the context variables, event the
	// attribute mapping extended with the $name, $id and $ts fields.
	Script string
}

// JsFilter is a condition implemented by a JavaScript predicate.
type JsFilter struct {
	Config   JsFilterConfiguration
	jsEngine *js.Engine
}

// Type returns the component type.
func (x *JsFilter) Type() string {
	return "jsFilter"
}

func (x *JsFilter) New() types.Component {
	return &JsFilter{}
}

// Init compiles the script.
func (x *JsFilter) Init(config types.Config, configuration types.Configuration) error {
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

// Check calls the Filter function.
func (x *JsFilter) Check(ctx context.Context, scope *types.Scope, event types.Event) (bool, error) {
	out, err := x.jsEngine.Execute(ctx, "Filter", scope.Values(), jsEventArg(event))
	if err != nil {
		return false, err
	}
	result, ok := out.(bool)
	if !ok {
		return false, errors.New("Filter return type is not bool")
	}
	return result, nil
}

// Destroy releases the component.
func (x *JsFilter) Destroy() {
	if x.jsEngine != nil {
		x.jsEngine.Stop()
	}
}

// jsEventArg is the event argument passed to scripts: the attributes
// plus $name, $id and $ts.
func jsEventArg(event types.Event) map[string]interface{} {
	arg := event.Data()
	arg["$name"] = event.Name()
	arg["$id"] = event.Id()
	arg["$ts"] = event.Ts()
	return arg
}
