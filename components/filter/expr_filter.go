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
//	  "type": "exprFilter",
//	  "configuration": {
//	    "expr": "event.temperature > 50"
//	  }
//	}
import (
	"context"
	"errors"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/utils/maps"
)

func init() {
	Registry.Add(&ExprFilter{})
}

// ExprFilterConfiguration configures the component.
type ExprFilterConfiguration struct {
	// Expr is the boolean expression. Event attributes are reachable as
	// `event.xx`, scope variables as `scope.xx`, the event name as
	// `name`.
	Expr string
}

// ExprFilter is a condition built from an expr-lang expression,
// compiled once at init time.
type ExprFilter struct {
	Config  ExprFilterConfiguration
	program *vm.Program
}

// Type returns the component type.
func (x *ExprFilter) Type() string {
	return "exprFilter"
}

func (x *ExprFilter) New() types.Component {
	return &ExprFilter{}
}

// Init compiles the expression.
func (x *ExprFilter) Init(config types.Config, configuration types.Configuration) error {
	if err := maps.Map2Struct(configuration, &x.Config); err != nil {
		return err
	}
	if x.Config.Expr == "" {
		return errors.New("expr can not be empty")
	}
	program, err := expr.Compile(x.Config.Expr, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return err
	}
	x.program = program
	return nil
}

// Check evaluates the expression.
func (x *ExprFilter) Check(ctx context.Context, scope *types.Scope, event types.Event) (bool, error) {
	out, err := vm.Run(x.program, Evn(scope, event))
	if err != nil {
		return false, err
	}
	result, ok := out.(bool)
	return ok && result, nil
}

// Destroy releases the component.
func (x *ExprFilter) Destroy() {
}
