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

package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/utils/json"
)

// JsonParser decodes rule set definitions from JSON.
type JsonParser struct {
}

// Ensuring JsonParser implements types.Parser.
var _ types.Parser = (*JsonParser)(nil)

// DecodeRuleSet parses a JSON rule set definition.
func (p *JsonParser) DecodeRuleSet(def []byte) (types.RuleSetDefinition, error) {
	var ruleSet types.RuleSetDefinition
	err := json.Unmarshal(def, &ruleSet)
	return ruleSet, err
}

// LoadRuleSet decodes a rule set definition and registers its rules.
// Conditions and actions are instantiated from the component registry
// in config. The returned handles are already registered. On any error
// nothing is registered.
func LoadRuleSet(def []byte, registry *Registry, config types.Config) ([]*Rule, error) {
	if registry == nil {
		return nil, errors.New("rule registry can not be nil")
	}
	parser := config.Parser
	if parser == nil {
		parser = &JsonParser{}
	}
	ruleSet, err := parser.DecodeRuleSet(def)
	if err != nil {
		return nil, err
	}

	rules := make([]*Rule, 0, len(ruleSet.Rules))
	for _, ruleDef := range ruleSet.Rules {
		r, err := buildRule(ruleDef, config)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	// register only after the whole set built
	for i, r := range rules {
		registry.Register(r)
		registry.AttachEvent(r, ruleSet.Rules[i].Events...)
	}
	return rules, nil
}

// buildRule instantiates the components of one rule definition.
func buildRule(ruleDef types.RuleDefinition, config types.Config) (*Rule, error) {
	if len(ruleDef.Events) == 0 {
		return nil, fmt.Errorf("rule %s: events can not be empty", ruleDef.Name)
	}
	if ruleDef.Action.Type == "" {
		return nil, fmt.Errorf("rule %s: action type can not be empty", ruleDef.Name)
	}
	if config.ComponentsRegistry == nil {
		return nil, errors.New("components registry can not be nil")
	}

	action, err := newActionComponent(ruleDef.Action, config)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", ruleDef.Name, err)
	}
	r := NewRule(ruleDef.Name, action)

	for _, conditionDef := range ruleDef.Conditions {
		condition, err := newConditionComponent(conditionDef, config)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", ruleDef.Name, err)
		}
		r.addCondition(condition)
	}
	return r, nil
}

func newConditionComponent(def types.ComponentDefinition, config types.Config) (types.Condition, error) {
	component, err := config.ComponentsRegistry.NewComponent(def.Type)
	if err != nil {
		return nil, err
	}
	conditionComponent, ok := component.(types.ConditionComponent)
	if !ok {
		return nil, fmt.Errorf("component is not a condition: %s", def.Type)
	}
	if err = conditionComponent.Init(config, def.Configuration); err != nil {
		return nil, err
	}
	return func(ctx context.Context, scope *types.Scope, event types.Event) (bool, error) {
		return conditionComponent.Check(ctx, scope, event)
	}, nil
}

func newActionComponent(def types.ComponentDefinition, config types.Config) (types.Action, error) {
	component, err := config.ComponentsRegistry.NewComponent(def.Type)
	if err != nil {
		return nil, err
	}
	actionComponent, ok := component.(types.ActionComponent)
	if !ok {
		return nil, fmt.Errorf("component is not an action: %s", def.Type)
	}
	if err = actionComponent.Init(config, def.Configuration); err != nil {
		return nil, err
	}
	return func(ctx context.Context, scope *types.Scope, event types.Event) error {
		return actionComponent.Execute(ctx, scope, event)
	}, nil
}
