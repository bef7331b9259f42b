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

// Package str provides the string helpers used across components:
// ${} variable templates, value stringification and random ids.
package str

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/MichRacz00/eca/utils/json"
	"github.com/MichRacz00/eca/utils/maps"
)

// matches ${aa} or ${aa.bb}
var tplVarRegex = regexp.MustCompile(`\$\{ *([^}]+) *\}`)

// CheckHasVar reports whether the string contains a ${} placeholder.
func CheckHasVar(str string) bool {
	return strings.Contains(str, "${") && strings.Contains(str, "}")
}

// ExecuteTemplate replaces ${key} placeholders in original with values
// from dict. Nested paths are supported, e.g. ${event.user}. Unmatched
// placeholders are left as they are.
func ExecuteTemplate(original string, dict map[string]interface{}) string {
	return tplVarRegex.ReplaceAllStringFunc(original, func(s string) string {
		matches := tplVarRegex.FindStringSubmatch(s)
		if len(matches) < 2 {
			return s
		}
		v := maps.Get(dict, strings.TrimSpace(matches[1]))
		if v == nil {
			return s
		}
		return ToString(v)
	})
}

// ExecuteTemplateValue resolves a template that consists of a single
// placeholder to the raw value, preserving its type; otherwise it falls
// back to ExecuteTemplate. Used for SQL parameters where "${event.n}"
// should stay an int.
func ExecuteTemplateValue(original string, dict map[string]interface{}) interface{} {
	trimmed := strings.TrimSpace(original)
	matches := tplVarRegex.FindStringSubmatch(trimmed)
	if len(matches) == 2 && matches[0] == trimmed {
		if v := maps.Get(dict, strings.TrimSpace(matches[1])); v != nil {
			return v
		}
		return original
	}
	return ExecuteTemplate(original, dict)
}

// ConvertDollarPlaceholder rewrites ? placeholders to the $n style used
// by the postgres driver.
func ConvertDollarPlaceholder(sql, dbType string) string {
	if dbType == "postgres" {
		n := 1
		for strings.Contains(sql, "?") {
			sql = strings.Replace(sql, "?", fmt.Sprintf("$%d", n), 1)
			n++
		}
	}
	return sql
}

const randomStrOptions = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const randomStrOptionsLen = len(randomStrOptions)

// RandomStr creates a random string of the given length.
func RandomStr(num int) string {
	var builder strings.Builder
	for i := 0; i < num; i++ {
		builder.WriteByte(randomStrOptions[rand.Intn(randomStrOptionsLen)])
	}
	return builder.String()
}

// ToString converts the value to a string, ignoring errors.
func ToString(input interface{}) string {
	if input == nil {
		return ""
	}
	switch v := input.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	default:
		if b, err := json.Marshal(input); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", input)
	}
}
