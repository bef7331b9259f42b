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

// Package assert provides the small set of test assertions used across
// the repository.
package assert

import (
	"reflect"
	"testing"
)

// Equal fails the test if expected and actual are not deeply equal.
func Equal(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("expected %v, got %v", expected, actual)
	}
}

// NotEqual fails the test if expected and actual are deeply equal.
func NotEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if reflect.DeepEqual(expected, actual) {
		t.Errorf("expected values to differ, both are %v", actual)
	}
}

// True fails the test if value is false.
func True(t *testing.T, value bool) {
	t.Helper()
	if !value {
		t.Errorf("expected true, got false")
	}
}

// False fails the test if value is true.
func False(t *testing.T, value bool) {
	t.Helper()
	if value {
		t.Errorf("expected false, got true")
	}
}

// Nil fails the test if value is not nil.
func Nil(t *testing.T, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Errorf("expected nil, got %v", value)
	}
}

// NotNil fails the test if value is nil.
func NotNil(t *testing.T, value interface{}) {
	t.Helper()
	if isNil(value) {
		t.Errorf("expected a value, got nil")
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
