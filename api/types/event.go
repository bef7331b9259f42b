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
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

// ErrAttributeNotFound is returned by Event.Attr when the requested
// attribute is not present in the event data.
var ErrAttributeNotFound = errors.New("event attribute not found")

// Event is a named occurrence with an attribute mapping. Events are
// read-only after construction: every emission creates a fresh instance
// and the data mapping is copied on the way in and on the way out.
type Event struct {
	id   string
	ts   int64
	name string
	data map[string]interface{}
}

// NewEvent creates an event with a generated id and the current
// timestamp. The name must not be empty. A nil data mapping is treated
// as empty. The mapping is copied, later changes to the argument do not
// affect the event.
func NewEvent(name string, data map[string]interface{}) Event {
	uuId, _ := uuid.NewV4()
	return newEvent(uuId.String(), time.Now().UnixMilli(), name, data)
}

func newEvent(id string, ts int64, name string, data map[string]interface{}) Event {
	copied := make(map[string]interface{}, len(data))
	for k, v := range data {
		copied[k] = v
	}
	return Event{
		id:   id,
		ts:   ts,
		name: name,
		data: copied,
	}
}

// Id returns the unique id of this event instance.
func (e Event) Id() string {
	return e.id
}

// Ts returns the creation timestamp in unix milliseconds.
func (e Event) Ts() int64 {
	return e.ts
}

// Name returns the event name used for rule matching.
func (e Event) Name() string {
	return e.name
}

// Attr looks up a single attribute. It returns ErrAttributeNotFound
// wrapped with the attribute key if the attribute is absent.
func (e Event) Attr(key string) (interface{}, error) {
	v, ok := e.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAttributeNotFound, key)
	}
	return v, nil
}

// Has reports whether the attribute is present.
func (e Event) Has(key string) bool {
	_, ok := e.data[key]
	return ok
}

// Data returns a copy of the attribute mapping.
func (e Event) Data() map[string]interface{} {
	copied := make(map[string]interface{}, len(e.data))
	for k, v := range e.data {
		copied[k] = v
	}
	return copied
}

// String renders the event for diagnostics, e.g. 'login' with {user=admin}.
// Attributes are listed in sorted key order. The format is not a stability
// contract.
func (e Event) String() string {
	keys := make([]string, 0, len(e.data))
	for k := range e.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var dataStrings []string
	for _, k := range keys {
		dataStrings = append(dataStrings, fmt.Sprintf("%s=%v", k, e.data[k]))
	}
	return fmt.Sprintf("'%s' with {%s}", e.name, strings.Join(dataStrings, ", "))
}
