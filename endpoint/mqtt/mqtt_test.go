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

package mqtt

import (
	"testing"

	"github.com/MichRacz00/eca/test/assert"
)

func TestEventNameFromTopic(t *testing.T) {
	assert.Equal(t, "temperature", EventNameFromTopic("sensors/room1/temperature"))
	assert.Equal(t, "temperature", EventNameFromTopic("sensors/room1/temperature/"))
	assert.Equal(t, "tick", EventNameFromTopic("tick"))
}

func TestDecodePayloadJsonObject(t *testing.T) {
	data := DecodePayload([]byte(`{"user":"admin","attempt":2}`))
	assert.Equal(t, "admin", data["user"])
	assert.Equal(t, float64(2), data["attempt"])
}

func TestDecodePayloadPlainText(t *testing.T) {
	data := DecodePayload([]byte("23.5"))
	assert.Equal(t, "23.5", data["payload"])

	data = DecodePayload([]byte("on"))
	assert.Equal(t, "on", data["payload"])
}

func TestDecodePayloadJsonArrayIsWrapped(t *testing.T) {
	data := DecodePayload([]byte(`[1,2,3]`))
	assert.Equal(t, "[1,2,3]", data["payload"])
}
