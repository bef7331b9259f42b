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

import (
	"testing"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/test/assert"
)

func TestDbClientInit(t *testing.T) {
	x := &DbClient{}
	err := x.Init(types.NewConfig(), types.Configuration{
		"sql":    "insert into audit (usr) values (?)",
		"params": []interface{}{"${event.user}"},
	})
	assert.Nil(t, err)
	assert.Equal(t, "mysql", x.Config.DriverName)
	assert.Equal(t, opInsert, x.opType)
}

func TestDbClientInitPostgresPlaceholders(t *testing.T) {
	x := &DbClient{}
	err := x.Init(types.NewConfig(), types.Configuration{
		"driverName": "postgres",
		"sql":        "update audit set usr = ? where id = ?",
	})
	assert.Nil(t, err)
	assert.Equal(t, "update audit set usr = $1 where id = $2", x.Config.Sql)
	assert.Equal(t, opUpdate, x.opType)
}

func TestDbClientInitRejectsEmptySql(t *testing.T) {
	x := &DbClient{}
	err := x.Init(types.NewConfig(), types.Configuration{"sql": ""})
	assert.NotNil(t, err)
}

func TestDbClientInitRejectsUnsupportedStatement(t *testing.T) {
	x := &DbClient{}
	err := x.Init(types.NewConfig(), types.Configuration{"sql": "drop table audit"})
	assert.NotNil(t, err)
}

func TestGetOpType(t *testing.T) {
	assert.Equal(t, opSelect, getOpType("  select * from audit"))
	assert.Equal(t, opInsert, getOpType("INSERT INTO audit values (?)"))
	assert.Equal(t, opDelete, getOpType("delete from audit"))
	assert.Equal(t, opUpdate, getOpType("Update audit set usr = ?"))
	assert.Equal(t, "", getOpType("   "))
}
