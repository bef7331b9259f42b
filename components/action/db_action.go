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
//	  "type": "dbClient",
//	  "configuration": {
//	    "driverName": "mysql",
//	    "dsn": "root:root@tcp(127.0.0.1:3306)/test",
//	    "sql": "insert into audit (usr, at) values (?,?)",
//	    "params": ["${event.user}", "${ts}"]
//	  }
//	}
import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/MichRacz00/eca/api/types"
	"github.com/MichRacz00/eca/utils/maps"
	"github.com/MichRacz00/eca/utils/str"
)

func init() {
	Registry.Add(&DbClient{})
}

const (
	opSelect = "SELECT"
	opInsert = "INSERT"
	opDelete = "DELETE"
	opUpdate = "UPDATE"
)

// DbClientConfiguration configures the component.
type DbClientConfiguration struct {
	// DriverName is the database driver, mysql or postgres.
	DriverName string
	// Dsn is the connection string, see sql.Open.
	Dsn string
	// PoolSize is the maximum number of open connections.
	PoolSize int
	// Sql is the statement to run. ? placeholders are rewritten to the
	// $n style for postgres.
	Sql string
	// Params are the statement parameters. String parameters may use
	// ${event.key} and ${scope.key} placeholders; a parameter that is a
	// single placeholder keeps the raw value type.
	Params []interface{}
	// ScopeKey stores the rows of a SELECT into this scope variable.
	ScopeKey string
}

// DbClient is an action running one SQL statement per matched event.
type DbClient struct {
	Config DbClientConfiguration
	opType string

	mu     sync.Mutex
	client *sql.DB
}

// Type returns the component type.
func (x *DbClient) Type() string {
	return "dbClient"
}

func (x *DbClient) New() types.Component {
	return &DbClient{Config: DbClientConfiguration{
		DriverName: "mysql",
		Dsn:        "root:root@tcp(127.0.0.1:3306)/test",
	}}
}

// Init validates the statement. The connection is opened lazily on the
// first execution.
func (x *DbClient) Init(config types.Config, configuration types.Configuration) error {
	if err := maps.Map2Struct(configuration, &x.Config); err != nil {
		return err
	}
	if x.Config.DriverName == "" {
		x.Config.DriverName = "mysql"
	}
	if x.Config.Sql == "" {
		return errors.New("sql can not be empty")
	}
	x.Config.Sql = str.ConvertDollarPlaceholder(x.Config.Sql, x.Config.DriverName)
	x.opType = getOpType(x.Config.Sql)
	switch x.opType {
	case opSelect, opInsert, opDelete, opUpdate:
		return nil
	default:
		return fmt.Errorf("unsupported sql statement: %s", x.Config.Sql)
	}
}

// Execute resolves the parameters against the event and the scope and
// runs the statement.
func (x *DbClient) Execute(ctx context.Context, scope *types.Scope, event types.Event) error {
	client, err := x.getClient()
	if err != nil {
		return err
	}

	var params []interface{}
	if len(x.Config.Params) > 0 {
		evn := Evn(scope, event)
		params = make([]interface{}, len(x.Config.Params))
		for i, param := range x.Config.Params {
			if s, ok := param.(string); ok && str.CheckHasVar(s) {
				params[i] = str.ExecuteTemplateValue(s, evn)
			} else {
				params[i] = param
			}
		}
	}

	if x.opType == opSelect {
		rows, err := client.QueryContext(ctx, x.Config.Sql, params...)
		if err != nil {
			return err
		}
		defer rows.Close()
		result, err := rowsToMaps(rows)
		if err != nil {
			return err
		}
		if x.Config.ScopeKey != "" {
			scope.Set(x.Config.ScopeKey, result)
		}
		return nil
	}

	_, err = client.ExecContext(ctx, x.Config.Sql, params...)
	return err
}

// Destroy closes the connection pool.
func (x *DbClient) Destroy() {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.client != nil {
		_ = x.client.Close()
		x.client = nil
	}
}

func (x *DbClient) getClient() (*sql.DB, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.client != nil {
		return x.client, nil
	}
	client, err := sql.Open(x.Config.DriverName, x.Config.Dsn)
	if err != nil {
		return nil, err
	}
	if x.Config.PoolSize > 0 {
		client.SetMaxOpenConns(x.Config.PoolSize)
		client.SetMaxIdleConns(x.Config.PoolSize / 2)
	}
	x.client = client
	return x.client, nil
}

func getOpType(sqlStr string) string {
	words := strings.Fields(strings.TrimSpace(sqlStr))
	if len(words) == 0 {
		return ""
	}
	return strings.ToUpper(words[0])
}

// rowsToMaps scans all rows into a slice of column-name keyed maps.
func rowsToMaps(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var result []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err = rows.Scan(pointers...); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
			} else {
				row[column] = values[i]
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
