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

// Package schedule emits events on cron schedules.
//
// Expressions use the six-field format with seconds:
//
//	Field name   | Mandatory? | Allowed values  | Allowed special characters
//	----------   | ---------- | --------------  | --------------------------
//	Seconds      | Yes        | 0-59            | * / , -
//	Minutes      | Yes        | 0-59            | * / , -
//	Hours        | Yes        | 0-23            | * / , -
//	Day of month | Yes        | 1-31            | * / , - ?
//	Month        | Yes        | 1-12 or JAN-DEC | * / , -
//	Day of week  | Yes        | 0-6 or SUN-SAT  | * / , - ?
//
// The special expressions @yearly, @monthly, @weekly, @daily and
// @hourly are supported as well.
package schedule

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofrs/uuid/v5"
	"github.com/robfig/cron/v3"

	"github.com/MichRacz00/eca/api/types"
)

// Schedule is a cron-driven event source.
type Schedule struct {
	id     string
	target types.EventReceiver
	logger types.Logger
	cron   *cron.Cron
}

// Ensuring Schedule implements types.Endpoint.
var _ types.Endpoint = (*Schedule)(nil)

// New creates a Schedule endpoint delivering to target.
func New(ruleConfig types.Config, target types.EventReceiver) *Schedule {
	uuId, _ := uuid.NewV4()
	return &Schedule{
		id:     uuId.String(),
		target: target,
		logger: types.NewLogger(ruleConfig.Logger),
		cron:   cron.New(cron.WithSeconds()),
	}
}

// Type returns the endpoint type.
func (schedule *Schedule) Type() string {
	return "schedule"
}

// Id returns the endpoint instance id.
func (schedule *Schedule) Id() string {
	return schedule.id
}

// AddJob emits an event with the given name and attributes every time
// the cron expression fires. Each firing constructs a fresh event, the
// data mapping is the template copied per firing. It returns the job id
// usable with RemoveJob.
func (schedule *Schedule) AddJob(cronExpr string, eventName string, data map[string]interface{}) (string, error) {
	if eventName == "" {
		return "", errors.New("event name can not be empty")
	}
	if schedule.cron == nil {
		schedule.cron = cron.New(cron.WithSeconds())
	}
	id, err := schedule.cron.AddFunc(cronExpr, func() {
		schedule.handler(eventName, data)
	})
	if err != nil {
		return "", err
	}
	return strconv.Itoa(int(id)), nil
}

// RemoveJob cancels a job.
func (schedule *Schedule) RemoveJob(jobId string) error {
	entryID, err := strconv.Atoi(jobId)
	if err != nil {
		return fmt.Errorf("%s it is an illegal job id", jobId)
	}
	if schedule.cron != nil {
		schedule.cron.Remove(cron.EntryID(entryID))
	}
	return nil
}

// Start begins firing jobs. It does not block.
func (schedule *Schedule) Start() error {
	if schedule.cron == nil {
		return errors.New("cron has not been initialized yet")
	}
	schedule.cron.Start()
	return nil
}

// Close stops firing. Running handlers finish.
func (schedule *Schedule) Close() error {
	if schedule.cron != nil {
		schedule.cron.Stop()
		schedule.cron = nil
	}
	return nil
}

func (schedule *Schedule) handler(eventName string, data map[string]interface{}) {
	defer func() {
		if e := recover(); e != nil {
			schedule.logger.Printf("schedule handler err :%v", e)
		}
	}()
	schedule.target.Enqueue(types.NewEvent(eventName, data))
}
