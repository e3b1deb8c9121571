// SPDX-License-Identifier: BUSL-1.1
//
// Copyright (C) 2025, NASD Inc. All rights reserved.
// Use of this software is governed by the Business Source License included
// in the LICENSE file of this repository and at www.mariadb.com/bsl11.
//
// ANY USE OF THE LICENSED WORK IN VIOLATION OF THIS LICENSE WILL AUTOMATICALLY
// TERMINATE YOUR RIGHTS UNDER THIS LICENSE FOR THE CURRENT AND ALL OTHER
// VERSIONS OF THE LICENSED WORK.
//
// THIS LICENSE DOES NOT GRANT YOU ANY RIGHT IN ANY TRADEMARK OR LOGO OF
// LICENSOR OR ITS AFFILIATES (PROVIDED THAT YOU MAY USE A TRADEMARK OR LOGO OF
// LICENSOR AS EXPRESSLY REQUIRED BY THIS LICENSE).
//
// TO THE EXTENT PERMITTED BY APPLICABLE LAW, THE LICENSED WORK IS PROVIDED ON
// AN "AS IS" BASIS. LICENSOR HEREBY DISCLAIMS ALL WARRANTIES AND CONDITIONS,
// EXPRESS OR IMPLIED, INCLUDING (WITHOUT LIMITATION) WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE, NON-INFRINGEMENT, AND
// TITLE.

package host

import (
	"context"
	"encoding/json"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	"cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
)

var SchedulePrefix = []byte("cron/schedule/")

// Schedule executes Msg on Contract as Sender every Period blocks.
type Schedule struct {
	Name     string          `json:"name"`
	Contract string          `json:"contract"`
	Sender   string          `json:"sender"`
	Period   uint64          `json:"period"`
	Msg      json.RawMessage `json:"msg"`
}

func (s Schedule) Validate() error {
	if s.Name == "" {
		return errors.Wrap(types.ErrInvalidConfig, "schedule name cannot be empty")
	}
	if s.Period == 0 {
		return errors.Wrapf(types.ErrInvalidConfig, "period of %s must be positive", s.Name)
	}
	if err := types.ValidateAddress(s.Sender, "sender"); err != nil {
		return err
	}
	if !json.Valid(s.Msg) {
		return errors.Wrapf(types.ErrInvalidConfig, "msg of %s is not valid json", s.Name)
	}
	return nil
}

// Cron executes contracts at the beginning of blocks. It is how a chain
// without an external cranker keeps its clock ticking.
type Cron struct {
	router *Router
	logger log.Logger

	Schedules collections.Map[string, Schedule]
}

func NewCron(store store.KVStoreService, router *Router, logger log.Logger) *Cron {
	builder := collections.NewSchemaBuilder(store)

	cron := &Cron{
		router: router,
		logger: logger.With("module", "cron"),

		Schedules: collections.NewMap(builder, collections.NewPrefix(SchedulePrefix), "schedules", collections.StringKey, types.JSONValue[Schedule]()),
	}

	if _, err := builder.Build(); err != nil {
		panic(err)
	}

	return cron
}

func (c *Cron) AddSchedule(ctx context.Context, schedule Schedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}
	if _, err := c.router.lookup(schedule.Contract); err != nil {
		return err
	}

	has, err := c.Schedules.Has(ctx, schedule.Name)
	if err != nil {
		return err
	}
	if has {
		return errors.Wrapf(types.ErrInvalidConfig, "schedule %s already exists", schedule.Name)
	}
	return c.Schedules.Set(ctx, schedule.Name, schedule)
}

// RemoveSchedule is a no-op for unknown names.
func (c *Cron) RemoveSchedule(ctx context.Context, name string) error {
	return c.Schedules.Remove(ctx, name)
}

// BeginBlocker runs every schedule due at the current height. A failing
// schedule is logged and rolled back without affecting the others.
func (c *Cron) BeginBlocker(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height := uint64(sdkCtx.BlockHeight())

	var due []Schedule
	err := c.Schedules.Walk(ctx, nil, func(_ string, schedule Schedule) (bool, error) {
		if height%schedule.Period == 0 {
			due = append(due, schedule)
		}
		return false, nil
	})
	if err != nil {
		return err
	}

	for _, schedule := range due {
		c.execute(sdkCtx, schedule)
	}
	return nil
}

func (c *Cron) execute(ctx sdk.Context, schedule Schedule) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("recovered panic while executing schedule", "schedule", schedule.Name, "err", r)
		}
	}()

	// Create a cached context for the execution.
	cachedCtx, commit := ctx.CacheContext()

	if _, err := c.router.Execute(cachedCtx, schedule.Contract, types.MessageInfo{Sender: schedule.Sender}, schedule.Msg); err != nil {
		c.logger.Error("failed to execute schedule", "schedule", schedule.Name, "err", err)
		return
	}

	// Commit the results.
	commit()
}
