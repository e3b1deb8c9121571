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

package host_test

import (
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timewave-computer/covenants/host"
	"github.com/timewave-computer/covenants/keeper/clock"
	"github.com/timewave-computer/covenants/types"
	clocktypes "github.com/timewave-computer/covenants/types/clock"
	"github.com/timewave-computer/covenants/utils"
	"github.com/timewave-computer/covenants/utils/mocks"
)

func TestCronTicksClock(t *testing.T) {
	chain := mocks.NewChain(t, "clock", "cron")
	admin := utils.TestAccount()
	cranker := utils.TestAccount()

	clockKeeper := clock.NewKeeper(utils.ContractAccount("clock").Address, chain.StoreService("clock"), log.NewNopLogger(), chain.Router)
	chain.Deploy(t, clockKeeper, "clock", admin.Address, clocktypes.InstantiateMsg{Whitelist: &[]string{cranker.Address}})

	var ticks []string
	recorder := mocks.NewTickRecorder(utils.ContractAccount("a").Address, &ticks)
	require.NoError(t, chain.Router.Register(recorder, "a", ""))
	_, err := chain.Execute(recorder.Address(), clockKeeper.Address(), clocktypes.ExecuteMsg{Enqueue: &struct{}{}})
	require.NoError(t, err)

	cron := host.NewCron(chain.StoreService("cron"), chain.Router, log.NewNopLogger())
	schedule := host.Schedule{
		Name:     "clock",
		Contract: clockKeeper.Address(),
		Sender:   cranker.Address,
		Period:   2,
		Msg:      mocks.MustJSON(clocktypes.ExecuteMsg{Tick: &struct{}{}}),
	}

	// ASSERT: Invalid schedules are rejected.
	invalid := schedule
	invalid.Period = 0
	require.ErrorIs(t, cron.AddSchedule(chain.Ctx, invalid), types.ErrInvalidConfig)
	invalid = schedule
	invalid.Contract = utils.ContractAccount("missing").Address
	require.ErrorIs(t, cron.AddSchedule(chain.Ctx, invalid), types.ErrContractNotFound)

	require.NoError(t, cron.AddSchedule(chain.Ctx, schedule))
	require.ErrorIs(t, cron.AddSchedule(chain.Ctx, schedule), types.ErrInvalidConfig)

	// ACT: Run blocks 2 through 5.
	for i := 0; i < 4; i++ {
		chain.Advance(1, 0)
		require.NoError(t, cron.BeginBlocker(chain.Ctx))
	}

	// ASSERT: The clock was ticked on even heights.
	assert.Len(t, ticks, 2)

	// ACT: A schedule that fails does not halt the block.
	stranger := schedule
	stranger.Name = "stranger"
	stranger.Sender = utils.TestAccount().Address
	stranger.Period = 1
	require.NoError(t, cron.AddSchedule(chain.Ctx, stranger))
	require.NoError(t, cron.RemoveSchedule(chain.Ctx, "clock"))

	chain.Advance(1, 0)
	require.NoError(t, cron.BeginBlocker(chain.Ctx))
	assert.Len(t, ticks, 2)
}
