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

package clock_test

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timewave-computer/covenants/keeper/clock"
	"github.com/timewave-computer/covenants/types"
	clocktypes "github.com/timewave-computer/covenants/types/clock"
	"github.com/timewave-computer/covenants/utils"
	"github.com/timewave-computer/covenants/utils/mocks"
)

var (
	enqueue = clocktypes.ExecuteMsg{Enqueue: &struct{}{}}
	dequeue = clocktypes.ExecuteMsg{Dequeue: &struct{}{}}
	tick    = clocktypes.ExecuteMsg{Tick: &struct{}{}}
)

func setupClockTest(t *testing.T, msg clocktypes.InstantiateMsg) (*mocks.Chain, *clock.Keeper, utils.Account) {
	chain := mocks.NewChain(t, "clock")
	admin := utils.TestAccount()

	k := clock.NewKeeper(utils.ContractAccount("clock").Address, chain.StoreService("clock"), log.NewNopLogger(), chain.Router)
	chain.Deploy(t, k, "clock", admin.Address, msg)

	return chain, k, admin
}

func deployRecorders(t *testing.T, chain *mocks.Chain, ticks *[]string, labels ...string) []string {
	addresses := make([]string, 0, len(labels))
	for _, label := range labels {
		recorder := mocks.NewTickRecorder(utils.ContractAccount(label).Address, ticks)
		require.NoError(t, chain.Router.Register(recorder, label, ""))
		addresses = append(addresses, recorder.Address())
	}
	return addresses
}

func TestTickRotation(t *testing.T) {
	chain, k, _ := setupClockTest(t, clocktypes.InstantiateMsg{})
	var ticks []string
	registrants := deployRecorders(t, chain, &ticks, "a", "b", "c")

	// ARRANGE: A, B and C enqueue in that order.
	for _, registrant := range registrants {
		_, err := chain.Execute(registrant, k.Address(), enqueue)
		require.NoError(t, err)
	}

	// ACT: Anyone ticks four times.
	cranker := utils.TestAccount()
	for i := 0; i < 4; i++ {
		_, err := chain.Execute(cranker.Address, k.Address(), tick)
		require.NoError(t, err)
	}

	// ASSERT: Ticks are delivered round-robin.
	assert.Equal(t, []string{registrants[0], registrants[1], registrants[2], registrants[0]}, ticks)

	var order []string
	chain.Query(t, k.Address(), clocktypes.QueryMsg{TickOrder: &clocktypes.TickOrderQuery{}}, &order)
	assert.Equal(t, []string{registrants[1], registrants[2], registrants[0]}, order)
}

func TestTickEmptyQueue(t *testing.T) {
	chain, k, _ := setupClockTest(t, clocktypes.InstantiateMsg{})

	res, err := chain.Execute(utils.TestAccount().Address, k.Address(), tick)
	require.NoError(t, err)
	assert.Empty(t, res.Messages)
}

func TestEnqueue(t *testing.T) {
	chain, k, _ := setupClockTest(t, clocktypes.InstantiateMsg{})
	var ticks []string
	registrants := deployRecorders(t, chain, &ticks, "a")

	// ASSERT: Accounts without code cannot register.
	_, err := chain.Execute(utils.TestAccount().Address, k.Address(), enqueue)
	require.ErrorIs(t, err, clocktypes.ErrNotContract)

	_, err = chain.Execute(registrants[0], k.Address(), enqueue)
	require.NoError(t, err)

	// ASSERT: A second enqueue fails.
	_, err = chain.Execute(registrants[0], k.Address(), enqueue)
	require.ErrorIs(t, err, clocktypes.ErrAlreadyEnqueued)

	var queued bool
	chain.Query(t, k.Address(), clocktypes.QueryMsg{IsQueued: &clocktypes.IsQueuedQuery{Address: registrants[0]}}, &queued)
	assert.True(t, queued)
}

func TestDequeueIsIdempotent(t *testing.T) {
	chain, k, _ := setupClockTest(t, clocktypes.InstantiateMsg{})
	var ticks []string
	registrants := deployRecorders(t, chain, &ticks, "a", "b")

	_, err := chain.Execute(registrants[0], k.Address(), enqueue)
	require.NoError(t, err)

	// ACT: Dequeue twice, and dequeue a contract that never enqueued.
	for _, sender := range []string{registrants[0], registrants[0], registrants[1]} {
		_, err := chain.Execute(sender, k.Address(), dequeue)
		require.NoError(t, err)
	}

	var queue []string
	chain.Query(t, k.Address(), clocktypes.QueryMsg{Queue: &clocktypes.QueueQuery{}}, &queue)
	assert.Empty(t, queue)
}

func TestPause(t *testing.T) {
	chain, k, admin := setupClockTest(t, clocktypes.InstantiateMsg{})
	var ticks []string
	registrants := deployRecorders(t, chain, &ticks, "a", "b")

	_, err := chain.Execute(registrants[0], k.Address(), enqueue)
	require.NoError(t, err)

	// ACT: Only the admin can pause.
	_, err = chain.Migrate(utils.TestAccount().Address, k.Address(), clocktypes.MigrateMsg{Pause: &struct{}{}})
	require.ErrorIs(t, err, types.ErrUnauthorized)
	_, err = chain.Migrate(admin.Address, k.Address(), clocktypes.MigrateMsg{Pause: &struct{}{}})
	require.NoError(t, err)

	// ASSERT: Every execute variant fails while paused.
	_, err = chain.Execute(registrants[1], k.Address(), enqueue)
	require.ErrorIs(t, err, clocktypes.ErrPaused)
	_, err = chain.Execute(registrants[0], k.Address(), dequeue)
	require.ErrorIs(t, err, clocktypes.ErrPaused)
	_, err = chain.Execute(admin.Address, k.Address(), tick)
	require.ErrorIs(t, err, clocktypes.ErrPaused)

	// ASSERT: Nothing moved.
	var queue []string
	chain.Query(t, k.Address(), clocktypes.QueryMsg{Queue: &clocktypes.QueueQuery{}}, &queue)
	assert.Equal(t, []string{registrants[0]}, queue)
	assert.Empty(t, ticks)

	// ASSERT: Pausing twice fails.
	_, err = chain.Migrate(admin.Address, k.Address(), clocktypes.MigrateMsg{Pause: &struct{}{}})
	require.ErrorIs(t, err, clocktypes.ErrPaused)

	// ACT: Unpause.
	_, err = chain.Migrate(admin.Address, k.Address(), clocktypes.MigrateMsg{Unpause: &struct{}{}})
	require.NoError(t, err)

	_, err = chain.Execute(registrants[1], k.Address(), enqueue)
	require.NoError(t, err)
	_, err = chain.Execute(admin.Address, k.Address(), tick)
	require.NoError(t, err)
	_, err = chain.Execute(registrants[0], k.Address(), dequeue)
	require.NoError(t, err)
	assert.Equal(t, []string{registrants[0]}, ticks)
}

func TestTickWhitelist(t *testing.T) {
	cranker := utils.TestAccount()
	chain, k, admin := setupClockTest(t, clocktypes.InstantiateMsg{Whitelist: &[]string{cranker.Address}})
	var ticks []string
	registrants := deployRecorders(t, chain, &ticks, "a")

	_, err := chain.Execute(registrants[0], k.Address(), enqueue)
	require.NoError(t, err)

	_, err = chain.Execute(utils.TestAccount().Address, k.Address(), tick)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = chain.Execute(cranker.Address, k.Address(), tick)
	require.NoError(t, err)
	assert.Len(t, ticks, 1)

	// ASSERT: The whitelist cannot be emptied implicitly.
	_, err = chain.Migrate(admin.Address, k.Address(), clocktypes.MigrateMsg{ManageWhitelist: &clocktypes.ManageWhitelist{Remove: []string{cranker.Address}}})
	require.ErrorIs(t, err, clocktypes.ErrEmptyWhitelist)

	_, err = chain.Migrate(admin.Address, k.Address(), clocktypes.MigrateMsg{ClearWhitelist: &struct{}{}})
	require.NoError(t, err)

	_, err = chain.Execute(utils.TestAccount().Address, k.Address(), tick)
	require.NoError(t, err)

	var whitelist []string
	chain.Query(t, k.Address(), clocktypes.QueryMsg{Whitelist: &struct{}{}}, &whitelist)
	assert.Nil(t, whitelist)
}

func TestInvalidConfiguration(t *testing.T) {
	chain := mocks.NewChain(t, "clock")
	admin := utils.TestAccount()
	k := clock.NewKeeper(utils.ContractAccount("clock").Address, chain.StoreService("clock"), log.NewNopLogger(), chain.Router)
	require.NoError(t, chain.Router.Register(k, "clock", admin.Address))

	zero := uint64(0)
	_, err := chain.Router.Instantiate(chain.Ctx, k.Address(), types.MessageInfo{Sender: admin.Address}, mocks.MustJSON(clocktypes.InstantiateMsg{TickMaxGas: &zero}))
	require.ErrorIs(t, err, clocktypes.ErrZeroTickMaxGas)

	_, err = chain.Router.Instantiate(chain.Ctx, k.Address(), types.MessageInfo{Sender: admin.Address}, mocks.MustJSON(clocktypes.InstantiateMsg{Whitelist: &[]string{}}))
	require.ErrorIs(t, err, clocktypes.ErrEmptyWhitelist)

	_, err = chain.Router.Instantiate(chain.Ctx, k.Address(), types.MessageInfo{Sender: admin.Address}, []byte(`{}`))
	require.NoError(t, err)

	var gas uint64
	chain.Query(t, k.Address(), clocktypes.QueryMsg{TickMaxGas: &struct{}{}}, &gas)
	assert.Equal(t, clocktypes.DefaultTickMaxGas, gas)

	_, err = chain.Migrate(admin.Address, k.Address(), clocktypes.MigrateMsg{UpdateTickMaxGas: &clocktypes.UpdateTickMaxGas{NewValue: 0}})
	require.ErrorIs(t, err, clocktypes.ErrZeroTickMaxGas)

	_, err = chain.Migrate(admin.Address, k.Address(), clocktypes.MigrateMsg{UpdateTickMaxGas: &clocktypes.UpdateTickMaxGas{NewValue: 500_000}})
	require.NoError(t, err)
	chain.Query(t, k.Address(), clocktypes.QueryMsg{TickMaxGas: &struct{}{}}, &gas)
	assert.Equal(t, uint64(500_000), gas)
}

func TestTickGasLimit(t *testing.T) {
	gasLimit := uint64(200_000)
	chain, k, _ := setupClockTest(t, clocktypes.InstantiateMsg{TickMaxGas: &gasLimit})
	reward := sdk.NewCoin("untrn", math.NewInt(10))

	burner := mocks.NewGasBurner(utils.ContractAccount("burner").Address, chain.Bank, reward, 10_000_000)
	require.NoError(t, chain.Router.Register(burner, "burner", ""))
	var ticks []string
	registrants := deployRecorders(t, chain, &ticks, "a")

	_, err := chain.Execute(burner.Address(), k.Address(), enqueue)
	require.NoError(t, err)
	_, err = chain.Execute(registrants[0], k.Address(), enqueue)
	require.NoError(t, err)

	// ACT: The burner runs out of gas.
	cranker := utils.TestAccount().Address
	_, err = chain.Execute(cranker, k.Address(), tick)

	// ASSERT: The tick itself succeeds, the burner's writes are dropped and
	// the queue still rotated.
	require.NoError(t, err)
	assert.True(t, chain.Bank.Balance(chain.Ctx, burner.Address(), "untrn").IsZero())

	var order []string
	chain.Query(t, k.Address(), clocktypes.QueryMsg{TickOrder: &clocktypes.TickOrderQuery{}}, &order)
	assert.Equal(t, []string{registrants[0], burner.Address()}, order)

	_, err = chain.Execute(cranker, k.Address(), tick)
	require.NoError(t, err)
	assert.Equal(t, []string{registrants[0]}, ticks)

	// ACT: Within budget the burner's writes commit.
	burner.Gas = 1_000
	_, err = chain.Execute(cranker, k.Address(), tick)
	require.NoError(t, err)
	assert.Equal(t, reward.Amount, chain.Bank.Balance(chain.Ctx, burner.Address(), "untrn"))
}
