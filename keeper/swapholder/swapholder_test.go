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

package swapholder_test

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timewave-computer/covenants/keeper/clock"
	"github.com/timewave-computer/covenants/keeper/swapholder"
	"github.com/timewave-computer/covenants/types"
	clocktypes "github.com/timewave-computer/covenants/types/clock"
	swaptypes "github.com/timewave-computer/covenants/types/swapholder"
	"github.com/timewave-computer/covenants/utils"
	"github.com/timewave-computer/covenants/utils/mocks"
)

type swapTest struct {
	chain  *mocks.Chain
	clock  *clock.Keeper
	holder *swapholder.Keeper
	config swaptypes.Config
}

func setupSwapTest(t *testing.T) swapTest {
	chain := mocks.NewChain(t, "clock", "holder")
	admin := utils.TestAccount()

	clockKeeper := clock.NewKeeper(utils.ContractAccount("clock").Address, chain.StoreService("clock"), log.NewNopLogger(), chain.Router)
	chain.Deploy(t, clockKeeper, "clock", admin.Address, clocktypes.InstantiateMsg{})

	config := swaptypes.Config{
		ClockAddress: clockKeeper.Address(),
		NextContract: utils.ContractAccount("splitter").Address,
		PartyA: swaptypes.SwapParty{
			Addr:          utils.TestAccount().Address,
			ProvidedDenom: "uatom",
			Amount:        math.NewInt(100),
		},
		PartyB: swaptypes.SwapParty{
			Addr:          utils.TestAccount().Address,
			ProvidedDenom: "untrn",
			Amount:        math.NewInt(300),
		},
		LockupConfig: types.ExpiresAtHeight(50),
	}

	holder := swapholder.NewKeeper(utils.ContractAccount("holder").Address, chain.StoreService("holder"), log.NewNopLogger(), chain.Bank)
	chain.Deploy(t, holder, "holder", admin.Address, config)

	return swapTest{chain: chain, clock: clockKeeper, holder: holder, config: config}
}

func (s swapTest) tick(t *testing.T) {
	_, err := s.chain.Execute(s.clock.Address(), s.holder.Address(), types.NewTickMsg())
	require.NoError(t, err)
}

func (s swapTest) state(t *testing.T) swaptypes.ContractState {
	var state swaptypes.ContractState
	s.chain.Query(t, s.holder.Address(), swaptypes.QueryMsg{ContractState: &struct{}{}}, &state)
	return state
}

func (s swapTest) queued(t *testing.T) bool {
	queued, err := s.clock.Queue.Contains(s.chain.Ctx, s.holder.Address())
	require.NoError(t, err)
	return queued
}

func TestSwapHolderForwards(t *testing.T) {
	s := setupSwapTest(t)
	require.True(t, s.queued(t))

	var deposit string
	s.chain.Query(t, s.holder.Address(), swaptypes.QueryMsg{DepositAddress: &struct{}{}}, &deposit)
	assert.Equal(t, s.holder.Address(), deposit)

	// ARRANGE: Party A deposits less than required.
	require.NoError(t, s.chain.Bank.Fund(s.chain.Ctx, s.holder.Address(), sdk.NewCoin("uatom", math.NewInt(100))))
	require.NoError(t, s.chain.Bank.Fund(s.chain.Ctx, s.holder.Address(), sdk.NewCoin("untrn", math.NewInt(299))))
	s.tick(t)
	require.Equal(t, swaptypes.Instantiated, s.state(t))

	// ACT: Party B completes its deposit.
	require.NoError(t, s.chain.Bank.Fund(s.chain.Ctx, s.holder.Address(), sdk.NewCoin("untrn", math.NewInt(1))))
	s.tick(t)

	// ASSERT: Both deposits moved to the next contract.
	assert.Equal(t, swaptypes.Complete, s.state(t))
	assert.Equal(t, math.NewInt(100), s.chain.Bank.Balance(s.chain.Ctx, s.config.NextContract, "uatom"))
	assert.Equal(t, math.NewInt(300), s.chain.Bank.Balance(s.chain.Ctx, s.config.NextContract, "untrn"))
	assert.False(t, s.queued(t))
}

func TestSwapHolderRefundsAfterLockup(t *testing.T) {
	s := setupSwapTest(t)

	// ARRANGE: Only party B deposits.
	require.NoError(t, s.chain.Bank.Fund(s.chain.Ctx, s.holder.Address(), sdk.NewCoin("untrn", math.NewInt(300))))

	// ACT: The lockup expires.
	s.chain.Advance(50, time.Hour)
	s.tick(t)

	// ASSERT: Party B is refunded and nothing is forwarded.
	assert.Equal(t, swaptypes.Expired, s.state(t))
	assert.Equal(t, math.NewInt(300), s.chain.Bank.Balance(s.chain.Ctx, s.config.PartyB.Addr, "untrn"))
	assert.True(t, s.chain.Bank.Balance(s.chain.Ctx, s.config.PartyA.Addr, "uatom").IsZero())
	assert.True(t, s.chain.Bank.Balance(s.chain.Ctx, s.config.NextContract, "untrn").IsZero())
	assert.False(t, s.queued(t))
}

func TestSwapHolderRejectsSameDenom(t *testing.T) {
	chain := mocks.NewChain(t, "holder")
	admin := utils.TestAccount()

	k := swapholder.NewKeeper(utils.ContractAccount("holder").Address, chain.StoreService("holder"), log.NewNopLogger(), chain.Bank)
	require.NoError(t, chain.Router.Register(k, "holder", admin.Address))

	party := swaptypes.SwapParty{Addr: utils.TestAccount().Address, ProvidedDenom: "uatom", Amount: math.NewInt(1)}
	config := swaptypes.Config{
		ClockAddress: utils.ContractAccount("clock").Address,
		NextContract: utils.ContractAccount("splitter").Address,
		PartyA:       party,
		PartyB:       party,
		LockupConfig: types.NeverExpires(),
	}

	_, err := chain.Router.Instantiate(chain.Ctx, k.Address(), types.MessageInfo{Sender: admin.Address}, mocks.MustJSON(config))
	require.ErrorIs(t, err, types.ErrInvalidConfig)
}
