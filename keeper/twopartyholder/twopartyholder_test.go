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

package twopartyholder_test

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timewave-computer/covenants/keeper/clock"
	"github.com/timewave-computer/covenants/keeper/liquidpooler"
	"github.com/timewave-computer/covenants/keeper/twopartyholder"
	"github.com/timewave-computer/covenants/types"
	clocktypes "github.com/timewave-computer/covenants/types/clock"
	lptypes "github.com/timewave-computer/covenants/types/liquidpooler"
	tphtypes "github.com/timewave-computer/covenants/types/twopartyholder"
	"github.com/timewave-computer/covenants/utils"
	"github.com/timewave-computer/covenants/utils/mocks"
)

type covenantTest struct {
	chain  *mocks.Chain
	admin  string
	clock  *clock.Keeper
	holder *twopartyholder.Keeper
	pooler *liquidpooler.Keeper
	partyA tphtypes.Party
	partyB tphtypes.Party
}

func setupCovenantTest(t *testing.T) covenantTest {
	chain := mocks.NewChain(t, "clock", "holder", "liquid_pooler")
	admin := utils.TestAccount()
	holderAddress := utils.ContractAccount("holder").Address
	poolerAddress := utils.ContractAccount("liquid_pooler").Address

	clockKeeper := clock.NewKeeper(utils.ContractAccount("clock").Address, chain.StoreService("clock"), log.NewNopLogger(), chain.Router)
	chain.Deploy(t, clockKeeper, "clock", admin.Address, clocktypes.InstantiateMsg{})

	pool := mocks.NewPool(utils.ContractAccount("pool").Address, chain.Bank, "uatom", "untrn", "factory/pair/lp")
	require.NoError(t, chain.Router.Register(pool, "pool", ""))
	require.NoError(t, pool.Seed(chain.Ctx, math.NewInt(2000), math.NewInt(1000)))

	pooler := liquidpooler.NewKeeper(poolerAddress, chain.StoreService("liquid_pooler"), log.NewNopLogger(), chain.Bank, chain.Router)
	chain.Deploy(t, pooler, "liquid_pooler", admin.Address, lptypes.InstantiateMsg{
		ClockAddress:  clockKeeper.Address(),
		HolderAddress: holderAddress,
		PoolAddress:   pool.Address(),
		PoolKind:      lptypes.PoolAstroport,
		AssetADenom:   "uatom",
		AssetBDenom:   "untrn",
		SingleSideLpLimits: lptypes.SingleSideLpLimits{
			AssetALimit: math.ZeroInt(),
			AssetBLimit: math.ZeroInt(),
		},
		PoolPriceConfig: lptypes.PoolPriceConfig{
			ExpectedSpotPrice:     math.LegacyNewDec(2),
			AcceptablePriceSpread: math.LegacyMustNewDecFromStr("0.2"),
		},
	})

	half := math.LegacyMustNewDecFromStr("0.5")
	partyA := tphtypes.Party{
		Addr:         utils.TestAccount().Address,
		Contribution: sdk.NewCoin("uatom", math.NewInt(1000)),
		Allocation:   half,
		Router:       utils.TestAccount().Address,
	}
	partyB := tphtypes.Party{
		Addr:         utils.TestAccount().Address,
		Contribution: sdk.NewCoin("untrn", math.NewInt(500)),
		Allocation:   half,
		Router:       utils.TestAccount().Address,
	}

	holder := twopartyholder.NewKeeper(holderAddress, chain.StoreService("holder"), log.NewNopLogger(), chain.Bank)
	chain.Deploy(t, holder, "holder", admin.Address, tphtypes.InstantiateMsg{
		ClockAddress:    clockKeeper.Address(),
		NextContract:    poolerAddress,
		PartyA:          partyA,
		PartyB:          partyB,
		DepositDeadline: types.ExpiresAtHeight(100),
		LockupConfig:    types.ExpiresAtTime(uint64(mocks.GenesisTime.Add(24 * time.Hour).UnixNano())),
		RagequitConfig: tphtypes.RagequitConfig{
			Enabled: &tphtypes.RagequitTerms{Penalty: math.LegacyMustNewDecFromStr("0.1")},
		},
	})

	return covenantTest{chain: chain, admin: admin.Address, clock: clockKeeper, holder: holder, pooler: pooler, partyA: partyA, partyB: partyB}
}

func (s covenantTest) tick(t *testing.T, contract string) {
	_, err := s.chain.Execute(s.clock.Address(), contract, types.NewTickMsg())
	require.NoError(t, err)
}

func (s covenantTest) state(t *testing.T) tphtypes.ContractState {
	var state tphtypes.ContractState
	s.chain.Query(t, s.holder.Address(), tphtypes.QueryMsg{ContractState: &struct{}{}}, &state)
	return state
}

func (s covenantTest) deposit(t *testing.T, party tphtypes.Party) {
	require.NoError(t, s.chain.Bank.Fund(s.chain.Ctx, party.Addr, party.Contribution))
	require.NoError(t, s.chain.Bank.SendCoins(s.chain.Ctx, types.MustAccAddress(party.Addr), types.MustAccAddress(s.holder.Address()), sdk.NewCoins(party.Contribution)))
}

// activate funds the covenant and provides the liquidity.
func (s covenantTest) activate(t *testing.T) {
	s.deposit(t, s.partyA)
	s.deposit(t, s.partyB)
	s.tick(t, s.holder.Address())
	require.Equal(t, tphtypes.Active, s.state(t))

	s.tick(t, s.pooler.Address())
	state, err := s.pooler.State.Current(s.chain.Ctx)
	require.NoError(t, err)
	require.Equal(t, lptypes.Complete, state)
}

func (s covenantTest) queued(t *testing.T) bool {
	queued, err := s.clock.Queue.Contains(s.chain.Ctx, s.holder.Address())
	require.NoError(t, err)
	return queued
}

func (s covenantTest) balance(party tphtypes.Party, denom string) math.Int {
	return s.chain.Bank.Balance(s.chain.Ctx, party.Router, denom)
}

func TestRagequit(t *testing.T) {
	s := setupCovenantTest(t)
	s.activate(t)

	// ASSERT: Only parties can ragequit.
	_, err := s.chain.Execute(utils.TestAccount().Address, s.holder.Address(), tphtypes.ExecuteMsg{Ragequit: &struct{}{}})
	require.ErrorIs(t, err, tphtypes.ErrNotParty)

	// ACT: Party A leaves early.
	_, err = s.chain.Execute(s.partyA.Addr, s.holder.Address(), tphtypes.ExecuteMsg{Ragequit: &struct{}{}})
	require.NoError(t, err)

	// ASSERT: A keeps 0.4 of the position, B receives 0.6.
	assert.Equal(t, tphtypes.Ragequit, s.state(t))
	assert.Equal(t, math.NewInt(400), s.balance(s.partyA, "uatom"))
	assert.Equal(t, math.NewInt(200), s.balance(s.partyA, "untrn"))
	assert.Equal(t, math.NewInt(600), s.balance(s.partyB, "uatom"))
	assert.Equal(t, math.NewInt(300), s.balance(s.partyB, "untrn"))

	// ASSERT: A second exit is rejected.
	_, err = s.chain.Execute(s.partyB.Addr, s.holder.Address(), tphtypes.ExecuteMsg{Ragequit: &struct{}{}})
	require.ErrorIs(t, err, types.ErrInvalidState)
}

func TestClaimAfterLockup(t *testing.T) {
	s := setupCovenantTest(t)
	s.activate(t)

	// ASSERT: Claims wait for the lockup.
	_, err := s.chain.Execute(s.partyB.Addr, s.holder.Address(), tphtypes.ExecuteMsg{Claim: &struct{}{}})
	require.ErrorIs(t, err, types.ErrInvalidState)

	s.chain.Advance(1, 24*time.Hour)
	s.tick(t, s.holder.Address())
	require.Equal(t, tphtypes.Expired, s.state(t))

	// ASSERT: Ragequit is no longer possible.
	_, err = s.chain.Execute(s.partyA.Addr, s.holder.Address(), tphtypes.ExecuteMsg{Ragequit: &struct{}{}})
	require.ErrorIs(t, err, types.ErrInvalidState)

	// ACT: Party B claims for both.
	_, err = s.chain.Execute(s.partyB.Addr, s.holder.Address(), tphtypes.ExecuteMsg{Claim: &struct{}{}})
	require.NoError(t, err)

	assert.Equal(t, tphtypes.Complete, s.state(t))
	for _, party := range []tphtypes.Party{s.partyA, s.partyB} {
		assert.Equal(t, math.NewInt(500), s.balance(party, "uatom"))
		assert.Equal(t, math.NewInt(250), s.balance(party, "untrn"))
	}

	// ASSERT: The holder leaves the queue on its next tick.
	assert.True(t, s.queued(t))
	s.tick(t, s.holder.Address())
	assert.False(t, s.queued(t))
}

func TestRagequitWhileClockPaused(t *testing.T) {
	s := setupCovenantTest(t)
	s.activate(t)

	// ARRANGE: The operator pauses the clock.
	_, err := s.chain.Migrate(s.admin, s.clock.Address(), clocktypes.MigrateMsg{Pause: &struct{}{}})
	require.NoError(t, err)

	// ACT: Party B leaves early.
	_, err = s.chain.Execute(s.partyB.Addr, s.holder.Address(), tphtypes.ExecuteMsg{Ragequit: &struct{}{}})
	require.NoError(t, err)

	// ASSERT: Funds are distributed although the clock cannot dequeue.
	assert.Equal(t, tphtypes.Ragequit, s.state(t))
	assert.Equal(t, math.NewInt(600), s.balance(s.partyA, "uatom"))
	assert.Equal(t, math.NewInt(400), s.balance(s.partyB, "uatom"))
	assert.True(t, s.queued(t))

	// ACT: Once unpaused, the next tick dequeues.
	_, err = s.chain.Migrate(s.admin, s.clock.Address(), clocktypes.MigrateMsg{Unpause: &struct{}{}})
	require.NoError(t, err)
	s.tick(t, s.holder.Address())

	assert.False(t, s.queued(t))
}

func TestDepositDeadlineRefunds(t *testing.T) {
	s := setupCovenantTest(t)
	s.deposit(t, s.partyA)

	// ASSERT: One deposit is not enough to activate.
	s.tick(t, s.holder.Address())
	assert.Equal(t, tphtypes.Instantiated, s.state(t))

	// ACT: The deadline passes.
	s.chain.Advance(100, time.Hour)
	s.tick(t, s.holder.Address())

	assert.Equal(t, tphtypes.Complete, s.state(t))
	assert.Equal(t, math.NewInt(1000), s.balance(s.partyA, "uatom"))
	assert.True(t, s.balance(s.partyB, "untrn").IsZero())
	assert.True(t, s.chain.Bank.GetAllBalances(s.chain.Ctx, types.MustAccAddress(s.holder.Address())).IsZero())

	s.tick(t, s.holder.Address())
	assert.False(t, s.queued(t))
}

func TestInvalidAllocations(t *testing.T) {
	chain := mocks.NewChain(t, "clock", "holder")
	admin := utils.TestAccount()
	clockKeeper := clock.NewKeeper(utils.ContractAccount("clock").Address, chain.StoreService("clock"), log.NewNopLogger(), chain.Router)
	chain.Deploy(t, clockKeeper, "clock", admin.Address, clocktypes.InstantiateMsg{})

	k := twopartyholder.NewKeeper(utils.ContractAccount("holder").Address, chain.StoreService("holder"), log.NewNopLogger(), chain.Bank)
	require.NoError(t, chain.Router.Register(k, "holder", admin.Address))

	config := tphtypes.Config{
		ClockAddress: clockKeeper.Address(),
		NextContract: utils.ContractAccount("liquid_pooler").Address,
		PartyA: tphtypes.Party{
			Addr:         utils.TestAccount().Address,
			Contribution: sdk.NewCoin("uatom", math.NewInt(1)),
			Allocation:   math.LegacyMustNewDecFromStr("0.6"),
			Router:       utils.TestAccount().Address,
		},
		PartyB: tphtypes.Party{
			Addr:         utils.TestAccount().Address,
			Contribution: sdk.NewCoin("untrn", math.NewInt(1)),
			Allocation:   math.LegacyMustNewDecFromStr("0.5"),
			Router:       utils.TestAccount().Address,
		},
		DepositDeadline: types.NeverExpires(),
		LockupConfig:    types.NeverExpires(),
		RagequitConfig:  tphtypes.RagequitConfig{Disabled: &struct{}{}},
	}

	_, err := chain.Router.Instantiate(chain.Ctx, k.Address(), types.MessageInfo{Sender: admin.Address}, mocks.MustJSON(config))
	require.Error(t, err)

	config.PartyA.Allocation = math.LegacyMustNewDecFromStr("0.5")
	config.RagequitConfig = tphtypes.RagequitConfig{Enabled: &tphtypes.RagequitTerms{Penalty: math.LegacyMustNewDecFromStr("0.6")}}
	_, err = chain.Router.Instantiate(chain.Ctx, k.Address(), types.MessageInfo{Sender: admin.Address}, mocks.MustJSON(config))
	require.ErrorIs(t, err, types.ErrInvalidConfig)

	config.RagequitConfig = tphtypes.RagequitConfig{Disabled: &struct{}{}}
	_, err = chain.Router.Instantiate(chain.Ctx, k.Address(), types.MessageInfo{Sender: admin.Address}, mocks.MustJSON(config))
	require.NoError(t, err)

	// ASSERT: Ragequit is rejected when disabled.
	_, err = chain.Execute(config.PartyA.Addr, k.Address(), tphtypes.ExecuteMsg{Ragequit: &struct{}{}})
	require.ErrorIs(t, err, tphtypes.ErrRagequitDisabled)
}
