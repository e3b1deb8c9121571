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

package splitter_test

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timewave-computer/covenants/keeper/clock"
	"github.com/timewave-computer/covenants/keeper/splitter"
	"github.com/timewave-computer/covenants/types"
	clocktypes "github.com/timewave-computer/covenants/types/clock"
	"github.com/timewave-computer/covenants/types/split"
	splittypes "github.com/timewave-computer/covenants/types/splitter"
	"github.com/timewave-computer/covenants/utils"
	"github.com/timewave-computer/covenants/utils/mocks"
)

type splitterTest struct {
	chain    *mocks.Chain
	admin    string
	clock    *clock.Keeper
	splitter *splitter.Keeper
	alice    string
	bob      string
}

func setupSplitterTest(t *testing.T, fallback *split.SplitConfig) splitterTest {
	chain := mocks.NewChain(t, "clock", "splitter")
	admin := utils.TestAccount().Address
	alice, bob := utils.TestAccount().Address, utils.TestAccount().Address

	clockKeeper := clock.NewKeeper(utils.ContractAccount("clock").Address, chain.StoreService("clock"), log.NewNopLogger(), chain.Router)
	chain.Deploy(t, clockKeeper, "clock", admin, clocktypes.InstantiateMsg{})

	k := splitter.NewKeeper(utils.ContractAccount("splitter").Address, chain.StoreService("splitter"), log.NewNopLogger(), chain.Bank)
	chain.Deploy(t, k, "splitter", admin, splittypes.InstantiateMsg{
		ClockAddress: clockKeeper.Address(),
		Splits: map[string]split.SplitConfig{
			"uatom": {Receivers: map[string]math.LegacyDec{
				alice: math.LegacyMustNewDecFromStr("0.5"),
				bob:   math.LegacyMustNewDecFromStr("0.5"),
			}},
			"untrn": {Receivers: map[string]math.LegacyDec{
				alice: math.LegacyMustNewDecFromStr("0.25"),
				bob:   math.LegacyMustNewDecFromStr("0.75"),
			}},
		},
		FallbackSplit:      fallback,
		FallbackPermission: types.Permissioned(alice),
	})

	return splitterTest{chain: chain, admin: admin, clock: clockKeeper, splitter: k, alice: alice, bob: bob}
}

func (s splitterTest) balance(address, denom string) math.Int {
	return s.chain.Bank.Balance(s.chain.Ctx, address, denom)
}

func TestSplitterTick(t *testing.T) {
	s := setupSplitterTest(t, nil)

	// ARRANGE: An uneven amount of one denom and an even amount of another.
	require.NoError(t, s.chain.Bank.Fund(s.chain.Ctx, s.splitter.Address(),
		sdk.NewCoin("uatom", math.NewInt(101)),
		sdk.NewCoin("untrn", math.NewInt(400)),
	))

	// ASSERT: Only the clock can tick.
	_, err := s.chain.Execute(s.alice, s.splitter.Address(), types.NewTickMsg())
	require.ErrorIs(t, err, types.ErrNotClock)

	// ACT
	_, err = s.chain.Execute(s.clock.Address(), s.splitter.Address(), types.NewTickMsg())
	require.NoError(t, err)

	// ASSERT: Shares are truncated and the remainder stays behind.
	assert.Equal(t, math.NewInt(50), s.balance(s.alice, "uatom"))
	assert.Equal(t, math.NewInt(50), s.balance(s.bob, "uatom"))
	assert.Equal(t, math.NewInt(1), s.balance(s.splitter.Address(), "uatom"))
	assert.Equal(t, math.NewInt(100), s.balance(s.alice, "untrn"))
	assert.Equal(t, math.NewInt(300), s.balance(s.bob, "untrn"))

	// ASSERT: The splitter keeps ticking.
	queued, err := s.clock.Queue.Contains(s.chain.Ctx, s.splitter.Address())
	require.NoError(t, err)
	assert.True(t, queued)
}

func TestSplitterFallback(t *testing.T) {
	treasury := utils.TestAccount().Address
	s := setupSplitterTest(t, &split.SplitConfig{Receivers: map[string]math.LegacyDec{treasury: math.LegacyOneDec()}})

	require.NoError(t, s.chain.Bank.Fund(s.chain.Ctx, s.splitter.Address(),
		sdk.NewCoin("uatom", math.NewInt(10)),
		sdk.NewCoin("uosmo", math.NewInt(70)),
	))

	// ASSERT: Denoms with an explicit split are not fallback denoms.
	_, err := s.chain.Execute(s.alice, s.splitter.Address(), splittypes.ExecuteMsg{
		DistributeFallback: &splittypes.DistributeFallback{Denoms: []string{"uosmo", "uatom"}},
	})
	require.ErrorIs(t, err, splittypes.ErrDenomNotFallback)
	assert.Equal(t, math.NewInt(70), s.balance(s.splitter.Address(), "uosmo"))

	// ASSERT: Denoms without a balance cannot be distributed.
	_, err = s.chain.Execute(s.alice, s.splitter.Address(), splittypes.ExecuteMsg{
		DistributeFallback: &splittypes.DistributeFallback{Denoms: []string{"ujuno"}},
	})
	require.ErrorIs(t, err, splittypes.ErrNothingToDistribute)

	// ASSERT: Only privileged accounts can trigger the fallback.
	_, err = s.chain.Execute(s.bob, s.splitter.Address(), splittypes.ExecuteMsg{
		DistributeFallback: &splittypes.DistributeFallback{Denoms: []string{"uosmo"}},
	})
	require.ErrorIs(t, err, types.ErrUnauthorized)
	assert.Equal(t, math.NewInt(70), s.balance(s.splitter.Address(), "uosmo"))

	// ACT: A privileged account triggers the fallback.
	_, err = s.chain.Execute(s.alice, s.splitter.Address(), splittypes.ExecuteMsg{
		DistributeFallback: &splittypes.DistributeFallback{Denoms: []string{"uosmo", "uosmo"}},
	})
	require.NoError(t, err)

	assert.Equal(t, math.NewInt(70), s.balance(treasury, "uosmo"))
	assert.True(t, s.balance(s.splitter.Address(), "uosmo").IsZero())
	assert.Equal(t, math.NewInt(10), s.balance(s.splitter.Address(), "uatom"))
}

func TestSplitterWithoutFallback(t *testing.T) {
	s := setupSplitterTest(t, nil)
	require.NoError(t, s.chain.Bank.Fund(s.chain.Ctx, s.splitter.Address(), sdk.NewCoin("uosmo", math.NewInt(1))))

	_, err := s.chain.Execute(s.alice, s.splitter.Address(), splittypes.ExecuteMsg{
		DistributeFallback: &splittypes.DistributeFallback{Denoms: []string{"uosmo"}},
	})
	require.ErrorIs(t, err, splittypes.ErrNoFallbackSplit)
}

func TestSplitterQueries(t *testing.T) {
	s := setupSplitterTest(t, nil)

	var denomSplit split.SplitConfig
	s.chain.Query(t, s.splitter.Address(), splittypes.QueryMsg{DenomSplit: &splittypes.DenomSplit{Denom: "untrn"}}, &denomSplit)
	assert.True(t, math.LegacyMustNewDecFromStr("0.75").Equal(denomSplit.Receivers[s.bob]))

	var splits []splittypes.DenomSplitEntry
	s.chain.Query(t, s.splitter.Address(), splittypes.QueryMsg{Splits: &struct{}{}}, &splits)
	require.Len(t, splits, 2)
	assert.Equal(t, "uatom", splits[0].Denom)
	assert.Equal(t, "untrn", splits[1].Denom)

	var fallback *split.SplitConfig
	s.chain.Query(t, s.splitter.Address(), splittypes.QueryMsg{FallbackSplit: &struct{}{}}, &fallback)
	assert.Nil(t, fallback)

	var permission types.ContractPermission
	s.chain.Query(t, s.splitter.Address(), splittypes.QueryMsg{FallbackPermission: &struct{}{}}, &permission)
	require.NotNil(t, permission.Permissioned)
	assert.Equal(t, []string{s.alice}, permission.Permissioned.PrivilegedAccounts)

	_, err := s.chain.Router.QueryContract(s.chain.Ctx, s.splitter.Address(), mocks.MustJSON(splittypes.QueryMsg{DenomSplit: &splittypes.DenomSplit{Denom: "uosmo"}}))
	require.ErrorIs(t, err, split.ErrSplitNotFound)
}

func TestSplitterMigrate(t *testing.T) {
	s := setupSplitterTest(t, nil)

	// ASSERT: Splits that do not sum to one are rejected.
	_, err := s.chain.Migrate(s.admin, s.splitter.Address(), splittypes.MigrateMsg{UpdateConfig: &splittypes.UpdateConfig{
		FallbackSplit: &split.SplitConfig{Receivers: map[string]math.LegacyDec{s.alice: math.LegacyMustNewDecFromStr("0.9")}},
	}})
	require.ErrorIs(t, err, split.ErrInvalidSplit)

	// ASSERT: An empty privileged set is rejected.
	_, err = s.chain.Migrate(s.admin, s.splitter.Address(), splittypes.MigrateMsg{UpdateConfig: &splittypes.UpdateConfig{
		FallbackPermission: &types.ContractPermission{Permissioned: &types.PrivilegedAccounts{}},
	}})
	require.ErrorIs(t, err, types.ErrInvalidConfig)

	// ACT
	_, err = s.chain.Migrate(s.admin, s.splitter.Address(), splittypes.MigrateMsg{UpdateConfig: &splittypes.UpdateConfig{
		FallbackSplit: &split.SplitConfig{Receivers: map[string]math.LegacyDec{s.alice: math.LegacyOneDec()}},
	}})
	require.NoError(t, err)

	var fallback *split.SplitConfig
	s.chain.Query(t, s.splitter.Address(), splittypes.QueryMsg{FallbackSplit: &struct{}{}}, &fallback)
	require.NotNil(t, fallback)
	assert.Contains(t, fallback.Receivers, s.alice)
}
