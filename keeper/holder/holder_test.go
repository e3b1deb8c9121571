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

package holder_test

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timewave-computer/covenants/keeper/clock"
	"github.com/timewave-computer/covenants/keeper/holder"
	"github.com/timewave-computer/covenants/keeper/liquidpooler"
	"github.com/timewave-computer/covenants/types"
	clocktypes "github.com/timewave-computer/covenants/types/clock"
	holdertypes "github.com/timewave-computer/covenants/types/holder"
	lptypes "github.com/timewave-computer/covenants/types/liquidpooler"
	"github.com/timewave-computer/covenants/utils"
	"github.com/timewave-computer/covenants/utils/mocks"
)

var withdrawAll = holdertypes.ExecuteMsg{Withdraw: &holdertypes.Withdraw{}}

func setupHolderTest(t *testing.T, config holdertypes.Config) (*mocks.Chain, *holder.Keeper) {
	chain := mocks.NewChain(t, "holder", "liquid_pooler", "clock")

	k := holder.NewKeeper(utils.ContractAccount("holder").Address, chain.StoreService("holder"), log.NewNopLogger(), chain.Bank)
	chain.Deploy(t, k, "holder", utils.TestAccount().Address, config)

	return chain, k
}

func TestHolderWithdraw(t *testing.T) {
	withdrawer := utils.TestAccount()
	chain, k := setupHolderTest(t, holdertypes.Config{
		Withdrawer:   withdrawer.Address,
		LockupPeriod: types.ExpiresAtHeight(10),
	})
	funds := sdk.NewCoins(
		sdk.NewCoin("uatom", math.NewInt(100)),
		sdk.NewCoin("untrn", math.NewInt(200)),
		sdk.NewCoin("uosmo", math.NewInt(300)),
	)
	require.NoError(t, chain.Bank.Fund(chain.Ctx, k.Address(), funds...))

	// ASSERT: Funds are locked until the lockup expires.
	_, err := chain.Execute(withdrawer.Address, k.Address(), withdrawAll)
	require.ErrorIs(t, err, types.ErrNotExpired)

	chain.Advance(9, time.Minute)

	// ASSERT: Only the withdrawer can withdraw.
	_, err = chain.Execute(utils.TestAccount().Address, k.Address(), withdrawAll)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// ACT: Withdraw part of one denom.
	quantity := sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(40)))
	_, err = chain.Execute(withdrawer.Address, k.Address(), holdertypes.ExecuteMsg{Withdraw: &holdertypes.Withdraw{Quantity: &quantity}})
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(40), chain.Bank.Balance(chain.Ctx, withdrawer.Address, "uatom"))

	tooMuch := sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(61)))
	_, err = chain.Execute(withdrawer.Address, k.Address(), holdertypes.ExecuteMsg{Withdraw: &holdertypes.Withdraw{Quantity: &tooMuch}})
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	// ACT: Withdraw everything.
	_, err = chain.Execute(withdrawer.Address, k.Address(), withdrawAll)
	require.NoError(t, err)

	// ASSERT: Every denom was drained.
	assert.True(t, chain.Bank.GetAllBalances(chain.Ctx, types.MustAccAddress(k.Address())).IsZero())
	assert.Equal(t, funds, chain.Bank.GetAllBalances(chain.Ctx, types.MustAccAddress(withdrawer.Address)))

	_, err = chain.Execute(withdrawer.Address, k.Address(), withdrawAll)
	require.ErrorIs(t, err, holdertypes.ErrNothingToWithdraw)
}

func TestHolderEmergencyWithdrawRedeemsLiquidity(t *testing.T) {
	withdrawer := utils.TestAccount()
	committee := utils.TestAccount()
	pooler := utils.ContractAccount("liquid_pooler").Address
	chain, k := setupHolderTest(t, holdertypes.Config{
		Withdrawer:         withdrawer.Address,
		LockupPeriod:       types.NeverExpires(),
		PoolerAddress:      &pooler,
		EmergencyCommittee: &committee.Address,
	})

	pool := mocks.NewPool(utils.ContractAccount("pool").Address, chain.Bank, "uatom", "untrn", "factory/pair/lp")
	require.NoError(t, chain.Router.Register(pool, "pool", ""))
	require.NoError(t, pool.Seed(chain.Ctx, math.NewInt(1000), math.NewInt(1000)))

	clockKeeper := clock.NewKeeper(utils.ContractAccount("clock").Address, chain.StoreService("clock"), log.NewNopLogger(), chain.Router)
	chain.Deploy(t, clockKeeper, "clock", committee.Address, clocktypes.InstantiateMsg{})

	poolerKeeper := liquidpooler.NewKeeper(pooler, chain.StoreService("liquid_pooler"), log.NewNopLogger(), chain.Bank, chain.Router)
	chain.Deploy(t, poolerKeeper, "liquid_pooler", committee.Address, lptypes.InstantiateMsg{
		ClockAddress:  clockKeeper.Address(),
		HolderAddress: k.Address(),
		PoolAddress:   pool.Address(),
		PoolKind:      lptypes.PoolAstroport,
		AssetADenom:   "uatom",
		AssetBDenom:   "untrn",
		SingleSideLpLimits: lptypes.SingleSideLpLimits{
			AssetALimit: math.ZeroInt(),
			AssetBLimit: math.ZeroInt(),
		},
		PoolPriceConfig: lptypes.PoolPriceConfig{
			ExpectedSpotPrice:     math.LegacyOneDec(),
			AcceptablePriceSpread: math.LegacyMustNewDecFromStr("0.05"),
		},
	})

	require.NoError(t, chain.Bank.Fund(chain.Ctx, pooler, sdk.NewCoin("uatom", math.NewInt(500)), sdk.NewCoin("untrn", math.NewInt(500))))
	_, err := chain.Execute(clockKeeper.Address(), pooler, types.NewTickMsg())
	require.NoError(t, err)

	// ASSERT: The withdrawer is bound by the lockup, the committee is not.
	_, err = chain.Execute(withdrawer.Address, k.Address(), withdrawAll)
	require.ErrorIs(t, err, types.ErrNotExpired)
	_, err = chain.Execute(withdrawer.Address, k.Address(), holdertypes.ExecuteMsg{EmergencyWithdraw: &struct{}{}})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// ACT: The committee pulls the liquidity.
	_, err = chain.Execute(committee.Address, k.Address(), holdertypes.ExecuteMsg{EmergencyWithdraw: &struct{}{}})
	require.NoError(t, err)

	// ASSERT: All 1000 of 3000 shares were redeemed and the assets reached the withdrawer.
	assert.Equal(t, math.NewInt(500), chain.Bank.Balance(chain.Ctx, withdrawer.Address, "uatom"))
	assert.Equal(t, math.NewInt(500), chain.Bank.Balance(chain.Ctx, withdrawer.Address, "untrn"))
	assert.True(t, chain.Bank.Balance(chain.Ctx, pooler, "factory/pair/lp").IsZero())
	assert.True(t, chain.Bank.GetAllBalances(chain.Ctx, types.MustAccAddress(k.Address())).IsZero())
}

func TestHolderWithdrawWithoutLiquidity(t *testing.T) {
	withdrawer := utils.TestAccount()
	admin := utils.TestAccount()
	pooler := utils.ContractAccount("liquid_pooler").Address
	chain, k := setupHolderTest(t, holdertypes.Config{
		Withdrawer:    withdrawer.Address,
		LockupPeriod:  types.ExpiresAtHeight(10),
		PoolerAddress: &pooler,
	})

	pool := mocks.NewPool(utils.ContractAccount("pool").Address, chain.Bank, "uatom", "untrn", "factory/pair/lp")
	require.NoError(t, chain.Router.Register(pool, "pool", ""))
	require.NoError(t, pool.Seed(chain.Ctx, math.NewInt(1000), math.NewInt(1000)))

	clockKeeper := clock.NewKeeper(utils.ContractAccount("clock").Address, chain.StoreService("clock"), log.NewNopLogger(), chain.Router)
	chain.Deploy(t, clockKeeper, "clock", admin.Address, clocktypes.InstantiateMsg{})

	poolerKeeper := liquidpooler.NewKeeper(pooler, chain.StoreService("liquid_pooler"), log.NewNopLogger(), chain.Bank, chain.Router)
	chain.Deploy(t, poolerKeeper, "liquid_pooler", admin.Address, lptypes.InstantiateMsg{
		ClockAddress:  clockKeeper.Address(),
		HolderAddress: k.Address(),
		PoolAddress:   pool.Address(),
		PoolKind:      lptypes.PoolAstroport,
		AssetADenom:   "uatom",
		AssetBDenom:   "untrn",
		SingleSideLpLimits: lptypes.SingleSideLpLimits{
			AssetALimit: math.ZeroInt(),
			AssetBLimit: math.ZeroInt(),
		},
		PoolPriceConfig: lptypes.PoolPriceConfig{
			ExpectedSpotPrice:     math.LegacyOneDec(),
			AcceptablePriceSpread: math.LegacyMustNewDecFromStr("0.05"),
		},
	})

	// ARRANGE: The pooler never provided, the holder keeps funds itself.
	require.NoError(t, chain.Bank.Fund(chain.Ctx, k.Address(), sdk.NewCoin("uatom", math.NewInt(100))))
	chain.Advance(10, time.Minute)

	// ACT: The pooler has nothing to redeem.
	_, err := chain.Execute(withdrawer.Address, k.Address(), withdrawAll)
	require.NoError(t, err)

	// ASSERT: The held funds still reach the withdrawer.
	assert.Equal(t, math.NewInt(100), chain.Bank.Balance(chain.Ctx, withdrawer.Address, "uatom"))
	assert.True(t, chain.Bank.GetAllBalances(chain.Ctx, types.MustAccAddress(k.Address())).IsZero())
}
