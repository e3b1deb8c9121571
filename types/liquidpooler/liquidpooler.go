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

package liquidpooler

import (
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/utils/fsm"
)

type ContractState string

const (
	Instantiated ContractState = "instantiated"
	Complete     ContractState = "complete"
)

type Event string

const EventProvided Event = "provided"

var Transitions = fsm.Table[ContractState, Event]{
	Instantiated: {EventProvided: Complete},
}

type PoolKind string

const (
	PoolAstroport PoolKind = "astroport"
	PoolOsmosis   PoolKind = "osmosis"
)

// SingleSideLpLimits caps how much of each asset may be provided without
// its counterpart.
type SingleSideLpLimits struct {
	AssetALimit math.Int `json:"asset_a_limit"`
	AssetBLimit math.Int `json:"asset_b_limit"`
}

// PoolPriceConfig bounds the pool price, expressed as asset A over asset B,
// at which liquidity is provided.
type PoolPriceConfig struct {
	ExpectedSpotPrice     math.LegacyDec `json:"expected_spot_price"`
	AcceptablePriceSpread math.LegacyDec `json:"acceptable_price_spread"`
}

func (p PoolPriceConfig) Validate() error {
	if p.ExpectedSpotPrice.IsNil() || !p.ExpectedSpotPrice.IsPositive() {
		return errors.Wrap(types.ErrInvalidConfig, "expected spot price must be positive")
	}
	if p.AcceptablePriceSpread.IsNil() || p.AcceptablePriceSpread.IsNegative() {
		return errors.Wrap(types.ErrInvalidConfig, "acceptable price spread must not be negative")
	}
	if p.AcceptablePriceSpread.GT(p.ExpectedSpotPrice) {
		return errors.Wrap(types.ErrInvalidConfig, "acceptable price spread exceeds expected spot price")
	}
	return nil
}

// Contains reports whether price lies within the spread around the expected
// price, bounds included.
func (p PoolPriceConfig) Contains(price math.LegacyDec) bool {
	lower := p.ExpectedSpotPrice.Sub(p.AcceptablePriceSpread)
	upper := p.ExpectedSpotPrice.Add(p.AcceptablePriceSpread)
	return price.GTE(lower) && price.LTE(upper)
}

type Config struct {
	ClockAddress       string             `json:"clock_address"`
	HolderAddress      string             `json:"holder_address"`
	PoolAddress        string             `json:"pool_address"`
	PoolKind           PoolKind           `json:"pool_kind"`
	PoolID             uint64             `json:"pool_id,omitempty"`
	AssetADenom        string             `json:"asset_a_denom"`
	AssetBDenom        string             `json:"asset_b_denom"`
	SingleSideLpLimits SingleSideLpLimits `json:"single_side_lp_limits"`
	PoolPriceConfig    PoolPriceConfig    `json:"pool_price_config"`
}

func (c Config) Validate() error {
	for field, address := range map[string]string{
		"clock":  c.ClockAddress,
		"holder": c.HolderAddress,
		"pool":   c.PoolAddress,
	} {
		if err := types.ValidateAddress(address, field); err != nil {
			return err
		}
	}

	switch c.PoolKind {
	case PoolAstroport:
	case PoolOsmosis:
		if c.PoolID == 0 {
			return errors.Wrap(types.ErrInvalidConfig, "osmosis pool id must be set")
		}
	default:
		return errors.Wrapf(ErrUnsupportedPool, "%q", c.PoolKind)
	}

	for _, denom := range []string{c.AssetADenom, c.AssetBDenom} {
		if err := sdk.ValidateDenom(denom); err != nil {
			return errors.Wrap(types.ErrInvalidConfig, err.Error())
		}
	}
	if c.AssetADenom == c.AssetBDenom {
		return errors.Wrap(types.ErrInvalidConfig, "pool assets must differ")
	}

	limits := c.SingleSideLpLimits
	if limits.AssetALimit.IsNil() || limits.AssetBLimit.IsNil() || limits.AssetALimit.IsNegative() || limits.AssetBLimit.IsNegative() {
		return errors.Wrap(types.ErrInvalidConfig, "single side limits must not be negative")
	}
	return c.PoolPriceConfig.Validate()
}

// ProvidedLiquidityInfo records what was deposited into the pool.
type ProvidedLiquidityInfo struct {
	ProvidedAmountA math.Int `json:"provided_amount_a"`
	ProvidedAmountB math.Int `json:"provided_amount_b"`
	LpShares        sdk.Coin `json:"lp_shares"`
}

func (p ProvidedLiquidityInfo) String() string {
	return fmt.Sprintf("%s/%s for %s", p.ProvidedAmountA, p.ProvidedAmountB, p.LpShares)
}

type InstantiateMsg = Config

type ExecuteMsg struct {
	types.TickMsg
	Withdraw *Withdraw `json:"withdraw,omitempty"`
}

// Withdraw redeems Percentage of the pooler's LP shares and sends the
// assets to the holder. A nil percentage withdraws everything.
type Withdraw struct {
	Percentage *math.LegacyDec `json:"percentage,omitempty"`
}

func (w Withdraw) Fraction() (math.LegacyDec, error) {
	if w.Percentage == nil {
		return math.LegacyOneDec(), nil
	}
	percentage := *w.Percentage
	if percentage.IsNil() || !percentage.IsPositive() || percentage.GT(math.LegacyOneDec()) {
		return math.LegacyDec{}, errors.Wrapf(ErrInvalidPercentage, "%s", percentage)
	}
	return percentage, nil
}

type QueryMsg struct {
	ContractState         *struct{} `json:"contract_state,omitempty"`
	DepositAddress        *struct{} `json:"deposit_address,omitempty"`
	Config                *struct{} `json:"config,omitempty"`
	ProvidedLiquidityInfo *struct{} `json:"provided_liquidity_info,omitempty"`
}

type MigrateMsg struct {
	UpdateConfig *UpdateConfig       `json:"update_config,omitempty"`
	UpdateCodeID *types.UpdateCodeID `json:"update_code_id,omitempty"`
}

type UpdateConfig struct {
	ClockAddress       *string             `json:"clock_address,omitempty"`
	HolderAddress      *string             `json:"holder_address,omitempty"`
	SingleSideLpLimits *SingleSideLpLimits `json:"single_side_lp_limits,omitempty"`
	PoolPriceConfig    *PoolPriceConfig    `json:"pool_price_config,omitempty"`
}

func (u UpdateConfig) Apply(config Config) Config {
	if u.ClockAddress != nil {
		config.ClockAddress = *u.ClockAddress
	}
	if u.HolderAddress != nil {
		config.HolderAddress = *u.HolderAddress
	}
	if u.SingleSideLpLimits != nil {
		config.SingleSideLpLimits = *u.SingleSideLpLimits
	}
	if u.PoolPriceConfig != nil {
		config.PoolPriceConfig = *u.PoolPriceConfig
	}
	return config
}
