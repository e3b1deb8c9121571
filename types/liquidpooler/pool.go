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
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Astroport pair messages.

type AstroportQuery struct {
	Pool *struct{} `json:"pool,omitempty"`
	Pair *struct{} `json:"pair,omitempty"`
}

type AstroportExecute struct {
	ProvideLiquidity  *ProvideLiquidity  `json:"provide_liquidity,omitempty"`
	WithdrawLiquidity *WithdrawLiquidity `json:"withdraw_liquidity,omitempty"`
}

type ProvideLiquidity struct {
	Assets            []Asset         `json:"assets"`
	SlippageTolerance *math.LegacyDec `json:"slippage_tolerance,omitempty"`
	AutoStake         *bool           `json:"auto_stake,omitempty"`
	Receiver          *string         `json:"receiver,omitempty"`
}

type WithdrawLiquidity struct {
	Assets []Asset `json:"assets"`
}

type Asset struct {
	Info   AssetInfo `json:"info"`
	Amount math.Int  `json:"amount"`
}

type AssetInfo struct {
	NativeToken *NativeToken `json:"native_token,omitempty"`
}

type NativeToken struct {
	Denom string `json:"denom"`
}

func NativeAsset(coin sdk.Coin) Asset {
	return Asset{Info: AssetInfo{NativeToken: &NativeToken{Denom: coin.Denom}}, Amount: coin.Amount}
}

type PoolResponse struct {
	Assets     []Asset  `json:"assets"`
	TotalShare math.Int `json:"total_share"`
}

type PairInfo struct {
	ContractAddr   string `json:"contract_addr"`
	LiquidityToken string `json:"liquidity_token"`
}

// Osmosis outpost messages.

type OsmosisQuery struct {
	SpotPrice *SpotPrice `json:"spot_price,omitempty"`
}

type SpotPrice struct {
	PoolID          uint64 `json:"pool_id"`
	BaseAssetDenom  string `json:"base_asset_denom"`
	QuoteAssetDenom string `json:"quote_asset_denom"`
}

type SpotPriceResponse struct {
	SpotPrice math.LegacyDec `json:"spot_price"`
}

type OsmosisExecute struct {
	JoinPool *JoinPool `json:"join_pool,omitempty"`
	ExitPool *ExitPool `json:"exit_pool,omitempty"`
}

type JoinPool struct {
	PoolID            uint64   `json:"pool_id"`
	ShareOutMinAmount math.Int `json:"share_out_min_amount"`
}

type ExitPool struct {
	PoolID uint64 `json:"pool_id"`
}
