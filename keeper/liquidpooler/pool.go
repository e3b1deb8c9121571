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
	"context"
	"encoding/json"
	"fmt"

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
	lptypes "github.com/timewave-computer/covenants/types/liquidpooler"
)

// Pool is the AMM a pooler provides liquidity to.
type Pool interface {
	// SpotPrice is the price of asset A expressed in asset B units.
	SpotPrice(ctx context.Context) (math.LegacyDec, error)
	LPDenom(ctx context.Context) (string, error)
	Provide(assets sdk.Coins, receiver string) (types.CosmosMsg, error)
	Withdraw(shares sdk.Coin) (types.CosmosMsg, error)
}

func NewPool(config lptypes.Config, querier types.ContractQuerier) (Pool, error) {
	switch config.PoolKind {
	case lptypes.PoolAstroport:
		return &astroportPool{config: config, querier: querier}, nil
	case lptypes.PoolOsmosis:
		return &osmosisPool{config: config, querier: querier}, nil
	default:
		return nil, sdkerrors.Wrapf(lptypes.ErrUnsupportedPool, "%q", config.PoolKind)
	}
}

type astroportPool struct {
	config  lptypes.Config
	querier types.ContractQuerier
}

func (p *astroportPool) SpotPrice(ctx context.Context) (math.LegacyDec, error) {
	var pool lptypes.PoolResponse
	if err := queryJSON(ctx, p.querier, p.config.PoolAddress, lptypes.AstroportQuery{Pool: &struct{}{}}, &pool); err != nil {
		return math.LegacyDec{}, err
	}

	reserves := make(map[string]math.Int, len(pool.Assets))
	for _, asset := range pool.Assets {
		if asset.Info.NativeToken != nil {
			reserves[asset.Info.NativeToken.Denom] = asset.Amount
		}
	}
	reserveA, foundA := reserves[p.config.AssetADenom]
	reserveB, foundB := reserves[p.config.AssetBDenom]
	if !foundA || !foundB {
		return math.LegacyDec{}, sdkerrors.Wrapf(lptypes.ErrUnsupportedPool, "pool does not trade %s/%s", p.config.AssetADenom, p.config.AssetBDenom)
	}
	if !reserveB.IsPositive() {
		return math.LegacyDec{}, sdkerrors.Wrapf(lptypes.ErrNoLiquidity, "pool holds no %s", p.config.AssetBDenom)
	}
	return math.LegacyNewDecFromInt(reserveA).QuoInt(reserveB), nil
}

func (p *astroportPool) LPDenom(ctx context.Context) (string, error) {
	var pair lptypes.PairInfo
	if err := queryJSON(ctx, p.querier, p.config.PoolAddress, lptypes.AstroportQuery{Pair: &struct{}{}}, &pair); err != nil {
		return "", err
	}
	return pair.LiquidityToken, nil
}

func (p *astroportPool) Provide(assets sdk.Coins, receiver string) (types.CosmosMsg, error) {
	provide := &lptypes.ProvideLiquidity{Receiver: &receiver}
	for _, coin := range assets {
		provide.Assets = append(provide.Assets, lptypes.NativeAsset(coin))
	}
	return types.NewWasmExecute(p.config.PoolAddress, lptypes.AstroportExecute{ProvideLiquidity: provide}, assets)
}

func (p *astroportPool) Withdraw(shares sdk.Coin) (types.CosmosMsg, error) {
	return types.NewWasmExecute(p.config.PoolAddress, lptypes.AstroportExecute{
		WithdrawLiquidity: &lptypes.WithdrawLiquidity{Assets: []lptypes.Asset{}},
	}, sdk.NewCoins(shares))
}

type osmosisPool struct {
	config  lptypes.Config
	querier types.ContractQuerier
}

func (p *osmosisPool) SpotPrice(ctx context.Context) (math.LegacyDec, error) {
	var res lptypes.SpotPriceResponse
	err := queryJSON(ctx, p.querier, p.config.PoolAddress, lptypes.OsmosisQuery{SpotPrice: &lptypes.SpotPrice{
		PoolID:          p.config.PoolID,
		BaseAssetDenom:  p.config.AssetBDenom,
		QuoteAssetDenom: p.config.AssetADenom,
	}}, &res)
	if err != nil {
		return math.LegacyDec{}, err
	}
	if res.SpotPrice.IsNil() {
		return math.LegacyDec{}, sdkerrors.Wrap(lptypes.ErrNoLiquidity, "empty spot price")
	}
	return res.SpotPrice, nil
}

func (p *osmosisPool) LPDenom(context.Context) (string, error) {
	return fmt.Sprintf("gamm/pool/%d", p.config.PoolID), nil
}

func (p *osmosisPool) Provide(assets sdk.Coins, _ string) (types.CosmosMsg, error) {
	return types.NewWasmExecute(p.config.PoolAddress, lptypes.OsmosisExecute{
		JoinPool: &lptypes.JoinPool{PoolID: p.config.PoolID, ShareOutMinAmount: math.OneInt()},
	}, assets)
}

func (p *osmosisPool) Withdraw(shares sdk.Coin) (types.CosmosMsg, error) {
	return types.NewWasmExecute(p.config.PoolAddress, lptypes.OsmosisExecute{
		ExitPool: &lptypes.ExitPool{PoolID: p.config.PoolID},
	}, sdk.NewCoins(shares))
}

func queryJSON(ctx context.Context, querier types.ContractQuerier, contract string, req, out any) error {
	bz, err := querier.QueryContract(ctx, contract, types.MustMarshalJSON(req))
	if err != nil {
		return sdkerrors.Wrapf(err, "unable to query pool %s", contract)
	}
	if err := json.Unmarshal(bz, out); err != nil {
		return sdkerrors.Wrapf(types.ErrInvalidRequest, "pool %s: %s", contract, err)
	}
	return nil
}
