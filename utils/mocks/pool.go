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

package mocks

import (
	"context"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
	lptypes "github.com/timewave-computer/covenants/types/liquidpooler"
)

// Pool is a two asset AMM answering both the Astroport pair and the Osmosis
// outpost dialects. Its reserves are its bank balances. LP shares are minted
// one per unit deposited.
type Pool struct {
	address     string
	Bank        *BankKeeper
	DenomA      string
	DenomB      string
	LPDenom     string
	PoolID      uint64
	TotalShares math.Int
}

func NewPool(address string, bank *BankKeeper, denomA, denomB, lpDenom string) *Pool {
	return &Pool{address: address, Bank: bank, DenomA: denomA, DenomB: denomB, LPDenom: lpDenom, TotalShares: math.ZeroInt()}
}

type poolQuery struct {
	lptypes.AstroportQuery
	lptypes.OsmosisQuery
}

type poolExecute struct {
	lptypes.AstroportExecute
	lptypes.OsmosisExecute
}

func (p *Pool) Address() string { return p.address }

func (p *Pool) Instantiate(context.Context, types.MessageInfo, []byte) (*types.Response, error) {
	return types.NewResponse(), nil
}

// Seed mints reserves to the pool. Their shares belong to no account.
func (p *Pool) Seed(ctx context.Context, reserveA, reserveB math.Int) error {
	p.TotalShares = p.TotalShares.Add(reserveA).Add(reserveB)
	return p.Bank.Fund(ctx, p.address, sdk.NewCoin(p.DenomA, reserveA), sdk.NewCoin(p.DenomB, reserveB))
}

func (p *Pool) Execute(ctx context.Context, info types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg poolExecute
	if err := types.UnmarshalMsg(bz, &msg); err != nil {
		return nil, err
	}

	switch {
	case msg.ProvideLiquidity != nil:
		receiver := info.Sender
		if msg.ProvideLiquidity.Receiver != nil {
			receiver = *msg.ProvideLiquidity.Receiver
		}
		return p.join(ctx, info.Funds, receiver)
	case msg.JoinPool != nil:
		return p.join(ctx, info.Funds, info.Sender)
	case msg.WithdrawLiquidity != nil, msg.ExitPool != nil:
		return p.exit(ctx, info.Funds, info.Sender)
	default:
		return nil, types.ErrUnknownMsg
	}
}

func (p *Pool) join(ctx context.Context, funds sdk.Coins, receiver string) (*types.Response, error) {
	shares := funds.AmountOf(p.DenomA).Add(funds.AmountOf(p.DenomB))
	if !shares.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidFunds, "nothing to provide")
	}
	p.TotalShares = p.TotalShares.Add(shares)
	return types.NewResponse(), p.Bank.Fund(ctx, receiver, sdk.NewCoin(p.LPDenom, shares))
}

func (p *Pool) exit(ctx context.Context, funds sdk.Coins, receiver string) (*types.Response, error) {
	shares := funds.AmountOf(p.LPDenom)
	if !shares.IsPositive() || shares.GT(p.TotalShares) {
		return nil, errors.Wrapf(types.ErrInvalidFunds, "cannot redeem %s shares", shares)
	}

	out := sdk.NewCoins()
	for _, denom := range []string{p.DenomA, p.DenomB} {
		reserve := p.Bank.Balance(ctx, p.address, denom)
		out = out.Add(sdk.NewCoin(denom, reserve.Mul(shares).Quo(p.TotalShares)))
	}
	if err := p.Bank.Burn(ctx, p.address, sdk.NewCoin(p.LPDenom, shares)); err != nil {
		return nil, err
	}
	p.TotalShares = p.TotalShares.Sub(shares)
	return types.NewResponse().AddMessage(types.NewBankSend(receiver, out)), nil
}

func (p *Pool) Query(ctx context.Context, bz []byte) ([]byte, error) {
	var req poolQuery
	if err := types.UnmarshalMsg(bz, &req); err != nil {
		return nil, err
	}

	reserveA := p.Bank.Balance(ctx, p.address, p.DenomA)
	reserveB := p.Bank.Balance(ctx, p.address, p.DenomB)

	switch {
	case req.Pool != nil:
		return types.MarshalQuery(lptypes.PoolResponse{
			Assets: []lptypes.Asset{
				lptypes.NativeAsset(sdk.NewCoin(p.DenomA, reserveA)),
				lptypes.NativeAsset(sdk.NewCoin(p.DenomB, reserveB)),
			},
			TotalShare: p.TotalShares,
		})
	case req.Pair != nil:
		return types.MarshalQuery(lptypes.PairInfo{ContractAddr: p.address, LiquidityToken: p.LPDenom})
	case req.SpotPrice != nil:
		reserves := map[string]math.Int{p.DenomA: reserveA, p.DenomB: reserveB}
		base, quote := reserves[req.SpotPrice.BaseAssetDenom], reserves[req.SpotPrice.QuoteAssetDenom]
		if base.IsNil() || quote.IsNil() || !base.IsPositive() {
			return nil, errors.Wrap(types.ErrInvalidRequest, "unknown or empty pool asset")
		}
		return types.MarshalQuery(lptypes.SpotPriceResponse{SpotPrice: math.LegacyNewDecFromInt(quote).QuoInt(base)})
	default:
		return nil, types.ErrUnknownMsg
	}
}
