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

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// BankKeeper keeps balances in the store so that cached contexts roll them
// back together with contract state.
type BankKeeper struct {
	Balances collections.Map[collections.Pair[sdk.AccAddress, string], math.Int]
}

func NewBankKeeper(service store.KVStoreService) *BankKeeper {
	builder := collections.NewSchemaBuilder(service)
	bank := &BankKeeper{
		Balances: collections.NewMap(builder, collections.NewPrefix([]byte("bank/balances/")), "balances", collections.PairKeyCodec(sdk.AccAddressKey, collections.StringKey), sdk.IntValue),
	}
	if _, err := builder.Build(); err != nil {
		panic(err)
	}
	return bank
}

func (k *BankKeeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	amount, err := k.Balances.Get(ctx, collections.Join(addr, denom))
	if err != nil {
		return sdk.NewCoin(denom, math.ZeroInt())
	}
	return sdk.NewCoin(denom, amount)
}

func (k *BankKeeper) GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins {
	coins := sdk.NewCoins()
	_ = k.Balances.Walk(ctx, collections.NewPrefixedPairRange[sdk.AccAddress, string](addr), func(key collections.Pair[sdk.AccAddress, string], amount math.Int) (bool, error) {
		coins = coins.Add(sdk.NewCoin(key.K2(), amount))
		return false, nil
	})
	return coins
}

func (k *BankKeeper) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return errors.Wrap(sdkerrors.ErrInvalidCoins, amt.String())
	}
	for _, coin := range amt {
		balance := k.GetBalance(ctx, fromAddr, coin.Denom)
		if balance.Amount.LT(coin.Amount) {
			return errors.Wrapf(sdkerrors.ErrInsufficientFunds, "%s is smaller than %s", balance, coin)
		}
		if err := k.setBalance(ctx, fromAddr, balance.Amount.Sub(coin.Amount), coin.Denom); err != nil {
			return err
		}
		received := k.GetBalance(ctx, toAddr, coin.Denom)
		if err := k.setBalance(ctx, toAddr, received.Amount.Add(coin.Amount), coin.Denom); err != nil {
			return err
		}
	}
	return nil
}

// Fund mints coins to address.
func (k *BankKeeper) Fund(ctx context.Context, address string, coins ...sdk.Coin) error {
	addr, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		return err
	}
	for _, coin := range coins {
		balance := k.GetBalance(ctx, addr, coin.Denom)
		if err := k.setBalance(ctx, addr, balance.Amount.Add(coin.Amount), coin.Denom); err != nil {
			return err
		}
	}
	return nil
}

// Burn destroys coins held by address.
func (k *BankKeeper) Burn(ctx context.Context, address string, coins ...sdk.Coin) error {
	addr, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		return err
	}
	for _, coin := range coins {
		balance := k.GetBalance(ctx, addr, coin.Denom)
		if balance.Amount.LT(coin.Amount) {
			return errors.Wrapf(sdkerrors.ErrInsufficientFunds, "%s is smaller than %s", balance, coin)
		}
		if err := k.setBalance(ctx, addr, balance.Amount.Sub(coin.Amount), coin.Denom); err != nil {
			return err
		}
	}
	return nil
}

// Balance is a test shorthand for GetBalance on a bech32 address.
func (k *BankKeeper) Balance(ctx context.Context, address, denom string) math.Int {
	return k.GetBalance(ctx, sdk.MustAccAddressFromBech32(address), denom).Amount
}

func (k *BankKeeper) setBalance(ctx context.Context, addr sdk.AccAddress, amount math.Int, denom string) error {
	if amount.IsZero() {
		return k.Balances.Remove(ctx, collections.Join(addr, denom))
	}
	return k.Balances.Set(ctx, collections.Join(addr, denom), amount)
}
