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
	"errors"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/clock"
	lptypes "github.com/timewave-computer/covenants/types/liquidpooler"
	"github.com/timewave-computer/covenants/utils/fsm"
)

// Keeper is the liquid pooler contract. It provides the assets it holds to
// a pool once they are within the configured limits and the pool price is
// acceptable, then holds the LP shares for the holder.
type Keeper struct {
	address string
	logger  log.Logger
	bank    types.BankKeeper
	querier types.ContractQuerier

	Config   collections.Item[lptypes.Config]
	State    *fsm.Machine[lptypes.ContractState, lptypes.Event]
	Provided collections.Item[lptypes.ProvidedLiquidityInfo]
	Pending  collections.Item[lptypes.ProvidedLiquidityInfo]
}

func NewKeeper(address string, store store.KVStoreService, logger log.Logger, bank types.BankKeeper, querier types.ContractQuerier) *Keeper {
	builder := collections.NewSchemaBuilder(store)

	keeper := &Keeper{
		address: address,
		logger:  logger.With("module", lptypes.ModuleName),
		bank:    bank,
		querier: querier,

		Config:   collections.NewItem(builder, collections.NewPrefix(lptypes.ConfigKey), "config", types.JSONValue[lptypes.Config]()),
		State:    fsm.New(builder, lptypes.StateKey, "state", types.JSONValue[lptypes.ContractState](), lptypes.Transitions),
		Provided: collections.NewItem(builder, collections.NewPrefix(lptypes.ProvidedKey), "provided", types.JSONValue[lptypes.ProvidedLiquidityInfo]()),
		Pending:  collections.NewItem(builder, collections.NewPrefix(lptypes.PendingKey), "pending", types.JSONValue[lptypes.ProvidedLiquidityInfo]()),
	}

	if _, err := builder.Build(); err != nil {
		panic(err)
	}

	return keeper
}

func (k *Keeper) Address() string { return k.address }

func (k *Keeper) Instantiate(ctx context.Context, _ types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg lptypes.InstantiateMsg
	if err := types.UnmarshalMsg(bz, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if err := k.Config.Set(ctx, msg); err != nil {
		return nil, err
	}
	if err := k.State.Init(ctx, lptypes.Instantiated); err != nil {
		return nil, err
	}

	enqueue, err := clock.EnqueueMsg(msg.ClockAddress)
	if err != nil {
		return nil, err
	}
	return types.NewResponse().AddMessage(enqueue), nil
}

func (k *Keeper) Execute(ctx context.Context, info types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg lptypes.ExecuteMsg
	if err := types.UnmarshalVariant(bz, &msg); err != nil {
		return nil, err
	}

	switch {
	case msg.Tick != nil:
		return k.Tick(ctx, info.Sender)
	case msg.Withdraw != nil:
		return k.Withdraw(ctx, info.Sender, *msg.Withdraw)
	default:
		return nil, types.ErrUnknownMsg
	}
}

func (k *Keeper) Tick(ctx context.Context, sender string) (*types.Response, error) {
	config, err := k.Config.Get(ctx)
	if err != nil {
		return nil, sdkerrors.Wrap(err, "unable to load config")
	}
	if err := types.CheckClock(sender, config.ClockAddress); err != nil {
		return nil, err
	}

	state, err := k.State.Current(ctx)
	if err != nil {
		return nil, err
	}

	switch state {
	case lptypes.Instantiated:
		return k.provide(ctx, config)
	default:
		dequeue, err := clock.DequeueMsg(config.ClockAddress)
		if err != nil {
			return nil, err
		}
		return types.NewResponse().AddMessage(dequeue), nil
	}
}

// provide deposits the held assets into the pool. Holding both assets
// provides double sided liquidity. Holding only one provides single sided
// liquidity up to that asset's limit.
func (k *Keeper) provide(ctx context.Context, config lptypes.Config) (*types.Response, error) {
	self := types.MustAccAddress(k.address)
	balanceA := k.bank.GetBalance(ctx, self, config.AssetADenom)
	balanceB := k.bank.GetBalance(ctx, self, config.AssetBDenom)

	if balanceA.IsZero() && balanceB.IsZero() {
		k.logger.Debug("waiting for funds")
		return types.NewResponse(), nil
	}

	switch {
	case balanceB.IsZero() && balanceA.Amount.GT(config.SingleSideLpLimits.AssetALimit):
		return nil, sdkerrors.Wrapf(lptypes.ErrSingleSideLimitExceeded, "%s above limit %s", balanceA, config.SingleSideLpLimits.AssetALimit)
	case balanceA.IsZero() && balanceB.Amount.GT(config.SingleSideLpLimits.AssetBLimit):
		return nil, sdkerrors.Wrapf(lptypes.ErrSingleSideLimitExceeded, "%s above limit %s", balanceB, config.SingleSideLpLimits.AssetBLimit)
	}

	pool, err := NewPool(config, k.querier)
	if err != nil {
		return nil, err
	}
	price, err := pool.SpotPrice(ctx)
	if err != nil {
		return nil, err
	}
	if !config.PoolPriceConfig.Contains(price) {
		return nil, sdkerrors.Wrapf(lptypes.ErrPriceOutOfRange, "price %s, expected %s ± %s", price, config.PoolPriceConfig.ExpectedSpotPrice, config.PoolPriceConfig.AcceptablePriceSpread)
	}

	assets := sdk.NewCoins(balanceA, balanceB)
	msg, err := pool.Provide(assets, k.address)
	if err != nil {
		return nil, err
	}
	if err := k.Pending.Set(ctx, lptypes.ProvidedLiquidityInfo{
		ProvidedAmountA: balanceA.Amount,
		ProvidedAmountB: balanceB.Amount,
	}); err != nil {
		return nil, err
	}

	k.logger.Info("providing liquidity", "assets", assets, "price", price)
	return types.NewResponse().AddSubMessage(types.SubMsg{
		ID:      lptypes.ProvideReplyID,
		Msg:     msg,
		ReplyOn: types.ReplySuccess,
	}), nil
}

// Withdraw redeems a fraction of the LP shares for the holder.
func (k *Keeper) Withdraw(ctx context.Context, sender string, msg lptypes.Withdraw) (*types.Response, error) {
	config, err := k.Config.Get(ctx)
	if err != nil {
		return nil, sdkerrors.Wrap(err, "unable to load config")
	}
	if sender != config.HolderAddress {
		return nil, sdkerrors.Wrap(types.ErrUnauthorized, "only the holder can withdraw")
	}
	fraction, err := msg.Fraction()
	if err != nil {
		return nil, err
	}

	pool, err := NewPool(config, k.querier)
	if err != nil {
		return nil, err
	}
	lpDenom, err := pool.LPDenom(ctx)
	if err != nil {
		return nil, err
	}
	held := k.bank.GetBalance(ctx, types.MustAccAddress(k.address), lpDenom)
	shares := math.LegacyNewDecFromInt(held.Amount).Mul(fraction).TruncateInt()
	if !shares.IsPositive() {
		return nil, sdkerrors.Wrapf(lptypes.ErrNoLiquidity, "holding %s", held)
	}

	withdraw, err := pool.Withdraw(sdk.NewCoin(lpDenom, shares))
	if err != nil {
		return nil, err
	}

	k.logger.Info("withdrawing liquidity", "shares", shares, "fraction", fraction)
	return types.NewResponse().AddSubMessage(types.SubMsg{
		ID:      lptypes.WithdrawReplyID,
		Msg:     withdraw,
		ReplyOn: types.ReplySuccess,
	}), nil
}

func (k *Keeper) Reply(ctx context.Context, reply types.Reply) (*types.Response, error) {
	config, err := k.Config.Get(ctx)
	if err != nil {
		return nil, err
	}

	switch reply.ID {
	case lptypes.ProvideReplyID:
		return k.handleProvided(ctx, config)
	case lptypes.WithdrawReplyID:
		return k.handleWithdrawn(ctx, config)
	default:
		return nil, sdkerrors.Wrapf(types.ErrUnknownReply, "%d", reply.ID)
	}
}

func (k *Keeper) handleProvided(ctx context.Context, config lptypes.Config) (*types.Response, error) {
	info, err := k.Pending.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return nil, lptypes.ErrMissingPendingProvision
	} else if err != nil {
		return nil, err
	}
	if err := k.Pending.Remove(ctx); err != nil {
		return nil, err
	}

	pool, err := NewPool(config, k.querier)
	if err != nil {
		return nil, err
	}
	lpDenom, err := pool.LPDenom(ctx)
	if err != nil {
		return nil, err
	}
	info.LpShares = k.bank.GetBalance(ctx, types.MustAccAddress(k.address), lpDenom)

	if err := k.Provided.Set(ctx, info); err != nil {
		return nil, err
	}
	if _, err := k.State.Fire(ctx, lptypes.EventProvided); err != nil {
		return nil, err
	}

	k.logger.Info("liquidity provided", "info", info.String())
	dequeue, err := clock.DequeueMsg(config.ClockAddress)
	if err != nil {
		return nil, err
	}
	return types.NewResponse().AddMessage(dequeue), nil
}

// handleWithdrawn forwards the redeemed assets to the holder.
func (k *Keeper) handleWithdrawn(ctx context.Context, config lptypes.Config) (*types.Response, error) {
	self := types.MustAccAddress(k.address)
	assets := sdk.NewCoins(
		k.bank.GetBalance(ctx, self, config.AssetADenom),
		k.bank.GetBalance(ctx, self, config.AssetBDenom),
	)
	if assets.IsZero() {
		return types.NewResponse(), nil
	}
	return types.NewResponse().AddMessage(types.NewBankSend(config.HolderAddress, assets)), nil
}
