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

package holder

import (
	"context"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
	holdertypes "github.com/timewave-computer/covenants/types/holder"
)

// Keeper is the single party holder contract.
type Keeper struct {
	address string
	logger  log.Logger
	bank    types.BankKeeper

	Config collections.Item[holdertypes.Config]
}

func NewKeeper(address string, store store.KVStoreService, logger log.Logger, bank types.BankKeeper) *Keeper {
	builder := collections.NewSchemaBuilder(store)

	keeper := &Keeper{
		address: address,
		logger:  logger.With("module", holdertypes.ModuleName),
		bank:    bank,

		Config: collections.NewItem(builder, collections.NewPrefix(holdertypes.ConfigKey), "config", types.JSONValue[holdertypes.Config]()),
	}

	if _, err := builder.Build(); err != nil {
		panic(err)
	}

	return keeper
}

func (k *Keeper) Address() string { return k.address }

func (k *Keeper) Instantiate(ctx context.Context, _ types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg holdertypes.InstantiateMsg
	if err := types.UnmarshalMsg(bz, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return types.NewResponse(), k.Config.Set(ctx, msg)
}

func (k *Keeper) Execute(ctx context.Context, info types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg holdertypes.ExecuteMsg
	if err := types.UnmarshalVariant(bz, &msg); err != nil {
		return nil, err
	}

	config, err := k.Config.Get(ctx)
	if err != nil {
		return nil, sdkerrors.Wrap(err, "unable to load config")
	}

	switch {
	case msg.Withdraw != nil:
		if info.Sender != config.Withdrawer {
			return nil, sdkerrors.Wrap(types.ErrUnauthorized, "only the withdrawer can withdraw")
		}
		if !config.LockupPeriod.IsExpired(ctx) {
			return nil, sdkerrors.Wrapf(types.ErrNotExpired, "lockup period, %s", config.LockupPeriod)
		}
		if msg.Withdraw.Quantity != nil {
			return k.withdrawQuantity(ctx, config, *msg.Withdraw.Quantity)
		}
		return k.withdrawAll(ctx, config)
	case msg.EmergencyWithdraw != nil:
		if config.EmergencyCommittee == nil || info.Sender != *config.EmergencyCommittee {
			return nil, sdkerrors.Wrap(types.ErrUnauthorized, "only the emergency committee can withdraw early")
		}
		k.logger.Info("emergency withdrawal", "committee", info.Sender)
		return k.withdrawAll(ctx, config)
	default:
		return nil, types.ErrUnknownMsg
	}
}

func (k *Keeper) withdrawQuantity(ctx context.Context, config holdertypes.Config, quantity sdk.Coins) (*types.Response, error) {
	if err := quantity.Validate(); err != nil || quantity.IsZero() {
		return nil, sdkerrors.Wrapf(types.ErrInvalidFunds, "invalid quantity %s", quantity)
	}
	balances := k.bank.GetAllBalances(ctx, types.MustAccAddress(k.address))
	if !balances.IsAllGTE(quantity) {
		return nil, sdkerrors.Wrapf(types.ErrInsufficientFunds, "holding %s, requested %s", balances, quantity)
	}

	k.logger.Info("withdrawing", "quantity", quantity)
	return types.NewResponse().AddMessage(types.NewBankSend(config.Withdrawer, quantity)), nil
}

// withdrawAll drains every balance to the withdrawer. With a pooler the
// liquidity is redeemed first and the drain happens in the reply, whether
// or not the redemption succeeded.
func (k *Keeper) withdrawAll(ctx context.Context, config holdertypes.Config) (*types.Response, error) {
	if config.PoolerAddress == nil {
		return k.drain(ctx, config)
	}

	withdraw, err := holdertypes.PoolerWithdrawMsg(*config.PoolerAddress)
	if err != nil {
		return nil, err
	}
	return types.NewResponse().AddSubMessage(types.SubMsg{
		ID:      holdertypes.WithdrawReplyID,
		Msg:     withdraw,
		ReplyOn: types.ReplyAlways,
	}), nil
}

func (k *Keeper) drain(ctx context.Context, config holdertypes.Config) (*types.Response, error) {
	balances := k.bank.GetAllBalances(ctx, types.MustAccAddress(k.address))
	if balances.IsZero() {
		return nil, holdertypes.ErrNothingToWithdraw
	}

	k.logger.Info("withdrawing all funds", "amount", balances)
	return types.NewResponse().AddMessage(types.NewBankSend(config.Withdrawer, balances)), nil
}

func (k *Keeper) Reply(ctx context.Context, reply types.Reply) (*types.Response, error) {
	if reply.ID != holdertypes.WithdrawReplyID {
		return nil, sdkerrors.Wrapf(types.ErrUnknownReply, "%d", reply.ID)
	}
	if reply.IsErr() {
		k.logger.Error("unable to redeem liquidity, withdrawing held funds", "err", reply.Err)
	}
	config, err := k.Config.Get(ctx)
	if err != nil {
		return nil, err
	}
	return k.drain(ctx, config)
}
