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

package splitter

import (
	"context"
	"slices"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/clock"
	splittypes "github.com/timewave-computer/covenants/types/splitter"
)

// Keeper is the native splitter contract. It stays enqueued and divides
// whatever it holds on every tick.
type Keeper struct {
	address string
	logger  log.Logger
	bank    types.BankKeeper

	Config collections.Item[splittypes.Config]
}

func NewKeeper(address string, store store.KVStoreService, logger log.Logger, bank types.BankKeeper) *Keeper {
	builder := collections.NewSchemaBuilder(store)

	keeper := &Keeper{
		address: address,
		logger:  logger.With("module", splittypes.ModuleName),
		bank:    bank,

		Config: collections.NewItem(builder, collections.NewPrefix(splittypes.ConfigKey), "config", types.JSONValue[splittypes.Config]()),
	}

	if _, err := builder.Build(); err != nil {
		panic(err)
	}

	return keeper
}

func (k *Keeper) Address() string { return k.address }

func (k *Keeper) Instantiate(ctx context.Context, _ types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg splittypes.InstantiateMsg
	if err := types.UnmarshalMsg(bz, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if err := k.Config.Set(ctx, msg); err != nil {
		return nil, err
	}

	enqueue, err := clock.EnqueueMsg(msg.ClockAddress)
	if err != nil {
		return nil, err
	}
	return types.NewResponse().AddMessage(enqueue), nil
}

func (k *Keeper) Execute(ctx context.Context, info types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg splittypes.ExecuteMsg
	if err := types.UnmarshalVariant(bz, &msg); err != nil {
		return nil, err
	}

	switch {
	case msg.Tick != nil:
		return k.Tick(ctx, info.Sender)
	case msg.DistributeFallback != nil:
		return k.DistributeFallback(ctx, info.Sender, msg.DistributeFallback.Denoms)
	default:
		return nil, types.ErrUnknownMsg
	}
}

// Tick distributes the held balance of every denom with an explicit split.
func (k *Keeper) Tick(ctx context.Context, sender string) (*types.Response, error) {
	config, err := k.Config.Get(ctx)
	if err != nil {
		return nil, sdkerrors.Wrap(err, "unable to load config")
	}
	if err := types.CheckClock(sender, config.ClockAddress); err != nil {
		return nil, err
	}

	res := types.NewResponse()
	for _, denom := range config.Denoms() {
		balance := k.bank.GetBalance(ctx, types.MustAccAddress(k.address), denom)
		if !balance.Amount.IsPositive() {
			continue
		}

		msgs, err := config.Splits[denom].GetTransferMessages(balance.Amount, denom, nil, nil, 0)
		if err != nil {
			return nil, sdkerrors.Wrapf(err, "unable to split %s", denom)
		}
		res.AddMessages(msgs...)
		k.logger.Info("distributing", "denom", denom, "amount", balance.Amount)
	}
	return res, nil
}

// DistributeFallback divides denoms without an explicit split using the
// fallback split when the sender passes the fallback permission.
func (k *Keeper) DistributeFallback(ctx context.Context, sender string, denoms []string) (*types.Response, error) {
	config, err := k.Config.Get(ctx)
	if err != nil {
		return nil, sdkerrors.Wrap(err, "unable to load config")
	}
	if !config.FallbackPermission.Allows(sender) {
		return nil, sdkerrors.Wrapf(types.ErrUnauthorized, "%s cannot distribute fallback", sender)
	}
	if config.FallbackSplit == nil {
		return nil, splittypes.ErrNoFallbackSplit
	}

	denoms = slices.Clone(denoms)
	slices.Sort(denoms)
	denoms = slices.Compact(denoms)

	res := types.NewResponse()
	for _, denom := range denoms {
		if _, found := config.Splits[denom]; found {
			return nil, sdkerrors.Wrapf(splittypes.ErrDenomNotFallback, "%s", denom)
		}

		balance := k.bank.GetBalance(ctx, types.MustAccAddress(k.address), denom)
		if !balance.Amount.IsPositive() {
			continue
		}

		msgs, err := config.FallbackSplit.GetTransferMessages(balance.Amount, denom, nil, nil, 0)
		if err != nil {
			return nil, sdkerrors.Wrapf(err, "unable to split %s", denom)
		}
		res.AddMessages(msgs...)
	}
	if len(res.Messages) == 0 {
		return nil, sdkerrors.Wrapf(splittypes.ErrNothingToDistribute, "%v", denoms)
	}

	k.logger.Info("distributing fallback", "denoms", denoms)
	return res, nil
}
