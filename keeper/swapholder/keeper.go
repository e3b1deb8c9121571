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

package swapholder

import (
	"context"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/clock"
	swaptypes "github.com/timewave-computer/covenants/types/swapholder"
	"github.com/timewave-computer/covenants/utils/fsm"
)

// Keeper is the swap holder contract.
type Keeper struct {
	address string
	logger  log.Logger
	bank    types.BankKeeper

	Config collections.Item[swaptypes.Config]
	State  *fsm.Machine[swaptypes.ContractState, swaptypes.Event]
}

func NewKeeper(address string, store store.KVStoreService, logger log.Logger, bank types.BankKeeper) *Keeper {
	builder := collections.NewSchemaBuilder(store)

	keeper := &Keeper{
		address: address,
		logger:  logger.With("module", swaptypes.ModuleName),
		bank:    bank,

		Config: collections.NewItem(builder, collections.NewPrefix(swaptypes.ConfigKey), "config", types.JSONValue[swaptypes.Config]()),
		State:  fsm.New(builder, swaptypes.StateKey, "state", types.JSONValue[swaptypes.ContractState](), swaptypes.Transitions),
	}

	if _, err := builder.Build(); err != nil {
		panic(err)
	}

	return keeper
}

func (k *Keeper) Address() string { return k.address }

func (k *Keeper) Instantiate(ctx context.Context, _ types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg swaptypes.InstantiateMsg
	if err := types.UnmarshalMsg(bz, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if msg.LockupConfig.IsExpired(ctx) {
		return nil, sdkerrors.Wrapf(types.ErrExpired, "lockup, %s", msg.LockupConfig)
	}
	if err := k.Config.Set(ctx, msg); err != nil {
		return nil, err
	}
	if err := k.State.Init(ctx, swaptypes.Instantiated); err != nil {
		return nil, err
	}

	enqueue, err := clock.EnqueueMsg(msg.ClockAddress)
	if err != nil {
		return nil, err
	}
	return types.NewResponse().AddMessage(enqueue), nil
}

func (k *Keeper) Execute(ctx context.Context, info types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg swaptypes.ExecuteMsg
	if err := types.UnmarshalVariant(bz, &msg); err != nil {
		return nil, err
	}
	if msg.Tick == nil {
		return nil, types.ErrUnknownMsg
	}
	return k.Tick(ctx, info.Sender)
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

	res := types.NewResponse()
	if state == swaptypes.Instantiated {
		balances := k.bank.GetAllBalances(ctx, types.MustAccAddress(k.address))
		deposits := sdk.NewCoins(config.PartyA.Coin(), config.PartyB.Coin())

		switch {
		case balances.IsAllGTE(deposits):
			if _, err := k.State.Fire(ctx, swaptypes.EventForwarded); err != nil {
				return nil, err
			}
			k.logger.Info("both parties deposited, forwarding", "deposits", deposits)
			res.AddMessage(types.NewBankSend(config.NextContract, deposits))
		case config.LockupConfig.IsExpired(ctx):
			for _, party := range []swaptypes.SwapParty{config.PartyA, config.PartyB} {
				deposited := balances.AmountOf(party.ProvidedDenom)
				if deposited.IsPositive() {
					res.AddMessage(types.NewBankSend(party.Addr, sdk.NewCoins(sdk.NewCoin(party.ProvidedDenom, deposited))))
				}
			}
			if _, err := k.State.Fire(ctx, swaptypes.EventExpired); err != nil {
				return nil, err
			}
			k.logger.Info("lockup expired, refunding", "deposited", balances)
		default:
			return res, nil
		}
	}

	dequeue, err := clock.DequeueMsg(config.ClockAddress)
	if err != nil {
		return nil, err
	}
	return res.AddMessage(dequeue), nil
}
