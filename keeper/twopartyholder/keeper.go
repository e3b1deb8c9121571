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

package twopartyholder

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/clock"
	holdertypes "github.com/timewave-computer/covenants/types/holder"
	tphtypes "github.com/timewave-computer/covenants/types/twopartyholder"
	"github.com/timewave-computer/covenants/utils/fsm"
)

// Keeper is the two party POL holder. It collects both contributions,
// forwards them to the liquid pooler and later unwinds the position
// between the parties.
type Keeper struct {
	address string
	logger  log.Logger
	bank    types.BankKeeper

	Config  collections.Item[tphtypes.Config]
	State   *fsm.Machine[tphtypes.ContractState, tphtypes.Event]
	Pending collections.Item[tphtypes.PendingExit]
}

func NewKeeper(address string, store store.KVStoreService, logger log.Logger, bank types.BankKeeper) *Keeper {
	builder := collections.NewSchemaBuilder(store)

	keeper := &Keeper{
		address: address,
		logger:  logger.With("module", tphtypes.ModuleName),
		bank:    bank,

		Config:  collections.NewItem(builder, collections.NewPrefix(tphtypes.ConfigKey), "config", types.JSONValue[tphtypes.Config]()),
		State:   fsm.New(builder, tphtypes.StateKey, "state", types.JSONValue[tphtypes.ContractState](), tphtypes.Transitions),
		Pending: collections.NewItem(builder, collections.NewPrefix(tphtypes.PendingKey), "pending", types.JSONValue[tphtypes.PendingExit]()),
	}

	if _, err := builder.Build(); err != nil {
		panic(err)
	}

	return keeper
}

func (k *Keeper) Address() string { return k.address }

func (k *Keeper) Instantiate(ctx context.Context, _ types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg tphtypes.InstantiateMsg
	if err := types.UnmarshalMsg(bz, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if msg.DepositDeadline.IsExpired(ctx) {
		return nil, sdkerrors.Wrapf(types.ErrExpired, "deposit deadline, %s", msg.DepositDeadline)
	}
	if err := k.Config.Set(ctx, msg); err != nil {
		return nil, err
	}
	if err := k.State.Init(ctx, tphtypes.Instantiated); err != nil {
		return nil, err
	}

	enqueue, err := clock.EnqueueMsg(msg.ClockAddress)
	if err != nil {
		return nil, err
	}
	return types.NewResponse().AddMessage(enqueue), nil
}

func (k *Keeper) Execute(ctx context.Context, info types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg tphtypes.ExecuteMsg
	if err := types.UnmarshalVariant(bz, &msg); err != nil {
		return nil, err
	}

	switch {
	case msg.Tick != nil:
		return k.Tick(ctx, info.Sender)
	case msg.Claim != nil:
		return k.Claim(ctx, info.Sender)
	case msg.Ragequit != nil:
		return k.Ragequit(ctx, info.Sender)
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
	case tphtypes.Instantiated:
		return k.checkDeposits(ctx, config)
	case tphtypes.Active:
		if !config.LockupConfig.IsExpired(ctx) {
			return types.NewResponse(), nil
		}
		if _, err := k.State.Fire(ctx, tphtypes.EventLockupExpired); err != nil {
			return nil, err
		}
		k.logger.Info("lockup expired")
		return types.NewResponse(), nil
	case tphtypes.Expired:
		return types.NewResponse(), nil
	default:
		dequeue, err := clock.DequeueMsg(config.ClockAddress)
		if err != nil {
			return nil, err
		}
		return types.NewResponse().AddMessage(dequeue), nil
	}
}

// checkDeposits activates the covenant once both contributions arrived and
// refunds whatever was deposited once the deadline passes without them.
func (k *Keeper) checkDeposits(ctx context.Context, config tphtypes.Config) (*types.Response, error) {
	balances := k.bank.GetAllBalances(ctx, types.MustAccAddress(k.address))
	contributions := config.Contributions()

	if balances.IsAllGTE(contributions) {
		if _, err := k.State.Fire(ctx, tphtypes.EventFunded); err != nil {
			return nil, err
		}
		k.logger.Info("covenant funded", "contributions", contributions)
		return types.NewResponse().AddMessage(types.NewBankSend(config.NextContract, contributions)), nil
	}

	if !config.DepositDeadline.IsExpired(ctx) {
		return types.NewResponse(), nil
	}

	// each party gets back its own denomination in full
	refunds := config.ExitSplit(nil)
	res := types.NewResponse()
	for _, party := range []tphtypes.Party{config.PartyA, config.PartyB} {
		msgs, err := refunds.GetTransferMessages(balances.AmountOf(party.Contribution.Denom), party.Contribution.Denom, &party.Router, nil, 0)
		if err != nil {
			return nil, err
		}
		res.AddMessages(msgs...)
	}
	if _, err := k.State.Fire(ctx, tphtypes.EventDepositExpired); err != nil {
		return nil, err
	}

	k.logger.Info("deposit deadline expired, refunding", "deposited", balances)
	return res, nil
}

// Claim unwinds the position between both parties by allocation once the
// lockup expired.
func (k *Keeper) Claim(ctx context.Context, sender string) (*types.Response, error) {
	config, err := k.Config.Get(ctx)
	if err != nil {
		return nil, sdkerrors.Wrap(err, "unable to load config")
	}
	if _, _, err := config.Party(sender); err != nil {
		return nil, err
	}

	state, err := k.State.Current(ctx)
	if err != nil {
		return nil, err
	}
	if state != tphtypes.Expired {
		return nil, sdkerrors.Wrapf(types.ErrInvalidState, "cannot claim in state %s", state)
	}
	return k.exit(ctx, config, tphtypes.PendingExit{})
}

// Ragequit unwinds the position before the lockup expires. The leaving
// party pays the penalty to its counterparty.
func (k *Keeper) Ragequit(ctx context.Context, sender string) (*types.Response, error) {
	config, err := k.Config.Get(ctx)
	if err != nil {
		return nil, sdkerrors.Wrap(err, "unable to load config")
	}
	if _, _, err := config.Party(sender); err != nil {
		return nil, err
	}
	if config.RagequitConfig.Enabled == nil {
		return nil, tphtypes.ErrRagequitDisabled
	}

	state, err := k.State.Current(ctx)
	if err != nil {
		return nil, err
	}
	if state != tphtypes.Active {
		return nil, sdkerrors.Wrapf(types.ErrInvalidState, "cannot ragequit in state %s", state)
	}
	if config.LockupConfig.IsExpired(ctx) {
		return nil, sdkerrors.Wrapf(types.ErrExpired, "lockup, %s", config.LockupConfig)
	}

	k.logger.Info("ragequit", "party", sender, "penalty", config.RagequitConfig.Enabled.Penalty)
	return k.exit(ctx, config, tphtypes.PendingExit{Ragequitter: &sender})
}

func (k *Keeper) exit(ctx context.Context, config tphtypes.Config, pending tphtypes.PendingExit) (*types.Response, error) {
	withdraw, err := holdertypes.PoolerWithdrawMsg(config.NextContract)
	if err != nil {
		return nil, err
	}
	if err := k.Pending.Set(ctx, pending); err != nil {
		return nil, err
	}
	return types.NewResponse().AddSubMessage(types.SubMsg{
		ID:      tphtypes.ExitReplyID,
		Msg:     withdraw,
		ReplyOn: types.ReplySuccess,
	}), nil
}

// Reply distributes the withdrawn liquidity once the pooler returned it.
func (k *Keeper) Reply(ctx context.Context, reply types.Reply) (*types.Response, error) {
	if reply.ID != tphtypes.ExitReplyID {
		return nil, sdkerrors.Wrapf(types.ErrUnknownReply, "%d", reply.ID)
	}

	pending, err := k.Pending.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return nil, tphtypes.ErrNoPendingExit
	} else if err != nil {
		return nil, err
	}
	if err := k.Pending.Remove(ctx); err != nil {
		return nil, err
	}

	config, err := k.Config.Get(ctx)
	if err != nil {
		return nil, err
	}

	splits := config.ExitSplit(pending.Ragequitter)
	res := types.NewResponse()
	balances := k.bank.GetAllBalances(ctx, types.MustAccAddress(k.address))
	for _, coin := range balances {
		msgs, err := splits.GetTransferMessages(coin.Amount, coin.Denom, nil, nil, 0)
		if err != nil {
			return nil, err
		}
		res.AddMessages(msgs...)
	}

	event := tphtypes.EventClaimed
	if pending.Ragequitter != nil {
		event = tphtypes.EventRagequit
	}
	if _, err := k.State.Fire(ctx, event); err != nil {
		return nil, err
	}
	return res, nil
}
