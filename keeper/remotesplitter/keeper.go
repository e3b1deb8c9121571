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

package remotesplitter

import (
	"context"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/log"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"

	"github.com/timewave-computer/covenants/keeper/icacontroller"
	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/clock"
	"github.com/timewave-computer/covenants/types/ica"
	rstypes "github.com/timewave-computer/covenants/types/remotesplitter"
	"github.com/timewave-computer/covenants/types/split"
	"github.com/timewave-computer/covenants/utils/fsm"
)

// Keeper is the remote chain splitter contract. Its interchain account
// splits a fixed amount between receivers and sends every share home in a
// single interchain transaction.
type Keeper struct {
	address string
	logger  log.Logger

	Config collections.Item[rstypes.Config]
	State  *fsm.Machine[ica.ContractState, ica.Event]
	ICA    *icacontroller.Controller
}

func NewKeeper(address string, store store.KVStoreService, logger log.Logger) *Keeper {
	builder := collections.NewSchemaBuilder(store)
	logger = logger.With("module", rstypes.ModuleName)

	keeper := &Keeper{
		address: address,
		logger:  logger,

		Config: collections.NewItem(builder, collections.NewPrefix(rstypes.ConfigKey), "config", types.JSONValue[rstypes.Config]()),
		State:  fsm.New(builder, rstypes.StateKey, "state", types.JSONValue[ica.ContractState](), ica.Transitions),
		ICA:    icacontroller.New(builder, address, logger),
	}

	if _, err := builder.Build(); err != nil {
		panic(err)
	}

	return keeper
}

func (k *Keeper) Address() string { return k.address }

func (k *Keeper) Instantiate(ctx context.Context, _ types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg rstypes.InstantiateMsg
	if err := types.UnmarshalMsg(bz, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if err := k.Config.Set(ctx, msg); err != nil {
		return nil, err
	}
	if err := k.State.Init(ctx, ica.Instantiated); err != nil {
		return nil, err
	}

	enqueue, err := clock.EnqueueMsg(msg.ClockAddress)
	if err != nil {
		return nil, err
	}
	return types.NewResponse().AddMessage(enqueue), nil
}

func (k *Keeper) Execute(ctx context.Context, info types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg rstypes.ExecuteMsg
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

	switch state {
	case ica.Instantiated:
		msgs, err := k.ICA.Register(ctx, ica.InterchainAccountID, config.Remote.ConnectionID)
		if err != nil {
			return nil, err
		}
		return types.NewResponse().AddMessages(msgs...), nil
	case ica.IcaCreated:
		return k.split(ctx, config)
	case ica.Complete:
		dequeue, err := clock.DequeueMsg(config.ClockAddress)
		if err != nil {
			return nil, err
		}
		return types.NewResponse().AddMessage(dequeue), nil
	default:
		return types.NewResponse(), nil
	}
}

func (k *Keeper) split(ctx context.Context, config rstypes.Config) (*types.Response, error) {
	registration, _, err := k.ICA.Account(ctx, ica.InterchainAccountID)
	if err != nil {
		return nil, err
	}

	route := &split.RemoteChain{ChannelID: config.Remote.ChannelID, FromRemote: true}
	transfers, err := config.Split.GetTransferMessages(config.Amount, config.Remote.Denom, nil, route, types.IBCTimeout(ctx, config.Remote.IBCTransferTimeout))
	if err != nil {
		return nil, err
	}

	msgs := make([]*codectypes.Any, 0, len(transfers))
	for _, transfer := range transfers {
		transfer.IBCTransfer.Sender = registration.Address

		packed, err := codectypes.NewAnyWithValue(transfer.IBCTransfer)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, packed)
	}

	submit, err := k.ICA.SubmitTx(ctx, ica.InterchainAccountID, msgs, "", config.Remote.ICATimeout, "split")
	if err != nil {
		return nil, err
	}
	if _, err := k.State.Fire(ctx, ica.EventFundsSent); err != nil {
		return nil, err
	}

	k.logger.Info("splitting remote funds", "amount", config.Amount, "transfers", len(msgs))
	return types.NewResponse().AddSubMessage(submit), nil
}

func (k *Keeper) Reply(ctx context.Context, reply types.Reply) (*types.Response, error) {
	if err := k.ICA.HandleReply(ctx, reply); err != nil {
		return nil, err
	}
	return types.NewResponse(), nil
}

func (k *Keeper) Sudo(ctx context.Context, bz []byte) (*types.Response, error) {
	return k.ICA.Sudo(ctx, bz, ica.InterchainAccountID, icacontroller.Callbacks{
		OpenAck: func(ctx context.Context, _ ica.Registration) error {
			_, err := k.State.Fire(ctx, ica.EventOpenAck)
			return err
		},
		Response: func(ctx context.Context, _ ica.SudoPayload, _ []byte) (*types.Response, error) {
			if _, err := k.State.Fire(ctx, ica.EventAcknowledged); err != nil {
				return nil, err
			}
			return types.NewResponse(), nil
		},
		Error: func(ctx context.Context, _ ica.SudoPayload) error {
			_, err := k.State.Fire(ctx, ica.EventFailed)
			return err
		},
		Timeout: func(ctx context.Context) error {
			_, err := k.State.Fire(ctx, ica.EventTimeout)
			return err
		},
	})
}
