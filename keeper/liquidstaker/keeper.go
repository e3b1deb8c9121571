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

package liquidstaker

import (
	"context"
	"encoding/json"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/keeper/icacontroller"
	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/clock"
	"github.com/timewave-computer/covenants/types/ica"
	lstypes "github.com/timewave-computer/covenants/types/liquidstaker"
	"github.com/timewave-computer/covenants/utils/fsm"
)

// Keeper is the liquid staker contract. Its interchain account holds liquid
// staked tokens until someone asks for them to be moved to the next
// contract.
type Keeper struct {
	address string
	logger  log.Logger
	querier types.ContractQuerier

	Config collections.Item[lstypes.Config]
	State  *fsm.Machine[ica.ContractState, ica.Event]
	ICA    *icacontroller.Controller
}

func NewKeeper(address string, store store.KVStoreService, logger log.Logger, querier types.ContractQuerier) *Keeper {
	builder := collections.NewSchemaBuilder(store)
	logger = logger.With("module", lstypes.ModuleName)

	keeper := &Keeper{
		address: address,
		logger:  logger,
		querier: querier,

		Config: collections.NewItem(builder, collections.NewPrefix(lstypes.ConfigKey), "config", types.JSONValue[lstypes.Config]()),
		State:  fsm.New(builder, lstypes.StateKey, "state", types.JSONValue[ica.ContractState](), ica.Transitions),
		ICA:    icacontroller.New(builder, address, logger),
	}

	if _, err := builder.Build(); err != nil {
		panic(err)
	}

	return keeper
}

func (k *Keeper) Address() string { return k.address }

func (k *Keeper) Instantiate(ctx context.Context, _ types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg lstypes.InstantiateMsg
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
	var msg lstypes.ExecuteMsg
	if err := types.UnmarshalVariant(bz, &msg); err != nil {
		return nil, err
	}

	switch {
	case msg.Tick != nil:
		return k.Tick(ctx, info.Sender)
	case msg.Transfer != nil:
		return k.Transfer(ctx, msg.Transfer.Amount)
	default:
		return nil, types.ErrUnknownMsg
	}
}

// Tick only registers the interchain account and leaves the clock once the
// transfer completed.
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

// Transfer sends amount of liquid staked tokens from the interchain account
// to the deposit address of the next contract.
func (k *Keeper) Transfer(ctx context.Context, amount sdkmath.Int) (*types.Response, error) {
	if amount.IsNil() || !amount.IsPositive() {
		return nil, sdkerrors.Wrap(types.ErrInvalidFunds, "amount must be positive")
	}

	state, err := k.State.Current(ctx)
	if err != nil {
		return nil, err
	}
	if state != ica.IcaCreated {
		return nil, sdkerrors.Wrapf(types.ErrInvalidState, "cannot transfer in state %s", state)
	}

	config, err := k.Config.Get(ctx)
	if err != nil {
		return nil, sdkerrors.Wrap(err, "unable to load config")
	}
	depositAddress, err := k.nextDepositAddress(ctx, config.NextContract)
	if err != nil {
		return nil, err
	}

	registration, _, err := k.ICA.Account(ctx, ica.InterchainAccountID)
	if err != nil {
		return nil, err
	}

	transfer := types.NewIBCTransfer(
		config.Remote.ChannelID,
		depositAddress,
		sdk.NewCoin(config.Remote.Denom, amount),
		types.IBCTimeout(ctx, config.Remote.IBCTransferTimeout),
		"",
	)
	transfer.Sender = registration.Address

	packed, err := codectypes.NewAnyWithValue(transfer)
	if err != nil {
		return nil, err
	}
	submit, err := k.ICA.SubmitTx(ctx, ica.InterchainAccountID, []*codectypes.Any{packed}, "", config.Remote.ICATimeout, "transfer")
	if err != nil {
		return nil, err
	}
	if _, err := k.State.Fire(ctx, ica.EventFundsSent); err != nil {
		return nil, err
	}

	k.logger.Info("transferring liquid staked tokens", "receiver", depositAddress, "amount", amount)
	return types.NewResponse().AddSubMessage(submit), nil
}

func (k *Keeper) nextDepositAddress(ctx context.Context, contract string) (string, error) {
	bz, err := k.querier.QueryContract(ctx, contract, types.MustMarshalJSON(types.DepositAddressQuery{DepositAddress: &struct{}{}}))
	if err != nil {
		return "", sdkerrors.Wrapf(err, "unable to query deposit address of %s", contract)
	}
	var address *string
	if err := json.Unmarshal(bz, &address); err != nil {
		return "", sdkerrors.Wrapf(types.ErrInvalidRequest, "deposit address of %s: %s", contract, err)
	}
	if address == nil || *address == "" {
		return "", sdkerrors.Wrap(lstypes.ErrNextContractNotReady, contract)
	}
	return *address, nil
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
