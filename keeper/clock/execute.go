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

package clock

import (
	"context"
	"errors"
	"strconv"

	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
	clocktypes "github.com/timewave-computer/covenants/types/clock"
	"github.com/timewave-computer/covenants/utils/queue"
)

// tickReplyID marks the reply of a failed registrant tick.
const tickReplyID uint64 = 0

func (k *Keeper) Instantiate(ctx context.Context, _ types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg clocktypes.InstantiateMsg
	if err := types.UnmarshalMsg(bz, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	tickMaxGas := clocktypes.DefaultTickMaxGas
	if msg.TickMaxGas != nil {
		tickMaxGas = *msg.TickMaxGas
	}
	if err := k.TickMaxGas.Set(ctx, tickMaxGas); err != nil {
		return nil, err
	}
	if err := k.Paused.Set(ctx, false); err != nil {
		return nil, err
	}
	if msg.Whitelist != nil {
		for _, address := range *msg.Whitelist {
			if err := k.Whitelist.Set(ctx, address); err != nil {
				return nil, err
			}
		}
	}

	k.logger.Info("clock instantiated", "tick_max_gas", tickMaxGas)
	return types.NewResponse(), nil
}

func (k *Keeper) Execute(ctx context.Context, info types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg clocktypes.ExecuteMsg
	if err := types.UnmarshalVariant(bz, &msg); err != nil {
		return nil, err
	}

	switch {
	case msg.Enqueue != nil:
		return k.Enqueue(ctx, info.Sender)
	case msg.Dequeue != nil:
		return k.Dequeue(ctx, info.Sender)
	case msg.Tick != nil:
		return k.Tick(ctx, info.Sender)
	default:
		return nil, types.ErrUnknownMsg
	}
}

// Enqueue registers sender, which must be a contract, at the tail.
func (k *Keeper) Enqueue(ctx context.Context, sender string) (*types.Response, error) {
	if err := k.ensureNotPaused(ctx); err != nil {
		return nil, err
	}
	if !k.contracts.HasContractInfo(ctx, sender) {
		return nil, sdkerrors.Wrapf(clocktypes.ErrNotContract, "%s", sender)
	}

	if err := k.Queue.Enqueue(ctx, sender); err != nil {
		if errors.Is(err, queue.ErrAlreadyEnqueued) {
			return nil, sdkerrors.Wrapf(clocktypes.ErrAlreadyEnqueued, "%s", sender)
		}
		return nil, sdkerrors.Wrap(err, "unable to enqueue")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent("clock_enqueue",
		sdk.NewAttribute("contract", sender),
	))
	return types.NewResponse(), nil
}

// Dequeue removes sender. Senders that are not queued are ignored.
func (k *Keeper) Dequeue(ctx context.Context, sender string) (*types.Response, error) {
	if err := k.ensureNotPaused(ctx); err != nil {
		return nil, err
	}
	if err := k.Queue.Remove(ctx, sender); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to dequeue")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent("clock_dequeue",
		sdk.NewAttribute("contract", sender),
	))
	return types.NewResponse(), nil
}

// Tick rotates the head registrant to the tail and sends it a gas limited
// tick. A registrant whose tick fails is rolled back on its own; the rotation
// still commits.
func (k *Keeper) Tick(ctx context.Context, sender string) (*types.Response, error) {
	if err := k.ensureNotPaused(ctx); err != nil {
		return nil, err
	}

	restricted, err := k.isRestricted(ctx)
	if err != nil {
		return nil, err
	}
	if restricted {
		allowed, err := k.Whitelist.Has(ctx, sender)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, sdkerrors.Wrapf(types.ErrUnauthorized, "%s may not tick the clock", sender)
		}
	}

	registrant, found, err := k.Queue.DequeueFront(ctx)
	if err != nil {
		return nil, sdkerrors.Wrap(err, "unable to pop queue")
	}
	if !found {
		return types.NewResponse(), nil
	}
	if err := k.Queue.Enqueue(ctx, registrant); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to rotate queue")
	}

	tickMaxGas, err := k.GetTickMaxGas(ctx)
	if err != nil {
		return nil, err
	}
	tick, err := types.NewWasmExecute(registrant, types.NewTickMsg(), nil)
	if err != nil {
		return nil, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent("clock_tick",
		sdk.NewAttribute("contract", registrant),
		sdk.NewAttribute("tick_max_gas", strconv.FormatUint(tickMaxGas, 10)),
	))

	return types.NewResponse().AddSubMessage(types.SubMsg{
		ID:       tickReplyID,
		Msg:      tick,
		GasLimit: &tickMaxGas,
		ReplyOn:  types.ReplyError,
	}), nil
}

// Reply swallows a failed registrant tick.
func (k *Keeper) Reply(ctx context.Context, reply types.Reply) (*types.Response, error) {
	if reply.ID != tickReplyID {
		return nil, sdkerrors.Wrapf(types.ErrUnknownReply, "%d", reply.ID)
	}

	k.logger.Error("registrant tick failed", "err", reply.Err)
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent("clock_tick_failed",
		sdk.NewAttribute("error", reply.Err),
	))
	return types.NewResponse(), nil
}

func (k *Keeper) isRestricted(ctx context.Context) (bool, error) {
	iter, err := k.Whitelist.Iterate(ctx, nil)
	if err != nil {
		return false, err
	}
	defer iter.Close()
	return iter.Valid(), nil
}
