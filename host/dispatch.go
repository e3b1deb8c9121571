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

package host

import (
	"fmt"

	"cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	icatypes "github.com/cosmos/ibc-go/v8/modules/apps/27-interchain-accounts/types"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/ica"
)

// handleResponse dispatches every sub-message of res on behalf of caller.
func (r *Router) handleResponse(ctx sdk.Context, caller string, res *types.Response) (*types.Response, error) {
	if res == nil {
		return types.NewResponse(), nil
	}
	for _, msg := range res.Messages {
		data, err := r.dispatchSubMsg(ctx, caller, msg)
		if err != nil {
			return nil, err
		}
		if data != nil {
			res.Data = data
		}
	}
	return res, nil
}

// dispatchSubMsg runs msg in its own cache. A failure aborts the caller unless
// the sub-message asked for a reply on error, in which case only the sub-call
// is rolled back.
func (r *Router) dispatchSubMsg(ctx sdk.Context, caller string, msg types.SubMsg) ([]byte, error) {
	subCtx, writeCache := ctx.CacheContext()
	if msg.GasLimit != nil {
		subCtx = subCtx.WithGasMeter(storetypes.NewGasMeter(*msg.GasLimit))
	}

	data, err := r.runMsg(subCtx, caller, msg.Msg)
	if msg.GasLimit != nil {
		ctx.GasMeter().ConsumeGas(subCtx.GasMeter().GasConsumedToLimit(), "submessage")
	}

	if err != nil {
		if !msg.ReplyOn.OnError() {
			return nil, err
		}
		r.logger.Debug("sub-message failed", "caller", caller, "id", msg.ID, "err", err)
		return r.reply(ctx, caller, types.Reply{ID: msg.ID, Err: err.Error()})
	}

	writeCache()
	if !msg.ReplyOn.OnSuccess() {
		return nil, nil
	}
	return r.reply(ctx, caller, types.Reply{ID: msg.ID, Data: data})
}

func (r *Router) reply(ctx sdk.Context, caller string, reply types.Reply) ([]byte, error) {
	contract, err := r.lookup(caller)
	if err != nil {
		return nil, err
	}
	handler, ok := contract.contract.(types.ReplyHandler)
	if !ok {
		return nil, errors.Wrapf(types.ErrUnknownReply, "%s does not handle replies", contract.label)
	}

	res, err := handler.Reply(ctx, reply)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to handle reply %d in %s", reply.ID, contract.label)
	}
	res, err = r.handleResponse(ctx, caller, res)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// runMsg executes a single message, converting an out of gas panic into an
// error so the caller can recover from it.
func (r *Router) runMsg(ctx sdk.Context, caller string, msg types.CosmosMsg) (data []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			oog, ok := rec.(storetypes.ErrorOutOfGas)
			if !ok {
				panic(rec)
			}
			err = errors.Wrapf(sdkerrors.ErrOutOfGas, "out of gas in location: %s", oog.Descriptor)
		}
	}()

	callerAddr := types.MustAccAddress(caller)

	switch {
	case msg.Bank != nil:
		to, err := sdk.AccAddressFromBech32(msg.Bank.ToAddress)
		if err != nil {
			return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid recipient %s", msg.Bank.ToAddress)
		}
		return nil, r.bank.SendCoins(ctx, callerAddr, to, msg.Bank.Amount)

	case msg.Wasm != nil:
		res, err := r.execute(ctx, msg.Wasm.Contract, types.MessageInfo{Sender: caller, Funds: msg.Wasm.Funds}, msg.Wasm.Msg)
		if err != nil {
			return nil, err
		}
		return res.Data, nil

	case msg.IBCTransfer != nil:
		transfer := *msg.IBCTransfer
		transfer.Sender = caller
		if _, err := r.transfer.Transfer(ctx, &transfer); err != nil {
			return nil, errors.Wrap(err, "unable to send ibc transfer")
		}
		return nil, nil

	case msg.RegisterICA != nil:
		owner := ica.Owner(caller, msg.RegisterICA.InterchainAccountID)
		if _, err := icatypes.NewControllerPortID(owner); err != nil {
			return nil, err
		}
		return nil, r.ica.RegisterInterchainAccount(ctx, msg.RegisterICA.ConnectionID, owner)

	case msg.SubmitTx != nil:
		owner := ica.Owner(caller, msg.SubmitTx.InterchainAccountID)
		sequence, channel, err := r.ica.SubmitTx(ctx, msg.SubmitTx.ConnectionID, owner, msg.SubmitTx.Msgs, msg.SubmitTx.Memo, msg.SubmitTx.Timeout)
		if err != nil {
			return nil, errors.Wrap(err, "unable to submit interchain tx")
		}
		return ica.EncodeSubmitTxResponse(sequence, channel), nil

	default:
		return nil, errors.Wrap(types.ErrUnknownMsg, fmt.Sprintf("empty message from %s", caller))
	}
}
