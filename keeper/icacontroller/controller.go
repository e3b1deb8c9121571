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

// Package icacontroller tracks the interchain accounts of a contract and
// correlates submitted interchain txs with their asynchronous callbacks.
//
// A payload is stashed in a single slot before a submit-tx sub-message is
// dispatched. The reply to that sub-message carries the (channel, sequence)
// the host assigned, and the payload is moved under that key so the later
// response, error or timeout callback can find it.
package icacontroller

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/log"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	icatypes "github.com/cosmos/ibc-go/v8/modules/apps/27-interchain-accounts/types"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/ica"
)

type Controller struct {
	contract string
	logger   log.Logger

	Accounts     collections.Map[string, ica.Registration]
	ReplyPayload collections.Item[ica.SudoPayload]
	SudoPayloads collections.Map[collections.Pair[string, uint64], ica.SudoPayload]
	Errors       collections.Map[uint64, string]
	ErrorsSeq    collections.Sequence
}

// New registers the controller's collections in builder. The contract's own
// collections must not use the ica/ prefixes.
func New(builder *collections.SchemaBuilder, contract string, logger log.Logger) *Controller {
	return &Controller{
		contract: contract,
		logger:   logger,

		Accounts:     collections.NewMap(builder, collections.NewPrefix(ica.AccountsPrefix), "ica_accounts", collections.StringKey, types.JSONValue[ica.Registration]()),
		ReplyPayload: collections.NewItem(builder, collections.NewPrefix(ica.ReplyPayloadKey), "ica_reply_payload", types.JSONValue[ica.SudoPayload]()),
		SudoPayloads: collections.NewMap(builder, collections.NewPrefix(ica.SudoPayloadsPrefix), "ica_sudo_payloads", collections.PairKeyCodec(collections.StringKey, collections.Uint64Key), types.JSONValue[ica.SudoPayload]()),
		Errors:       collections.NewMap(builder, collections.NewPrefix(ica.ErrorsPrefix), "ica_errors", collections.Uint64Key, collections.StringValue),
		ErrorsSeq:    collections.NewSequence(builder, collections.NewPrefix(ica.ErrorsSequenceKey), "ica_errors_sequence"),
	}
}

// PortID returns the controller port of the contract's account id.
func (c *Controller) PortID(interchainAccountID string) (string, error) {
	return icatypes.NewControllerPortID(ica.Owner(c.contract, interchainAccountID))
}

// Account returns the registration behind interchainAccountID. found is false
// when registration has not been requested.
func (c *Controller) Account(ctx context.Context, interchainAccountID string) (registration ica.Registration, found bool, err error) {
	portID, err := c.PortID(interchainAccountID)
	if err != nil {
		return registration, false, err
	}
	registration, err = c.Accounts.Get(ctx, portID)
	if errors.Is(err, collections.ErrNotFound) {
		return registration, false, nil
	}
	return registration, err == nil, err
}

// Address returns the remote address of interchainAccountID, or nil until
// the account is open.
func (c *Controller) Address(ctx context.Context, interchainAccountID string) (*string, error) {
	registration, found, err := c.Account(ctx, interchainAccountID)
	if err != nil || !found || registration.Pending() {
		return nil, err
	}
	return &registration.Address, nil
}

// Register requests a new interchain account. It returns no message when a
// registration is already in flight or complete.
func (c *Controller) Register(ctx context.Context, interchainAccountID, connectionID string) ([]types.CosmosMsg, error) {
	portID, err := c.PortID(interchainAccountID)
	if err != nil {
		return nil, err
	}
	has, err := c.Accounts.Has(ctx, portID)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, nil
	}

	if err := c.Accounts.Set(ctx, portID, ica.Registration{}); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to record pending registration")
	}
	c.logger.Info("registering interchain account", "port_id", portID, "connection_id", connectionID)

	return []types.CosmosMsg{{RegisterICA: &types.RegisterICA{
		ConnectionID:        connectionID,
		InterchainAccountID: interchainAccountID,
	}}}, nil
}

// HandleOpenAck records the remote address announced by the host chain.
func (c *Controller) HandleOpenAck(ctx context.Context, msg ica.OpenAck) (ica.Registration, error) {
	metadata, err := ica.ParseCounterpartyVersion(msg.CounterpartyVersion)
	if err != nil {
		return ica.Registration{}, err
	}

	has, err := c.Accounts.Has(ctx, msg.PortID)
	if err != nil {
		return ica.Registration{}, err
	}
	if !has {
		return ica.Registration{}, sdkerrors.Wrapf(ica.ErrUnknownPort, "port %s", msg.PortID)
	}

	registration := ica.Registration{
		Address:      metadata.Address,
		ConnectionID: metadata.ControllerConnectionId,
	}
	if err := c.Accounts.Set(ctx, msg.PortID, registration); err != nil {
		return ica.Registration{}, sdkerrors.Wrap(err, "unable to store interchain account")
	}

	c.logger.Info("interchain account opened", "port_id", msg.PortID, "address", registration.Address)
	return registration, nil
}

// SubmitTx builds the sub-message executing msgs through a registered
// account. payload is returned by the matching callback.
func (c *Controller) SubmitTx(ctx context.Context, interchainAccountID string, msgs []*codectypes.Any, memo string, timeout uint64, message string) (types.SubMsg, error) {
	registration, found, err := c.Account(ctx, interchainAccountID)
	if err != nil {
		return types.SubMsg{}, err
	}
	if !found || registration.Pending() {
		return types.SubMsg{}, sdkerrors.Wrapf(ica.ErrAccountNotReady, "account %s", interchainAccountID)
	}

	portID, err := c.PortID(interchainAccountID)
	if err != nil {
		return types.SubMsg{}, err
	}
	if err := c.ReplyPayload.Set(ctx, ica.SudoPayload{PortID: portID, Message: message}); err != nil {
		return types.SubMsg{}, sdkerrors.Wrap(err, "unable to stash reply payload")
	}

	return types.SubMsg{
		ID: ica.SudoPayloadReplyID,
		Msg: types.CosmosMsg{SubmitTx: &types.SubmitTx{
			ConnectionID:        registration.ConnectionID,
			InterchainAccountID: interchainAccountID,
			Msgs:                msgs,
			Memo:                memo,
			Timeout:             timeout,
		}},
		ReplyOn: types.ReplySuccess,
	}, nil
}

// HandleReply moves the stashed payload under the (channel, sequence) of the
// submitted tx.
func (c *Controller) HandleReply(ctx context.Context, reply types.Reply) error {
	if reply.ID != ica.SudoPayloadReplyID {
		return sdkerrors.Wrapf(types.ErrUnknownReply, "%d", reply.ID)
	}

	sequence, channel, err := ica.DecodeSubmitTxResponse(reply.Data)
	if err != nil {
		return err
	}

	payload, err := c.ReplyPayload.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return ica.ErrMissingReplyPayload
	}
	if err != nil {
		return err
	}
	if err := c.ReplyPayload.Remove(ctx); err != nil {
		return err
	}

	c.logger.Debug("interchain tx submitted", "channel", channel, "sequence", sequence, "message", payload.Message)
	return c.SudoPayloads.Set(ctx, collections.Join(channel, sequence), payload)
}

// HandleResponse consumes the payload of an acknowledged packet.
func (c *Controller) HandleResponse(ctx context.Context, request ica.RequestPacket) (ica.SudoPayload, bool, error) {
	channel, sequence, err := request.Key()
	if err != nil {
		return ica.SudoPayload{}, false, err
	}
	return c.consume(ctx, channel, sequence)
}

// HandleError consumes the payload of a failed packet and appends details to
// the error queue.
func (c *Controller) HandleError(ctx context.Context, request ica.RequestPacket, details string) (ica.SudoPayload, bool, error) {
	channel, sequence, err := request.Key()
	if err != nil {
		return ica.SudoPayload{}, false, err
	}

	if err := c.AppendError(ctx, fmt.Sprintf("%s/%d: %s", channel, sequence, details)); err != nil {
		return ica.SudoPayload{}, false, err
	}
	return c.consume(ctx, channel, sequence)
}

// HandleTimeout forgets the account so the next tick registers a fresh one,
// and drops the packet's payload when the packet can be identified.
func (c *Controller) HandleTimeout(ctx context.Context, interchainAccountID string, request ica.RequestPacket) error {
	if channel, sequence, err := request.Key(); err == nil {
		if _, _, err := c.consume(ctx, channel, sequence); err != nil {
			return err
		}
	}

	portID, err := c.PortID(interchainAccountID)
	if err != nil {
		return err
	}
	c.logger.Info("interchain packet timed out", "port_id", portID, "packet", request.String())
	return c.Accounts.Remove(ctx, portID)
}

func (c *Controller) AppendError(ctx context.Context, message string) error {
	id, err := c.ErrorsSeq.Next(ctx)
	if err != nil {
		return err
	}
	c.logger.Error("interchain tx failed", "details", message)
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent("ica_error", sdk.NewAttribute("details", message)))
	return c.Errors.Set(ctx, id, message)
}

// ErrorsQueue returns every recorded error, oldest first.
func (c *Controller) ErrorsQueue(ctx context.Context) ([]string, error) {
	messages := []string{}
	err := c.Errors.Walk(ctx, nil, func(_ uint64, message string) (bool, error) {
		messages = append(messages, message)
		return false, nil
	})
	return messages, err
}

func (c *Controller) consume(ctx context.Context, channel string, sequence uint64) (ica.SudoPayload, bool, error) {
	key := collections.Join(channel, sequence)
	payload, err := c.SudoPayloads.Get(ctx, key)
	if errors.Is(err, collections.ErrNotFound) {
		return ica.SudoPayload{}, false, nil
	}
	if err != nil {
		return ica.SudoPayload{}, false, err
	}
	return payload, true, c.SudoPayloads.Remove(ctx, key)
}
