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

package types

import (
	"encoding/json"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"
)

// ReplyOn controls when the host calls back into the dispatching contract.
type ReplyOn int

const (
	ReplyNever ReplyOn = iota
	ReplySuccess
	ReplyError
	ReplyAlways
)

// OnSuccess reports whether a successful sub-call is replied to.
func (r ReplyOn) OnSuccess() bool { return r == ReplySuccess || r == ReplyAlways }

// OnError reports whether a failed sub-call is replied to instead of aborting
// the caller.
func (r ReplyOn) OnError() bool { return r == ReplyError || r == ReplyAlways }

// Response is returned by every contract entrypoint.
type Response struct {
	Messages []SubMsg
	Data     []byte
}

func NewResponse() *Response {
	return &Response{}
}

// AddMessage appends a fire-and-forget message.
func (r *Response) AddMessage(msg CosmosMsg) *Response {
	r.Messages = append(r.Messages, SubMsg{Msg: msg})
	return r
}

// AddMessages appends several fire-and-forget messages.
func (r *Response) AddMessages(msgs ...CosmosMsg) *Response {
	for _, msg := range msgs {
		r.AddMessage(msg)
	}
	return r
}

func (r *Response) AddSubMessage(msg SubMsg) *Response {
	r.Messages = append(r.Messages, msg)
	return r
}

func (r *Response) SetData(data []byte) *Response {
	r.Data = data
	return r
}

// SubMsg is a message dispatched by the host after the handler returns.
type SubMsg struct {
	ID       uint64
	Msg      CosmosMsg
	GasLimit *uint64
	ReplyOn  ReplyOn
}

// Reply carries the outcome of a sub-message back to its dispatcher.
type Reply struct {
	ID   uint64
	Data []byte
	Err  string
}

func (r Reply) IsErr() bool { return r.Err != "" }

// CosmosMsg is a closed set of messages a contract may ask the host to
// dispatch. Exactly one field is set.
type CosmosMsg struct {
	Bank        *BankSend
	Wasm        *WasmExecute
	IBCTransfer *transfertypes.MsgTransfer
	RegisterICA *RegisterICA
	SubmitTx    *SubmitTx
}

type BankSend struct {
	ToAddress string
	Amount    sdk.Coins
}

type WasmExecute struct {
	Contract string
	Msg      []byte
	Funds    sdk.Coins
}

// RegisterICA opens an interchain account owned by the dispatching contract.
type RegisterICA struct {
	ConnectionID        string
	InterchainAccountID string
}

// SubmitTx executes msgs on the host chain through a registered interchain
// account. The reply data is the encoded submit-tx response.
type SubmitTx struct {
	ConnectionID        string
	InterchainAccountID string
	Msgs                []*codectypes.Any
	Memo                string
	Timeout             uint64
}

func NewBankSend(to string, amount sdk.Coins) CosmosMsg {
	return CosmosMsg{Bank: &BankSend{ToAddress: to, Amount: amount}}
}

// NewWasmExecute marshals msg into a contract execute message.
func NewWasmExecute(contract string, msg any, funds sdk.Coins) (CosmosMsg, error) {
	bz, err := json.Marshal(msg)
	if err != nil {
		return CosmosMsg{}, err
	}
	return CosmosMsg{Wasm: &WasmExecute{Contract: contract, Msg: bz, Funds: funds}}, nil
}
