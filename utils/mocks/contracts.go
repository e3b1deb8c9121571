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

package mocks

import (
	"context"
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
)

// TickRecorder appends its address to Ticks on every tick.
type TickRecorder struct {
	address string
	Ticks   *[]string
}

func NewTickRecorder(address string, ticks *[]string) *TickRecorder {
	return &TickRecorder{address: address, Ticks: ticks}
}

func (c *TickRecorder) Address() string { return c.address }

func (c *TickRecorder) Instantiate(context.Context, types.MessageInfo, []byte) (*types.Response, error) {
	return types.NewResponse(), nil
}

func (c *TickRecorder) Execute(_ context.Context, _ types.MessageInfo, bz []byte) (*types.Response, error) {
	var msg types.TickMsg
	if err := types.UnmarshalMsg(bz, &msg); err != nil {
		return nil, err
	}
	if msg.Tick == nil {
		return nil, types.ErrUnknownMsg
	}
	*c.Ticks = append(*c.Ticks, c.address)
	return types.NewResponse(), nil
}

func (c *TickRecorder) Query(context.Context, []byte) ([]byte, error) {
	return types.MarshalQuery(len(*c.Ticks))
}

// GasBurner mints Reward to itself and then burns Gas units on every tick,
// or fails outright when Err is set.
type GasBurner struct {
	address string
	Bank    *BankKeeper
	Reward  sdk.Coin
	Gas     uint64
	Err     error
}

func NewGasBurner(address string, bank *BankKeeper, reward sdk.Coin, gas uint64) *GasBurner {
	return &GasBurner{address: address, Bank: bank, Reward: reward, Gas: gas}
}

func (c *GasBurner) Address() string { return c.address }

func (c *GasBurner) Instantiate(context.Context, types.MessageInfo, []byte) (*types.Response, error) {
	return types.NewResponse(), nil
}

func (c *GasBurner) Execute(ctx context.Context, _ types.MessageInfo, _ []byte) (*types.Response, error) {
	if err := c.Bank.Fund(ctx, c.address, c.Reward); err != nil {
		return nil, err
	}
	if c.Err != nil {
		return nil, c.Err
	}
	sdk.UnwrapSDKContext(ctx).GasMeter().ConsumeGas(c.Gas, "burn")
	return types.NewResponse(), nil
}

func (c *GasBurner) Query(context.Context, []byte) ([]byte, error) {
	return nil, errors.New("not queryable")
}

// DepositReceiver answers deposit address queries and, when Memo is set, the
// optional next memo query.
type DepositReceiver struct {
	address        string
	DepositAddress *string
	Memo           *string
}

func NewDepositReceiver(address string) *DepositReceiver {
	return &DepositReceiver{address: address}
}

func (c *DepositReceiver) Address() string { return c.address }

func (c *DepositReceiver) Instantiate(context.Context, types.MessageInfo, []byte) (*types.Response, error) {
	return types.NewResponse(), nil
}

func (c *DepositReceiver) Execute(context.Context, types.MessageInfo, []byte) (*types.Response, error) {
	return types.NewResponse(), nil
}

func (c *DepositReceiver) Query(_ context.Context, bz []byte) ([]byte, error) {
	var deposit types.DepositAddressQuery
	if err := types.UnmarshalMsg(bz, &deposit); err == nil && deposit.DepositAddress != nil {
		return types.MarshalQuery(c.DepositAddress)
	}
	var memo types.NextMemoQuery
	if err := types.UnmarshalMsg(bz, &memo); err == nil && memo.NextMemo != nil && c.Memo != nil {
		return types.MarshalQuery(*c.Memo)
	}
	return nil, types.ErrUnknownMsg
}
