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
	"encoding/json"
	"testing"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/timewave-computer/covenants/host"
	"github.com/timewave-computer/covenants/types"
)

// Chain wires an Env to a host router backed by the mock keepers.
type Chain struct {
	*Env
	Router   *host.Router
	Bank     *BankKeeper
	Transfer *TransferKeeper
	ICA      *ICAControllerKeeper
}

func NewChain(t testing.TB, names ...string) *Chain {
	t.Helper()

	env := NewEnv(t, names...)
	bank := NewBankKeeper(env.StoreService("bank"))
	transfer := &TransferKeeper{Bank: bank}
	ica := NewICAControllerKeeper()

	return &Chain{
		Env:      env,
		Router:   host.NewRouter(log.NewNopLogger(), bank, transfer, ica),
		Bank:     bank,
		Transfer: transfer,
		ICA:      ica,
	}
}

// Deploy registers contract and instantiates it with msg.
func (c *Chain) Deploy(t testing.TB, contract types.Contract, label, admin string, msg any, funds ...sdk.Coin) {
	t.Helper()

	require.NoError(t, c.Router.Register(contract, label, admin))
	_, err := c.Router.Instantiate(c.Ctx, contract.Address(), types.MessageInfo{Sender: admin, Funds: funds}, MustJSON(msg))
	require.NoError(t, err)
}

func (c *Chain) Execute(sender, contract string, msg any, funds ...sdk.Coin) (*types.Response, error) {
	return c.Router.Execute(c.Ctx, contract, types.MessageInfo{Sender: sender, Funds: funds}, MustJSON(msg))
}

func (c *Chain) Sudo(contract string, msg any) (*types.Response, error) {
	return c.Router.Sudo(c.Ctx, contract, MustJSON(msg))
}

func (c *Chain) Migrate(sender, contract string, msg any) (*types.Response, error) {
	return c.Router.Migrate(c.Ctx, sender, contract, MustJSON(msg))
}

// Query decodes the response of a smart query into out.
func (c *Chain) Query(t testing.TB, contract string, req any, out any) {
	t.Helper()

	bz, err := c.Router.QueryContract(c.Ctx, contract, MustJSON(req))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bz, out))
}

func MustJSON(value any) []byte {
	if bz, ok := value.([]byte); ok {
		return bz
	}
	bz, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	return bz
}
