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

package liquidstaker_test

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timewave-computer/covenants/keeper/clock"
	"github.com/timewave-computer/covenants/keeper/liquidstaker"
	"github.com/timewave-computer/covenants/types"
	clocktypes "github.com/timewave-computer/covenants/types/clock"
	"github.com/timewave-computer/covenants/types/ica"
	lstypes "github.com/timewave-computer/covenants/types/liquidstaker"
	"github.com/timewave-computer/covenants/utils"
	"github.com/timewave-computer/covenants/utils/mocks"
)

const remoteAddress = "stride1liquidstakerica"

func setupLiquidStakerTest(t *testing.T) (*mocks.Chain, *clock.Keeper, *liquidstaker.Keeper, *mocks.DepositReceiver) {
	chain := mocks.NewChain(t, "clock", "liquid_staker")
	admin := utils.TestAccount()

	clockKeeper := clock.NewKeeper(utils.ContractAccount("clock").Address, chain.StoreService("clock"), log.NewNopLogger(), chain.Router)
	chain.Deploy(t, clockKeeper, "clock", admin.Address, clocktypes.InstantiateMsg{})

	next := mocks.NewDepositReceiver(utils.ContractAccount("pooler").Address)
	require.NoError(t, chain.Router.Register(next, "pooler", ""))

	k := liquidstaker.NewKeeper(utils.ContractAccount("liquid_staker").Address, chain.StoreService("liquid_staker"), log.NewNopLogger(), chain.Router)
	chain.Deploy(t, k, "liquid_staker", admin.Address, lstypes.InstantiateMsg{
		ClockAddress: clockKeeper.Address(),
		NextContract: next.Address(),
		Remote: ica.RemoteChainInfo{
			ConnectionID:       "connection-5",
			ChannelID:          "channel-9",
			Denom:              "stuatom",
			IBCTransferTimeout: 300,
			ICATimeout:         900,
		},
	})

	return chain, clockKeeper, k, next
}

func openAck(t *testing.T, chain *mocks.Chain, k *liquidstaker.Keeper) {
	portID, err := k.ICA.PortID(ica.InterchainAccountID)
	require.NoError(t, err)
	_, err = chain.Sudo(k.Address(), ica.SudoMsg{OpenAck: &ica.OpenAck{
		PortID:              portID,
		CounterpartyVersion: ica.NewCounterpartyVersion("connection-5", "connection-1", remoteAddress),
	}})
	require.NoError(t, err)
}

func TestLiquidStakerTransfer(t *testing.T) {
	chain, clockKeeper, k, next := setupLiquidStakerTest(t)
	anyone := utils.TestAccount().Address
	transfer := lstypes.ExecuteMsg{Transfer: &lstypes.Transfer{Amount: math.NewInt(777)}}

	// ASSERT: Transfers before the interchain account exists are rejected.
	_, err := chain.Execute(anyone, k.Address(), transfer)
	require.ErrorIs(t, err, types.ErrInvalidState)

	_, err = chain.Execute(anyone, clockKeeper.Address(), clocktypes.ExecuteMsg{Tick: &struct{}{}})
	require.NoError(t, err)
	require.Len(t, chain.ICA.Registrations, 1)
	openAck(t, chain, k)

	var address *string
	chain.Query(t, k.Address(), lstypes.QueryMsg{DepositAddress: &struct{}{}}, &address)
	require.NotNil(t, address)
	assert.Equal(t, remoteAddress, *address)

	// ASSERT: The next contract must expose a deposit address.
	_, err = chain.Execute(anyone, k.Address(), transfer)
	require.ErrorIs(t, err, lstypes.ErrNextContractNotReady)
	assert.Empty(t, chain.ICA.Submissions)

	depositAddress := "cosmos1poolerdeposit"
	next.DepositAddress = &depositAddress

	// ACT: Anyone triggers the transfer.
	_, err = chain.Execute(anyone, k.Address(), transfer)
	require.NoError(t, err)

	require.Len(t, chain.ICA.Submissions, 1)
	submission := chain.ICA.LastSubmission()
	var msg transfertypes.MsgTransfer
	require.NoError(t, msg.Unmarshal(submission.Msgs[0].Value))
	assert.Equal(t, "stuatom", msg.Token.Denom)
	assert.Equal(t, math.NewInt(777), msg.Token.Amount)
	assert.Equal(t, depositAddress, msg.Receiver)
	assert.Equal(t, remoteAddress, msg.Sender)

	// ASSERT: A second transfer while one is in flight is rejected.
	_, err = chain.Execute(anyone, k.Address(), transfer)
	require.ErrorIs(t, err, types.ErrInvalidState)

	_, err = chain.Sudo(k.Address(), ica.SudoMsg{Response: &ica.Response{
		Request: ica.NewRequestPacket(submission.Channel, submission.Sequence),
	}})
	require.NoError(t, err)

	var state ica.ContractState
	chain.Query(t, k.Address(), lstypes.QueryMsg{ContractState: &struct{}{}}, &state)
	assert.Equal(t, ica.Complete, state)

	// ASSERT: The clock stops ticking it after the next tick.
	_, err = chain.Execute(anyone, clockKeeper.Address(), clocktypes.ExecuteMsg{Tick: &struct{}{}})
	require.NoError(t, err)
	queued, err := clockKeeper.Queue.Contains(chain.Ctx, k.Address())
	require.NoError(t, err)
	assert.False(t, queued)
}

func TestLiquidStakerTimeoutReregisters(t *testing.T) {
	chain, clockKeeper, k, next := setupLiquidStakerTest(t)
	cranker := utils.TestAccount().Address
	depositAddress := "cosmos1poolerdeposit"
	next.DepositAddress = &depositAddress

	_, err := chain.Execute(cranker, clockKeeper.Address(), clocktypes.ExecuteMsg{Tick: &struct{}{}})
	require.NoError(t, err)
	openAck(t, chain, k)

	_, err = chain.Execute(cranker, k.Address(), lstypes.ExecuteMsg{Transfer: &lstypes.Transfer{Amount: math.NewInt(10)}})
	require.NoError(t, err)
	submission := chain.ICA.LastSubmission()

	// ACT: The packet times out.
	_, err = chain.Sudo(k.Address(), ica.SudoMsg{Timeout: &ica.Timeout{
		Request: ica.NewRequestPacket(submission.Channel, submission.Sequence),
	}})
	require.NoError(t, err)

	state, err := k.State.Current(chain.Ctx)
	require.NoError(t, err)
	assert.Equal(t, ica.Instantiated, state)

	// ASSERT: The next tick registers the account again.
	_, err = chain.Execute(cranker, clockKeeper.Address(), clocktypes.ExecuteMsg{Tick: &struct{}{}})
	require.NoError(t, err)
	assert.Len(t, chain.ICA.Registrations, 2)
}

func TestLiquidStakerRejectsZeroAmount(t *testing.T) {
	chain, _, k, _ := setupLiquidStakerTest(t)

	_, err := chain.Execute(utils.TestAccount().Address, k.Address(), lstypes.ExecuteMsg{Transfer: &lstypes.Transfer{Amount: math.ZeroInt()}})
	require.ErrorIs(t, err, types.ErrInvalidFunds)
}
