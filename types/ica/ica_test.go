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

package ica_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/ica"
	"github.com/timewave-computer/covenants/utils"
)

func TestParseCounterpartyVersion(t *testing.T) {
	address := utils.TestAccount().Address

	metadata, err := ica.ParseCounterpartyVersion(ica.NewCounterpartyVersion("connection-0", "connection-7", address))
	require.NoError(t, err)
	assert.Equal(t, "connection-0", metadata.ControllerConnectionId)
	assert.Equal(t, "connection-7", metadata.HostConnectionId)
	assert.Equal(t, address, metadata.Address)

	for _, version := range []string{
		`{"version":"ics27-1"}`,
		`{"version":"ics27-1","controller_connection_id":0,"host_connection_id":"connection-7","address":"a","encoding":"proto3","tx_type":"sdk_multi_msg"}`,
		`ics27-1`,
	} {
		_, err := ica.ParseCounterpartyVersion(version)
		require.ErrorIs(t, err, ica.ErrInvalidCounterpartyVersion, version)
	}
}

func TestSubmitTxResponse(t *testing.T) {
	bz := ica.EncodeSubmitTxResponse(42, "channel-9")

	sequence, channel, err := ica.DecodeSubmitTxResponse(bz)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), sequence)
	assert.Equal(t, "channel-9", channel)

	// ASSERT: Unknown fields are skipped.
	extended := protowire.AppendTag(nil, 3, protowire.VarintType)
	extended = protowire.AppendVarint(extended, 7)
	extended = append(extended, bz...)
	sequence, channel, err = ica.DecodeSubmitTxResponse(extended)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), sequence)
	assert.Equal(t, "channel-9", channel)

	// ASSERT: Truncated input is rejected.
	_, _, err = ica.DecodeSubmitTxResponse(bz[:len(bz)-2])
	require.ErrorIs(t, err, ica.ErrInvalidSubmitTxResponse)
}

func TestRequestPacketKey(t *testing.T) {
	channel, sequence, err := ica.NewRequestPacket("channel-1", 5).Key()
	require.NoError(t, err)
	assert.Equal(t, "channel-1", channel)
	assert.Equal(t, uint64(5), sequence)

	seq := uint64(5)
	_, _, err = ica.RequestPacket{Sequence: &seq}.Key()
	require.ErrorIs(t, err, ica.ErrMissingChannel)

	_, _, err = ica.RequestPacket{}.Key()
	require.ErrorIs(t, err, ica.ErrMissingSequence)
}

func TestRemoteChainInfoTimeouts(t *testing.T) {
	info := ica.RemoteChainInfo{
		ConnectionID:       "connection-0",
		ChannelID:          "channel-0",
		Denom:              "uatom",
		IBCTransferTimeout: 600,
		ICATimeout:         types.MaxTimeout,
	}
	require.NoError(t, info.Validate())

	// ASSERT: Timeouts that overflow a duration are rejected.
	info.IBCTransferTimeout = math.MaxUint64
	require.ErrorIs(t, info.Validate(), types.ErrInvalidConfig)

	info.IBCTransferTimeout = 600
	info.ICATimeout = types.MaxTimeout + 1
	require.ErrorIs(t, info.Validate(), types.ErrInvalidConfig)

	info.ICATimeout = 0
	require.ErrorIs(t, info.Validate(), types.ErrInvalidConfig)
}
