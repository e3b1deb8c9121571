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

package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/utils"
	"github.com/timewave-computer/covenants/utils/mocks"
)

func TestExpiration(t *testing.T) {
	env := mocks.NewEnv(t)

	atHeight := types.ExpiresAtHeight(10)
	atTime := types.ExpiresAtTime(uint64(mocks.GenesisTime.Add(time.Hour).UnixNano()))
	never := types.NeverExpires()

	for _, expiration := range []types.Expiration{atHeight, atTime, never} {
		require.NoError(t, expiration.Validate())
		assert.False(t, expiration.IsExpired(env.Ctx))
	}
	require.ErrorIs(t, types.Expiration{}.Validate(), types.ErrInvalidConfig)

	// ACT: Height expirations are inclusive.
	env.Advance(9, time.Minute)
	assert.True(t, atHeight.IsExpired(env.Ctx))
	assert.False(t, atTime.IsExpired(env.Ctx))

	env.Advance(1, time.Hour)
	assert.True(t, atTime.IsExpired(env.Ctx))
	assert.False(t, never.IsExpired(env.Ctx))
}

func TestContractPermission(t *testing.T) {
	privileged := utils.TestAccount().Address
	stranger := utils.TestAccount().Address

	permissionless := types.Permissionless()
	require.NoError(t, permissionless.Validate())
	assert.True(t, permissionless.Allows(stranger))

	permissioned := types.Permissioned(privileged)
	require.NoError(t, permissioned.Validate())
	assert.True(t, permissioned.Allows(privileged))
	assert.False(t, permissioned.Allows(stranger))

	require.ErrorIs(t, types.Permissioned().Validate(), types.ErrInvalidConfig)
	require.ErrorIs(t, types.ContractPermission{}.Validate(), types.ErrInvalidConfig)
	require.ErrorIs(t, types.Permissioned("nope").Validate(), types.ErrInvalidConfig)
}

func TestUnmarshalMsg(t *testing.T) {
	var msg types.TickMsg
	require.NoError(t, types.UnmarshalMsg([]byte(`{"tick":{}}`), &msg))
	assert.NotNil(t, msg.Tick)

	require.ErrorIs(t, types.UnmarshalMsg([]byte(`{"tock":{}}`), &msg), types.ErrUnknownMsg)

	// ASSERT: Trailing data is rejected.
	require.ErrorIs(t, types.UnmarshalMsg([]byte(`{"tick":{}}{"tick":{}}`), &msg), types.ErrUnknownMsg)
	require.ErrorIs(t, types.UnmarshalMsg([]byte(`{"tick":{}}}`), &msg), types.ErrUnknownMsg)
	require.NoError(t, types.UnmarshalMsg([]byte("{\"tick\":{}}\n"), &msg))
}

type executeMsg struct {
	types.TickMsg
	Claim    *struct{} `json:"claim,omitempty"`
	Withdraw *struct{} `json:"withdraw,omitempty"`
}

func TestUnmarshalVariant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{name: "embedded variant", input: `{"tick":{}}`},
		{name: "own variant", input: `{"withdraw":{}}`},
		{name: "no variant", input: `{}`, err: types.ErrUnknownMsg},
		{name: "two variants", input: `{"tick":{},"claim":{}}`, err: types.ErrUnknownMsg},
		{name: "unknown variant", input: `{"tock":{}}`, err: types.ErrUnknownMsg},
		{name: "trailing data", input: `{"claim":{}} {"tick":{}}`, err: types.ErrUnknownMsg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg executeMsg
			err := types.UnmarshalVariant([]byte(tt.input), &msg)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCheckClock(t *testing.T) {
	clock := utils.ContractAccount("clock").Address

	require.NoError(t, types.CheckClock(clock, clock))
	require.ErrorIs(t, types.CheckClock(utils.TestAccount().Address, clock), types.ErrNotClock)
}
