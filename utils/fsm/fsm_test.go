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

package fsm_test

import (
	"testing"

	"cosmossdk.io/collections"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timewave-computer/covenants/utils/fsm"
	"github.com/timewave-computer/covenants/utils/mocks"
)

const (
	red    = "red"
	green  = "green"
	yellow = "yellow"
)

func TestMachine(t *testing.T) {
	env := mocks.NewEnv(t, "fsm")
	builder := collections.NewSchemaBuilder(env.StoreService("fsm"))
	machine := fsm.New(builder, []byte("light"), "light", collections.StringValue, fsm.Table[string, string]{
		red:    {"go": green},
		green:  {"slow": yellow},
		yellow: {"stop": red},
	})
	_, err := builder.Build()
	require.NoError(t, err)
	ctx := env.Ctx

	require.NoError(t, machine.Init(ctx, red))

	next, err := machine.Fire(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, green, next)

	// ASSERT: An undefined transition leaves the state untouched.
	_, err = machine.Fire(ctx, "stop")
	require.ErrorIs(t, err, fsm.ErrInvalidTransition)

	current, err := machine.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, green, current)

	preview, err := machine.Next(ctx, "slow")
	require.NoError(t, err)
	assert.Equal(t, yellow, preview)
	current, err = machine.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, green, current)
}
