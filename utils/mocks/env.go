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
	"testing"
	"time"

	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	storev1 "cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

// GenesisTime is the block time of every fresh Env.
var GenesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Env is an in-memory chain with one store per named contract plus the bank.
type Env struct {
	Ctx  sdk.Context
	keys map[string]*storetypes.KVStoreKey
}

func NewEnv(t testing.TB, names ...string) *Env {
	t.Helper()

	db := dbm.NewMemDB()
	cms := storev1.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())

	keys := make(map[string]*storetypes.KVStoreKey)
	for _, name := range append([]string{"bank"}, names...) {
		key := storetypes.NewKVStoreKey(name)
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
		keys[name] = key
	}
	require.NoError(t, cms.LoadLatestVersion())

	ctx := sdk.NewContext(cms, cmtproto.Header{Height: 1, Time: GenesisTime}, false, log.NewNopLogger())

	return &Env{Ctx: ctx, keys: keys}
}

// StoreService returns the store service of a mounted contract store.
func (e *Env) StoreService(name string) store.KVStoreService {
	key, ok := e.keys[name]
	if !ok {
		panic("store not mounted: " + name)
	}
	return runtime.NewKVStoreService(key)
}

// Advance moves the chain forward.
func (e *Env) Advance(blocks int64, elapsed time.Duration) {
	e.Ctx = e.Ctx.
		WithBlockHeight(e.Ctx.BlockHeight() + blocks).
		WithBlockTime(e.Ctx.BlockTime().Add(elapsed))
}
