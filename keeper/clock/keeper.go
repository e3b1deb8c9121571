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

package clock

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"

	"github.com/timewave-computer/covenants/types"
	clocktypes "github.com/timewave-computer/covenants/types/clock"
	"github.com/timewave-computer/covenants/utils/queue"
)

// Keeper is the clock contract. It ticks its registrants round-robin.
type Keeper struct {
	address   string
	logger    log.Logger
	contracts types.ContractKeeper

	Paused     collections.Item[bool]
	TickMaxGas collections.Item[uint64]
	Whitelist  collections.KeySet[string]
	Queue      *queue.Queue[string]
}

func NewKeeper(address string, store store.KVStoreService, logger log.Logger, contracts types.ContractKeeper) *Keeper {
	builder := collections.NewSchemaBuilder(store)

	keeper := &Keeper{
		address:   address,
		logger:    logger.With("module", clocktypes.ModuleName),
		contracts: contracts,

		Paused:     collections.NewItem(builder, collections.NewPrefix(clocktypes.PausedKey), "paused", collections.BoolValue),
		TickMaxGas: collections.NewItem(builder, collections.NewPrefix(clocktypes.TickMaxGasKey), "tick_max_gas", collections.Uint64Value),
		Whitelist:  collections.NewKeySet(builder, collections.NewPrefix(clocktypes.WhitelistPrefix), "whitelist", collections.StringKey),
		Queue:      queue.New(builder, clocktypes.QueuePrefix, "queue", collections.StringKey),
	}

	if _, err := builder.Build(); err != nil {
		panic(err)
	}

	return keeper
}

func (k *Keeper) Address() string { return k.address }

// GetPaused returns false when the flag has never been written.
func (k *Keeper) GetPaused(ctx context.Context) (bool, error) {
	paused, err := k.Paused.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return false, nil
	}
	return paused, err
}

// GetTickMaxGas returns the default when unset.
func (k *Keeper) GetTickMaxGas(ctx context.Context) (uint64, error) {
	gas, err := k.TickMaxGas.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return clocktypes.DefaultTickMaxGas, nil
	}
	return gas, err
}

// GetWhitelist returns nil when any sender may tick.
func (k *Keeper) GetWhitelist(ctx context.Context) ([]string, error) {
	var whitelist []string
	err := k.Whitelist.Walk(ctx, nil, func(address string) (bool, error) {
		whitelist = append(whitelist, address)
		return false, nil
	})
	return whitelist, err
}

func (k *Keeper) ensureNotPaused(ctx context.Context) error {
	paused, err := k.GetPaused(ctx)
	if err != nil {
		return err
	}
	if paused {
		return clocktypes.ErrPaused
	}
	return nil
}
