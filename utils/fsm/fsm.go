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

// Package fsm persists a contract's state machine.
package fsm

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"
	collcodec "cosmossdk.io/collections/codec"
	sdkerrors "cosmossdk.io/errors"
)

var ErrInvalidTransition = sdkerrors.Register("fsm", 1, "invalid state transition")

// Table maps (state, event) to the next state. Pairs missing from the table
// are rejected.
type Table[S comparable, E comparable] map[S]map[E]S

type Machine[S comparable, E comparable] struct {
	table Table[S, E]
	state collections.Item[S]
}

func New[S comparable, E comparable](builder *collections.SchemaBuilder, prefix []byte, name string, valueCodec collcodec.ValueCodec[S], table Table[S, E]) *Machine[S, E] {
	return &Machine[S, E]{
		table: table,
		state: collections.NewItem(builder, collections.NewPrefix(prefix), name, valueCodec),
	}
}

// Init stores the initial state. It is only called at instantiation.
func (m *Machine[S, E]) Init(ctx context.Context, state S) error {
	return m.state.Set(ctx, state)
}

func (m *Machine[S, E]) Current(ctx context.Context) (S, error) {
	return m.state.Get(ctx)
}

// Next returns the state event would move to without applying it.
func (m *Machine[S, E]) Next(ctx context.Context, event E) (S, error) {
	current, err := m.state.Get(ctx)
	if err != nil {
		return current, err
	}

	next, ok := m.table[current][event]
	if !ok {
		return current, sdkerrors.Wrap(ErrInvalidTransition, fmt.Sprintf("%v on %v", event, current))
	}
	return next, nil
}

// Fire applies event. The stored state is untouched when the transition is
// not defined.
func (m *Machine[S, E]) Fire(ctx context.Context, event E) (S, error) {
	next, err := m.Next(ctx, event)
	if err != nil {
		return next, err
	}
	return next, m.state.Set(ctx, next)
}
