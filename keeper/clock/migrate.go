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

	sdkerrors "cosmossdk.io/errors"

	"github.com/timewave-computer/covenants/types"
	clocktypes "github.com/timewave-computer/covenants/types/clock"
)

func (k *Keeper) Migrate(ctx context.Context, bz []byte) (*types.Response, error) {
	var msg clocktypes.MigrateMsg
	if err := types.UnmarshalVariant(bz, &msg); err != nil {
		return nil, err
	}

	switch {
	case msg.Pause != nil:
		paused, err := k.GetPaused(ctx)
		if err != nil {
			return nil, err
		}
		if paused {
			return nil, clocktypes.ErrPaused
		}
		k.logger.Info("clock paused")
		return types.NewResponse(), k.Paused.Set(ctx, true)

	case msg.Unpause != nil:
		paused, err := k.GetPaused(ctx)
		if err != nil {
			return nil, err
		}
		if !paused {
			return nil, clocktypes.ErrNotPaused
		}
		k.logger.Info("clock unpaused")
		return types.NewResponse(), k.Paused.Set(ctx, false)

	case msg.UpdateTickMaxGas != nil:
		if msg.UpdateTickMaxGas.NewValue == 0 {
			return nil, clocktypes.ErrZeroTickMaxGas
		}
		return types.NewResponse(), k.TickMaxGas.Set(ctx, msg.UpdateTickMaxGas.NewValue)

	case msg.ManageWhitelist != nil:
		return k.manageWhitelist(ctx, *msg.ManageWhitelist)

	case msg.ClearWhitelist != nil:
		return types.NewResponse(), k.Whitelist.Clear(ctx, nil)

	case msg.UpdateCodeID != nil:
		return types.NewResponse(), nil

	default:
		return nil, types.ErrUnknownMsg
	}
}

// manageWhitelist applies additions before removals. It refuses to leave an
// empty list behind; clear_whitelist lifts the restriction explicitly.
func (k *Keeper) manageWhitelist(ctx context.Context, msg clocktypes.ManageWhitelist) (*types.Response, error) {
	for _, address := range msg.Add {
		if err := types.ValidateAddress(address, "whitelist"); err != nil {
			return nil, err
		}
		if err := k.Whitelist.Set(ctx, address); err != nil {
			return nil, err
		}
	}
	for _, address := range msg.Remove {
		if err := k.Whitelist.Remove(ctx, address); err != nil {
			return nil, err
		}
	}

	restricted, err := k.isRestricted(ctx)
	if err != nil {
		return nil, err
	}
	if !restricted {
		return nil, sdkerrors.Wrap(clocktypes.ErrEmptyWhitelist, "use clear_whitelist to allow any sender")
	}
	return types.NewResponse(), nil
}
