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

	"github.com/timewave-computer/covenants/types"
	clocktypes "github.com/timewave-computer/covenants/types/clock"
)

func (k *Keeper) Query(ctx context.Context, bz []byte) ([]byte, error) {
	var req clocktypes.QueryMsg
	if err := types.UnmarshalVariant(bz, &req); err != nil {
		return nil, err
	}

	switch {
	case req.Queue != nil:
		registrants, err := k.Queue.List(ctx, req.Queue.StartAfter, types.PageLimit(req.Queue.Limit))
		if err != nil {
			return nil, err
		}
		return types.MarshalQuery(nonNil(registrants))
	case req.TickOrder != nil:
		registrants, err := k.Queue.Ordered(ctx, types.PageLimit(req.TickOrder.Limit))
		if err != nil {
			return nil, err
		}
		return types.MarshalQuery(nonNil(registrants))
	case req.IsQueued != nil:
		queued, err := k.Queue.Contains(ctx, req.IsQueued.Address)
		if err != nil {
			return nil, err
		}
		return types.MarshalQuery(queued)
	case req.Paused != nil:
		paused, err := k.GetPaused(ctx)
		if err != nil {
			return nil, err
		}
		return types.MarshalQuery(paused)
	case req.TickMaxGas != nil:
		gas, err := k.GetTickMaxGas(ctx)
		if err != nil {
			return nil, err
		}
		return types.MarshalQuery(gas)
	case req.Whitelist != nil:
		whitelist, err := k.GetWhitelist(ctx)
		if err != nil {
			return nil, err
		}
		return types.MarshalQuery(whitelist)
	default:
		return nil, types.ErrUnknownMsg
	}
}

func nonNil(registrants []string) []string {
	if registrants == nil {
		return []string{}
	}
	return registrants
}
