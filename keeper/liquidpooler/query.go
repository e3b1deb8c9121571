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

package liquidpooler

import (
	"context"

	"github.com/timewave-computer/covenants/types"
	lptypes "github.com/timewave-computer/covenants/types/liquidpooler"
)

func (k *Keeper) Query(ctx context.Context, bz []byte) ([]byte, error) {
	var req lptypes.QueryMsg
	if err := types.UnmarshalVariant(bz, &req); err != nil {
		return nil, err
	}

	switch {
	case req.ContractState != nil:
		state, err := k.State.Current(ctx)
		if err != nil {
			return nil, err
		}
		return types.MarshalQuery(state)
	case req.DepositAddress != nil:
		return types.MarshalQuery(k.address)
	case req.Config != nil:
		config, err := k.Config.Get(ctx)
		if err != nil {
			return nil, err
		}
		return types.MarshalQuery(config)
	case req.ProvidedLiquidityInfo != nil:
		info, err := k.Provided.Get(ctx)
		if err != nil {
			return nil, err
		}
		return types.MarshalQuery(info)
	default:
		return nil, types.ErrUnknownMsg
	}
}

func (k *Keeper) Migrate(ctx context.Context, bz []byte) (*types.Response, error) {
	var msg lptypes.MigrateMsg
	if err := types.UnmarshalVariant(bz, &msg); err != nil {
		return nil, err
	}

	switch {
	case msg.UpdateConfig != nil:
		config, err := k.Config.Get(ctx)
		if err != nil {
			return nil, err
		}
		config = msg.UpdateConfig.Apply(config)
		if err := config.Validate(); err != nil {
			return nil, err
		}
		return types.NewResponse(), k.Config.Set(ctx, config)
	case msg.UpdateCodeID != nil:
		return types.NewResponse(), nil
	default:
		return nil, types.ErrUnknownMsg
	}
}
