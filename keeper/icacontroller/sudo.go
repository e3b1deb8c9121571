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

package icacontroller

import (
	"context"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/ica"
)

// Callbacks let a contract react to its interchain account lifecycle. Nil
// callbacks are skipped.
type Callbacks struct {
	OpenAck  func(ctx context.Context, registration ica.Registration) error
	Response func(ctx context.Context, payload ica.SudoPayload, data []byte) (*types.Response, error)
	Error    func(ctx context.Context, payload ica.SudoPayload) error
	Timeout  func(ctx context.Context) error
}

// Sudo decodes a host callback for interchainAccountID and runs the matching
// callback. Acknowledgements of packets without a pending payload are logged
// and ignored.
func (c *Controller) Sudo(ctx context.Context, bz []byte, interchainAccountID string, callbacks Callbacks) (*types.Response, error) {
	var msg ica.SudoMsg
	if err := types.UnmarshalVariant(bz, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	switch {
	case msg.OpenAck != nil:
		registration, err := c.HandleOpenAck(ctx, *msg.OpenAck)
		if err != nil {
			return nil, err
		}
		if callbacks.OpenAck != nil {
			if err := callbacks.OpenAck(ctx, registration); err != nil {
				return nil, err
			}
		}

	case msg.Response != nil:
		payload, found, err := c.HandleResponse(ctx, msg.Response.Request)
		if err != nil {
			return nil, err
		}
		if !found {
			c.logger.Info("ignoring acknowledgement without payload", "packet", msg.Response.Request.String())
			break
		}
		if callbacks.Response != nil {
			return callbacks.Response(ctx, payload, msg.Response.Data)
		}

	case msg.Error != nil:
		payload, found, err := c.HandleError(ctx, msg.Error.Request, msg.Error.Details)
		if err != nil {
			return nil, err
		}
		if found && callbacks.Error != nil {
			if err := callbacks.Error(ctx, payload); err != nil {
				return nil, err
			}
		}

	case msg.Timeout != nil:
		if err := c.HandleTimeout(ctx, interchainAccountID, msg.Timeout.Request); err != nil {
			return nil, err
		}
		if callbacks.Timeout != nil {
			if err := callbacks.Timeout(ctx); err != nil {
				return nil, err
			}
		}
	}

	return types.NewResponse(), nil
}
