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

package types

import (
	"context"
	"time"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
)

// MaxTimeout bounds relative timeouts, in seconds, so that they fit a
// time.Duration.
const MaxTimeout uint64 = 60 * 60 * 24 * 365

// ValidateTimeout checks a relative timeout in seconds.
func ValidateTimeout(seconds uint64, field string) error {
	if seconds == 0 || seconds > MaxTimeout {
		return errors.Wrapf(ErrInvalidConfig, "%s must be between 1 and %d seconds, got %d", field, MaxTimeout, seconds)
	}
	return nil
}

// IBCTimeout returns the timeout timestamp, in unix nanoseconds, that lies
// seconds after the current block.
func IBCTimeout(ctx context.Context, seconds uint64) uint64 {
	blockTime := sdk.UnwrapSDKContext(ctx).BlockTime()
	return uint64(blockTime.Add(time.Duration(seconds) * time.Second).UnixNano())
}

// NewIBCTransfer builds an ICS-20 transfer. The sender is filled in by the
// host.
func NewIBCTransfer(channel, receiver string, token sdk.Coin, timeout uint64, memo string) *transfertypes.MsgTransfer {
	return &transfertypes.MsgTransfer{
		SourcePort:       transfertypes.PortID,
		SourceChannel:    channel,
		Token:            token,
		Receiver:         receiver,
		TimeoutHeight:    clienttypes.ZeroHeight(),
		TimeoutTimestamp: timeout,
		Memo:             memo,
	}
}
