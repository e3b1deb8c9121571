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
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Expiration is a point in chain time. Exactly one field is set.
type Expiration struct {
	AtHeight *uint64    `json:"at_height,omitempty"`
	AtTime   *math.Uint `json:"at_time,omitempty"`
	Never    *struct{}  `json:"never,omitempty"`
}

func ExpiresAtHeight(height uint64) Expiration { return Expiration{AtHeight: &height} }

// ExpiresAtTime takes unix nanoseconds.
func ExpiresAtTime(nanos uint64) Expiration {
	t := math.NewUint(nanos)
	return Expiration{AtTime: &t}
}

func NeverExpires() Expiration { return Expiration{Never: &struct{}{}} }

func (e Expiration) Validate() error {
	set := 0
	if e.AtHeight != nil {
		set++
	}
	if e.AtTime != nil {
		set++
	}
	if e.Never != nil {
		set++
	}
	if set != 1 {
		return errors.Wrap(ErrInvalidConfig, "expiration must set exactly one of at_height, at_time, never")
	}
	return nil
}

// IsExpired reports whether the current block is at or past the expiration.
func (e Expiration) IsExpired(ctx context.Context) bool {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	switch {
	case e.AtHeight != nil:
		return uint64(sdkCtx.BlockHeight()) >= *e.AtHeight
	case e.AtTime != nil:
		return math.NewUint(uint64(sdkCtx.BlockTime().UnixNano())).GTE(*e.AtTime)
	default:
		return false
	}
}

func (e Expiration) String() string {
	switch {
	case e.AtHeight != nil:
		return fmt.Sprintf("expiration height: %d", *e.AtHeight)
	case e.AtTime != nil:
		return fmt.Sprintf("expiration time: %s", e.AtTime.String())
	default:
		return "expiration: never"
	}
}
