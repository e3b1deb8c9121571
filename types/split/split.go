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

// Package split distributes balances between receivers in fixed proportions.
package split

import (
	"sort"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"

	"github.com/timewave-computer/covenants/types"
)

var precisionMultiplier = math.NewIntWithDecimal(1, math.LegacyPrecision)

// SplitConfig maps receivers to their share of a balance.
type SplitConfig struct {
	Receivers map[string]math.LegacyDec `json:"receivers"`
}

// RemoteChain routes receivers that are not local accounts over IBC.
// FromRemote is set when an interchain account issues the transfers, in
// which case no receiver is local.
type RemoteChain struct {
	ChannelID  string `json:"channel_id"`
	Timeout    uint64 `json:"ibc_transfer_timeout"`
	Memo       string `json:"memo,omitempty"`
	FromRemote bool   `json:"-"`
}

// Allocation is a receiver's entitlement of a single distribution.
type Allocation struct {
	Receiver string
	Amount   math.Int
}

// Validate requires non-negative shares that sum to exactly one.
func (c SplitConfig) Validate() error {
	if len(c.Receivers) == 0 {
		return errors.Wrap(ErrInvalidSplit, "no receivers")
	}

	total := math.LegacyZeroDec()
	for _, receiver := range c.SortedReceivers() {
		share := c.Receivers[receiver]
		if share.IsNil() || share.IsNegative() {
			return errors.Wrapf(ErrInvalidSplit, "invalid share for %s", receiver)
		}
		if _, _, err := bech32.DecodeAndConvert(receiver); err != nil {
			return errors.Wrapf(ErrInvalidReceiver, "%s", receiver)
		}
		total = total.Add(share)
	}

	if !total.Equal(math.LegacyOneDec()) {
		return errors.Wrapf(ErrInvalidSplit, "got %s", total)
	}
	return nil
}

// SortedReceivers returns the receivers in lexical order.
func (c SplitConfig) SortedReceivers() []string {
	receivers := make([]string, 0, len(c.Receivers))
	for receiver := range c.Receivers {
		receivers = append(receivers, receiver)
	}
	sort.Strings(receivers)
	return receivers
}

// Allocate computes each receiver's entitlement of amount, truncating
// fractional units. The truncated remainder is not allocated and at most
// len(Receivers)-1 units.
func (c SplitConfig) Allocate(amount math.Int) ([]Allocation, error) {
	allocations := make([]Allocation, 0, len(c.Receivers))
	for _, receiver := range c.SortedReceivers() {
		share := c.Receivers[receiver]
		if share.IsZero() {
			continue
		}

		numerator, err := amount.SafeMul(math.NewIntFromBigInt(share.BigInt()))
		if err != nil {
			return nil, errors.Wrapf(ErrAmountOverflow, "%s for %s", amount, receiver)
		}
		entitlement, err := numerator.SafeQuo(precisionMultiplier)
		if err != nil {
			return nil, errors.Wrapf(ErrAmountOverflow, "%s for %s", amount, receiver)
		}
		allocations = append(allocations, Allocation{Receiver: receiver, Amount: entitlement})
	}
	return allocations, nil
}

// GetTransferMessages builds one transfer per receiver with a nonzero
// entitlement. When filter is set the whole amount goes to that receiver.
// Local receivers are paid with bank sends, others over remote.
func (c SplitConfig) GetTransferMessages(amount math.Int, denom string, filter *string, remote *RemoteChain, timeout uint64) ([]types.CosmosMsg, error) {
	var allocations []Allocation
	if filter != nil {
		if _, found := c.Receivers[*filter]; !found {
			return nil, errors.Wrapf(ErrUnknownReceiver, "%s", *filter)
		}
		allocations = []Allocation{{Receiver: *filter, Amount: amount}}
	} else {
		var err error
		if allocations, err = c.Allocate(amount); err != nil {
			return nil, err
		}
	}

	msgs := make([]types.CosmosMsg, 0, len(allocations))
	for _, allocation := range allocations {
		if !allocation.Amount.IsPositive() {
			continue
		}
		coin := sdk.NewCoin(denom, allocation.Amount)

		if remote == nil || !remote.FromRemote {
			if _, err := sdk.AccAddressFromBech32(allocation.Receiver); err == nil {
				msgs = append(msgs, types.NewBankSend(allocation.Receiver, sdk.NewCoins(coin)))
				continue
			}
		}
		if remote == nil {
			return nil, errors.Wrapf(ErrNoRemoteRoute, "%s", allocation.Receiver)
		}
		msgs = append(msgs, types.CosmosMsg{
			IBCTransfer: types.NewIBCTransfer(remote.ChannelID, allocation.Receiver, coin, timeout, remote.Memo),
		})
	}
	return msgs, nil
}
