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

package ica

import (
	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	connectiontypes "github.com/cosmos/ibc-go/v8/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/timewave-computer/covenants/types"
)

// InterchainAccountID is the account id used by contracts that own a single
// interchain account.
const InterchainAccountID = "ica"

// RemoteChainInfo describes where a contract's interchain account lives and
// how it sends tokens back.
type RemoteChainInfo struct {
	ConnectionID       string `json:"connection_id"`
	ChannelID          string `json:"channel_id"`
	Denom              string `json:"denom"`
	IBCTransferTimeout uint64 `json:"ibc_transfer_timeout"`
	ICATimeout         uint64 `json:"ica_timeout"`
}

func (r RemoteChainInfo) Validate() error {
	if !connectiontypes.IsValidConnectionID(r.ConnectionID) {
		return errors.Wrapf(types.ErrInvalidConfig, "invalid connection id %q", r.ConnectionID)
	}
	if !channeltypes.IsValidChannelID(r.ChannelID) {
		return errors.Wrapf(types.ErrInvalidConfig, "invalid channel id %q", r.ChannelID)
	}
	if err := sdk.ValidateDenom(r.Denom); err != nil {
		return errors.Wrap(types.ErrInvalidConfig, err.Error())
	}
	if err := types.ValidateTimeout(r.IBCTransferTimeout, "ibc transfer timeout"); err != nil {
		return err
	}
	return types.ValidateTimeout(r.ICATimeout, "ica timeout")
}
