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

package router

import (
	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/timewave-computer/covenants/types"
)

const ModuleName = "router"

var ConfigKey = []byte("router/config")

var (
	ErrTargetDenom         = errors.Register(ModuleName, 1, "denom is a target denom")
	ErrNothingToDistribute = errors.Register(ModuleName, 2, "nothing to distribute")
)

// DefaultIBCTimeout is used for interchain destinations without a timeout.
const DefaultIBCTimeout uint64 = 600

// Destination is where routed funds end up. Exactly one variant is set.
type Destination struct {
	Native     *NativeDestination     `json:"native,omitempty"`
	Interchain *InterchainDestination `json:"interchain,omitempty"`
}

type NativeDestination struct {
	Receiver string `json:"receiver_address"`
}

type InterchainDestination struct {
	Receiver   string `json:"receiver_address"`
	ChannelID  string `json:"channel_id"`
	IBCTimeout uint64 `json:"ibc_transfer_timeout,omitempty"`
}

func (d Destination) Validate() error {
	switch {
	case d.Native != nil && d.Interchain != nil:
		return errors.Wrap(types.ErrInvalidConfig, "destination cannot be both native and interchain")
	case d.Native != nil:
		return types.ValidateAddress(d.Native.Receiver, "receiver")
	case d.Interchain != nil:
		if _, _, err := bech32.DecodeAndConvert(d.Interchain.Receiver); err != nil {
			return errors.Wrapf(types.ErrInvalidConfig, "invalid receiver %s", d.Interchain.Receiver)
		}
		if !channeltypes.IsValidChannelID(d.Interchain.ChannelID) {
			return errors.Wrapf(types.ErrInvalidConfig, "invalid channel %s", d.Interchain.ChannelID)
		}
		if d.Interchain.IBCTimeout > types.MaxTimeout {
			return errors.Wrapf(types.ErrInvalidConfig, "ibc timeout above %d seconds", types.MaxTimeout)
		}
		return nil
	default:
		return errors.Wrap(types.ErrInvalidConfig, "destination is required")
	}
}

// Messages returns the messages that move coins to the destination.
func (d Destination) Messages(coins sdk.Coins, timeout uint64) []types.CosmosMsg {
	if coins.IsZero() {
		return nil
	}
	if d.Native != nil {
		return []types.CosmosMsg{types.NewBankSend(d.Native.Receiver, coins)}
	}

	msgs := make([]types.CosmosMsg, 0, len(coins))
	for _, coin := range coins {
		msgs = append(msgs, types.CosmosMsg{
			IBCTransfer: types.NewIBCTransfer(d.Interchain.ChannelID, d.Interchain.Receiver, coin, timeout, ""),
		})
	}
	return msgs
}

// Timeout returns the IBC timeout in seconds.
func (d Destination) Timeout() uint64 {
	if d.Interchain == nil || d.Interchain.IBCTimeout == 0 {
		return DefaultIBCTimeout
	}
	return d.Interchain.IBCTimeout
}

// Config of a router. Every tick forwards the held TargetDenoms to
// Destination. Other denoms leave through distribute_fallback.
type Config struct {
	ClockAddress       string                   `json:"clock_address"`
	Destination        Destination              `json:"destination"`
	TargetDenoms       []string                 `json:"target_denoms"`
	FallbackPermission types.ContractPermission `json:"fallback_permission"`
}

func (c Config) Validate() error {
	if err := types.ValidateAddress(c.ClockAddress, "clock"); err != nil {
		return err
	}
	if err := c.Destination.Validate(); err != nil {
		return err
	}
	if len(c.TargetDenoms) == 0 {
		return errors.Wrap(types.ErrInvalidConfig, "no target denoms")
	}
	for _, denom := range c.TargetDenoms {
		if err := sdk.ValidateDenom(denom); err != nil {
			return errors.Wrap(types.ErrInvalidConfig, err.Error())
		}
	}
	return c.FallbackPermission.Validate()
}

type InstantiateMsg = Config

type ExecuteMsg struct {
	types.TickMsg
	DistributeFallback *DistributeFallback `json:"distribute_fallback,omitempty"`
}

type DistributeFallback struct {
	Denoms []string `json:"denoms"`
}

type QueryMsg struct {
	DepositAddress     *struct{} `json:"deposit_address,omitempty"`
	Config             *struct{} `json:"config,omitempty"`
	Destination        *struct{} `json:"destination,omitempty"`
	TargetDenoms       *struct{} `json:"target_denoms,omitempty"`
	FallbackPermission *struct{} `json:"fallback_permission,omitempty"`
}

type MigrateMsg struct {
	UpdateConfig *UpdateConfig       `json:"update_config,omitempty"`
	UpdateCodeID *types.UpdateCodeID `json:"update_code_id,omitempty"`
}

type UpdateConfig struct {
	ClockAddress       *string                   `json:"clock_address,omitempty"`
	Destination        *Destination              `json:"destination,omitempty"`
	TargetDenoms       []string                  `json:"target_denoms,omitempty"`
	FallbackPermission *types.ContractPermission `json:"fallback_permission,omitempty"`
}

func (u UpdateConfig) Apply(config Config) Config {
	if u.ClockAddress != nil {
		config.ClockAddress = *u.ClockAddress
	}
	if u.Destination != nil {
		config.Destination = *u.Destination
	}
	if u.TargetDenoms != nil {
		config.TargetDenoms = u.TargetDenoms
	}
	if u.FallbackPermission != nil {
		config.FallbackPermission = *u.FallbackPermission
	}
	return config
}
