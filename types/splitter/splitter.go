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

package splitter

import (
	"slices"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/split"
)

const ModuleName = "native_splitter"

var ConfigKey = []byte("native_splitter/config")

var (
	ErrNoFallbackSplit     = errors.Register(ModuleName, 1, "no fallback split configured")
	ErrDenomNotFallback    = errors.Register(ModuleName, 2, "denom has an explicit split")
	ErrNothingToDistribute = errors.Register(ModuleName, 3, "nothing to distribute")
)

// Config of a native splitter. Every denom in Splits is divided by its own
// split on each tick. Other denoms wait for a fallback distribution by a
// sender passing FallbackPermission.
type Config struct {
	ClockAddress       string                       `json:"clock_address"`
	Splits             map[string]split.SplitConfig `json:"splits"`
	FallbackSplit      *split.SplitConfig           `json:"fallback_split,omitempty"`
	FallbackPermission types.ContractPermission     `json:"fallback_permission"`
}

func (c Config) Validate() error {
	if err := types.ValidateAddress(c.ClockAddress, "clock"); err != nil {
		return err
	}
	if len(c.Splits) == 0 {
		return errors.Wrap(types.ErrInvalidConfig, "no splits configured")
	}
	for _, denom := range c.Denoms() {
		if err := sdk.ValidateDenom(denom); err != nil {
			return errors.Wrap(types.ErrInvalidConfig, err.Error())
		}
		if err := validateLocal(c.Splits[denom]); err != nil {
			return errors.Wrapf(err, "split for %s", denom)
		}
	}
	if c.FallbackSplit != nil {
		if err := validateLocal(*c.FallbackSplit); err != nil {
			return errors.Wrap(err, "fallback split")
		}
	}
	return c.FallbackPermission.Validate()
}

// Denoms returns the denoms with an explicit split in lexical order.
func (c Config) Denoms() []string {
	denoms := make([]string, 0, len(c.Splits))
	for denom := range c.Splits {
		denoms = append(denoms, denom)
	}
	slices.Sort(denoms)
	return denoms
}

func validateLocal(config split.SplitConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	for receiver := range config.Receivers {
		if _, err := sdk.AccAddressFromBech32(receiver); err != nil {
			return errors.Wrapf(split.ErrInvalidReceiver, "%s is not a local address", receiver)
		}
	}
	return nil
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
	DepositAddress     *struct{}   `json:"deposit_address,omitempty"`
	Config             *struct{}   `json:"config,omitempty"`
	DenomSplit         *DenomSplit `json:"denom_split,omitempty"`
	Splits             *struct{}   `json:"splits,omitempty"`
	FallbackSplit      *struct{}   `json:"fallback_split,omitempty"`
	FallbackPermission *struct{}   `json:"fallback_permission,omitempty"`
}

type DenomSplit struct {
	Denom string `json:"denom"`
}

// DenomSplitEntry is one element of the splits query.
type DenomSplitEntry struct {
	Denom string            `json:"denom"`
	Split split.SplitConfig `json:"split"`
}

type MigrateMsg struct {
	UpdateConfig *UpdateConfig       `json:"update_config,omitempty"`
	UpdateCodeID *types.UpdateCodeID `json:"update_code_id,omitempty"`
}

type UpdateConfig struct {
	ClockAddress       *string                      `json:"clock_address,omitempty"`
	Splits             map[string]split.SplitConfig `json:"splits,omitempty"`
	FallbackSplit      *split.SplitConfig           `json:"fallback_split,omitempty"`
	FallbackPermission *types.ContractPermission    `json:"fallback_permission,omitempty"`
}

func (u UpdateConfig) Apply(config Config) Config {
	if u.ClockAddress != nil {
		config.ClockAddress = *u.ClockAddress
	}
	if u.Splits != nil {
		config.Splits = u.Splits
	}
	if u.FallbackSplit != nil {
		config.FallbackSplit = u.FallbackSplit
	}
	if u.FallbackPermission != nil {
		config.FallbackPermission = *u.FallbackPermission
	}
	return config
}
