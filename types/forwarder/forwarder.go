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

package forwarder

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/ica"
)

const ModuleName = "ibc_forwarder"

var (
	ConfigKey = []byte("forwarder/config")
	StateKey  = []byte("forwarder/state")
)

var ErrNextContractNotReady = errors.Register(ModuleName, 1, "next contract has no deposit address")

// Config of an IBC forwarder. Its interchain account receives Amount of
// Remote.Denom and forwards it to the deposit address of NextContract.
type Config struct {
	ClockAddress string              `json:"clock_address"`
	NextContract string              `json:"next_contract"`
	Remote       ica.RemoteChainInfo `json:"remote_chain_info"`
	Amount       math.Int            `json:"amount"`
}

func (c Config) Validate() error {
	if err := types.ValidateAddress(c.ClockAddress, "clock"); err != nil {
		return err
	}
	if err := types.ValidateAddress(c.NextContract, "next contract"); err != nil {
		return err
	}
	if err := c.Remote.Validate(); err != nil {
		return err
	}
	if c.Amount.IsNil() || !c.Amount.IsPositive() {
		return errors.Wrap(types.ErrInvalidConfig, "amount must be positive")
	}
	return nil
}

type InstantiateMsg = Config

type ExecuteMsg struct {
	types.TickMsg
}

type QueryMsg struct {
	ContractState  *struct{} `json:"contract_state,omitempty"`
	DepositAddress *struct{} `json:"deposit_address,omitempty"`
	IcaAddress     *struct{} `json:"ica_address,omitempty"`
	Config         *struct{} `json:"config,omitempty"`
	ErrorsQueue    *struct{} `json:"errors_queue,omitempty"`
}

type MigrateMsg struct {
	UpdateConfig *UpdateConfig       `json:"update_config,omitempty"`
	UpdateCodeID *types.UpdateCodeID `json:"update_code_id,omitempty"`
}

type UpdateConfig struct {
	ClockAddress *string              `json:"clock_address,omitempty"`
	NextContract *string              `json:"next_contract,omitempty"`
	Remote       *ica.RemoteChainInfo `json:"remote_chain_info,omitempty"`
	Amount       *math.Int            `json:"amount,omitempty"`
}

// Apply returns config with every set field replaced.
func (u UpdateConfig) Apply(config Config) Config {
	if u.ClockAddress != nil {
		config.ClockAddress = *u.ClockAddress
	}
	if u.NextContract != nil {
		config.NextContract = *u.NextContract
	}
	if u.Remote != nil {
		config.Remote = *u.Remote
	}
	if u.Amount != nil {
		config.Amount = *u.Amount
	}
	return config
}
