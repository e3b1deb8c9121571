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

package remotesplitter

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/ica"
	"github.com/timewave-computer/covenants/types/split"
)

const ModuleName = "remote_chain_splitter"

var (
	ConfigKey = []byte("remote_splitter/config")
	StateKey  = []byte("remote_splitter/state")
)

// Config of a remote chain splitter. Its interchain account splits Amount of
// Remote.Denom between the receivers of Split and sends each share back over
// Remote.ChannelID.
type Config struct {
	ClockAddress string              `json:"clock_address"`
	Remote       ica.RemoteChainInfo `json:"remote_chain_info"`
	Amount       math.Int            `json:"amount"`
	Split        split.SplitConfig   `json:"splits"`
}

func (c Config) Validate() error {
	if err := types.ValidateAddress(c.ClockAddress, "clock"); err != nil {
		return err
	}
	if err := c.Remote.Validate(); err != nil {
		return err
	}
	if c.Amount.IsNil() || !c.Amount.IsPositive() {
		return errors.Wrap(types.ErrInvalidConfig, "amount must be positive")
	}
	return c.Split.Validate()
}

type InstantiateMsg = Config

type ExecuteMsg struct {
	types.TickMsg
}

type QueryMsg struct {
	ContractState  *struct{} `json:"contract_state,omitempty"`
	DepositAddress *struct{} `json:"deposit_address,omitempty"`
	SplitConfig    *struct{} `json:"split_config,omitempty"`
	Config         *struct{} `json:"config,omitempty"`
	ErrorsQueue    *struct{} `json:"errors_queue,omitempty"`
}

type MigrateMsg struct {
	UpdateConfig *UpdateConfig       `json:"update_config,omitempty"`
	UpdateCodeID *types.UpdateCodeID `json:"update_code_id,omitempty"`
}

type UpdateConfig struct {
	ClockAddress *string              `json:"clock_address,omitempty"`
	Remote       *ica.RemoteChainInfo `json:"remote_chain_info,omitempty"`
	Amount       *math.Int            `json:"amount,omitempty"`
	Split        *split.SplitConfig   `json:"splits,omitempty"`
}

func (u UpdateConfig) Apply(config Config) Config {
	if u.ClockAddress != nil {
		config.ClockAddress = *u.ClockAddress
	}
	if u.Remote != nil {
		config.Remote = *u.Remote
	}
	if u.Amount != nil {
		config.Amount = *u.Amount
	}
	if u.Split != nil {
		config.Split = *u.Split
	}
	return config
}
