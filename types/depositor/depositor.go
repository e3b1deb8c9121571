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

package depositor

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/ica"
	"github.com/timewave-computer/covenants/utils/fsm"
)

const ModuleName = "depositor"

var (
	ConfigKey = []byte("depositor/config")
	StateKey  = []byte("depositor/state")
)

// Transitions of a depositor. The acknowledgement of its transfer is not
// enough: it completes once the receiver confirms the funds arrived.
var Transitions = fsm.Table[ica.ContractState, ica.Event]{
	ica.Instantiated: {
		ica.EventOpenAck: ica.IcaCreated,
		ica.EventTimeout: ica.Instantiated,
	},
	ica.IcaCreated: {
		ica.EventOpenAck:   ica.IcaCreated,
		ica.EventFundsSent: ica.FundsSent,
		ica.EventTimeout:   ica.Instantiated,
	},
	ica.FundsSent: {
		ica.EventReceived: ica.Complete,
		ica.EventFailed:   ica.IcaCreated,
		ica.EventTimeout:  ica.Instantiated,
	},
}

// Config of a depositor. Its interchain account collects Amount of
// Remote.Denom and sends it to Receiver on this chain.
type Config struct {
	ClockAddress string              `json:"clock_address"`
	Receiver     string              `json:"receiver"`
	Remote       ica.RemoteChainInfo `json:"remote_chain_info"`
	Amount       math.Int            `json:"amount"`
}

func (c Config) Validate() error {
	if err := types.ValidateAddress(c.ClockAddress, "clock"); err != nil {
		return err
	}
	if err := types.ValidateAddress(c.Receiver, "receiver"); err != nil {
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
	Received *struct{} `json:"received,omitempty"`
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
	Receiver     *string              `json:"receiver,omitempty"`
	Remote       *ica.RemoteChainInfo `json:"remote_chain_info,omitempty"`
	Amount       *math.Int            `json:"amount,omitempty"`
}

func (u UpdateConfig) Apply(config Config) Config {
	if u.ClockAddress != nil {
		config.ClockAddress = *u.ClockAddress
	}
	if u.Receiver != nil {
		config.Receiver = *u.Receiver
	}
	if u.Remote != nil {
		config.Remote = *u.Remote
	}
	if u.Amount != nil {
		config.Amount = *u.Amount
	}
	return config
}
