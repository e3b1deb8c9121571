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

package holder

import (
	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
	lptypes "github.com/timewave-computer/covenants/types/liquidpooler"
)

const ModuleName = "single_party_holder"

var ConfigKey = []byte("holder/config")

const WithdrawReplyID uint64 = 1

var ErrNothingToWithdraw = errors.Register(ModuleName, 1, "nothing to withdraw")

// Config of a single party holder. Withdrawer may take the held funds once
// LockupPeriod expires. EmergencyCommittee may take them at any time and
// always on behalf of Withdrawer.
type Config struct {
	Withdrawer         string           `json:"withdrawer"`
	LockupPeriod       types.Expiration `json:"lockup_period"`
	PoolerAddress      *string          `json:"pooler_address,omitempty"`
	EmergencyCommittee *string          `json:"emergency_committee_addr,omitempty"`
}

func (c Config) Validate() error {
	if err := types.ValidateAddress(c.Withdrawer, "withdrawer"); err != nil {
		return err
	}
	if err := c.LockupPeriod.Validate(); err != nil {
		return err
	}
	if c.PoolerAddress != nil {
		if err := types.ValidateAddress(*c.PoolerAddress, "pooler"); err != nil {
			return err
		}
	}
	if c.EmergencyCommittee != nil {
		if err := types.ValidateAddress(*c.EmergencyCommittee, "emergency committee"); err != nil {
			return err
		}
	}
	return nil
}

type InstantiateMsg = Config

type ExecuteMsg struct {
	Withdraw          *Withdraw `json:"withdraw,omitempty"`
	EmergencyWithdraw *struct{} `json:"emergency_withdraw,omitempty"`
}

// Withdraw sends Quantity to the withdrawer. A nil quantity withdraws
// everything, redeeming the pooler's liquidity first when one is set.
type Withdraw struct {
	Quantity *sdk.Coins `json:"quantity,omitempty"`
}

type QueryMsg struct {
	Config         *struct{} `json:"config,omitempty"`
	Withdrawer     *struct{} `json:"withdrawer,omitempty"`
	LockupConfig   *struct{} `json:"lockup_config,omitempty"`
	PoolerAddress  *struct{} `json:"pooler_address,omitempty"`
	DepositAddress *struct{} `json:"deposit_address,omitempty"`
}

type MigrateMsg struct {
	UpdateConfig *UpdateConfig       `json:"update_config,omitempty"`
	UpdateCodeID *types.UpdateCodeID `json:"update_code_id,omitempty"`
}

type UpdateConfig struct {
	Withdrawer         *string           `json:"withdrawer,omitempty"`
	LockupPeriod       *types.Expiration `json:"lockup_period,omitempty"`
	PoolerAddress      *string           `json:"pooler_address,omitempty"`
	EmergencyCommittee *string           `json:"emergency_committee_addr,omitempty"`
}

func (u UpdateConfig) Apply(config Config) Config {
	if u.Withdrawer != nil {
		config.Withdrawer = *u.Withdrawer
	}
	if u.LockupPeriod != nil {
		config.LockupPeriod = *u.LockupPeriod
	}
	if u.PoolerAddress != nil {
		config.PoolerAddress = u.PoolerAddress
	}
	if u.EmergencyCommittee != nil {
		config.EmergencyCommittee = u.EmergencyCommittee
	}
	return config
}

// PoolerWithdrawMsg redeems all liquidity held by a pooler.
func PoolerWithdrawMsg(pooler string) (types.CosmosMsg, error) {
	return types.NewWasmExecute(pooler, lptypes.ExecuteMsg{Withdraw: &lptypes.Withdraw{}}, nil)
}
