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

package swapholder

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/utils/fsm"
)

const ModuleName = "swap_holder"

var (
	ConfigKey = []byte("swap_holder/config")
	StateKey  = []byte("swap_holder/state")
)

type ContractState string

const (
	Instantiated ContractState = "instantiated"
	Complete     ContractState = "complete"
	Expired      ContractState = "expired"
)

type Event string

const (
	EventForwarded Event = "forwarded"
	EventExpired   Event = "expired"
)

var Transitions = fsm.Table[ContractState, Event]{
	Instantiated: {
		EventForwarded: Complete,
		EventExpired:   Expired,
	},
}

// SwapParty deposits Amount of ProvidedDenom. Refunds go to Addr.
type SwapParty struct {
	Addr          string   `json:"addr"`
	ProvidedDenom string   `json:"provided_denom"`
	Amount        math.Int `json:"amount"`
}

func (p SwapParty) Coin() sdk.Coin {
	return sdk.NewCoin(p.ProvidedDenom, p.Amount)
}

// Config of a swap holder. Once both parties deposited, the deposits are
// forwarded to NextContract. If LockupConfig expires first, every deposit
// is refunded.
type Config struct {
	ClockAddress string           `json:"clock_address"`
	NextContract string           `json:"next_contract"`
	PartyA       SwapParty        `json:"party_a"`
	PartyB       SwapParty        `json:"party_b"`
	LockupConfig types.Expiration `json:"lockup_config"`
}

func (c Config) Validate() error {
	if err := types.ValidateAddress(c.ClockAddress, "clock"); err != nil {
		return err
	}
	if err := types.ValidateAddress(c.NextContract, "next contract"); err != nil {
		return err
	}
	for _, party := range []SwapParty{c.PartyA, c.PartyB} {
		if err := types.ValidateAddress(party.Addr, "party"); err != nil {
			return err
		}
		if err := sdk.ValidateDenom(party.ProvidedDenom); err != nil {
			return errors.Wrap(types.ErrInvalidConfig, err.Error())
		}
		if party.Amount.IsNil() || !party.Amount.IsPositive() {
			return errors.Wrapf(types.ErrInvalidConfig, "amount of %s must be positive", party.ProvidedDenom)
		}
	}
	if c.PartyA.ProvidedDenom == c.PartyB.ProvidedDenom {
		return errors.Wrap(types.ErrInvalidConfig, "parties must provide different denoms")
	}
	return c.LockupConfig.Validate()
}

type InstantiateMsg = Config

type ExecuteMsg struct {
	types.TickMsg
}

type QueryMsg struct {
	ContractState  *struct{} `json:"contract_state,omitempty"`
	DepositAddress *struct{} `json:"deposit_address,omitempty"`
	Config         *struct{} `json:"config,omitempty"`
}

type MigrateMsg struct {
	UpdateConfig *UpdateConfig       `json:"update_config,omitempty"`
	UpdateCodeID *types.UpdateCodeID `json:"update_code_id,omitempty"`
}

type UpdateConfig struct {
	ClockAddress *string           `json:"clock_address,omitempty"`
	NextContract *string           `json:"next_contract,omitempty"`
	LockupConfig *types.Expiration `json:"lockup_config,omitempty"`
}

func (u UpdateConfig) Apply(config Config) Config {
	if u.ClockAddress != nil {
		config.ClockAddress = *u.ClockAddress
	}
	if u.NextContract != nil {
		config.NextContract = *u.NextContract
	}
	if u.LockupConfig != nil {
		config.LockupConfig = *u.LockupConfig
	}
	return config
}
