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

package twopartyholder

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/types/split"
	"github.com/timewave-computer/covenants/utils/fsm"
)

const ModuleName = "two_party_pol_holder"

var (
	ConfigKey  = []byte("two_party_holder/config")
	StateKey   = []byte("two_party_holder/state")
	PendingKey = []byte("two_party_holder/pending")
)

const ExitReplyID uint64 = 1

var (
	ErrRagequitDisabled = errors.Register(ModuleName, 1, "ragequit is disabled")
	ErrNotParty         = errors.Register(ModuleName, 2, "sender is not a covenant party")
	ErrNoPendingExit    = errors.Register(ModuleName, 3, "no pending exit")
)

type ContractState string

const (
	Instantiated ContractState = "instantiated"
	Active       ContractState = "active"
	Ragequit     ContractState = "ragequit"
	Expired      ContractState = "expired"
	Complete     ContractState = "complete"
)

type Event string

const (
	EventFunded         Event = "funded"
	EventDepositExpired Event = "deposit_expired"
	EventLockupExpired  Event = "lockup_expired"
	EventRagequit       Event = "ragequit"
	EventClaimed        Event = "claimed"
)

var Transitions = fsm.Table[ContractState, Event]{
	Instantiated: {
		EventFunded:         Active,
		EventDepositExpired: Complete,
	},
	Active: {
		EventLockupExpired: Expired,
		EventRagequit:      Ragequit,
	},
	Expired: {
		EventClaimed: Complete,
	},
}

// Party is one side of the covenant. Contribution must be deposited before
// the deposit deadline. Allocation is the party's share of the liquidity
// when it is unwound. Everything owed to the party is sent to Router.
type Party struct {
	Addr         string         `json:"addr"`
	Contribution sdk.Coin       `json:"contribution"`
	Allocation   math.LegacyDec `json:"allocation"`
	Router       string         `json:"router"`
}

func (p Party) Validate() error {
	if err := types.ValidateAddress(p.Addr, "party"); err != nil {
		return err
	}
	if err := types.ValidateAddress(p.Router, "router"); err != nil {
		return err
	}
	if err := p.Contribution.Validate(); err != nil || !p.Contribution.IsPositive() {
		return errors.Wrapf(types.ErrInvalidConfig, "invalid contribution %s", p.Contribution)
	}
	if p.Allocation.IsNil() || p.Allocation.IsNegative() {
		return errors.Wrapf(types.ErrInvalidConfig, "invalid allocation for %s", p.Addr)
	}
	return nil
}

// RagequitConfig allows a party to leave before the lockup expires, giving
// up Penalty of its allocation to the counterparty.
type RagequitConfig struct {
	Disabled *struct{}      `json:"disabled,omitempty"`
	Enabled  *RagequitTerms `json:"enabled,omitempty"`
}

type RagequitTerms struct {
	Penalty math.LegacyDec `json:"penalty"`
}

type Config struct {
	ClockAddress    string           `json:"clock_address"`
	NextContract    string           `json:"next_contract"`
	PartyA          Party            `json:"party_a"`
	PartyB          Party            `json:"party_b"`
	DepositDeadline types.Expiration `json:"deposit_deadline"`
	LockupConfig    types.Expiration `json:"lockup_config"`
	RagequitConfig  RagequitConfig   `json:"ragequit_config"`
}

func (c Config) Validate() error {
	if err := types.ValidateAddress(c.ClockAddress, "clock"); err != nil {
		return err
	}
	if err := types.ValidateAddress(c.NextContract, "next contract"); err != nil {
		return err
	}
	for _, party := range []Party{c.PartyA, c.PartyB} {
		if err := party.Validate(); err != nil {
			return err
		}
	}
	if c.PartyA.Addr == c.PartyB.Addr || c.PartyA.Router == c.PartyB.Router {
		return errors.Wrap(types.ErrInvalidConfig, "parties must not share an address or router")
	}
	if c.PartyA.Contribution.Denom == c.PartyB.Contribution.Denom {
		return errors.Wrap(types.ErrInvalidConfig, "parties must contribute different denoms")
	}
	if !c.PartyA.Allocation.Add(c.PartyB.Allocation).Equal(math.LegacyOneDec()) {
		return errors.Wrap(split.ErrInvalidSplit, "party allocations must sum to one")
	}
	if err := c.DepositDeadline.Validate(); err != nil {
		return err
	}
	if err := c.LockupConfig.Validate(); err != nil {
		return err
	}

	rq := c.RagequitConfig
	if (rq.Disabled == nil) == (rq.Enabled == nil) {
		return errors.Wrap(types.ErrInvalidConfig, "ragequit config must be either enabled or disabled")
	}
	if rq.Enabled != nil {
		penalty := rq.Enabled.Penalty
		if penalty.IsNil() || penalty.IsNegative() || penalty.GT(c.PartyA.Allocation) || penalty.GT(c.PartyB.Allocation) {
			return errors.Wrap(types.ErrInvalidConfig, "ragequit penalty must not exceed either allocation")
		}
	}
	return nil
}

// Party returns the party addr belongs to and its counterparty.
func (c Config) Party(addr string) (party, counterparty Party, err error) {
	switch addr {
	case c.PartyA.Addr:
		return c.PartyA, c.PartyB, nil
	case c.PartyB.Addr:
		return c.PartyB, c.PartyA, nil
	default:
		return Party{}, Party{}, errors.Wrap(ErrNotParty, addr)
	}
}

// Contributions are the deposits that activate the covenant.
func (c Config) Contributions() sdk.Coins {
	return sdk.NewCoins(c.PartyA.Contribution, c.PartyB.Contribution)
}

// ExitSplit divides unwound liquidity between the party routers. A ragequit
// moves penalty of the leaving party's allocation to its counterparty.
func (c Config) ExitSplit(ragequitter *string) split.SplitConfig {
	shares := map[string]math.LegacyDec{
		c.PartyA.Router: c.PartyA.Allocation,
		c.PartyB.Router: c.PartyB.Allocation,
	}
	if ragequitter != nil && c.RagequitConfig.Enabled != nil {
		party, counterparty, err := c.Party(*ragequitter)
		if err == nil {
			penalty := c.RagequitConfig.Enabled.Penalty
			shares[party.Router] = party.Allocation.Sub(penalty)
			shares[counterparty.Router] = counterparty.Allocation.Add(penalty)
		}
	}
	return split.SplitConfig{Receivers: shares}
}

// PendingExit is recorded while liquidity is being withdrawn from the next
// contract. Ragequitter is nil for a claim after expiry.
type PendingExit struct {
	Ragequitter *string `json:"ragequitter,omitempty"`
}

type InstantiateMsg = Config

type ExecuteMsg struct {
	types.TickMsg
	Claim    *struct{} `json:"claim,omitempty"`
	Ragequit *struct{} `json:"ragequit,omitempty"`
}

type QueryMsg struct {
	ContractState   *struct{} `json:"contract_state,omitempty"`
	DepositAddress  *struct{} `json:"deposit_address,omitempty"`
	Config          *struct{} `json:"config,omitempty"`
	RagequitConfig  *struct{} `json:"ragequit_config,omitempty"`
	LockupConfig    *struct{} `json:"lockup_config,omitempty"`
	DepositDeadline *struct{} `json:"deposit_deadline,omitempty"`
}

type MigrateMsg struct {
	UpdateConfig *UpdateConfig       `json:"update_config,omitempty"`
	UpdateCodeID *types.UpdateCodeID `json:"update_code_id,omitempty"`
}

type UpdateConfig struct {
	ClockAddress    *string           `json:"clock_address,omitempty"`
	NextContract    *string           `json:"next_contract,omitempty"`
	LockupConfig    *types.Expiration `json:"lockup_config,omitempty"`
	DepositDeadline *types.Expiration `json:"deposit_deadline,omitempty"`
	RagequitConfig  *RagequitConfig   `json:"ragequit_config,omitempty"`
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
	if u.DepositDeadline != nil {
		config.DepositDeadline = *u.DepositDeadline
	}
	if u.RagequitConfig != nil {
		config.RagequitConfig = *u.RagequitConfig
	}
	return config
}
