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

package clock

import (
	"cosmossdk.io/errors"

	"github.com/timewave-computer/covenants/types"
)

type InstantiateMsg struct {
	TickMaxGas *uint64   `json:"tick_max_gas,omitempty"`
	Whitelist  *[]string `json:"whitelist,omitempty"`
}

func (m InstantiateMsg) Validate() error {
	if m.TickMaxGas != nil && *m.TickMaxGas == 0 {
		return ErrZeroTickMaxGas
	}
	if m.Whitelist != nil {
		if len(*m.Whitelist) == 0 {
			return errors.Wrap(ErrEmptyWhitelist, "omit whitelist to allow any sender")
		}
		for _, address := range *m.Whitelist {
			if err := types.ValidateAddress(address, "whitelist"); err != nil {
				return err
			}
		}
	}
	return nil
}

type ExecuteMsg struct {
	Enqueue *struct{} `json:"enqueue,omitempty"`
	Dequeue *struct{} `json:"dequeue,omitempty"`
	Tick    *struct{} `json:"tick,omitempty"`
}

type QueryMsg struct {
	Queue      *QueueQuery     `json:"queue,omitempty"`
	TickOrder  *TickOrderQuery `json:"tick_order,omitempty"`
	IsQueued   *IsQueuedQuery  `json:"is_queued,omitempty"`
	Paused     *struct{}       `json:"paused,omitempty"`
	TickMaxGas *struct{}       `json:"tick_max_gas,omitempty"`
	Whitelist  *struct{}       `json:"whitelist,omitempty"`
}

// QueueQuery pages through registrants ordered by address.
type QueueQuery struct {
	StartAfter *string `json:"start_after,omitempty"`
	Limit      *uint32 `json:"limit,omitempty"`
}

// TickOrderQuery lists registrants in the order they will be ticked.
type TickOrderQuery struct {
	Limit *uint32 `json:"limit,omitempty"`
}

type IsQueuedQuery struct {
	Address string `json:"address"`
}

type MigrateMsg struct {
	Pause            *struct{}           `json:"pause,omitempty"`
	Unpause          *struct{}           `json:"unpause,omitempty"`
	UpdateTickMaxGas *UpdateTickMaxGas   `json:"update_tick_max_gas,omitempty"`
	ManageWhitelist  *ManageWhitelist    `json:"manage_whitelist,omitempty"`
	ClearWhitelist   *struct{}           `json:"clear_whitelist,omitempty"`
	UpdateCodeID     *types.UpdateCodeID `json:"update_code_id,omitempty"`
}

type UpdateTickMaxGas struct {
	NewValue uint64 `json:"new_value"`
}

type ManageWhitelist struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// EnqueueMsg asks clock to start ticking the sender.
func EnqueueMsg(clock string) (types.CosmosMsg, error) {
	return types.NewWasmExecute(clock, ExecuteMsg{Enqueue: &struct{}{}}, nil)
}

// DequeueMsg asks clock to stop ticking the sender.
func DequeueMsg(clock string) (types.CosmosMsg, error) {
	return types.NewWasmExecute(clock, ExecuteMsg{Dequeue: &struct{}{}}, nil)
}
