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

import "github.com/timewave-computer/covenants/utils/fsm"

// ContractState is the lifecycle of a contract that moves funds through an
// interchain account.
type ContractState string

const (
	Instantiated ContractState = "instantiated"
	IcaCreated   ContractState = "ica_created"
	FundsSent    ContractState = "funds_sent"
	Complete     ContractState = "complete"
)

type Event string

const (
	EventOpenAck      Event = "open_ack"
	EventFundsSent    Event = "funds_sent"
	EventAcknowledged Event = "acknowledged"
	EventFailed       Event = "failed"
	EventTimeout      Event = "timeout"
	EventReceived     Event = "received"
)

// Transitions is shared by contracts that complete once their transfer is
// acknowledged. A failed transfer is retried from IcaCreated and a timeout
// starts over with a fresh account.
var Transitions = fsm.Table[ContractState, Event]{
	Instantiated: {
		EventOpenAck: IcaCreated,
		EventTimeout: Instantiated,
	},
	IcaCreated: {
		EventOpenAck:   IcaCreated,
		EventFundsSent: FundsSent,
		EventTimeout:   Instantiated,
	},
	FundsSent: {
		EventAcknowledged: Complete,
		EventFailed:       IcaCreated,
		EventTimeout:      Instantiated,
	},
	Complete: {
		EventAcknowledged: Complete,
	},
}
