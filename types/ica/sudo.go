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

import (
	"fmt"

	"cosmossdk.io/errors"

	"github.com/timewave-computer/covenants/types"
)

// SudoMsg is delivered by the host for interchain account channel and packet
// lifecycle events. Exactly one field is set.
type SudoMsg struct {
	OpenAck  *OpenAck  `json:"open_ack,omitempty"`
	Response *Response `json:"response,omitempty"`
	Error    *Error    `json:"error,omitempty"`
	Timeout  *Timeout  `json:"timeout,omitempty"`
}

type OpenAck struct {
	PortID                string `json:"port_id"`
	ChannelID             string `json:"channel_id"`
	CounterpartyChannelID string `json:"counterparty_channel_id"`
	CounterpartyVersion   string `json:"counterparty_version"`
}

type Response struct {
	Request RequestPacket `json:"request"`
	Data    []byte        `json:"data"`
}

type Error struct {
	Request RequestPacket `json:"request"`
	Details string        `json:"details"`
}

type Timeout struct {
	Request RequestPacket `json:"request"`
}

// RequestPacket is the packet an acknowledgement or timeout refers to.
type RequestPacket struct {
	Sequence           *uint64 `json:"sequence,omitempty"`
	SourcePort         *string `json:"source_port,omitempty"`
	SourceChannel      *string `json:"source_channel,omitempty"`
	DestinationPort    *string `json:"destination_port,omitempty"`
	DestinationChannel *string `json:"destination_channel,omitempty"`
	Data               []byte  `json:"data,omitempty"`
	TimeoutTimestamp   *uint64 `json:"timeout_timestamp,omitempty"`
}

func NewRequestPacket(channel string, sequence uint64) RequestPacket {
	return RequestPacket{Sequence: &sequence, SourceChannel: &channel}
}

// Key returns the (channel, sequence) pair identifying the packet.
func (p RequestPacket) Key() (string, uint64, error) {
	if p.Sequence == nil {
		return "", 0, ErrMissingSequence
	}
	if p.SourceChannel == nil {
		return "", 0, ErrMissingChannel
	}
	return *p.SourceChannel, *p.Sequence, nil
}

func (p RequestPacket) String() string {
	channel, sequence, err := p.Key()
	if err != nil {
		return "unidentified packet"
	}
	return fmt.Sprintf("%s/%d", channel, sequence)
}

func (m SudoMsg) Validate() error {
	set := 0
	for _, present := range []bool{m.OpenAck != nil, m.Response != nil, m.Error != nil, m.Timeout != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return errors.Wrap(types.ErrUnknownMsg, "sudo message must set exactly one variant")
	}
	return nil
}
