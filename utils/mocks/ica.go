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

package mocks

import (
	"context"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	icatypes "github.com/cosmos/ibc-go/v8/modules/apps/27-interchain-accounts/types"
)

type Registration struct {
	ConnectionID string
	Owner        string
	PortID       string
}

type Submission struct {
	ConnectionID string
	Owner        string
	Msgs         []*codectypes.Any
	Memo         string
	Timeout      uint64
	Sequence     uint64
	Channel      string
}

// ICAControllerKeeper records registrations and submissions. Every submission
// is assigned the next sequence on Channel.
type ICAControllerKeeper struct {
	Channel       string
	Registrations []Registration
	Submissions   []Submission
	sequence      uint64
}

func NewICAControllerKeeper() *ICAControllerKeeper {
	return &ICAControllerKeeper{Channel: "channel-7"}
}

func (k *ICAControllerKeeper) RegisterInterchainAccount(_ context.Context, connectionID, owner string) error {
	portID, err := icatypes.NewControllerPortID(owner)
	if err != nil {
		return err
	}
	k.Registrations = append(k.Registrations, Registration{ConnectionID: connectionID, Owner: owner, PortID: portID})
	return nil
}

func (k *ICAControllerKeeper) SubmitTx(_ context.Context, connectionID, owner string, msgs []*codectypes.Any, memo string, timeout uint64) (uint64, string, error) {
	k.sequence++
	k.Submissions = append(k.Submissions, Submission{
		ConnectionID: connectionID,
		Owner:        owner,
		Msgs:         msgs,
		Memo:         memo,
		Timeout:      timeout,
		Sequence:     k.sequence,
		Channel:      k.Channel,
	})
	return k.sequence, k.Channel, nil
}

// LastSubmission returns the most recent submission.
func (k *ICAControllerKeeper) LastSubmission() Submission {
	return k.Submissions[len(k.Submissions)-1]
}
