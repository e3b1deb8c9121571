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

package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MessageInfo describes the caller of an instantiate or execute call.
type MessageInfo struct {
	Sender string
	Funds  sdk.Coins
}

// Contract is a covenant instance addressable by the host. Every message and
// query is JSON encoded.
type Contract interface {
	Address() string
	Instantiate(ctx context.Context, info MessageInfo, msg []byte) (*Response, error)
	Execute(ctx context.Context, info MessageInfo, msg []byte) (*Response, error)
	Query(ctx context.Context, req []byte) ([]byte, error)
}

// ReplyHandler is implemented by contracts that dispatch sub-messages with a
// reply mode other than ReplyNever.
type ReplyHandler interface {
	Reply(ctx context.Context, reply Reply) (*Response, error)
}

// SudoHandler receives privileged host callbacks such as interchain account
// acknowledgements.
type SudoHandler interface {
	Sudo(ctx context.Context, msg []byte) (*Response, error)
}

// Migrator receives admin migrations.
type Migrator interface {
	Migrate(ctx context.Context, msg []byte) (*Response, error)
}

// Tickable is implemented by every contract that can be registered with the
// clock.
type Tickable interface {
	Tick(ctx context.Context, sender string) (*Response, error)
}
