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

package split

import "cosmossdk.io/errors"

const ModuleName = "split"

var (
	ErrInvalidSplit    = errors.Register(ModuleName, 1, "split shares must sum to exactly 1.0")
	ErrUnknownReceiver = errors.Register(ModuleName, 2, "receiver not part of split")
	ErrNoRemoteRoute   = errors.Register(ModuleName, 3, "no ibc route for remote receiver")
	ErrInvalidReceiver = errors.Register(ModuleName, 4, "invalid receiver")
	ErrSplitNotFound   = errors.Register(ModuleName, 5, "no split configured for denom")
	ErrAmountOverflow  = errors.Register(ModuleName, 6, "split amount overflow")
)
