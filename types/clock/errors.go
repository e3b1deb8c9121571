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

import "cosmossdk.io/errors"

var (
	ErrPaused          = errors.Register(ModuleName, 1, "contract is paused")
	ErrNotPaused       = errors.Register(ModuleName, 2, "contract is not paused")
	ErrNotContract     = errors.Register(ModuleName, 3, "caller is not a contract")
	ErrAlreadyEnqueued = errors.Register(ModuleName, 4, "contract already enqueued")
	ErrZeroTickMaxGas  = errors.Register(ModuleName, 5, "tick max gas must be non-zero")
	ErrEmptyWhitelist  = errors.Register(ModuleName, 6, "whitelist cannot be empty")
)
