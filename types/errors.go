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

import "cosmossdk.io/errors"

var (
	ErrInvalidConfig     = errors.Register(ModuleName, 1, "invalid configuration")
	ErrUnauthorized      = errors.Register(ModuleName, 2, "unauthorized")
	ErrNotClock          = errors.Register(ModuleName, 3, "caller is not the clock")
	ErrInvalidRequest    = errors.Register(ModuleName, 4, "invalid request")
	ErrUnknownMsg        = errors.Register(ModuleName, 5, "unknown message variant")
	ErrInvalidState      = errors.Register(ModuleName, 6, "operation not allowed in current contract state")
	ErrInvalidFunds      = errors.Register(ModuleName, 7, "invalid funds")
	ErrUnknownReply      = errors.Register(ModuleName, 8, "unknown reply id")
	ErrContractNotFound  = errors.Register(ModuleName, 9, "contract not found")
	ErrInsufficientFunds = errors.Register(ModuleName, 10, "insufficient funds")
	ErrExpired           = errors.Register(ModuleName, 11, "expired")
	ErrNotExpired        = errors.Register(ModuleName, 12, "not expired")
)
