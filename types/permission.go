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
	"slices"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ContractPermission gates who may trigger an optional operation.
type ContractPermission struct {
	Permissionless *struct{}           `json:"permissionless,omitempty"`
	Permissioned   *PrivilegedAccounts `json:"permissioned,omitempty"`
}

type PrivilegedAccounts struct {
	PrivilegedAccounts []string `json:"privileged_accounts"`
}

func Permissionless() ContractPermission {
	return ContractPermission{Permissionless: &struct{}{}}
}

func Permissioned(accounts ...string) ContractPermission {
	return ContractPermission{Permissioned: &PrivilegedAccounts{PrivilegedAccounts: accounts}}
}

func (p ContractPermission) Validate() error {
	if p.Permissionless != nil {
		if p.Permissioned != nil {
			return errors.Wrap(ErrInvalidConfig, "permission cannot be both permissionless and permissioned")
		}
		return nil
	}
	if p.Permissioned == nil || len(p.Permissioned.PrivilegedAccounts) == 0 {
		return errors.Wrap(ErrInvalidConfig, "privileged accounts cannot be empty")
	}
	for _, account := range p.Permissioned.PrivilegedAccounts {
		if _, err := sdk.AccAddressFromBech32(account); err != nil {
			return errors.Wrapf(ErrInvalidConfig, "invalid privileged account %s", account)
		}
	}
	return nil
}

// Allows reports whether sender passes the permission.
func (p ContractPermission) Allows(sender string) bool {
	if p.Permissionless != nil {
		return true
	}
	if p.Permissioned == nil {
		return false
	}
	return slices.Contains(p.Permissioned.PrivilegedAccounts, sender)
}
