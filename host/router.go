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

// Package host executes covenant contracts in-process. It plays the role of
// the wasm runtime: top-level calls run in a cached context that is only
// written on success, and sub-messages are dispatched depth first with their
// own cache, gas limit and reply mode.
package host

import (
	"context"
	"sort"

	"cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/timewave-computer/covenants/types"
)

type contractInfo struct {
	contract types.Contract
	label    string
	admin    string
}

type Router struct {
	logger    log.Logger
	bank      types.BankKeeper
	transfer  types.TransferKeeper
	ica       types.ICAControllerKeeper
	contracts map[string]contractInfo
}

func NewRouter(logger log.Logger, bank types.BankKeeper, transfer types.TransferKeeper, ica types.ICAControllerKeeper) *Router {
	return &Router{
		logger:    logger.With("module", "host"),
		bank:      bank,
		transfer:  transfer,
		ica:       ica,
		contracts: make(map[string]contractInfo),
	}
}

// Register makes contract addressable. admin may migrate it.
func (r *Router) Register(contract types.Contract, label, admin string) error {
	address := contract.Address()
	if _, found := r.contracts[address]; found {
		return errors.Wrapf(types.ErrInvalidRequest, "contract %s already registered", address)
	}
	r.contracts[address] = contractInfo{contract: contract, label: label, admin: admin}
	return nil
}

// Contracts returns every registered address in lexical order.
func (r *Router) Contracts() []string {
	addresses := make([]string, 0, len(r.contracts))
	for address := range r.contracts {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)
	return addresses
}

func (r *Router) HasContractInfo(_ context.Context, address string) bool {
	_, found := r.contracts[address]
	return found
}

func (r *Router) QueryContract(ctx context.Context, address string, req []byte) ([]byte, error) {
	info, err := r.lookup(address)
	if err != nil {
		return nil, err
	}
	return info.contract.Query(ctx, req)
}

func (r *Router) Instantiate(ctx sdk.Context, address string, info types.MessageInfo, msg []byte) (*types.Response, error) {
	return r.atomic(ctx, func(ctx sdk.Context) (*types.Response, error) {
		contract, err := r.lookup(address)
		if err != nil {
			return nil, err
		}
		if err := r.sendFunds(ctx, info.Sender, address, info.Funds); err != nil {
			return nil, err
		}
		res, err := contract.contract.Instantiate(ctx, info, msg)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to instantiate %s", contract.label)
		}
		return r.handleResponse(ctx, address, res)
	})
}

func (r *Router) Execute(ctx sdk.Context, address string, info types.MessageInfo, msg []byte) (*types.Response, error) {
	return r.atomic(ctx, func(ctx sdk.Context) (*types.Response, error) {
		return r.execute(ctx, address, info, msg)
	})
}

// Sudo delivers a privileged host callback.
func (r *Router) Sudo(ctx sdk.Context, address string, msg []byte) (*types.Response, error) {
	return r.atomic(ctx, func(ctx sdk.Context) (*types.Response, error) {
		contract, err := r.lookup(address)
		if err != nil {
			return nil, err
		}
		handler, ok := contract.contract.(types.SudoHandler)
		if !ok {
			return nil, errors.Wrapf(types.ErrInvalidRequest, "%s does not accept sudo", contract.label)
		}
		res, err := handler.Sudo(ctx, msg)
		if err != nil {
			return nil, err
		}
		return r.handleResponse(ctx, address, res)
	})
}

// Migrate is restricted to the contract admin.
func (r *Router) Migrate(ctx sdk.Context, sender, address string, msg []byte) (*types.Response, error) {
	return r.atomic(ctx, func(ctx sdk.Context) (*types.Response, error) {
		contract, err := r.lookup(address)
		if err != nil {
			return nil, err
		}
		if contract.admin == "" || sender != contract.admin {
			return nil, errors.Wrapf(types.ErrUnauthorized, "only the admin can migrate %s", contract.label)
		}
		migrator, ok := contract.contract.(types.Migrator)
		if !ok {
			return nil, errors.Wrapf(types.ErrInvalidRequest, "%s cannot be migrated", contract.label)
		}
		res, err := migrator.Migrate(ctx, msg)
		if err != nil {
			return nil, err
		}
		return r.handleResponse(ctx, address, res)
	})
}

func (r *Router) atomic(ctx sdk.Context, fn func(ctx sdk.Context) (*types.Response, error)) (*types.Response, error) {
	cacheCtx, writeCache := ctx.CacheContext()
	res, err := fn(cacheCtx)
	if err != nil {
		return nil, err
	}
	writeCache()
	return res, nil
}

func (r *Router) execute(ctx sdk.Context, address string, info types.MessageInfo, msg []byte) (*types.Response, error) {
	contract, err := r.lookup(address)
	if err != nil {
		return nil, err
	}
	if err := r.sendFunds(ctx, info.Sender, address, info.Funds); err != nil {
		return nil, err
	}
	res, err := contract.contract.Execute(ctx, info, msg)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to execute %s", contract.label)
	}
	return r.handleResponse(ctx, address, res)
}

func (r *Router) lookup(address string) (contractInfo, error) {
	info, found := r.contracts[address]
	if !found {
		return contractInfo{}, errors.Wrapf(types.ErrContractNotFound, "no contract at %s", address)
	}
	return info, nil
}

func (r *Router) sendFunds(ctx sdk.Context, from, to string, funds sdk.Coins) error {
	if funds.IsZero() {
		return nil
	}
	fromAddr, err := sdk.AccAddressFromBech32(from)
	if err != nil {
		return errors.Wrapf(types.ErrInvalidRequest, "invalid sender %s", from)
	}
	if err := r.bank.SendCoins(ctx, fromAddr, types.MustAccAddress(to), funds); err != nil {
		return errors.Wrap(err, "unable to send funds to contract")
	}
	return nil
}
