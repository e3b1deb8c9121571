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
	"bytes"
	"encoding/json"
	"io"
	"reflect"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TickMsg is the execute variant every clocked contract accepts.
type TickMsg struct {
	Tick *struct{} `json:"tick,omitempty"`
}

func NewTickMsg() TickMsg { return TickMsg{Tick: &struct{}{}} }

// DepositAddressQuery is answered by every contract that accepts funds.
type DepositAddressQuery struct {
	DepositAddress *struct{} `json:"deposit_address,omitempty"`
}

// NextMemoQuery is an optional capability of downstream contracts.
type NextMemoQuery struct {
	NextMemo *struct{} `json:"next_memo,omitempty"`
}

// UpdateCodeID is the reserved migration variant shared by every contract.
type UpdateCodeID struct {
	Data []byte `json:"data,omitempty"`
}

// UnmarshalMsg decodes a single JSON object, rejecting unknown fields and
// trailing data.
func UnmarshalMsg(bz []byte, msg any) error {
	decoder := json.NewDecoder(bytes.NewReader(bz))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(msg); err != nil {
		return errors.Wrap(ErrUnknownMsg, err.Error())
	}
	if _, err := decoder.Token(); err != io.EOF {
		return errors.Wrap(ErrUnknownMsg, "trailing data after message")
	}
	return nil
}

// UnmarshalVariant decodes a message enum into a struct of pointer variants
// and requires exactly one of them to be set. Embedded structs such as
// TickMsg contribute their own variants.
func UnmarshalVariant(bz []byte, msg any) error {
	if err := UnmarshalMsg(bz, msg); err != nil {
		return err
	}
	if set := countVariants(reflect.Indirect(reflect.ValueOf(msg))); set != 1 {
		return errors.Wrapf(ErrUnknownMsg, "message must set exactly one variant, got %d", set)
	}
	return nil
}

func countVariants(value reflect.Value) int {
	set := 0
	for i := 0; i < value.NumField(); i++ {
		field, kind := value.Type().Field(i), value.Field(i).Kind()
		switch {
		case field.Anonymous && kind == reflect.Struct:
			set += countVariants(value.Field(i))
		case !field.IsExported():
		case kind == reflect.Pointer, kind == reflect.Map, kind == reflect.Slice:
			if !value.Field(i).IsNil() {
				set++
			}
		}
	}
	return set
}

// MarshalQuery encodes a query response.
func MarshalQuery(value any) ([]byte, error) {
	bz, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidRequest, err.Error())
	}
	return bz, nil
}

// MustMarshalJSON encodes messages built from known types.
func MustMarshalJSON(value any) []byte {
	bz, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	return bz
}

// ValidateAddress checks that address is a valid bech32 account address.
func ValidateAddress(address, field string) error {
	if _, err := sdk.AccAddressFromBech32(address); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "invalid %s address %q", field, address)
	}
	return nil
}

// MustAccAddress converts a validated bech32 address.
func MustAccAddress(address string) sdk.AccAddress {
	return sdk.MustAccAddressFromBech32(address)
}

// CheckClock rejects ticks that do not come from the configured clock.
func CheckClock(sender, clock string) error {
	if sender != clock {
		return errors.Wrapf(ErrNotClock, "expected %s, got %s", clock, sender)
	}
	return nil
}
