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
	"cosmossdk.io/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	sequenceIDField protowire.Number = 1
	channelField    protowire.Number = 2
)

// Owner is the interchain account owner string of contract's account id.
func Owner(contract, interchainAccountID string) string {
	return contract + "." + interchainAccountID
}

// EncodeSubmitTxResponse encodes MsgSubmitTxResponse{sequence_id, channel}.
func EncodeSubmitTxResponse(sequence uint64, channel string) []byte {
	var bz []byte
	bz = protowire.AppendTag(bz, sequenceIDField, protowire.VarintType)
	bz = protowire.AppendVarint(bz, sequence)
	bz = protowire.AppendTag(bz, channelField, protowire.BytesType)
	bz = protowire.AppendString(bz, channel)
	return bz
}

// DecodeSubmitTxResponse recovers the sequence and channel assigned to a
// submitted interchain tx. Unknown fields are skipped.
func DecodeSubmitTxResponse(bz []byte) (sequence uint64, channel string, err error) {
	for len(bz) > 0 {
		num, typ, n := protowire.ConsumeTag(bz)
		if n < 0 {
			return 0, "", errors.Wrap(ErrInvalidSubmitTxResponse, protowire.ParseError(n).Error())
		}
		bz = bz[n:]

		switch {
		case num == sequenceIDField && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(bz)
			if n < 0 {
				return 0, "", errors.Wrap(ErrInvalidSubmitTxResponse, protowire.ParseError(n).Error())
			}
			sequence = v
			bz = bz[n:]
		case num == channelField && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(bz)
			if n < 0 {
				return 0, "", errors.Wrap(ErrInvalidSubmitTxResponse, protowire.ParseError(n).Error())
			}
			channel = v
			bz = bz[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, bz)
			if n < 0 {
				return 0, "", errors.Wrap(ErrInvalidSubmitTxResponse, protowire.ParseError(n).Error())
			}
			bz = bz[n:]
		}
	}

	if channel == "" {
		return 0, "", errors.Wrap(ErrInvalidSubmitTxResponse, "missing channel")
	}
	return sequence, channel, nil
}
