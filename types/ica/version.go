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
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cosmossdk.io/errors"
	icatypes "github.com/cosmos/ibc-go/v8/modules/apps/27-interchain-accounts/types"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed counterparty_version.json
var versionSchemaBytes []byte

var versionSchema *gojsonschema.Schema

func init() {
	var err error
	versionSchema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(versionSchemaBytes))
	if err != nil {
		panic(fmt.Sprintf("failed to load counterparty version schema: %v", err))
	}
}

// ParseCounterpartyVersion decodes the version string of an open-ack.
func ParseCounterpartyVersion(version string) (icatypes.Metadata, error) {
	var metadata icatypes.Metadata

	result, err := versionSchema.Validate(gojsonschema.NewStringLoader(version))
	if err != nil {
		return metadata, errors.Wrap(ErrInvalidCounterpartyVersion, err.Error())
	}
	if !result.Valid() {
		descriptions := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			descriptions = append(descriptions, desc.String())
		}
		return metadata, errors.Wrap(ErrInvalidCounterpartyVersion, strings.Join(descriptions, "; "))
	}

	if err := json.Unmarshal([]byte(version), &metadata); err != nil {
		return metadata, errors.Wrap(ErrInvalidCounterpartyVersion, err.Error())
	}
	return metadata, nil
}

// NewCounterpartyVersion encodes metadata the way a host chain acknowledges
// a channel.
func NewCounterpartyVersion(controllerConnectionID, hostConnectionID, address string) string {
	metadata := icatypes.NewMetadata(icatypes.Version, controllerConnectionID, hostConnectionID, address, icatypes.EncodingProtobuf, icatypes.TxTypeSDKMultiMsg)
	bz, err := json.Marshal(metadata)
	if err != nil {
		panic(err)
	}
	return string(bz)
}
