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

package host_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timewave-computer/covenants/types"
	"github.com/timewave-computer/covenants/utils"
	"github.com/timewave-computer/covenants/utils/mocks"
)

// submitter answers every execute with its own data and one interchain
// submission dispatched with the configured reply mode.
type submitter struct {
	address string
	replyOn types.ReplyOn
}

func (c *submitter) Address() string { return c.address }

func (c *submitter) Instantiate(context.Context, types.MessageInfo, []byte) (*types.Response, error) {
	return types.NewResponse(), nil
}

func (c *submitter) Execute(context.Context, types.MessageInfo, []byte) (*types.Response, error) {
	return types.NewResponse().SetData([]byte("executed")).AddSubMessage(types.SubMsg{
		ID:      1,
		Msg:     types.CosmosMsg{SubmitTx: &types.SubmitTx{ConnectionID: "connection-0", InterchainAccountID: "ica"}},
		ReplyOn: c.replyOn,
	}), nil
}

func (c *submitter) Reply(context.Context, types.Reply) (*types.Response, error) {
	return types.NewResponse().SetData([]byte("replied")), nil
}

func (c *submitter) Query(context.Context, []byte) ([]byte, error) {
	return nil, nil
}

func TestResponseData(t *testing.T) {
	tests := []struct {
		name     string
		replyOn  types.ReplyOn
		expected string
	}{
		{name: "without reply", replyOn: types.ReplyNever, expected: "executed"},
		{name: "with reply", replyOn: types.ReplySuccess, expected: "replied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := mocks.NewChain(t)
			contract := &submitter{address: utils.ContractAccount("submitter").Address, replyOn: tt.replyOn}
			require.NoError(t, chain.Router.Register(contract, "submitter", ""))

			// ACT
			res, err := chain.Execute(utils.TestAccount().Address, contract.Address(), struct{}{})

			// ASSERT: Sub-message data only surfaces through a reply.
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(res.Data))
			assert.Len(t, chain.ICA.Submissions, 1)
		})
	}
}
