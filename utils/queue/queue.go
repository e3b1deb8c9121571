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

// Package queue implements a durable FIFO queue of unique items.
//
// Items are stored twice: forward under their insertion index and in reverse
// under their own key. Both sides are always written together, so membership
// and removal never scan the queue.
package queue

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	collcodec "cosmossdk.io/collections/codec"
	sdkerrors "cosmossdk.io/errors"
)

var ErrAlreadyEnqueued = sdkerrors.Register("queue", 1, "item already enqueued")

type Queue[K any] struct {
	items   collections.Map[uint64, K]
	indexes collections.Map[K, uint64]
	tail    collections.Sequence
}

// New registers the queue's collections under prefix. prefix must not be
// shared with any other collection in builder.
func New[K any](builder *collections.SchemaBuilder, prefix []byte, name string, keyCodec collcodec.KeyCodec[K]) *Queue[K] {
	return &Queue[K]{
		items:   collections.NewMap(builder, collections.NewPrefix(append(clone(prefix), 'i')), name+"_items", collections.Uint64Key, collcodec.KeyToValueCodec(keyCodec)),
		indexes: collections.NewMap(builder, collections.NewPrefix(append(clone(prefix), 'r')), name+"_indexes", keyCodec, collections.Uint64Value),
		tail:    collections.NewSequence(builder, collections.NewPrefix(append(clone(prefix), 't')), name+"_tail"),
	}
}

// Enqueue appends item at the tail.
func (q *Queue[K]) Enqueue(ctx context.Context, item K) error {
	has, err := q.indexes.Has(ctx, item)
	if err != nil {
		return err
	}
	if has {
		return ErrAlreadyEnqueued
	}

	index, err := q.tail.Next(ctx)
	if err != nil {
		return err
	}
	if err := q.items.Set(ctx, index, item); err != nil {
		return err
	}
	return q.indexes.Set(ctx, item, index)
}

// DequeueFront removes and returns the oldest item. found is false when the
// queue is empty.
func (q *Queue[K]) DequeueFront(ctx context.Context) (item K, found bool, err error) {
	iter, err := q.items.Iterate(ctx, nil)
	if err != nil {
		return item, false, err
	}
	if !iter.Valid() {
		return item, false, iter.Close()
	}
	kv, err := iter.KeyValue()
	if err != nil {
		_ = iter.Close()
		return item, false, err
	}
	if err := iter.Close(); err != nil {
		return item, false, err
	}

	if err := q.items.Remove(ctx, kv.Key); err != nil {
		return item, false, err
	}
	if err := q.indexes.Remove(ctx, kv.Value); err != nil {
		return item, false, err
	}
	return kv.Value, true, nil
}

// Remove deletes item wherever it sits. Removing an absent item is a no-op.
func (q *Queue[K]) Remove(ctx context.Context, item K) error {
	index, err := q.indexes.Get(ctx, item)
	if errors.Is(err, collections.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := q.items.Remove(ctx, index); err != nil {
		return err
	}
	return q.indexes.Remove(ctx, item)
}

func (q *Queue[K]) Contains(ctx context.Context, item K) (bool, error) {
	return q.indexes.Has(ctx, item)
}

// List returns up to limit items ordered by key, starting after startAfter.
// This is not dequeue order.
func (q *Queue[K]) List(ctx context.Context, startAfter *K, limit int) ([]K, error) {
	var ranger collections.Ranger[K]
	if startAfter != nil {
		ranger = new(collections.Range[K]).StartExclusive(*startAfter)
	}

	iter, err := q.indexes.Iterate(ctx, ranger)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var items []K
	for ; iter.Valid() && len(items) < limit; iter.Next() {
		item, err := iter.Key()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Ordered returns up to limit items in dequeue order.
func (q *Queue[K]) Ordered(ctx context.Context, limit int) ([]K, error) {
	iter, err := q.items.Iterate(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var items []K
	for ; iter.Valid() && len(items) < limit; iter.Next() {
		item, err := iter.Value()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Counter returns the lifetime number of enqueues.
func (q *Queue[K]) Counter(ctx context.Context) (uint64, error) {
	return q.tail.Peek(ctx)
}

func clone(bz []byte) []byte {
	return append([]byte(nil), bz...)
}
