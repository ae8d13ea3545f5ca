// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"sort"
	"time"

	"github.com/nekoyume/nekoyume/difficulty"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/hashcash"
	"github.com/nekoyume/nekoyume/move"
)

// Store - chain access needed to extend the chain
type Store interface {
	Reader
	LastBlock() (*Block, error)
	Commit(b *Block) error
}

// CreateOptions - how Create seals and records a block
type CreateOptions struct {
	Commit      bool
	MiningDelay time.Duration
	Now         func() time.Time
	Shutdown    <-chan struct{}
}

// Create - seal the moves into the next block of the store's chain
//
// returns nil, nil if a block with the same id was committed first
// or the shutdown channel closed while mining
func Create(store Store, creator string, moves []*move.Move, options CreateOptions) (*Block, error) {
	for _, m := range moves {
		err := m.Valid()
		if nil != err {
			return nil, err
		}
	}

	last, err := store.LastBlock()
	if nil != err {
		return nil, err
	}

	now := move.Now
	if nil != options.Now {
		now = options.Now
	}

	b := &Block{
		ID:         1,
		Version:    Version,
		Creator:    creator,
		Difficulty: difficulty.Genesis,
		CreatedAt:  move.Timestamp(now()),
	}
	if nil != last {
		b.ID = last.ID + 1
		b.PrevHash = last.Hash
		b.Difficulty, err = NextDifficulty(store, last, b.ID, b.CreatedAt)
		if nil != err {
			return nil, err
		}
	}

	// a move given twice is sealed once
	b.Moves = make([]*move.Move, 0, len(moves))
	seen := make(map[string]struct{}, len(moves))
	for _, m := range moves {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		c := m.Clone()
		c.BlockID = b.ID
		b.Moves = append(b.Moves, c)
	}
	sort.Slice(b.Moves, func(i, j int) bool {
		return b.Moves[i].ID < b.Moves[j].ID
	})
	b.RootHash = RootHash(b.Moves)

	challenge, err := b.Challenge()
	if nil != err {
		return nil, err
	}
	suffix, ok := hashcash.MintWithDelay(challenge, b.Difficulty, options.MiningDelay, options.Shutdown)
	if !ok {
		return nil, nil
	}
	b.Suffix = suffix
	b.Hash, err = b.ComputeHash()
	if nil != err {
		return nil, err
	}

	err = b.Valid(store)
	if nil != err {
		return nil, err
	}

	if !options.Commit {
		return b, nil
	}
	err = store.Commit(b)
	if fault.ErrBlockExists == err || fault.ErrChainConflict == err {
		return nil, nil
	}
	if nil != err {
		return nil, err
	}
	return b, nil
}
