// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/nekoyume/nekoyume/account"
	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/move"
	"github.com/nekoyume/nekoyume/storage"
)

// Tx - a set of chain changes committed atomically
type Tx struct {
	reader

	ledger    *Ledger
	t         *storage.Transaction
	truncated bool
	cutTo     uint64
}

// PutBlock - append b with all of its moves
//
// the block id must be free and the previous block must still be
// the one b links to when the transaction commits
func (tx *Tx) PutBlock(b *block.Block) error {
	pools := tx.pools
	id := storage.Uint64Key(b.ID)

	tx.t.Guard(pools.Blocks, id)
	if tx.r.Has(pools.Blocks, id) {
		return fault.ErrBlockExists
	}
	if b.ID > 1 {
		tx.t.Guard(pools.Blocks, storage.Uint64Key(b.ID-1))
	}

	seen := make(map[string]struct{}, len(b.Moves))
	for _, m := range b.Moves {
		if _, ok := seen[m.ID]; ok {
			return fault.ErrDuplicateMove
		}
		seen[m.ID] = struct{}{}
		existing, err := tx.Move(m.ID)
		if nil != err {
			return err
		}
		if nil != existing && existing.Confirmed() && existing.BlockID != b.ID {
			return fault.ErrMoveExists
		}
	}

	packed, err := b.Pack()
	if nil != err {
		return err
	}
	tx.t.Put(pools.Blocks, id, packed)
	tx.t.Put(pools.BlockHashes, []byte(b.Hash), id)
	tx.t.Put(pools.Creators, creatorKey(b.Creator, b.ID), []byte{})

	for _, m := range b.Moves {
		c := m.Clone()
		c.BlockID = b.ID
		packed, err := c.Pack()
		if nil != err {
			return err
		}
		tx.t.Put(pools.Moves, []byte(c.ID), packed)
		tx.t.Delete(pools.Unconfirmed, []byte(c.ID))
		tx.t.Put(pools.BlockMoves, blockMoveKey(b.ID, c.ID), []byte{})
		tx.t.Put(pools.AddressMoves, addressKey(c.UserAddress, b.ID, c.ID), []byte(c.Name))
		if receiver := c.Receiver(); move.Send == c.Name && account.ValidAddress(receiver) {
			tx.t.Put(pools.Receivers, addressKey(receiver, b.ID, c.ID), []byte{})
		}
	}
	return nil
}

// DeleteAbove - remove every block with an id greater than id
//
// the moves of removed blocks are kept as unconfirmed and returned
func (tx *Tx) DeleteAbove(id uint64) ([]*move.Move, error) {
	pools := tx.pools
	detached := make([]*move.Move, 0)

	for n := tx.Height(); n > id; n -= 1 {
		b, err := tx.Block(n)
		if nil != err {
			return nil, err
		}
		if nil == b {
			continue
		}
		key := storage.Uint64Key(n)
		tx.t.Guard(pools.Blocks, key)

		for _, m := range b.Moves {
			tx.unindex(m)
			m.BlockID = 0
			packed, err := m.Pack()
			if nil != err {
				return nil, err
			}
			tx.t.Put(pools.Moves, []byte(m.ID), packed)
			tx.t.Put(pools.Unconfirmed, []byte(m.ID), []byte{})
			detached = append(detached, m)
		}
		tx.t.Delete(pools.Creators, creatorKey(b.Creator, n))
		tx.t.Delete(pools.BlockHashes, []byte(b.Hash))
		tx.t.Delete(pools.Blocks, key)
	}

	if !tx.truncated || id < tx.cutTo {
		tx.cutTo = id
	}
	tx.truncated = true
	return detached, nil
}

// PutMove - record an unconfirmed move
func (tx *Tx) PutMove(m *move.Move) error {
	if tx.r.Has(tx.pools.Moves, []byte(m.ID)) {
		return fault.ErrMoveExists
	}
	c := m.Clone()
	c.BlockID = 0
	packed, err := c.Pack()
	if nil != err {
		return err
	}
	tx.t.Put(tx.pools.Moves, []byte(c.ID), packed)
	tx.t.Put(tx.pools.Unconfirmed, []byte(c.ID), []byte{})
	return nil
}

// DeleteMove - forget a move entirely
func (tx *Tx) DeleteMove(id string) error {
	m, err := tx.Move(id)
	if nil != err {
		return err
	}
	if nil == m {
		return fault.ErrMoveNotFound
	}
	if m.Confirmed() {
		tx.unindex(m)
	}
	tx.t.Delete(tx.pools.Moves, []byte(id))
	tx.t.Delete(tx.pools.Unconfirmed, []byte(id))
	return nil
}

// Commit - write all changes, fault.ErrChainConflict on a race
func (tx *Tx) Commit() error {
	err := tx.t.Commit()
	if nil != err {
		return err
	}
	if tx.truncated {
		tx.ledger.log.Infof("chain cut back to: %d", tx.cutTo)
		tx.ledger.reorganised(tx.cutTo)
	}
	return nil
}

// Abort - discard all changes
func (tx *Tx) Abort() {
	tx.t.Abort()
}

// remove the block indexes of a confirmed move
func (tx *Tx) unindex(m *move.Move) {
	pools := tx.pools
	tx.t.Delete(pools.BlockMoves, blockMoveKey(m.BlockID, m.ID))
	tx.t.Delete(pools.AddressMoves, addressKey(m.UserAddress, m.BlockID, m.ID))
	if receiver := m.Receiver(); move.Send == m.Name && account.ValidAddress(receiver) {
		tx.t.Delete(pools.Receivers, addressKey(receiver, m.BlockID, m.ID))
	}
}

// compile time check
var _ block.Reader = (*Tx)(nil)
