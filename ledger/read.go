// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"sort"

	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/move"
	"github.com/nekoyume/nekoyume/storage"
)

// PageSize - most blocks returned by one range read
const PageSize = 1000

// read side shared by Ledger and Tx
type reader struct {
	r     storage.Reader
	pools *storage.Pools
}

// Header - a block without its moves, nil if absent
func (rd reader) Header(id uint64) (*block.Block, error) {
	packed := rd.r.Get(rd.pools.Blocks, storage.Uint64Key(id))
	if nil == packed {
		return nil, nil
	}
	return block.Unpack(packed)
}

// Block - a block with its moves, nil if absent
func (rd reader) Block(id uint64) (*block.Block, error) {
	b, err := rd.Header(id)
	if nil != err || nil == b {
		return nil, err
	}

	ids := make([]string, 0, 8)
	prefix := storage.Uint64Key(id)
	err = rd.r.Map(rd.pools.BlockMoves, prefix, storage.Uint64Key(id+1), false, func(key []byte, _ []byte) bool {
		ids = append(ids, string(key[8:]))
		return true
	})
	if nil != err {
		return nil, err
	}
	b.Moves = make([]*move.Move, 0, len(ids))
	for _, moveID := range ids {
		m, err := rd.Move(moveID)
		if nil != err {
			return nil, err
		}
		if nil != m {
			b.Moves = append(b.Moves, m)
		}
	}
	return b, nil
}

// LastBlock - tip of the chain, nil if empty
func (rd reader) LastBlock() (*block.Block, error) {
	id := rd.Height()
	if 0 == id {
		return nil, nil
	}
	return rd.Block(id)
}

// Height - id of the tip, zero if empty
func (rd reader) Height() uint64 {
	height := uint64(0)
	err := rd.r.Map(rd.pools.Blocks, nil, nil, true, func(key []byte, _ []byte) bool {
		height = storage.Uint64FromKey(key)
		return false
	})
	if nil != err {
		return 0
	}
	return height
}

// BlockByHash - look a block up by its hash
func (rd reader) BlockByHash(hash string) (*block.Block, error) {
	id := rd.r.Get(rd.pools.BlockHashes, []byte(hash))
	if nil == id {
		return nil, nil
	}
	return rd.Block(storage.Uint64FromKey(id))
}

// Blocks - ascending blocks with from <= id <= to, at most PageSize
func (rd reader) Blocks(from uint64, to uint64) ([]*block.Block, error) {
	if 0 == from {
		from = 1
	}
	if to < from {
		return []*block.Block{}, nil
	}
	if to-from >= PageSize {
		to = from + PageSize - 1
	}
	blocks := make([]*block.Block, 0, to-from+1)
	for id := from; id <= to; id += 1 {
		b, err := rd.Block(id)
		if nil != err {
			return nil, err
		}
		if nil == b {
			break
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// Move - a known move, nil if absent
func (rd reader) Move(id string) (*move.Move, error) {
	packed := rd.r.Get(rd.pools.Moves, []byte(id))
	if nil == packed {
		return nil, nil
	}
	return move.Unpack(packed)
}

// Unconfirmed - up to limit moves not yet in any block, in id order
//
// a limit of zero or less returns all of them
func (rd reader) Unconfirmed(limit int) ([]*move.Move, error) {
	ids := make([]string, 0, 16)
	err := rd.r.Map(rd.pools.Unconfirmed, nil, nil, false, func(key []byte, _ []byte) bool {
		ids = append(ids, string(key))
		return limit <= 0 || len(ids) < limit
	})
	if nil != err {
		return nil, err
	}
	moves := make([]*move.Move, 0, len(ids))
	for _, id := range ids {
		m, err := rd.Move(id)
		if nil != err {
			return nil, err
		}
		if nil != m {
			moves = append(moves, m)
		}
	}
	return moves, nil
}

// CreationMove - latest create_novice of address at or below height
func (rd reader) CreationMove(address string, height uint64) (*move.Move, error) {
	start := addressKey(address, 0, "")
	limit := addressKey(address, height+1, "")
	moveID := ""
	err := rd.r.Map(rd.pools.AddressMoves, start, limit, true, func(key []byte, value []byte) bool {
		if move.CreateNovice == string(value) {
			moveID = string(key[len(address)+8:])
			return false
		}
		return true
	})
	if nil != err || "" == moveID {
		return nil, err
	}
	return rd.Move(moveID)
}

// MovesFor - confirmed moves signed by or sent to address with
// from <= block id <= to, ordered by block id then move id
func (rd reader) MovesFor(address string, from uint64, to uint64) ([]*move.Move, error) {
	if to < from {
		return []*move.Move{}, nil
	}
	start := addressKey(address, from, "")
	limit := addressKey(address, to+1, "")

	keys := make(map[string]struct{})
	collect := func(key []byte, _ []byte) bool {
		keys[string(key[len(address):])] = struct{}{}
		return true
	}
	err := rd.r.Map(rd.pools.AddressMoves, start, limit, false, collect)
	if nil != err {
		return nil, err
	}
	err = rd.r.Map(rd.pools.Receivers, start, limit, false, collect)
	if nil != err {
		return nil, err
	}

	ordered := make([]string, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	moves := make([]*move.Move, 0, len(ordered))
	for _, k := range ordered {
		m, err := rd.Move(k[8:])
		if nil != err {
			return nil, err
		}
		if nil != m {
			moves = append(moves, m)
		}
	}
	return moves, nil
}

// BlocksCreatedBy - number of blocks produced by address up to height
func (rd reader) BlocksCreatedBy(address string, height uint64) (uint64, error) {
	n := uint64(0)
	prefix := []byte(address)
	start := append(append([]byte{}, prefix...), storage.Uint64Key(0)...)
	limit := append(append([]byte{}, prefix...), storage.Uint64Key(height+1)...)
	err := rd.r.Map(rd.pools.Creators, start, limit, false, func(key []byte, _ []byte) bool {
		if bytes.HasPrefix(key, prefix) {
			n += 1
		}
		return true
	})
	return n, err
}

// address ++ block number ++ move id
func addressKey(address string, id uint64, moveID string) []byte {
	key := make([]byte, 0, len(address)+8+len(moveID))
	key = append(key, address...)
	key = append(key, storage.Uint64Key(id)...)
	return append(key, moveID...)
}

// block number ++ move id
func blockMoveKey(id uint64, moveID string) []byte {
	return append(storage.Uint64Key(id), moveID...)
}

// creator ++ block number
func creatorKey(creator string, id uint64) []byte {
	return append([]byte(creator), storage.Uint64Key(id)...)
}
