// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package replay - rebuild avatar state from confirmed moves
package replay

import (
	"strconv"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/patrickmn/go-cache"

	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/game"
	"github.com/nekoyume/nekoyume/move"
)

// CreatorBonus - gold credited for every block an address produced
const CreatorBonus = 8

const (
	cacheExpiry  = 10 * time.Minute
	cacheCleanup = 15 * time.Minute
)

// Source - the ledger reads needed for a replay
type Source interface {
	Height() uint64
	Header(id uint64) (*block.Block, error)
	CreationMove(address string, height uint64) (*move.Move, error)
	MovesFor(address string, from uint64, to uint64) ([]*move.Move, error)
	BlocksCreatedBy(address string, height uint64) (uint64, error)
}

// Step - one applied move and the avatar it produced
type Step struct {
	Move    *move.Move
	Outcome game.Outcome
	Avatar  *game.Avatar
}

// Engine - memoised replay over a source
type Engine struct {
	source Source
	memo   *cache.Cache
	log    *logger.L
}

// New - replay engine reading from source
func New(source Source) *Engine {
	return &Engine{
		source: source,
		memo:   cache.New(cacheExpiry, cacheCleanup),
		log:    logger.New("replay"),
	}
}

// Get - avatar of address as of height
//
// a height of zero, or beyond the tip, means the tip; nil is returned
// when no creation move is confirmed at or below the height
func (e *Engine) Get(address string, height uint64) (*game.Avatar, error) {
	height, hash, err := e.resolve(height)
	if nil != err || 0 == height {
		return nil, err
	}

	key := address + "/" + strconv.FormatUint(height, 10) + "/" + hash
	if cached, ok := e.memo.Get(key); ok {
		return cached.(*game.Avatar).Clone(), nil
	}

	avatar, _, err := e.replay(address, height)
	if nil != err {
		return nil, err
	}
	if nil != avatar {
		e.memo.SetDefault(key, avatar)
	}
	return avatar.Clone(), nil
}

// Replay - avatar of address as of height with every step taken
func (e *Engine) Replay(address string, height uint64) (*game.Avatar, []Step, error) {
	height, _, err := e.resolve(height)
	if nil != err || 0 == height {
		return nil, nil, err
	}
	return e.replay(address, height)
}

// Flush - forget every memoised avatar
func (e *Engine) Flush() {
	e.memo.Flush()
}

// Reorganised - ledger observer, the chain was cut back to height
func (e *Engine) Reorganised(height uint64) {
	e.log.Infof("chain cut to: %d  flush memo", height)
	e.Flush()
}

// clamp height to the tip and read its block hash
func (e *Engine) resolve(height uint64) (uint64, string, error) {
	tip := e.source.Height()
	if 0 == height || height > tip {
		height = tip
	}
	if 0 == height {
		return 0, "", nil
	}
	header, err := e.source.Header(height)
	if nil != err {
		return 0, "", err
	}
	if nil == header {
		return 0, "", nil
	}
	return height, header.Hash, nil
}

func (e *Engine) replay(address string, height uint64) (*game.Avatar, []Step, error) {
	creation, err := e.source.CreationMove(address, height)
	if nil != err || nil == creation {
		return nil, nil, err
	}

	hashes := make(map[uint64]string)
	blockHash := func(id uint64) (string, error) {
		if h, ok := hashes[id]; ok {
			return h, nil
		}
		header, err := e.source.Header(id)
		if nil != err || nil == header {
			return "", err
		}
		hashes[id] = header.Hash
		return header.Hash, nil
	}

	hash, err := blockHash(creation.BlockID)
	if nil != err {
		return nil, nil, err
	}
	avatar, outcome, err := game.Execute(creation, hash, nil)
	if nil != err {
		return nil, nil, err
	}
	created, err := e.source.BlocksCreatedBy(address, height)
	if nil != err {
		return nil, nil, err
	}
	if nil != avatar {
		avatar.Gold += int64(created) * CreatorBonus
	}
	steps := []Step{{Move: creation, Outcome: outcome, Avatar: avatar.Clone()}}

	moves, err := e.source.MovesFor(address, creation.BlockID, height)
	if nil != err {
		return nil, nil, err
	}
	for _, m := range moves {
		if m.ID == creation.ID {
			continue
		}
		if address == m.UserAddress {
			hash, err := blockHash(m.BlockID)
			if nil != err {
				return nil, nil, err
			}
			avatar, outcome, err = game.Execute(m, hash, avatar)
			if nil != err {
				return nil, nil, err
			}
			steps = append(steps, Step{Move: m, Outcome: outcome, Avatar: avatar.Clone()})
		}
		if move.Send == m.Name && address == m.Receiver() {
			avatar, outcome, err = game.Receive(m, avatar)
			if nil != err {
				return nil, nil, err
			}
			steps = append(steps, Step{Move: m, Outcome: outcome, Avatar: avatar.Clone()})
		}
	}
	return avatar, steps, nil
}
