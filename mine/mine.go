// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mine - background block producer
package mine

import (
	"errors"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/ledger"
	"github.com/nekoyume/nekoyume/mode"
	"github.com/nekoyume/nekoyume/move"
	"github.com/nekoyume/nekoyume/player"
)

// defaults
const (
	DefaultMaximumMoves = 20
	DefaultInterval     = 10 * time.Second

	// pause while the node is not in normal mode
	idleInterval = 2 * time.Second
)

// Announcer - receives every mined block
type Announcer interface {
	Block(b *block.Block, sentNode string)
}

// Options - mining parameters, zero values select the defaults
type Options struct {
	MaximumMoves int
	Interval     time.Duration
	Delay        time.Duration
	Now          func() time.Time
}

// Miner - creates blocks from the unconfirmed moves
type Miner struct {
	ledger    *ledger.Ledger
	avatars   player.Avatars
	announcer Announcer
	mode      *mode.State
	creator   string
	options   Options
	log       *logger.L
}

// New - miner crediting creator
//
// announcer may be nil
func New(l *ledger.Ledger, avatars player.Avatars, announcer Announcer, state *mode.State, creator string, options Options) *Miner {
	if options.MaximumMoves <= 0 {
		options.MaximumMoves = DefaultMaximumMoves
	}
	if 0 == options.Interval {
		options.Interval = DefaultInterval
	}
	return &Miner{
		ledger:    l,
		avatars:   avatars,
		announcer: announcer,
		mode:      state,
		creator:   creator,
		options:   options,
		log:       logger.New("miner"),
	}
}

// Run - background loop
func (m *Miner) Run(args interface{}, shutdown <-chan struct{}) {
	log := m.log
	log.Infof("starting…  creator: %s", m.creator)

	next := time.Duration(0)
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(next):
		}

		if m.mode.IsNot(mode.Normal) {
			log.Debugf("waiting, mode: %s", m.mode)
			next = idleInterval
			continue loop
		}

		b, err := m.Once(shutdown)
		if nil != err {
			log.Errorf("mine error: %s", err)
		} else if nil != b {
			log.Infof("mined block: %d  hash: %s  moves: %d", b.ID, b.Hash, len(b.Moves))
		}
		next = m.options.Interval
	}
	log.Info("stopped")
}

// Once - try to create and commit one block
//
// returns nil, nil when another block won the race or on shutdown
func (m *Miner) Once(shutdown <-chan struct{}) (*block.Block, error) {
	moves, err := m.Select()
	if nil != err {
		return nil, err
	}
	options := block.CreateOptions{
		Commit:      true,
		MiningDelay: m.options.Delay,
		Now:         m.options.Now,
		Shutdown:    shutdown,
	}

	for {
		b, err := block.Create(m.ledger, m.creator, moves, options)
		if errors.Is(err, fault.ErrBlockTooLarge) && len(moves) > 1 {
			moves = moves[:len(moves)/2]
			m.log.Debugf("too large, retry with: %d moves", len(moves))
			continue
		}
		if errors.Is(err, fault.ErrBlockTooLarge) && 1 == len(moves) {
			m.log.Warnf("drop move: %s  error: %s", moves[0].ID, err)
			err := m.ledger.DeleteMove(moves[0].ID)
			if nil != err {
				return nil, err
			}
			moves, err = m.Select()
			if nil != err {
				return nil, err
			}
			continue
		}
		if nil != err || nil == b {
			return nil, err
		}
		if nil != m.announcer {
			m.announcer.Block(b, "")
		}
		return b, nil
	}
}

// Select - unconfirmed moves for the next block
//
// invalid moves are removed from the pool, sends the signer cannot
// cover, counting earlier sends in the same block, are left for later
func (m *Miner) Select() ([]*move.Move, error) {
	pool, err := m.ledger.Unconfirmed(0)
	if nil != err {
		return nil, err
	}

	selected := make([]*move.Move, 0, m.options.MaximumMoves)
	spent := make(map[string]int64)
	for _, mv := range pool {
		if len(selected) >= m.options.MaximumMoves {
			break
		}
		if err := valid(mv); nil != err {
			m.log.Warnf("drop move: %s  error: %s", mv.ID, err)
			if err := m.ledger.DeleteMove(mv.ID); nil != err {
				return nil, err
			}
			continue
		}
		if move.Send == mv.Name {
			ok, err := m.affordable(mv, spent)
			if nil != err {
				return nil, err
			}
			if !ok {
				m.log.Debugf("defer send: %s", mv.ID)
				continue
			}
		}
		selected = append(selected, mv)
	}
	return selected, nil
}

func (m *Miner) affordable(mv *move.Move, spent map[string]int64) (bool, error) {
	amount := mv.Details.Int("amount")
	if amount <= 0 {
		return false, nil
	}
	avatar, err := m.avatars.Get(mv.UserAddress, 0)
	if nil != err || nil == avatar {
		return false, err
	}
	key := mv.UserAddress + "/" + mv.Details.Value("item")
	if avatar.Count(mv.Details.Value("item")) < spent[key]+amount {
		return false, nil
	}
	spent[key] += amount
	return true, nil
}

// a pooled move must verify and fit in a block on its own
func valid(mv *move.Move) error {
	err := mv.Valid()
	if nil != err {
		return err
	}
	return block.Fits(mv)
}
