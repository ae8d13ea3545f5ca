// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/bitmark-inc/logger"

	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/ledger"
)

// one synchronisation run
type machine struct {
	log        *logger.L
	sync       *Synchroniser
	candidates []string

	target      string
	remoteTip   *block.Block
	localHeight uint64
	branchPoint uint64
	from        uint64
	tx          *ledger.Tx
	page        []*block.Block
	stored      uint64

	ok  bool
	err error

	state
}

func (m *machine) nextState(next state) {
	m.log.Debugf("state: %s → %s", m.state, next)
	m.state = next
}

// finish the run with a result
func (m *machine) finish(ok bool, err error) bool {
	if nil != m.tx {
		m.tx.Abort()
		m.tx = nil
	}
	m.ok = ok
	m.err = err
	m.nextState(cStateIdle)
	return true
}

func (m *machine) run() (bool, error) {
	m.nextState(cStateQueryingPeers)
	for !m.transitions() {
	}
	return m.ok, m.err
}

// advance one step, true when the run is complete
func (m *machine) transitions() bool {
	log := m.log
	s := m.sync

	switch m.state {
	case cStateQueryingPeers:
		m.localHeight = s.ledger.Height()
		for _, u := range m.candidates {
			tip, err := s.client.LastBlock(u)
			if nil != err {
				log.Warnf("tip query: %s  error: %s", u, err)
				continue
			}
			s.touch(u)
			if nil == tip {
				continue
			}
			log.Debugf("peer: %s  height: %d", u, tip.ID)
			if nil == m.remoteTip || tip.ID > m.remoteTip.ID {
				m.remoteTip = tip
				m.target = u
			}
		}
		if nil == m.remoteTip || m.remoteTip.ID <= m.localHeight {
			log.Debugf("no taller peer than local height: %d", m.localHeight)
			return m.finish(true, nil)
		}
		log.Infof("peer: %s  height: %d  local height: %d", m.target, m.remoteTip.ID, m.localHeight)
		m.nextState(cStateLocatingBranchPoint)

	case cStateLocatingBranchPoint:
		branchPoint, err := m.locateBranchPoint()
		if nil != err {
			log.Warnf("branch point search with: %s  error: %s", m.target, err)
			return m.finish(false, err)
		}
		m.branchPoint = branchPoint
		m.from = branchPoint + 1
		log.Infof("branch point: %d", branchPoint)

		tx, err := s.ledger.Begin()
		if nil != err {
			return m.finish(false, err)
		}
		m.tx = tx
		detached, err := tx.DeleteAbove(branchPoint)
		if nil != err {
			return m.finish(false, err)
		}
		if 0 != len(detached) {
			log.Infof("detached: %d moves above block: %d", len(detached), branchPoint)
		}
		m.nextState(cStateDownloadingRange)

	case cStateDownloadingRange:
		page, err := s.client.Blocks(m.target, m.from, m.from+s.pageSize-1)
		if nil != err {
			log.Warnf("fetch from: %d  error: %s", m.from, err)
			return m.finish(false, err)
		}
		log.Debugf("fetched: %d blocks from: %d", len(page), m.from)
		m.page = page
		m.nextState(cStateValidatingAndCommitting)

	case cStateValidatingAndCommitting:
		for _, b := range m.page {
			err := m.store(b)
			if nil != err {
				log.Errorf("block: %d  rejected: %s", b.ID, err)
				return m.finish(false, err)
			}
		}

		err := m.tx.Commit()
		m.tx = nil
		if nil != err {
			log.Warnf("commit error: %s", err)
			return m.finish(false, err)
		}

		if uint64(len(m.page)) < s.pageSize {
			log.Infof("synchronised: %d blocks from: %s", m.stored, m.target)
			return m.finish(true, nil)
		}

		m.from += s.pageSize
		tx, err := s.ledger.Begin()
		if nil != err {
			return m.finish(false, err)
		}
		m.tx = tx
		m.nextState(cStateDownloadingRange)

	default:
		return m.finish(false, fmt.Errorf("unexpected state: %s", m.state))
	}
	return false
}

// highest block id whose hash matches the peer's
//
// the local tip is probed first; a mismatch falls back to bisecting
// the ids below it
func (m *machine) locateBranchPoint() (uint64, error) {
	if 0 == m.localHeight {
		return 0, nil
	}

	same, err := m.common(m.localHeight)
	if nil != err {
		return 0, err
	}
	if same {
		return m.localHeight, nil
	}

	// block 0 is the empty chain, common to every peer
	low := uint64(0)
	high := m.localHeight - 1
	maximumSteps := bits.Len64(high) + 1
	for step := 0; low < high && step < maximumSteps; step += 1 {
		mid := low + (high-low+1)/2
		same, err := m.common(mid)
		if nil != err {
			return 0, err
		}
		m.log.Tracef("probe: %d  same: %t  range: [%d, %d]", mid, same, low, high)
		if same {
			low = mid
		} else {
			high = mid - 1
		}
	}
	return low, nil
}

// true if the local and remote blocks at id have the same hash
func (m *machine) common(id uint64) (bool, error) {
	local, err := m.sync.ledger.Block(id)
	if nil != err {
		return false, err
	}
	remote, err := m.sync.client.Block(m.target, id)
	if nil != err {
		return false, err
	}
	if nil == remote {
		return false, fmt.Errorf("%w: %s: missing block: %d", fault.ErrPeerUnavailable, m.target, id)
	}
	return nil != local && local.Hash == remote.Hash, nil
}

// validate one downloaded block and add it to the transaction
func (m *machine) store(b *block.Block) error {
	if b.ID != m.tx.Height()+1 {
		return fmt.Errorf("%w: %w", fault.ErrInvalidBlock, fault.ErrNotNextBlock)
	}

	for i, received := range b.Moves {
		existing, err := m.tx.Move(received.ID)
		if nil != err {
			return err
		}
		if nil != existing {
			existing.BlockID = b.ID
			b.Moves[i] = existing
		}
		err = b.Moves[i].Valid()
		if nil != err {
			return err
		}
	}

	err := b.Valid(m.tx)
	if nil != err {
		return err
	}
	err = m.tx.PutBlock(b)
	if errors.Is(err, fault.ErrBlockExists) || errors.Is(err, fault.ErrMoveExists) {
		return fmt.Errorf("%w: %w", fault.ErrInvalidBlock, err)
	}
	if nil != err {
		return err
	}
	m.stored += 1
	return nil
}
