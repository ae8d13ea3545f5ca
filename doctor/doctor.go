// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package doctor - offline chain diagnosis and repair
//
// nothing here runs automatically, the operator invokes it from the
// daemon command line while the node is stopped
package doctor

import (
	"github.com/bitmark-inc/logger"

	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/ledger"
)

// Problem - one block or move failing its validity check
//
// MoveID is empty for a block problem; BlockID is zero for an
// unconfirmed move
type Problem struct {
	BlockID uint64
	MoveID  string
	Err     error
}

// Report - result of a scan
type Report struct {
	Height       uint64
	Blocks       int
	Moves        int
	Unconfirmed  int
	Problems     []Problem
	FirstInvalid uint64 // zero when every block is valid
}

// Healthy - no problems found
func (r *Report) Healthy() bool {
	return 0 == len(r.Problems)
}

// invalid moves by id
func (r *Report) invalidMoves() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, p := range r.Problems {
		if "" != p.MoveID {
			ids[p.MoveID] = struct{}{}
		}
	}
	return ids
}

// Scan - check every block, every confirmed move and every
// unconfirmed move
func Scan(l *ledger.Ledger) (*Report, error) {
	log := logger.New("doctor")

	report := &Report{
		Height:   l.Height(),
		Problems: make([]Problem, 0),
	}

	for id := uint64(1); id <= report.Height; id += 1 {
		b, err := l.Block(id)
		if nil != err {
			return nil, err
		}
		if nil == b {
			log.Errorf("block: %d  missing", id)
			report.Problems = append(report.Problems, Problem{BlockID: id, Err: fault.ErrBlockNotFound})
			if 0 == report.FirstInvalid {
				report.FirstInvalid = id
			}
			continue
		}
		report.Blocks += 1

		for _, m := range b.Moves {
			report.Moves += 1
			if err := m.Valid(); nil != err {
				log.Errorf("block: %d  move: %s  error: %s", id, m.ID, err)
				report.Problems = append(report.Problems, Problem{BlockID: id, MoveID: m.ID, Err: err})
			}
		}

		if err := b.Valid(l); nil != err {
			log.Errorf("block: %d  error: %s", id, err)
			report.Problems = append(report.Problems, Problem{BlockID: id, Err: err})
			if 0 == report.FirstInvalid {
				report.FirstInvalid = id
			}
		}
	}

	pending, err := l.Unconfirmed(0)
	if nil != err {
		return nil, err
	}
	for _, m := range pending {
		report.Unconfirmed += 1
		if err := m.Valid(); nil != err {
			log.Errorf("unconfirmed move: %s  error: %s", m.ID, err)
			report.Problems = append(report.Problems, Problem{MoveID: m.ID, Err: err})
		}
	}

	log.Infof("height: %d  blocks: %d  moves: %d  unconfirmed: %d  problems: %d", report.Height, report.Blocks, report.Moves, report.Unconfirmed, len(report.Problems))
	return report, nil
}

// Repair - cut the chain before its first invalid block and delete
// every invalid move
//
// valid moves of removed blocks return to the unconfirmed pool; the
// returned report is the scan taken before repairing
func Repair(l *ledger.Ledger) (*Report, error) {
	log := logger.New("doctor")

	report, err := Scan(l)
	if nil != err {
		return nil, err
	}
	if report.Healthy() {
		return report, nil
	}

	invalid := report.invalidMoves()

	tx, err := l.Begin()
	if nil != err {
		return nil, err
	}
	if 0 != report.FirstInvalid {
		detached, err := tx.DeleteAbove(report.FirstInvalid - 1)
		if nil != err {
			tx.Abort()
			return nil, err
		}
		log.Infof("truncated at: %d  detached moves: %d", report.FirstInvalid-1, len(detached))
	}

	for id := range invalid {
		m, err := tx.Move(id)
		if nil != err {
			tx.Abort()
			return nil, err
		}
		// an invalid move still inside a kept block stays with it
		if nil == m || m.Confirmed() {
			continue
		}
		err = tx.DeleteMove(id)
		if nil != err {
			tx.Abort()
			return nil, err
		}
		log.Infof("deleted move: %s", id)
	}

	err = tx.Commit()
	if nil != err {
		return nil, err
	}
	return report, nil
}
