// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"fmt"
	"time"

	"github.com/nekoyume/nekoyume/account"
	"github.com/nekoyume/nekoyume/difficulty"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/hashcash"
)

// Reader - access to committed blocks by id
//
// a missing block is reported as nil, nil
type Reader interface {
	Block(id uint64) (*Block, error)
}

// Valid - every check that makes a block acceptable after its predecessor
func (b *Block) Valid(r Reader) error {
	if Version != b.Version {
		return invalid(fault.ErrUnsupportedVersion)
	}
	if !account.ValidAddress(b.Creator) {
		return invalid(fault.ErrInvalidAddress)
	}

	challenge, err := b.Challenge()
	if nil != err {
		return invalid(err)
	}
	h, err := b.ComputeHash()
	if nil != err {
		return invalid(err)
	}
	if h != b.Hash {
		return invalid(fault.ErrHashMismatch)
	}
	if !hashcash.Check(append(challenge, b.Suffix...), b.Suffix, b.Difficulty) {
		return invalid(fault.ErrProofOfWork)
	}

	full, err := b.Serialize(Full)
	if nil != err {
		return invalid(err)
	}
	if len(full) > SizeLimit {
		return invalid(fault.ErrBlockTooLarge)
	}

	err = b.validLinkage(r)
	if nil != err {
		return invalid(err)
	}

	seen := make(map[string]struct{}, len(b.Moves))
	for _, m := range b.Moves {
		if _, ok := seen[m.ID]; ok {
			return invalid(fault.ErrDuplicateMove)
		}
		seen[m.ID] = struct{}{}
	}
	if RootHash(b.Moves) != b.RootHash {
		return invalid(fault.ErrRootHashMismatch)
	}
	for _, m := range b.Moves {
		err := m.Valid()
		if nil != err {
			return invalid(err)
		}
	}
	return nil
}

// IsValid - boolean form of Valid
func (b *Block) IsValid(r Reader) bool {
	return nil == b.Valid(r)
}

// NextDifficulty - difficulty required of block id created at t
func NextDifficulty(r Reader, previous *Block, id uint64, t time.Time) (uint64, error) {
	startID := difficulty.WindowStart(id)
	start := previous
	if startID != previous.ID {
		s, err := r.Block(startID)
		if nil != err {
			return 0, err
		}
		if nil == s {
			return 0, fault.ErrPreviousBlockMissing
		}
		start = s
	}
	average := difficulty.Average(start.ID, start.CreatedAt, id, t)
	return difficulty.Adjust(previous.Difficulty, average), nil
}

// check prev_hash and difficulty against the stored chain
func (b *Block) validLinkage(r Reader) error {
	if 0 == b.ID {
		return fault.ErrInvalidBlock
	}
	if 1 == b.ID {
		if "" != b.PrevHash {
			return fault.ErrLinkageMismatch
		}
		if difficulty.Genesis != b.Difficulty {
			return fault.ErrDifficultyMismatch
		}
		return nil
	}

	previous, err := r.Block(b.ID - 1)
	if nil != err {
		return err
	}
	if nil == previous {
		return fault.ErrPreviousBlockMissing
	}
	if previous.Hash != b.PrevHash {
		return fault.ErrLinkageMismatch
	}
	expected, err := NextDifficulty(r, previous, b.ID, b.CreatedAt)
	if nil != err {
		return err
	}
	if expected != b.Difficulty {
		return fault.ErrDifficultyMismatch
	}
	return nil
}

func invalid(cause error) error {
	if cause == fault.ErrInvalidBlock {
		return cause
	}
	return fmt.Errorf("%w: %w", fault.ErrInvalidBlock, cause)
}
