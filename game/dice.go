// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package game

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/nekoyume/nekoyume/fault"
)

// Dice - a finite budget of random bytes taken from chain data
//
// the bytes are xor(block hash, move id) so every node replaying the
// same history rolls the same numbers
type Dice struct {
	randoms []byte
}

// NewDice - seed from hex block hash and hex move id
func NewDice(blockHash string, moveID string) (*Dice, error) {
	bh, err := hex.DecodeString(blockHash)
	if nil != err {
		return nil, err
	}
	mi, err := hex.DecodeString(moveID)
	if nil != err {
		return nil, err
	}
	n := len(bh)
	if len(mi) < n {
		n = len(mi)
	}
	randoms := make([]byte, n)
	for i := 0; i < n; i += 1 {
		randoms[i] = bh[i] ^ mi[i]
	}
	return &Dice{randoms: randoms}, nil
}

// NewDiceFromBytes - explicit random bytes
func NewDiceFromBytes(randoms []byte) *Dice {
	return &Dice{randoms: append([]byte(nil), randoms...)}
}

// Remaining - unused random bytes
func (d *Dice) Remaining() int {
	return len(d.randoms)
}

// Roll - evaluate "NdM" or "NdM+K", one byte per die taken from the end
func (d *Dice) Roll(expression string) (int64, error) {
	count, sides, plus, err := parseDice(expression)
	if nil != err {
		return 0, err
	}
	total := plus
	for i := int64(0); i < count; i += 1 {
		n := len(d.randoms)
		if 0 == n {
			return 0, fault.ErrOutOfRandomness
		}
		r := d.randoms[n-1]
		d.randoms = d.randoms[:n-1]
		total += int64(r)%sides + 1
	}
	return total, nil
}

func parseDice(expression string) (count int64, sides int64, plus int64, err error) {
	e := expression
	if i := strings.IndexByte(e, '+'); i > 0 {
		plus, err = strconv.ParseInt(e[i+1:], 10, 64)
		if nil != err {
			return 0, 0, 0, fault.ErrInvalidDice
		}
		e = e[:i]
	}
	parts := strings.Split(e, "d")
	if 2 != len(parts) {
		return 0, 0, 0, fault.ErrInvalidDice
	}
	count, err = strconv.ParseInt(parts[0], 10, 64)
	if nil != err || count < 0 {
		return 0, 0, 0, fault.ErrInvalidDice
	}
	sides, err = strconv.ParseInt(parts[1], 10, 64)
	if nil != err || sides <= 0 {
		return 0, 0, 0, fault.ErrInvalidDice
	}
	return count, sides, plus, nil
}
