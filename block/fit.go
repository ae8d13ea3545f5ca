// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"math"
	"strings"
	"time"

	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/move"
)

// largest header any block can carry
var widestHeader = Block{
	ID:         math.MaxInt64,
	Version:    Version,
	Hash:       strings.Repeat("f", 64),
	PrevHash:   strings.Repeat("f", 64),
	Creator:    "0x" + strings.Repeat("f", 40),
	RootHash:   strings.Repeat("f", 64),
	Suffix:     []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
	Difficulty: 256,
	CreatedAt:  time.Date(9999, 12, 31, 23, 59, 59, 999999000, time.UTC),
}

// Fits - error unless the move alone can be sealed into a block
func Fits(m *move.Move) error {
	b := widestHeader
	b.Moves = []*move.Move{m}
	full, err := b.Serialize(Full)
	if nil != err {
		return err
	}
	if len(full) > SizeLimit {
		return fault.ErrMoveTooLarge
	}
	return nil
}
