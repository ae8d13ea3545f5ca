// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"github.com/zeebo/bencode"

	"github.com/nekoyume/nekoyume/move"
)

// stored header, moves are kept in their own pool
type record struct {
	ID         int64  `bencode:"id"`
	Version    int64  `bencode:"version"`
	Hash       string `bencode:"hash"`
	PrevHash   string `bencode:"prev_hash"`
	Creator    string `bencode:"creator"`
	RootHash   string `bencode:"root_hash"`
	Suffix     []byte `bencode:"suffix"`
	Difficulty int64  `bencode:"difficulty"`
	CreatedAt  string `bencode:"created_at"`
}

// Pack - encode the header for storage
func (b *Block) Pack() ([]byte, error) {
	r := record{
		ID:         int64(b.ID),
		Version:    b.Version,
		Hash:       b.Hash,
		PrevHash:   b.PrevHash,
		Creator:    b.Creator,
		RootHash:   b.RootHash,
		Suffix:     b.Suffix,
		Difficulty: int64(b.Difficulty),
		CreatedAt:  move.FormatTime(b.CreatedAt),
	}
	return bencode.EncodeBytes(r)
}

// Unpack - decode a stored header, Moves is left empty
func Unpack(buffer []byte) (*Block, error) {
	r := record{}
	err := bencode.DecodeBytes(buffer, &r)
	if nil != err {
		return nil, err
	}
	createdAt, err := move.ParseTime(r.CreatedAt)
	if nil != err {
		return nil, err
	}
	return &Block{
		ID:         uint64(r.ID),
		Version:    r.Version,
		Hash:       r.Hash,
		PrevHash:   r.PrevHash,
		Creator:    r.Creator,
		RootHash:   r.RootHash,
		Suffix:     r.Suffix,
		Difficulty: uint64(r.Difficulty),
		CreatedAt:  createdAt,
	}, nil
}
