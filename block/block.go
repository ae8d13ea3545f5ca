// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package block - hashcash sealed batches of moves
package block

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/bencode"

	"github.com/nekoyume/nekoyume/move"
)

// protocol constants
const (
	Version   = 2
	SizeLimit = 10000 // bytes of the full canonical encoding
)

// Block - one link of the chain
type Block struct {
	ID         uint64
	Version    int64
	Hash       string
	PrevHash   string // empty only for the genesis block
	Creator    string
	RootHash   string
	Suffix     []byte
	Difficulty uint64
	CreatedAt  time.Time
	Moves      []*move.Move
}

// Options - which parts Serialize includes
type Options struct {
	Suffix bool
	Moves  bool
	Hash   bool
}

// Full - every part, as used for the size limit
var Full = Options{Suffix: true, Moves: true, Hash: true}

// header fields covered by the hash
func (b *Block) header() map[string]interface{} {
	d := map[string]interface{}{
		"id":         int64(b.ID),
		"creator":    b.Creator,
		"difficulty": int64(b.Difficulty),
		"root_hash":  b.RootHash,
		"created_at": move.FormatTime(b.CreatedAt),
		"version":    b.Version,
	}
	if "" != b.PrevHash {
		d["prev_hash"] = b.PrevHash
	}
	return d
}

// Challenge - canonical header, the hashcash challenge
func (b *Block) Challenge() ([]byte, error) {
	return bencode.EncodeBytes(b.header())
}

// Serialize - canonical bencode with optional parts
func (b *Block) Serialize(options Options) ([]byte, error) {
	d := b.header()
	if options.Suffix {
		d["suffix"] = b.Suffix
	}
	if options.Moves {
		moves := make([]interface{}, 0, len(b.Moves))
		for _, m := range b.Moves {
			moves = append(moves, m.Dictionary(true, true))
		}
		d["moves"] = moves
	}
	if options.Hash {
		d["hash"] = b.Hash
	}
	return bencode.EncodeBytes(d)
}

// ComputeHash - hex sha256 of challenge followed by suffix
func (b *Block) ComputeHash() (string, error) {
	challenge, err := b.Challenge()
	if nil != err {
		return "", err
	}
	digest := sha256.Sum256(append(challenge, b.Suffix...))
	return hex.EncodeToString(digest[:]), nil
}

// RootHash - hex sha256 of the concatenated, sorted move ids
func RootHash(moves []*move.Move) string {
	ids := make([]string, 0, len(moves))
	for _, m := range moves {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	digest := sha256.Sum256([]byte(strings.Join(ids, "")))
	return hex.EncodeToString(digest[:])
}

// MoveIDs - ids of the contained moves
func (b *Block) MoveIDs() []string {
	ids := make([]string, 0, len(b.Moves))
	for _, m := range b.Moves {
		ids = append(ids, m.ID)
	}
	return ids
}
