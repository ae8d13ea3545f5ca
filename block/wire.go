// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/move"
)

// Wire - JSON form exchanged between nodes
type Wire struct {
	ID         uint64       `json:"id"`
	Version    int64        `json:"version"`
	Hash       string       `json:"hash,omitempty"`
	PrevHash   *string      `json:"prev_hash"`
	Creator    string       `json:"creator"`
	RootHash   string       `json:"root_hash"`
	Suffix     string       `json:"suffix,omitempty"`
	Difficulty uint64       `json:"difficulty"`
	CreatedAt  string       `json:"created_at"`
	Moves      []*move.Wire `json:"moves,omitempty"`
	SentNode   string       `json:"sent_node,omitempty"`
}

// Wire - transport form, moves included on request
func (b *Block) Wire(options Options) *Wire {
	w := &Wire{
		ID:         b.ID,
		Version:    b.Version,
		Creator:    b.Creator,
		RootHash:   b.RootHash,
		Difficulty: b.Difficulty,
		CreatedAt:  move.FormatTime(b.CreatedAt),
	}
	if "" != b.PrevHash {
		prev := b.PrevHash
		w.PrevHash = &prev
	}
	if options.Hash {
		w.Hash = b.Hash
	}
	if options.Suffix {
		w.Suffix = hex.EncodeToString(b.Suffix)
	}
	if options.Moves {
		w.Moves = make([]*move.Wire, 0, len(b.Moves))
		for _, m := range b.Moves {
			w.Moves = append(w.Moves, m.Wire())
		}
	}
	return w
}

// Header - JSON of the header as embedded in a move's block field
func (b *Block) Header() json.RawMessage {
	buffer, err := json.Marshal(b.Wire(Options{Suffix: true, Hash: true}))
	if nil != err {
		return nil
	}
	return buffer
}

// Block - rebuild a block and its moves from the transport form
//
// no validation is done here, see Valid
func (w *Wire) Block() (*Block, error) {
	suffix, err := hex.DecodeString(w.Suffix)
	if nil != err {
		return nil, fmt.Errorf("%w: suffix: %w", fault.ErrInvalidBlock, err)
	}
	createdAt, err := move.ParseTime(w.CreatedAt)
	if nil != err {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidBlock, err)
	}
	b := &Block{
		ID:         w.ID,
		Version:    w.Version,
		Hash:       w.Hash,
		Creator:    w.Creator,
		RootHash:   w.RootHash,
		Suffix:     suffix,
		Difficulty: w.Difficulty,
		CreatedAt:  createdAt,
		Moves:      make([]*move.Move, 0, len(w.Moves)),
	}
	if nil != w.PrevHash {
		b.PrevHash = *w.PrevHash
	}
	for _, mw := range w.Moves {
		m, err := mw.Move(b.ID)
		if nil != err {
			return nil, err
		}
		b.Moves = append(b.Moves, m)
	}
	return b, nil
}

// Deserialize - parse a JSON block body
func Deserialize(data []byte) (*Block, string, error) {
	if 0 == len(data) {
		return nil, "", fault.ErrEmptyBody
	}
	w := Wire{}
	err := json.Unmarshal(data, &w)
	if nil != err {
		return nil, "", fmt.Errorf("%w: %w", fault.ErrInvalidBlock, err)
	}
	b, err := w.Block()
	if nil != err {
		return nil, "", err
	}
	return b, w.SentNode, nil
}
