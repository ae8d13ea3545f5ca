// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package move

import (
	"encoding/hex"
	"encoding/json"

	"github.com/nekoyume/nekoyume/fault"
)

// Wire - JSON form exchanged between nodes
//
// binary fields are hex encoded; the canonical bencode form can be
// rebuilt from it byte for byte
type Wire struct {
	ID            string          `json:"id,omitempty"`
	Name          string          `json:"name"`
	Details       Details         `json:"details"`
	UserAddress   string          `json:"user_address"`
	UserPublicKey string          `json:"user_public_key,omitempty"`
	Signature     string          `json:"signature,omitempty"`
	Tax           int64           `json:"tax"`
	CreatedAt     string          `json:"created_at"`
	Block         json.RawMessage `json:"block,omitempty"`
	SentNode      string          `json:"sent_node,omitempty"`
}

// Wire - JSON transport form with signature and id
func (m *Move) Wire() *Wire {
	return &Wire{
		ID:            m.ID,
		Name:          m.Name,
		Details:       m.Details,
		UserAddress:   m.UserAddress,
		UserPublicKey: hex.EncodeToString(m.UserPublicKey),
		Signature:     hex.EncodeToString(m.Signature),
		Tax:           m.Tax,
		CreatedAt:     FormatTime(m.CreatedAt),
	}
}

// Move - rebuild a move from its transport form
//
// a zero blockID takes the id from an embedded block header if present
func (w *Wire) Move(blockID uint64) (*Move, error) {
	publicKey, err := hex.DecodeString(w.UserPublicKey)
	if nil != err {
		return nil, invalid(fault.ErrInvalidPublicKey)
	}
	signature, err := hex.DecodeString(w.Signature)
	if nil != err {
		return nil, invalid(fault.ErrInvalidSignature)
	}
	createdAt, err := ParseTime(w.CreatedAt)
	if nil != err {
		return nil, invalid(err)
	}
	if 0 == blockID && len(w.Block) > 0 && "null" != string(w.Block) {
		var header struct {
			ID uint64 `json:"id"`
		}
		if nil == json.Unmarshal(w.Block, &header) {
			blockID = header.ID
		}
	}
	return &Move{
		ID:            w.ID,
		BlockID:       blockID,
		Name:          w.Name,
		Details:       w.Details,
		UserAddress:   w.UserAddress,
		UserPublicKey: publicKey,
		Signature:     signature,
		Tax:           w.Tax,
		CreatedAt:     createdAt,
	}, nil
}
