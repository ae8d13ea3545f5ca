// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package move

import (
	"github.com/zeebo/bencode"
)

// stored form of a move
type record struct {
	ID            string            `bencode:"id"`
	BlockID       int64             `bencode:"block_id"`
	Name          string            `bencode:"name"`
	Details       map[string]string `bencode:"details"`
	UserAddress   string            `bencode:"user_address"`
	UserPublicKey []byte            `bencode:"user_public_key"`
	Signature     []byte            `bencode:"signature"`
	Tax           int64             `bencode:"tax"`
	CreatedAt     string            `bencode:"created_at"`
}

// Pack - encode for storage
func (m *Move) Pack() ([]byte, error) {
	r := record{
		ID:            m.ID,
		BlockID:       int64(m.BlockID),
		Name:          m.Name,
		Details:       m.Details.Map(),
		UserAddress:   m.UserAddress,
		UserPublicKey: m.UserPublicKey,
		Signature:     m.Signature,
		Tax:           m.Tax,
		CreatedAt:     FormatTime(m.CreatedAt),
	}
	return bencode.EncodeBytes(r)
}

// Unpack - decode a stored move
func Unpack(b []byte) (*Move, error) {
	r := record{}
	err := bencode.DecodeBytes(b, &r)
	if nil != err {
		return nil, err
	}
	createdAt, err := ParseTime(r.CreatedAt)
	if nil != err {
		return nil, err
	}
	return &Move{
		ID:            r.ID,
		BlockID:       uint64(r.BlockID),
		Name:          r.Name,
		Details:       NewDetails(r.Details),
		UserAddress:   r.UserAddress,
		UserPublicKey: r.UserPublicKey,
		Signature:     r.Signature,
		Tax:           r.Tax,
		CreatedAt:     createdAt,
	}, nil
}
