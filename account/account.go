// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - player identities
//
// An address is derived from a secp256k1 public key in the same way
// as an Ethereum address: the last twenty bytes of the Keccak-256
// digest of the uncompressed point without its leading tag byte.
package account

import (
	"encoding/hex"
	"regexp"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"

	"github.com/nekoyume/nekoyume/fault"
)

// sizes of the various encodings
const (
	AddressLength             = 42 // "0x" + 40 hex digits
	CompressedPublicKeyLength = 33
	PrivateKeyLength          = 32
	MinimumSignatureLength    = 68
	MaximumSignatureLength    = 71
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// PublicKey - a parsed secp256k1 point
type PublicKey struct {
	key *secp256k1.PublicKey
}

// ParsePublicKey - decode a compressed (or uncompressed) public key
func ParsePublicKey(b []byte) (*PublicKey, error) {
	if CompressedPublicKeyLength != len(b) {
		return nil, fault.ErrInvalidPublicKey
	}
	key, err := secp256k1.ParsePubKey(b)
	if nil != err {
		return nil, fault.ErrInvalidPublicKey
	}
	return &PublicKey{key: key}, nil
}

// Compressed - the 33 byte form stored in moves
func (pub *PublicKey) Compressed() []byte {
	return pub.key.SerializeCompressed()
}

// Address - derive the address of this key
func (pub *PublicKey) Address() string {
	uncompressed := pub.key.SerializeUncompressed()
	h := sha3.NewLegacyKeccak256()
	h.Write(uncompressed[1:])
	digest := h.Sum(nil)
	return "0x" + hex.EncodeToString(digest[len(digest)-20:])
}

// String - hex of the compressed form
func (pub *PublicKey) String() string {
	return hex.EncodeToString(pub.Compressed())
}

// ValidAddress - check the textual format of an address
func ValidAddress(address string) bool {
	return AddressLength == len(address) && addressPattern.MatchString(address)
}
