// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/nekoyume/nekoyume/fault"
)

// PrivateKey - signing key of a player
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey - create a new random private key
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if nil != err {
		return nil, err
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes - wrap 32 raw bytes as a private key
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if PrivateKeyLength != len(b) {
		return nil, fault.ErrInvalidKeyLength
	}
	return &PrivateKey{key: secp256k1.PrivKeyFromBytes(b)}, nil
}

// PrivateKeyFromHex - decode a hex private key, optional 0x prefix
func PrivateKeyFromHex(s string) (*PrivateKey, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if nil != err {
		return nil, fault.ErrInvalidKeyLength
	}
	return PrivateKeyFromBytes(b)
}

// PublicKey - the matching public key
func (priv *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: priv.key.PubKey()}
}

// Address - shortcut for PublicKey().Address()
func (priv *PrivateKey) Address() string {
	return priv.PublicKey().Address()
}

// Bytes - raw 32 byte scalar
func (priv *PrivateKey) Bytes() []byte {
	return priv.key.Serialize()
}

// Hex - text form used in key files
func (priv *PrivateKey) Hex() string {
	return hex.EncodeToString(priv.Bytes())
}

// LoadKeyFile - read a hex private key from a file
func LoadKeyFile(filename string) (*PrivateKey, error) {
	data, err := os.ReadFile(filename)
	if nil != err {
		return nil, err
	}
	return PrivateKeyFromHex(string(data))
}

// SaveKeyFile - write a private key as hex, readable only by the owner
func SaveKeyFile(filename string, priv *PrivateKey) error {
	return os.WriteFile(filename, []byte(priv.Hex()+"\n"), 0600)
}
