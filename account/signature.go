// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Signature - DER encoded ECDSA signature
type Signature []byte

// convert a binary signature to hex string for use by the fmt package (for %s)
func (signature Signature) String() string {
	return hex.EncodeToString(signature)
}

// convert a binary signature to hex string for use by the fmt package (for %#v)
func (signature Signature) GoString() string {
	return "<signature:" + hex.EncodeToString(signature) + ">"
}

// Sign - sign the sha256 digest of message
//
// signing is deterministic (RFC 6979), the same key and message
// always give the same signature
func (priv *PrivateKey) Sign(message []byte) Signature {
	digest := sha256.Sum256(message)
	return ecdsa.Sign(priv.key, digest[:]).Serialize()
}

// Verify - check a DER signature over the sha256 digest of message
func (pub *PublicKey) Verify(message []byte, signature []byte) bool {
	sig, err := ecdsa.ParseDERSignature(signature)
	if nil != err {
		return false
	}
	digest := sha256.Sum256(message)
	return sig.Verify(digest[:], pub.key)
}
