// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hashcash - generalised hashcash proof of work
//
// A suffix is searched for such that sha256(challenge || suffix) has
// at least a given number of leading zero bits.  The search walks an
// increasing counter so the result depends only on the inputs.
package hashcash

import (
	"bytes"
	"crypto/sha256"
	"math/bits"
	"time"
)

// number of attempts between checks of the shutdown channel and delay
const batchSize = 4096

// Mint - find the first counter suffix satisfying the difficulty
func Mint(challenge []byte, difficulty uint64) []byte {
	suffix, _ := MintWithDelay(challenge, difficulty, 0, nil)
	return suffix
}

// MintWithDelay - as Mint but sleeping between batches of attempts
//
// returns false if shutdown was closed before a suffix was found
func MintWithDelay(challenge []byte, difficulty uint64, delay time.Duration, shutdown <-chan struct{}) ([]byte, bool) {

	buffer := make([]byte, len(challenge), len(challenge)+8)
	copy(buffer, challenge)

	for counter := uint64(0); ; counter += 1 {
		if 0 == counter%batchSize && 0 != counter {
			select {
			case <-shutdown:
				return nil, false
			default:
			}
			if delay > 0 {
				time.Sleep(delay)
			}
		}

		answer := encodeCounter(counter)
		digest := sha256.Sum256(append(buffer, answer...))
		if HasLeadingZeroBits(digest[:], difficulty) {
			return answer, true
		}
	}
}

// Check - verify that stamp ends with suffix and has enough zero bits
//
// a difficulty of zero always passes
func Check(stamp []byte, suffix []byte, difficulty uint64) bool {
	if 0 == difficulty {
		return true
	}
	if nil != suffix && !bytes.HasSuffix(stamp, suffix) {
		return false
	}
	digest := sha256.Sum256(stamp)
	return HasLeadingZeroBits(digest[:], difficulty)
}

// HasLeadingZeroBits - count leading zero bits of a digest
func HasLeadingZeroBits(digest []byte, n uint64) bool {
	leadingBytes := n / 8
	trailingBits := n % 8

	if uint64(len(digest)) < leadingBytes {
		return false
	}
	for _, b := range digest[:leadingBytes] {
		if 0 != b {
			return false
		}
	}
	if 0 == trailingBits {
		return true
	}
	if uint64(len(digest)) == leadingBytes {
		return false
	}
	mask := byte(0xff << (8 - trailingBits))
	return 0 == digest[leadingBytes]&mask
}

// little endian, minimal length but never empty
func encodeCounter(counter uint64) []byte {
	n := (bits.Len64(counter) + 7) / 8
	if 0 == n {
		n = 1
	}
	b := make([]byte, n)
	for i := 0; i < n; i += 1 {
		b[i] = byte(counter >> (8 * uint(i)))
	}
	return b
}
