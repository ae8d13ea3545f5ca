// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekoyume/nekoyume/account"
)

// well known addresses for private keys 1 and 2
var addressTests = []struct {
	privateKey string
	address    string
}{
	{
		privateKey: "0000000000000000000000000000000000000000000000000000000000000001",
		address:    "0x7e5f4552091a69125d5dfcb7b8c2659029395bdf",
	},
	{
		privateKey: "0x0000000000000000000000000000000000000000000000000000000000000002",
		address:    "0x2b5ad5c4795c026514f8317c7a215e218dccd6cf",
	},
}

func TestAddress(t *testing.T) {
	for i, item := range addressTests {
		priv, err := account.PrivateKeyFromHex(item.privateKey)
		require.NoError(t, err, "%d: decode", i)

		assert.Equal(t, item.address, priv.Address(), "%d: address", i)
		assert.Equal(t, item.address, priv.PublicKey().Address(), "%d: stable address", i)
		assert.True(t, account.ValidAddress(priv.Address()), "%d: valid format", i)
		assert.Equal(t, account.CompressedPublicKeyLength, len(priv.PublicKey().Compressed()), "%d: compressed length", i)
	}
}

func TestValidAddress(t *testing.T) {
	tests := []struct {
		address string
		valid   bool
	}{
		{"0x7e5f4552091a69125d5dfcb7b8c2659029395bdf", true},
		{"0x7E5F4552091A69125D5DFCB7B8C2659029395BDF", false},
		{"7e5f4552091a69125d5dfcb7b8c2659029395bdf", false},
		{"0x7e5f4552091a69125d5dfcb7b8c2659029395bd", false},
		{"0x7e5f4552091a69125d5dfcb7b8c2659029395bdf0", false},
		{"0x7e5f4552091a69125d5dfcb7b8c2659029395bdg", false},
		{"", false},
	}
	for i, item := range tests {
		assert.Equal(t, item.valid, account.ValidAddress(item.address), "%d: %q", i, item.address)
	}
}

func TestSignVerify(t *testing.T) {
	for i := 0; i < 20; i += 1 {
		priv, err := account.GenerateKey()
		require.NoError(t, err, "generate")

		message := []byte(strings.Repeat("neko", i+1))
		signature := priv.Sign(message)

		assert.True(t, priv.PublicKey().Verify(message, signature), "%d: verify", i)
		assert.Equal(t, signature, priv.Sign(message), "%d: deterministic", i)

		tampered := append([]byte{}, message...)
		tampered[0] ^= 0x01
		assert.False(t, priv.PublicKey().Verify(tampered, signature), "%d: tampered message", i)

		other, err := account.GenerateKey()
		require.NoError(t, err, "generate other")
		assert.False(t, other.PublicKey().Verify(message, signature), "%d: wrong key", i)

		bad := append(account.Signature{}, signature...)
		bad[len(bad)-1] ^= 0x01
		assert.False(t, priv.PublicKey().Verify(message, bad), "%d: tampered signature", i)
	}
}

func TestParsePublicKey(t *testing.T) {
	priv, err := account.GenerateKey()
	require.NoError(t, err, "generate")

	pub, err := account.ParsePublicKey(priv.PublicKey().Compressed())
	require.NoError(t, err, "parse")
	assert.Equal(t, priv.Address(), pub.Address(), "address after parse")

	_, err = account.ParsePublicKey([]byte{0x02, 0x01})
	assert.Error(t, err, "short key")
}

func TestKeyFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "player.key")

	priv, err := account.GenerateKey()
	require.NoError(t, err, "generate")
	require.NoError(t, account.SaveKeyFile(filename, priv), "save")

	loaded, err := account.LoadKeyFile(filename)
	require.NoError(t, err, "load")
	assert.True(t, bytes.Equal(priv.Bytes(), loaded.Bytes()), "same key")
}
