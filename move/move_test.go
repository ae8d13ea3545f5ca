// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package move_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekoyume/nekoyume/account"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/move"
)

func signedMove(t *testing.T, key *account.PrivateKey) *move.Move {
	m := move.New(move.Say, move.NewDetails(map[string]string{"content": "hello"}))
	require.NoError(t, m.Sign(key), "sign")
	return m
}

func TestCanonicalEncoding(t *testing.T) {
	m := &move.Move{
		Name:        move.Say,
		Details:     move.NewDetails(map[string]string{"content": "hi"}),
		UserAddress: "0xabc",
		CreatedAt:   time.Date(2018, 5, 1, 0, 0, 0, 1000, time.UTC),
	}
	b, err := m.Serialize(false, false)
	require.NoError(t, err, "serialize")

	expected := "d10:created_at26:2018-05-01 00:00:00.000001" +
		"7:detailsd7:content2:hie4:name3:say3:taxi0e12:user_address5:0xabce"
	assert.Equal(t, expected, string(b), "canonical bencode")
}

func TestDetailsOrder(t *testing.T) {
	a := move.Details{}
	a.Set("zone", "forest")
	a.Set("amount", "3")
	a.Set("receiver", "0x00")

	b := move.Details{}
	b.Set("receiver", "0x00")
	b.Set("zone", "forest")
	b.Set("amount", "3")

	assert.Equal(t, a.Items(), b.Items(), "insertion order does not matter")
	assert.Equal(t, "amount", a.Items()[0].Key, "sorted")

	ja, err := json.Marshal(a)
	require.NoError(t, err, "json")
	assert.Equal(t, `{"amount":"3","receiver":"0x00","zone":"forest"}`, string(ja), "json order")

	a.Set("amount", "4")
	assert.Equal(t, int64(4), a.Int("amount"), "replace")
	assert.Equal(t, 3, a.Len(), "no duplicate")
}

func TestSignAndValidate(t *testing.T) {
	key, err := account.GenerateKey()
	require.NoError(t, err, "key")

	for i := 0; i < 10; i += 1 {
		m := signedMove(t, key)
		assert.NoError(t, m.Valid(), "%d: valid", i)
		assert.Equal(t, key.Address(), m.UserAddress, "%d: address", i)
		assert.Equal(t, account.CompressedPublicKeyLength, len(m.UserPublicKey), "%d: key length", i)

		h, err := m.Hash()
		require.NoError(t, err, "hash")
		assert.Equal(t, h, m.ID, "%d: id is content hash", i)
	}
}

func TestSignWithoutName(t *testing.T) {
	key, err := account.GenerateKey()
	require.NoError(t, err, "key")

	m := move.New("", move.Details{})
	assert.Equal(t, fault.ErrInvalidName, m.Sign(key), "unset name")
}

func TestTamper(t *testing.T) {
	key, err := account.GenerateKey()
	require.NoError(t, err, "key")
	other, err := account.GenerateKey()
	require.NoError(t, err, "other key")

	tamper := []struct {
		name   string
		modify func(m *move.Move)
	}{
		{"details", func(m *move.Move) { m.Details.Set("content", "hellp") }},
		{"extra detail", func(m *move.Move) { m.Details.Set("x", "y") }},
		{"signature", func(m *move.Move) { m.Signature[len(m.Signature)-1] ^= 0x01 }},
		{"address", func(m *move.Move) { m.UserAddress = other.Address() }},
		{"address case", func(m *move.Move) { m.UserAddress = "0x" + "A" + m.UserAddress[3:] }},
		{"public key", func(m *move.Move) { m.UserPublicKey = other.PublicKey().Compressed() }},
		{"id", func(m *move.Move) { m.ID = "00" + m.ID[2:] }},
		{"tax", func(m *move.Move) { m.Tax = 1 }},
		{"timestamp", func(m *move.Move) { m.CreatedAt = m.CreatedAt.Add(time.Microsecond) }},
		{"no signature", func(m *move.Move) { m.Signature = nil }},
		{"short signature", func(m *move.Move) { m.Signature = m.Signature[:60] }},
	}

	for _, item := range tamper {
		m := signedMove(t, key)
		item.modify(m)
		err := m.Valid()
		assert.Error(t, err, "tampered %s", item.name)
		assert.ErrorIs(t, err, fault.ErrInvalidMove, "tampered %s", item.name)
		assert.False(t, m.IsValid(), "tampered %s", item.name)
	}
}

func TestWireRoundTrip(t *testing.T) {
	key, err := account.GenerateKey()
	require.NoError(t, err, "key")
	m := signedMove(t, key)

	b, err := json.Marshal(m.Wire())
	require.NoError(t, err, "marshal")

	w := move.Wire{}
	require.NoError(t, json.Unmarshal(b, &w), "unmarshal")

	restored, err := w.Move(0)
	require.NoError(t, err, "restore")
	assert.Equal(t, m.ID, restored.ID, "id")
	assert.True(t, m.CreatedAt.Equal(restored.CreatedAt), "timestamp")
	assert.NoError(t, restored.Valid(), "still valid")
	assert.False(t, restored.Confirmed(), "unconfirmed")

	w.Block = json.RawMessage(`{"id": 12}`)
	restored, err = w.Move(0)
	require.NoError(t, err, "restore with block")
	assert.Equal(t, uint64(12), restored.BlockID, "block id from header")
}

func TestPackRoundTrip(t *testing.T) {
	key, err := account.GenerateKey()
	require.NoError(t, err, "key")
	m := signedMove(t, key)
	m.BlockID = 3

	b, err := m.Pack()
	require.NoError(t, err, "pack")

	restored, err := move.Unpack(b)
	require.NoError(t, err, "unpack")
	assert.Equal(t, m.ID, restored.ID, "id")
	assert.Equal(t, uint64(3), restored.BlockID, "block id")
	assert.Equal(t, m.Details.Items(), restored.Details.Items(), "details")
	assert.NoError(t, restored.Valid(), "valid after storage")
}

func TestParseTime(t *testing.T) {
	ts, err := move.ParseTime("2018-05-01 12:34:56.789012")
	require.NoError(t, err, "with fraction")
	assert.Equal(t, 789012000, ts.Nanosecond(), "fraction")

	ts, err = move.ParseTime("2018-05-01 12:34:56")
	require.NoError(t, err, "without fraction")
	assert.Equal(t, "2018-05-01 12:34:56.000000", move.FormatTime(ts), "format")

	_, err = move.ParseTime("yesterday")
	assert.Equal(t, fault.ErrInvalidTimestamp, err, "garbage")
}
