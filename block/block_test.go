// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekoyume/nekoyume/account"
	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/difficulty"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/hashcash"
	"github.com/nekoyume/nekoyume/move"
)

// chain held in memory
type memoryStore struct {
	blocks    []*block.Block
	commitErr error
}

func (s *memoryStore) Block(id uint64) (*block.Block, error) {
	if 0 == id || id > uint64(len(s.blocks)) {
		return nil, nil
	}
	return s.blocks[id-1], nil
}

func (s *memoryStore) LastBlock() (*block.Block, error) {
	if 0 == len(s.blocks) {
		return nil, nil
	}
	return s.blocks[len(s.blocks)-1], nil
}

func (s *memoryStore) Commit(b *block.Block) error {
	if nil != s.commitErr {
		return s.commitErr
	}
	if b.ID != uint64(len(s.blocks))+1 {
		return fault.ErrBlockExists
	}
	s.blocks = append(s.blocks, b)
	return nil
}

// clock advancing by a fixed step on each call
type clock struct {
	now  time.Time
	step time.Duration
}

func (c *clock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func newClock(step time.Duration) *clock {
	return &clock{
		now:  time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC),
		step: step,
	}
}

func testKey(t *testing.T) *account.PrivateKey {
	key, err := account.PrivateKeyFromHex("0x0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err, "key")
	return key
}

func signedMoves(t *testing.T, key *account.PrivateKey, n int) []*move.Move {
	moves := make([]*move.Move, 0, n)
	for i := 0; i < n; i += 1 {
		m := move.New(move.Say, move.NewDetails(map[string]string{
			"content": strings.Repeat("x", i+1),
		}))
		require.NoError(t, m.Sign(key), "sign")
		moves = append(moves, m)
	}
	return moves
}

func TestGenesisAndSecondBlock(t *testing.T) {
	key := testKey(t)
	store := &memoryStore{}
	c := newClock(time.Second)
	options := block.CreateOptions{Commit: true, Now: c.Now}

	genesis, err := block.Create(store, key.Address(), nil, options)
	require.NoError(t, err, "genesis")
	require.NotNil(t, genesis, "genesis block")

	assert.Equal(t, uint64(1), genesis.ID, "genesis id")
	assert.Equal(t, uint64(0), genesis.Difficulty, "genesis difficulty")
	assert.Equal(t, "", genesis.PrevHash, "genesis prev hash")
	assert.True(t, genesis.IsValid(store), "genesis valid")

	second, err := block.Create(store, key.Address(), nil, options)
	require.NoError(t, err, "second")
	require.NotNil(t, second, "second block")

	assert.Equal(t, uint64(2), second.ID, "second id")
	assert.Equal(t, uint64(1), second.Difficulty, "fast block raises difficulty")
	assert.Equal(t, genesis.Hash, second.PrevHash, "linkage")
	assert.True(t, second.IsValid(store), "second valid")
	assert.Equal(t, 2, len(store.blocks), "committed")
}

func TestRoundTrip(t *testing.T) {
	key := testKey(t)
	store := &memoryStore{}
	c := newClock(10 * time.Second)
	options := block.CreateOptions{Commit: true, Now: c.Now}

	_, err := block.Create(store, key.Address(), nil, options)
	require.NoError(t, err, "genesis")

	b, err := block.Create(store, key.Address(), signedMoves(t, key, 3), options)
	require.NoError(t, err, "create")
	require.NotNil(t, b, "block")
	for _, m := range b.Moves {
		assert.Equal(t, b.ID, m.BlockID, "move attached")
	}

	w := b.Wire(block.Full)
	w.SentNode = "http://example.com"
	buffer, err := json.Marshal(w)
	require.NoError(t, err, "marshal")

	d, sentNode, err := block.Deserialize(buffer)
	require.NoError(t, err, "deserialize")

	assert.Equal(t, "http://example.com", sentNode, "sent node")
	assert.Equal(t, b.Hash, d.Hash, "hash")
	assert.Equal(t, b.RootHash, d.RootHash, "root hash")
	assert.Equal(t, b.MoveIDs(), d.MoveIDs(), "move ids")
	assert.True(t, d.IsValid(store), "valid after round trip")

	original, err := b.Serialize(block.Full)
	require.NoError(t, err, "serialize original")
	copied, err := d.Serialize(block.Full)
	require.NoError(t, err, "serialize copy")
	assert.Equal(t, original, copied, "canonical bytes")
}

func TestGenesisWireHasNullPrevHash(t *testing.T) {
	key := testKey(t)
	store := &memoryStore{}
	genesis, err := block.Create(store, key.Address(), nil, block.CreateOptions{})
	require.NoError(t, err, "genesis")

	buffer, err := json.Marshal(genesis.Wire(block.Full))
	require.NoError(t, err, "marshal")
	assert.Contains(t, string(buffer), `"prev_hash":null`, "null prev hash")
}

func TestPackRoundTrip(t *testing.T) {
	key := testKey(t)
	store := &memoryStore{}
	b, err := block.Create(store, key.Address(), nil, block.CreateOptions{})
	require.NoError(t, err, "create")

	buffer, err := b.Pack()
	require.NoError(t, err, "pack")
	u, err := block.Unpack(buffer)
	require.NoError(t, err, "unpack")

	assert.Equal(t, b.Hash, u.Hash, "hash")
	assert.Equal(t, b.Suffix, u.Suffix, "suffix")
	assert.True(t, b.CreatedAt.Equal(u.CreatedAt), "created at")
	assert.True(t, u.IsValid(store), "valid")
}

func TestInvalidBlocks(t *testing.T) {
	key := testKey(t)
	store := &memoryStore{}
	c := newClock(10 * time.Second)
	options := block.CreateOptions{Commit: true, Now: c.Now}

	_, err := block.Create(store, key.Address(), nil, options)
	require.NoError(t, err, "genesis")

	tests := []struct {
		name   string
		tamper func(b *block.Block)
		cause  error
	}{
		{"hash", func(b *block.Block) { b.Hash = strings.Repeat("0", 64) }, fault.ErrHashMismatch},
		{"version", func(b *block.Block) { b.Version = 1 }, fault.ErrUnsupportedVersion},
		{"creator", func(b *block.Block) { b.Creator = "nobody" }, fault.ErrInvalidAddress},
		{"prev hash", func(b *block.Block) { b.PrevHash = strings.Repeat("1", 64); rehash(t, b) }, fault.ErrLinkageMismatch},
		{"difficulty", func(b *block.Block) { b.Difficulty = 0; rehash(t, b) }, fault.ErrDifficultyMismatch},
		{"root hash", func(b *block.Block) { b.RootHash = strings.Repeat("2", 64); rehash(t, b) }, fault.ErrRootHashMismatch},
		{"missing previous", func(b *block.Block) { b.ID = 7; rehash(t, b) }, fault.ErrPreviousBlockMissing},
		{"move", func(b *block.Block) { b.Moves[0].Tax = 99 }, fault.ErrInvalidMove},
		{"duplicate move", func(b *block.Block) {
			b.Moves = append(b.Moves, b.Moves[0])
			b.RootHash = block.RootHash(b.Moves)
			rehash(t, b)
		}, fault.ErrDuplicateMove},
	}

	for _, item := range tests {
		b, err := block.Create(store, key.Address(), signedMoves(t, key, 2), block.CreateOptions{Now: c.Now})
		require.NoError(t, err, "%s: create", item.name)
		require.True(t, b.IsValid(store), "%s: valid before tamper", item.name)

		item.tamper(b)
		err = b.Valid(store)
		assert.ErrorIs(t, err, fault.ErrInvalidBlock, "%s: class", item.name)
		assert.ErrorIs(t, err, item.cause, "%s: cause", item.name)
		assert.False(t, b.IsValid(store), "%s: boolean form", item.name)
	}
}

// re-seal after changing header fields so only the targeted check fails
func rehash(t *testing.T, b *block.Block) {
	challenge, err := b.Challenge()
	require.NoError(t, err, "challenge")
	b.Suffix = hashcash.Mint(challenge, b.Difficulty)
	b.Hash, err = b.ComputeHash()
	require.NoError(t, err, "hash")
}

func TestProofOfWorkFailure(t *testing.T) {
	key := testKey(t)
	store := &memoryStore{}
	c := newClock(time.Second)
	options := block.CreateOptions{Commit: true, Now: c.Now}

	_, err := block.Create(store, key.Address(), nil, options)
	require.NoError(t, err, "genesis")
	b, err := block.Create(store, key.Address(), nil, block.CreateOptions{Now: c.Now})
	require.NoError(t, err, "second")
	require.Equal(t, uint64(1), b.Difficulty, "difficulty")

	// find a suffix whose hash has a leading one bit
	for counter := 0; ; counter += 1 {
		b.Suffix = []byte{0xff, byte(counter)}
		b.Hash, err = b.ComputeHash()
		require.NoError(t, err, "hash")
		if b.Hash[0] >= '8' {
			break
		}
	}
	assert.ErrorIs(t, b.Valid(store), fault.ErrProofOfWork, "proof of work")
}

func TestSizeLimit(t *testing.T) {
	key := testKey(t)
	store := &memoryStore{}
	_, err := block.Create(store, key.Address(), signedMoves(t, key, 40), block.CreateOptions{})
	assert.ErrorIs(t, err, fault.ErrBlockTooLarge, "too large")
	assert.Equal(t, 0, len(store.blocks), "nothing committed")
}

func TestCreateSealsRepeatedMoveOnce(t *testing.T) {
	key := testKey(t)
	store := &memoryStore{}
	moves := signedMoves(t, key, 1)

	b, err := block.Create(store, key.Address(), []*move.Move{moves[0], moves[0]}, block.CreateOptions{Commit: true})
	require.NoError(t, err, "create")
	require.NotNil(t, b, "block")
	assert.Equal(t, []string{moves[0].ID}, b.MoveIDs(), "sealed once")
	assert.Equal(t, block.RootHash(moves), b.RootHash, "root hash of distinct moves")
	assert.True(t, b.IsValid(store), "valid")
}

func TestFits(t *testing.T) {
	key := testKey(t)
	small := signedMoves(t, key, 1)[0]
	assert.NoError(t, block.Fits(small), "small move")

	large := move.New(move.Say, move.NewDetails(map[string]string{
		"content": strings.Repeat("x", block.SizeLimit),
	}))
	require.NoError(t, large.Sign(key), "sign")
	require.NoError(t, large.Valid(), "large move is well formed")
	assert.ErrorIs(t, block.Fits(large), fault.ErrMoveTooLarge, "large move")

	store := &memoryStore{}
	_, err := block.Create(store, key.Address(), []*move.Move{large}, block.CreateOptions{})
	assert.ErrorIs(t, err, fault.ErrBlockTooLarge, "cannot be sealed")
}

func TestCreateRejectsInvalidMove(t *testing.T) {
	key := testKey(t)
	store := &memoryStore{}
	moves := signedMoves(t, key, 1)
	moves[0].Details.Set("content", "changed")

	b, err := block.Create(store, key.Address(), moves, block.CreateOptions{Commit: true})
	assert.Nil(t, b, "no block")
	assert.ErrorIs(t, err, fault.ErrInvalidMove, "invalid move")
}

func TestCreateLosesRace(t *testing.T) {
	key := testKey(t)
	for _, commitErr := range []error{fault.ErrBlockExists, fault.ErrChainConflict} {
		store := &memoryStore{commitErr: commitErr}
		b, err := block.Create(store, key.Address(), nil, block.CreateOptions{Commit: true})
		assert.NoError(t, err, "benign race: %s", commitErr)
		assert.Nil(t, b, "no block: %s", commitErr)
	}
}

func TestCreateShutdown(t *testing.T) {
	key := testKey(t)
	now := time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)

	// a tip far too hard to mine in one batch
	store := &memoryStore{
		blocks: []*block.Block{{ID: 1, Hash: strings.Repeat("a", 64), Difficulty: 40, CreatedAt: now}},
	}
	shutdown := make(chan struct{})
	close(shutdown)
	options := block.CreateOptions{
		Commit:      true,
		MiningDelay: time.Millisecond,
		Now:         func() time.Time { return now },
		Shutdown:    shutdown,
	}

	b, err := block.Create(store, key.Address(), nil, options)
	assert.NoError(t, err, "shutdown is not an error")
	assert.Nil(t, b, "no block")
	assert.Equal(t, 1, len(store.blocks), "nothing committed")
}

func TestChainLinkageAndDifficulty(t *testing.T) {
	key := testKey(t)
	store := &memoryStore{}
	now := time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)

	// fast, slow and steady stretches
	steps := []time.Duration{
		time.Second, time.Second, time.Second, time.Second,
		40 * time.Second, 40 * time.Second, 40 * time.Second,
		10 * time.Second, 10 * time.Second, 10 * time.Second,
		time.Second, 60 * time.Second, 10 * time.Second,
		30 * time.Second, 30 * time.Second, 30 * time.Second,
		30 * time.Second, 30 * time.Second, 30 * time.Second,
	}
	clock := func() time.Time { return now }

	_, err := block.Create(store, key.Address(), nil, block.CreateOptions{Commit: true, Now: clock})
	require.NoError(t, err, "genesis")
	for i, step := range steps {
		now = now.Add(step)
		b, err := block.Create(store, key.Address(), nil, block.CreateOptions{Commit: true, Now: clock})
		require.NoError(t, err, "%d: create", i)
		require.NotNil(t, b, "%d: block", i)
	}

	for i := 1; i < len(store.blocks); i += 1 {
		previous := store.blocks[i-1]
		current := store.blocks[i]
		assert.Equal(t, previous.Hash, current.PrevHash, "%d: linkage", current.ID)

		start := store.blocks[difficulty.WindowStart(current.ID)-1]
		average := difficulty.Average(start.ID, start.CreatedAt, current.ID, current.CreatedAt)
		assert.Equal(t, difficulty.Adjust(previous.Difficulty, average), current.Difficulty, "%d: rule", current.ID)

		delta := int64(current.Difficulty) - int64(previous.Difficulty)
		assert.True(t, delta >= -1 && delta <= 1, "%d: step %d", current.ID, delta)
		assert.True(t, current.Difficulty >= difficulty.Minimum, "%d: floor", current.ID)
		assert.True(t, current.IsValid(store), "%d: valid", current.ID)
	}
}
