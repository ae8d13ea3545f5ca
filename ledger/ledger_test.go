// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/move"
	"github.com/nekoyume/nekoyume/testing/fixture"
)

func TestMain(m *testing.M) {
	fixture.Run(m, "ledger")
}

func TestEmpty(t *testing.T) {
	l := fixture.Ledger(t)

	last, err := l.LastBlock()
	assert.NoError(t, err, "last block")
	assert.Nil(t, last, "no tip")
	assert.Equal(t, uint64(0), l.Height(), "height")

	b, err := l.Block(1)
	assert.NoError(t, err, "block")
	assert.Nil(t, b, "no block")

	m, err := l.Move("missing")
	assert.NoError(t, err, "move")
	assert.Nil(t, m, "no move")
}

func TestCommitAndRead(t *testing.T) {
	l := fixture.Ledger(t)
	key := fixture.Key(t, 1)
	clock := fixture.NewClock(10 * time.Second)

	blocks := fixture.Chain(t, l, key, clock, 3, "hello")
	assert.Equal(t, uint64(3), l.Height(), "height")

	for _, b := range blocks {
		stored, err := l.Block(b.ID)
		require.NoError(t, err, "read %d", b.ID)
		require.NotNil(t, stored, "block %d", b.ID)
		assert.Equal(t, b.Hash, stored.Hash, "hash %d", b.ID)
		assert.Equal(t, b.MoveIDs(), stored.MoveIDs(), "moves %d", b.ID)
		assert.True(t, stored.IsValid(l), "valid %d", b.ID)

		byHash, err := l.BlockByHash(b.Hash)
		require.NoError(t, err, "by hash %d", b.ID)
		assert.Equal(t, b.ID, byHash.ID, "hash index %d", b.ID)
	}

	page, err := l.Blocks(2, 10)
	require.NoError(t, err, "range")
	require.Equal(t, 2, len(page), "page length")
	assert.Equal(t, uint64(2), page[0].ID, "first")
	assert.Equal(t, uint64(3), page[1].ID, "second")

	last, err := l.LastBlock()
	require.NoError(t, err, "last")
	assert.Equal(t, blocks[2].Hash, last.Hash, "tip")

	n, err := l.BlocksCreatedBy(key.Address(), 2)
	require.NoError(t, err, "created by")
	assert.Equal(t, uint64(2), n, "blocks created up to 2")
}

func TestUnconfirmedLifecycle(t *testing.T) {
	l := fixture.Ledger(t)
	key := fixture.Key(t, 1)
	clock := fixture.NewClock(10 * time.Second)

	m := fixture.Move(t, key, move.Say, "content", "pending")
	require.NoError(t, l.AddMove(m), "add")
	assert.ErrorIs(t, l.AddMove(m), fault.ErrMoveExists, "duplicate")

	pending, err := l.Unconfirmed(0)
	require.NoError(t, err, "unconfirmed")
	require.Equal(t, 1, len(pending), "one pending")
	assert.False(t, pending[0].Confirmed(), "not confirmed")

	b := fixture.Mine(t, l, key, clock, pending...)

	pending, err = l.Unconfirmed(0)
	require.NoError(t, err, "unconfirmed after mining")
	assert.Equal(t, 0, len(pending), "nothing pending")

	stored, err := l.Move(m.ID)
	require.NoError(t, err, "move")
	assert.Equal(t, b.ID, stored.BlockID, "confirmed in block")
}

func TestDuplicateBlock(t *testing.T) {
	l := fixture.Ledger(t)
	key := fixture.Key(t, 1)
	clock := fixture.NewClock(10 * time.Second)

	b := fixture.Mine(t, l, key, clock)
	assert.ErrorIs(t, l.Commit(b), fault.ErrBlockExists, "same id twice")
}

func TestRepeatedMoveInBlock(t *testing.T) {
	l := fixture.Ledger(t)
	key := fixture.Key(t, 1)
	clock := fixture.NewClock(10 * time.Second)

	m := fixture.Move(t, key, move.Say, "content", "twice")
	b, err := block.Create(l, key.Address(), []*move.Move{m}, block.CreateOptions{Now: clock.Now})
	require.NoError(t, err, "create")
	b.Moves = append(b.Moves, b.Moves[0])
	b.RootHash = block.RootHash(b.Moves)

	assert.ErrorIs(t, l.Commit(b), fault.ErrDuplicateMove, "refused")
	assert.Equal(t, uint64(0), l.Height(), "nothing stored")
}

func TestMoveInTwoBlocks(t *testing.T) {
	l := fixture.Ledger(t)
	key := fixture.Key(t, 1)
	clock := fixture.NewClock(10 * time.Second)

	m := fixture.Move(t, key, move.Say, "content", "once")
	fixture.Mine(t, l, key, clock, m)

	b, err := block.Create(l, key.Address(), []*move.Move{m}, block.CreateOptions{Commit: true, Now: clock.Now})
	assert.ErrorIs(t, err, fault.ErrMoveExists, "already confirmed")
	assert.Nil(t, b, "no block")
	assert.Equal(t, uint64(1), l.Height(), "height unchanged")
}

func TestTruncateDetachesMoves(t *testing.T) {
	l := fixture.Ledger(t)
	key := fixture.Key(t, 1)
	clock := fixture.NewClock(10 * time.Second)

	blocks := fixture.Chain(t, l, key, clock, 4, "reorg")

	cut := uint64(0)
	l.OnReorg(func(height uint64) { cut = height })

	detached, err := l.Truncate(2)
	require.NoError(t, err, "truncate")
	assert.Equal(t, 2, len(detached), "two moves detached")
	assert.Equal(t, uint64(2), cut, "observer told")
	assert.Equal(t, uint64(2), l.Height(), "height")

	for _, b := range blocks[2:] {
		gone, err := l.Block(b.ID)
		assert.NoError(t, err, "read %d", b.ID)
		assert.Nil(t, gone, "block %d deleted", b.ID)

		byHash, err := l.BlockByHash(b.Hash)
		assert.NoError(t, err, "hash %d", b.ID)
		assert.Nil(t, byHash, "hash index %d deleted", b.ID)

		for _, id := range b.MoveIDs() {
			m, err := l.Move(id)
			require.NoError(t, err, "move %s", id)
			require.NotNil(t, m, "move %s kept", id)
			assert.False(t, m.Confirmed(), "move %s unconfirmed", id)
		}
	}

	pending, err := l.Unconfirmed(0)
	require.NoError(t, err, "unconfirmed")
	assert.Equal(t, 2, len(pending), "pending again")

	n, err := l.BlocksCreatedBy(key.Address(), 10)
	require.NoError(t, err, "created by")
	assert.Equal(t, uint64(2), n, "creator index trimmed")

	moves, err := l.MovesFor(key.Address(), 1, 10)
	require.NoError(t, err, "moves for")
	assert.Equal(t, 2, len(moves), "address index trimmed")

	// detached moves can be mined again
	b := fixture.Mine(t, l, key, clock, pending...)
	assert.Equal(t, uint64(3), b.ID, "re-included")
}

func TestCommitConflict(t *testing.T) {
	l := fixture.Ledger(t)
	key := fixture.Key(t, 1)
	clock := fixture.NewClock(10 * time.Second)

	fixture.Mine(t, l, key, clock)
	first, err := block.Create(l, key.Address(), nil, block.CreateOptions{Now: clock.Now})
	require.NoError(t, err, "first")
	second, err := block.Create(l, key.Address(), nil, block.CreateOptions{Now: clock.Now})
	require.NoError(t, err, "second")

	tx1, err := l.Begin()
	require.NoError(t, err, "begin 1")
	tx2, err := l.Begin()
	require.NoError(t, err, "begin 2")

	require.NoError(t, tx1.PutBlock(first), "put 1")
	require.NoError(t, tx2.PutBlock(second), "put 2")

	assert.NoError(t, tx1.Commit(), "commit 1")
	assert.ErrorIs(t, tx2.Commit(), fault.ErrChainConflict, "commit 2")

	last, err := l.LastBlock()
	require.NoError(t, err, "last")
	assert.Equal(t, first.Hash, last.Hash, "first writer wins")
}

func TestTransactionSeesOwnDeletes(t *testing.T) {
	l := fixture.Ledger(t)
	key := fixture.Key(t, 1)
	clock := fixture.NewClock(10 * time.Second)

	fixture.Chain(t, l, key, clock, 3, "tx")

	tx, err := l.Begin()
	require.NoError(t, err, "begin")
	defer tx.Abort()

	_, err = tx.DeleteAbove(1)
	require.NoError(t, err, "delete")
	assert.Equal(t, uint64(1), tx.Height(), "transaction height")
	assert.Equal(t, uint64(3), l.Height(), "committed height")

	b, err := tx.Block(2)
	assert.NoError(t, err, "read")
	assert.Nil(t, b, "deleted in transaction")
}

func TestMovesForAndCreation(t *testing.T) {
	l := fixture.Ledger(t)
	alice := fixture.Key(t, 1)
	bob := fixture.Key(t, 2)
	clock := fixture.NewClock(10 * time.Second)

	first := fixture.Move(t, alice, move.CreateNovice, "name", "alice")
	fixture.Mine(t, l, alice, clock, first)

	toBob := fixture.Move(t, alice, move.Send, "item", "gold", "amount", "1", "receiver", bob.Address())
	say := fixture.Move(t, alice, move.Say, "content", "hi")
	fixture.Mine(t, l, alice, clock, toBob, say)

	second := fixture.Move(t, alice, move.CreateNovice, "name", "alice2")
	fixture.Mine(t, l, alice, clock, second)

	creation, err := l.CreationMove(alice.Address(), 2)
	require.NoError(t, err, "creation at 2")
	assert.Equal(t, first.ID, creation.ID, "first creation")

	creation, err = l.CreationMove(alice.Address(), 3)
	require.NoError(t, err, "creation at 3")
	assert.Equal(t, second.ID, creation.ID, "latest creation")

	creation, err = l.CreationMove(bob.Address(), 3)
	assert.NoError(t, err, "no creation")
	assert.Nil(t, creation, "bob has none")

	moves, err := l.MovesFor(alice.Address(), 2, 2)
	require.NoError(t, err, "alice moves")
	ids := []string{toBob.ID, say.ID}
	sort.Strings(ids)
	require.Equal(t, 2, len(moves), "two moves")
	assert.Equal(t, ids[0], moves[0].ID, "ordered by id")
	assert.Equal(t, ids[1], moves[1].ID, "ordered by id")

	moves, err = l.MovesFor(bob.Address(), 1, 3)
	require.NoError(t, err, "bob moves")
	require.Equal(t, 1, len(moves), "received")
	assert.Equal(t, toBob.ID, moves[0].ID, "transfer")
}
