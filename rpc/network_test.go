// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekoyume/nekoyume/background"
	"github.com/nekoyume/nekoyume/broadcast"
	"github.com/nekoyume/nekoyume/consensus"
	"github.com/nekoyume/nekoyume/move"
	"github.com/nekoyume/nekoyume/peer"
	"github.com/nekoyume/nekoyume/testing/fixture"
)

// two nodes over real HTTP: a late joiner catches up by
// synchronisation, then follows by broadcast
func TestTwoNodes(t *testing.T) {
	client := peer.NewClient(2 * time.Second)
	a := newServer(t, client)
	b := newServer(t, client)

	key := fixture.Key(t, 1)
	clock := fixture.NewClock(10 * time.Second)
	blocks := fixture.Chain(t, a.ledger, key, clock, 3, "network")

	require.NoError(t, b.registry.Add(a.URL, time.Now()), "b knows a")
	require.NoError(t, a.registry.Add(b.URL, time.Now()), "a knows b")

	ok, err := consensus.New(b.ledger, b.registry, client, 10).Synchronise("")
	require.NoError(t, err, "synchronise")
	assert.True(t, ok, "synchronised")
	require.Equal(t, uint64(3), b.ledger.Height(), "b height")

	last, err := b.ledger.LastBlock()
	require.NoError(t, err, "b tip")
	assert.Equal(t, blocks[2].Hash, last.Hash, "same tip")

	// a block mined on a reaches b through the broadcaster
	bc := broadcast.New(a.registry, client, a.URL)
	running := background.Start(background.Processes{bc}, nil)
	defer running.Stop()

	next := fixture.Mine(t, a.ledger, key, clock, fixture.Move(t, key, move.Say, "content", "after sync"))
	bc.Block(next, "")

	require.Eventually(t, func() bool {
		return 4 == b.ledger.Height()
	}, 5*time.Second, 20*time.Millisecond, "block broadcast to b")

	tip, err := b.ledger.LastBlock()
	require.NoError(t, err, "b tip after broadcast")
	assert.Equal(t, next.Hash, tip.Hash, "broadcast tip")
}
