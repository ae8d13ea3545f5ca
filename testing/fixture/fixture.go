// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixture - shared setup for package tests
package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/require"

	"github.com/nekoyume/nekoyume/account"
	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/ledger"
	"github.com/nekoyume/nekoyume/move"
	"github.com/nekoyume/nekoyume/storage"
)

// Epoch - start of every test clock
var Epoch = time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)

// Run - initialise the logger into a temporary directory, run the
// tests and exit with their status
func Run(m *testing.M, name string) {
	dir, err := os.MkdirTemp("", name+"-log")
	if nil != err {
		panic(err)
	}
	logging := logger.Configuration{
		Directory: dir,
		File:      name + ".log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	if err := logger.Initialise(logging); nil != err {
		panic(fmt.Sprintf("logger initialization failed: %s", err))
	}
	rc := m.Run()
	logger.Finalise()
	os.RemoveAll(dir)
	os.Exit(rc)
}

// Database - empty database in a temporary directory
func Database(t *testing.T) *storage.Database {
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.leveldb"), storage.ReadWrite)
	require.NoError(t, err, "open database")
	t.Cleanup(db.Close)
	return db
}

// Ledger - empty ledger in a temporary directory
func Ledger(t *testing.T) *ledger.Ledger {
	return ledger.New(Database(t))
}

// Key - deterministic private key n (n > 0)
func Key(t *testing.T, n int) *account.PrivateKey {
	key, err := account.PrivateKeyFromHex(fmt.Sprintf("%064x", n))
	require.NoError(t, err, "key %d", n)
	return key
}

// Clock - test clock advancing by Step on every call to Now
type Clock struct {
	Current time.Time
	Step    time.Duration
}

// NewClock - clock starting at Epoch
func NewClock(step time.Duration) *Clock {
	return &Clock{Current: Epoch, Step: step}
}

// Now - advance and return the time
func (c *Clock) Now() time.Time {
	c.Current = c.Current.Add(c.Step)
	return c.Current
}

// Move - signed move with the given details as alternating keys and values
func Move(t *testing.T, key *account.PrivateKey, name string, details ...string) *move.Move {
	d := move.NewDetails(nil)
	for i := 0; i+1 < len(details); i += 2 {
		d.Set(details[i], details[i+1])
	}
	m := move.New(name, d)
	require.NoError(t, m.Sign(key), "sign %s", name)
	return m
}

// Mine - commit a block of moves created by key
func Mine(t *testing.T, l *ledger.Ledger, key *account.PrivateKey, clock *Clock, moves ...*move.Move) *block.Block {
	b, err := block.Create(l, key.Address(), moves, block.CreateOptions{Commit: true, Now: clock.Now})
	require.NoError(t, err, "create block")
	require.NotNil(t, b, "block created")
	return b
}

// Chain - n blocks, each holding one say move by key
func Chain(t *testing.T, l *ledger.Ledger, key *account.PrivateKey, clock *Clock, n int, label string) []*block.Block {
	blocks := make([]*block.Block, 0, n)
	for i := 0; i < n; i += 1 {
		m := Move(t, key, move.Say, "content", fmt.Sprintf("%s %d", label, i))
		blocks = append(blocks, Mine(t, l, key, clock, m))
	}
	return blocks
}
