// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekoyume/nekoyume/account"
	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/game"
	"github.com/nekoyume/nekoyume/ledger"
	"github.com/nekoyume/nekoyume/move"
	"github.com/nekoyume/nekoyume/peer"
	"github.com/nekoyume/nekoyume/replay"
	"github.com/nekoyume/nekoyume/rpc"
	"github.com/nekoyume/nekoyume/testing/fixture"
)

func TestMain(m *testing.M) {
	fixture.Run(m, "neko-cli")
}

type node struct {
	url    string
	ledger *ledger.Ledger
}

func newNode(t *testing.T) node {
	db := fixture.Database(t)
	l := ledger.New(db)
	s := rpc.New(&rpc.Configuration{}, rpc.Options{
		Ledger:   l,
		Registry: peer.NewRegistry(db),
		Avatars:  replay.New(l),
		Version:  "test",
	})
	server := httptest.NewServer(s.Handler())
	t.Cleanup(server.Close)
	return node{url: server.URL, ledger: l}
}

// run the cli, returning what it printed
func run(t *testing.T, args ...string) (string, error) {
	out := &bytes.Buffer{}
	app := newApp(out, &bytes.Buffer{})
	err := app.Run(append([]string{"neko-cli"}, args...))
	return out.String(), err
}

func TestKeyAndAddress(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "neko.key")

	out, err := run(t, "--key", keyFile, "key")
	require.NoError(t, err, "key")

	reply := struct {
		KeyFile string `json:"key_file"`
		Address string `json:"address"`
	}{}
	require.NoError(t, json.Unmarshal([]byte(out), &reply), "decode")
	assert.Equal(t, keyFile, reply.KeyFile, "key file")
	assert.True(t, account.ValidAddress(reply.Address), "address")

	_, err = run(t, "--key", keyFile, "key")
	assert.True(t, errors.Is(err, fault.ErrKeyFileAlreadyExists), "no overwrite: %v", err)

	out, err = run(t, "--key", keyFile, "address")
	require.NoError(t, err, "address")
	assert.Equal(t, reply.Address, strings.TrimSpace(out), "same address")

	_, err = run(t, "--key", keyFile, "key", "--force")
	assert.NoError(t, err, "forced")
	out, err = run(t, "--key", keyFile, "address")
	require.NoError(t, err, "address")
	assert.NotEqual(t, reply.Address, strings.TrimSpace(out), "new key")
}

func TestPlay(t *testing.T) {
	n := newNode(t)

	key, err := account.GenerateKey()
	require.NoError(t, err, "generate")
	keyFile := filepath.Join(t.TempDir(), "neko.key")
	require.NoError(t, account.SaveKeyFile(keyFile, key), "save")

	global := []string{"--node", n.url, "--key", keyFile}

	_, err = run(t, append(global, "say")...)
	assert.Error(t, err, "missing content")

	out, err := run(t, append(global, "create-novice", "--name", "neko", "--strength", "12")...)
	require.NoError(t, err, "create novice")
	assert.Contains(t, out, move.CreateNovice, "reply")

	pending, err := n.ledger.Unconfirmed(0)
	require.NoError(t, err, "unconfirmed")
	require.Len(t, pending, 1, "pooled on the node")
	assert.Equal(t, key.Address(), pending[0].UserAddress, "signer")
	assert.Equal(t, "12", pending[0].Details.Value("strength"), "stat")

	// no avatar yet, so nothing to send
	receiver, err := account.GenerateKey()
	require.NoError(t, err, "receiver")
	_, err = run(t, append(global, "send", "--item", "gold", "--receiver", receiver.Address())...)
	assert.True(t, errors.Is(err, fault.ErrInsufficientItems), "send: %v", err)

	b, err := block.Create(n.ledger, receiver.Address(), pending, block.CreateOptions{Commit: true})
	require.NoError(t, err, "mine")
	require.NotNil(t, b, "block")

	out, err = run(t, append(global, "avatar")...)
	require.NoError(t, err, "avatar")
	avatar := game.Avatar{}
	require.NoError(t, json.Unmarshal([]byte(out), &avatar), "decode avatar")
	assert.True(t, strings.HasPrefix(avatar.Name, "neko#"), "name: %s", avatar.Name)
	assert.Equal(t, int64(12), avatar.Strength, "strength")

	out, err = run(t, append(global, "block", "last")...)
	require.NoError(t, err, "block")
	w := block.Wire{}
	require.NoError(t, json.Unmarshal([]byte(out), &w), "decode block")
	assert.Equal(t, uint64(1), w.ID, "id")
	assert.Equal(t, b.Hash, w.Hash, "hash")

	_, err = run(t, append(global, "block", "7")...)
	assert.Error(t, err, "missing block")
}
