// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekoyume/nekoyume/configuration"
)

const sample = `
local M = {}

M.data_directory = "."
M.public_url = "http://127.0.0.1:4000/"

M.client_rpc = {
    listen = { "127.0.0.1:4000" },
    maximum_connections = 50,
    bandwidth = 10,
}

M.peering = {
    nodes = { "http://127.0.0.1:4001" },
    peer_file = "peers.txt",
    fanout = 3,
}

M.sync = {
    interval = 30,
}

M.mining = {
    enabled = true,
    interval = 5,
    delay = 2,
}

M.logging = {
    console = true,
    levels = {
        DEFAULT = "info",
        mine = "debug",
    },
}

return M
`

func writeFile(t *testing.T, content string) string {
	fileName := filepath.Join(t.TempDir(), "nekoyumed.conf")
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0600), "write")
	return fileName
}

func TestGet(t *testing.T) {
	fileName := writeFile(t, sample)
	dir := filepath.Dir(fileName)

	c, err := configuration.Get(fileName)
	require.NoError(t, err, "get")

	assert.Equal(t, filepath.Clean(dir), filepath.Clean(c.DataDirectory), "data directory")
	assert.Equal(t, "http://127.0.0.1:4000", c.PublicURL, "public url")

	assert.Equal(t, []string{"127.0.0.1:4000"}, c.ClientRPC.Listen, "listen")
	assert.Equal(t, 50, c.ClientRPC.MaximumConnections, "connections")
	assert.Equal(t, 10.0, c.ClientRPC.Bandwidth, "bandwidth")

	assert.Equal(t, []string{"http://127.0.0.1:4001"}, c.Peering.Nodes, "nodes")
	assert.Equal(t, filepath.Join(dir, "peers.txt"), c.Peering.PeerFile, "peer file")
	assert.Equal(t, 3, c.Peering.Fanout, "fanout")

	assert.Equal(t, 30*time.Second, c.SyncInterval(), "sync interval")
	assert.Equal(t, 3*time.Second, c.PeerTimeout(), "default timeout")

	assert.True(t, c.Mining.Enabled, "mining")
	assert.Equal(t, filepath.Join(dir, "miner.key"), c.Mining.KeyFile, "key file")
	options := c.MiningOptions()
	assert.Equal(t, 5*time.Second, options.Interval, "mining interval")
	assert.Equal(t, 2*time.Millisecond, options.Delay, "mining delay")
	assert.Equal(t, 20, options.MaximumMoves, "default maximum moves")

	assert.Equal(t, filepath.Join(dir, "data", "nekoyume.leveldb"), c.DatabasePath(), "database")
	assert.DirExists(t, filepath.Join(dir, "data"), "database directory")
	assert.DirExists(t, filepath.Join(dir, "log"), "log directory")

	l := c.Logger()
	assert.True(t, l.Console, "console")
	assert.Equal(t, "nekoyumed.log", l.File, "log file")
	assert.Equal(t, "debug", l.Levels["mine"], "mine level")
}

func TestScriptGlobals(t *testing.T) {
	fileName := writeFile(t, `
local M = {}
M.data_directory = config_directory
M.pidfile = arg[0]:match("([^/]*)$") .. ".pid"
return M
`)
	c, err := configuration.Get(fileName)
	require.NoError(t, err, "get")
	assert.Equal(t, filepath.Dir(fileName), c.DataDirectory, "config directory")
	assert.Equal(t, filepath.Join(filepath.Dir(fileName), "nekoyumed.conf.pid"), c.PidFile, "arg[0]")
}

func TestGetRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no data directory", `return { public_url = "http://127.0.0.1:4000" }`},
		{"not a table", `return 42`},
		{"syntax", `return {`},
		{"path as database name", `return { data_directory = ".", database = { name = "a/b" } }`},
		{"bad public url", `return { data_directory = ".", public_url = "ftp://x" }`},
		{"missing data directory", `return { data_directory = "no-such-dir" }`},
		{"closed library", `local f = io.open(arg[0]) return { data_directory = "." }`},
	}
	for _, item := range tests {
		_, err := configuration.Get(writeFile(t, item.content))
		assert.Error(t, err, item.name)
	}
}
