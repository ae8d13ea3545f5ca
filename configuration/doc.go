// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse the Lua configuration file of a node
//
// most of base Lua is available such as reading files to set key data
// and getenv to extract environment supplied items.  The file must
// return a single table, for example:
//
//	local M = {}
//	M.data_directory = "."
//	M.public_url = "http://127.0.0.1:4000"
//	M.client_rpc = { listen = { "127.0.0.1:4000" } }
//	M.peering = { nodes = { "http://127.0.0.1:4001" } }
//	M.mining = { enabled = true, key_file = "miner.key" }
//	return M
package configuration
