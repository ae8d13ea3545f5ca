// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/game"
	"github.com/nekoyume/nekoyume/move"
)

// result codes carried in replies
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// BlockReply - body of GET /blocks/last and /blocks/{id}
type BlockReply struct {
	Block *block.Wire `json:"block"`
}

// BlocksReply - body of GET /blocks
type BlocksReply struct {
	Blocks []*block.Wire `json:"blocks"`
}

// MoveReply - body of GET /moves/{id}
type MoveReply struct {
	Move *move.Wire `json:"move"`
}

// AvatarReply - body of GET /avatars/{address}
type AvatarReply struct {
	Avatar *game.Avatar `json:"avatar"`
}

// NodesReply - body of GET /nodes
type NodesReply struct {
	Nodes []string `json:"nodes"`
}

// NodeRequest - body of POST /nodes
type NodeRequest struct {
	URL      string `json:"url"`
	SentNode string `json:"sent_node,omitempty"`
}

// Result - outcome of a POST
//
// BlockID is set when a posted block was not the next block
type Result struct {
	Result  string  `json:"result"`
	Message string  `json:"message,omitempty"`
	BlockID *uint64 `json:"block_id,omitempty"`
}
