// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/game"
	"github.com/nekoyume/nekoyume/move"
	"github.com/nekoyume/nekoyume/peer"
)

// remote - a node standing in for the local pool and replay engine
type remote struct {
	client *peer.HTTPClient
	node   string
}

// AddMove - post the move, a refusal is returned as an error
func (r remote) AddMove(m *move.Move) error {
	result, err := r.client.PostMove(r.node, m, "")
	if nil != err {
		return err
	}
	if peer.ResultSuccess != result.Result {
		return fmt.Errorf("%w: %s", fault.ErrInvalidMove, result.Message)
	}
	return nil
}

// Get - avatar as replayed by the node
func (r remote) Get(address string, height uint64) (*game.Avatar, error) {
	return r.client.Avatar(r.node, address, height)
}
