// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package broadcast - fire and forget fan out of blocks, moves and
// nodes to every registered peer
package broadcast

import (
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/patrickmn/go-cache"

	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/move"
	"github.com/nekoyume/nekoyume/peer"
)

const (
	queueSize = 1000

	// a payload seen within this time is not sent again
	seenExpiry  = 10 * time.Minute
	seenCleanup = 20 * time.Minute
)

type kind int

const (
	kindBlock kind = iota
	kindMove
	kindNode
)

type item struct {
	kind     kind
	block    *block.Block
	move     *move.Move
	node     string
	sentNode string
}

// Rejected - called when a peer refuses a block with a hint of where
// its chain diverges
type Rejected func(nodeURL string, b *block.Block, hint uint64)

// Broadcaster - queue of payloads drained by Run
type Broadcaster struct {
	registry *peer.Registry
	client   peer.Client
	self     string
	queue    chan item
	seen     *cache.Cache
	log      *logger.L

	// OnRejected - optional, see Rejected
	OnRejected Rejected
}

// New - broadcaster sending as self, which is never sent to
func New(registry *peer.Registry, client peer.Client, self string) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		client:   client,
		self:     self,
		queue:    make(chan item, queueSize),
		seen:     cache.New(seenExpiry, seenCleanup),
		log:      logger.New("broadcast"),
	}
}

// Block - queue a block, sentNode is skipped
func (b *Broadcaster) Block(blk *block.Block, sentNode string) {
	if b.first("block/" + blk.Hash) {
		b.enqueue(item{kind: kindBlock, block: blk, sentNode: sentNode})
	}
}

// Move - queue a move, sentNode is skipped
func (b *Broadcaster) Move(m *move.Move, sentNode string) {
	if b.first("move/" + m.ID) {
		b.enqueue(item{kind: kindMove, move: m, sentNode: sentNode})
	}
}

// Node - queue the announcement of a newly registered node
func (b *Broadcaster) Node(nodeURL string, sentNode string) {
	if b.first("node/" + nodeURL) {
		b.enqueue(item{kind: kindNode, node: nodeURL, sentNode: sentNode})
	}
}

// Run - background loop
func (b *Broadcaster) Run(args interface{}, shutdown <-chan struct{}) {
	log := b.log
	log.Info("starting…")
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case it := <-b.queue:
			b.send(it)
		}
	}
	log.Info("stopped")
}

// false if the key was already seen
func (b *Broadcaster) first(key string) bool {
	return nil == b.seen.Add(key, struct{}{}, cache.DefaultExpiration)
}

func (b *Broadcaster) enqueue(it item) {
	select {
	case b.queue <- it:
	default:
		b.log.Warn("queue full, payload dropped")
	}
}

func (b *Broadcaster) send(it item) {
	for _, node := range b.registry.All() {
		if node.URL == it.sentNode || node.URL == b.self {
			continue
		}
		if kindNode == it.kind && node.URL == it.node {
			continue
		}

		var result peer.Result
		var err error
		switch it.kind {
		case kindBlock:
			result, err = b.client.PostBlock(node.URL, it.block, b.self)
		case kindMove:
			result, err = b.client.PostMove(node.URL, it.move, b.self)
		case kindNode:
			err = b.client.Announce(node.URL, it.node)
		}
		if nil != err {
			b.log.Warnf("send to: %s  error: %s", node.URL, err)
			continue
		}
		if err := b.registry.Touch(node.URL); nil != err {
			b.log.Warnf("touch: %s  error: %s", node.URL, err)
		}

		if peer.ResultSuccess == result.Result || kindNode == it.kind {
			continue
		}
		b.log.Debugf("refused by: %s  message: %s", node.URL, result.Message)
		if kindBlock == it.kind && nil != result.BlockID && nil != b.OnRejected {
			b.OnRejected(node.URL, it.block, *result.BlockID)
		}
	}
}
