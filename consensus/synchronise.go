// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/nekoyume/nekoyume/ledger"
	"github.com/nekoyume/nekoyume/peer"
)

// DefaultFanout - peers asked for their tip when no target is given
const DefaultFanout = 10

// Synchroniser - brings the local chain up to the tallest peer
type Synchroniser struct {
	sync.Mutex // one run at a time

	ledger   *ledger.Ledger
	registry *peer.Registry
	client   peer.Client
	fanout   int
	pageSize uint64
	log      *logger.L
}

// New - synchroniser over a ledger and peer set
func New(l *ledger.Ledger, registry *peer.Registry, client peer.Client, fanout int) *Synchroniser {
	if fanout <= 0 {
		fanout = DefaultFanout
	}
	return &Synchroniser{
		ledger:   l,
		registry: registry,
		client:   client,
		fanout:   fanout,
		pageSize: ledger.PageSize,
		log:      logger.New("sync"),
	}
}

// Synchronise - replace the local tail with a taller peer's chain
//
// with an empty target the most recently seen peers are asked,
// otherwise only the target; true means the chain is now at least as
// tall as every peer that answered, or nothing needed doing
func (s *Synchroniser) Synchronise(target string) (bool, error) {
	s.Lock()
	defer s.Unlock()

	candidates := []string{}
	if "" != target {
		u, err := peer.Normalise(target)
		if nil != err {
			return false, err
		}
		candidates = append(candidates, u)
	} else {
		candidates = peer.URLs(s.registry.Recent(s.fanout))
	}

	m := &machine{
		log:        s.log,
		sync:       s,
		candidates: candidates,
	}
	return m.run()
}

// refresh a peer that answered
func (s *Synchroniser) touch(u string) {
	if nil == s.registry {
		return
	}
	if _, ok := s.registry.Get(u); !ok {
		return
	}
	err := s.registry.Touch(u)
	if nil != err {
		s.log.Warnf("touch: %s  error: %s", u, err)
	}
}
