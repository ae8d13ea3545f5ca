// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/nekoyume/nekoyume/mode"
)

// various timeouts
const (
	// first run after start
	initialDelay = 2 * time.Second

	// pause after a failed run
	retryInterval = 10 * time.Second
)

// Process - background synchronisation, periodic and on demand
type Process struct {
	sync     *Synchroniser
	mode     *mode.State
	interval time.Duration
	trigger  chan string
	log      *logger.L
}

// NewProcess - run s every interval and whenever triggered
func NewProcess(s *Synchroniser, state *mode.State, interval time.Duration) *Process {
	return &Process{
		sync:     s,
		mode:     state,
		interval: interval,
		trigger:  make(chan string, 1),
		log:      logger.New("sync"),
	}
}

// Trigger - request a run against target, or all peers if empty
//
// never blocks; a request already pending absorbs this one
func (p *Process) Trigger(target string) {
	select {
	case p.trigger <- target:
	default:
		p.log.Debugf("trigger already pending, dropped: %q", target)
	}
}

// Run - background loop
func (p *Process) Run(args interface{}, shutdown <-chan struct{}) {
	log := p.log
	log.Info("starting…")

	timer := time.NewTimer(initialDelay)
	defer timer.Stop()

loop:
	for {
		target := ""
		select {
		case <-shutdown:
			break loop
		case target = <-p.trigger:
		case <-timer.C:
		}

		next := p.interval
		if !p.once(target) {
			next = retryInterval
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(next)
	}
	p.mode.Set(mode.Stopped)
	log.Info("stopped")
}

// one run with mode bookkeeping
func (p *Process) once(target string) bool {
	p.mode.Set(mode.Resynchronise)
	ok, err := p.sync.Synchronise(target)
	if !ok {
		p.log.Warnf("synchronise with: %q  error: %s", target, err)
		return false
	}
	p.mode.Set(mode.Normal)
	return true
}
