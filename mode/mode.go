// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mode

import (
	"sync"

	"github.com/bitmark-inc/logger"
)

// Mode - operating mode of a node
type Mode int

// all possible modes
const (
	Stopped Mode = iota
	Resynchronise
	Normal
	maximum
)

// State - the current mode of one node
type State struct {
	sync.RWMutex
	log  *logger.L
	mode Mode
}

// New - start in resynchronise mode
func New() *State {
	return &State{
		log:  logger.New("mode"),
		mode: Resynchronise,
	}
}

// Set - change mode
func (s *State) Set(mode Mode) {
	if mode < Stopped || mode >= maximum {
		s.log.Errorf("ignore invalid set: %d", mode)
		return
	}

	s.Lock()
	changed := s.mode != mode
	s.mode = mode
	s.Unlock()

	if changed {
		s.log.Infof("set: %s", mode)
	}
}

// Is - detect mode
func (s *State) Is(mode Mode) bool {
	s.RLock()
	defer s.RUnlock()
	return mode == s.mode
}

// IsNot - detect mode
func (s *State) IsNot(mode Mode) bool {
	s.RLock()
	defer s.RUnlock()
	return mode != s.mode
}

// String - current mode represented as a string
func (s *State) String() string {
	s.RLock()
	defer s.RUnlock()
	return s.mode.String()
}

// String - mode represented as a string
func (m Mode) String() string {
	switch m {
	case Stopped:
		return "Stopped"
	case Resynchronise:
		return "Resynchronise"
	case Normal:
		return "Normal"
	default:
		return "*Unknown*"
	}
}
