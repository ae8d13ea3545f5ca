// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package difficulty - moving window difficulty controller
//
// The difficulty of block N is derived from the difficulty of block
// N-1 and the average interval between block max(1, N-10) and block N.
package difficulty

import (
	"time"
)

// controller parameters
const (
	Window          = 10
	MinimumInterval = 5 * time.Second
	MaximumInterval = 15 * time.Second

	Genesis uint64 = 0 // only the genesis block has zero difficulty
	Minimum uint64 = 1 // floor for every other block
)

// WindowStart - id of the block the average interval is measured from
func WindowStart(id uint64) uint64 {
	if id <= Window+1 {
		return 1
	}
	return id - Window
}

// Average - mean interval between two blocks
func Average(startID uint64, start time.Time, endID uint64, end time.Time) time.Duration {
	if endID <= startID {
		return 0
	}
	return end.Sub(start) / time.Duration(endID-startID)
}

// Adjust - apply the controller to the previous difficulty
//
// fast blocks raise the difficulty by one, slow blocks lower it by
// one, anything in between keeps it
func Adjust(previous uint64, average time.Duration) uint64 {
	next := previous
	switch {
	case average <= MinimumInterval:
		next = previous + 1
	case average > MaximumInterval:
		if previous > 0 {
			next = previous - 1
		}
	}
	if next < Minimum {
		next = Minimum
	}
	return next
}
