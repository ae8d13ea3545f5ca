// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package difficulty_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nekoyume/nekoyume/difficulty"
)

func TestWindowStart(t *testing.T) {
	tests := []struct {
		id    uint64
		start uint64
	}{
		{2, 1},
		{10, 1},
		{11, 1},
		{12, 2},
		{100, 90},
	}
	for i, item := range tests {
		assert.Equal(t, item.start, difficulty.WindowStart(item.id), "%d: block: %d", i, item.id)
	}
}

func TestAverage(t *testing.T) {
	base := time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 10*time.Second, difficulty.Average(1, base, 11, base.Add(100*time.Second)), "ten blocks")
	assert.Equal(t, 3*time.Second, difficulty.Average(1, base, 2, base.Add(3*time.Second)), "one block")
	assert.Equal(t, time.Duration(0), difficulty.Average(5, base, 5, base.Add(time.Hour)), "same block")
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		previous uint64
		average  time.Duration
		next     uint64
	}{
		{0, time.Second, 1},
		{0, time.Minute, 1},
		{1, difficulty.MinimumInterval, 2},
		{1, difficulty.MinimumInterval + 1, 1},
		{5, difficulty.MaximumInterval, 5},
		{5, difficulty.MaximumInterval + time.Millisecond, 4},
		{1, time.Hour, 1},
		{7, -time.Second, 8},
	}
	for i, item := range tests {
		assert.Equal(t, item.next, difficulty.Adjust(item.previous, item.average), "%d: previous: %d  average: %s", i, item.previous, item.average)
	}
}
