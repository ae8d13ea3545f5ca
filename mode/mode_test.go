// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nekoyume/nekoyume/mode"
	"github.com/nekoyume/nekoyume/testing/fixture"
)

func TestMain(m *testing.M) {
	fixture.Run(m, "mode")
}

func TestTransitions(t *testing.T) {
	s := mode.New()
	assert.True(t, s.Is(mode.Resynchronise), "initial")
	assert.Equal(t, "Resynchronise", s.String(), "initial name")

	s.Set(mode.Normal)
	assert.True(t, s.Is(mode.Normal), "normal")
	assert.True(t, s.IsNot(mode.Resynchronise), "not resynchronising")

	s.Set(mode.Mode(99))
	assert.True(t, s.Is(mode.Normal), "invalid ignored")

	assert.Equal(t, "*Unknown*", mode.Mode(99).String(), "unknown name")
}
