// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekoyume/nekoyume/util"
)

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/var/lib/data", util.EnsureAbsolute("/var/lib", "data"), "relative")
	assert.Equal(t, "/tmp/data", util.EnsureAbsolute("/var/lib", "/tmp/data"), "absolute")
	assert.Equal(t, "/var/data", util.EnsureAbsolute("/var/lib", "../data"), "cleaned")
}

func TestEnsureDirectory(t *testing.T) {
	dir := t.TempDir()

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, util.EnsureDirectory(nested), "create")
	assert.DirExists(t, nested, "created")
	assert.NoError(t, util.EnsureDirectory(nested), "existing")

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600), "write")
	assert.True(t, util.EnsureFileExists(file), "file exists")
	assert.False(t, util.EnsureFileExists(filepath.Join(dir, "missing")), "missing")
	assert.Error(t, util.EnsureDirectory(file), "file is not a directory")
}
