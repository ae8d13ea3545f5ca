// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/nekoyume/nekoyume/account"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/player"
	"github.com/nekoyume/nekoyume/util"
)

func runKey(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if util.EnsureFileExists(m.keyFile) && !c.Bool("force") {
		return fmt.Errorf("key file: %q  error: %w", m.keyFile, fault.ErrKeyFileAlreadyExists)
	}

	key, err := account.GenerateKey()
	if nil != err {
		return err
	}
	err = account.SaveKeyFile(m.keyFile, key)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "saved key to: %q\n", m.keyFile)
	}

	printJson(m.w, struct {
		KeyFile string `json:"key_file"`
		Address string `json:"address"`
	}{
		KeyFile: m.keyFile,
		Address: key.Address(),
	})
	return nil
}

func runAddress(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	key, err := account.LoadKeyFile(m.keyFile)
	if nil != err {
		return err
	}

	fmt.Fprintf(m.w, "%s\n", key.Address())
	return nil
}

// player signing with the key file, moves posted to the node
func getPlayer(m *metadata) (*player.Player, error) {
	key, err := account.LoadKeyFile(m.keyFile)
	if nil != err {
		return nil, fmt.Errorf("key file: %q  error: %w", m.keyFile, err)
	}
	r := remote{client: m.client, node: m.node}
	return player.New(key, r, r), nil
}
