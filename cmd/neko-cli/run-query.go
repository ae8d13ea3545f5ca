// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/nekoyume/nekoyume/account"
	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/fault"
)

func runAvatar(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	address := c.String("address")
	if "" == address {
		key, err := account.LoadKeyFile(m.keyFile)
		if nil != err {
			return fmt.Errorf("key file: %q  error: %w", m.keyFile, err)
		}
		address = key.Address()
	}
	if !account.ValidAddress(address) {
		return fault.ErrInvalidAddress
	}

	avatar, err := m.client.Avatar(m.node, address, c.Uint64("height"))
	if nil != err {
		return err
	}
	if nil == avatar {
		return fmt.Errorf("address: %s  has no avatar", address)
	}

	printJson(m.w, avatar)
	return nil
}

func runBlock(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	var (
		b   *block.Block
		err error
	)
	switch arg := c.Args().First(); arg {
	case "", "last":
		b, err = m.client.LastBlock(m.node)
	default:
		id, e := strconv.ParseUint(arg, 10, 64)
		if nil != e || 0 == id {
			return fmt.Errorf("invalid block id: %q", arg)
		}
		b, err = m.client.Block(m.node, id)
	}
	if nil != err {
		return err
	}
	if nil == b {
		return fault.ErrBlockNotFound
	}

	printJson(m.w, b.Wire(block.Full))
	return nil
}
