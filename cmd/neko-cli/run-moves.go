// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/nekoyume/nekoyume/move"
	"github.com/nekoyume/nekoyume/player"
)

// reply printed after a move is accepted
type moveReply struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"user_address"`
	Node    string `json:"node"`
}

// sign a move with the key file and post it to the node
func play(c *cli.Context, f func(p *player.Player) (*move.Move, error)) error {

	m := c.App.Metadata["config"].(*metadata)

	p, err := getPlayer(m)
	if nil != err {
		return err
	}

	mv, err := f(p)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "move: %s  details: %v\n", mv.ID, mv.Details.Map())
	}

	printJson(m.w, moveReply{
		ID:      mv.ID,
		Name:    mv.Name,
		Address: mv.UserAddress,
		Node:    m.node,
	})
	return nil
}

func checkRequired(c *cli.Context, names ...string) error {
	for _, name := range names {
		if "" == c.String(name) {
			return fmt.Errorf("missing required option: --%s", name)
		}
	}
	return nil
}

func runCreateNovice(c *cli.Context) error {
	if err := checkRequired(c, "name"); nil != err {
		return err
	}
	details := move.NewDetails(map[string]string{
		"name": c.String("name"),
	})
	if g := c.String("gravatar"); "" != g {
		details.Set("gravatar_hash", g)
	}
	for _, stat := range []string{"strength", "dexterity", "intelligence", "constitution", "luck"} {
		if c.IsSet(stat) {
			details.Set(stat, strconv.Itoa(c.Int(stat)))
		}
	}
	return play(c, func(p *player.Player) (*move.Move, error) {
		return p.CreateNovice(details)
	})
}

func runHackAndSlash(c *cli.Context) error {
	return play(c, func(p *player.Player) (*move.Move, error) {
		return p.HackAndSlash()
	})
}

func runSleep(c *cli.Context) error {
	return play(c, func(p *player.Player) (*move.Move, error) {
		return p.Sleep()
	})
}

func runLevelUp(c *cli.Context) error {
	if err := checkRequired(c, "status"); nil != err {
		return err
	}
	return play(c, func(p *player.Player) (*move.Move, error) {
		return p.LevelUp(c.String("status"))
	})
}

func runSay(c *cli.Context) error {
	if err := checkRequired(c, "content"); nil != err {
		return err
	}
	return play(c, func(p *player.Player) (*move.Move, error) {
		return p.Say(c.String("content"))
	})
}

func runSend(c *cli.Context) error {
	if err := checkRequired(c, "item", "receiver"); nil != err {
		return err
	}
	return play(c, func(p *player.Player) (*move.Move, error) {
		return p.Send(c.String("item"), c.Int64("amount"), c.String("receiver"))
	})
}

func runMoveZone(c *cli.Context) error {
	if err := checkRequired(c, "zone"); nil != err {
		return err
	}
	return play(c, func(p *player.Player) (*move.Move, error) {
		return p.MoveZone(c.String("zone"))
	})
}

func runFirstClass(c *cli.Context) error {
	if err := checkRequired(c, "class"); nil != err {
		return err
	}
	return play(c, func(p *player.Player) (*move.Move, error) {
		return p.FirstClass(c.String("class"))
	})
}
