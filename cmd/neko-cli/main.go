// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/nekoyume/nekoyume/peer"
)

type metadata struct {
	node    string
	keyFile string
	client  *peer.HTTPClient
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp(os.Stdout, os.Stderr)
	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {

	app := cli.NewApp()
	app.Name = "neko-cli"
	app.Usage = "play nekoyume through a node"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "node, n",
			Value:  "http://127.0.0.1:4000",
			EnvVar: "NEKO_NODE",
			Usage:  " node to send moves to `URL`",
		},
		cli.StringFlag{
			Name:   "key, k",
			Value:  "neko.key",
			EnvVar: "NEKO_KEY",
			Usage:  " private key `FILE`",
		},
		cli.DurationFlag{
			Name:  "timeout, t",
			Value: peer.Timeout,
			Usage: " limit on each request `DURATION`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "key",
			Usage:     "generate a private key into the key file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "force, f",
					Usage: " overwrite an existing key file",
				},
			},
			Action: runKey,
		},
		{
			Name:   "address",
			Usage:  "display the address of the key",
			Action: runAddress,
		},
		{
			Name:      "create-novice",
			Usage:     "create a new avatar",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "name, N",
					Value: "",
					Usage: "*avatar name `STRING`",
				},
				cli.StringFlag{
					Name:  "gravatar, g",
					Value: "",
					Usage: " gravatar `HASH`",
				},
				cli.IntFlag{Name: "strength", Usage: " roll `VALUE`"},
				cli.IntFlag{Name: "dexterity", Usage: " roll `VALUE`"},
				cli.IntFlag{Name: "intelligence", Usage: " roll `VALUE`"},
				cli.IntFlag{Name: "constitution", Usage: " roll `VALUE`"},
				cli.IntFlag{Name: "luck", Usage: " roll `VALUE`"},
			},
			Action: runCreateNovice,
		},
		{
			Name:   "hack-and-slash",
			Usage:  "fight in the current zone",
			Action: runHackAndSlash,
		},
		{
			Name:   "sleep",
			Usage:  "restore hit points",
			Action: runSleep,
		},
		{
			Name:      "level-up",
			Usage:     "spend experience on a stat",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "status, s",
					Value: "",
					Usage: "*stat to raise `STAT` [strength|dexterity|intelligence|constitution|luck]",
				},
			},
			Action: runLevelUp,
		},
		{
			Name:      "say",
			Usage:     "chat",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "content, c",
					Value: "",
					Usage: "*message `TEXT`",
				},
			},
			Action: runSay,
		},
		{
			Name:      "send",
			Usage:     "give items to another avatar",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "item, i",
					Value: "",
					Usage: "*item `NAME`",
				},
				cli.Int64Flag{
					Name:  "amount, a",
					Value: 1,
					Usage: " number to send `COUNT`",
				},
				cli.StringFlag{
					Name:  "receiver, r",
					Value: "",
					Usage: "*receiving `ADDRESS`",
				},
			},
			Action: runSend,
		},
		{
			Name:      "move-zone",
			Usage:     "travel to another zone",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "zone, z",
					Value: "",
					Usage: "*destination `ZONE`",
				},
			},
			Action: runMoveZone,
		},
		{
			Name:      "first-class",
			Usage:     "leave the novice class",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "class, c",
					Value: "",
					Usage: "*new class `CLASS` [swordman|mage|acolyte|archer]",
				},
			},
			Action: runFirstClass,
		},
		{
			Name:      "avatar",
			Usage:     "display the replayed avatar",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "address, a",
					Value: "",
					Usage: " avatar `ADDRESS` (default: the key's address)",
				},
				cli.Uint64Flag{
					Name:  "height, H",
					Value: 0,
					Usage: " replay up to block `HEIGHT` (default: tip)",
				},
			},
			Action: runAvatar,
		},
		{
			Name:      "block",
			Usage:     "display a block",
			ArgsUsage: "[ID|last]",
			Action:    runBlock,
		},
		{
			Name:  "version",
			Usage: "display neko-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		verbose := c.GlobalBool("verbose")

		node, err := peer.Normalise(c.GlobalString("node"))
		if nil != err {
			return fmt.Errorf("node: %q  error: %s", c.GlobalString("node"), err)
		}

		if verbose {
			fmt.Fprintf(c.App.ErrWriter, "node: %s\n", node)
		}

		c.App.Metadata["config"] = &metadata{
			node:    node,
			keyFile: c.GlobalString("key"),
			client:  peer.NewClient(c.GlobalDuration("timeout")),
			verbose: verbose,
			e:       c.App.ErrWriter,
			w:       c.App.Writer,
		}
		return nil
	}

	return app
}
