// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/nekoyume/nekoyume/account"
	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/configuration"
	"github.com/nekoyume/nekoyume/consensus"
	"github.com/nekoyume/nekoyume/discovery"
	"github.com/nekoyume/nekoyume/doctor"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/ledger"
	"github.com/nekoyume/nekoyume/peer"
	"github.com/nekoyume/nekoyume/util"
)

const (
	minerKeyFilename = "miner.key"
)

// setup command handler
//
// commands that run to create key files, these commands cannot
// access any internal database or states or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-key", "key":
		keyFilename := minerKeyFilename
		if len(arguments) > 0 && "" != arguments[0] {
			keyFilename = arguments[0]
		}

		if util.EnsureFileExists(keyFilename) {
			fmt.Printf("generate private key: %q error: %s\n", keyFilename, fault.ErrKeyFileAlreadyExists)
			exitwithstatus.Exit(1)
		}

		key, err := account.GenerateKey()
		if nil != err {
			fmt.Printf("generate private key: %q error: %s\n", keyFilename, err)
			exitwithstatus.Exit(1)
		}
		if err := account.SaveKeyFile(keyFilename, key); nil != err {
			os.Remove(keyFilename)
			fmt.Printf("generate private key: %q error: %s\n", keyFilename, err)
			exitwithstatus.Exit(1)
		}

		fmt.Printf("generated private key: %q\n", keyFilename)
		fmt.Printf("address: %s\n", key.Address())

	case "start", "run":
		return false // continue processing

	case "init", "doctor", "repair", "sync":
		return false // defer processing until database is loaded

	case "config-test", "cfg":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  gen-key [FILE]             (key)    - create a miner private key in: %q\n", minerKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  init                                - mine the genesis block with the miner key\n")
		fmt.Printf("  --seed=URL init                     - register a seed node and learn its peers instead\n")
		fmt.Printf("\n")

		fmt.Printf("  doctor                              - check every stored block and move\n")
		fmt.Printf("\n")

		fmt.Printf("  repair                              - cut the chain below the first invalid block\n")
		fmt.Printf("                                        and drop invalid moves\n")
		fmt.Printf("\n")

		fmt.Printf("  sync                                - synchronise once with the known peers\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *configuration.Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the ledger and peer registry are open so these commands can
// access and/or change them
func processDataCommand(log *logger.L, arguments []string, flags map[string][]string, options *configuration.Configuration, l *ledger.Ledger, registry *peer.Registry, client peer.Client, synchroniser *consensus.Synchroniser) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "init":
		if seeds := flags["seed"]; len(seeds) > 0 {
			for _, seed := range seeds {
				n, err := peer.Update(registry, client, seed, options.PublicURL)
				if nil != err {
					exitwithstatus.Message("seed: %q  error: %s", seed, err)
				}
				fmt.Printf("seed: %s  nodes added: %d\n", seed, n)
			}
			return true
		}

		if 0 != l.Height() {
			exitwithstatus.Message("error: %s  height: %d", fault.ErrAlreadyInitialised, l.Height())
		}
		key, err := account.LoadKeyFile(options.Mining.KeyFile)
		if nil != err {
			exitwithstatus.Message("miner key: %q  error: %s", options.Mining.KeyFile, err)
		}
		b, err := block.Create(l, key.Address(), nil, block.CreateOptions{Commit: true})
		if nil != err {
			exitwithstatus.Message("genesis error: %s", err)
		}
		if nil == b {
			exitwithstatus.Message("error: genesis block was not created")
		}
		log.Infof("genesis: %s", b.Hash)
		fmt.Printf("genesis block: %s\n", b.Hash)

	case "doctor":
		report, err := doctor.Scan(l)
		if nil != err {
			exitwithstatus.Message("doctor error: %s", err)
		}
		printReport(report)
		if !report.Healthy() {
			exitwithstatus.Exit(1)
		}

	case "repair":
		report, err := doctor.Repair(l)
		if nil != err {
			exitwithstatus.Message("repair error: %s", err)
		}
		printReport(report)
		fmt.Printf("height after repair: %d\n", l.Height())

	case "sync":
		discovery.New(&options.Peering, registry, client, options.PublicURL).Seed()
		before := l.Height()
		changed, err := synchroniser.Synchronise("")
		if nil != err {
			exitwithstatus.Message("sync error: %s", err)
		}
		fmt.Printf("changed: %t  height: %d -> %d\n", changed, before, l.Height())

	default:
		exitwithstatus.Message("error: no such command: %s", command)

	}

	// indicate processing complete and perform normal exit from main
	return true
}

func printReport(report *doctor.Report) {
	fmt.Printf("height: %d  blocks: %d  moves: %d  unconfirmed: %d\n", report.Height, report.Blocks, report.Moves, report.Unconfirmed)
	for _, p := range report.Problems {
		switch {
		case "" == p.MoveID:
			fmt.Printf("block: %d  error: %s\n", p.BlockID, p.Err)
		case 0 == p.BlockID:
			fmt.Printf("unconfirmed move: %s  error: %s\n", p.MoveID, p.Err)
		default:
			fmt.Printf("block: %d  move: %s  error: %s\n", p.BlockID, p.MoveID, p.Err)
		}
	}
	if report.Healthy() {
		fmt.Printf("no problems found\n")
	} else {
		fmt.Printf("first invalid block: %d\n", report.FirstInvalid)
	}
}
