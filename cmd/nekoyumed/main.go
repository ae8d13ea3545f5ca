// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/nekoyume/nekoyume/account"
	"github.com/nekoyume/nekoyume/background"
	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/broadcast"
	"github.com/nekoyume/nekoyume/configuration"
	"github.com/nekoyume/nekoyume/consensus"
	"github.com/nekoyume/nekoyume/discovery"
	"github.com/nekoyume/nekoyume/ledger"
	"github.com/nekoyume/nekoyume/mine"
	"github.com/nekoyume/nekoyume/mode"
	"github.com/nekoyume/nekoyume/peer"
	"github.com/nekoyume/nekoyume/replay"
	"github.com/nekoyume/nekoyume/rpc"
	"github.com/nekoyume/nekoyume/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "seed", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 's'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := configuration.Get(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logger()); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// start the data storage
	log.Infof("database: %q", theConfiguration.DatabasePath())
	database, err := storage.Open(theConfiguration.DatabasePath(), storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer database.Close()

	theLedger := ledger.New(database)
	registry := peer.NewRegistry(database)
	client := peer.NewClient(theConfiguration.PeerTimeout())
	synchroniser := consensus.New(theLedger, registry, client, theConfiguration.Sync.Fanout)

	// these commands are allowed to access the internal database
	if len(arguments) > 0 && processDataCommand(log, arguments, options, theConfiguration, theLedger, registry, client, synchroniser) {
		return
	}

	// avatars are replayed from the ledger, memo flushed on reorganisation
	engine := replay.New(theLedger)
	theLedger.OnReorg(engine.Reorganised)

	state := mode.New()
	process := consensus.NewProcess(synchroniser, state, theConfiguration.SyncInterval())

	broadcaster := broadcast.New(registry, client, theConfiguration.PublicURL)
	broadcaster.OnRejected = func(nodeURL string, b *block.Block, hint uint64) {
		// the peer holds at least as much chain as the refused block
		if hint >= b.ID {
			process.Trigger(nodeURL)
		}
	}

	processes := background.Processes{
		broadcaster,
		process,
	}

	if theConfiguration.Mining.Enabled {
		key, err := account.LoadKeyFile(theConfiguration.Mining.KeyFile)
		if nil != err {
			log.Criticalf("miner key: %q  error: %s", theConfiguration.Mining.KeyFile, err)
			exitwithstatus.Message("miner key: %q  error: %s", theConfiguration.Mining.KeyFile, err)
		}
		log.Infof("mining as: %s", key.Address())
		miner := mine.New(theLedger, engine, broadcaster, state, key.Address(), theConfiguration.MiningOptions())
		processes = append(processes, miner)
	}

	server := rpc.New(&theConfiguration.ClientRPC, rpc.Options{
		Ledger:       theLedger,
		Registry:     registry,
		Client:       client,
		Avatars:      engine,
		Broadcaster:  broadcaster,
		Synchroniser: process,
		Mode:         state,
		PublicURL:    theConfiguration.PublicURL,
		Version:      version,
	})
	processes = append(processes, server)

	discoverer := discovery.New(&theConfiguration.Peering, registry, client, theConfiguration.PublicURL)
	processes = append(processes, discoverer)

	// if memory logging enabled
	if len(options["memory-stats"]) > 0 {
		processes = append(processes, background.Func(memstats))
	}

	running := background.Start(processes, nil)

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	state.Set(mode.Stopped)
	running.Stop()
}
