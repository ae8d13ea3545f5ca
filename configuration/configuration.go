// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/nekoyume/nekoyume/discovery"
	"github.com/nekoyume/nekoyume/mine"
	"github.com/nekoyume/nekoyume/peer"
	"github.com/nekoyume/nekoyume/rpc"
	"github.com/nekoyume/nekoyume/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "nekoyume.leveldb"
	defaultMinerKeyFile     = "miner.key"

	defaultLogDirectory = "log"
	defaultLogFile      = "nekoyumed.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultSyncInterval = 60 // seconds
)

// DatabaseType - location of the leveldb store
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// SyncType - chain synchronisation settings
type SyncType struct {
	Fanout   int `gluamapper:"fanout" json:"fanout"`
	Interval int `gluamapper:"interval" json:"interval"` // seconds between runs
	Timeout  int `gluamapper:"timeout" json:"timeout"`   // seconds per peer call
}

// MiningType - block producer settings
type MiningType struct {
	Enabled      bool   `gluamapper:"enabled" json:"enabled"`
	KeyFile      string `gluamapper:"key_file" json:"key_file"`
	Delay        int    `gluamapper:"delay" json:"delay"`       // milliseconds of throttling per hashing batch
	Interval     int    `gluamapper:"interval" json:"interval"` // seconds between blocks
	MaximumMoves int    `gluamapper:"maximum_moves" json:"maximum_moves"`
}

// LoggerType - mirrors logger.Configuration with Lua field names
type LoggerType struct {
	Directory string            `gluamapper:"directory" json:"directory"`
	File      string            `gluamapper:"file" json:"file"`
	Size      int               `gluamapper:"size" json:"size"`
	Count     int               `gluamapper:"count" json:"count"`
	Console   bool              `gluamapper:"console" json:"console"`
	Levels    map[string]string `gluamapper:"levels" json:"levels"`
}

// Configuration - everything read from the configuration file
type Configuration struct {
	DataDirectory string                  `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                  `gluamapper:"pidfile" json:"pidfile"`
	PublicURL     string                  `gluamapper:"public_url" json:"public_url"`
	Database      DatabaseType            `gluamapper:"database" json:"database"`
	ClientRPC     rpc.Configuration       `gluamapper:"client_rpc" json:"client_rpc"`
	Peering       discovery.Configuration `gluamapper:"peering" json:"peering"`
	Sync          SyncType                `gluamapper:"sync" json:"sync"`
	Mining        MiningType              `gluamapper:"mining" json:"mining"`
	Logging       LoggerType              `gluamapper:"logging" json:"logging"`
}

// Logger - configuration in the form the logger expects
func (c *Configuration) Logger() logger.Configuration {
	return logger.Configuration{
		Directory: c.Logging.Directory,
		File:      c.Logging.File,
		Size:      c.Logging.Size,
		Count:     c.Logging.Count,
		Console:   c.Logging.Console,
		Levels:    c.Logging.Levels,
	}
}

// DatabasePath - full path of the leveldb directory
func (c *Configuration) DatabasePath() string {
	return c.Database.Name
}

// SyncInterval - time between background synchronisations
func (c *Configuration) SyncInterval() time.Duration {
	return time.Duration(c.Sync.Interval) * time.Second
}

// PeerTimeout - limit on each remote call
func (c *Configuration) PeerTimeout() time.Duration {
	return time.Duration(c.Sync.Timeout) * time.Second
}

// MiningOptions - options for the block producer
func (c *Configuration) MiningOptions() mine.Options {
	return mine.Options{
		MaximumMoves: c.Mining.MaximumMoves,
		Interval:     time.Duration(c.Mining.Interval) * time.Second,
		Delay:        time.Duration(c.Mining.Delay) * time.Millisecond,
	}
}

// Get - read, decode and verify the configuration
func Get(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		Sync: SyncType{
			Fanout:   10,
			Interval: defaultSyncInterval,
			Timeout:  int(peer.Timeout / time.Second),
		},

		Mining: MiningType{
			KeyFile:      defaultMinerKeyFile,
			Interval:     int(mine.DefaultInterval / time.Second),
			MaximumMoves: mine.DefaultMaximumMoves,
		},

		Logging: LoggerType{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = util.EnsureAbsolute(dataDirectory, options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	if "" != options.PublicURL {
		u, err := peer.Normalise(options.PublicURL)
		if nil != err {
			return nil, fmt.Errorf("public_url: %q  error: %w", options.PublicURL, err)
		}
		options.PublicURL = u
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Mining.KeyFile,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Peering.PeerFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path separator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("files: %q is not plain name", *f[0])
		}
	}

	// create directories if they do not already exist
	for _, d := range []string{
		options.Database.Directory,
		options.Logging.Directory,
	} {
		if err := util.EnsureDirectory(d); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}
