// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package discovery - find peer nodes
//
// nodes come from four places: the static list in the configuration,
// a peer file that is re-read whenever it changes, TXT records of a
// seed domain and the node lists of peers already known
package discovery

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/nekoyume/nekoyume/peer"
)

// defaults
const (
	defaultCrawlInterval = 5 * time.Minute
	defaultCrawlFanout   = 10
)

// Configuration - peering section of the configuration file
type Configuration struct {
	Nodes         []string `gluamapper:"nodes" json:"nodes"`
	PeerFile      string   `gluamapper:"peer_file" json:"peer_file"`
	DNSSeed       string   `gluamapper:"dns_seed" json:"dns_seed"`
	DNSServer     string   `gluamapper:"dns_server" json:"dns_server"` // host:port, resolv.conf if empty
	Fanout        int      `gluamapper:"fanout" json:"fanout"`
	CrawlInterval int      `gluamapper:"crawl_interval" json:"crawl_interval"` // seconds
}

// Discoverer - keeps the registry populated
type Discoverer struct {
	configuration *Configuration
	registry      *peer.Registry
	client        peer.Client
	self          string
	log           *logger.L
}

// New - discoverer registering into registry, self is never registered
func New(configuration *Configuration, registry *peer.Registry, client peer.Client, self string) *Discoverer {
	return &Discoverer{
		configuration: configuration,
		registry:      registry,
		client:        client,
		self:          self,
		log:           logger.New("discovery"),
	}
}

// Seed - register every node from the configuration and the peer file
//
// returns the number registered; unreachable nodes are skipped
func (d *Discoverer) Seed() int {
	n := d.register(d.configuration.Nodes)
	if "" != d.configuration.PeerFile {
		urls, err := ReadPeerFile(d.configuration.PeerFile)
		if nil != err {
			d.log.Warnf("peer file: %q  error: %s", d.configuration.PeerFile, err)
		} else {
			n += d.register(urls)
		}
	}
	return n
}

// Crawl - learn the nodes of the most recently seen peers and
// announce this node to them
func (d *Discoverer) Crawl() int {
	fanout := d.configuration.Fanout
	if fanout <= 0 {
		fanout = defaultCrawlFanout
	}
	added := 0
	for _, node := range d.registry.Recent(fanout) {
		n, err := peer.Update(d.registry, d.client, node.URL, d.self)
		if nil != err {
			d.log.Warnf("crawl: %s  error: %s", node.URL, err)
			continue
		}
		added += n
		if "" == d.self {
			continue
		}
		err = d.client.Announce(node.URL, d.self)
		if nil != err {
			d.log.Debugf("announce to: %s  error: %s", node.URL, err)
		}
	}
	if 0 != added {
		d.log.Infof("crawl added: %d nodes", added)
	}
	return added
}

// Run - background loop: peer file changes, seed lookups and crawls
func (d *Discoverer) Run(args interface{}, shutdown <-chan struct{}) {
	log := d.log
	log.Info("starting…")

	d.Seed()

	changed := make(chan struct{}, 1)
	if "" != d.configuration.PeerFile {
		w, err := watchFile(d.configuration.PeerFile, changed, log)
		if nil != err {
			log.Warnf("watch: %q  error: %s", d.configuration.PeerFile, err)
		} else {
			defer w.Close()
		}
	}

	crawlInterval := defaultCrawlInterval
	if d.configuration.CrawlInterval > 0 {
		crawlInterval = time.Duration(d.configuration.CrawlInterval) * time.Second
	}
	crawl := time.After(0)

	// nil channel blocks forever when no seed domain is set
	var lookup <-chan time.Time
	if "" != d.configuration.DNSSeed {
		lookup = time.After(0)
	}

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case <-changed:
			urls, err := ReadPeerFile(d.configuration.PeerFile)
			if nil != err {
				log.Warnf("peer file: %q  error: %s", d.configuration.PeerFile, err)
				continue loop
			}
			log.Infof("peer file changed, nodes: %d", len(urls))
			d.register(urls)

		case <-lookup:
			lookup = time.After(d.lookupSeeds())

		case <-crawl:
			d.Crawl()
			crawl = time.After(crawlInterval)
		}
	}
	log.Info("stopped")
}

// resolve the seed domain, returns the time until the next lookup
func (d *Discoverer) lookupSeeds() time.Duration {
	server := d.configuration.DNSServer
	if "" == server {
		s, err := resolver()
		if nil != err {
			d.log.Errorf("resolver error: %s", err)
			return maximumLookupInterval
		}
		server = s
	}
	urls, ttl, err := LookupSeeds(d.configuration.DNSSeed, server)
	if nil != err {
		d.log.Errorf("lookup: %q  error: %s", d.configuration.DNSSeed, err)
		return maximumLookupInterval
	}
	d.log.Infof("seed: %q  nodes: %d  next lookup: %s", d.configuration.DNSSeed, len(urls), ttl)
	d.register(urls)
	return ttl
}

func (d *Discoverer) register(urls []string) int {
	n := 0
	for _, u := range urls {
		normalised, err := peer.Normalise(u)
		if nil != err {
			d.log.Warnf("ignore node: %q  error: %s", u, err)
			continue
		}
		if normalised == d.self {
			continue
		}
		err = peer.Register(d.registry, d.client, normalised)
		if nil != err {
			d.log.Debugf("register: %s  error: %s", normalised, err)
			continue
		}
		n += 1
	}
	return n
}
