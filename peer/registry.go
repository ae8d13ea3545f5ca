// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/storage"
)

// Node - a remote endpoint
type Node struct {
	URL             string    `json:"url"`
	LastConnectedAt time.Time `json:"last_connected_at"`
}

// Registry - persistent set of known nodes
type Registry struct {
	database *storage.Database
	log      *logger.L
}

// NewRegistry - registry over the nodes pool
func NewRegistry(database *storage.Database) *Registry {
	return &Registry{
		database: database,
		log:      logger.New("peer"),
	}
}

// Normalise - check a node url and strip any trailing slash
func Normalise(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if nil != err {
		return "", fault.ErrInvalidURL
	}
	if ("http" != u.Scheme && "https" != u.Scheme) || "" == u.Host {
		return "", fault.ErrInvalidURL
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// Add - record a node as seen at the given time
//
// also used to refresh an existing node
func (r *Registry) Add(rawURL string, at time.Time) error {
	u, err := Normalise(rawURL)
	if nil != err {
		return err
	}
	t, err := r.database.Begin()
	if nil != err {
		return err
	}
	t.Put(r.database.Nodes, []byte(u), storage.Uint64Key(uint64(at.UnixNano())))
	err = t.Commit()
	if nil != err {
		return err
	}
	r.log.Debugf("node: %s  seen: %s", u, at.UTC().Format(time.RFC3339))
	return nil
}

// Touch - refresh a node's last connected time to now
func (r *Registry) Touch(rawURL string) error {
	return r.Add(rawURL, time.Now())
}

// Get - a single node
func (r *Registry) Get(rawURL string) (Node, bool) {
	u, err := Normalise(rawURL)
	if nil != err {
		return Node{}, false
	}
	value := r.database.Get(r.database.Nodes, []byte(u))
	if nil == value {
		return Node{}, false
	}
	return Node{URL: u, LastConnectedAt: unpackTime(value)}, true
}

// Remove - forget a node
func (r *Registry) Remove(rawURL string) error {
	u, err := Normalise(rawURL)
	if nil != err {
		return err
	}
	if !r.database.Has(r.database.Nodes, []byte(u)) {
		return fault.ErrNodeNotFound
	}
	t, err := r.database.Begin()
	if nil != err {
		return err
	}
	t.Delete(r.database.Nodes, []byte(u))
	return t.Commit()
}

// All - every node, most recently connected first
func (r *Registry) All() []Node {
	nodes := make([]Node, 0, 16)
	err := r.database.Map(r.database.Nodes, nil, nil, false, func(key []byte, value []byte) bool {
		nodes = append(nodes, Node{URL: string(key), LastConnectedAt: unpackTime(value)})
		return true
	})
	if nil != err {
		r.log.Errorf("read nodes error: %s", err)
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].LastConnectedAt.Equal(nodes[j].LastConnectedAt) {
			return nodes[i].URL < nodes[j].URL
		}
		return nodes[i].LastConnectedAt.After(nodes[j].LastConnectedAt)
	})
	return nodes
}

// Recent - up to limit nodes, most recently connected first
func (r *Registry) Recent(limit int) []Node {
	nodes := r.All()
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}
	return nodes
}

// Since - nodes connected at or after cutoff, most recent first
func (r *Registry) Since(cutoff time.Time, limit int) []Node {
	nodes := make([]Node, 0, 16)
	for _, n := range r.All() {
		if n.LastConnectedAt.Before(cutoff) {
			break
		}
		nodes = append(nodes, n)
		if limit > 0 && len(nodes) >= limit {
			break
		}
	}
	return nodes
}

// URLs - just the urls of a node list
func URLs(nodes []Node) []string {
	urls := make([]string, 0, len(nodes))
	for _, n := range nodes {
		urls = append(urls, n.URL)
	}
	return urls
}

func unpackTime(value []byte) time.Time {
	return time.Unix(0, int64(storage.Uint64FromKey(value))).UTC()
}
