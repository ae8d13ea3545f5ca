// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"time"
)

// Register - add a node after checking that it answers a ping
//
// a node already in the registry is accepted without a ping
func Register(registry *Registry, client Client, nodeURL string) error {
	u, err := Normalise(nodeURL)
	if nil != err {
		return err
	}
	if _, ok := registry.Get(u); ok {
		return nil
	}
	err = client.Ping(u)
	if nil != err {
		return err
	}
	return registry.Add(u, time.Now())
}

// Update - learn the nodes known to a peer
//
// unreachable candidates are skipped; returns the number of nodes
// newly added
func Update(registry *Registry, client Client, nodeURL string, self string) (int, error) {
	urls, err := client.Nodes(nodeURL)
	if nil != err {
		return 0, err
	}
	added := 0
	for _, u := range urls {
		n, err := Normalise(u)
		if nil != err || n == self {
			continue
		}
		if _, ok := registry.Get(n); ok {
			continue
		}
		err = Register(registry, client, n)
		if nil != err {
			registry.log.Debugf("skip node: %s  error: %s", n, err)
			continue
		}
		added += 1
	}
	return added, nil
}
