// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package discovery

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const (
	// TXT records of the form "nekoyume=<url>"
	seedTag = "nekoyume="

	lookupTimeout = 5 * time.Second

	minimumLookupInterval = 1 * time.Minute
	maximumLookupInterval = 1 * time.Hour

	resolvConf = "/etc/resolv.conf"
)

// LookupSeeds - node urls from the TXT records of domain
//
// also returns the smallest record TTL, clipped to the lookup
// interval range, as the time before the records should be read again
func LookupSeeds(domain string, server string) ([]string, time.Duration, error) {
	c := dns.Client{Timeout: lookupTimeout}
	msg := dns.Msg{}
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeTXT)

	r, _, err := c.Exchange(&msg, server)
	if nil != err {
		return nil, maximumLookupInterval, err
	}
	if dns.RcodeSuccess != r.Rcode {
		return nil, maximumLookupInterval, fmt.Errorf("lookup %s: %s", domain, dns.RcodeToString[r.Rcode])
	}

	urls := make([]string, 0, len(r.Answer))
	ttl := maximumLookupInterval
	for _, rr := range r.Answer {
		txt, ok := rr.(*dns.TXT)
		if !ok {
			continue
		}
		if t := time.Duration(txt.Hdr.Ttl) * time.Second; t < ttl {
			ttl = t
		}
		u, ok := parseSeed(strings.Join(txt.Txt, ""))
		if ok {
			urls = append(urls, u)
		}
	}
	if ttl < minimumLookupInterval {
		ttl = minimumLookupInterval
	}
	return urls, ttl, nil
}

func parseSeed(record string) (string, bool) {
	record = strings.TrimSpace(record)
	if !strings.HasPrefix(record, seedTag) {
		return "", false
	}
	u := strings.TrimSpace(strings.TrimPrefix(record, seedTag))
	return u, "" != u
}

// first name server of the system resolver
func resolver() (string, error) {
	conf, err := dns.ClientConfigFromFile(resolvConf)
	if nil != err {
		return "", err
	}
	if 0 == len(conf.Servers) {
		return "", fmt.Errorf("no name server in: %s", resolvConf)
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port), nil
}
