// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/nekoyume/nekoyume/fault"
)

// limiting for a single request
func limit(limiter *rate.Limiter) error {
	r := limiter.Reserve()
	if !r.OK() {
		return fault.ErrRateLimiting
	}
	time.Sleep(r.Delay())
	return nil
}

// wrap a handler with the request limiter and the connection ceiling
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case s.slots <- struct{}{}:
		default:
			s.log.Warnf("deny: %s  error: %s", r.RemoteAddr, fault.ErrTooManyConnections)
			sendError(w, fault.ErrTooManyConnections.Error(), http.StatusServiceUnavailable)
			return
		}
		defer func() { <-s.slots }()

		if err := limit(s.limiter); nil != err {
			sendError(w, err.Error(), http.StatusTooManyRequests)
			return
		}

		s.requests.Add(1)
		s.log.Tracef("%s %s from: %s", r.Method, r.URL.Path, r.RemoteAddr)
		next(w, r)
	}
}
