// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer - known remote nodes and the HTTP client used to talk to them
//
// the registry is kept in the nodes pool of the database:
//
//	N ++ url  - last connected time (big endian unix nanoseconds)
//
// every remote call is bounded by a short timeout; any transport
// error, timeout or unexpected status is reported as
// fault.ErrPeerUnavailable
package peer
