// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

// a state type for the machine
type state int

// states of one synchronisation run
const (
	// nothing in progress
	cStateIdle state = iota

	// ask peers for their tip and pick the tallest
	cStateQueryingPeers

	// bisect for the highest block shared with the chosen peer
	cStateLocatingBranchPoint

	// drop the local tail and fetch a page of peer blocks
	cStateDownloadingRange

	// check and store the fetched page
	cStateValidatingAndCommitting
)

func (state state) String() string {
	switch state {
	case cStateIdle:
		return "Idle"
	case cStateQueryingPeers:
		return "QueryingPeers"
	case cStateLocatingBranchPoint:
		return "LocatingBranchPoint"
	case cStateDownloadingRange:
		return "DownloadingRange"
	case cStateValidatingAndCommitting:
		return "ValidatingAndCommitting"
	default:
		return "*Unknown*"
	}
}
