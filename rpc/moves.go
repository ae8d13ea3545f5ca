// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/game"
	"github.com/nekoyume/nekoyume/move"
	"github.com/nekoyume/nekoyume/peer"
	"github.com/nekoyume/nekoyume/player"
)

func (s *Server) getMove(w http.ResponseWriter, r *http.Request) {
	m, err := s.Ledger.Move(r.PathValue("id"))
	if nil != err {
		s.log.Errorf("read move error: %s", err)
		sendInternalServerError(w)
		return
	}
	reply := peer.MoveReply{}
	if nil == m {
		sendReply(w, reply)
		return
	}
	reply.Move = m.Wire()
	if m.Confirmed() {
		header, err := s.Ledger.Header(m.BlockID)
		if nil != err {
			s.log.Errorf("read block: %d  error: %s", m.BlockID, err)
			sendInternalServerError(w)
			return
		}
		if nil != header {
			reply.Move.Block = header.Header()
		}
	}
	sendReply(w, reply)
}

// accept an unconfirmed move into the pool
//
// a move already known is a success, sends the signer cannot cover
// are refused
func (s *Server) postMove(w http.ResponseWriter, r *http.Request) {
	log := s.log

	body, err := io.ReadAll(io.LimitReader(r.Body, maximumBodySize))
	if nil != err {
		sendFailed(w, err.Error())
		return
	}
	if 0 == len(body) {
		sendFailed(w, "empty move.")
		return
	}
	wire := move.Wire{}
	err = json.Unmarshal(body, &wire)
	if nil != err {
		sendFailed(w, err.Error())
		return
	}

	existing, err := s.Ledger.Move(wire.ID)
	if nil != err {
		log.Errorf("read move error: %s", err)
		sendInternalServerError(w)
		return
	}
	if nil != existing {
		sendSuccess(w)
		return
	}

	m, err := wire.Move(0)
	if nil != err {
		sendFailed(w, err.Error())
		return
	}
	m.BlockID = 0

	err = m.Valid()
	if nil != err {
		sendFailed(w, "move "+m.ID+" isn't valid: "+err.Error())
		return
	}
	err = block.Fits(m)
	if nil != err {
		sendFailed(w, "move "+m.ID+" isn't valid: "+err.Error())
		return
	}
	if !game.Known(m.Name) {
		sendFailed(w, "move "+m.ID+" has unknown name: "+m.Name)
		return
	}
	if nil != s.Avatars {
		err = player.Affordable(s.Avatars, m)
		if nil != err {
			sendFailed(w, "move "+m.ID+" isn't valid: "+err.Error())
			return
		}
	}

	err = s.Ledger.AddMove(m)
	if fault.ErrMoveExists == err {
		sendSuccess(w)
		return
	}
	if nil != err {
		log.Errorf("add move: %s  error: %s", m.ID, err)
		sendInternalServerError(w)
		return
	}
	log.Debugf("accepted move: %s  name: %s  from: %q", m.ID, m.Name, wire.SentNode)

	if nil != s.Broadcaster {
		s.Broadcaster.Move(m, wire.SentNode)
	}
	sendSuccess(w)
}
