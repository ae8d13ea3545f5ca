// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"errors"
	"io"
	"net/http"
	"regexp"
	"strconv"

	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/ledger"
	"github.com/nekoyume/nekoyume/peer"
)

var hashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func (s *Server) lastBlock(w http.ResponseWriter, r *http.Request) {
	b, err := s.Ledger.LastBlock()
	s.sendBlock(w, b, err)
}

// by numeric id or by 64 digit hash
func (s *Server) getBlock(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("id")
	if hashPattern.MatchString(key) {
		b, err := s.Ledger.BlockByHash(key)
		s.sendBlock(w, b, err)
		return
	}
	id, err := strconv.ParseUint(key, 10, 64)
	if nil != err {
		sendBadRequest(w, "invalid block id")
		return
	}
	b, err := s.Ledger.Block(id)
	s.sendBlock(w, b, err)
}

func (s *Server) sendBlock(w http.ResponseWriter, b *block.Block, err error) {
	if nil != err {
		s.log.Errorf("read block error: %s", err)
		sendInternalServerError(w)
		return
	}
	reply := peer.BlockReply{}
	if nil != b {
		reply.Block = b.Wire(block.Full)
	}
	sendReply(w, reply)
}

// from defaults to 1, to defaults to the end of the page
func (s *Server) getBlocks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from := uint64(1)
	if v := query.Get("from"); "" != v {
		n, err := strconv.ParseUint(v, 10, 64)
		if nil != err {
			sendBadRequest(w, "invalid from")
			return
		}
		from = n
	}
	if 0 == from {
		from = 1
	}
	to := from + ledger.PageSize - 1
	if v := query.Get("to"); "" != v {
		n, err := strconv.ParseUint(v, 10, 64)
		if nil != err {
			sendBadRequest(w, "invalid to")
			return
		}
		to = n
	}

	blocks, err := s.Ledger.Blocks(from, to)
	if nil != err {
		s.log.Errorf("read blocks: [%d, %d]  error: %s", from, to, err)
		sendInternalServerError(w)
		return
	}
	reply := peer.BlocksReply{
		Blocks: make([]*block.Wire, 0, len(blocks)),
	}
	for _, b := range blocks {
		reply.Blocks = append(reply.Blocks, b.Wire(block.Full))
	}
	sendReply(w, reply)
}

// accept the next block of the chain
//
// a block that does not follow the local tip is refused with 403 and
// the local height, and starts a synchronisation when the sender
// appears to be ahead
func (s *Server) postBlock(w http.ResponseWriter, r *http.Request) {
	log := s.log

	body, err := io.ReadAll(io.LimitReader(r.Body, maximumBodySize))
	if nil != err {
		sendFailed(w, err.Error())
		return
	}
	b, sentNode, err := block.Deserialize(body)
	if fault.ErrEmptyBody == err {
		sendFailed(w, "empty block.")
		return
	}
	if nil != err {
		sendFailed(w, err.Error())
		return
	}

	existing, err := s.Ledger.BlockByHash(b.Hash)
	if nil != err {
		log.Errorf("read block error: %s", err)
		sendInternalServerError(w)
		return
	}
	if nil != existing {
		sendFailed(w, "this node already has this block.")
		return
	}

	last, err := s.Ledger.LastBlock()
	if nil != err {
		log.Errorf("read last block error: %s", err)
		sendInternalServerError(w)
		return
	}
	height := uint64(0)
	tipHash := ""
	if nil != last {
		height = last.ID
		tipHash = last.Hash
	}
	if b.ID != height+1 || b.PrevHash != tipHash {
		log.Infof("not next block: %d  local height: %d  from: %q", b.ID, height, sentNode)
		if b.ID > height && nil != s.Synchroniser {
			s.Synchroniser.Trigger(sentNode)
		}
		sendStatus(w, http.StatusForbidden, peer.Result{
			Result:  peer.ResultFailed,
			Message: "new block isn't our next block.",
			BlockID: &height,
		})
		return
	}

	err = attachMoves(s.Ledger, b)
	if nil != err {
		sendFailed(w, err.Error())
		return
	}
	err = b.Valid(s.Ledger)
	if nil != err {
		log.Warnf("block: %d  invalid: %s", b.ID, err)
		sendFailed(w, "new block isn't valid: "+err.Error())
		return
	}

	err = s.Ledger.Commit(b)
	if fault.IsErrExists(err) || errors.Is(err, fault.ErrChainConflict) {
		sendFailed(w, "this node already has this block.")
		return
	}
	if nil != err {
		log.Errorf("commit block: %d  error: %s", b.ID, err)
		sendInternalServerError(w)
		return
	}
	log.Infof("accepted block: %d  hash: %s  from: %q", b.ID, b.Hash, sentNode)

	if nil != s.Broadcaster {
		s.Broadcaster.Block(b, sentNode)
	}
	sendSuccess(w)
}

// replace received moves by the local copy where one exists and
// validate each of them
func attachMoves(l *ledger.Ledger, b *block.Block) error {
	for i, received := range b.Moves {
		existing, err := l.Move(received.ID)
		if nil != err {
			return err
		}
		if nil != existing {
			existing.BlockID = b.ID
			b.Moves[i] = existing
		}
		err = b.Moves[i].Valid()
		if nil != err {
			return err
		}
	}
	return nil
}
