// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nekoyume/nekoyume/account"
	"github.com/nekoyume/nekoyume/peer"
)

// recently seen nodes together with this one
func (s *Server) getNodes(w http.ResponseWriter, r *http.Request) {
	nodes := s.Registry.Since(time.Now().Add(-nodeAge), maximumNodes)
	urls := peer.URLs(nodes)
	if "" != s.PublicURL {
		urls = append(urls, s.PublicURL)
	}
	sendReply(w, peer.NodesReply{Nodes: urls})
}

// register a node that answers a ping
//
// the url is taken from a JSON body or a url form value
func (s *Server) postNode(w http.ResponseWriter, r *http.Request) {
	request := peer.NodeRequest{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maximumBodySize)).Decode(&request)
		if nil != err {
			sendFailed(w, err.Error())
			return
		}
	} else {
		request.URL = r.FormValue("url")
		request.SentNode = r.FormValue("sent_node")
	}
	if "" == request.URL {
		sendFailed(w, "url is required.")
		return
	}

	u, err := peer.Normalise(request.URL)
	if nil != err {
		sendResult(w, http.StatusForbidden, err.Error())
		return
	}
	if u == s.PublicURL {
		sendSuccess(w)
		return
	}
	_, known := s.Registry.Get(u)

	err = peer.Register(s.Registry, s.Client, u)
	if nil != err {
		s.log.Warnf("register node: %s  error: %s", u, err)
		sendResult(w, http.StatusForbidden, "connection failed: "+err.Error())
		return
	}
	if !known {
		s.log.Infof("registered node: %s", u)
		if nil != s.Broadcaster {
			s.Broadcaster.Node(u, request.SentNode)
		}
	}
	sendSuccess(w)
}

// replayed avatar, at the tip unless a height is given
func (s *Server) getAvatar(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if !account.ValidAddress(address) {
		sendBadRequest(w, "invalid address")
		return
	}
	height := uint64(0)
	if v := r.URL.Query().Get("height"); "" != v {
		n, err := strconv.ParseUint(v, 10, 64)
		if nil != err {
			sendBadRequest(w, "invalid height")
			return
		}
		height = n
	}

	reply := peer.AvatarReply{}
	if nil != s.Avatars {
		avatar, err := s.Avatars.Get(address, height)
		if nil != err {
			s.log.Errorf("replay: %s  height: %d  error: %s", address, height, err)
			sendInternalServerError(w)
			return
		}
		reply.Avatar = avatar
	}
	sendReply(w, reply)
}
