// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/game"
	"github.com/nekoyume/nekoyume/move"
)

// Timeout - limit on every remote call
const Timeout = 3 * time.Second

// largest reply body accepted
const maximumReplySize = 64 << 20

// Client - calls made to a remote node
type Client interface {
	Ping(nodeURL string) error
	LastBlock(nodeURL string) (*block.Block, error)
	Block(nodeURL string, id uint64) (*block.Block, error)
	Blocks(nodeURL string, from uint64, to uint64) ([]*block.Block, error)
	PostBlock(nodeURL string, b *block.Block, sentNode string) (Result, error)
	PostMove(nodeURL string, m *move.Move, sentNode string) (Result, error)
	Nodes(nodeURL string) ([]string, error)
	Announce(nodeURL string, self string) error
}

// HTTPClient - Client over plain HTTP with JSON bodies
type HTTPClient struct {
	client *http.Client
	log    *logger.L
}

// NewClient - client with the given timeout, Timeout if zero
func NewClient(timeout time.Duration) *HTTPClient {
	if 0 == timeout {
		timeout = Timeout
	}
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
		log:    logger.New("peer"),
	}
}

// Ping - GET /ping expecting pong
func (c *HTTPClient) Ping(nodeURL string) error {
	body, err := c.get(nodeURL, "/ping", nil)
	if nil != err {
		return err
	}
	if "pong" != strings.TrimSpace(string(body)) {
		return unavailable(nodeURL, "bad ping reply")
	}
	return nil
}

// LastBlock - tip of the remote chain, nil if it is empty
func (c *HTTPClient) LastBlock(nodeURL string) (*block.Block, error) {
	return c.block(nodeURL, "/blocks/last")
}

// Block - remote block by id, nil if the remote does not have it
func (c *HTTPClient) Block(nodeURL string, id uint64) (*block.Block, error) {
	return c.block(nodeURL, "/blocks/"+strconv.FormatUint(id, 10))
}

// Blocks - ascending remote blocks with from <= id <= to
func (c *HTTPClient) Blocks(nodeURL string, from uint64, to uint64) ([]*block.Block, error) {
	query := url.Values{}
	query.Set("from", strconv.FormatUint(from, 10))
	query.Set("to", strconv.FormatUint(to, 10))

	body, err := c.get(nodeURL, "/blocks", query)
	if nil != err {
		return nil, err
	}
	reply := BlocksReply{}
	err = json.Unmarshal(body, &reply)
	if nil != err {
		return nil, unavailable(nodeURL, err.Error())
	}
	blocks := make([]*block.Block, 0, len(reply.Blocks))
	for _, w := range reply.Blocks {
		b, err := w.Block()
		if nil != err {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// PostBlock - offer a block to a remote node
func (c *HTTPClient) PostBlock(nodeURL string, b *block.Block, sentNode string) (Result, error) {
	w := b.Wire(block.Full)
	w.SentNode = sentNode
	return c.post(nodeURL, "/blocks", w)
}

// PostMove - offer a move to a remote node
func (c *HTTPClient) PostMove(nodeURL string, m *move.Move, sentNode string) (Result, error) {
	w := m.Wire()
	w.SentNode = sentNode
	return c.post(nodeURL, "/moves", w)
}

// Nodes - urls the remote node knows about
func (c *HTTPClient) Nodes(nodeURL string) ([]string, error) {
	body, err := c.get(nodeURL, "/nodes", nil)
	if nil != err {
		return nil, err
	}
	reply := NodesReply{}
	err = json.Unmarshal(body, &reply)
	if nil != err {
		return nil, unavailable(nodeURL, err.Error())
	}
	return reply.Nodes, nil
}

// Move - remote move by id, nil if the remote does not know it
func (c *HTTPClient) Move(nodeURL string, id string) (*move.Move, error) {
	body, err := c.get(nodeURL, "/moves/"+url.PathEscape(id), nil)
	if nil != err {
		return nil, err
	}
	reply := MoveReply{}
	err = json.Unmarshal(body, &reply)
	if nil != err {
		return nil, unavailable(nodeURL, err.Error())
	}
	if nil == reply.Move {
		return nil, nil
	}
	return reply.Move.Move(0)
}

// Avatar - replayed avatar of address on a remote node, zero height
// meaning its tip
func (c *HTTPClient) Avatar(nodeURL string, address string, height uint64) (*game.Avatar, error) {
	query := url.Values{}
	if 0 != height {
		query.Set("height", strconv.FormatUint(height, 10))
	}
	body, err := c.get(nodeURL, "/avatars/"+url.PathEscape(address), query)
	if nil != err {
		return nil, err
	}
	reply := AvatarReply{}
	err = json.Unmarshal(body, &reply)
	if nil != err {
		return nil, unavailable(nodeURL, err.Error())
	}
	return reply.Avatar, nil
}

// Announce - tell a remote node about this one
func (c *HTTPClient) Announce(nodeURL string, self string) error {
	result, err := c.post(nodeURL, "/nodes", NodeRequest{URL: self})
	if nil != err {
		return err
	}
	if ResultSuccess != result.Result {
		return unavailable(nodeURL, result.Message)
	}
	return nil
}

func (c *HTTPClient) block(nodeURL string, path string) (*block.Block, error) {
	body, err := c.get(nodeURL, path, nil)
	if nil != err {
		return nil, err
	}
	reply := BlockReply{}
	err = json.Unmarshal(body, &reply)
	if nil != err {
		return nil, unavailable(nodeURL, err.Error())
	}
	if nil == reply.Block {
		return nil, nil
	}
	return reply.Block.Block()
}

func (c *HTTPClient) get(nodeURL string, path string, query url.Values) ([]byte, error) {
	target := strings.TrimRight(nodeURL, "/") + path
	if 0 != len(query) {
		target += "?" + query.Encode()
	}
	c.log.Tracef("GET %s", target)

	response, err := c.client.Get(target)
	if nil != err {
		return nil, unavailable(nodeURL, err.Error())
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maximumReplySize))
	if nil != err {
		return nil, unavailable(nodeURL, err.Error())
	}
	if http.StatusOK != response.StatusCode {
		return nil, unavailable(nodeURL, response.Status)
	}
	return body, nil
}

// 200, 400 and 403 all carry a Result
func (c *HTTPClient) post(nodeURL string, path string, payload interface{}) (Result, error) {
	buffer, err := json.Marshal(payload)
	if nil != err {
		return Result{}, err
	}
	target := strings.TrimRight(nodeURL, "/") + path
	c.log.Tracef("POST %s", target)

	response, err := c.client.Post(target, "application/json", bytes.NewReader(buffer))
	if nil != err {
		return Result{}, unavailable(nodeURL, err.Error())
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK, http.StatusBadRequest, http.StatusForbidden:
	default:
		return Result{}, unavailable(nodeURL, response.Status)
	}

	result := Result{}
	err = json.NewDecoder(io.LimitReader(response.Body, maximumReplySize)).Decode(&result)
	if nil != err {
		return Result{}, unavailable(nodeURL, err.Error())
	}
	if http.StatusOK != response.StatusCode && ResultSuccess == result.Result {
		result.Result = ResultFailed
	}
	return result, nil
}

func unavailable(nodeURL string, reason string) error {
	return fmt.Errorf("%w: %s: %s", fault.ErrPeerUnavailable, nodeURL, reason)
}

// compile time check
var _ Client = (*HTTPClient)(nil)
