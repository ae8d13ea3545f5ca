// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"context"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/ledger"
	"github.com/nekoyume/nekoyume/mode"
	"github.com/nekoyume/nekoyume/move"
	"github.com/nekoyume/nekoyume/peer"
	"github.com/nekoyume/nekoyume/player"
)

// defaults
const (
	defaultMaximumConnections = 100
	defaultBandwidth          = 200 // requests per second
	defaultBurst              = 100

	// largest request body accepted
	maximumBodySize = 1 << 20

	// a node not seen for this long is not advertised
	nodeAge = 3 * time.Hour

	// most nodes in a GET /nodes reply
	maximumNodes = 2500

	shutdownTimeout = 5 * time.Second
)

// Configuration - listener settings from the configuration file
type Configuration struct {
	Listen             []string `gluamapper:"listen" json:"listen"`
	MaximumConnections int      `gluamapper:"maximum_connections" json:"maximum_connections"`
	Bandwidth          float64  `gluamapper:"bandwidth" json:"bandwidth"`
}

// Broadcaster - outbound fan out of accepted data
type Broadcaster interface {
	Block(b *block.Block, sentNode string)
	Move(m *move.Move, sentNode string)
	Node(nodeURL string, sentNode string)
}

// Synchroniser - request a background chain synchronisation
type Synchroniser interface {
	Trigger(target string)
}

// Options - collaborators of the server
//
// Broadcaster, Synchroniser and Mode may be nil
type Options struct {
	Ledger       *ledger.Ledger
	Registry     *peer.Registry
	Client       peer.Client
	Avatars      player.Avatars
	Broadcaster  Broadcaster
	Synchroniser Synchroniser
	Mode         *mode.State
	PublicURL    string
	Version      string
}

// Server - the HTTP handlers of one node
type Server struct {
	Options

	limiter  *rate.Limiter
	slots    chan struct{}
	requests atomic.Uint64
	start    time.Time
	listen   []string
	log      *logger.L
}

// New - server with the given listener configuration
func New(configuration *Configuration, options Options) *Server {
	maximum := configuration.MaximumConnections
	if maximum <= 0 {
		maximum = defaultMaximumConnections
	}
	bandwidth := configuration.Bandwidth
	if bandwidth <= 0 {
		bandwidth = defaultBandwidth
	}
	return &Server{
		Options: options,
		limiter: rate.NewLimiter(rate.Limit(bandwidth), defaultBurst),
		slots:   make(chan struct{}, maximum),
		start:   time.Now().UTC(),
		listen:  configuration.Listen,
		log:     logger.New("rpc"),
	}
}

// Handler - routes of the node API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", s.guard(s.ping))
	mux.HandleFunc("GET /info", s.guard(s.info))
	mux.HandleFunc("GET /public_url", s.guard(s.publicURL))
	mux.HandleFunc("GET /blocks/last", s.guard(s.lastBlock))
	mux.HandleFunc("GET /blocks/{id}", s.guard(s.getBlock))
	mux.HandleFunc("GET /blocks", s.guard(s.getBlocks))
	mux.HandleFunc("POST /blocks", s.guard(s.postBlock))
	mux.HandleFunc("GET /moves/{id}", s.guard(s.getMove))
	mux.HandleFunc("POST /moves", s.guard(s.postMove))
	mux.HandleFunc("GET /nodes", s.guard(s.getNodes))
	mux.HandleFunc("POST /nodes", s.guard(s.postNode))
	mux.HandleFunc("GET /avatars/{address}", s.guard(s.getAvatar))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		sendNotFound(w)
	})
	return mux
}

// Run - background process serving every listen address
func (s *Server) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	log.Info("starting…")

	handler := s.Handler()
	servers := make([]*http.Server, 0, len(s.listen))
	wg := sync.WaitGroup{}

	for _, address := range s.listen {
		listener, err := net.Listen("tcp", address)
		if nil != err {
			log.Errorf("listen on: %q  error: %s", address, err)
			continue
		}
		server := &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
		}
		servers = append(servers, server)

		log.Infof("listen on: %q", listener.Addr())
		wg.Add(1)
		go func(address string) {
			defer wg.Done()
			err := server.Serve(listener)
			if http.ErrServerClosed != err {
				log.Errorf("server: %q  error: %s", address, err)
			}
		}(address)
	}

	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, server := range servers {
		server.Shutdown(ctx)
	}
	wg.Wait()
	log.Info("stopped")
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// PublicURLReply - body of GET /public_url, null when not configured
type PublicURLReply struct {
	URL *string `json:"url"`
}

func (s *Server) publicURL(w http.ResponseWriter, r *http.Request) {
	reply := PublicURLReply{}
	if "" != s.PublicURL {
		u := s.PublicURL
		reply.URL = &u
	}
	sendReply(w, reply)
}

// InfoReply - body of GET /info
type InfoReply struct {
	Mode      string `json:"mode"`
	Height    uint64 `json:"height"`
	Nodes     int    `json:"nodes"`
	Pending   int    `json:"pending"`
	Requests  uint64 `json:"requests"`
	PublicURL string `json:"public_url"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	pending, err := s.Ledger.Unconfirmed(0)
	if nil != err {
		s.log.Errorf("read unconfirmed error: %s", err)
		sendInternalServerError(w)
		return
	}
	reply := InfoReply{
		Mode:      mode.Stopped.String(),
		Height:    s.Ledger.Height(),
		Nodes:     len(s.Registry.All()),
		Pending:   len(pending),
		Requests:  s.requests.Load(),
		PublicURL: s.PublicURL,
		Version:   s.Version,
		Uptime:    time.Since(s.start).Round(time.Second).String(),
	}
	if nil != s.Mode {
		reply.Mode = s.Mode.String()
	}
	sendReply(w, reply)
}
