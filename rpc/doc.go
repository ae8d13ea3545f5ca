// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - HTTP interface between nodes and to players
//
// all replies are JSON; POST replies carry a result code of either
// "success" or "failed" together with a human readable message
//
//	GET  /ping                  pong
//	GET  /info                  node status
//	GET  /blocks/last           {block: …|null}
//	GET  /blocks/{id|hash}      {block: …|null}
//	GET  /blocks?from=N&to=M    {blocks: […]}
//	POST /blocks                200 success, 400 invalid, 403 not next block
//	POST /moves                 200 success or known, 400 invalid
//	GET  /moves/{id}            {move: …|null}
//	GET  /nodes                 {nodes: […]}
//	POST /nodes                 200 success, 403 unreachable
//	GET  /avatars/{address}     {avatar: …|null}
package rpc
