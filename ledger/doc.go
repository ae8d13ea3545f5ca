// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - blocks and moves kept in the storage pools
//
// reads are available on both the Ledger (committed data) and a Tx
// (its snapshot plus its own pending writes), so validation inside a
// transaction sees the rows it has already replaced or deleted
package ledger
