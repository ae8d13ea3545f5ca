// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// every error a node reports is a single typed instance so callers
// compare with errors.Is and classify with the IsErr* predicates:
// invalid data is refused with 400, missing data is 404, a record
// error means the chain moved underneath a commit and the work can
// be retried
package fault
