// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

// SetPageSize - smaller pages so paging can be tested cheaply
func SetPageSize(s *Synchroniser, n uint64) {
	s.pageSize = n
}
