// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"
)

// PoolHandle - one prefix partition of the database
type PoolHandle struct {
	prefix byte
	limit  []byte
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// Reader - read access shared by the database and transactions
type Reader interface {
	Get(pool *PoolHandle, key []byte) []byte
	Has(pool *PoolHandle, key []byte) bool
	Map(pool *PoolHandle, start []byte, limit []byte, reverse bool, f func(key []byte, value []byte) bool) error
}

// leveldb.DB and leveldb.Snapshot both satisfy this
type source interface {
	Get(key []byte, ro *ldb_opt.ReadOptions) ([]byte, error)
	NewIterator(slice *ldb_util.Range, ro *ldb_opt.ReadOptions) iterator.Iterator
}

// pending write in a transaction, nil value means deleted
type change struct {
	value   []byte
	deleted bool
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Uint64Key - big endian encoding so numeric order is key order
func Uint64Key(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// Uint64FromKey - decode the first eight bytes
func Uint64FromKey(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b[:8])
}

// Get - read a committed value, nil if absent
func (d *Database) Get(pool *PoolHandle, key []byte) []byte {
	return get(d.db, pool, key)
}

// Has - check a committed key
func (d *Database) Has(pool *PoolHandle, key []byte) bool {
	return nil != d.Get(pool, key)
}

// Map - run f on committed elements with start <= key < limit
//
// a nil limit means the end of the pool; f returns false to stop
func (d *Database) Map(pool *PoolHandle, start []byte, limit []byte, reverse bool, f func(key []byte, value []byte) bool) error {
	return mapRange(d.db, nil, pool, start, limit, reverse, f)
}

// LastElement - the element with the highest key in a pool
func (d *Database) LastElement(pool *PoolHandle) (Element, bool) {
	result := Element{}
	found := false
	err := d.Map(pool, nil, nil, true, func(key []byte, value []byte) bool {
		result = Element{Key: key, Value: value}
		found = true
		return false
	})
	logger.PanicIfError("pool.LastElement", err)
	return result, found
}

func get(s source, pool *PoolHandle, key []byte) []byte {
	value, err := s.Get(pool.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("pool.Get", err)
	return value
}

// merge the leveldb range with any pending changes
func mapRange(s source, changes map[string]*change, pool *PoolHandle, start []byte, limit []byte, reverse bool, f func(key []byte, value []byte) bool) error {

	maxRange := ldb_util.Range{
		Start: pool.prefixKey(start), // Start of key range, included in the range
		Limit: pool.limit,            // Limit of key range, excluded from the range
	}
	if nil != limit {
		maxRange.Limit = pool.prefixKey(limit)
	}

	inRange := func(k []byte) bool {
		return bytes.Compare(k, maxRange.Start) >= 0 && (nil == maxRange.Limit || bytes.Compare(k, maxRange.Limit) < 0)
	}

	pending := make([]string, 0, len(changes))
	for k := range changes {
		if inRange([]byte(k)) {
			pending = append(pending, k)
		}
	}
	sort.Strings(pending)
	if reverse {
		for i, j := 0, len(pending)-1; i < j; i, j = i+1, j-1 {
			pending[i], pending[j] = pending[j], pending[i]
		}
	}

	// true if a should be visited before b
	before := func(a []byte, b []byte) bool {
		if reverse {
			return bytes.Compare(a, b) > 0
		}
		return bytes.Compare(a, b) < 0
	}

	emit := func(key []byte, value []byte) bool {
		dataKey := make([]byte, len(key)-1) // strip the prefix
		copy(dataKey, key[1:])              // ...

		dataValue := make([]byte, len(value))
		copy(dataValue, value)
		return f(dataKey, dataValue)
	}

	iter := s.NewIterator(&maxRange, nil)
	defer iter.Release()

	valid := iter.First()
	if reverse {
		valid = iter.Last()
	}
	advance := func() bool {
		if reverse {
			return iter.Prev()
		}
		return iter.Next()
	}

	for valid || len(pending) > 0 {
		if len(pending) > 0 && (!valid || !before(iter.Key(), []byte(pending[0]))) {
			k := pending[0]
			pending = pending[1:]
			if valid && bytes.Equal(iter.Key(), []byte(k)) {
				valid = advance()
			}
			c := changes[k]
			if c.deleted {
				continue
			}
			if !emit([]byte(k), c.value) {
				return nil
			}
			continue
		}

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		if !emit(iter.Key(), iter.Value()) {
			return nil
		}
		valid = advance()
	}
	return iter.Error()
}
