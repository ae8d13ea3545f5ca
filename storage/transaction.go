// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/nekoyume/nekoyume/fault"
)

// Transaction - a batch of writes over a consistent snapshot
//
// reads see the snapshot taken at Begin plus every write and delete
// already made in this transaction; nothing is visible to other
// readers until Commit
type Transaction struct {
	sync.Mutex
	database *Database
	snapshot *leveldb.Snapshot
	batch    *leveldb.Batch
	changes  map[string]*change
	guards   map[string]struct{}
	finished bool
}

// Begin - start a transaction
func (d *Database) Begin() (*Transaction, error) {
	snapshot, err := d.db.GetSnapshot()
	if nil != err {
		return nil, err
	}
	return &Transaction{
		database: d,
		snapshot: snapshot,
		batch:    new(leveldb.Batch),
		changes:  make(map[string]*change),
		guards:   make(map[string]struct{}),
	}, nil
}

// Put - store a key/value pair
func (t *Transaction) Put(pool *PoolHandle, key []byte, value []byte) {
	t.Lock()
	defer t.Unlock()
	k := pool.prefixKey(key)
	v := append([]byte(nil), value...)
	t.batch.Put(k, v)
	t.changes[string(k)] = &change{value: v}
}

// Delete - remove a key
func (t *Transaction) Delete(pool *PoolHandle, key []byte) {
	t.Lock()
	defer t.Unlock()
	k := pool.prefixKey(key)
	t.batch.Delete(k)
	t.changes[string(k)] = &change{deleted: true}
}

// Guard - fail the commit if this key was changed by anyone else
// after the snapshot was taken
func (t *Transaction) Guard(pool *PoolHandle, key []byte) {
	t.Lock()
	defer t.Unlock()
	t.guards[string(pool.prefixKey(key))] = struct{}{}
}

// Get - read through pending changes then the snapshot
func (t *Transaction) Get(pool *PoolHandle, key []byte) []byte {
	t.Lock()
	defer t.Unlock()
	if c, ok := t.changes[string(pool.prefixKey(key))]; ok {
		if c.deleted {
			return nil
		}
		return append([]byte(nil), c.value...)
	}
	return get(t.snapshot, pool, key)
}

// Has - check a key through pending changes then the snapshot
func (t *Transaction) Has(pool *PoolHandle, key []byte) bool {
	return nil != t.Get(pool, key)
}

// Map - iterate the snapshot merged with pending changes
func (t *Transaction) Map(pool *PoolHandle, start []byte, limit []byte, reverse bool, f func(key []byte, value []byte) bool) error {
	t.Lock()
	changes := make(map[string]*change, len(t.changes))
	for k, v := range t.changes {
		changes[k] = v
	}
	t.Unlock()
	return mapRange(t.snapshot, changes, pool, start, limit, reverse, f)
}

// Commit - write everything atomically
//
// returns fault.ErrChainConflict without writing if a guarded key
// differs from its snapshot value
func (t *Transaction) Commit() error {
	t.Lock()
	defer t.Unlock()
	if t.finished {
		return fault.ErrNotInitialised
	}
	defer t.release()

	d := t.database
	d.writer.Lock()
	defer d.writer.Unlock()

	for k := range t.guards {
		before, err := t.snapshot.Get([]byte(k), nil)
		if nil != err && leveldb.ErrNotFound != err {
			return err
		}
		now, err := d.db.Get([]byte(k), nil)
		if nil != err && leveldb.ErrNotFound != err {
			return err
		}
		if !bytes.Equal(before, now) {
			d.log.Warnf("commit conflict on key: %x", k)
			return fault.ErrChainConflict
		}
	}

	return d.db.Write(t.batch, nil)
}

// Abort - discard all changes
func (t *Transaction) Abort() {
	t.Lock()
	defer t.Unlock()
	if !t.finished {
		t.release()
	}
}

func (t *Transaction) release() {
	t.finished = true
	t.snapshot.Release()
	t.batch.Reset()
	t.changes = nil
}
