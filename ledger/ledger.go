// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/move"
	"github.com/nekoyume/nekoyume/storage"
)

// Ledger - committed chain and move pool
type Ledger struct {
	reader

	database *storage.Database
	log      *logger.L

	sync.RWMutex
	observers []func(height uint64)
}

// New - wrap an open database
func New(database *storage.Database) *Ledger {
	return &Ledger{
		reader:   reader{r: database, pools: &database.Pools},
		database: database,
		log:      logger.New("ledger"),
	}
}

// Begin - start a write transaction
func (l *Ledger) Begin() (*Tx, error) {
	t, err := l.database.Begin()
	if nil != err {
		return nil, err
	}
	return &Tx{
		reader: reader{r: t, pools: l.pools},
		ledger: l,
		t:      t,
	}, nil
}

// Commit - append one block, satisfies block.Store
func (l *Ledger) Commit(b *block.Block) error {
	tx, err := l.Begin()
	if nil != err {
		return err
	}
	err = tx.PutBlock(b)
	if nil != err {
		tx.Abort()
		return err
	}
	return tx.Commit()
}

// AddMove - record a new unconfirmed move
func (l *Ledger) AddMove(m *move.Move) error {
	tx, err := l.Begin()
	if nil != err {
		return err
	}
	err = tx.PutMove(m)
	if nil != err {
		tx.Abort()
		return err
	}
	return tx.Commit()
}

// DeleteMove - forget a move
func (l *Ledger) DeleteMove(id string) error {
	tx, err := l.Begin()
	if nil != err {
		return err
	}
	err = tx.DeleteMove(id)
	if nil != err {
		tx.Abort()
		return err
	}
	return tx.Commit()
}

// Truncate - delete every block above id, their moves become unconfirmed
func (l *Ledger) Truncate(id uint64) ([]*move.Move, error) {
	tx, err := l.Begin()
	if nil != err {
		return nil, err
	}
	detached, err := tx.DeleteAbove(id)
	if nil != err {
		tx.Abort()
		return nil, err
	}
	err = tx.Commit()
	if nil != err {
		return nil, err
	}
	return detached, nil
}

// OnReorg - register f to run after blocks are deleted
//
// f receives the height the chain was cut back to
func (l *Ledger) OnReorg(f func(height uint64)) {
	l.Lock()
	defer l.Unlock()
	l.observers = append(l.observers, f)
}

func (l *Ledger) reorganised(height uint64) {
	l.RLock()
	defer l.RUnlock()
	for _, f := range l.observers {
		f(height)
	}
}

// compile time check
var _ block.Store = (*Ledger)(nil)
