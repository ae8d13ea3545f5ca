// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package player - signed moves on behalf of one key
package player

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nekoyume/nekoyume/account"
	"github.com/nekoyume/nekoyume/block"
	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/game"
	"github.com/nekoyume/nekoyume/move"
)

// Avatars - source of replayed state, height zero meaning the tip
type Avatars interface {
	Get(address string, height uint64) (*game.Avatar, error)
}

// Pool - destination of newly signed moves
type Pool interface {
	AddMove(m *move.Move) error
}

// Player - a key together with where its moves go
type Player struct {
	key     *account.PrivateKey
	avatars Avatars
	pool    Pool

	// Now - clock for created_at, move.Now when nil
	Now func() time.Time
}

// New - player for key
//
// pool may be nil, the moves are then only returned
func New(key *account.PrivateKey, avatars Avatars, pool Pool) *Player {
	return &Player{
		key:     key,
		avatars: avatars,
		pool:    pool,
	}
}

// Address - address of the player's key
func (p *Player) Address() string {
	return p.key.Address()
}

// Move - sign, validate and pool a move
func (p *Player) Move(name string, details move.Details, tax int64) (*move.Move, error) {
	m := move.New(name, details)
	m.Tax = tax
	if nil != p.Now {
		m.CreatedAt = move.Timestamp(p.Now())
	}
	err := m.Sign(p.key)
	if nil != err {
		return nil, err
	}
	err = m.Valid()
	if nil != err {
		return nil, err
	}
	err = block.Fits(m)
	if nil != err {
		return nil, err
	}
	if nil != p.pool {
		err = p.pool.AddMove(m)
		if nil != err {
			return nil, err
		}
	}
	return m, nil
}

// CreateNovice - new avatar, details may carry name, gravatar_hash and
// the five stats
func (p *Player) CreateNovice(details move.Details) (*move.Move, error) {
	return p.Move(move.CreateNovice, details, 0)
}

// HackAndSlash - fight in the current zone
func (p *Player) HackAndSlash() (*move.Move, error) {
	return p.Move(move.HackAndSlash, move.NewDetails(nil), 0)
}

// Sleep - restore hit points
func (p *Player) Sleep() (*move.Move, error) {
	return p.Move(move.Sleep, move.NewDetails(nil), 0)
}

// LevelUp - spend experience on one stat
func (p *Player) LevelUp(status string) (*move.Move, error) {
	return p.Move(move.LevelUp, move.NewDetails(map[string]string{"new_status": status}), 0)
}

// Say - chat
func (p *Player) Say(content string) (*move.Move, error) {
	return p.Move(move.Say, move.NewDetails(map[string]string{"content": content}), 0)
}

// MoveZone - travel to a zone
func (p *Player) MoveZone(zone string) (*move.Move, error) {
	return p.Move(move.MoveZone, move.NewDetails(map[string]string{"zone": zone}), 0)
}

// FirstClass - leave the novice class
func (p *Player) FirstClass(class string) (*move.Move, error) {
	return p.Move(move.FirstClass, move.NewDetails(map[string]string{"class": class}), 0)
}

// Send - give amount of item to receiver
//
// fails with ErrInsufficientItems, before signing, when the replayed
// avatar does not hold enough
func (p *Player) Send(item string, amount int64, receiver string) (*move.Move, error) {
	if !account.ValidAddress(receiver) {
		return nil, fault.ErrInvalidAddress
	}
	details := move.NewDetails(map[string]string{
		"item":           item,
		"amount":         strconv.FormatInt(amount, 10),
		move.ReceiverKey: receiver,
	})
	probe := &move.Move{Name: move.Send, Details: details, UserAddress: p.Address()}
	err := Affordable(p.avatars, probe)
	if nil != err {
		return nil, err
	}
	return p.Move(move.Send, details, 0)
}

// Avatar - replayed state of the player, zero height meaning the tip
func (p *Player) Avatar(height uint64) (*game.Avatar, error) {
	return p.avatars.Get(p.Address(), height)
}

// Affordable - nil unless m is a send its signer cannot cover
func Affordable(avatars Avatars, m *move.Move) error {
	if move.Send != m.Name {
		return nil
	}
	amount := m.Details.Int("amount")
	if amount <= 0 {
		return fault.ErrInvalidAmount
	}
	avatar, err := avatars.Get(m.UserAddress, 0)
	if nil != err {
		return err
	}
	if nil == avatar {
		return fmt.Errorf("%w: no avatar", fault.ErrInsufficientItems)
	}
	item := m.Details.Value("item")
	if held := avatar.Count(item); held < amount {
		return fmt.Errorf("%w: %s held: %d wanted: %d", fault.ErrInsufficientItems, item, held, amount)
	}
	return nil
}
