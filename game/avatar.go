// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package game

// Gold - item name that refers to the avatar's gold
const Gold = "gold"

// Avatar - game state of one address at one block height
//
// never persisted, always rebuilt by replaying moves
type Avatar struct {
	Name         string           `json:"name"`
	User         string           `json:"user"`
	Class        string           `json:"class"`
	Level        int64            `json:"level"`
	Gold         int64            `json:"gold"`
	Exp          int64            `json:"exp"`
	HP           int64            `json:"hp"`
	HPMax        int64            `json:"hp_max"`
	Strength     int64            `json:"strength"`
	Dexterity    int64            `json:"dexterity"`
	Intelligence int64            `json:"intelligence"`
	Constitution int64            `json:"constitution"`
	Luck         int64            `json:"luck"`
	Items        map[string]int64 `json:"items"`
	Zone         string           `json:"zone"`
	GravatarHash string           `json:"gravatar_hash"`
	Height       uint64           `json:"height"`
}

// Clone - deep copy so effects never alias a previous state
func (a *Avatar) Clone() *Avatar {
	if nil == a {
		return nil
	}
	c := *a
	c.Items = make(map[string]int64, len(a.Items))
	for k, v := range a.Items {
		c.Items[k] = v
	}
	return &c
}

// Dead - no hit points left
func (a *Avatar) Dead() bool {
	return a.HP <= 0
}

// Count - number of an item held, gold included
func (a *Avatar) Count(item string) int64 {
	if Gold == item {
		return a.Gold
	}
	return a.Items[item]
}

// Add - receive some of an item
func (a *Avatar) Add(item string, n int64) {
	if Gold == item {
		a.Gold += n
		return
	}
	if nil == a.Items {
		a.Items = make(map[string]int64)
	}
	a.Items[item] += n
}

// Remove - give up some of an item, false if not enough are held
func (a *Avatar) Remove(item string, n int64) bool {
	if n <= 0 || a.Count(item) < n {
		return false
	}
	if Gold == item {
		a.Gold -= n
		return true
	}
	a.Items[item] -= n
	if 0 == a.Items[item] {
		delete(a.Items, item)
	}
	return true
}

// stat - pointer to a named attribute
func (a *Avatar) stat(name string) *int64 {
	switch name {
	case "strength":
		return &a.Strength
	case "dexterity":
		return &a.Dexterity
	case "intelligence":
		return &a.Intelligence
	case "constitution":
		return &a.Constitution
	case "luck":
		return &a.Luck
	default:
		return nil
	}
}
