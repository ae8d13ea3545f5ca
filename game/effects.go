// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package game - effects of moves on avatar state
package game

import (
	"errors"
	"fmt"

	"github.com/nekoyume/nekoyume/fault"
	"github.com/nekoyume/nekoyume/move"
)

// possible results
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
	ResultIgnored = "ignored"
	ResultWin     = "win"
	ResultLose    = "lose"
	ResultFinish  = "finish"
)

// Outcome - what happened when a move was applied
type Outcome struct {
	Type    string   `json:"type"`
	Result  string   `json:"result"`
	Message string   `json:"message,omitempty"`
	Log     []string `json:"log,omitempty"`
}

// Effect - owner side transition of one move variant
//
// state is a private copy and may be modified; a nil state means the
// address has no avatar yet
type Effect func(m *move.Move, dice *Dice, state *Avatar) (*Avatar, Outcome)

// static table of owner side effects
var effects = map[string]Effect{
	move.CreateNovice: createNovice,
	move.FirstClass:   firstClass,
	move.HackAndSlash: hackAndSlash,
	move.LevelUp:      levelUp,
	move.MoveZone:     moveZone,
	move.Say:          say,
	move.Send:         send,
	move.Sleep:        sleep,
}

// Known - true if the move name has an effect
func Known(name string) bool {
	_, ok := effects[name]
	return ok
}

var unconfirmed = fmt.Errorf("%w: %w", fault.ErrInvalidMove, fault.ErrMoveUnconfirmed)

// Execute - apply the owner side effect of a confirmed move
//
// blockHash is the hash of the block containing the move and seeds
// the dice; unknown move names leave the state unchanged
func Execute(m *move.Move, blockHash string, state *Avatar) (*Avatar, Outcome, error) {
	if !m.Confirmed() || "" == blockHash {
		return nil, Outcome{}, unconfirmed
	}
	effect, ok := effects[m.Name]
	if !ok {
		return state, Outcome{Type: m.Name, Result: ResultIgnored}, nil
	}
	dice, err := NewDice(blockHash, m.ID)
	if nil != err {
		return nil, Outcome{}, fmt.Errorf("%w: %w", fault.ErrInvalidMove, err)
	}
	next, outcome := effect(m, dice, state.Clone())
	if nil != next {
		next.Height = m.BlockID
	}
	return next, outcome, nil
}

// Receive - receiver side of a transfer addressed to state's owner
func Receive(m *move.Move, state *Avatar) (*Avatar, Outcome, error) {
	if !m.Confirmed() {
		return nil, Outcome{}, unconfirmed
	}
	outcome := Outcome{Type: "receive", Result: ResultFailed}
	if nil == state || move.Send != m.Name {
		return state, outcome, nil
	}
	amount := m.Details.Int("amount")
	item := m.Details.Value("item")
	if amount <= 0 || "" == item {
		return state, outcome, nil
	}
	next := state.Clone()
	next.Add(item, amount)
	next.Height = m.BlockID
	outcome.Result = ResultSuccess
	return next, outcome, nil
}

func failed(kind string, message string, state *Avatar) (*Avatar, Outcome) {
	return state, Outcome{Type: kind, Result: ResultFailed, Message: message}
}

func createNovice(m *move.Move, _ *Dice, previous *Avatar) (*Avatar, Outcome) {
	gold := int64(0)
	if nil != previous {
		gold = previous.Gold
	}

	a := &Avatar{
		User:         m.UserAddress,
		Class:        NoviceClass,
		Level:        1,
		Gold:         gold,
		Items:        map[string]int64{},
		Zone:         StartZone(),
		GravatarHash: defaultGravatarHash,
	}
	if h, ok := m.Details.Get("gravatar_hash"); ok && "" != h {
		a.GravatarHash = h
	}

	name := []rune(m.Details.Value("name"))
	if 0 == len(name) {
		name = []rune(defaultNoviceName)
	}
	if len(name) > maximumNameLength {
		name = name[:maximumNameLength]
	}
	prefix := m.UserAddress
	if len(prefix) > 6 {
		prefix = prefix[:6]
	}
	a.Name = string(name) + "#" + prefix

	stats := []string{"strength", "dexterity", "intelligence", "constitution", "luck"}
	sum := int64(0)
	for _, s := range stats {
		v := m.Details.Int(s)
		switch {
		case 0 == v:
			v = defaultNoviceStat
		case v < minimumNoviceStat:
			v = minimumNoviceStat
		case v > maximumNoviceStat:
			v = maximumNoviceStat
		}
		*a.stat(s) = v
		sum += v
	}
	if sum > NoviceStatSumLimit {
		for _, s := range stats {
			*a.stat(s) = NoviceFallbackStat
		}
	}

	a.HPMax = a.Constitution + hpBonusOverConstitution
	a.HP = a.HPMax

	return a, Outcome{Type: move.CreateNovice, Result: ResultSuccess}
}

func sleep(m *move.Move, _ *Dice, state *Avatar) (*Avatar, Outcome) {
	if nil == state {
		return failed(move.Sleep, "no avatar", nil)
	}
	state.HP = state.HPMax
	return state, Outcome{Type: move.Sleep, Result: ResultSuccess}
}

func say(m *move.Move, _ *Dice, state *Avatar) (*Avatar, Outcome) {
	return state, Outcome{Type: move.Say, Result: ResultSuccess, Message: m.Details.Value("content")}
}

func levelUp(m *move.Move, _ *Dice, state *Avatar) (*Avatar, Outcome) {
	if nil == state {
		return failed(move.LevelUp, "no avatar", nil)
	}
	expMax := ExpMax(state.Level)
	if 0 == expMax {
		return failed(move.LevelUp, "max level", state)
	}
	if state.Exp < expMax {
		return failed(move.LevelUp, "not enough exp", state)
	}
	name := m.Details.Value("new_status")
	stat := state.stat(name)
	if nil == stat {
		return failed(move.LevelUp, "unknown status: "+name, state)
	}
	state.Exp -= expMax
	state.Level += 1
	*stat += 1
	if "constitution" == name {
		state.HPMax += 1
		state.HP += 1
	}
	return state, Outcome{Type: move.LevelUp, Result: ResultSuccess}
}

func send(m *move.Move, _ *Dice, state *Avatar) (*Avatar, Outcome) {
	if nil == state {
		return failed(move.Send, "no avatar", nil)
	}
	amount := m.Details.Int("amount")
	if amount <= 0 {
		return failed(move.Send, "amount must be positive", state)
	}
	if !state.Remove(m.Details.Value("item"), amount) {
		return failed(move.Send, "not enough items", state)
	}
	return state, Outcome{Type: move.Send, Result: ResultSuccess}
}

func moveZone(m *move.Move, _ *Dice, state *Avatar) (*Avatar, Outcome) {
	if nil == state {
		return failed(move.MoveZone, "no avatar", nil)
	}
	zone, ok := ZoneByName(m.Details.Value("zone"))
	if !ok {
		return failed(move.MoveZone, "invalid zone", state)
	}
	if state.Level < zone.UnlockLevel {
		return failed(move.MoveZone, "zone is locked", state)
	}
	state.Zone = zone.Name
	return state, Outcome{Type: move.MoveZone, Result: ResultSuccess}
}

func firstClass(m *move.Move, _ *Dice, state *Avatar) (*Avatar, Outcome) {
	if nil == state {
		return failed(move.FirstClass, "no avatar", nil)
	}
	if NoviceClass != state.Class {
		return failed(move.FirstClass, "class already changed", state)
	}
	class := m.Details.Value("class")
	if _, ok := firstClasses[class]; !ok {
		return failed(move.FirstClass, "unknown class", state)
	}
	state.Class = class
	return state, Outcome{Type: move.FirstClass, Result: ResultSuccess}
}

func hackAndSlash(m *move.Move, dice *Dice, state *Avatar) (*Avatar, Outcome) {
	if nil == state {
		return failed(move.HackAndSlash, "no avatar", nil)
	}
	if state.Dead() {
		return failed(move.HackAndSlash, "avatar is dead", state)
	}

	outcome := Outcome{Type: move.HackAndSlash}
	result, err := battle(m, dice, state, &outcome.Log)
	if errors.Is(err, fault.ErrOutOfRandomness) {
		result = ResultFinish
	}
	outcome.Result = result
	return state, outcome
}

// fight a fixed number of monsters from the avatar's zone
func battle(m *move.Move, dice *Dice, state *Avatar, log *[]string) (string, error) {
	zone, ok := ZoneByName(state.Zone)
	if !ok {
		zone = zones[0]
	}

	if food := m.Details.Value("food"); "" != food && state.Remove(food, 1) {
		state.HP += foodHealing
		if state.HP > state.HPMax {
			state.HP = state.HPMax
		}
		*log = append(*log, "ate "+food)
	}
	weaponBonus := int64(0)
	if w := m.Details.Value("weapon"); "" != w && state.Count(w) > 0 {
		weaponBonus = 1
	}
	armorBonus := int64(0)
	if a := m.Details.Value("armor"); "" != a && state.Count(a) > 0 {
		armorBonus = 1
	}

	for i := 0; i < MonstersPerBattle; i += 1 {
		pick, err := dice.Roll(fmt.Sprintf("1d%d", len(zone.Monsters)))
		if nil != err {
			return "", err
		}
		monster := zone.Monsters[pick-1]
		hp := monster.HP
		*log = append(*log, "encounter "+monster.Name)

		for round := 0; hp > 0; round += 1 {
			if round >= maximumBattleRounds {
				return ResultFinish, nil
			}
			hit, err := dice.Roll("1d20")
			if nil != err {
				return "", err
			}
			if hit+modifier(state.Dexterity) >= hitThreshold {
				damage, err := dice.Roll(NoviceDamage)
				if nil != err {
					return "", err
				}
				damage += modifier(state.Strength) + weaponBonus
				if damage < 1 {
					damage = 1
				}
				hp -= damage
				*log = append(*log, fmt.Sprintf("hit %s for %d", monster.Name, damage))
			}
			if hp <= 0 {
				break
			}

			hit, err = dice.Roll("1d20")
			if nil != err {
				return "", err
			}
			if hit >= hitThreshold+modifier(state.Dexterity) {
				damage, err := dice.Roll(monster.Attack)
				if nil != err {
					return "", err
				}
				damage -= armorBonus
				if damage < 0 {
					damage = 0
				}
				state.HP -= damage
				*log = append(*log, fmt.Sprintf("%s hits for %d", monster.Name, damage))
			}
			if state.Dead() {
				return ResultLose, nil
			}
		}

		state.Exp += monster.Exp
		state.Gold += monster.Gold
		drop, err := dice.Roll("1d6")
		if nil != err {
			return "", err
		}
		if drop+modifier(state.Luck) >= 6 {
			state.Add(monster.Drop, 1)
			*log = append(*log, "found "+monster.Drop)
		}
	}
	return ResultWin, nil
}
