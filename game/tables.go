// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package game

// Zone - an area an avatar can be in
type Zone struct {
	Name        string
	UnlockLevel int64
	Monsters    []Monster
}

// Monster - an opponent in hack and slash
type Monster struct {
	Name   string
	HP     int64
	Attack string // dice expression
	Exp    int64
	Gold   int64
	Drop   string
}

// zones in order, the first one is where novices start
var zones = []Zone{
	{
		Name:        "plains",
		UnlockLevel: 1,
		Monsters: []Monster{
			{Name: "slime", HP: 3, Attack: "1d2", Exp: 1, Gold: 1, Drop: "slime_jelly"},
			{Name: "rat", HP: 2, Attack: "1d3", Exp: 1, Gold: 0, Drop: "rat_tail"},
		},
	},
	{
		Name:        "forest",
		UnlockLevel: 3,
		Monsters: []Monster{
			{Name: "goblin", HP: 6, Attack: "1d4", Exp: 2, Gold: 3, Drop: "rusty_dagger"},
			{Name: "wolf", HP: 5, Attack: "1d4+1", Exp: 3, Gold: 0, Drop: "wolf_pelt"},
		},
	},
	{
		Name:        "mountain",
		UnlockLevel: 5,
		Monsters: []Monster{
			{Name: "ogre", HP: 12, Attack: "1d6", Exp: 5, Gold: 8, Drop: "ogre_club"},
		},
	},
}

// classes reachable from novice
var firstClasses = map[string]struct{}{
	"swordman": {},
	"mage":     {},
	"acolyte":  {},
	"archer":   {},
}

// limits
const (
	MaximumLevel            = 99
	NoviceClass             = "novice"
	NoviceDamage            = "1d6"
	MonstersPerBattle       = 3
	NoviceStatSumLimit      = 64
	NoviceFallbackStat      = 9
	defaultNoviceStat       = 10
	minimumNoviceStat       = 3
	maximumNoviceStat       = 18
	hitThreshold            = 10
	foodHealing             = 2
	maximumBattleRounds     = 64
	defaultGravatarHash     = "HASH"
	defaultNoviceName       = "novice"
	maximumNameLength       = 10
	hpBonusOverConstitution = 6
)

// ZoneByName - look up a zone
func ZoneByName(name string) (Zone, bool) {
	for _, z := range zones {
		if z.Name == name {
			return z, true
		}
	}
	return Zone{}, false
}

// StartZone - zone every new avatar begins in
func StartZone() string {
	return zones[0].Name
}

// ExpMax - experience needed to leave a level, zero at the cap
func ExpMax(level int64) int64 {
	if level >= MaximumLevel {
		return 0
	}
	return level + 7
}

// modifier - D20 style attribute bonus, rounded down
func modifier(stat int64) int64 {
	d := stat - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}
