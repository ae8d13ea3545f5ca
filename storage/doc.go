// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. block number = big endian uint64 (8 bytes)
// 4. move id      = 64 character hex sha256 of the signed move
// 5. address      = 42 character "0x" address
//
// Blocks:
//
//	B ++ block number                    - block store
//	                                       data: packed block header, suffix and hash
//	H ++ block hash                      - block number for a hash
//	                                       data: block number
//	K ++ block number ++ move id         - moves contained in a block
//	                                       data: empty
//	C ++ creator ++ block number         - blocks produced by an address
//	                                       data: empty
//
// Moves:
//
//	M ++ move id                         - every known move
//	                                       data: packed move (block number 0 when unconfirmed)
//	U ++ move id                         - unconfirmed moves
//	                                       data: empty
//	A ++ address ++ block number ++ id   - confirmed moves signed by an address
//	                                       data: move name
//	R ++ address ++ block number ++ id   - confirmed transfers received by an address
//	                                       data: empty
//
// Nodes:
//
//	N ++ url                             - known peers
//	                                       data: last connected time (big endian unix nanoseconds)
package storage
