// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised   = ExistsError("already initialised")
	ErrBlockExists          = ExistsError("block already exists")
	ErrBlockNotFound        = NotFoundError("block not found")
	ErrBlockTooLarge        = InvalidError("block exceeds size limit")
	ErrChainConflict        = RecordError("chain changed during commit")
	ErrDifficultyMismatch   = InvalidError("difficulty does not follow adjustment rule")
	ErrDuplicateMove        = InvalidError("move appears twice in block")
	ErrEmptyBody            = InvalidError("empty body")
	ErrHashMismatch         = InvalidError("hash does not match content")
	ErrIdMismatch           = InvalidError("move id does not match content")
	ErrInsufficientItems    = InvalidError("insufficient items")
	ErrInvalidAddress       = InvalidError("invalid address")
	ErrInvalidAmount        = InvalidError("invalid amount")
	ErrInvalidBlock         = InvalidError("invalid block")
	ErrInvalidCount         = InvalidError("invalid count")
	ErrInvalidDice          = InvalidError("invalid dice expression")
	ErrInvalidKeyLength     = InvalidError("invalid key length")
	ErrInvalidMove          = InvalidError("invalid move")
	ErrInvalidName          = InvalidError("move name is not set")
	ErrInvalidPublicKey     = InvalidError("invalid public key")
	ErrInvalidSignature     = InvalidError("invalid signature")
	ErrInvalidTimestamp     = InvalidError("invalid timestamp")
	ErrInvalidURL           = InvalidError("invalid url")
	ErrKeyFileAlreadyExists = ExistsError("key file already exists")
	ErrLinkageMismatch      = InvalidError("previous hash does not match")
	ErrMissingParameters    = InvalidError("missing parameters")
	ErrMoveExists           = ExistsError("move already exists")
	ErrMoveNotFound         = NotFoundError("move not found")
	ErrMoveTooLarge         = InvalidError("move cannot fit in a block")
	ErrMoveUnconfirmed      = InvalidError("move is not confirmed")
	ErrNodeNotFound         = NotFoundError("node not found")
	ErrNotInitialised       = NotFoundError("not initialised")
	ErrNotNextBlock         = InvalidError("block is not our next block")
	ErrOutOfRandomness      = ProcessError("out of random numbers")
	ErrPeerUnavailable      = ProcessError("peer unavailable")
	ErrPreviousBlockMissing = NotFoundError("previous block not found")
	ErrProofOfWork          = InvalidError("proof of work is not satisfied")
	ErrRateLimiting         = ProcessError("rate limiting")
	ErrRootHashMismatch     = InvalidError("root hash does not match moves")
	ErrTooManyConnections   = ProcessError("too many connections")
	ErrUnsupportedVersion   = InvalidError("unsupported block version")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrExists(e error) bool   { var x ExistsError; return errors.As(e, &x) }
func IsErrInvalid(e error) bool  { var x InvalidError; return errors.As(e, &x) }
func IsErrNotFound(e error) bool { var x NotFoundError; return errors.As(e, &x) }
func IsErrProcess(e error) bool  { var x ProcessError; return errors.As(e, &x) }
func IsErrRecord(e error) bool   { var x RecordError; return errors.As(e, &x) }
