// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package move - signed, content addressed game actions
package move

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/zeebo/bencode"

	"github.com/nekoyume/nekoyume/account"
	"github.com/nekoyume/nekoyume/fault"
)

// names of the known moves
const (
	CreateNovice = "create_novice"
	FirstClass   = "first_class"
	HackAndSlash = "hack_and_slash"
	LevelUp      = "level_up"
	MoveZone     = "move_zone"
	Say          = "say"
	Send         = "send"
	Sleep        = "sleep"
)

// TimeLayout - text form of timestamps inside the canonical encoding
const TimeLayout = "2006-01-02 15:04:05.000000"

// ReceiverKey - detail naming the recipient of a transfer
const ReceiverKey = "receiver"

// limit on re-signing when the DER encoding falls outside the allowed range
const maximumSignAttempts = 1000

// Move - one signed player action
type Move struct {
	ID            string
	BlockID       uint64 // zero while unconfirmed
	Name          string
	Details       Details
	UserAddress   string
	UserPublicKey []byte
	Signature     []byte
	Tax           int64
	CreatedAt     time.Time
}

// New - an unsigned move stamped with the current time
func New(name string, details Details) *Move {
	return &Move{
		Name:      name,
		Details:   details,
		CreatedAt: Now(),
	}
}

// Now - current time at the precision kept by the encoding
func Now() time.Time {
	return Timestamp(time.Now())
}

// Timestamp - normalise a time to UTC microseconds
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// FormatTime - canonical text of a timestamp
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime - inverse of FormatTime, the fraction is optional
func ParseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
	if nil != err {
		return time.Time{}, fault.ErrInvalidTimestamp
	}
	return Timestamp(t), nil
}

// IsCreation - a move that starts a new avatar
func (m *Move) IsCreation() bool {
	return strings.HasPrefix(m.Name, "create_")
}

// Confirmed - included in a block
func (m *Move) Confirmed() bool {
	return 0 != m.BlockID
}

// Receiver - address designated as the recipient, if any
func (m *Move) Receiver() string {
	return m.Details.Value(ReceiverKey)
}

// Dictionary - canonical fields, bencode sorts the keys
func (m *Move) Dictionary(includeSignature bool, includeID bool) map[string]interface{} {
	d := map[string]interface{}{
		"user_address": m.UserAddress,
		"name":         m.Name,
		"details":      m.Details.Map(),
		"tax":          m.Tax,
		"created_at":   FormatTime(m.CreatedAt),
	}
	if includeSignature {
		d["signature"] = m.Signature
		d["user_public_key"] = m.UserPublicKey
	}
	if includeID {
		d["id"] = m.ID
	}
	return d
}

// Serialize - canonical bencode of the move
func (m *Move) Serialize(includeSignature bool, includeID bool) ([]byte, error) {
	return bencode.EncodeBytes(m.Dictionary(includeSignature, includeID))
}

// Hash - hex sha256 of the signed encoding
func (m *Move) Hash() (string, error) {
	b, err := m.Serialize(true, false)
	if nil != err {
		return "", err
	}
	digest := sha256.Sum256(b)
	return hex.EncodeToString(digest[:]), nil
}

// Sign - fill in the key, address, signature and id
//
// the timestamp is advanced by a microsecond whenever the DER
// signature length falls outside the accepted range
func (m *Move) Sign(key *account.PrivateKey) error {
	if "" == m.Name {
		return fault.ErrInvalidName
	}
	pub := key.PublicKey()
	m.UserPublicKey = pub.Compressed()
	m.UserAddress = pub.Address()
	m.CreatedAt = Timestamp(m.CreatedAt)

	for attempt := 0; attempt < maximumSignAttempts; attempt += 1 {
		message, err := m.Serialize(false, false)
		if nil != err {
			return err
		}
		signature := key.Sign(message)
		if len(signature) >= account.MinimumSignatureLength && len(signature) <= account.MaximumSignatureLength {
			m.Signature = signature
			m.ID, err = m.Hash()
			return err
		}
		m.CreatedAt = m.CreatedAt.Add(time.Microsecond)
	}
	return fault.ErrInvalidSignature
}

// Valid - every check that makes a move acceptable
func (m *Move) Valid() error {
	if 0 == len(m.Signature) {
		return invalid(fault.ErrInvalidSignature)
	}
	if len(m.Signature) < account.MinimumSignatureLength || len(m.Signature) > account.MaximumSignatureLength {
		return invalid(fault.ErrInvalidSignature)
	}
	if account.CompressedPublicKeyLength != len(m.UserPublicKey) {
		return invalid(fault.ErrInvalidPublicKey)
	}
	if !account.ValidAddress(m.UserAddress) {
		return invalid(fault.ErrInvalidAddress)
	}
	pub, err := account.ParsePublicKey(m.UserPublicKey)
	if nil != err {
		return invalid(err)
	}
	message, err := m.Serialize(false, false)
	if nil != err {
		return invalid(err)
	}
	if !pub.Verify(message, m.Signature) {
		return invalid(fault.ErrInvalidSignature)
	}
	if pub.Address() != m.UserAddress {
		return invalid(fault.ErrInvalidAddress)
	}
	h, err := m.Hash()
	if nil != err {
		return invalid(err)
	}
	if h != m.ID {
		return invalid(fault.ErrIdMismatch)
	}
	return nil
}

// IsValid - boolean form of Valid
func (m *Move) IsValid() bool {
	return nil == m.Valid()
}

func invalid(cause error) error {
	return fmt.Errorf("%w: %w", fault.ErrInvalidMove, cause)
}

// Clone - deep copy
func (m *Move) Clone() *Move {
	c := *m
	c.Details = Details{items: m.Details.Items()}
	c.UserPublicKey = append([]byte(nil), m.UserPublicKey...)
	c.Signature = append([]byte(nil), m.Signature...)
	return &c
}
