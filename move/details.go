// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package move

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// Detail - one parameter of a move
type Detail struct {
	Key   string
	Value string
}

// Details - string parameters kept sorted by key
//
// iteration order is always lexicographic so that every node encodes
// the same details identically
type Details struct {
	items []Detail
}

// NewDetails - build from a plain map
func NewDetails(m map[string]string) Details {
	d := Details{}
	for k, v := range m {
		d.Set(k, v)
	}
	return d
}

func (d Details) index(key string) (int, bool) {
	i := sort.Search(len(d.items), func(i int) bool {
		return d.items[i].Key >= key
	})
	return i, i < len(d.items) && d.items[i].Key == key
}

// Set - insert or replace a value
func (d *Details) Set(key string, value string) {
	i, found := d.index(key)
	if found {
		d.items[i].Value = value
		return
	}
	d.items = append(d.items, Detail{})
	copy(d.items[i+1:], d.items[i:])
	d.items[i] = Detail{Key: key, Value: value}
}

// Get - value and presence
func (d Details) Get(key string) (string, bool) {
	i, found := d.index(key)
	if !found {
		return "", false
	}
	return d.items[i].Value, true
}

// Value - value or empty string
func (d Details) Value(key string) string {
	v, _ := d.Get(key)
	return v
}

// Int - value parsed as an integer, zero if absent or malformed
func (d Details) Int(key string) int64 {
	n, err := strconv.ParseInt(d.Value(key), 10, 64)
	if nil != err {
		return 0
	}
	return n
}

// Len - number of entries
func (d Details) Len() int {
	return len(d.items)
}

// Items - entries in key order
func (d Details) Items() []Detail {
	return append([]Detail(nil), d.items...)
}

// Map - copy as a plain map
func (d Details) Map() map[string]string {
	m := make(map[string]string, len(d.items))
	for _, item := range d.items {
		m[item.Key] = item.Value
	}
	return m
}

// MarshalJSON - object with keys in sorted order
func (d Details) MarshalJSON() ([]byte, error) {
	buffer := bytes.Buffer{}
	buffer.WriteByte('{')
	for i, item := range d.items {
		if i > 0 {
			buffer.WriteByte(',')
		}
		k, err := json.Marshal(item.Key)
		if nil != err {
			return nil, err
		}
		v, err := json.Marshal(item.Value)
		if nil != err {
			return nil, err
		}
		buffer.Write(k)
		buffer.WriteByte(':')
		buffer.Write(v)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// UnmarshalJSON - accept an object of strings, numbers are kept as their text
func (d *Details) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	err := json.Unmarshal(data, &raw)
	if nil != err {
		return err
	}
	d.items = nil
	for k, v := range raw {
		s := ""
		if len(v) > 0 && '"' == v[0] {
			err := json.Unmarshal(v, &s)
			if nil != err {
				return err
			}
		} else {
			s = string(v)
		}
		d.Set(k, s)
	}
	return nil
}
