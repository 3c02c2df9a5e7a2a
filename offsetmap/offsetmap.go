// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package offsetmap implements the open-addressed table a Page uses to
// go from a cell's position to its extra grapheme data (spec §3,
// component 3): both keys and values are plain uint32 offsets rather
// than pointers, so the whole table is just a flat slice that survives
// a bulk copy of the page it lives in unchanged.
package offsetmap

// emptyKey marks a bucket as unused. Real keys are stored as key+1 so
// that offset 0 (a perfectly valid cell or arena offset) never collides
// with the empty sentinel.
const emptyKey = 0

// Map is a fixed-capacity open-addressing hash table from uint32 key to
// uint32 value, using linear probing. It never grows past the capacity
// given to New: callers (the owning Page) are responsible for sizing it
// to the worst case or rejecting inserts past capacity.
type Map struct {
	keys   []uint32
	values []uint32
	count  int
}

// New creates a Map with room for capacity entries. Capacity should be
// picked with a load factor under ~0.7 for acceptable probe lengths.
func New(capacity int) *Map {
	return &Map{
		keys:   make([]uint32, capacity),
		values: make([]uint32, capacity),
	}
}

// Cap returns the maximum number of entries the map can hold.
func (m *Map) Cap() int { return len(m.keys) }

// Len returns the number of entries currently stored.
func (m *Map) Len() int { return m.count }

func hash32(k uint32) uint32 {
	k ^= k >> 16
	k *= 0x7feb352d
	k ^= k >> 15
	k *= 0x846ca68b
	k ^= k >> 16
	return k
}

func (m *Map) probe(key uint32) (idx int, found bool) {
	n := len(m.keys)
	if n == 0 {
		return 0, false
	}
	stored := key + 1
	i := int(hash32(key)) % n
	if i < 0 {
		i += n
	}
	for tries := 0; tries < n; tries++ {
		if m.keys[i] == emptyKey {
			return i, false
		}
		if m.keys[i] == stored {
			return i, true
		}
		i++
		if i == n {
			i = 0
		}
	}
	return -1, false
}

// Put inserts or overwrites key's value. It returns false if the map is
// full and key was not already present; the caller must grow the table
// (by reallocating a larger Map and reinserting, since this structure
// never grows itself) before retrying.
func (m *Map) Put(key, value uint32) bool {
	idx, found := m.probe(key)
	if idx < 0 {
		return false
	}
	if !found {
		if m.count == len(m.keys) {
			return false
		}
		m.keys[idx] = key + 1
		m.count++
	}
	m.values[idx] = value
	return true
}

// Get returns the value stored for key, if any.
func (m *Map) Get(key uint32) (uint32, bool) {
	idx, found := m.probe(key)
	if !found {
		return 0, false
	}
	return m.values[idx], true
}

// Delete removes key's entry, if present, re-homing any entries that
// were displaced past it by linear probing so later lookups still find
// them.
func (m *Map) Delete(key uint32) {
	idx, found := m.probe(key)
	if !found {
		return
	}
	n := len(m.keys)
	m.keys[idx] = emptyKey
	m.count--
	i := idx + 1
	if i == n {
		i = 0
	}
	for m.keys[i] != emptyKey {
		k, v := m.keys[i], m.values[i]
		m.keys[i] = emptyKey
		m.count--
		m.Put(k-1, v)
		i++
		if i == n {
			i = 0
		}
	}
}

// Clone returns an independent copy of the map.
func (m *Map) Clone() *Map {
	c := &Map{
		keys:   append([]uint32(nil), m.keys...),
		values: append([]uint32(nil), m.values...),
		count:  m.count,
	}
	return c
}

// Each calls fn for every stored key/value pair. Iteration order is
// unspecified.
func (m *Map) Each(fn func(key, value uint32)) {
	for i, k := range m.keys {
		if k != emptyKey {
			fn(k-1, m.values[i])
		}
	}
}

// Grow returns a new Map with the given larger capacity containing all
// of m's entries. The owning Page calls this when a resize needs more
// grapheme-map headroom than the current table has.
func (m *Map) Grow(capacity int) *Map {
	g := New(capacity)
	m.Each(func(k, v uint32) { g.Put(k, v) })
	return g
}
