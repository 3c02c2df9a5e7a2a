// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package style

import "errors"

// ErrOutOfMemory is returned when the style set has no free slot left and
// the caller must grow the owning page's capacity before retrying.
var ErrOutOfMemory = errors.New("style: set is full")

// Attr is adapted from the teacher's terminal/renditions.go charAttribute
// enum, dropping the blink-rate split (RapidBlink) since this engine
// tracks presentation state only, not VT escape emission.
type Attr uint8

const (
	Bold Attr = 1 << iota
	Faint
	Italic
	Underline
	Blink
	Inverse
	Invisible
	Strikethrough
)

// Style is the de-duplicated payload a Cell's style id refers to. It is
// adapted from the teacher's Renditions struct (terminal/renditions.go)
// with the SGR() VT-escape encoder dropped, since producing terminal
// output is outside this package.
type Style struct {
	FG, BG Color
	Attrs  Attr
}

// Has reports whether all bits of want are set.
func (s Style) Has(want Attr) bool { return s.Attrs&want == want }

func (s Style) hash() uint32 {
	h := uint32(2166136261)
	mix := func(v uint64) {
		h ^= uint32(v)
		h *= 16777619
		h ^= uint32(v >> 32)
		h *= 16777619
	}
	mix(uint64(s.FG))
	mix(uint64(s.BG))
	mix(uint64(s.Attrs))
	return h
}

// entry is one slot of the interning table: the style value itself plus
// its reference count. RefCount 0 marks a free slot.
type entry struct {
	style    Style
	refCount uint32
}

// Set is the ref-counted style interning table described by the storage
// engine's style-set component: callers Upsert a Style and receive a
// small dense id to store in a Cell; Release drops a reference when a
// cell stops using that style.
//
// id 0 is reserved and always maps to the zero Style (no attributes, no
// color), matching a freshly zeroed Cell needing no style lookup at all.
type Set struct {
	slots []entry
	index map[uint32][]uint16 // style hash -> candidate slot ids, for collision handling
	free  []uint16
}

// NewSet creates a style set with room for capacity distinct styles,
// not counting the reserved zero id.
func NewSet(capacity int) *Set {
	s := &Set{
		slots: make([]entry, 1, capacity+1),
		index: make(map[uint32][]uint16),
	}
	s.slots[0] = entry{style: Style{}, refCount: 1} // pinned, never released
	return s
}

// Cap returns the number of non-reserved slots the set can hold.
func (s *Set) Cap() int { return cap(s.slots) - 1 }

// Len returns the number of distinct non-zero styles currently interned.
func (s *Set) Len() int {
	n := 0
	for _, e := range s.slots[1:] {
		if e.refCount > 0 {
			n++
		}
	}
	return n
}

// Upsert interns st, returning its id. If an equal style is already
// present its reference count is incremented and its existing id is
// returned; otherwise a new slot is allocated.
func (s *Set) Upsert(st Style) (uint16, error) {
	if st == (Style{}) {
		s.slots[0].refCount++
		return 0, nil
	}
	h := st.hash()
	for _, id := range s.index[h] {
		if s.slots[id].style == st {
			s.slots[id].refCount++
			return id, nil
		}
	}
	id, ok := s.alloc()
	if !ok {
		return 0, ErrOutOfMemory
	}
	s.slots[id] = entry{style: st, refCount: 1}
	s.index[h] = append(s.index[h], id)
	return id, nil
}

func (s *Set) alloc() (uint16, bool) {
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		return id, true
	}
	if len(s.slots) > s.Cap() {
		return 0, false
	}
	id := uint16(len(s.slots))
	s.slots = append(s.slots, entry{})
	return id, true
}

// Lookup returns the style stored at id.
func (s *Set) Lookup(id uint16) (Style, bool) {
	if int(id) >= len(s.slots) || s.slots[id].refCount == 0 {
		return Style{}, false
	}
	return s.slots[id].style, true
}

// Release drops one reference to id, freeing its slot once the count
// reaches zero.
func (s *Set) Release(id uint16) {
	if id == 0 || int(id) >= len(s.slots) {
		return
	}
	e := &s.slots[id]
	if e.refCount == 0 {
		return
	}
	e.refCount--
	if e.refCount > 0 {
		return
	}
	h := e.style.hash()
	ids := s.index[h]
	for i, cand := range ids {
		if cand == id {
			ids[i] = ids[len(ids)-1]
			s.index[h] = ids[:len(ids)-1]
			break
		}
	}
	e.style = Style{}
	s.free = append(s.free, id)
}

// Retain increments id's reference count without looking up its content,
// for callers (e.g. a row-copy) that already hold a valid id.
func (s *Set) Retain(id uint16) {
	if int(id) < len(s.slots) {
		s.slots[id].refCount++
	}
}

// Clone returns an independent copy of the set with the same content,
// suitable for a page clone that does not share its style memory.
func (s *Set) Clone() *Set {
	c := &Set{
		slots: make([]entry, len(s.slots), cap(s.slots)),
		index: make(map[uint32][]uint16, len(s.index)),
		free:  append([]uint16(nil), s.free...),
	}
	copy(c.slots, s.slots)
	for h, ids := range s.index {
		c.index[h] = append([]uint16(nil), ids...)
	}
	return c
}
