// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package offsetmap

import "testing"

func TestPutGet(t *testing.T) {
	m := New(8)
	if !m.Put(3, 100) {
		t.Fatal("expect Put to succeed")
	}
	v, ok := m.Get(3)
	if !ok || v != 100 {
		t.Fatalf("expect (100,true), got (%d,%v)", v, ok)
	}
}

func TestGetMissing(t *testing.T) {
	m := New(8)
	if _, ok := m.Get(42); ok {
		t.Fatal("expect missing key to report not found")
	}
}

func TestPutZeroKey(t *testing.T) {
	m := New(8)
	if !m.Put(0, 7) {
		t.Fatal("expect Put(0, ...) to succeed")
	}
	v, ok := m.Get(0)
	if !ok || v != 7 {
		t.Fatalf("expect (7,true) for key 0, got (%d,%v)", v, ok)
	}
}

func TestOverwrite(t *testing.T) {
	m := New(8)
	m.Put(1, 10)
	m.Put(1, 20)
	if m.Len() != 1 {
		t.Fatalf("expect 1 entry after overwrite, got %d", m.Len())
	}
	v, _ := m.Get(1)
	if v != 20 {
		t.Fatalf("expect 20, got %d", v)
	}
}

func TestFullMapRejectsNewKey(t *testing.T) {
	m := New(2)
	if !m.Put(1, 1) || !m.Put(2, 2) {
		t.Fatal("expect both puts to succeed")
	}
	if m.Put(3, 3) {
		t.Fatal("expect Put to fail once the map is full")
	}
	// but overwriting an existing key must still work.
	if !m.Put(1, 99) {
		t.Fatal("expect overwrite of existing key to succeed when full")
	}
}

func TestDeleteAndProbeChain(t *testing.T) {
	m := New(4)
	// force a probe chain by inserting enough keys.
	for i := uint32(0); i < 4; i++ {
		if !m.Put(i, i*10) {
			t.Fatalf("put %d failed", i)
		}
	}
	m.Delete(1)
	if _, ok := m.Get(1); ok {
		t.Fatal("expect key 1 gone")
	}
	for _, k := range []uint32{0, 2, 3} {
		v, ok := m.Get(k)
		if !ok || v != k*10 {
			t.Fatalf("expect key %d to survive deletion of a neighbor, got (%d,%v)", k, v, ok)
		}
	}
}

func TestCloneIndependence(t *testing.T) {
	m := New(4)
	m.Put(1, 1)
	c := m.Clone()
	c.Put(1, 2)
	v, _ := m.Get(1)
	if v != 1 {
		t.Fatalf("expect original untouched, got %d", v)
	}
}

func TestGrow(t *testing.T) {
	m := New(2)
	m.Put(1, 1)
	m.Put(2, 2)
	g := m.Grow(8)
	if g.Cap() != 8 {
		t.Fatalf("expect capacity 8, got %d", g.Cap())
	}
	for _, k := range []uint32{1, 2} {
		v, ok := g.Get(k)
		if !ok || v != k {
			t.Fatalf("expect key %d preserved after grow", k)
		}
	}
	if !g.Put(3, 3) {
		t.Fatal("expect grown map to accept new keys")
	}
}

func TestEach(t *testing.T) {
	m := New(8)
	want := map[uint32]uint32{1: 10, 2: 20, 3: 30}
	for k, v := range want {
		m.Put(k, v)
	}
	got := map[uint32]uint32{}
	m.Each(func(k, v uint32) { got[k] = v })
	if len(got) != len(want) {
		t.Fatalf("expect %d entries, got %d", len(want), len(got))
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("key %d: expect %d, got %d", k, v, got[k])
		}
	}
}
