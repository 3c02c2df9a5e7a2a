// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

// TrackPin registers a new tracked pin at the given tagged point and
// returns it. The PageList keeps it valid across every subsequent
// mutation until UntrackPin is called.
func (pl *PageList) TrackPin(pt Point) (*Pin, error) {
	p, err := pl.resolve(pt)
	if err != nil {
		return nil, err
	}
	pl.pins[p] = struct{}{}
	return p, nil
}

// UntrackPin removes p from the registry. Further mutations no longer
// update it.
func (pl *PageList) UntrackPin(p *Pin) {
	delete(pl.pins, p)
}

// Pin resolves a tagged point and returns the same location as a
// Screen-tagged Point, without creating a tracked entry (spec §6
// pin(point)).
func (pl *PageList) Pin(pt Point) (Point, error) {
	p, err := pl.resolve(pt)
	if err != nil {
		return Point{}, err
	}
	return pl.PointFromPin(Screen, p), nil
}

// foreachPinIn calls fn for every tracked pin (including the viewport
// pin) currently on node n. fn may mutate the pin's Y/X or move it to a
// different node; it must not add or remove entries from pl.pins.
//
// This centralizes the cross-cutting pin-rewrite concern spec §9 calls
// out: every mutator that moves or destroys rows drives its pin
// updates through this helper instead of re-deriving the pin-walk.
func (pl *PageList) foreachPinIn(n *node, fn func(p *Pin)) {
	for p := range pl.pins {
		if p.node == n {
			fn(p)
		}
	}
}

// foreachPin calls fn for every tracked pin in the registry.
func (pl *PageList) foreachPin(fn func(p *Pin)) {
	for p := range pl.pins {
		fn(p)
	}
}

// clampPinsToSize clamps every pin on n so that Y < n.page.Size() and
// X < pl.cols, used after a shrink that didn't relocate the pin's row.
func (pl *PageList) clampPinsToSize(n *node) {
	sz := n.page.Size()
	pl.foreachPinIn(n, func(p *Pin) {
		if p.Y >= sz {
			p.Y = sz - 1
			if p.Y < 0 {
				p.Y = 0
			}
		}
		if p.X >= pl.cols {
			p.X = pl.cols - 1
		}
	})
}
