// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import "github.com/ericwq/termstore/cell"

// ScrollBehavior selects one of the scroll() variants from spec §4.8.
// Exactly one of the fields relevant to its Kind is meaningful.
type ScrollBehavior struct {
	Kind      ScrollKind
	DeltaRows int
	Pin       Point
}

type ScrollKind int

const (
	ScrollActive ScrollKind = iota
	ScrollTop
	ScrollDeltaRow
	ScrollDeltaPrompt
	ScrollPin
)

// Scroll changes only the viewport descriptor; it never allocates.
func (pl *PageList) Scroll(b ScrollBehavior) error {
	switch b.Kind {
	case ScrollActive:
		pl.viewportTag = ViewportActive
		return nil
	case ScrollTop:
		pl.viewportTag = ViewportTop
		return nil
	case ScrollDeltaRow:
		return pl.scrollDeltaRow(b.DeltaRows)
	case ScrollDeltaPrompt:
		return pl.scrollDeltaPrompt(b.DeltaRows)
	case ScrollPin:
		return pl.scrollToPin(b.Pin)
	default:
		return nil
	}
}

func (pl *PageList) currentViewportScreenRow() int {
	vn, vy := pl.viewportTopLeft()
	return pl.screenRowOf(vn, vy)
}

func (pl *PageList) scrollDeltaRow(n int) error {
	target := pl.currentViewportScreenRow() + n
	if target < 0 {
		target = 0
	}
	maxRow := pl.TotalRows() - 1
	if target > maxRow {
		target = maxRow
	}
	an, ay := pl.activeStart()
	activeScreenRow := pl.screenRowOf(an, ay)
	if target >= activeScreenRow {
		pl.viewportTag = ViewportActive
		return nil
	}
	p, err := pl.pinAtScreenRow(target, 0)
	if err != nil {
		return err
	}
	pl.viewportPin.node = p.node
	pl.viewportPin.Y, pl.viewportPin.X = p.Y, p.X
	pl.viewportTag = ViewportPinned
	return nil
}

// scrollDeltaPrompt walks rows from the current viewport top, skipping
// it, in the direction of n, counting rows whose semantic_prompt marks
// a shell prompt boundary, landing on the n-th such row (spec §4.8
// delta_prompt). If none is found the viewport is left unchanged.
func (pl *PageList) scrollDeltaPrompt(n int) error {
	if n == 0 {
		return nil
	}
	vn, vy := pl.viewportTopLeft()
	dir := 1
	if n < 0 {
		dir = -1
		n = -n
	}
	curN, curY := vn, vy
	found := 0
	for found < n {
		curN, curY = pl.stepRow(curN, curY, dir)
		if curN == nil {
			return nil // ran off the list; leave viewport unchanged
		}
		if isPromptRow(curN.page.Row(curY)) {
			found++
		}
	}
	pl.viewportPin.node = curN
	pl.viewportPin.Y, pl.viewportPin.X = curY, 0
	an, ay := pl.activeStart()
	if pl.screenRowOf(curN, curY) >= pl.screenRowOf(an, ay) {
		pl.viewportTag = ViewportActive
	} else {
		pl.viewportTag = ViewportPinned
	}
	return nil
}

func isPromptRow(r cell.Row) bool {
	switch r.SemanticPrompt() {
	case cell.PromptMarker, cell.PromptContinuation, cell.PromptInput:
		return true
	default:
		return false
	}
}

func (pl *PageList) stepRow(n *node, y, dir int) (*node, int) {
	y += dir
	for n != nil && (y < 0 || y >= n.page.Size()) {
		if dir > 0 {
			n = n.next
			y = 0
		} else {
			n = n.prev
			if n != nil {
				y = n.page.Size() - 1
			}
		}
	}
	return n, y
}

func (pl *PageList) scrollToPin(pt Point) error {
	p, err := pl.resolve(pt)
	if err != nil {
		return err
	}
	pl.viewportPin.node = p.node
	pl.viewportPin.Y, pl.viewportPin.X = p.Y, p.X
	an, ay := pl.activeStart()
	if pl.screenRowOf(p.node, p.Y) >= pl.screenRowOf(an, ay) {
		pl.viewportTag = ViewportActive
	} else {
		pl.viewportTag = ViewportPinned
	}
	return nil
}
