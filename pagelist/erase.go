// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

// EraseRows removes every row from top (inclusive) to bot (exclusive,
// defaults to end of list when nil), re-growing the active area if the
// erased region overlapped it (spec §4.4 erase_rows).
//
// It is built on top of EraseRow, applied repeatedly at the same point:
// removing the row at top and letting the cascade pull subsequent
// content up is equivalent to erasing the whole [top, bot) range one
// row at a time, and it reuses EraseRow's page-boundary and pin-rewrite
// handling rather than duplicating it.
func (pl *PageList) EraseRows(top Point, bot *Point) error {
	topScreen := pl.resolveToScreenRow(top)
	botScreen := pl.TotalRows()
	if bot != nil {
		botScreen = pl.resolveToScreenRow(*bot)
	}
	count := botScreen - topScreen
	for i := 0; i < count; i++ {
		if err := pl.EraseRow(top); err != nil {
			return err
		}
	}
	pl.fixupViewportAfterErase()
	return nil
}

func (pl *PageList) resolveToScreenRow(pt Point) int {
	p, err := pl.resolve(pt)
	if err != nil {
		return pl.TotalRows()
	}
	return pl.screenRowOf(p.node, p.Y)
}

// wasActiveRegion reports whether node n (at local row y) lies within
// the active area as it stood before an erase.
func (pl *PageList) wasActiveRegion(n *node, y int) bool {
	an, ay := pl.activeStart()
	return pl.screenRowOf(n, y) >= pl.screenRowOf(an, ay)
}

// destroyOrResetNode removes n from the list, or (if it is the only
// page) reinitializes it in place at size zero, moving any pins on it
// to (0,0) of the next surviving page.
func (pl *PageList) destroyOrResetNode(n *node) {
	if n == pl.head && n == pl.tail {
		for y := 0; y < n.page.Size(); y++ {
			n.page.ClearRow(y)
		}
		n.page.SetSize(0)
		pl.foreachPinIn(n, func(p *Pin) { p.Y, p.X = 0, 0 })
		return
	}
	next := n.next
	if next == nil {
		next = n.prev
	}
	pl.removeNode(n)
	n.page.Close()
	if next != nil {
		pl.foreachPinIn(n, func(p *Pin) {
			p.node = next
			p.Y, p.X = 0, 0
		})
	}
}

// fixupViewportAfterErase collapses a pinned/top viewport back to
// active once the pin (or the first page) falls within the active
// area again (spec §4.4).
func (pl *PageList) fixupViewportAfterErase() {
	switch pl.viewportTag {
	case ViewportPinned:
		an, ay := pl.activeStart()
		if pl.screenRowOf(pl.viewportPin.node, pl.viewportPin.Y) >= pl.screenRowOf(an, ay) {
			pl.viewportTag = ViewportActive
		}
	case ViewportTop:
		an, _ := pl.activeStart()
		if an == pl.head {
			pl.viewportTag = ViewportActive
		}
	}
}

// EraseRow removes a single row, rotating the row-record array from
// the removed row to the end of the page, cascading across page
// boundaries by pulling the next page's first row up (spec §4.4
// erase_row).
func (pl *PageList) EraseRow(pt Point) error {
	return pl.eraseRowBounded(pt, -1)
}

// EraseRowBounded behaves like EraseRow but stops cascading after limit
// rows, clearing the final exposed row in place instead of continuing
// into subsequent pages.
func (pl *PageList) EraseRowBounded(pt Point, limit int) error {
	return pl.eraseRowBounded(pt, limit)
}

func (pl *PageList) eraseRowBounded(pt Point, limit int) error {
	p, err := pl.resolve(pt)
	if err != nil {
		return err
	}
	n := p.node
	y := p.Y
	moved := 0
	for {
		last := n.page.Size() - 1
		if limit >= 0 && last-y > limit-moved {
			last = y + limit - moved
		}
		for i := y; i < last; i++ {
			n.page.MoveCells(i+1, 0, i, 0, pl.cols)
			n.page.SetRow(i, n.page.Row(i+1))
		}
		pl.foreachPinIn(n, func(pp *Pin) {
			if pp.Y > y && pp.Y <= last {
				pp.Y--
			} else if pp.Y == y {
				// row vacated; stays at y, content pulled up into it.
			}
		})
		next := n.next
		if limit >= 0 {
			moved += last - y
			if moved >= limit || next == nil {
				n.page.ClearRow(last)
				return nil
			}
		}
		if next == nil {
			wasActive := pl.wasActiveRegion(n, 0)
			n.page.ClearRow(last)
			n.page.SetSize(last)
			if n.page.Size() == 0 {
				pl.destroyOrResetNode(n)
			}
			if wasActive {
				return pl.Grow()
			}
			return nil
		}
		n.page.SetRow(last, next.page.Row(0))
		grown, err := cloneRowRetrying(n.page, next.page, 0, last)
		if err != nil {
			return err
		}
		n.page = grown
		// Only the pulled-up row 0 moves here; the next pass shifts the
		// remaining rows of next (and their pins) up by one.
		pl.foreachPinIn(next, func(pp *Pin) {
			if pp.Y == 0 {
				pp.node = n
				pp.Y = last
			}
		})
		if limit >= 0 {
			moved++
		}
		n = next
		y = 0
	}
}
