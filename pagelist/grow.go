// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import (
	"github.com/ericwq/termstore/page"
	"github.com/ericwq/termstore/util"
)

// growRequiredForActive reports whether the active area currently needs
// every row it has, i.e. pruning the oldest page would cut into rows
// the active area requires (spec §4.3 grow_required_for_active).
func (pl *PageList) growRequiredForActive() bool {
	an, _ := pl.activeStart()
	return an == pl.head
}

// Grow appends exactly one row to the page list: onto the last page if
// it has spare capacity, onto a newly allocated page otherwise, pruning
// the oldest scrollback page first if the byte budget would otherwise
// be exceeded (spec §4.3 grow()).
func (pl *PageList) Grow() error {
	last := pl.tail
	if last.page.Size() < last.page.Capacity().Rows {
		return last.page.SetSize(last.page.Size() + 1)
	}

	if pl.TotalBytes()+bytesPerStandardPage(pl.cols) > pl.maxBytes() && !pl.growRequiredForActive() {
		return pl.pruneOldestAndAppend()
	}

	np, err := newStandardPage(pl.cols)
	if err != nil {
		return err
	}
	if err := np.SetSize(1); err != nil {
		return err
	}
	pl.appendNode(&node{page: np})
	return nil
}

// pruneOldestAndAppend detaches the head page, reinitializes it at
// standard capacity with size 1, and appends it after the tail,
// rewriting pins that pointed into the pruned page to (new-head, 0, 0).
func (pl *PageList) pruneOldestAndAppend() error {
	old := pl.head
	if old == pl.tail {
		// Only one page; nothing to prune into, just grow it in place
		// if it has room (handled by caller) or fail.
		return ErrOutOfMemory
	}
	pl.removeNode(old)
	old.page.Close()

	fresh, err := newStandardPage(pl.cols)
	if err != nil {
		return err
	}
	if err := fresh.SetSize(1); err != nil {
		return err
	}
	newNode := &node{page: fresh}
	pl.appendNode(newNode)

	util.Logger.Trace("pagelist: pruned oldest page to stay within byte budget")

	newHead := pl.head
	pl.foreachPinIn(old, func(p *Pin) {
		p.node = newHead
		p.Y, p.X = 0, 0
	})
	return nil
}

func newStandardPage(cols int) (*page.Page, error) {
	return page.New(page.StandardCapacity(cols))
}

// ScrollClear counts the trailing empty rows of the active area and
// grows by the number of rows above them, which pushes the non-empty
// active prefix up into scrollback in a single pass (spec §4.3
// scroll_clear).
func (pl *PageList) ScrollClear() error {
	an, ay := pl.activeStart()
	trailingEmpty := 0
	rows := collectActiveRows(pl, an, ay)
	for i := len(rows) - 1; i >= 0; i-- {
		if !rowIsEmpty(rows[i].n.page, rows[i].y, pl.cols) {
			break
		}
		trailingEmpty++
	}
	for i := 0; i < len(rows)-trailingEmpty; i++ {
		if err := pl.Grow(); err != nil {
			return err
		}
	}
	return nil
}

type activeRow struct {
	n *node
	y int
}

func collectActiveRows(pl *PageList, an *node, ay int) []activeRow {
	var out []activeRow
	n, y := an, ay
	for n != nil {
		out = append(out, activeRow{n: n, y: y})
		y++
		if y >= n.page.Size() {
			n = n.next
			y = 0
		}
	}
	return out
}

func rowIsEmpty(p *page.Page, y, cols int) bool {
	for x := 0; x < cols; x++ {
		if !p.Cell(y, x).IsZero() {
			return false
		}
	}
	return true
}
