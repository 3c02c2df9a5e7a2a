// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import (
	"github.com/ericwq/termstore/cell"
	"github.com/ericwq/termstore/page"
)

// Direction selects which way an iterator walks.
type Direction int

const (
	RightDown Direction = iota
	LeftUp
)

// Chunk is one contiguous run of rows within a single page, the unit
// PageIterator yields (spec §4.7): a full page collapses to one chunk,
// and the first/last chunks of a bounded walk may be partial.
type Chunk struct {
	Page     *page.Page
	YStart   int // inclusive
	YEnd     int // exclusive
}

// PageIterator walks page chunks between two tagged points. It is a
// small value, not restartable: once exhausted, construct a new one.
type PageIterator struct {
	pl        *PageList
	dir       Direction
	n         *node
	y         int
	endN      *node
	endY      int
	done      bool
}

// PageIteratorAt returns an iterator over chunks from tl to br, in dir.
// tl's row is always included; br's row is excluded for RightDown and
// included for LeftUp. A nil br
// means "to the end of the list" (RightDown) or "to the start"
// (LeftUp).
func (pl *PageList) PageIteratorAt(dir Direction, tl Point, br *Point) (*PageIterator, error) {
	p, err := pl.resolve(tl)
	if err != nil {
		return nil, err
	}
	it := &PageIterator{pl: pl, dir: dir, n: p.node, y: p.Y}
	if br != nil {
		bp, err := pl.resolve(*br)
		if err != nil {
			return nil, err
		}
		it.endN, it.endY = bp.node, bp.Y
	}
	return it, nil
}

// Next returns the next chunk, or ok=false once exhausted.
func (it *PageIterator) Next() (Chunk, bool) {
	if it.done || it.n == nil {
		return Chunk{}, false
	}
	if it.dir == RightDown {
		start := it.y
		end := it.n.page.Size()
		if it.endN == it.n {
			end = it.endY
		}
		c := Chunk{Page: it.n.page, YStart: start, YEnd: end}
		if it.endN == it.n {
			it.done = true
		} else {
			it.n = it.n.next
			it.y = 0
			if it.n == nil {
				it.done = true
			}
		}
		return c, true
	}
	// LeftUp: walk backward, each chunk covers [start, end) of this page
	// where start is either 0 or (for the bounding page) endY.
	end := it.y + 1
	start := 0
	if it.endN == it.n {
		start = it.endY
	}
	c := Chunk{Page: it.n.page, YStart: start, YEnd: end}
	if it.endN == it.n {
		it.done = true
	} else {
		it.n = it.n.prev
		if it.n == nil {
			it.done = true
		} else {
			it.y = it.n.page.Size() - 1
		}
	}
	return c, true
}

// RowIterator yields one Pin per row within the iterator's bound.
type RowIterator struct {
	pi *PageIterator
	cur Chunk
	y   int
	has bool
}

func (pl *PageList) RowIteratorAt(dir Direction, tl Point, br *Point) (*RowIterator, error) {
	pi, err := pl.PageIteratorAt(dir, tl, br)
	if err != nil {
		return nil, err
	}
	ri := &RowIterator{pi: pi}
	ri.advanceChunk()
	return ri, nil
}

func (ri *RowIterator) advanceChunk() {
	c, ok := ri.pi.Next()
	ri.cur = c
	ri.has = ok
	if ok {
		if ri.pi.dir == RightDown {
			ri.y = c.YStart
		} else {
			ri.y = c.YEnd - 1
		}
	}
}

// Next returns the page/row pair for the next row, or ok=false once
// exhausted. The returned value is only valid until the next call.
func (ri *RowIterator) Next() (p *page.Page, y int, ok bool) {
	for {
		if !ri.has {
			return nil, 0, false
		}
		if ri.pi.dir == RightDown {
			if ri.y >= ri.cur.YEnd {
				ri.advanceChunk()
				continue
			}
			p, y = ri.cur.Page, ri.y
			ri.y++
			return p, y, true
		}
		if ri.y < ri.cur.YStart {
			ri.advanceChunk()
			continue
		}
		p, y = ri.cur.Page, ri.y
		ri.y--
		return p, y, true
	}
}

// CellIterator walks individual cells within a RowIterator's rows,
// wrapping to the next row at column boundaries.
type CellIterator struct {
	ri      *RowIterator
	cols    int
	curPage *page.Page
	curY    int
	x       int
	hasRow  bool
}

func (pl *PageList) CellIteratorAt(dir Direction, tl Point, br *Point) (*CellIterator, error) {
	ri, err := pl.RowIteratorAt(dir, tl, br)
	if err != nil {
		return nil, err
	}
	ci := &CellIterator{ri: ri, cols: pl.cols}
	ci.curPage, ci.curY, ci.hasRow = ri.Next()
	if ci.ri.pi.dir == LeftUp {
		ci.x = pl.cols - 1
	}
	return ci, nil
}

// Next returns the next cell in iteration order, or ok=false once
// exhausted.
func (ci *CellIterator) Next() (c cell.Cell, y, x int, ok bool) {
	for {
		if !ci.hasRow {
			return cell.Cell(0), 0, 0, false
		}
		if ci.ri.pi.dir == RightDown {
			if ci.x >= ci.cols {
				ci.curPage, ci.curY, ci.hasRow = ci.ri.Next()
				ci.x = 0
				continue
			}
			c = ci.curPage.Cell(ci.curY, ci.x)
			y, x = ci.curY, ci.x
			ci.x++
			return c, y, x, true
		}
		if ci.x < 0 {
			ci.curPage, ci.curY, ci.hasRow = ci.ri.Next()
			ci.x = ci.cols - 1
			continue
		}
		c = ci.curPage.Cell(ci.curY, ci.x)
		y, x = ci.curY, ci.x
		ci.x--
		return c, y, x, true
	}
}
