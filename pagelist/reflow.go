// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import (
	"sort"

	"github.com/ericwq/termstore/cell"
	"github.com/ericwq/termstore/page"
)

// pinRef remembers where a tracked pin sits within a logicalLine's
// flattened cell buffer, so it can be remapped once that content has
// been rewritten into the new destination pages.
type pinRef struct {
	pin    *Pin
	offset int // index into logicalLine.cells, or clamped to the last one
}

// cellRef is a flattened cell plus enough of its origin to re-upsert
// its style and re-append its grapheme data into whatever destination
// page ends up holding it; the cell value alone only carries a
// page-local style id and content tag, not the style/grapheme payload.
type cellRef struct {
	c            cell.Cell
	srcPage      *page.Page
	srcY, srcX   int
}

// logicalLine is one source line of text, possibly spanning several
// physical rows joined by wrap/wrap_continuation, flattened into a
// single cell buffer plus the pins that live somewhere inside it.
type logicalLine struct {
	cells  []cellRef
	prompt cell.SemanticPrompt
	pins   []pinRef
}

// reflowCols rewrites every page at a new column count, redistributing
// content across rows as lines get longer or shorter (spec §4.5). If
// cursor is non-nil, Grow is called afterward as needed so the number
// of rows below the cursor in the active area is preserved.
func (pl *PageList) reflowCols(newCols int, cursor *CursorPos) error {
	oldCols := pl.cols
	if newCols == oldCols {
		return nil
	}

	var rowsBelowCursorBefore int
	var cursorPin *Pin
	if cursor != nil {
		p, err := pl.resolve(Point{Tag: Active, Y: cursor.Y, X: cursor.X})
		if err == nil {
			cursorPin = p
			pl.pins[p] = struct{}{}
			defer delete(pl.pins, p)
			an, ay := pl.activeStart()
			rowsBelowCursorBefore = pl.screenRowOf(pl.tail, pl.tail.page.Size()-1) - pl.screenRowOf(an, ay) - (pl.screenRowOf(p.node, p.Y) - pl.screenRowOf(an, ay))
		}
	}

	lines := pl.flattenLogicalLines()

	newHead, newTail, err := pl.writeLogicalLines(lines, newCols)
	if err != nil {
		return err
	}

	for n := pl.head; n != nil; {
		next := n.next
		n.page.Close()
		n = next
	}
	pl.head, pl.tail = newHead, newTail
	pl.cols = newCols
	pl.pageCount = 0
	for n := pl.head; n != nil; n = n.next {
		pl.pageCount++
	}
	capRows := page.StandardCapacity(newCols).Rows
	pagesNeeded := (pl.rows + capRows - 1) / capRows
	if pagesNeeded < 1 {
		pagesNeeded = 1
	}
	pl.minMaxBytes = bytesPerStandardPage(newCols) * (pagesNeeded + 1)

	// The viewport pin always exists; if reflow didn't touch it (e.g.
	// it had no content), leave it at the list head.
	if pl.viewportPin.node == nil {
		pl.viewportPin.node = pl.head
		pl.viewportPin.Y, pl.viewportPin.X = 0, 0
	}

	for pl.TotalRows() < pl.rows {
		if err := pl.Grow(); err != nil {
			break
		}
	}

	if cursorPin != nil {
		an, ay := pl.activeStart()
		rowsBelowAfter := pl.screenRowOf(pl.tail, pl.tail.page.Size()-1) - pl.screenRowOf(an, ay) - (pl.screenRowOf(cursorPin.node, cursorPin.Y) - pl.screenRowOf(an, ay))
		for rowsBelowAfter < rowsBelowCursorBefore {
			if err := pl.Grow(); err != nil {
				break
			}
			rowsBelowAfter++
		}
	}
	return nil
}

// flattenLogicalLines walks every row of every page in order, grouping
// consecutive wrap/wrap_continuation rows into one logicalLine each, and
// records where every tracked pin lands inside its line.
func (pl *PageList) flattenLogicalLines() []*logicalLine {
	pinByNodeY := make(map[*node]map[int][]*Pin)
	pl.foreachPin(func(p *Pin) {
		if pinByNodeY[p.node] == nil {
			pinByNodeY[p.node] = make(map[int][]*Pin)
		}
		pinByNodeY[p.node][p.Y] = append(pinByNodeY[p.node][p.Y], p)
	})

	var lines []*logicalLine
	var cur *logicalLine
	for n := pl.head; n != nil; n = n.next {
		for y := 0; y < n.page.Size(); y++ {
			r := n.page.Row(y)
			pinsHere := pinByNodeY[n][y]
			sort.Slice(pinsHere, func(i, j int) bool { return pinsHere[i].X < pinsHere[j].X })

			rowLen := pl.cols
			if !r.Wrap() {
				rowLen = trimmedLength(n.page, y, pl.cols)
				for _, p := range pinsHere {
					if p.X+1 > rowLen {
						rowLen = p.X + 1
					}
				}
			}

			if !r.WrapContinuation() {
				if cur != nil {
					lines = append(lines, cur)
				}
				cur = &logicalLine{prompt: r.SemanticPrompt()}
			}
			base := len(cur.cells)
			for x := 0; x < rowLen; x++ {
				cur.cells = append(cur.cells, cellRef{c: n.page.Cell(y, x), srcPage: n.page, srcY: y, srcX: x})
			}
			for _, p := range pinsHere {
				off := base + p.X
				if p.X >= rowLen {
					off = base + rowLen - 1
				}
				if off < 0 {
					off = 0
				}
				cur.pins = append(cur.pins, pinRef{pin: p, offset: off})
			}
		}
	}
	if cur != nil {
		lines = append(lines, cur)
	}
	return lines
}

func trimmedLength(p *page.Page, y, cols int) int {
	n := cols
	for n > 0 && p.Cell(y, n-1).IsZero() {
		n--
	}
	return n
}

// destCursor tracks where the next cell gets written while assembling
// new pages at the new column width.
type destCursor struct {
	head, tail *node
	cols       int
	y, x       int
}

func newDestCursor(cols int) (*destCursor, error) {
	p, err := page.New(page.StandardCapacity(cols))
	if err != nil {
		return nil, err
	}
	if err := p.SetSize(1); err != nil {
		return nil, err
	}
	n := &node{page: p}
	return &destCursor{head: n, tail: n, cols: cols}, nil
}

func (d *destCursor) current() *node { return d.tail }

// advanceRow moves the cursor to a fresh row, allocating a new page if
// the current one is full.
func (d *destCursor) advanceRow() error {
	if d.tail.page.Size() < d.tail.page.Capacity().Rows {
		if err := d.tail.page.SetSize(d.tail.page.Size() + 1); err != nil {
			return err
		}
		d.y = d.tail.page.Size() - 1
		d.x = 0
		return nil
	}
	p, err := page.New(page.StandardCapacity(d.cols))
	if err != nil {
		return err
	}
	if err := p.SetSize(1); err != nil {
		return err
	}
	n := &node{page: p, prev: d.tail}
	d.tail.next = n
	d.tail = n
	d.y, d.x = 0, 0
	return nil
}

// writeLogicalLines rewrites every line into freshly allocated pages at
// newCols, returning the new list's head/tail. Pin fields are updated
// in place as each is reached.
func (pl *PageList) writeLogicalLines(lines []*logicalLine, newCols int) (*node, *node, error) {
	d, err := newDestCursor(newCols)
	if err != nil {
		return nil, nil, err
	}

	// newDestCursor already allocated one blank row (d.y=0, d.x=0); the
	// first thing written reuses it instead of advancing past it.
	started := false
	nextRow := func() error {
		if !started {
			started = true
			return nil
		}
		return d.advanceRow()
	}

	blank := 0
	flushBlanks := func() error {
		for blank > 0 {
			if err := nextRow(); err != nil {
				return err
			}
			blank--
		}
		return nil
	}

	for _, line := range lines {
		if len(line.cells) == 0 && len(line.pins) == 0 {
			blank++
			continue
		}
		if err := flushBlanks(); err != nil {
			return nil, nil, err
		}
		if err := nextRow(); err != nil {
			return nil, nil, err
		}
		d.tail.page.SetRow(d.y, d.tail.page.Row(d.y).WithSemanticPrompt(line.prompt))

		pinIdx := 0
		for i := 0; i < len(line.cells); i++ {
			ref := line.cells[i]
			c := ref.c

			if newCols == 1 && c.Wide() == cell.WideChar {
				d.tail.page.SetCell(d.y, d.x, cell.NewCodepointCell(' '))
				pl.remapPinsAt(line, &pinIdx, i, d.tail, d.y, d.x)
				d.x++
				i++ // drop the paired spacer tail
				pl.remapPinsAt(line, &pinIdx, i, d.tail, d.y, d.x-1)
				continue
			}

			if c.Wide() == cell.WideChar && d.x == d.cols-1 {
				d.tail.page.SetCell(d.y, d.x, cell.Cell(0).WithWide(cell.SpacerHead))
				row := d.tail.page.Row(d.y).WithWrap(true)
				d.tail.page.SetRow(d.y, row)
				if err := d.advanceRow(); err != nil {
					return nil, nil, err
				}
				d.tail.page.SetRow(d.y, d.tail.page.Row(d.y).WithWrapContinuation(true))
			} else if d.x == d.cols {
				d.tail.page.SetRow(d.y, d.tail.page.Row(d.y).WithWrap(true))
				if err := d.advanceRow(); err != nil {
					return nil, nil, err
				}
				d.tail.page.SetRow(d.y, d.tail.page.Row(d.y).WithWrapContinuation(true))
			}

			nc := c
			if c.StyleID() != 0 {
				st, ok := ref.srcPage.LookupStyle(c.StyleID())
				if ok {
					id, err := d.tail.page.UpsertStyle(st)
					if err == page.ErrOutOfMemory {
						if err = pl.growNodeStyles(d.tail); err != nil {
							return nil, nil, err
						}
						id, err = d.tail.page.UpsertStyle(st)
					}
					if err != nil {
						return nil, nil, err
					}
					nc = nc.WithStyleID(id)
				} else {
					nc = nc.WithStyleID(0)
				}
			}
			d.tail.page.SetCell(d.y, d.x, nc)
			if nc.StyleID() != 0 {
				d.tail.page.SetRow(d.y, d.tail.page.Row(d.y).WithStyled(true))
			}
			if c.ContentTag() == cell.CodepointGrapheme {
				d.tail.page.SetRow(d.y, d.tail.page.Row(d.y).WithGrapheme(true))
				for _, r := range ref.srcPage.LookupGrapheme(ref.srcY, ref.srcX) {
					if err := d.tail.page.AppendGrapheme(d.y, d.x, r); err == page.ErrOutOfMemory {
						if err = pl.growNodeGraphemes(d.tail); err != nil {
							return nil, nil, err
						}
						if err = d.tail.page.AppendGrapheme(d.y, d.x, r); err != nil {
							return nil, nil, err
						}
					} else if err != nil {
						return nil, nil, err
					}
				}
			}
			pl.remapPinsAt(line, &pinIdx, i, d.tail, d.y, d.x)
			d.x++
		}
	}
	if err := flushBlanks(); err != nil {
		return nil, nil, err
	}
	return d.head, d.tail, nil
}

func (pl *PageList) remapPinsAt(line *logicalLine, pinIdx *int, cellOffset int, n *node, y, x int) {
	for *pinIdx < len(line.pins) && line.pins[*pinIdx].offset == cellOffset {
		p := line.pins[*pinIdx].pin
		p.node, p.Y, p.X = n, y, x
		*pinIdx++
	}
}
