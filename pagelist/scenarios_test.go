// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import (
	"testing"

	"github.com/ericwq/termstore/cell"
)

// These mirror the end-to-end scenarios from spec §8, named the same way
// so the list of properties they exercise stays traceable.

func TestS1GrowBeyondBudgetPrunesScrollback(t *testing.T) {
	pl := newTestList(t, 80, 24, 0)
	fillToFullPages(t, pl, 2)

	pin, err := pl.TrackPin(Point{Tag: Screen, Y: 0, X: 0})
	if err != nil {
		t.Fatalf("TrackPin: %v", err)
	}
	oldHead := pl.head

	if err := pl.Grow(); err != nil {
		t.Fatalf("Grow: %v", err)
	}

	if pl.pageCount != 2 {
		t.Fatalf("pageCount = %d, want 2", pl.pageCount)
	}
	if pin.node == oldHead {
		t.Fatalf("pin still on pruned page")
	}
	if pin.node != pl.head || pin.Y != 0 || pin.X != 0 {
		t.Fatalf("pin = (%v, %d, %d), want (head, 0, 0)", pin.node, pin.Y, pin.X)
	}
	if pl.Rows() != 24 {
		t.Fatalf("Rows() = %d, want 24 (active area size unchanged)", pl.Rows())
	}
}

func TestS2ReflowMoreColsUnwraps(t *testing.T) {
	pl := newTestList(t, 2, 4, 0)
	row0, err := pl.resolve(Point{Tag: Screen, Y: 0, X: 0})
	if err != nil {
		t.Fatalf("resolve row0: %v", err)
	}
	row0.node.page.SetCell(0, 0, cell.NewCodepointCell('A'))
	row0.node.page.SetCell(0, 1, cell.NewCodepointCell('B'))
	row0.node.page.SetRow(0, row0.node.page.Row(0).WithWrap(true))

	row1, err := pl.resolve(Point{Tag: Screen, Y: 1, X: 0})
	if err != nil {
		t.Fatalf("resolve row1: %v", err)
	}
	row1.node.page.SetCell(1, 0, cell.NewCodepointCell('C'))
	row1.node.page.SetCell(1, 1, cell.NewCodepointCell('D'))
	row1.node.page.SetRow(1, row1.node.page.Row(1).WithWrapContinuation(true))

	if err := pl.Resize(ResizeOptions{Cols: 4, Reflow: true}); err != nil {
		t.Fatalf("Resize: %v", err)
	}

	want := []rune{'A', 'B', 'C', 'D'}
	for x, r := range want {
		c, err := pl.GetCell(Point{Tag: Screen, Y: 0, X: x})
		if err != nil {
			t.Fatalf("GetCell(0,%d): %v", x, err)
		}
		if c.Codepoint() != r {
			t.Fatalf("cell(0,%d) = %q, want %q", x, c.Codepoint(), r)
		}
	}
	row0After, err := pl.resolve(Point{Tag: Screen, Y: 0, X: 0})
	if err != nil {
		t.Fatalf("resolve after: %v", err)
	}
	if row0After.node.page.Row(row0After.Y).Wrap() {
		t.Fatalf("row 0 still marked wrap after unwrap")
	}
	if pl.TotalRows() != 4 {
		t.Fatalf("TotalRows = %d, want 4", pl.TotalRows())
	}
}

func TestS3ReflowFewerColsWrapsAndPreservesCursor(t *testing.T) {
	pl := newTestList(t, 5, 10, 0)
	p, err := pl.resolve(Point{Tag: Screen, Y: 5, X: 0})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for x := 0; x < 5; x++ {
		p.node.page.SetCell(p.Y, x, cell.NewCodepointCell(rune('0'+x)))
	}

	pin, err := pl.TrackPin(Point{Tag: Active, Y: 5, X: 2})
	if err != nil {
		t.Fatalf("TrackPin: %v", err)
	}

	cursor := &CursorPos{X: 2, Y: 5}
	if err := pl.Resize(ResizeOptions{Cols: 4, Reflow: true, Cursor: cursor}); err != nil {
		t.Fatalf("Resize: %v", err)
	}

	row5, err := pl.resolve(Point{Tag: Screen, Y: 5, X: 0})
	if err != nil {
		t.Fatalf("resolve row5: %v", err)
	}
	for x, want := range []rune{'0', '1', '2', '3'} {
		c := row5.node.page.Cell(row5.Y, x)
		if c.Codepoint() != want {
			t.Fatalf("row5 cell(%d) = %q, want %q", x, c.Codepoint(), want)
		}
	}
	if !row5.node.page.Row(row5.Y).Wrap() {
		t.Fatalf("row5 not marked wrap")
	}

	row6, err := pl.resolve(Point{Tag: Screen, Y: 6, X: 0})
	if err != nil {
		t.Fatalf("resolve row6: %v", err)
	}
	if row6.node.page.Cell(row6.Y, 0).Codepoint() != '4' {
		t.Fatalf("row6 cell(0) = %q, want '4'", row6.node.page.Cell(row6.Y, 0).Codepoint())
	}
	if !row6.node.page.Row(row6.Y).WrapContinuation() {
		t.Fatalf("row6 not marked wrap_continuation")
	}

	pt := pl.PointFromPin(Active, pin)
	if pt.X != 3 || pt.Y != 6 {
		t.Fatalf("pin = %v, want active(6,3)", pt)
	}
}

func TestS4EraseRowCascadeAcrossPageBoundary(t *testing.T) {
	pl := newTestList(t, 80, 24, 0)
	fillToFullPages(t, pl, 2)

	secondPage := pl.tail
	lastPage := pl.head
	lastRow := lastPage.page.Size() - 1

	pin, err := pl.TrackPin(Point{Tag: Screen, Y: lastRow + 1, X: 0})
	if err != nil {
		t.Fatalf("TrackPin: %v", err)
	}
	if pin.node != secondPage || pin.Y != 0 {
		t.Fatalf("pin not on the second page's first row before erase")
	}

	if err := pl.EraseRow(Point{Tag: Screen, Y: lastRow}); err != nil {
		t.Fatalf("EraseRow: %v", err)
	}

	if pin.node != lastPage || pin.Y != lastRow || pin.X != 0 {
		t.Fatalf("pin = (%v, %d, %d), want (%v, %d, 0)", pin.node, pin.Y, pin.X, lastPage, lastRow)
	}
}

func TestS5ScrollClearPushesNonEmptyPrefix(t *testing.T) {
	pl := newTestList(t, 10, 5, 0)
	for _, y := range []int{0, 1} {
		p, err := pl.resolve(Point{Tag: Active, Y: y, X: 0})
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		p.node.page.SetCell(p.Y, 0, cell.NewCodepointCell('A'))
	}

	if err := pl.ScrollClear(); err != nil {
		t.Fatalf("ScrollClear: %v", err)
	}

	an, ay := pl.activeStart()
	topScreen := pl.screenRowOf(an, ay)
	if topScreen != 2 {
		t.Fatalf("active top at screen row %d, want 2", topScreen)
	}

	for _, y := range []int{0, 1} {
		c, err := pl.GetCell(Point{Tag: Screen, Y: y, X: 0})
		if err != nil {
			t.Fatalf("GetCell: %v", err)
		}
		if c.Codepoint() != 'A' {
			t.Fatalf("scrollback row %d cell = %q, want 'A'", y, c.Codepoint())
		}
	}
}

func TestS6AdjustCapacityGrowStylesPreservesContent(t *testing.T) {
	pl := newTestList(t, 2, 2, 0)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			p, err := pl.resolve(Point{Tag: Screen, Y: y, X: x})
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			p.node.page.SetCell(p.Y, p.X, cell.NewCodepointCell('x'))
		}
	}

	pg := pl.head.page
	grown := pg.Capacity()
	grown.Styles *= 2

	np, err := pg.AdjustCapacity(grown)
	if err != nil {
		t.Fatalf("AdjustCapacity: %v", err)
	}
	defer np.Close()

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if np.Cell(y, x).Codepoint() != 'x' {
				t.Fatalf("cell(%d,%d) lost content", y, x)
			}
		}
	}
	if np.Capacity().Styles != grown.Styles {
		t.Fatalf("Styles = %d, want %d", np.Capacity().Styles, grown.Styles)
	}
	if pl.pageCount != 1 {
		t.Fatalf("pageCount = %d, want 1", pl.pageCount)
	}
}
