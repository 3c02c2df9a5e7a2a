// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import (
	"testing"

	"github.com/ericwq/termstore/cell"
)

func TestResizeColsNoReflowShrinkClearsDroppedColumns(t *testing.T) {
	pl := newTestList(t, 10, 3, 0)
	p, err := pl.resolve(Point{Tag: Active, Y: 0, X: 9})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	p.node.page.SetCell(p.Y, 9, cell.NewCodepointCell('Z'))

	if err := pl.Resize(ResizeOptions{Cols: 5}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if pl.Cols() != 5 {
		t.Fatalf("Cols() = %d, want 5", pl.Cols())
	}
	if c := p.node.page.Cell(p.Y, 9); !c.IsZero() {
		t.Fatalf("dropped column 9 = %+v, want cleared", c)
	}
}

func TestResizeColsNoReflowGrowPreservesContent(t *testing.T) {
	pl := newTestList(t, 5, 3, 0)
	p, err := pl.resolve(Point{Tag: Active, Y: 1, X: 2})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	p.node.page.SetCell(p.Y, 2, cell.NewCodepointCell('Q'))

	if err := pl.Resize(ResizeOptions{Cols: 80}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	c, err := pl.GetCell(Point{Tag: Active, Y: 1, X: 2})
	if err != nil {
		t.Fatalf("GetCell: %v", err)
	}
	if c.Codepoint() != 'Q' {
		t.Fatalf("Codepoint = %q, want Q", c.Codepoint())
	}
}

func TestResizeRowsShrinkReducesRequiredHeight(t *testing.T) {
	pl := newTestList(t, 10, 10, 0)
	if err := pl.Resize(ResizeOptions{Rows: 4}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if pl.Rows() != 4 {
		t.Fatalf("Rows() = %d, want 4", pl.Rows())
	}
}

func TestResizeRowsGrowPullsFromHistoryWhenCursorAtBottom(t *testing.T) {
	pl := newTestList(t, 10, 4, 0)
	fillToFullPages(t, pl, 1)
	before := pl.TotalRows()

	wantRows := pl.Rows() + 2
	cursor := &CursorPos{X: 0, Y: pl.Rows() - 1}
	if err := pl.Resize(ResizeOptions{Rows: wantRows, Cursor: cursor}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if pl.Rows() != wantRows {
		t.Fatalf("Rows() = %d, want %d", pl.Rows(), wantRows)
	}
	if pl.TotalRows() < before {
		t.Fatalf("TotalRows shrank across a row-count grow")
	}
}
