// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import (
	"testing"

	"github.com/ericwq/termstore/cell"
)

func TestEraseRowPullsUpSubsequentRows(t *testing.T) {
	pl := newTestList(t, 10, 4, 0)
	for y := 0; y < 4; y++ {
		p, err := pl.resolve(Point{Tag: Active, Y: y, X: 0})
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		p.node.page.SetCell(p.Y, 0, cell.NewCodepointCell(rune('A'+y)))
	}

	if err := pl.EraseRow(Point{Tag: Active, Y: 1}); err != nil {
		t.Fatalf("EraseRow: %v", err)
	}

	want := []rune{'A', 'C', 'D'}
	for y, r := range want {
		c, err := pl.GetCell(Point{Tag: Active, Y: y})
		if err != nil {
			t.Fatalf("GetCell(%d): %v", y, err)
		}
		if c.Codepoint() != r {
			t.Fatalf("row %d = %q, want %q", y, c.Codepoint(), r)
		}
	}
}

func TestEraseRowsRemovesWholeRange(t *testing.T) {
	pl := newTestList(t, 10, 5, 0)
	for y := 0; y < 5; y++ {
		p, err := pl.resolve(Point{Tag: Active, Y: y, X: 0})
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		p.node.page.SetCell(p.Y, 0, cell.NewCodepointCell(rune('A'+y)))
	}

	top := Point{Tag: Active, Y: 1}
	bot := Point{Tag: Active, Y: 3}
	if err := pl.EraseRows(top, &bot); err != nil {
		t.Fatalf("EraseRows: %v", err)
	}

	want := []rune{'A', 'D', 'E'}
	for y, r := range want {
		c, err := pl.GetCell(Point{Tag: Active, Y: y})
		if err != nil {
			t.Fatalf("GetCell(%d): %v", y, err)
		}
		if c.Codepoint() != r {
			t.Fatalf("row %d = %q, want %q", y, c.Codepoint(), r)
		}
	}
}

func TestEraseRowOnSingleRowListReinitializesAndRegrows(t *testing.T) {
	pl := newTestList(t, 10, 1, 0)
	if err := pl.EraseRow(Point{Tag: Active, Y: 0}); err != nil {
		t.Fatalf("EraseRow: %v", err)
	}
	if pl.TotalRows() != 1 {
		t.Fatalf("TotalRows = %d, want 1 after auto-regrow", pl.TotalRows())
	}
}
