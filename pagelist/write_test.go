// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import (
	"testing"

	"github.com/ericwq/termstore/cell"
)

func TestWriteRowClassifiesWideRune(t *testing.T) {
	pl := newTestList(t, 10, 3, 0)
	if err := pl.WriteRow(Point{Tag: Active, Y: 0, X: 0}, "中A", 0); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	head, err := pl.GetCell(Point{Tag: Active, Y: 0, X: 0})
	if err != nil {
		t.Fatalf("GetCell: %v", err)
	}
	if head.Wide() != cell.WideChar || head.Codepoint() != '中' {
		t.Fatalf("cell(0,0) = %+v, want wide char U+4E2D", head)
	}
	tail, err := pl.GetCell(Point{Tag: Active, Y: 0, X: 1})
	if err != nil {
		t.Fatalf("GetCell: %v", err)
	}
	if tail.Wide() != cell.SpacerTail {
		t.Fatalf("cell(0,1) = %+v, want spacer_tail", tail)
	}
	next, err := pl.GetCell(Point{Tag: Active, Y: 0, X: 2})
	if err != nil {
		t.Fatalf("GetCell: %v", err)
	}
	if next.Codepoint() != 'A' {
		t.Fatalf("cell(0,2) = %+v, want 'A'", next)
	}
}

// "e" (U+0065) plus a combining acute accent (U+0301) is one grapheme
// cluster with a base rune and one extra combining rune.
func TestWriteRowSplitsCombiningClusterIntoGrapheme(t *testing.T) {
	pl := newTestList(t, 10, 3, 0)
	s := "é"
	if err := pl.WriteRow(Point{Tag: Active, Y: 1, X: 0}, s, 0); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	p, err := pl.resolve(Point{Tag: Active, Y: 1, X: 0})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !p.node.page.Row(1).Grapheme() {
		t.Fatalf("row.grapheme not set after writing a combining cluster")
	}
	extra := p.node.page.LookupGrapheme(1, 0)
	if len(extra) != 1 || extra[0] != '́' {
		t.Fatalf("LookupGrapheme = %v, want [U+0301]", extra)
	}
}

func TestWriteRowWideAtLastColumnGetsSpacerHead(t *testing.T) {
	pl := newTestList(t, 3, 2, 0)
	if err := pl.WriteRow(Point{Tag: Active, Y: 0, X: 0}, "AB中", 0); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	last, err := pl.GetCell(Point{Tag: Active, Y: 0, X: 2})
	if err != nil {
		t.Fatalf("GetCell: %v", err)
	}
	if last.Wide() != cell.SpacerHead {
		t.Fatalf("cell(0,2) = %+v, want bare spacer_head", last)
	}
}
