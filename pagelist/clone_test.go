// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import (
	"testing"

	"github.com/ericwq/termstore/cell"
)

func TestCloneCopiesContentIndependently(t *testing.T) {
	pl := newTestList(t, 10, 3, 0)
	p, err := pl.resolve(Point{Tag: Active, Y: 1, X: 4})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	p.node.page.SetCell(p.Y, 4, cell.NewCodepointCell('M'))

	clone, _, err := pl.Clone(CloneOptions{})
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}

	if clone.TotalRows() < pl.Rows() {
		t.Fatalf("clone.TotalRows() = %d, want >= %d", clone.TotalRows(), pl.Rows())
	}
	c, err := clone.GetCell(Point{Tag: Active, Y: 1, X: 4})
	if err != nil {
		t.Fatalf("GetCell on clone: %v", err)
	}
	if c.Codepoint() != 'M' {
		t.Fatalf("clone cell = %q, want M", c.Codepoint())
	}

	p.node.page.SetCell(p.Y, 4, cell.NewCodepointCell('N'))
	c2, err := clone.GetCell(Point{Tag: Active, Y: 1, X: 4})
	if err != nil {
		t.Fatalf("GetCell on clone after source mutation: %v", err)
	}
	if c2.Codepoint() != 'M' {
		t.Fatalf("clone mutated alongside source: got %q", c2.Codepoint())
	}
}

func TestCloneRemapsRequestedPins(t *testing.T) {
	pl := newTestList(t, 10, 3, 0)
	pin, err := pl.TrackPin(Point{Tag: Active, Y: 0, X: 0})
	if err != nil {
		t.Fatalf("TrackPin: %v", err)
	}

	_, remap, err := pl.Clone(CloneOptions{RemapPins: []*Pin{pin}})
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if _, ok := remap[pin]; !ok {
		t.Fatalf("pin not present in remap map")
	}
}
