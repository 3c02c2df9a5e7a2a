// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pagelist implements the screen: a doubly-linked list of pages
// covering the active area and scrollback, the pin registry that keeps
// tracked coordinates valid across every mutation, the viewport
// descriptor, and the grow/erase/scroll/resize/clone orchestration that
// sits on top of a single page (spec §4.3-§4.8).
package pagelist

import (
	"errors"
	"fmt"

	"github.com/ericwq/termstore/cell"
	"github.com/ericwq/termstore/page"
	"github.com/ericwq/termstore/style"
)

// ErrOutOfMemory is returned when a mutation needs a new page and
// neither pruning scrollback nor allocating fresh memory can make room.
var ErrOutOfMemory = errors.New("pagelist: out of memory")

// node is one link of the page list. The node itself is stable for its
// lifetime, but its page pointer is replaced whenever the page is
// reallocated at a larger capacity, so pins refer to nodes, not pages.
type node struct {
	page *page.Page
	prev *node
	next *node
}

// ViewportTag selects which of the three viewport behaviors is active.
type ViewportTag int

const (
	ViewportActive ViewportTag = iota
	ViewportTop
	ViewportPinned
)

// PageList is the top-level screen storage: a chain of pages plus the
// bookkeeping spec §3/§4.3 describes. cols is uniform across every
// page's live size; rows is the required height of the active area.
type PageList struct {
	head, tail *node
	pageCount  int

	cols int
	rows int

	explicitMaxBytes int
	minMaxBytes      int

	pins        map[*Pin]struct{}
	viewportPin *Pin
	viewportTag ViewportTag

	title     string
	iconName  string
	bellCount int
}

// Pin is a tracked `{page, y, x}` coordinate. Callers obtain one from
// TrackPin and must UntrackPin it when done; the PageList rewrites every
// live pin's fields across every mutation that moves rows.
type Pin struct {
	node *node
	Y, X int
}

func bytesPerStandardPage(cols int) int {
	cap := page.StandardCapacity(cols)
	return cap.Rows * cap.Cols * 8 /* cell */ + cap.Rows*8 /* row */
}

// New creates a page list with the given active-area dimensions. If
// maxBytes is 0, a minimum budget enough for the active area plus one
// spare page is used (spec §4.3 min_max_size).
func New(cols, rows, maxBytes int) (*PageList, error) {
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("pagelist: cols and rows must be positive")
	}
	pl := &PageList{
		cols:             cols,
		rows:             rows,
		explicitMaxBytes: maxBytes,
		pins:             make(map[*Pin]struct{}),
		viewportTag:      ViewportActive,
	}
	perPage := bytesPerStandardPage(cols)
	capRows := page.StandardCapacity(cols).Rows
	pagesNeeded := (rows + capRows - 1) / capRows
	if pagesNeeded < 1 {
		pagesNeeded = 1
	}
	pl.minMaxBytes = perPage * (pagesNeeded + 1)

	for rem := rows; rem > 0; {
		p, err := page.New(page.StandardCapacity(cols))
		if err != nil {
			return nil, err
		}
		n := rem
		if n > capRows {
			n = capRows
		}
		if err := p.SetSize(n); err != nil {
			return nil, err
		}
		pl.appendNode(&node{page: p})
		rem -= n
	}

	vp := &Pin{node: pl.head, Y: 0, X: 0}
	pl.pins[vp] = struct{}{}
	pl.viewportPin = vp
	return pl, nil
}

func (pl *PageList) maxBytes() int {
	if pl.explicitMaxBytes > pl.minMaxBytes {
		return pl.explicitMaxBytes
	}
	return pl.minMaxBytes
}

func (pl *PageList) appendNode(n *node) {
	n.prev = pl.tail
	n.next = nil
	if pl.tail != nil {
		pl.tail.next = n
	} else {
		pl.head = n
	}
	pl.tail = n
	pl.pageCount++
}

func (pl *PageList) removeNode(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		pl.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		pl.tail = n.prev
	}
	pl.pageCount--
}

func (pl *PageList) prependNode(n *node) {
	n.next = pl.head
	n.prev = nil
	if pl.head != nil {
		pl.head.prev = n
	} else {
		pl.tail = n
	}
	pl.head = n
	pl.pageCount++
}

// Cols returns the uniform column count.
func (pl *PageList) Cols() int { return pl.cols }

// Rows returns the required active-area row count.
func (pl *PageList) Rows() int { return pl.rows }

// TotalRows returns the sum of every page's live row count.
func (pl *PageList) TotalRows() int {
	total := 0
	for n := pl.head; n != nil; n = n.next {
		total += n.page.Size()
	}
	return total
}

// TotalBytes returns the approximate memory footprint of every page's
// row and cell arrays (the quantity the byte budget is measured
// against).
func (pl *PageList) TotalBytes() int {
	total := 0
	for n := pl.head; n != nil; n = n.next {
		c := n.page.Capacity()
		total += c.Rows*c.Cols*8 + c.Rows*8
	}
	return total
}

// activeStart returns the node and within-node row at which the active
// area begins, walking backward from the tail until accumulated rows
// meet or exceed pl.rows (spec §3's page-list invariant).
func (pl *PageList) activeStart() (n *node, y int) {
	need := pl.rows
	for cur := pl.tail; cur != nil; cur = cur.prev {
		sz := cur.page.Size()
		if sz >= need {
			return cur, sz - need
		}
		need -= sz
		if cur.prev == nil {
			return cur, 0
		}
	}
	return pl.tail, 0
}

// GetCell returns the cell at the given tagged point.
func (pl *PageList) GetCell(pt Point) (cell.Cell, error) {
	p, err := pl.resolve(pt)
	if err != nil {
		return cell.Cell(0), err
	}
	return p.node.page.Cell(p.Y, p.X), nil
}

// SetCell writes c at the given tagged point and sets the row's styled
// and grapheme flags to match it. It does not upsert styles or grow
// capacity: a non-zero style id in c must already belong to the
// destination page's style set (see UpsertStyleAt). This is the write-side counterpart to GetCell: callers (the VT dispatch
// layer spec §1 places outside this engine) resolve a point once and
// push codepoints through here rather than reaching into a *page.Page
// directly, since the page a point resolves to can change across any
// mutation.
func (pl *PageList) SetCell(pt Point, c cell.Cell) error {
	p, err := pl.resolve(pt)
	if err != nil {
		return err
	}
	p.node.page.SetCell(p.Y, p.X, c)
	if c.StyleID() != 0 {
		p.node.page.SetRow(p.Y, p.node.page.Row(p.Y).WithStyled(true))
	}
	if c.ContentTag() == cell.CodepointGrapheme {
		p.node.page.SetRow(p.Y, p.node.page.Row(p.Y).WithGrapheme(true))
	}
	return nil
}

// UpsertStyleAt resolves pt's page and upserts st into that page's style
// set, retrying once after doubling style capacity on exhaustion (spec
// §7). The returned id is only valid for cells written to the same
// page as pt; callers writing a styled run should call this once per
// destination page, not once per cell.
func (pl *PageList) UpsertStyleAt(pt Point, st style.Style) (uint16, error) {
	p, err := pl.resolve(pt)
	if err != nil {
		return 0, err
	}
	id, err := p.node.page.UpsertStyle(st)
	if err == page.ErrOutOfMemory {
		if err = pl.growNodeStyles(p.node); err != nil {
			return 0, err
		}
		id, err = p.node.page.UpsertStyle(st)
	}
	return id, err
}

// AppendGraphemeAt appends extra to the grapheme cluster at pt, retrying
// once after doubling grapheme-arena capacity on exhaustion (spec §7).
func (pl *PageList) AppendGraphemeAt(pt Point, extra rune) error {
	p, err := pl.resolve(pt)
	if err != nil {
		return err
	}
	err = p.node.page.AppendGrapheme(p.Y, p.X, extra)
	if err == page.ErrOutOfMemory {
		if err = pl.growNodeGraphemes(p.node); err != nil {
			return err
		}
		err = p.node.page.AppendGrapheme(p.Y, p.X, extra)
	}
	return err
}
