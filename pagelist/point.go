// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import "fmt"

// Tag selects which of the four coordinate systems a Point is expressed
// in (spec §4.7).
type Tag int

const (
	Screen Tag = iota
	Active
	Viewport
	History
)

func (t Tag) String() string {
	switch t {
	case Screen:
		return "screen"
	case Active:
		return "active"
	case Viewport:
		return "viewport"
	case History:
		return "history"
	default:
		return "unknown"
	}
}

// Point is a row/column coordinate expressed relative to one of the
// tagged origins, adapted from the teacher's terminal/base.go Point
// (there untagged, absolute-only; this engine needs the tag to resolve
// against whichever region moves as the list mutates).
type Point struct {
	Tag  Tag
	Y, X int
}

func (p Point) String() string {
	return fmt.Sprintf("%s(%d,%d)", p.Tag, p.Y, p.X)
}

// resolve converts a tagged Point into an absolute Pin (page + local
// row/col), the form every mutator actually operates on.
func (pl *PageList) resolve(pt Point) (*Pin, error) {
	switch pt.Tag {
	case Screen:
		return pl.pinAtScreenRow(pt.Y, pt.X)
	case Active:
		an, ay := pl.activeStart()
		return pl.pinAtNodeRow(an, ay+pt.Y, pt.X)
	case Viewport:
		vn, vy := pl.viewportTopLeft()
		return pl.pinAtNodeRow(vn, vy+pt.Y, pt.X)
	case History:
		hn, hy := pl.head, pt.Y
		return pl.pinAtNodeRow(hn, hy, pt.X)
	default:
		return nil, fmt.Errorf("pagelist: unknown tag %v", pt.Tag)
	}
}

// pinAtScreenRow walks from the head, counting absolute rows, and
// returns the page/local-row/col at screen row y.
func (pl *PageList) pinAtScreenRow(y, x int) (*Pin, error) {
	if y < 0 {
		return nil, fmt.Errorf("pagelist: negative screen row %d", y)
	}
	for n := pl.head; n != nil; n = n.next {
		sz := n.page.Size()
		if y < sz {
			return &Pin{node: n, Y: y, X: x}, nil
		}
		y -= sz
	}
	return nil, fmt.Errorf("pagelist: screen row out of range")
}

func (pl *PageList) pinAtNodeRow(n *node, y, x int) (*Pin, error) {
	for n != nil && y >= n.page.Size() {
		y -= n.page.Size()
		n = n.next
	}
	if n == nil {
		return nil, fmt.Errorf("pagelist: row out of range")
	}
	return &Pin{node: n, Y: y, X: x}, nil
}

// viewportTopLeft resolves the viewport's current top-left node/row per
// its tag (spec §3 Viewport).
func (pl *PageList) viewportTopLeft() (*node, int) {
	switch pl.viewportTag {
	case ViewportTop:
		return pl.head, 0
	case ViewportPinned:
		return pl.viewportPin.node, pl.viewportPin.Y
	default: // ViewportActive
		return pl.activeStart()
	}
}

// screenRowOf returns the absolute screen row of the given node/local-row.
func (pl *PageList) screenRowOf(n *node, y int) int {
	row := y
	for cur := pl.head; cur != n; cur = cur.next {
		row += cur.page.Size()
	}
	return row
}

// PointFromPin converts an absolute Pin back into a tagged Point in the
// requested coordinate system.
func (pl *PageList) PointFromPin(tag Tag, p *Pin) Point {
	screenY := pl.screenRowOf(p.node, p.Y)
	switch tag {
	case Screen:
		return Point{Tag: Screen, Y: screenY, X: p.X}
	case Active:
		an, ay := pl.activeStart()
		return Point{Tag: Active, Y: screenY - pl.screenRowOf(an, ay), X: p.X}
	case Viewport:
		vn, vy := pl.viewportTopLeft()
		return Point{Tag: Viewport, Y: screenY - pl.screenRowOf(vn, vy), X: p.X}
	case History:
		return Point{Tag: History, Y: screenY, X: p.X}
	default:
		return Point{Tag: tag, Y: screenY, X: p.X}
	}
}

// GetTopLeft returns the tagged top-left Point of the region tag refers
// to.
func (pl *PageList) GetTopLeft(tag Tag) Point {
	switch tag {
	case Active:
		an, ay := pl.activeStart()
		return Point{Tag: Screen, Y: pl.screenRowOf(an, ay), X: 0}
	case Viewport:
		vn, vy := pl.viewportTopLeft()
		return Point{Tag: Screen, Y: pl.screenRowOf(vn, vy), X: 0}
	case History:
		return Point{Tag: Screen, Y: 0, X: 0}
	default:
		return Point{Tag: Screen, Y: 0, X: 0}
	}
}

// GetBottomRight returns the tagged bottom-right Point of the region
// tag refers to (inclusive, last valid row/col).
func (pl *PageList) GetBottomRight(tag Tag) Point {
	switch tag {
	case Active:
		return Point{Tag: Screen, Y: pl.TotalRows() - 1, X: pl.cols - 1}
	case History:
		an, ay := pl.activeStart()
		return Point{Tag: Screen, Y: pl.screenRowOf(an, ay) - 1, X: pl.cols - 1}
	case Viewport:
		vn, vy := pl.viewportTopLeft()
		y := pl.screenRowOf(vn, vy) + pl.rows - 1
		if y > pl.TotalRows()-1 {
			y = pl.TotalRows() - 1
		}
		return Point{Tag: Screen, Y: y, X: pl.cols - 1}
	default:
		return Point{Tag: Screen, Y: pl.TotalRows() - 1, X: pl.cols - 1}
	}
}
