// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import "github.com/ericwq/termstore/page"

// CloneMemory selects whether a clone allocates its own backing pages
// (Own) or is documented as sharing a pool with its source (SharedPool).
// This engine does not yet implement an actual page-buffer pool (spec
// §5's node/page-buffer/pin pools), so both modes currently allocate
// independently; SharedPool is accepted for API compatibility and
// recorded so callers relying on the distinction aren't silently given
// the wrong semantics once pooling lands.
type CloneMemory int

const (
	CloneOwn CloneMemory = iota
	CloneSharedPool
)

// CloneOptions describes a Clone call (spec §6 clone).
type CloneOptions struct {
	Top, Bot  *Point
	Memory    CloneMemory
	RemapPins []*Pin
}

// Clone duplicates the rows from Top (inclusive, default screen row 0)
// to Bot (exclusive, default end of list) into a new, independent
// PageList. Pins named in RemapPins that fall within the cloned range
// get a corresponding pin in the result; the returned map lets the
// caller translate them.
func (pl *PageList) Clone(opts CloneOptions) (*PageList, map[*Pin]*Pin, error) {
	topScreen := 0
	if opts.Top != nil {
		topScreen = pl.resolveToScreenRow(*opts.Top)
	}
	botScreen := pl.TotalRows()
	if opts.Bot != nil {
		botScreen = pl.resolveToScreenRow(*opts.Bot)
	}
	rowsToClone := botScreen - topScreen
	if rowsToClone <= 0 {
		rowsToClone = 0
	}

	clonedRows := rowsToClone
	if clonedRows < pl.rows {
		clonedRows = pl.rows
	}

	dst := &PageList{
		cols:        pl.cols,
		rows:        pl.rows,
		pins:        make(map[*Pin]struct{}),
		viewportTag: ViewportActive,
	}
	capRows := page.StandardCapacity(pl.cols).Rows
	pagesNeeded := (pl.rows + capRows - 1) / capRows
	if pagesNeeded < 1 {
		pagesNeeded = 1
	}
	dst.minMaxBytes = bytesPerStandardPage(pl.cols) * (pagesNeeded + 1)
	dst.explicitMaxBytes = pl.explicitMaxBytes

	remapWant := make(map[*Pin]struct{}, len(opts.RemapPins))
	for _, p := range opts.RemapPins {
		remapWant[p] = struct{}{}
	}
	remapped := make(map[*Pin]*Pin)

	srcRows, err := pl.pinAtScreenRow(topScreen, 0)
	var srcN *node
	var srcY int
	if rowsToClone > 0 && err == nil {
		srcN, srcY = srcRows.node, srcRows.Y
	}

	write := func() (*node, int, error) {
		if dst.tail == nil || dst.tail.page.Size() == dst.tail.page.Capacity().Rows {
			np, err := page.New(page.StandardCapacity(pl.cols))
			if err != nil {
				return nil, 0, err
			}
			dst.appendNode(&node{page: np})
		}
		n := dst.tail
		if err := n.page.SetSize(n.page.Size() + 1); err != nil {
			return nil, 0, err
		}
		return n, n.page.Size() - 1, nil
	}

	for i := 0; i < rowsToClone; i++ {
		dn, dy, err := write()
		if err != nil {
			return nil, nil, err
		}
		grown, err := cloneRowRetrying(dn.page, srcN.page, srcY, dy)
		if err != nil {
			return nil, nil, err
		}
		dn.page = grown
		for p := range remapWant {
			if p.node == srcN && p.Y == srcY {
				remapped[p] = &Pin{node: dn, Y: dy, X: p.X}
			}
		}
		srcY++
		if srcY >= srcN.page.Size() {
			srcN = srcN.next
			srcY = 0
		}
	}

	for dst.TotalRows() < clonedRows {
		if _, _, err := write(); err != nil {
			return nil, nil, err
		}
	}
	if dst.head == nil {
		np, err := page.New(page.StandardCapacity(pl.cols))
		if err != nil {
			return nil, nil, err
		}
		if err := np.SetSize(pl.rows); err != nil {
			return nil, nil, err
		}
		dst.appendNode(&node{page: np})
	}

	for p, np := range remapped {
		dst.pins[np] = struct{}{}
		_ = p
	}
	vp := &Pin{node: dst.head, Y: 0, X: 0}
	dst.pins[vp] = struct{}{}
	dst.viewportPin = vp

	return dst, remapped, nil
}
