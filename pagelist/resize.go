// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import "github.com/ericwq/termstore/page"

// CursorPos is the cursor's position relative to the active area's
// top-left, used by Resize to keep it visually stable (spec §4.5, §4.6).
type CursorPos struct {
	X, Y int
}

// ResizeOptions describes a requested resize (spec §6 resize). Cols or
// Rows of 0 means "leave unchanged".
type ResizeOptions struct {
	Cols   int
	Rows   int
	Reflow bool
	Cursor *CursorPos
}

// Resize changes the page list's column and/or row count, reflowing
// content across rows when Reflow is set and the column count changes,
// or performing the cheaper non-redistributing resize otherwise (spec
// §4.5, §4.6).
func (pl *PageList) Resize(opts ResizeOptions) error {
	if opts.Cols != 0 && opts.Cols != pl.cols {
		if opts.Reflow {
			if err := pl.reflowCols(opts.Cols, opts.Cursor); err != nil {
				return err
			}
		} else {
			if err := pl.resizeColsNoReflow(opts.Cols); err != nil {
				return err
			}
		}
	}
	if opts.Rows != 0 && opts.Rows != pl.rows {
		if err := pl.resizeRows(opts.Rows, opts.Cursor); err != nil {
			return err
		}
	}
	return nil
}

// resizeColsNoReflow implements spec §4.6's pure column-count change:
// cells in dropped columns are cleared; added columns just extend each
// page's live size when its capacity already covers them, or force a
// page reallocation at the new capacity otherwise.
func (pl *PageList) resizeColsNoReflow(newCols int) error {
	oldCols := pl.cols
	if newCols < oldCols {
		for n := pl.head; n != nil; n = n.next {
			for y := 0; y < n.page.Size(); y++ {
				n.page.ClearCells(y, newCols, oldCols-newCols)
			}
		}
		pl.cols = newCols
		pl.foreachPin(func(p *Pin) {
			if p.X >= newCols {
				p.X = newCols - 1
			}
		})
		return nil
	}

	for n := pl.head; n != nil; n = n.next {
		if n.page.Capacity().Cols >= newCols {
			continue
		}
		np, err := page.New(n.page.Capacity().AdjustCols(newCols))
		if err != nil {
			return err
		}
		if err := np.SetSize(n.page.Size()); err != nil {
			return err
		}
		for y := 0; y < n.page.Size(); y++ {
			grown, err := cloneRowRetrying(np, n.page, y, y)
			if err != nil {
				return err
			}
			np = grown
		}
		old := n.page
		n.page = np
		old.Close()
	}
	pl.cols = newCols
	return nil
}

// resizeRows implements spec §4.6's pure row-count change: shrinking
// trims trailing unpinned blank rows (pushing the rest into scrollback
// by simply reducing the required active height); growing adds blank
// rows below the cursor, or pulls from scrollback if the cursor is
// already at the bottom.
func (pl *PageList) resizeRows(newRows int, cursor *CursorPos) error {
	if newRows < pl.rows {
		for trim := pl.rows - newRows; trim > 0; trim-- {
			t := pl.tail
			y := t.page.Size() - 1
			activeY := newRows - 1 + trim
			pinned := cursor != nil && cursor.Y >= activeY
			pl.foreachPinIn(t, func(p *Pin) { pinned = pinned || p.Y == y })
			if y < 1 || pinned || !rowIsEmpty(t.page, y, pl.cols) {
				break
			}
			t.page.SetSize(y)
		}
		pl.rows = newRows
		return nil
	}
	delta := newRows - pl.rows
	if cursor != nil && cursor.Y < pl.rows-1 {
		pl.rows = newRows
		for i := 0; i < delta; i++ {
			if err := pl.Grow(); err != nil {
				return err
			}
		}
		return nil
	}
	an, ay := pl.activeStart()
	historyRows := pl.screenRowOf(an, ay)
	pl.rows = newRows
	if historyRows >= delta {
		return nil
	}
	for i := 0; i < delta-historyRows; i++ {
		if err := pl.Grow(); err != nil {
			return err
		}
	}
	return nil
}
