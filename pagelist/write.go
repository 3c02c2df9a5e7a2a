// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import "github.com/ericwq/termstore/cell"

// WriteRow writes s into a single row starting at pt, classifying each
// grapheme cluster's display width via cell.RuneWidth and splitting
// multi-rune clusters (cell.SegmentGraphemes, cell.ClusterRunes) into a
// base cell plus AppendGraphemeAt calls for any combining runes, the
// way the VT dispatch layer (spec §1's external collaborator) feeds
// print actions into the engine one cluster at a time. Writing stops
// once the row runs out of columns; a wide cluster that would not fit
// in the last column gets a bare spacer_head there instead and is
// dropped, rather than carrying a wide cell with no tail. styleID, if
// non-zero, must already have been upserted into the destination
// page's style set via UpsertStyleAt.
func (pl *PageList) WriteRow(pt Point, s string, styleID uint16) error {
	x := pt.X
	for _, cluster := range cell.SegmentGraphemes(s) {
		base, extra := cell.ClusterRunes(cluster)
		if base == 0 {
			continue
		}
		if x >= pl.cols {
			break
		}
		w := cell.RuneWidth(base)
		if w == 0 {
			w = 1
		}
		if w == 2 && x == pl.cols-1 {
			headPt := Point{Tag: pt.Tag, Y: pt.Y, X: x}
			if err := pl.SetCell(headPt, cell.Cell(0).WithWide(cell.SpacerHead)); err != nil {
				return err
			}
			break
		}

		cellPt := Point{Tag: pt.Tag, Y: pt.Y, X: x}
		c := cell.NewCodepointCell(base)
		if len(extra) > 0 {
			c = cell.NewGraphemeCell(base)
		}
		if w == 2 {
			c = c.WithWide(cell.WideChar)
		}
		c = c.WithStyleID(styleID)
		if err := pl.SetCell(cellPt, c); err != nil {
			return err
		}
		for _, r := range extra {
			if err := pl.AppendGraphemeAt(cellPt, r); err != nil {
				return err
			}
		}
		if w == 2 {
			tailPt := Point{Tag: pt.Tag, Y: pt.Y, X: x + 1}
			if err := pl.SetCell(tailPt, cell.Cell(0).WithWide(cell.SpacerTail)); err != nil {
				return err
			}
		}
		x += w
	}
	return nil
}
