// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import (
	"github.com/ericwq/termstore/page"
	"github.com/ericwq/termstore/util"
)

// growNodeStyles replaces n's page with one whose style capacity is
// doubled, preserving every row, and leaves any pins on n valid since
// node identity (and therefore pin.node) is unchanged (spec §7:
// style-set exhaustion is recovered via adjust_capacity, not surfaced
// to the caller).
func (pl *PageList) growNodeStyles(n *node) error {
	grown := n.page.Capacity()
	grown.Styles *= 2
	util.Logger.Trace("pagelist: growing node style capacity", "from", n.page.Capacity().Styles, "to", grown.Styles)
	np, err := n.page.AdjustCapacity(grown)
	if err != nil {
		return err
	}
	old := n.page
	n.page = np
	old.Close()
	return nil
}

// growNodeGraphemes is growNodeStyles' analog for the grapheme arena.
func (pl *PageList) growNodeGraphemes(n *node) error {
	grown := n.page.Capacity()
	grown.GraphemeChunks *= 2
	util.Logger.Trace("pagelist: growing node grapheme capacity", "from", n.page.Capacity().GraphemeChunks, "to", grown.GraphemeChunks)
	np, err := n.page.AdjustCapacity(grown)
	if err != nil {
		return err
	}
	old := n.page
	n.page = np
	old.Close()
	return nil
}

// cloneRowRetrying calls dst.CloneRowFrom, and on style/grapheme
// exhaustion doubles both budgets via AdjustCapacity and retries once,
// returning whichever page ends up holding dstY (the same dst if no
// growth was needed). The caller is responsible for swapping the
// returned page into whatever node or variable held the original.
func cloneRowRetrying(dst, src *page.Page, srcY, dstY int) (*page.Page, error) {
	err := dst.CloneRowFrom(src, srcY, dstY)
	if err != page.ErrOutOfMemory {
		return dst, err
	}
	grown := dst.Capacity()
	grown.Styles *= 2
	grown.GraphemeChunks *= 2
	util.Logger.Trace("pagelist: retrying clone_row after capacity exhaustion", "styles", grown.Styles, "graphemeChunks", grown.GraphemeChunks)
	np, aerr := dst.AdjustCapacity(grown)
	if aerr != nil {
		return dst, aerr
	}
	dst.Close()
	return np, np.CloneRowFrom(src, srcY, dstY)
}
