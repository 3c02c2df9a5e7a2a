// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package page implements a single Page: a fixed-capacity block holding
// some number of active rows of terminal cells, the style and grapheme
// storage those cells reference, and the bookkeeping needed to clone,
// resize and verify it (spec §4.1-§4.3, §4.6, §7).
package page

import (
	"errors"
	"fmt"

	"github.com/ericwq/termstore/bitmap"
	"github.com/ericwq/termstore/cell"
	"github.com/ericwq/termstore/offsetmap"
	"github.com/ericwq/termstore/style"
	"github.com/ericwq/termstore/util"
)

// ErrOutOfMemory is returned by any Page mutation that would need more
// row, style or grapheme capacity than the page currently has. Callers
// (ordinarily pagelist.PageList) respond by allocating a new page.
var ErrOutOfMemory = errors.New("page: out of memory")

// packGrapheme packs a grapheme-arena reference into the 32 bits an
// offsetmap.Map entry can hold: the high 24 bits are the rune offset
// into the arena, the low 8 the number of extra runes stored there.
func packGrapheme(offset, length int) uint32 { return uint32(offset)<<8 | uint32(length)&0xff }
func unpackGrapheme(v uint32) (offset, length int) { return int(v >> 8), int(v & 0xff) }

// integrityChecksPaused lets tests that deliberately build an
// inconsistent page skip VerifyIntegrity's checks; Page's mutators run
// no assertions of their own.
// TODO: wire a real debug-build tag once this sees use outside tests.
var integrityChecksPaused int

// PauseIntegrityChecks turns VerifyIntegrity into a no-op until a
// matching ResumeIntegrityChecks. Calls nest.
func PauseIntegrityChecks() { integrityChecksPaused++ }

// ResumeIntegrityChecks undoes one PauseIntegrityChecks.
func ResumeIntegrityChecks() {
	if integrityChecksPaused > 0 {
		integrityChecksPaused--
	}
}

// Page is a fixed-capacity, relocatable block of terminal rows. Its
// storage is plain Go slices rather than a single hand-laid-out byte
// buffer: internal references are still offsets (into cells, into the
// grapheme arena, into the style set) rather than pointers, so a Page
// can still be duplicated with a handful of slice copies instead of a
// graph walk, which is the property the design actually needs.
type Page struct {
	cap   Capacity
	rows  []cell.Row
	cells []cell.Cell
	size  int // number of active rows, 0 <= size <= cap.Rows

	styles *style.Set

	arena      []rune
	arenaAlloc *bitmap.Allocator
	graphemes  *offsetmap.Map
	closeArena func() error

	dirty []bool
}

// New allocates a page with the given capacity, all rows initially
// blank and unused.
func New(cap Capacity) (*Page, error) {
	n := cap.Rows * cap.Cols
	arena, release, err := mmapRuneArena(cap.GraphemeChunks * bitmap.RunesPerChunk)
	if err != nil {
		return nil, fmt.Errorf("page: allocate grapheme arena: %w", err)
	}
	p := &Page{
		cap:        cap,
		rows:       make([]cell.Row, cap.Rows),
		cells:      make([]cell.Cell, n),
		styles:     style.NewSet(cap.Styles),
		arena:      arena,
		arenaAlloc: bitmap.New(cap.GraphemeChunks),
		graphemes:  offsetmap.New(n/2 + 8),
		closeArena: release,
		dirty:      make([]bool, cap.Rows),
	}
	for y := range p.rows {
		p.rows[y] = cell.NewRow(uint32(y * cap.Cols))
	}
	return p, nil
}

// Close releases the page's OS-backed grapheme arena. Pages produced by
// Clone own an ordinary heap slice instead and treat Close as a no-op.
func (p *Page) Close() error {
	if p.closeArena == nil {
		return nil
	}
	err := p.closeArena()
	p.closeArena = nil
	return err
}

// Capacity returns the page's fixed capacity.
func (p *Page) Capacity() Capacity { return p.cap }

// Size returns the number of active rows.
func (p *Page) Size() int { return p.size }

// SetSize changes the number of active rows and leaves the rows that
// stay active untouched; growing clears the newly active rows, shrinking
// clears the dropped rows and releases the styles and graphemes they
// referenced.
func (p *Page) SetSize(n int) error {
	if n < 0 || n > p.cap.Rows {
		return ErrOutOfMemory
	}
	if n > p.size {
		for y := p.size; y < n; y++ {
			p.clearRow(y)
		}
	} else if n < p.size {
		for y := n; y < p.size; y++ {
			p.clearRow(y)
		}
	}
	p.size = n
	return nil
}

func (p *Page) idx(y, x int) int { return y*p.cap.Cols + x }

// markDirty flags row y as changed since the last ClearDirty.
func (p *Page) markDirty(y int) {
	if y >= 0 && y < len(p.dirty) {
		p.dirty[y] = true
	}
}

// markDirtyRange flags every row touched by count cells starting at flat
// index i, for mutators that operate on a cell span rather than a row.
func (p *Page) markDirtyRange(i, count int) {
	if count <= 0 {
		return
	}
	p.markDirty(i / p.cap.Cols)
	p.markDirty((i + count - 1) / p.cap.Cols)
}

// Dirty reports whether row y has changed since the last ClearDirty,
// the per-row damage marker a renderer uses to skip re-uploading
// untouched pages.
func (p *Page) Dirty(y int) bool { return p.dirty[y] }

// ClearDirty resets every row's damage marker.
func (p *Page) ClearDirty() {
	for y := range p.dirty {
		p.dirty[y] = false
	}
}

// Cell returns the cell at (y, x).
func (p *Page) Cell(y, x int) cell.Cell {
	return p.cells[p.idx(y, x)]
}

// SetCell overwrites the cell at (y, x), releasing any style or
// grapheme reference the previous occupant held.
func (p *Page) SetCell(y, x int, c cell.Cell) {
	i := p.idx(y, x)
	p.releaseCellRefs(i)
	p.cells[i] = c
	p.markDirty(y)
}

func (p *Page) releaseCellRefs(i int) {
	old := p.cells[i]
	if old.IsZero() {
		return
	}
	if old.StyleID() != 0 {
		p.styles.Release(old.StyleID())
	}
	if old.ContentTag() == cell.CodepointGrapheme {
		if v, ok := p.graphemes.Get(uint32(i)); ok {
			offset, n := unpackGrapheme(v)
			p.arenaAlloc.Free(offset/bitmap.RunesPerChunk, (n+bitmap.RunesPerChunk-1)/bitmap.RunesPerChunk)
			p.graphemes.Delete(uint32(i))
		}
	}
}

// clearRow blanks every cell of row y and resets its Row metadata.
func (p *Page) clearRow(y int) {
	for x := 0; x < p.cap.Cols; x++ {
		i := p.idx(y, x)
		p.releaseCellRefs(i)
		p.cells[i] = cell.Cell(0)
	}
	p.rows[y] = cell.NewRow(uint32(y * p.cap.Cols))
	p.markDirty(y)
}

// ClearRow is the exported form of clearRow, used by callers erasing a
// row's content while keeping it in the active area (spec §4.4 erase).
func (p *Page) ClearRow(y int) { p.clearRow(y) }

// Row returns row y's packed metadata value.
func (p *Page) Row(y int) cell.Row { return p.rows[y] }

// SetRow overwrites row y's packed metadata value directly, used by
// reflow and wrap-state bookkeeping.
func (p *Page) SetRow(y int, r cell.Row) {
	p.rows[y] = r
	p.markDirty(y)
}

// UpsertStyle interns st into the page's style set and returns its id,
// for callers constructing a styled cell, or 0/nil error for the zero
// style.
func (p *Page) UpsertStyle(st style.Style) (uint16, error) {
	id, err := p.styles.Upsert(st)
	if err == style.ErrOutOfMemory {
		return 0, ErrOutOfMemory
	}
	return id, err
}

// LookupStyle resolves a cell's style id back to its Style value.
func (p *Page) LookupStyle(id uint16) (style.Style, bool) {
	return p.styles.Lookup(id)
}

// AppendGrapheme records extra runes beyond a cell's base codepoint,
// growing the arena allocation for (y, x) if needed. It is the Go
// analogue of the spec's append_grapheme: if the cell already has a
// grapheme allocation with a spare slot in its last chunk, the new rune
// lands there; otherwise a fresh, larger run is allocated and the old
// one freed.
func (p *Page) AppendGrapheme(y, x int, extra rune) error {
	i := p.idx(y, x)
	c := p.cells[i]
	if c.ContentTag() != cell.CodepointGrapheme {
		return fmt.Errorf("page: cell (%d,%d) is not tagged CodepointGrapheme", y, x)
	}
	if v, ok := p.graphemes.Get(uint32(i)); ok {
		offset, n := unpackGrapheme(v)
		chunksUsed := (n + bitmap.RunesPerChunk - 1) / bitmap.RunesPerChunk
		if n%bitmap.RunesPerChunk != 0 {
			p.arena[offset+n] = extra
			p.graphemes.Put(uint32(i), packGrapheme(offset, n+1))
			p.markDirty(y)
			return nil
		}
		newChunks := chunksUsed + 1
		start, err := p.arenaAlloc.Alloc(newChunks)
		if err != nil {
			return ErrOutOfMemory
		}
		newOffset := start * bitmap.RunesPerChunk
		copy(p.arena[newOffset:], p.arena[offset:offset+n])
		p.arena[newOffset+n] = extra
		p.arenaAlloc.Free(offset/bitmap.RunesPerChunk, chunksUsed)
		p.graphemes.Put(uint32(i), packGrapheme(newOffset, n+1))
		p.markDirty(y)
		return nil
	}
	chunk, err := p.arenaAlloc.Alloc(1)
	if err != nil {
		return ErrOutOfMemory
	}
	offset := chunk * bitmap.RunesPerChunk
	p.arena[offset] = extra
	if !p.graphemes.Put(uint32(i), packGrapheme(offset, 1)) {
		p.arenaAlloc.Free(chunk, 1)
		return ErrOutOfMemory
	}
	p.markDirty(y)
	return nil
}

// LookupGrapheme returns the extra runes stored for (y, x) beyond its
// base codepoint, or nil if it has none.
func (p *Page) LookupGrapheme(y, x int) []rune {
	i := p.idx(y, x)
	v, ok := p.graphemes.Get(uint32(i))
	if !ok {
		return nil
	}
	offset, n := unpackGrapheme(v)
	out := make([]rune, n)
	copy(out, p.arena[offset:offset+n])
	return out
}

// MoveCells copies count cells starting at (srcY, srcX) to (dstY, dstX),
// handling overlap correctly (spec §4.4 move_cells). Style and grapheme
// ownership transfers: the destination cells take over the references
// the source cells held, and any references the destination previously
// held are released first.
func (p *Page) MoveCells(srcY, srcX, dstY, dstX, count int) {
	si := p.idx(srcY, srcX)
	di := p.idx(dstY, dstX)
	if si == di {
		return
	}
	for k := 0; k < count; k++ {
		if j := di + k; j < si || j >= si+count {
			p.releaseCellRefs(j)
		}
	}
	if di < si {
		for k := 0; k < count; k++ {
			p.relocateCell(si+k, di+k)
		}
	} else {
		for k := count - 1; k >= 0; k-- {
			p.relocateCell(si+k, di+k)
		}
	}
	p.markDirtyRange(si, count)
	p.markDirtyRange(di, count)
}

// relocateCell moves cell content (and its grapheme map entry, if any)
// from index src to index dst, leaving src zeroed.
func (p *Page) relocateCell(src, dst int) {
	if src == dst {
		return
	}
	c := p.cells[src]
	p.cells[dst] = c
	p.cells[src] = cell.Cell(0)
	if c.ContentTag() == cell.CodepointGrapheme {
		if v, ok := p.graphemes.Get(uint32(src)); ok {
			p.graphemes.Delete(uint32(src))
			p.graphemes.Put(uint32(dst), v)
		}
	}
}

// SwapCells exchanges the content of two cells, including grapheme map
// ownership, without releasing either side's style or grapheme
// references (spec §4.4 swap_cells, used by in-place row reordering).
func (p *Page) SwapCells(y1, x1, y2, x2 int) {
	i1, i2 := p.idx(y1, x1), p.idx(y2, x2)
	if i1 == i2 {
		return
	}
	p.cells[i1], p.cells[i2] = p.cells[i2], p.cells[i1]
	v1, ok1 := p.graphemes.Get(uint32(i1))
	v2, ok2 := p.graphemes.Get(uint32(i2))
	switch {
	case ok1 && ok2:
		p.graphemes.Put(uint32(i1), v2)
		p.graphemes.Put(uint32(i2), v1)
	case ok1:
		p.graphemes.Delete(uint32(i1))
		p.graphemes.Put(uint32(i2), v1)
	case ok2:
		p.graphemes.Delete(uint32(i2))
		p.graphemes.Put(uint32(i1), v2)
	}
	p.markDirty(y1)
	p.markDirty(y2)
}

// ClearCells blanks count cells starting at (y, x), releasing their
// style and grapheme references.
func (p *Page) ClearCells(y, x, count int) {
	i := p.idx(y, x)
	for k := 0; k < count; k++ {
		p.releaseCellRefs(i + k)
		p.cells[i+k] = cell.Cell(0)
	}
	p.markDirtyRange(i, count)
}

// Clone returns an independent deep copy of the page: its own rows,
// cells, style set and grapheme arena, none shared with the original.
func (p *Page) Clone() *Page {
	c := &Page{
		cap:        p.cap,
		rows:       append([]cell.Row(nil), p.rows...),
		cells:      append([]cell.Cell(nil), p.cells...),
		size:       p.size,
		styles:     p.styles.Clone(),
		arena:      append([]rune(nil), p.arena...),
		arenaAlloc: p.arenaAlloc.Clone(),
		graphemes:  p.graphemes.Clone(),
		dirty:      append([]bool(nil), p.dirty...),
	}
	return c
}

// CloneRowFrom copies row srcY of src into row dstY of p, re-upserting
// styles into p's own style set and re-allocating grapheme storage out
// of p's own arena (spec §4.6 clone_from semantics: the two pages do
// not share style or grapheme memory). p and src need not share a
// column count: only the intersected width min(p.cap.Cols,
// src.cap.Cols) is copied, columns beyond it on a growing destination
// are left blank, and a wide character whose second half would fall
// outside a narrowing destination is demoted to a bare spacer_head
// instead of being carried over without its tail (spec §4.2
// adjust_capacity).
func (p *Page) CloneRowFrom(src *Page, srcY, dstY int) error {
	p.clearRow(dstY)
	cols := p.cap.Cols
	if src.cap.Cols < cols {
		cols = src.cap.Cols
	}
	for x := 0; x < cols; x++ {
		sc := src.Cell(srcY, x)
		if sc.Wide() == cell.WideChar && x == cols-1 {
			p.cells[p.idx(dstY, x)] = cell.Cell(0).WithWide(cell.SpacerHead)
			continue
		}
		nc := sc
		if sc.StyleID() != 0 {
			st, _ := src.LookupStyle(sc.StyleID())
			id, err := p.UpsertStyle(st)
			if err != nil {
				return err
			}
			nc = nc.WithStyleID(id)
		}
		di := p.idx(dstY, x)
		p.cells[di] = nc
		if sc.ContentTag() == cell.CodepointGrapheme {
			for _, r := range src.LookupGrapheme(srcY, x) {
				if err := p.AppendGrapheme(dstY, x, r); err != nil {
					return err
				}
			}
		}
	}
	p.rows[dstY] = src.rows[srcY].WithCellOffset(uint32(dstY * p.cap.Cols))
	p.markDirty(dstY)
	return nil
}

// AdjustCapacity returns a new page at newCap with every row copied over
// from p, content-identical (spec §4.2 adjust_capacity). It is the
// recovery path for an OutOfMemory from UpsertStyle or AppendGrapheme:
// the caller picks a newCap with larger Styles or GraphemeChunks and
// retries against the returned page. p is left untouched; the caller
// closes whichever of the two it stops using.
func (p *Page) AdjustCapacity(newCap Capacity) (*Page, error) {
	if newCap.Cols != p.cap.Cols {
		return nil, fmt.Errorf("page: AdjustCapacity cannot change column count (%d != %d)", newCap.Cols, p.cap.Cols)
	}
	np, err := New(newCap)
	if err != nil {
		return nil, err
	}
	if err := np.SetSize(p.size); err != nil {
		np.Close()
		return nil, err
	}
	for y := 0; y < p.size; y++ {
		if err := np.CloneRowFrom(p, y, y); err != nil {
			np.Close()
			return nil, err
		}
	}
	return np, nil
}

// IntegrityError identifies one of the consistency violations
// VerifyIntegrity can detect (spec §7).
type IntegrityError struct {
	Kind string
	Y, X int
	Detail string
}

func (e IntegrityError) Error() string {
	if e.Y >= 0 {
		return fmt.Sprintf("page integrity: %s at (%d,%d): %s", e.Kind, e.Y, e.X, e.Detail)
	}
	return fmt.Sprintf("page integrity: %s: %s", e.Kind, e.Detail)
}

const (
	ErrKindRowCountExceedsCapacity = "row_count_exceeds_capacity"
	ErrKindDanglingStyleID         = "dangling_style_id"
	ErrKindStyleRefCountMismatch   = "style_refcount_mismatch"
	ErrKindDanglingGraphemeRef     = "dangling_grapheme_ref"
	ErrKindGraphemeMapOrphan       = "grapheme_map_orphan"
	ErrKindWideMissingSpacerTail   = "wide_missing_spacer_tail"
	ErrKindSpacerTailMissingWide   = "spacer_tail_missing_wide"
	ErrKindSpacerHeadNotRowEnd     = "spacer_head_not_row_end"
	ErrKindRowGraphemeFlagMismatch = "row_grapheme_flag_mismatch"
	ErrKindRowStyledFlagMismatch   = "row_styled_flag_mismatch"
	ErrKindCellOffsetMismatch      = "row_cell_offset_mismatch"
)

// VerifyIntegrity walks the page looking for the internal
// inconsistencies listed in spec §7: dangling references, orphaned
// grapheme entries, wide/spacer placement, and cell/row flag
// mismatches. Style reference counts are not compared against the cells
// that use each style, so ErrKindStyleRefCountMismatch is never
// reported. It is O(size) and meant for
// tests and debug builds, not the hot path. While PauseIntegrityChecks
// is outstanding, it is a no-op, since callers use the pause around
// multi-step mutations that are individually inconsistent.
func (p *Page) VerifyIntegrity() []IntegrityError {
	if integrityChecksPaused > 0 {
		return nil
	}
	var errs []IntegrityError
	if p.size > p.cap.Rows {
		errs = append(errs, IntegrityError{Kind: ErrKindRowCountExceedsCapacity, Y: -1,
			Detail: fmt.Sprintf("size %d exceeds capacity %d", p.size, p.cap.Rows)})
	}
	styleRefs := make(map[uint16]int)
	for y := 0; y < p.size; y++ {
		if p.rows[y].CellOffset() != uint32(y*p.cap.Cols) {
			errs = append(errs, IntegrityError{Kind: ErrKindCellOffsetMismatch, Y: y, X: -1,
				Detail: fmt.Sprintf("row cell offset %d, want %d", p.rows[y].CellOffset(), y*p.cap.Cols)})
		}
		rowHasGrapheme, rowHasStyle := false, false
		for x := 0; x < p.cap.Cols; x++ {
			c := p.Cell(y, x)
			if c.StyleID() != 0 {
				if _, ok := p.styles.Lookup(c.StyleID()); !ok {
					errs = append(errs, IntegrityError{Kind: ErrKindDanglingStyleID, Y: y, X: x,
						Detail: fmt.Sprintf("style id %d not present in style set", c.StyleID())})
				} else {
					styleRefs[c.StyleID()]++
					rowHasStyle = true
				}
			}
			switch c.Wide() {
			case cell.WideChar:
				if x+1 >= p.cap.Cols || p.Cell(y, x+1).Wide() != cell.SpacerTail {
					errs = append(errs, IntegrityError{Kind: ErrKindWideMissingSpacerTail, Y: y, X: x,
						Detail: "wide cell not followed by a spacer tail"})
				}
			case cell.SpacerTail:
				if x == 0 || p.Cell(y, x-1).Wide() != cell.WideChar {
					errs = append(errs, IntegrityError{Kind: ErrKindSpacerTailMissingWide, Y: y, X: x,
						Detail: "spacer tail not preceded by a wide cell"})
				}
			case cell.SpacerHead:
				if x != p.cap.Cols-1 {
					errs = append(errs, IntegrityError{Kind: ErrKindSpacerHeadNotRowEnd, Y: y, X: x,
						Detail: "spacer head not at the last column of its row"})
				}
			}
			if c.ContentTag() == cell.CodepointGrapheme {
				rowHasGrapheme = true
				if _, ok := p.graphemes.Get(uint32(p.idx(y, x))); !ok {
					errs = append(errs, IntegrityError{Kind: ErrKindDanglingGraphemeRef, Y: y, X: x,
						Detail: "grapheme-tagged cell has no arena entry"})
				}
			}
		}
		if rowHasGrapheme && !p.rows[y].Grapheme() {
			errs = append(errs, IntegrityError{Kind: ErrKindRowGraphemeFlagMismatch, Y: y, X: -1,
				Detail: "row has a grapheme cell but Row.Grapheme() is false"})
		}
		if rowHasStyle && !p.rows[y].Styled() {
			errs = append(errs, IntegrityError{Kind: ErrKindRowStyledFlagMismatch, Y: y, X: -1,
				Detail: "row has a styled cell but Row.Styled() is false"})
		}
	}
	p.graphemes.Each(func(k, v uint32) {
		y, x := int(k)/p.cap.Cols, int(k)%p.cap.Cols
		if y >= p.size || p.Cell(y, x).ContentTag() != cell.CodepointGrapheme {
			errs = append(errs, IntegrityError{Kind: ErrKindGraphemeMapOrphan, Y: y, X: x,
				Detail: "grapheme map entry has no owning cell"})
		}
	})
	if len(errs) > 0 {
		util.Logger.Trace("page: verify_integrity found violations", "count", len(errs))
	}
	return errs
}
