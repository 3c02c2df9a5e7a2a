// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

import "fmt"

// SemanticPrompt annotates a row with the shell-reported role of its
// content (set externally via OSC 133, outside this package's scope).
type SemanticPrompt uint8

const (
	PromptUnknown SemanticPrompt = iota
	PromptMarker
	PromptContinuation
	PromptInput
	PromptCommand
)

const (
	cellOffsetBits      = 32
	semanticPromptBits  = 3
	cellOffsetShift     = 0
	wrapShift           = cellOffsetBits
	wrapContinuationBit = wrapShift + 1
	graphemeBit         = wrapContinuationBit + 1
	styledBit           = graphemeBit + 1
	semanticPromptShift = styledBit + 1

	cellOffsetMask     = uint64(1)<<cellOffsetBits - 1
	semanticPromptMask = uint64(1)<<semanticPromptBits - 1
)

// Row is the 64-bit packed header for one row of a page (spec §3): the
// byte offset of the row's cell array within the page, plus the wrap,
// wrap_continuation, grapheme, styled and semantic_prompt bits. It does
// not own the cells themselves; those live in the page's shared cell
// array at CellOffset().
type Row uint64

// NewRow returns a Row header pointing at the given cell-array byte
// offset, with every flag clear.
func NewRow(cellOffset uint32) Row {
	return Row(uint64(cellOffset) << cellOffsetShift)
}

func (r Row) CellOffset() uint32 {
	return uint32(uint64(r) >> cellOffsetShift & cellOffsetMask)
}

func (r Row) WithCellOffset(off uint32) Row {
	cleared := uint64(r) &^ (cellOffsetMask << cellOffsetShift)
	return Row(cleared | uint64(off)<<cellOffsetShift)
}

func (r Row) Wrap() bool { return uint64(r)>>wrapShift&1 != 0 }

func (r Row) WithWrap(v bool) Row { return r.withBit(wrapShift, v) }

func (r Row) WrapContinuation() bool { return uint64(r)>>wrapContinuationBit&1 != 0 }

func (r Row) WithWrapContinuation(v bool) Row { return r.withBit(wrapContinuationBit, v) }

// Grapheme reports whether any cell in the row carries extra codepoints.
// One-way conservative: may remain true after the last grapheme cell is
// cleared.
func (r Row) Grapheme() bool { return uint64(r)>>graphemeBit&1 != 0 }

func (r Row) WithGrapheme(v bool) Row { return r.withBit(graphemeBit, v) }

// Styled reports whether any cell in the row has a non-default style id.
// One-way conservative, same caveat as Grapheme.
func (r Row) Styled() bool { return uint64(r)>>styledBit&1 != 0 }

func (r Row) WithStyled(v bool) Row { return r.withBit(styledBit, v) }

func (r Row) SemanticPrompt() SemanticPrompt {
	return SemanticPrompt(uint64(r) >> semanticPromptShift & semanticPromptMask)
}

func (r Row) WithSemanticPrompt(p SemanticPrompt) Row {
	cleared := uint64(r) &^ (semanticPromptMask << semanticPromptShift)
	return Row(cleared | uint64(p)<<semanticPromptShift)
}

func (r Row) withBit(shift int, v bool) Row {
	if v {
		return Row(uint64(r) | 1<<shift)
	}
	return Row(uint64(r) &^ (1 << shift))
}

func (r Row) String() string {
	return fmt.Sprintf("Row{off=%d wrap=%t cont=%t grapheme=%t styled=%t prompt=%d}",
		r.CellOffset(), r.Wrap(), r.WrapContinuation(), r.Grapheme(), r.Styled(), r.SemanticPrompt())
}
