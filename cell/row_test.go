// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

import "testing"

func TestRowCellOffsetRoundTrip(t *testing.T) {
	r := NewRow(12345)
	if r.CellOffset() != 12345 {
		t.Fatalf("expect 12345, got %d", r.CellOffset())
	}
	r = r.WithCellOffset(99)
	if r.CellOffset() != 99 {
		t.Fatalf("expect 99, got %d", r.CellOffset())
	}
}

func TestRowFlagsIndependent(t *testing.T) {
	r := NewRow(0).WithWrap(true).WithGrapheme(true)
	if !r.Wrap() || !r.Grapheme() {
		t.Fatal("expect wrap and grapheme set")
	}
	if r.WrapContinuation() || r.Styled() {
		t.Fatal("expect wrap_continuation and styled unset")
	}
	r = r.WithWrap(false)
	if r.Wrap() {
		t.Fatal("expect wrap cleared")
	}
	if !r.Grapheme() {
		t.Fatal("expect grapheme to survive clearing wrap")
	}
}

func TestRowSemanticPrompt(t *testing.T) {
	r := NewRow(0).WithSemanticPrompt(PromptCommand)
	if r.SemanticPrompt() != PromptCommand {
		t.Fatalf("expect PromptCommand, got %v", r.SemanticPrompt())
	}
}

func TestGraphemeSegmentation(t *testing.T) {
	// "e" (U+0065) + combining acute accent (U+0301): one grapheme
	// cluster made of two runes, not the precomposed U+00E9.
	s := "e\u0301"
	clusters := SegmentGraphemes(s)
	if len(clusters) != 1 {
		t.Fatalf("expect 1 cluster, got %d: %q", len(clusters), clusters)
	}
	base, extra := ClusterRunes(clusters[0])
	if base != 'e' {
		t.Fatalf("expect base 'e', got %q", base)
	}
	if len(extra) != 1 || extra[0] != '\u0301' {
		t.Fatalf("expect one extra combining rune, got %v", extra)
	}
}
