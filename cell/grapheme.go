// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

import "github.com/rivo/uniseg"

// SegmentGraphemes splits s into user-perceived grapheme clusters, the way
// the teacher's tests drive input through uniseg.NewGraphemes
// (terminal/emulator_test.go, terminal/input_test.go). Writers feeding
// text into a page call this once per print, then hand the first rune of
// each cluster to NewCodepointCell/NewGraphemeCell and any remaining
// runes of the same cluster to Page.AppendGrapheme.
func SegmentGraphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// ClusterRunes splits a single grapheme cluster into its base rune and any
// extra combining runes that must be stored in the page's grapheme arena.
func ClusterRunes(cluster string) (base rune, extra []rune) {
	runes := []rune(cluster)
	if len(runes) == 0 {
		return 0, nil
	}
	return runes[0], runes[1:]
}
