// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cell

import "github.com/mattn/go-runewidth"

// widthCondition mirrors the teacher's terminal.runesWidth helper
// (terminal/handler.go): East Asian ambiguous-width runes count as wide,
// matching what most East Asian locale terminals do.
var widthCondition = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = true
	return c
}()

// RuneWidth returns the display width (0, 1 or 2 columns) of r.
func RuneWidth(r rune) int {
	return widthCondition.RuneWidth(r)
}

// StringWidth returns the total display width of s.
func StringWidth(s string) int {
	return widthCondition.StringWidth(s)
}

// IsWide reports whether r occupies two grid columns.
func IsWide(r rune) bool {
	return RuneWidth(r) == 2
}
