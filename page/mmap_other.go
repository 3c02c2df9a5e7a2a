// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package page

// mmapRuneArena falls back to an ordinary heap allocation on platforms
// without an anonymous-mapping syscall (e.g. windows, js/wasm).
func mmapRuneArena(nRunes int) ([]rune, func() error, error) {
	if nRunes < 1 {
		nRunes = 1
	}
	return make([]rune, nRunes), func() error { return nil }, nil
}
