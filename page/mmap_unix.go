// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package page

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// mmapRuneArena backs a page's grapheme arena with a private anonymous
// mapping rather than the Go heap, the way the teacher's util package
// reaches for golang.org/x/sys/unix for raw OS resources (util/utmp_*.go,
// util/termios_unix.go) instead of hand-rolling syscalls. An OS mapping
// gives the arena a stable address that is cheap for the kernel to
// reclaim and never participates in GC scanning.
func mmapRuneArena(nRunes int) ([]rune, func() error, error) {
	if nRunes < 1 {
		nRunes = 1
	}
	nBytes := nRunes * 4
	pageSize := unix.Getpagesize()
	size := ((nBytes + pageSize - 1) / pageSize) * pageSize
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, err
	}
	runes := unsafe.Slice((*rune)(unsafe.Pointer(&buf[0])), nRunes)
	release := func() error { return unix.Munmap(buf) }
	return runes, release, nil
}
