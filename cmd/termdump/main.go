// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command termdump feeds stdin through a termstore page list at a given
// width and prints the resulting rows, so the reflow and scrollback
// engine can be exercised from a terminal without writing Go.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"flag"

	"golang.org/x/term"

	"github.com/ericwq/termstore/cell"
	"github.com/ericwq/termstore/pagelist"
	"github.com/ericwq/termstore/util"
)

const (
	_COMMAND_NAME = "termdump"
)

var (
	BuildVersion = "0.1.0" // ready for ldflags

	usage = `Usage:
  ` + _COMMAND_NAME + ` [--version] [--help] [--cols N] [--rows N] [--scrollback BYTES] [--verbose]
Options:
  -h, --help         print this message
  -v, --version      print version information
      --cols         active-area column count (default: detected terminal width, or 80)
      --rows         active-area row count (default: detected terminal height, or 24)
      --scrollback   byte budget for the page list (default: engine minimum)
      --verbose      enable debug logging
`
)

func printVersion() {
	fmt.Printf("%s [build %s]\n", _COMMAND_NAME, BuildVersion)
}

func detectedSize() (cols, rows int) {
	cols, rows = 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		cols, rows = w, h
	}
	return
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	flagSet := flag.NewFlagSet(_COMMAND_NAME, flag.ContinueOnError)
	defCols, defRows := detectedSize()
	cols := flagSet.Int("cols", defCols, "active-area column count")
	rows := flagSet.Int("rows", defRows, "active-area row count")
	scrollback := flagSet.Int("scrollback", 0, "byte budget for the page list")
	verbose := flagSet.Bool("verbose", false, "enable debug logging")
	version := flagSet.Bool("version", false, "print version information")
	flagSet.BoolVar(version, "v", false, "print version information")
	flagSet.Usage = func() { fmt.Fprint(stdout, usage) }

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if *version {
		printVersion()
		return nil
	}
	if *verbose {
		util.Logger.SetLevel(slog.Level(-4))
	}

	pl, err := pagelist.New(*cols, *rows, *scrollback)
	if err != nil {
		return fmt.Errorf("%s: %w", _COMMAND_NAME, err)
	}

	if err := fillFromReader(pl, stdin); err != nil {
		return fmt.Errorf("%s: %w", _COMMAND_NAME, err)
	}

	return dumpActive(pl, stdout)
}

// fillFromReader writes each line of r into the active area, scrolling
// by one row (via Grow) once the area fills, the way a terminal
// emulator feeds the engine a line at a time and lets it manage
// scrollback itself. Each line goes through WriteRow, which classifies
// wide and combining runes instead of writing every rune as a narrow
// codepoint.
func fillFromReader(pl *pagelist.PageList, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	y := 0
	for scanner.Scan() {
		if y == pl.Rows() {
			if err := pl.Grow(); err != nil {
				return err
			}
			y--
		}
		pt := pagelist.Point{Tag: pagelist.Active, Y: y, X: 0}
		if err := pl.WriteRow(pt, scanner.Text(), 0); err != nil {
			return err
		}
		y++
	}
	return scanner.Err()
}

func dumpActive(pl *pagelist.PageList, w io.Writer) error {
	tl := pl.GetTopLeft(pagelist.Active)
	ci, err := pl.CellIteratorAt(pagelist.RightDown, tl, nil)
	if err != nil {
		return err
	}
	buf := make([]rune, pl.Cols())
	x := 0
	for {
		c, _, _, ok := ci.Next()
		if !ok {
			break
		}
		if c.IsZero() || c.Wide() == cell.SpacerTail || c.Wide() == cell.SpacerHead {
			buf[x] = ' '
		} else {
			buf[x] = c.Codepoint()
		}
		x++
		if x == pl.Cols() {
			fmt.Fprintln(w, string(buf))
			x = 0
		}
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		util.Logger.Error(err.Error())
		os.Exit(1)
	}
}
