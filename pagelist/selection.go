// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

// Selection is a screen region between two endpoints, each an ordinary
// tracked pin. It rides along for free with every mutator that already
// walks pl.pins, so no separate invalidation path is needed: a shrink,
// scroll, erase or reflow that moves the underlying rows moves the
// selection's endpoints the same way it moves any other pin.
type Selection struct {
	start, end *Pin
}

// TrackSelection pins both endpoints of a new selection and returns it.
// Further mutations keep both endpoints valid until ClearSelection.
func (pl *PageList) TrackSelection(from, to Point) (*Selection, error) {
	start, err := pl.TrackPin(from)
	if err != nil {
		return nil, err
	}
	end, err := pl.TrackPin(to)
	if err != nil {
		pl.UntrackPin(start)
		return nil, err
	}
	return &Selection{start: start, end: end}, nil
}

// ClearSelection untracks sel's endpoints. sel must not be used again.
func (pl *PageList) ClearSelection(sel *Selection) {
	pl.UntrackPin(sel.start)
	pl.UntrackPin(sel.end)
}

// Range returns sel's current endpoints as screen-tagged points, with
// start ordered before end.
func (pl *PageList) Range(sel *Selection) (start, end Point) {
	start = pl.PointFromPin(Screen, sel.start)
	end = pl.PointFromPin(Screen, sel.end)
	if end.Y < start.Y || (end.Y == start.Y && end.X < start.X) {
		start, end = end, start
	}
	return start, end
}

// SetTitle records the window title, surviving resize/reflow since it
// lives on the list rather than any row.
func (pl *PageList) SetTitle(title string) { pl.title = title }

// Title returns the most recently set window title.
func (pl *PageList) Title() string { return pl.title }

// SetIconName records the icon name, the OSC-1 counterpart to the OSC-2
// window title.
func (pl *PageList) SetIconName(name string) { pl.iconName = name }

// IconName returns the most recently set icon name.
func (pl *PageList) IconName() string { return pl.iconName }

// Bell increments the bell counter. The VT dispatch layer calls this on
// every BEL it processes; a status bar reads BellCount to decide
// whether to show an indicator.
func (pl *PageList) Bell() { pl.bellCount++ }

// BellCount returns the number of Bell calls since the list was created
// or last had AcknowledgeBell called.
func (pl *PageList) BellCount() int { return pl.bellCount }

// AcknowledgeBell resets the bell counter, for a caller that has shown
// (or intentionally suppressed) the indicator.
func (pl *PageList) AcknowledgeBell() { pl.bellCount = 0 }
