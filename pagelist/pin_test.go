// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagelist

import "testing"

func TestTrackAndUntrackPin(t *testing.T) {
	pl := newTestList(t, 10, 3, 0)
	pin, err := pl.TrackPin(Point{Tag: Active, Y: 1, X: 2})
	if err != nil {
		t.Fatalf("TrackPin: %v", err)
	}
	if _, ok := pl.pins[pin]; !ok {
		t.Fatalf("pin not registered")
	}
	pl.UntrackPin(pin)
	if _, ok := pl.pins[pin]; ok {
		t.Fatalf("pin still registered after UntrackPin")
	}
}

func TestPinSurvivesEraseAboveIt(t *testing.T) {
	pl := newTestList(t, 10, 4, 0)
	pin, err := pl.TrackPin(Point{Tag: Active, Y: 2, X: 0})
	if err != nil {
		t.Fatalf("TrackPin: %v", err)
	}
	if err := pl.EraseRow(Point{Tag: Active, Y: 0}); err != nil {
		t.Fatalf("EraseRow: %v", err)
	}
	pt := pl.PointFromPin(Active, pin)
	if pt.Y != 1 {
		t.Fatalf("pin.Y = %d, want 1 after erasing a row above it", pt.Y)
	}
}

func TestPointFromPinRoundTripsThroughTags(t *testing.T) {
	pl := newTestList(t, 10, 4, 0)
	pin, err := pl.TrackPin(Point{Tag: Active, Y: 1, X: 3})
	if err != nil {
		t.Fatalf("TrackPin: %v", err)
	}
	screen := pl.PointFromPin(Screen, pin)
	back, err := pl.resolve(screen)
	if err != nil {
		t.Fatalf("resolve(screen): %v", err)
	}
	if back.node != pin.node || back.Y != pin.Y || back.X != pin.X {
		t.Fatalf("round trip mismatch: got (%v,%d,%d), want (%v,%d,%d)",
			back.node, back.Y, back.X, pin.node, pin.Y, pin.X)
	}
}
