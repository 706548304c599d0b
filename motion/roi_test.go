/*
DESCRIPTION
  roi_test.go tests the pure-logic parts of ROI derivation: the
  centered-box substitution, the no-contours retention policy, and the
  80%-relative-change rejection.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package motion

import (
	"image"
	"testing"
)

func TestCenteredBoxClampsInsideFrame(t *testing.T) {
	// Rect centered near the top-left corner; a naive centering would
	// push the box outside the frame.
	rect := image.Rect(0, 0, 10, 10)
	got := centeredBox(rect, 200, 320, 240)
	if got.Min.X < 0 || got.Min.Y < 0 || got.Max.X > 320 || got.Max.Y > 240 {
		t.Fatalf("centeredBox = %v, escapes frame bounds 320x240", got)
	}
	if got.Dx() != 200 || got.Dy() != 200 {
		t.Errorf("centeredBox size = %dx%d, want 200x200", got.Dx(), got.Dy())
	}
}

func TestCenteredBoxCentersWhenRoom(t *testing.T) {
	rect := image.Rect(150, 110, 170, 130) // centroid (160, 120)
	got := centeredBox(rect, 100, 320, 240)
	wantCx, wantCy := 160, 120
	gotCx := got.Min.X + got.Dx()/2
	gotCy := got.Min.Y + got.Dy()/2
	if gotCx != wantCx || gotCy != wantCy {
		t.Errorf("centeredBox centroid = (%d,%d), want (%d,%d)", gotCx, gotCy, wantCx, wantCy)
	}
}

func TestNoContoursFoundKeepsPriorUnlessFullFrame(t *testing.T) {
	f := &FSM{roi: image.Rect(10, 10, 50, 50)}
	f.noContoursFound(320, 240)
	if f.roi != image.Rect(10, 10, 50, 50) {
		t.Errorf("roi changed to %v, want unchanged non-full-frame roi kept", f.roi)
	}

	f2 := &FSM{roi: image.Rect(0, 0, 320, 240)}
	f2.noContoursFound(320, 240)
	want := image.Rect(0, 0, 320/3, 240/3)
	if f2.roi != want {
		t.Errorf("full-frame roi on no-contours = %v, want %v", f2.roi, want)
	}
}

func TestAcceptOrRejectRoi(t *testing.T) {
	f := &FSM{prevArea: 1000}
	newRoi := image.Rect(0, 0, 10, 10)

	f.acceptOrRejectRoi(newRoi, 1900, 320, 240) // 90% change, rejected
	if f.roi == newRoi {
		t.Error("acceptOrRejectRoi accepted a >80% relative change, want rejected")
	}

	f.acceptOrRejectRoi(newRoi, 1100, 320, 240) // 10% change, accepted
	if f.roi != newRoi {
		t.Errorf("acceptOrRejectRoi = %v, want accepted roi %v", f.roi, newRoi)
	}
	if f.prevArea != 1100 {
		t.Errorf("prevArea = %v, want updated to 1100", f.prevArea)
	}
}

func TestAcceptOrRejectRoiFirstCallAlwaysAccepts(t *testing.T) {
	f := &FSM{} // prevArea == 0, the "no baseline yet" case
	newRoi := image.Rect(0, 0, 10, 10)
	f.acceptOrRejectRoi(newRoi, 50000, 320, 240)
	if f.roi != newRoi {
		t.Errorf("first acceptOrRejectRoi call = %v, want accepted roi %v", f.roi, newRoi)
	}
}
