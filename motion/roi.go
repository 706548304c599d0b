/*
DESCRIPTION
  roi.go implements ROI derivation from the motion accumulator: erode,
  dilate, threshold, find contours, pick the largest, then apply the
  size-based box substitution and change-rejection smoothing.

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
	"math"

	"gocv.io/x/gocv"
)

func squareSize(n int) image.Point { return image.Point{X: n, Y: n} }

// calculateRoi derives a new ROI from the accumulator per §4.7.2 and
// stores it (subject to the 80%-relative-change rejection and the
// no-contours retention policy).
func (f *FSM) calculateRoi() {
	w, h := f.params.FrameWidth, f.params.FrameHeight

	eroded := gocv.NewMat()
	defer eroded.Close()
	erodeKernel := gocv.GetStructuringElement(gocv.MorphRect, squareSize(f.params.ErodeDim))
	defer erodeKernel.Close()
	gocv.Erode(f.accumulator, &eroded, erodeKernel)

	dilated := gocv.NewMat()
	defer dilated.Close()
	dilateKernel := gocv.GetStructuringElement(gocv.MorphRect, squareSize(f.params.DilateDim))
	defer dilateKernel.Close()
	gocv.Dilate(eroded, &dilated, dilateKernel)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(dilated, &mask, 200, 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		f.noContoursFound(w, h)
		return
	}

	best := -1
	bestArea := -1.0
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > bestArea {
			bestArea = area
			best = i
		}
	}

	area := math.Trunc(bestArea + 0.5) // round-to-nearest, matching (int)(contourArea+0.5)
	rect := gocv.BoundingRect(contours.At(best))

	var newRoi image.Rectangle
	switch {
	case area >= float64(w*h)/3:
		newRoi = centeredBox(rect, 300, w, h)
	case area <= float64(w*h)/20:
		newRoi = centeredBox(rect, 200, w, h)
	default:
		newRoi = rect
	}

	f.acceptOrRejectRoi(newRoi, area, w, h)
}

// noContoursFound keeps the prior ROI unless it was full-frame, in
// which case it picks an arbitrary (0,0,W/3,H/3) crop.
func (f *FSM) noContoursFound(w, h int) {
	if f.roi == image.Rect(0, 0, w, h) {
		f.roi = image.Rect(0, 0, w/3, h/3)
	}
}

// centeredBox returns a size x size square centered on rect's
// centroid, translated to stay fully inside (0,0,w,h).
func centeredBox(rect image.Rectangle, size, w, h int) image.Rectangle {
	cx := rect.Min.X + rect.Dx()/2
	cy := rect.Min.Y + rect.Dy()/2
	x0 := cx - size/2
	y0 := cy - size/2
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x0+size > w {
		x0 = w - size
	}
	if y0+size > h {
		y0 = h - size
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	x1 := x0 + size
	y1 := y0 + size
	if x1 > w {
		x1 = w
	}
	if y1 > h {
		y1 = h
	}
	return image.Rect(x0, y0, x1, y1)
}

// acceptOrRejectRoi rejects changes >80% relative to the previous
// area, keeping the ROI as is; otherwise commits newRoi and updates
// prevArea.
func (f *FSM) acceptOrRejectRoi(newRoi image.Rectangle, area float64, w, h int) {
	if f.prevArea > 0 {
		relChange := math.Abs(area-f.prevArea) / f.prevArea
		if relChange > 0.8 {
			return
		}
	}
	f.roi = newRoi
	f.prevArea = area
}
