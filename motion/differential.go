/*
DESCRIPTION
  differential.go implements DifferentialCollins: a 3-frame motion
  mask built from the grayscale magnified frame buffer.

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

import "gocv.io/x/gocv"

// differentialCollins computes evaluation = threshold(|f0-f2| AND
// |f1-f2|, diffThreshold), then erodes with a rectangular kernel of
// size erodeDim. No-op until the 3-frame buffer is full.
func (f *FSM) differentialCollins() {
	if f.frameCount < 3 {
		return
	}
	f0, f1, f2 := f.frameBuffer[0], f.frameBuffer[1], f.frameBuffer[2]

	diff02 := gocv.NewMat()
	defer diff02.Close()
	gocv.AbsDiff(f0, f2, &diff02)

	diff12 := gocv.NewMat()
	defer diff12.Close()
	gocv.AbsDiff(f1, f2, &diff12)

	thresh02 := gocv.NewMat()
	defer thresh02.Close()
	gocv.Threshold(diff02, &thresh02, float32(f.params.DiffThreshold), 255, gocv.ThresholdBinary)

	thresh12 := gocv.NewMat()
	defer thresh12.Close()
	gocv.Threshold(diff12, &thresh12, float32(f.params.DiffThreshold), 255, gocv.ThresholdBinary)

	masked := gocv.NewMat()
	defer masked.Close()
	gocv.BitwiseAnd(thresh02, thresh12, &masked)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, squareSize(f.params.ErodeDim))
	defer kernel.Close()
	gocv.Erode(masked, &f.evaluation, kernel)
}
