/*
DESCRIPTION
  pyramid.go implements RieszPyramid: the ordered list of pyramid
  levels, built via pyrDown/pyrUp and collapsed back into a frame.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pyramid

import (
	"image"

	"gocv.io/x/gocv"
)

// RieszPyramid owns an ordered list of PyramidLevels covering a
// single luma plane. Deepest level holds the DC residual and is never
// amplified.
type RieszPyramid struct {
	Levels []*PyramidLevel
	rows   int
	cols   int
}

// pyrDownSize returns the output size gocv.PyrDown produces for a
// (rows,cols) input: OpenCV's default pyrDown destination size is
// ceiling division, (src+1)/2, not floor division, so level
// pre-allocation must use the same formula or stale-size level Mats
// silently diverge from the actual PyrDown output on odd dimensions.
func pyrDownSize(rows, cols int) (int, int) {
	return (rows + 1) / 2, (cols + 1) / 2
}

// numLevels returns the largest L such that halving L-1 times (via
// pyrDownSize) keeps both dimensions of (rows,cols) strictly greater
// than 5.
func numLevels(rows, cols int) int {
	l := 1
	r, c := rows, cols
	for {
		nr, nc := pyrDownSize(r, c)
		if nr <= 5 || nc <= 5 {
			break
		}
		r, c = nr, nc
		l++
	}
	return l
}

// NewRieszPyramid allocates levels sized for a (rows,cols) luma plane.
func NewRieszPyramid(rows, cols int) *RieszPyramid {
	p := &RieszPyramid{rows: rows, cols: cols}
	r, c := rows, cols
	n := numLevels(rows, cols)
	for i := 0; i < n; i++ {
		p.Levels = append(p.Levels, NewPyramidLevel(r, c))
		r, c = pyrDownSize(r, c)
	}
	return p
}

// Close releases all levels' underlying Mats.
func (p *RieszPyramid) Close() {
	for _, l := range p.Levels {
		l.Close()
	}
}

// Build decomposes frame (a single-channel float32 plane) into the
// pyramid's levels: at each octave, down = pyrDown(octave), up =
// pyrUp(down) taken at octave's size (pyrUp doubles down, one row or
// column more than octave on an odd dimension), store octave-up into
// the level, and continue with octave = down. The deepest level stores
// the final residual itself.
func (p *RieszPyramid) Build(frame gocv.Mat) {
	octave := gocv.NewMat()
	defer octave.Close()
	frame.CopyTo(&octave)

	for i, level := range p.Levels {
		if i == len(p.Levels)-1 {
			level.Build(octave)
			return
		}

		down := gocv.NewMat()
		gocv.PyrDown(octave, &down, image.Point{}, gocv.BorderDefault)

		up := gocv.NewMatWithSize(octave.Rows(), octave.Cols(), octave.Type())
		gocv.PyrUp(down, &up, image.Point{}, gocv.BorderDefault)
		upView := up.Region(image.Rect(0, 0, octave.Cols(), octave.Rows()))

		residual := gocv.NewMat()
		gocv.Subtract(octave, upView, &residual)
		level.Build(residual)
		residual.Close()
		upView.Close()
		up.Close()

		octave.Close()
		octave = down
	}
}

// Collapse reconstructs a frame from the pyramid's current lp planes,
// starting from the deepest level and repeatedly pyrUp-ing, taking the
// result at the next level's size, and adding that level's lp.
func (p *RieszPyramid) Collapse() gocv.Mat {
	n := len(p.Levels)
	result := gocv.NewMat()
	p.Levels[n-1].Lp().CopyTo(&result)

	for i := n - 2; i >= 0; i-- {
		target := p.Levels[i].Lp()
		up := gocv.NewMatWithSize(target.Rows(), target.Cols(), target.Type())
		gocv.PyrUp(result, &up, image.Point{}, gocv.BorderDefault)
		result.Close()
		upView := up.Region(image.Rect(0, 0, target.Cols(), target.Rows()))

		sum := gocv.NewMat()
		gocv.Add(upView, target, &sum)
		upView.Close()
		up.Close()
		result = sum
	}
	return result
}

// UnwrapOrientPhase updates the oriented phase of every level except
// the deepest (the DC residual, whose phase is never filtered or
// amplified) against prior's corresponding level.
func (p *RieszPyramid) UnwrapOrientPhase(prior *RieszPyramid) {
	for i := 0; i < len(p.Levels)-1; i++ {
		p.Levels[i].UnwrapOrientPhase(prior.Levels[i])
	}
}

// Amplify runs Amplify on every level except the deepest (the DC
// residual, which is not amplified).
func (p *RieszPyramid) Amplify(alpha, thresholdRad float64) {
	for i := 0; i < len(p.Levels)-1; i++ {
		p.Levels[i].Amplify(alpha, thresholdRad)
	}
}

// CopyStateFrom copies lp, r and phase of every level from src into p
// (the filter states realPass/imagPass are level-local and are never
// copied).
func (p *RieszPyramid) CopyStateFrom(src *RieszPyramid) {
	for i, level := range p.Levels {
		s := src.Levels[i]
		s.lp.CopyTo(&level.lp)
		s.rReal.CopyTo(&level.rReal)
		s.rImag.CopyTo(&level.rImag)
		s.phaseCos.CopyTo(&level.phaseCos)
		s.phaseSin.CopyTo(&level.phaseSin)
	}
}
