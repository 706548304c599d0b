/*
DESCRIPTION
  engine.go implements Engine, the magnifier engine: the per-worker owned state
  {current, prior, band, alpha, threshold} and the transform(frame)
  entry point that drives build/unwrap/filter/amplify/collapse.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package magnify wraps the Riesz pyramid and band-pass into the
// per-frame transform a worker runs over its row-band.
package magnify

import (
	"math"

	"github.com/ausocean/breathcam/frame"
	"github.com/ausocean/breathcam/pyramid"
)

// Engine owns one worker's exclusive magnifier state: the current and
// prior pyramids, the band-pass, and the amplify parameters.
type Engine struct {
	current, prior *pyramid.RieszPyramid
	band           *pyramid.BandPass

	alpha     float64
	threshold float64 // radians, already scaled from the 0-100 percent-of-pi interface unit

	initialized bool
	rows, cols  int
}

// NewEngine constructs an Engine bound to band. alpha is a
// non-negative phase gain; threshold is the percentage of pi (0-100)
// the engine interface exposes.
func NewEngine(band *pyramid.BandPass, alpha, thresholdPercent float64) *Engine {
	return &Engine{
		band:      band,
		alpha:     alpha,
		threshold: thresholdPercent / 100 * math.Pi,
	}
}

// SetAlpha updates the phase gain.
func (e *Engine) SetAlpha(alpha float64) { e.alpha = alpha }

// SetThreshold updates the threshold, given as a percentage of pi
// (0-100).
func (e *Engine) SetThreshold(thresholdPercent float64) {
	e.threshold = thresholdPercent / 100 * math.Pi
}

// Reinitialize drops the engine's pyramids so the next Transform call
// re-derives their size from the frame it receives; used on FSM crop
// transitions where the worker's row-band size changes.
func (e *Engine) Reinitialize() {
	if e.current != nil {
		e.current.Close()
		e.prior.Close()
	}
	e.current, e.prior = nil, nil
	e.initialized = false
}

// Transform runs the magnification pipeline over f and returns a new
// frame with motion magnified. On the first call (or after
// Reinitialize), it seeds current and prior from f's luma and returns
// f unchanged.
func (e *Engine) Transform(f frame.Frame) (frame.Frame, error) {
	luma, ycc, err := frame.Luma(f)
	if err != nil {
		return frame.Frame{}, err
	}
	defer luma.Close()

	if !e.initialized {
		if !ycc.Empty() {
			ycc.Close()
		}
		rows, cols := luma.Rows(), luma.Cols()
		e.rows, e.cols = rows, cols
		e.current = pyramid.NewRieszPyramid(rows, cols)
		e.prior = pyramid.NewRieszPyramid(rows, cols)
		e.current.Build(luma)
		e.prior.Build(luma)
		e.initialized = true
		return f.Clone(), nil
	}

	e.current.Build(luma)
	e.current.UnwrapOrientPhase(e.prior)
	e.band.FilterPyramids(e.current, e.prior)
	e.current.Amplify(e.alpha, e.threshold)

	collapsed := e.current.Collapse()
	defer collapsed.Close()

	return frame.FromLuma(collapsed, ycc)
}

// Initialized reports whether the engine has seeded its pyramids.
func (e *Engine) Initialized() bool { return e.initialized }
