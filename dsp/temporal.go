/*
DESCRIPTION
  temporal.go implements the first-order temporal IIR used by the
  Riesz-pyramid band-pass: two instances (high-cut, low-cut) whose
  difference forms the band response.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dsp

// TemporalFilter is a first-order IIR low-pass with coefficients
// recomputed whenever the sampling rate or cutoff changes. a[0] is
// always normalized to 1.
type TemporalFilter struct {
	freq float64
	a    [2]float64
	b    [2]float64
}

// NewTemporalFilter designs a TemporalFilter at sampling rate fs and
// normalized cutoff wn (cutoff/Nyquist, in (0,1)).
func NewTemporalFilter(fs, wn float64) (TemporalFilter, error) {
	a, b, err := Butterworth(1, wn)
	if err != nil {
		return TemporalFilter{}, err
	}
	var f TemporalFilter
	f.freq = fs
	copy(f.a[:], a)
	copy(f.b[:], b)
	return f, nil
}

// Freq returns the sampling rate the filter was designed at.
func (f TemporalFilter) Freq() float64 { return f.freq }

// Pass computes out = (b0*phase + b1*prior - a1*out) / a0, the
// filter's carried state update, given the current frame's value
// phase, the previous frame's value prior, and the prior state out.
func (f TemporalFilter) Pass(out, phase, prior float64) float64 {
	return (f.b[0]*phase + f.b[1]*prior - f.a[1]*out) / f.a[0]
}
