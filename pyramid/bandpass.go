/*
DESCRIPTION
  bandpass.go implements BandPass: the temporal band-pass coordinator
  that holds the sampling rate and both cutoffs and drives filtering
  plus state-shift across all pyramid levels.

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

import "github.com/ausocean/breathcam/dsp"

// BandPass holds the sampling rate and both cutoffs of the temporal
// band-pass and owns the two TemporalFilters (hi-cut, lo-cut) whose
// difference forms the band response.
type BandPass struct {
	fps            float64
	lowCut, highCut float64
	hi, lo         dsp.TemporalFilter
}

// NewBandPass designs a BandPass at sampling rate fps with the given
// cutoffs in Hz. lowCut must be <= highCut.
func NewBandPass(fps, lowCut, highCut float64) (*BandPass, error) {
	b := &BandPass{fps: fps}
	if err := b.set(lowCut, highCut); err != nil {
		return nil, err
	}
	return b, nil
}

// set designs both filters against fps/2 (Nyquist) for (lowCut,
// highCut), assigning both cutoffs atomically before recomputing, per
// the cutoff-ordering note in the design notes.
func (b *BandPass) set(lowCut, highCut float64) error {
	nyquist := b.fps / 2
	hi, err := dsp.NewTemporalFilter(b.fps, highCut/nyquist)
	if err != nil {
		return err
	}
	lo, err := dsp.NewTemporalFilter(b.fps, lowCut/nyquist)
	if err != nil {
		return err
	}
	b.lowCut, b.highCut = lowCut, highCut
	b.hi, b.lo = hi, lo
	return nil
}

// LowCutoff sets the low cutoff if f <= the current high cutoff;
// rejected settings silently no-op.
func (b *BandPass) LowCutoff(f float64) {
	if f > b.highCut {
		return
	}
	b.set(f, b.highCut)
}

// HighCutoff sets the high cutoff if f >= the current low cutoff;
// rejected settings silently no-op.
func (b *BandPass) HighCutoff(f float64) {
	if f < b.lowCut {
		return
	}
	b.set(b.lowCut, f)
}

// SetCutoffs assigns both cutoffs atomically and recomputes both
// filters, bypassing the pairwise ordering check (used when applying
// a full configuration where both values are known to be consistent).
func (b *BandPass) SetCutoffs(lowCut, highCut float64) error {
	return b.set(lowCut, highCut)
}

// FilterPyramids iterates levels and, for each non-deepest level,
// runs Filter(hi, lo, prior) against the corresponding prior level,
// then shifts that level's lp/r/phase from current into prior; the
// deepest level only shifts (it carries no phase to filter).
func (b *BandPass) FilterPyramids(current, prior *RieszPyramid) {
	n := len(current.Levels)
	for i := 0; i < n-1; i++ {
		current.Levels[i].Filter(b.hi, b.lo, prior.Levels[i])
	}
	prior.CopyStateFrom(current)
}
