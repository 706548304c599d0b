/*
DESCRIPTION
  level.go implements PyramidLevel: one octave of the Laplacian
  pyramid together with its Riesz pair, oriented phase, and the two
  temporal filter states that drive the band-pass.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pyramid implements the Riesz-pyramid motion-magnification
// transform: Laplacian pyramid construction, per-level Riesz pair,
// oriented phase unwrap, temporal band-pass filtering and phase
// amplification, and pyramid collapse.
package pyramid

import (
	"image"
	"math"

	"github.com/ausocean/breathcam/dsp"
	"gocv.io/x/gocv"
)

// riesz kernel K = [-0.6, 0, 0.6] and its transpose, per §4.3.
var rieszKernelRow = []float32{-0.6, 0, 0.6}

// PyramidLevel owns one octave's Laplacian plane, its Riesz pair,
// oriented phase, and band-pass filter states. All planes share the
// same (rows,cols).
type PyramidLevel struct {
	rows, cols int

	lp gocv.Mat // Laplacian-pyramid plane (32FC1)

	rReal, rImag gocv.Mat // Riesz pair: real = lp*K, imag = lp*Kᵀ

	phaseCos, phaseSin gocv.Mat // oriented phase, (cos,sin) components

	// realPass is the hi-cut filter state, imagPass the lo-cut filter
	// state; both carry (cos,sin) components of the filtered phase,
	// since Pass is applied component-wise.
	realPassCos, realPassSin gocv.Mat
	imagPassCos, imagPassSin gocv.Mat
}

// NewPyramidLevel allocates a zero-filled level of the given size.
func NewPyramidLevel(rows, cols int) *PyramidLevel {
	l := &PyramidLevel{rows: rows, cols: cols}
	l.lp = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	l.rReal = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	l.rImag = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	l.phaseCos = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	l.phaseSin = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	l.realPassCos = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	l.realPassSin = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	l.imagPassCos = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	l.imagPassSin = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	return l
}

// Close releases the level's underlying Mats.
func (l *PyramidLevel) Close() {
	l.lp.Close()
	l.rReal.Close()
	l.rImag.Close()
	l.phaseCos.Close()
	l.phaseSin.Close()
	l.realPassCos.Close()
	l.realPassSin.Close()
	l.imagPassCos.Close()
	l.imagPassSin.Close()
}

// Lp returns the level's Laplacian plane.
func (l *PyramidLevel) Lp() gocv.Mat { return l.lp }

// Build stores octave into lp and computes the Riesz pair:
// r.real = conv2(lp, K), r.imag = conv2(lp, Kᵀ), reflected border.
func (l *PyramidLevel) Build(octave gocv.Mat) {
	octave.CopyTo(&l.lp)

	kernelRow := gocv.NewMatWithSize(1, 3, gocv.MatTypeCV32F)
	defer kernelRow.Close()
	for i, v := range rieszKernelRow {
		kernelRow.SetFloatAt(0, i, v)
	}
	kernelCol := gocv.NewMatWithSize(3, 1, gocv.MatTypeCV32F)
	defer kernelCol.Close()
	for i, v := range rieszKernelRow {
		kernelCol.SetFloatAt(i, 0, v)
	}

	center := image.Point{X: -1, Y: -1}
	gocv.Filter2D(l.lp, &l.rReal, gocv.MatTypeCV32F, kernelRow, center, 0, gocv.BorderReflect101)
	gocv.Filter2D(l.lp, &l.rImag, gocv.MatTypeCV32F, kernelCol, center, 0, gocv.BorderReflect101)
}

// UnwrapOrientPhase computes the oriented phase of this level against
// prior, per §4.3. Division by zero yields 0.
func (l *PyramidLevel) UnwrapOrientPhase(prior *PyramidLevel) {
	lp := matFloats(l.lp)
	rRe := matFloats(l.rReal)
	rIm := matFloats(l.rImag)
	plp := matFloats(prior.lp)
	prRe := matFloats(prior.rReal)
	prIm := matFloats(prior.rImag)
	cos := matFloats(l.phaseCos)
	sin := matFloats(l.phaseSin)

	for i := range lp {
		t1 := float64(lp[i])*float64(plp[i]) + float64(rRe[i])*float64(prRe[i]) + float64(rIm[i])*float64(prIm[i])
		t2 := float64(rRe[i])*float64(plp[i]) - float64(prRe[i])*float64(lp[i])
		t3 := float64(rIm[i])*float64(plp[i]) - float64(prIm[i])*float64(lp[i])
		tp := t2*t2 + t3*t3

		denom := math.Sqrt(tp + t1*t1)
		var phi float64
		if denom != 0 {
			phi = math.Acos(clamp(t1/denom, -1, 1))
		}

		ampDenom := math.Sqrt(tp)
		var u, v float64
		if ampDenom != 0 {
			u = t2 / ampDenom
			v = t3 / ampDenom
		}

		cos[i] = float32(u * phi)
		sin[i] = float32(v * phi)
	}
}

// Filter runs the hi-cut and lo-cut temporal filters component-wise
// over the level's (cos,sin) phase against prior's (cos,sin) phase.
func (l *PyramidLevel) Filter(hiCut, loCut dsp.TemporalFilter, prior *PyramidLevel) {
	cos := matFloats(l.phaseCos)
	sin := matFloats(l.phaseSin)
	priorCos := matFloats(prior.phaseCos)
	priorSin := matFloats(prior.phaseSin)

	rpCos := matFloats(l.realPassCos)
	rpSin := matFloats(l.realPassSin)
	ipCos := matFloats(l.imagPassCos)
	ipSin := matFloats(l.imagPassSin)

	for i := range cos {
		rpCos[i] = float32(hiCut.Pass(float64(rpCos[i]), float64(cos[i]), float64(priorCos[i])))
		rpSin[i] = float32(hiCut.Pass(float64(rpSin[i]), float64(sin[i]), float64(priorSin[i])))
		ipCos[i] = float32(loCut.Pass(float64(ipCos[i]), float64(cos[i]), float64(priorCos[i])))
		ipSin[i] = float32(loCut.Pass(float64(ipSin[i]), float64(sin[i]), float64(priorSin[i])))
	}
}

// Amplify applies phase amplification per §4.3: it computes the
// per-pixel amplitude, blurs it, divides the band-pass output by the
// blurred amplitude, amplifies up to thresholdRad, and mutates lp in
// place.
func (l *PyramidLevel) Amplify(alpha, thresholdRad float64) {
	rows, cols := l.rows, l.cols

	amp := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer amp.Close()
	changeCos := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer changeCos.Close()
	changeSin := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer changeSin.Close()

	lp := matFloats(l.lp)
	rRe := matFloats(l.rReal)
	rIm := matFloats(l.rImag)
	ampData := matFloats(amp)
	rpCos := matFloats(l.realPassCos)
	rpSin := matFloats(l.realPassSin)
	ipCos := matFloats(l.imagPassCos)
	ipSin := matFloats(l.imagPassSin)
	chCos := matFloats(changeCos)
	chSin := matFloats(changeSin)

	for i := range lp {
		a := math.Sqrt(float64(rRe[i])*float64(rRe[i]) + float64(rIm[i])*float64(rIm[i]) + float64(lp[i])*float64(lp[i]))
		ampData[i] = float32(a)
		chCos[i] = rpCos[i] - ipCos[i]
		chSin[i] = rpSin[i] - ipSin[i]
	}

	normCos := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer normCos.Close()
	normSin := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer normSin.Close()
	ncData := matFloats(normCos)
	nsData := matFloats(normSin)
	for i := range lp {
		ncData[i] = chCos[i] * ampData[i]
		nsData[i] = chSin[i] * ampData[i]
	}

	const sigma = 3.0
	const aperture = 1 + 4*int(sigma)
	ksize := image.Point{X: aperture, Y: aperture}
	blurredAmp := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer blurredAmp.Close()
	gocv.GaussianBlur(amp, &blurredAmp, ksize, sigma, sigma, gocv.BorderReflect101)
	blurredNormCos := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer blurredNormCos.Close()
	blurredNormSin := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer blurredNormSin.Close()
	gocv.GaussianBlur(normCos, &blurredNormCos, ksize, sigma, sigma, gocv.BorderReflect101)
	gocv.GaussianBlur(normSin, &blurredNormSin, ksize, sigma, sigma, gocv.BorderReflect101)

	bAmp := matFloats(blurredAmp)
	bnCos := matFloats(blurredNormCos)
	bnSin := matFloats(blurredNormSin)

	for i := range lp {
		var nc, ns float64
		if bAmp[i] != 0 {
			nc = float64(bnCos[i]) / float64(bAmp[i])
			ns = float64(bnSin[i]) / float64(bAmp[i])
		}

		magV := math.Hypot(nc, ns)
		magV2 := math.Min(magV*alpha, thresholdRad)
		cosPhi := math.Cos(magV2)
		sinPhi := math.Sin(magV2)

		var pair float64
		if magV != 0 {
			pair = (float64(rRe[i])*nc + float64(rIm[i])*ns) / magV
		}

		lp[i] = float32(float64(lp[i])*cosPhi - pair*sinPhi)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// matFloats returns a []float32 view directly into m's backing data;
// writes through it mutate m in place.
func matFloats(m gocv.Mat) []float32 {
	data, err := m.DataPtrFloat32()
	if err != nil {
		panic("pyramid: mat is not CV32F: " + err.Error())
	}
	return data
}

