/*
DESCRIPTION
  butterworth.go designs digital low-pass IIR filter coefficients used by
  the temporal band-pass in package pyramid. It reproduces, pole for
  pole, the closed-form Butterworth/bilinear-transform design used by
  the reference magnification pipeline.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dsp provides the Butterworth filter designer and the
// first-order temporal IIR filter used by the Riesz-pyramid band-pass.
package dsp

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/pkg/errors"
)

// ErrInvalidFilter is returned when Butterworth design parameters are
// out of domain: N < 1, or Wn outside (0,1).
var ErrInvalidFilter = errors.New("dsp: invalid filter parameters")

// sampleFreq is the fixed bilinear-transform sampling frequency used by
// the reference design; it is a normalization constant of the design
// algorithm, not a property of the signal being filtered.
const sampleFreq = 2.0

// Butterworth designs a digital low-pass filter of order N at
// normalized cutoff Wn (cutoff/Nyquist, in (0,1)) and returns the
// transfer function coefficients a, b such that H(z) = B(z)/A(z),
// len(a) == len(b) == N+1, a[0] == 1.
//
// N=1 is the only order this system drives, but the general-order
// polynomial expansion below is what the reference implementation
// contains, including its conjugate-pair collapsing; this is kept so
// a future change to N stays correct.
func Butterworth(N int, Wn float64) (a, b []float64, err error) {
	if N < 1 || !(Wn > 0 && Wn < 1) {
		return nil, nil, ErrInvalidFilter
	}

	w0 := 2.0 * sampleFreq * math.Tan(math.Pi*Wn/sampleFreq)

	zeros, poles, gain := prototypeAnalogButterworth(N)
	ac, bc := zerosPolesToTransferCoefficients(zeros, poles, gain)
	toLowpass(bc, ac, w0)
	bc, ac = bilinearTransform(bc, ac, sampleFreq)

	a = make([]float64, len(ac))
	for i, v := range ac {
		a[i] = real(v)
	}
	b = make([]float64, len(bc))
	for i, v := range bc {
		b[i] = real(v)
	}
	return a, b, nil
}

// prototypeAnalogButterworth returns zeros, poles and gain for the
// normalized analog Butterworth prototype of order N. Gain is always
// 1.0, parameterized to agree with the general form.
func prototypeAnalogButterworth(N int) (zeros, poles []complex128, gain float64) {
	for k := 1; k <= N; k++ {
		theta := (2.0*float64(k) - 1) / (2.0 * float64(N)) * math.Pi
		poles = append(poles, cmplx.Exp(complex(0, theta))*complex(0, 1))
	}
	return nil, poles, 1.0
}

// zerosPolesToTransferCoefficients expands zero/pole lists and a scalar
// gain into real polynomial transfer-function coefficients a (from
// poles) and b (from zeros, scaled by gain).
func zerosPolesToTransferCoefficients(zeros, poles []complex128, gain float64) (a, b []complex128) {
	a = polynomialCoefficients(poles)
	b = polynomialCoefficients(zeros)
	for i := range b {
		b[i] *= complex(gain, 0)
	}
	return a, b
}

// polynomialCoefficients expands the monic polynomial with the given
// roots, collapsing to real coefficients when the roots are closed
// under conjugation.
func polynomialCoefficients(roots []complex128) []complex128 {
	coeffs := make([]complex128, len(roots)+1)
	coeffs[0] = 1

	sorted := append([]complex128(nil), roots...)
	sort.Slice(sorted, func(i, j int) bool { return lessComplex(sorted[i], sorted[j]) })

	sofar := 1
	for _, root := range sorted {
		w := -root
		for j := sofar; j > 0; j-- {
			coeffs[j] = coeffs[j]*w + coeffs[j-1]
		}
		coeffs[0] *= w
		sofar++
	}

	result := append([]complex128(nil), coeffs...)

	// The reference collapses to real coefficients when the positive-
	// and negative-imaginary root halves mirror each other; the
	// condition that actually makes this true is conjugate symmetry of
	// the root set, so test that directly.
	if isConjugateSymmetric(sorted) {
		for k := range coeffs {
			result[k] = complex(real(coeffs[k]), 0)
		}
	}
	return result
}

// isConjugateSymmetric reports whether roots is closed under complex
// conjugation (each non-real root's conjugate also appears).
func isConjugateSymmetric(roots []complex128) bool {
	const eps = 1e-9
	used := make([]bool, len(roots))
	for i, r := range roots {
		if used[i] {
			continue
		}
		if math.Abs(imag(r)) < eps {
			used[i] = true
			continue
		}
		found := false
		for j := i + 1; j < len(roots); j++ {
			if used[j] {
				continue
			}
			if cmplx.Abs(roots[j]-cmplx.Conj(r)) < eps {
				used[i], used[j] = true, true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func lessComplex(x, y complex128) bool {
	if real(x) != real(y) {
		return real(x) < real(y)
	}
	return imag(x) < imag(y)
}

// toLowpass frequency-scales transfer-function coefficients b, a (in
// place) by w0, transforming the normalized prototype into a low-pass
// filter with cutoff w0.
func toLowpass(b, a []complex128, w0 float64) {
	d := len(a)
	n := len(b)
	m := d
	if n > m {
		m = n
	}
	start1 := n - d
	if start1 < 0 {
		start1 = 0
	}
	start2 := d - n
	if start2 < 0 {
		start2 = 0
	}

	pwo := make([]float64, m)
	for k := m - 1; k >= 0; k-- {
		pwo[m-1-k] = math.Pow(w0, float64(k))
	}

	for k := start2; k < len(pwo) && k-start2 < len(b); k++ {
		b[k-start2] *= complex(pwo[start1]/pwo[k], 0)
	}
	for k := start1; k < len(pwo) && k-start1 < len(a); k++ {
		a[k-start1] *= complex(pwo[start1]/pwo[k], 0)
	}
	normalize(b, a)
}

// bilinearTransform converts analog filter coefficients b, a into a
// digital filter for sampling frequency fs using the closed-form
// binomial expansion (Tustin's method), returning new b', a'.
func bilinearTransform(b, a []complex128, fs float64) (bp, ap []complex128) {
	D := len(a) - 1
	N := len(b) - 1
	M := D
	if N > M {
		M = N
	}

	bp = make([]complex128, M+1)
	for j := 0; j <= M; j++ {
		var val complex128
		for i := 0; i <= N; i++ {
			for k := 0; k <= i; k++ {
				for l := 0; l <= M-i; l++ {
					if k+l != j {
						continue
					}
					val += complex(choose(i, k)*choose(M-i, l), 0) *
						b[N-i] * complex(math.Pow(2*fs, float64(i)), 0) * complex(math.Pow(-1, float64(k)), 0)
				}
			}
		}
		bp[j] = complex(real(val), 0)
	}

	ap = make([]complex128, M+1)
	for j := 0; j <= M; j++ {
		var val complex128
		for i := 0; i <= D; i++ {
			for k := 0; k <= i; k++ {
				for l := 0; l <= M-i; l++ {
					if k+l != j {
						continue
					}
					val += complex(choose(i, k)*choose(M-i, l), 0) *
						a[D-i] * complex(math.Pow(2*fs, float64(i)), 0) * complex(math.Pow(-1, float64(k)), 0)
				}
			}
		}
		ap[j] = complex(real(val), 0)
	}

	normalize(bp, ap)
	return bp, ap
}

// normalize divides both a and b by a's first non-zero coefficient.
// Leading zeros are skipped only when picking that divisor; the
// caller's slices keep their length, so a[0] == 1 afterwards only when
// a has no leading zero.
func normalize(b, a []complex128) {
	for len(a) > 1 && a[0] == 0 {
		a = a[1:]
	}
	lead := a[0]
	for i := range a {
		a[i] /= lead
	}
	for i := range b {
		b[i] /= lead
	}
}

// choose returns the binomial coefficient n choose k.
func choose(n, k int) float64 {
	if k > n {
		return 0
	}
	if k*2 > n {
		k = n - k
	}
	if k == 0 {
		return 1
	}
	result := n
	for i := 2; i <= k; i++ {
		result *= (n - i + 1)
		result /= i
	}
	return float64(result)
}
