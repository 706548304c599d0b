/*
DESCRIPTION
  butterworth_test.go tests the Butterworth filter designer against
  its defining properties: unity DC gain, a stable normalized
  denominator, and rejection of out-of-domain parameters.

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

import (
	"math"
	"testing"
)

func TestButterworthInvalidParams(t *testing.T) {
	cases := []struct {
		N  int
		Wn float64
	}{
		{0, 0.5},
		{-1, 0.5},
		{1, 0},
		{1, 1},
		{1, -0.1},
	}
	for _, c := range cases {
		if _, _, err := Butterworth(c.N, c.Wn); err != ErrInvalidFilter {
			t.Errorf("Butterworth(%d, %v) error = %v, want ErrInvalidFilter", c.N, c.Wn, err)
		}
	}
}

func TestButterworthUnityDCGain(t *testing.T) {
	for _, wn := range []float64{0.05, 0.1, 0.3, 0.6, 0.9} {
		a, b, err := Butterworth(1, wn)
		if err != nil {
			t.Fatalf("Butterworth(1, %v) returned unexpected error: %v", wn, err)
		}
		if a[0] != 1 {
			t.Errorf("a[0] = %v, want 1", a[0])
		}

		var sumA, sumB float64
		for _, v := range a {
			sumA += v
		}
		for _, v := range b {
			sumB += v
		}
		gain := sumB / sumA
		if math.Abs(gain-1) > 1e-9 {
			t.Errorf("DC gain at Wn=%v = %v, want 1", wn, gain)
		}
	}
}

func TestNewTemporalFilterFreq(t *testing.T) {
	f, err := NewTemporalFilter(30, 0.4)
	if err != nil {
		t.Fatalf("NewTemporalFilter returned unexpected error: %v", err)
	}
	if f.Freq() != 30 {
		t.Errorf("Freq() = %v, want 30 (the sampling rate the filter was designed at)", f.Freq())
	}
}

func TestTemporalFilterPassSettlesToUnityDCGain(t *testing.T) {
	f, err := NewTemporalFilter(30, 0.4)
	if err != nil {
		t.Fatalf("NewTemporalFilter returned unexpected error: %v", err)
	}
	// A constant input should settle to itself at steady state (unity
	// DC gain carries through to the per-sample difference equation).
	out, prior := 0.0, 0.0
	for i := 0; i < 10000; i++ {
		out = f.Pass(out, 1.0, prior)
		prior = out
	}
	if math.Abs(out-1.0) > 1e-6 {
		t.Errorf("steady-state Pass output = %v, want ~1.0", out)
	}
}
