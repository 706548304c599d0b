/*
DESCRIPTION
  pyramid_test.go tests level-size derivation against gocv.PyrDown's
  ceiling-division convention, Build and UnwrapOrientPhase over an
  odd-size level chain, the build/collapse round trip, and the
  zero-alpha Amplify identity.

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
	"math"
	"testing"

	"gocv.io/x/gocv"
)

func TestPyrDownSizeIsCeilingDivision(t *testing.T) {
	cases := []struct {
		rows, cols     int
		wantR, wantC int
	}{
		{8, 8, 4, 4},
		{7, 7, 4, 4},    // odd: ceiling, not floor (floor would give 3)
		{301, 301, 151, 151},
		{300, 200, 150, 100},
	}
	for _, c := range cases {
		gotR, gotC := pyrDownSize(c.rows, c.cols)
		if gotR != c.wantR || gotC != c.wantC {
			t.Errorf("pyrDownSize(%d,%d) = (%d,%d), want (%d,%d)", c.rows, c.cols, gotR, gotC, c.wantR, c.wantC)
		}
	}
}

func TestNewRieszPyramidLevelSizesMatchPyrDownChain(t *testing.T) {
	// 301 is odd, reachable via an ROI crop; every level's pre-allocated
	// size must match the ceiling-division chain exactly or
	// UnwrapOrientPhase panics on the first odd-size level.
	rows, cols := 301, 301
	p := NewRieszPyramid(rows, cols)
	defer p.Close()

	r, c := rows, cols
	for i, level := range p.Levels {
		if level.rows != r || level.cols != c {
			t.Fatalf("level %d size = (%d,%d), want (%d,%d)", i, level.rows, level.cols, r, c)
		}
		r, c = pyrDownSize(r, c)
	}
}

func TestNumLevelsStopsAtFloor(t *testing.T) {
	if n := numLevels(7, 7); n != 1 {
		t.Errorf("numLevels(7,7) = %d, want 1 (pyrDownSize already <= 5)", n)
	}
	if n := numLevels(16, 16); n != 2 {
		t.Errorf("numLevels(16,16) = %d, want 2", n)
	}
}

func TestBuildAndUnwrapOrientPhaseOnOddChain(t *testing.T) {
	// 301 is odd, reachable via an ROI crop; Build must upsample each
	// octave back to its own odd size, and UnwrapOrientPhase must then
	// run over every level of the chain without a size mismatch.
	rows, cols := 301, 301
	cur := NewRieszPyramid(rows, cols)
	defer cur.Close()
	prior := NewRieszPyramid(rows, cols)
	defer prior.Close()

	frame := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer frame.Close()
	cur.Build(frame)
	prior.Build(frame)

	cur.UnwrapOrientPhase(prior) // must not panic
}

func TestBuildCollapseRoundTrip(t *testing.T) {
	const rows, cols = 16, 16
	src := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	defer src.Close()
	want := make([]float32, rows*cols)
	for i := range want {
		v := float32(i%23) / 23.0
		want[i] = v
	}
	data, err := src.DataPtrFloat32()
	if err != nil {
		t.Fatalf("DataPtrFloat32: %v", err)
	}
	copy(data, want)

	p := NewRieszPyramid(rows, cols)
	defer p.Close()
	p.Build(src)

	out := p.Collapse()
	defer out.Close()

	if out.Rows() != rows || out.Cols() != cols {
		t.Fatalf("Collapse size = (%d,%d), want (%d,%d)", out.Rows(), out.Cols(), rows, cols)
	}
	gotData, err := out.DataPtrFloat32()
	if err != nil {
		t.Fatalf("DataPtrFloat32: %v", err)
	}
	const eps = 1e-3
	for i := range want {
		if math.Abs(float64(gotData[i]-want[i])) > eps {
			t.Fatalf("Collapse()[%d] = %v, want ~%v (within %v)", i, gotData[i], want[i], eps)
		}
	}
}

func TestAmplifyZeroAlphaIsIdentity(t *testing.T) {
	const rows, cols = 4, 4
	l := NewPyramidLevel(rows, cols)
	defer l.Close()

	lp := matFloats(l.lp)
	rRe := matFloats(l.rReal)
	rIm := matFloats(l.rImag)
	rpCos := matFloats(l.realPassCos)
	rpSin := matFloats(l.realPassSin)
	ipCos := matFloats(l.imagPassCos)
	ipSin := matFloats(l.imagPassSin)
	for i := range lp {
		lp[i] = float32(i) * 0.1
		rRe[i] = float32(i) * 0.05
		rIm[i] = float32(i) * 0.02
		rpCos[i] = 0.3
		rpSin[i] = 0.1
		ipCos[i] = 0.05
		ipSin[i] = 0.2
	}
	want := append([]float32(nil), lp...)

	l.Amplify(0, 0.5) // alpha=0 forces magV*alpha=0 regardless of phase change

	got := matFloats(l.lp)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("lp[%d] = %v after zero-alpha Amplify, want unchanged %v", i, got[i], want[i])
		}
	}
}
