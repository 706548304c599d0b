/*
DESCRIPTION
  bandpass_test.go tests BandPass's cutoff-setting semantics: silent
  rejection of out-of-order settings, and SetCutoffs' atomic bypass.

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

import "testing"

func TestNewBandPass(t *testing.T) {
	b, err := NewBandPass(30, 0.5, 1.0)
	if err != nil {
		t.Fatalf("NewBandPass returned unexpected error: %v", err)
	}
	if b.lowCut != 0.5 || b.highCut != 1.0 {
		t.Errorf("got lowCut=%v highCut=%v, want 0.5/1.0", b.lowCut, b.highCut)
	}
}

func TestLowCutoffRejectsOutOfOrder(t *testing.T) {
	b, err := NewBandPass(30, 0.5, 1.0)
	if err != nil {
		t.Fatalf("NewBandPass returned unexpected error: %v", err)
	}
	b.LowCutoff(2.0) // above highCut, must be silently rejected
	if b.lowCut != 0.5 {
		t.Errorf("got lowCut=%v after rejected set, want unchanged 0.5", b.lowCut)
	}
	b.LowCutoff(0.2) // below highCut, must apply
	if b.lowCut != 0.2 {
		t.Errorf("got lowCut=%v after accepted set, want 0.2", b.lowCut)
	}
}

func TestHighCutoffRejectsOutOfOrder(t *testing.T) {
	b, err := NewBandPass(30, 0.5, 1.0)
	if err != nil {
		t.Fatalf("NewBandPass returned unexpected error: %v", err)
	}
	b.HighCutoff(0.1) // below lowCut, must be silently rejected
	if b.highCut != 1.0 {
		t.Errorf("got highCut=%v after rejected set, want unchanged 1.0", b.highCut)
	}
	b.HighCutoff(2.0)
	if b.highCut != 2.0 {
		t.Errorf("got highCut=%v after accepted set, want 2.0", b.highCut)
	}
}

func TestSetCutoffsBypassesOrderingCheck(t *testing.T) {
	b, err := NewBandPass(30, 0.5, 1.0)
	if err != nil {
		t.Fatalf("NewBandPass returned unexpected error: %v", err)
	}
	// LowCutoff(1.5) alone would be rejected (above the current high
	// cutoff of 1.0); SetCutoffs applies the pair at once.
	if err := b.SetCutoffs(1.5, 2.0); err != nil {
		t.Fatalf("SetCutoffs returned unexpected error: %v", err)
	}
	if b.lowCut != 1.5 || b.highCut != 2.0 {
		t.Errorf("got lowCut=%v highCut=%v, want 1.5/2.0", b.lowCut, b.highCut)
	}
}
