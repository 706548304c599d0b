/*
DESCRIPTION
  fps_test.go tests FPSEstimator's divergence-warning gate.

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

import (
	"testing"
	"time"
)

type countingLogger struct {
	warnings int
}

func (l *countingLogger) Log(lvl int8, m string, a ...interface{}) {}
func (l *countingLogger) SetLevel(lvl int8)                        {}
func (l *countingLogger) Debug(msg string, args ...interface{})    {}
func (l *countingLogger) Info(msg string, args ...interface{})     {}
func (l *countingLogger) Warning(msg string, args ...interface{})  { l.warnings++ }
func (l *countingLogger) Error(msg string, args ...interface{})    {}
func (l *countingLogger) Fatal(msg string, args ...interface{})    {}

func TestFPSEstimatorNoWarningWhenOnTarget(t *testing.T) {
	l := &countingLogger{}
	e := NewFPSEstimator(30, l)
	now := time.Now()
	for i := 0; i < fpsSampleFrames; i++ {
		e.Observe(now)
		now = now.Add(time.Second / 30)
	}
	if l.warnings != 0 {
		t.Errorf("warnings = %d, want 0 for on-target frame rate", l.warnings)
	}
	if e.Observed() < 29 || e.Observed() > 31 {
		t.Errorf("Observed() = %v, want ~30", e.Observed())
	}
}

func TestFPSEstimatorWarnsOnDivergence(t *testing.T) {
	l := &countingLogger{}
	e := NewFPSEstimator(30, l)
	now := time.Now()
	for i := 0; i < fpsSampleFrames; i++ {
		e.Observe(now)
		now = now.Add(time.Second / 10) // runs at 10fps, far below configured 30
	}
	if l.warnings != 1 {
		t.Errorf("warnings = %d, want exactly 1 for a sustained >20%% divergence", l.warnings)
	}
}
