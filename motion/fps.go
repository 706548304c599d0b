/*
DESCRIPTION
  fps.go implements FPSEstimator: measures the observed frame arrival
  rate over the first 100 frames and gates a warning when it diverges
  from the configured input rate.

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
	"time"

	"github.com/ausocean/utils/logging"
	"gonum.org/v1/gonum/stat"
)

const fpsSampleFrames = 100

// jitterRelStdDevThreshold gates the frame-interval jitter warning: a
// relative standard deviation (stddev/mean) above this indicates an
// unstable capture cadence even when the mean rate is on target.
const jitterRelStdDevThreshold = 0.5

// FPSEstimator measures wall-clock frame arrival intervals over the
// first fpsSampleFrames frames, warning if the observed rate diverges
// from the configured input rate by more than 20%, or if the
// intervals are too jittery to trust the mean.
type FPSEstimator struct {
	log       logging.Logger
	inputFPS  float64
	last      time.Time
	haveLast  bool
	intervals []float64
	observed  float64
	warned    bool
	jitterWarned bool
}

// NewFPSEstimator returns an estimator that will compare its observed
// rate against inputFPS once sampling completes.
func NewFPSEstimator(inputFPS float64, log logging.Logger) *FPSEstimator {
	return &FPSEstimator{inputFPS: inputFPS, log: log}
}

// Observe records the arrival of a new frame at now. Once
// fpsSampleFrames have been observed, it computes Observed() via the
// mean inter-frame interval and, if it differs from the configured
// input rate by more than 20%, or the intervals are too jittery, logs
// a warning (once each).
func (e *FPSEstimator) Observe(now time.Time) {
	if e.haveLast {
		e.intervals = append(e.intervals, now.Sub(e.last).Seconds())
	}
	e.last = now
	e.haveLast = true

	if len(e.intervals) < fpsSampleFrames-1 || e.observed != 0 {
		return
	}

	meanInterval := stat.Mean(e.intervals, nil)
	if meanInterval <= 0 {
		return
	}
	e.observed = 1 / meanInterval

	if e.inputFPS <= 0 {
		return
	}
	if !e.warned {
		rel := (e.observed - e.inputFPS) / e.inputFPS
		if rel < 0 {
			rel = -rel
		}
		if rel > 0.2 {
			e.log.Warning("motion: observed frame rate diverges from configured input_fps",
				"observed", e.observed, "configured", e.inputFPS)
			e.warned = true
		}
	}

	if !e.jitterWarned {
		stdDev := stat.StdDev(e.intervals, nil)
		if stdDev/meanInterval > jitterRelStdDevThreshold {
			e.log.Warning("motion: frame arrival interval is too jittery to trust",
				"relative_stddev", stdDev/meanInterval)
			e.jitterWarned = true
		}
	}
}

// Observed returns the measured frame rate, or 0 before
// fpsSampleFrames frames have been observed.
func (e *FPSEstimator) Observed() float64 { return e.observed }
