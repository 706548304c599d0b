/*
DESCRIPTION
  rate.go implements motion counting, EWMA smoothing, peak detection,
  breathing-rate estimation, and no-motion alarm tracking.

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

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
)

const ewmaAlpha = 0.3
const rateAlpha = 0.4
const minPeakGapMillis = 400.0
const countHistoryLen = 30 // window for the recent-counts peak diagnostic

// countMotion pre-erodes the evaluation mask with a 2x2 kernel, counts
// white pixels, feeds the breathing-rate EWMA when the count has
// stayed at or above pixelThreshold for motionDuration consecutive
// frames, detects rising-to-falling peaks, and tracks the no-motion
// alarm condition.
func (f *FSM) countMotion(now time.Time) {
	eroded := gocv.NewMat()
	defer eroded.Close()
	kernel := gocv.GetStructuringElement(gocv.MorphRect, squareSize(2))
	defer kernel.Close()
	gocv.Erode(f.evaluation, &eroded, kernel)

	count := gocv.CountNonZero(eroded)

	f.recentCounts = append(f.recentCounts, float64(count))
	if len(f.recentCounts) > countHistoryLen {
		f.recentCounts = f.recentCounts[len(f.recentCounts)-countHistoryLen:]
	}

	if f.lastMotionTime.IsZero() {
		f.lastMotionTime = now
	}

	if count > 0 {
		f.lastMotionTime = now
		f.alarmPending = false
		f.noMotion = false
	} else {
		if !f.noMotion {
			f.noMotion = true
		}
		if now.Sub(f.lastMotionTime) >= f.params.TimeToAlarm && !f.alarmPending {
			f.sound.PlayAlarm()
			f.alarmPending = true
		}
	}

	if count >= f.params.PixelThreshold {
		f.consecutiveAbove++
	} else {
		f.consecutiveAbove = 0
	}

	if f.consecutiveAbove < f.params.MotionDuration {
		return
	}

	ewma := ewmaAlpha*float64(count) + (1-ewmaAlpha)*f.lastEWMA
	rising := ewma > f.lastEWMA

	if f.wasRising && !rising {
		f.log.Debug("motion: breathing peak detected",
			"recent_mean", floats.Sum(f.recentCounts)/float64(len(f.recentCounts)),
			"recent_max", floats.Max(f.recentCounts))
		f.recordPeak(now)
	}
	f.wasRising = rising
	f.lastEWMA = ewma
}

// recordPeak updates breathingRate from the time since the previous
// peak, gated by the 400ms low-pass that rejects the bimodal
// inhale/exhale burst.
func (f *FSM) recordPeak(now time.Time) {
	if f.haveLastPeak {
		deltaMillis := float64(now.Sub(f.lastPeakTime)) / float64(time.Millisecond)
		if deltaMillis > minPeakGapMillis {
			f.breathingRate = rateAlpha*(1000/deltaMillis) + (1-rateAlpha)*f.breathingRate
		}
	}
	f.lastPeakTime = now
	f.haveLastPeak = true
}
