/*
DESCRIPTION
  fsm.go implements the adaptive-crop / motion-detection state
  machine: six states driving magnify/diff/accumulate/ROI/alarm,
  ported from the reference MotionDetection::update state dispatch.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package motion implements the adaptive-crop / motion-detection
// finite state machine that consumes magnified frames, derives a
// region of interest, estimates breathing rate, and triggers an
// alarm on sustained motion absence.
package motion

import (
	"image"
	"time"

	"github.com/ausocean/breathcam/alarm"
	"github.com/ausocean/breathcam/dispatch"
	"github.com/ausocean/breathcam/frame"
	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"
)

const pkg = "motion: "

// State is one of the six FSM states.
type State int

const (
	Init State = iota
	Reset
	Idle
	MonitorMotion
	ComputeRoi
	ValidRoi
)

func (s State) String() string {
	switch s {
	case Init:
		return "Init"
	case Reset:
		return "Reset"
	case Idle:
		return "Idle"
	case MonitorMotion:
		return "MonitorMotion"
	case ComputeRoi:
		return "ComputeRoi"
	case ValidRoi:
		return "ValidRoi"
	default:
		return "Unknown"
	}
}

// Params holds the FSM's configuration thresholds, sourced from
// config.Config.
type Params struct {
	Crop bool

	ErodeDim, DilateDim int
	DiffThreshold        int // grayscale delta threshold for DifferentialCollins
	PixelThreshold        int // min changed pixels
	MotionDuration        int // frames above threshold before "valid"
	FramesToSettle        int // Init/Reset dwell
	RoiWindow             int // frames accumulated before ComputeRoi
	RoiUpdateInterval     int // frames in Idle before re-cropping
	TimeToAlarm           time.Duration

	FrameWidth, FrameHeight int
}

// FSM is the single owned MotionState instance for the system
// lifetime: FSM state label, per-state timers, ROI smoothing state,
// breathing-rate estimation state, and alarm tracking.
type FSM struct {
	log    logging.Logger
	pool   *dispatch.Pool
	sound  alarm.Sounder
	params Params

	state State

	initTimer, validTimer, roiTimer, refillTimer int

	frameBuffer [3]gocv.Mat
	frameCount  int

	roi       image.Rectangle
	prevArea  float64
	accumulator gocv.Mat
	evaluation  gocv.Mat

	breathingRate float64
	lastEWMA      float64
	wasRising     bool
	lastPeakTime  time.Time
	haveLastPeak  bool

	consecutiveAbove int
	noMotion         bool
	lastMotionTime   time.Time

	recentCounts []float64 // bounded history of recent changed-pixel counts, for peak diagnostics

	alarmPending bool
}

// New constructs an FSM at the Init state with a full-frame ROI and
// the reference's initial breathing rate of 1.0.
func New(pool *dispatch.Pool, sound alarm.Sounder, params Params, log logging.Logger) *FSM {
	f := &FSM{
		log:           log,
		pool:          pool,
		sound:         sound,
		params:        params,
		state:         Init,
		roi:           image.Rect(0, 0, params.FrameWidth, params.FrameHeight),
		breathingRate: 1.0,
	}
	f.accumulator = gocv.NewMatWithSize(params.FrameHeight, params.FrameWidth, gocv.MatTypeCV8U)
	f.evaluation = gocv.NewMatWithSize(params.FrameHeight, params.FrameWidth, gocv.MatTypeCV8U)
	return f
}

// Close releases the FSM's retained Mats.
func (f *FSM) Close() {
	for _, m := range f.frameBuffer {
		if !m.Empty() {
			m.Close()
		}
	}
	f.accumulator.Close()
	f.evaluation.Close()
}

// State returns the FSM's current state.
func (f *FSM) State() State { return f.state }

// Roi returns the FSM's current region of interest.
func (f *FSM) Roi() image.Rectangle { return f.roi }

// BreathingRate returns the most recently estimated breathing rate in
// Hz.
func (f *FSM) BreathingRate() float64 { return f.breathingRate }

// AlarmPending reports whether an alarm has been emitted for the
// current motion-absence episode.
func (f *FSM) AlarmPending() bool { return f.alarmPending }

// Update processes one new raw input frame: it runs the current
// state's per-frame action, then evaluates the current state's
// transition condition using the SAME pre-transition state, matching
// the reference's two-phase per-frame execution model.
func (f *FSM) Update(now time.Time, raw frame.Frame) error {
	switch f.state {
	case Init:
		if err := f.actionMagnifyAndBuffer(raw, f.fullFrame(raw)); err != nil {
			return err
		}
		f.initTimer++

	case Reset:
		if err := f.actionMagnifyAndBuffer(raw, f.fullFrame(raw)); err != nil {
			return err
		}
		zero(f.accumulator)
		f.initTimer++

	case Idle:
		cropped := cropTo(raw, f.roi)
		defer cropped.Close()
		if err := f.actionMagnifyAndBuffer(raw, cropped); err != nil {
			return err
		}
		f.differentialCollins()
		f.countMotion(now)
		f.validTimer++

	case MonitorMotion:
		if err := f.actionMagnifyAndBuffer(raw, f.fullFrame(raw)); err != nil {
			return err
		}
		f.differentialCollins()
		orInto(f.accumulator, f.evaluation)
		f.roiTimer++

	case ComputeRoi:
		f.calculateRoi()

	case ValidRoi:
		cropped := cropTo(raw, f.roi)
		f.pushFrameBuffer(cropped)
		cropped.Close()
		f.refillTimer++
	}

	return f.transition(raw)
}

// fullFrame returns raw itself, the band covering the entire frame.
func (f *FSM) fullFrame(raw frame.Frame) frame.Frame {
	return raw
}

func cropTo(raw frame.Frame, roi image.Rectangle) frame.Frame {
	return frame.New(raw.Mat.Region(roi))
}

// actionMagnifyAndBuffer sends band to the worker pool, then pushes
// the resulting grayscale frame into the 3-frame ring buffer.
func (f *FSM) actionMagnifyAndBuffer(raw frame.Frame, band frame.Frame) error {
	out, err := f.pool.Process(band)
	if err != nil {
		return err
	}
	f.pushFrameBuffer(out)
	out.Mat.Close()
	return nil
}

// pushFrameBuffer stores a grayscale copy of fr into the 3-frame ring
// buffer, evicting the oldest.
func (f *FSM) pushFrameBuffer(fr frame.Frame) {
	gray := gocv.NewMat()
	if fr.Mat.Channels() == 1 {
		fr.Mat.CopyTo(&gray)
	} else {
		gocv.CvtColor(fr.Mat, &gray, gocv.ColorBGRToGray)
	}

	if !f.frameBuffer[0].Empty() {
		f.frameBuffer[0].Close()
	}
	f.frameBuffer[0] = f.frameBuffer[1]
	f.frameBuffer[1] = f.frameBuffer[2]
	f.frameBuffer[2] = gray
	if f.frameCount < 3 {
		f.frameCount++
	}
}

func zero(m gocv.Mat) {
	z := gocv.NewMatWithSize(m.Rows(), m.Cols(), m.Type())
	defer z.Close()
	z.CopyTo(&m)
}

func orInto(dst, src gocv.Mat) {
	gocv.BitwiseOr(dst, src, &dst)
}

// transition evaluates the current state's transition condition using
// the FSM's pre-action state (i.e. the state Update was entered with)
// and performs any side effect, then advances f.state.
func (f *FSM) transition(raw frame.Frame) error {
	switch f.state {
	case Init:
		if f.initTimer >= f.params.FramesToSettle {
			f.initTimer = 0
			if f.params.Crop {
				f.state = MonitorMotion
				zero(f.accumulator)
			} else {
				f.state = Idle
			}
		}

	case Reset:
		if f.initTimer >= f.params.FramesToSettle {
			f.initTimer = 0
			f.state = MonitorMotion
			zero(f.accumulator)
		}

	case Idle:
		if f.validTimer >= f.params.RoiUpdateInterval {
			f.validTimer = 0
			if f.params.Crop {
				f.state = Reset
				if err := f.reinitializeWorkers(raw.Width, raw.Height); err != nil {
					return err
				}
			}
		}

	case MonitorMotion:
		if f.roiTimer >= f.params.RoiWindow {
			f.roiTimer = 0
			f.state = ComputeRoi
		}

	case ComputeRoi:
		f.state = ValidRoi

	case ValidRoi:
		if f.refillTimer >= 3 {
			f.refillTimer = 0
			f.state = Idle
			if err := f.reinitializeWorkers(f.roi.Dx(), f.roi.Dy()); err != nil {
				return err
			}
		}
	}
	return nil
}

// reinitializeWorkers drops every worker's pyramid state; the next
// frame each worker sees (at the new band size) reseeds it.
func (f *FSM) reinitializeWorkers(width, height int) error {
	f.pool.Reinitialize()
	return nil
}
