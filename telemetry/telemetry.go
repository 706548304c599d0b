/*
DESCRIPTION
  telemetry.go defines the scalar telemetry stream emitted once per
  processed frame, and an optional strip-chart dump for offline
  review of a session's breathing-rate trace.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package telemetry defines the scalar-sample stream the monitor
// emits per frame, and a gonum/plot-backed strip-chart dump written
// by the CLI when its --chart flag is set.
package telemetry

import (
	"fmt"
	"image/color"
	"time"

	"github.com/ausocean/breathcam/motion"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Sample is one frame's worth of scalar telemetry.
type Sample struct {
	Time          time.Time
	State         motion.State
	BreathingRate float64
	RoiArea       int
	AlarmPending  bool
}

// Recorder accumulates Samples across a session for an end-of-run
// strip-chart dump.
type Recorder struct {
	start   time.Time
	samples []Sample
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Add appends s to the recorded session.
func (r *Recorder) Add(s Sample) {
	if len(r.samples) == 0 {
		r.start = s.Time
	}
	r.samples = append(r.samples, s)
}

// WriteChart renders the recorded breathing-rate trace to a PNG at
// path.
func (r *Recorder) WriteChart(path string) error {
	p := plot.New()
	p.Title.Text = "breathing rate"
	p.X.Label.Text = "seconds"
	p.Y.Label.Text = "Hz"

	pts := make(plotter.XYs, len(r.samples))
	for i, s := range r.samples {
		pts[i].X = s.Time.Sub(r.start).Seconds()
		pts[i].Y = s.BreathingRate
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("telemetry: could not build line plot: %w", err)
	}
	line.Color = color.RGBA{R: 200, A: 255}
	p.Add(line)

	return p.Save(8*vg.Inch, 3*vg.Inch, path)
}
