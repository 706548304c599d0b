/*
DESCRIPTION
  monitor.go provides Monitor, the top-level orchestration type that
  wires the frame source, worker pool, motion FSM and telemetry into a
  single running session, modeled on revid.Revid's lifecycle methods
  (New/Start/Stop/Running/Update).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package monitor wires the frame-source adapter, the Riesz-pyramid
// worker pool, the motion-detection FSM and the telemetry recorder
// into one running breathing-rate-monitor session.
package monitor

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/ausocean/breathcam/alarm"
	"github.com/ausocean/breathcam/config"
	"github.com/ausocean/breathcam/device"
	"github.com/ausocean/breathcam/dispatch"
	"github.com/ausocean/breathcam/magnify"
	"github.com/ausocean/breathcam/motion"
	"github.com/ausocean/breathcam/pyramid"
	"github.com/ausocean/breathcam/telemetry"
)

// Monitor provides methods to control a breathing-rate-monitor
// session: start, stop, and inspect state via the Config struct.
type Monitor struct {
	cfg config.Config

	source device.Source
	sink   device.Sink

	pool *dispatch.Pool
	fsm  *motion.FSM
	fps  *motion.FPSEstimator

	rec *telemetry.Recorder

	running bool
	wg      sync.WaitGroup
	err     chan error
	stop    chan struct{}
}

// New constructs a Monitor from c. It does not start capturing; call
// Start for that.
func New(c config.Config) (*Monitor, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("monitor: invalid config: %w", err)
	}

	var source device.Source
	switch c.Input {
	case config.InputCamera:
		source = device.NewCameraSource(c.Logger)
	default:
		source = device.NewFileSource(c.Logger)
	}
	if err := source.Set(c); err != nil {
		return nil, fmt.Errorf("monitor: could not configure source: %w", err)
	}

	band, err := pyramid.NewBandPass(c.InputFPS, c.LowCutoff, c.HighCutoff)
	if err != nil {
		return nil, fmt.Errorf("monitor: could not design band-pass: %w", err)
	}

	pool := dispatch.New(int(c.WorkerCount), func() *magnify.Engine {
		return magnify.NewEngine(band, c.Alpha, c.Threshold)
	}, c.Logger)

	sound := alarm.NewLogSounder(c.Logger)
	fsm := motion.New(pool, sound, motion.Params{
		Crop:              c.Crop,
		ErodeDim:          int(c.ErodeDim),
		DilateDim:         int(c.DilateDim),
		DiffThreshold:     int(c.DiffThreshold),
		PixelThreshold:    int(c.PixelThreshold),
		MotionDuration:    int(c.MotionDuration),
		FramesToSettle:    int(c.FramesToSettle),
		RoiWindow:         int(c.RoiWindow),
		RoiUpdateInterval: int(c.RoiUpdateInterval),
		TimeToAlarm:       time.Duration(c.TimeToAlarm) * time.Second,
		FrameWidth:        int(c.Width),
		FrameHeight:       int(c.Height),
	}, c.Logger)

	m := &Monitor{
		cfg:    c,
		source: source,
		pool:   pool,
		fsm:    fsm,
		fps:    motion.NewFPSEstimator(c.InputFPS, c.Logger),
		rec:    telemetry.NewRecorder(),
		err:    make(chan error),
	}

	if c.OutputPath != "" {
		sink, err := device.NewFileSink(c.OutputPath, c.InputFPS, image.Point{X: int(c.Width), Y: int(c.Height)})
		if err != nil {
			return nil, fmt.Errorf("monitor: could not open sink: %w", err)
		}
		m.sink = sink
	}

	return m, nil
}

// Recorder returns the session's telemetry recorder.
func (m *Monitor) Recorder() *telemetry.Recorder { return m.rec }

// Running reports whether the monitor is between Start and Stop.
func (m *Monitor) Running() bool { return m.running }

// Start opens the frame source and begins the process loop.
func (m *Monitor) Start() error {
	if m.running {
		m.cfg.Logger.Warning("monitor: start called, but already running")
		return nil
	}
	if err := m.source.Start(); err != nil {
		return fmt.Errorf("monitor: could not start source: %w", err)
	}
	m.stop = make(chan struct{})
	m.running = true
	m.wg.Add(1)
	go m.run()
	return nil
}

// Stop ends the process loop, closes the source and sink, and drains
// the worker pool.
func (m *Monitor) Stop() {
	if !m.running {
		m.cfg.Logger.Warning("monitor: stop called but not running")
		return
	}
	close(m.stop)
	m.wg.Wait()

	if err := m.source.Stop(); err != nil {
		m.cfg.Logger.Error("monitor: could not stop source", "error", err.Error())
	}
	if m.sink != nil {
		if err := m.sink.Close(); err != nil {
			m.cfg.Logger.Error("monitor: could not close sink", "error", err.Error())
		}
	}
	m.pool.Stop()
	m.fsm.Close()

	m.running = false
}

// Errors returns the channel fatal processing errors are delivered on.
func (m *Monitor) Errors() <-chan error { return m.err }

// run is the process loop: read a frame, run it through the FSM,
// write to the sink, record telemetry, repeat until stop or
// end-of-stream.
func (m *Monitor) run() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stop:
			return
		default:
		}

		f, err := m.source.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			select {
			case m.err <- fmt.Errorf("monitor: source read failed: %w", err):
			case <-m.stop:
			}
			return
		}

		now := time.Now()
		m.fps.Observe(now)

		if err := m.fsm.Update(now, f); err != nil {
			f.Mat.Close()
			select {
			case m.err <- fmt.Errorf("monitor: fsm update failed: %w", err):
			case <-m.stop:
			}
			return
		}

		if m.sink != nil {
			if err := m.sink.Write(f); err != nil {
				m.cfg.Logger.Error("monitor: sink write failed", "error", err.Error())
			}
		}

		m.rec.Add(telemetry.Sample{
			Time:          now,
			State:         m.fsm.State(),
			BreathingRate: m.fsm.BreathingRate(),
			RoiArea:       m.fsm.Roi().Dx() * m.fsm.Roi().Dy(),
			AlarmPending:  m.fsm.AlarmPending(),
		})

		f.Mat.Close()
	}
}
