/*
DESCRIPTION
  config.go defines Config, the central configuration struct for the
  breathing-rate monitor, covering every key enumerated in the
  external-interfaces configuration table, modeled on
  revid/config/config.go.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config defines the breathing-rate monitor's configuration:
// a Config struct with one field per recognized option, and a
// Variables table driving both validation/defaulting and external
// (string-keyed) reconfiguration, in the style of revid's own config
// package.
package config

import (
	"fmt"

	"github.com/ausocean/utils/logging"
)

// Input source enum values.
const (
	InputFile uint8 = iota
	InputCamera
)

// Config holds every recognized configuration option of the
// breathing-rate monitor.
type Config struct {
	Logger logging.Logger

	// Frame source.
	Input     uint8  // InputFile or InputCamera; mutually exclusive per-field below.
	InputPath string // file path, when Input == InputFile.
	CameraID  int    // camera index, when Input == InputCamera.
	Loop      bool   // loop the file source at end-of-stream.

	Width, Height uint // requested capture dimensions.

	InputFPS float64 // expected input frame rate.
	FullFPS  float64 // full-frame processing clamp rate.
	CropFPS  float64 // cropped processing clamp rate.

	// Magnification.
	Alpha        float64 // phase gain, 0..100.
	Threshold    float64 // percentage of pi, 0..100.
	LowCutoff    float64 // Hz.
	HighCutoff   float64 // Hz.
	WorkerCount  uint    // number of row-band workers, default 3.

	// Motion detection / adaptive crop.
	ErodeDim          uint // morphology kernel size, >0.
	DilateDim         uint // morphology kernel size, >0.
	DiffThreshold     uint // grayscale delta threshold for DifferentialCollins.
	PixelThreshold    uint // min changed pixels, >=1.
	MotionDuration    uint // frames above threshold before "valid", >=1.
	FramesToSettle    uint // Init/Reset dwell, >=1.
	RoiWindow         uint // frames accumulated before ComputeRoi, >=1.
	RoiUpdateInterval uint // frames in Idle before re-cropping, >= RoiWindow.
	TimeToAlarm       uint // seconds, >1.
	Crop              bool // enable adaptive crop.

	// Debug toggles.
	ShowDiff          bool
	ShowMagnification bool
	PrintTimes        bool

	// Output.
	OutputPath string // optional sink file path.

	LogLevel int8
}

// Validate checks every field against Variables' Validate funcs,
// replacing out-of-range values with their defaults. An unset (zero)
// field is defaulted only where zero is outside its valid range.
func (c *Config) Validate() error {
	if c.InputPath != "" && c.Input == InputCamera {
		return fmt.Errorf("config: input and camera are mutually exclusive")
	}
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names to string
// values, parses each into its field's type, and assigns it.
func (c *Config) Update(vars map[string]string) {
	for _, v := range Variables {
		if value, ok := vars[v.Name]; ok && v.Update != nil {
			v.Update(c, value)
		}
	}
}

// LogInvalidField logs that name was bad or unset and def is being
// used instead.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
