/*
DESCRIPTION
  variables.go defines the Variables table driving Config.Validate and
  Config.Update, and the default values/parse helpers it uses,
  modeled on revid/config/variables.go.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
)

// Configuration key names, matching the external configuration table.
const (
	KeyInput             = "input"
	KeyCamera            = "camera"
	KeyWidth             = "width"
	KeyHeight            = "height"
	KeyInputFPS          = "input_fps"
	KeyFullFPS           = "full_fps"
	KeyCropFPS           = "crop_fps"
	KeyAmplify           = "amplify"
	KeyLowCutoff         = "low-cutoff"
	KeyHighCutoff        = "high-cutoff"
	KeyThreshold         = "threshold"
	KeyErodeDim          = "erode_dim"
	KeyDilateDim         = "dilate_dim"
	KeyDiffThreshold     = "diff_threshold"
	KeyPixelThreshold    = "pixel_threshold"
	KeyDuration          = "duration"
	KeyFramesToSettle    = "frames_to_settle"
	KeyRoiWindow         = "roi_window"
	KeyRoiUpdateInterval = "roi_update_interval"
	KeyTimeToAlarm       = "time_to_alarm"
	KeyCrop              = "crop"
	KeyShowDiff          = "show_diff"
	KeyShowMagnification = "show_magnification"
	KeyPrintTimes        = "print_times"
	KeyLoop              = "loop"
	KeyWorkerCount       = "worker_count"
	KeyLogging           = "logging"
)

// Default values, per the reference tuning.
const (
	defaultWidth             uint    = 640
	defaultHeight            uint    = 480
	defaultInputFPS          float64 = 30
	defaultFullFPS           float64 = 30
	defaultCropFPS           float64 = 30
	defaultAlpha             float64 = 10
	defaultThreshold         float64 = 25
	defaultLowCutoff         float64 = 0.5
	defaultHighCutoff        float64 = 1.0
	defaultErodeDim          uint    = 5
	defaultDilateDim         uint    = 10
	defaultDiffThreshold     uint    = 15
	defaultPixelThreshold    uint    = 50
	defaultMotionDuration    uint    = 2
	defaultFramesToSettle    uint    = 30
	defaultRoiWindow         uint    = 30
	defaultRoiUpdateInterval uint    = 300
	defaultTimeToAlarm       uint    = 20
	defaultWorkerCount       uint    = 3
	defaultVerbosity                 = logging.Info
)

// Variable binds a config key name to its Update (string -> field)
// and Validate (defaulting) functions.
type Variable struct {
	Name     string
	Type     string
	Update   func(c *Config, v string)
	Validate func(c *Config)
}

// Variables drives both Config.Validate and Config.Update.
var Variables = []Variable{
	{
		Name:   KeyInput,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v; c.Input = InputFile },
	},
	{
		Name:   KeyCamera,
		Type:   typeInt,
		Update: func(c *Config, v string) { c.CameraID = parseInt(KeyCamera, v, c); c.Input = InputCamera },
	},
	{
		Name:     KeyWidth,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.Width = parseUint(KeyWidth, v, c) },
		Validate: func(c *Config) { c.Width = boundUint(KeyWidth, c.Width, 320, 1920, c, defaultWidth) },
	},
	{
		Name:     KeyHeight,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.Height = parseUint(KeyHeight, v, c) },
		Validate: func(c *Config) { c.Height = boundUint(KeyHeight, c.Height, 240, 1080, c, defaultHeight) },
	},
	{
		Name:     KeyInputFPS,
		Type:     typeFloat,
		Update:   func(c *Config, v string) { c.InputFPS = parseFloat(KeyInputFPS, v, c) },
		Validate: func(c *Config) { c.InputFPS = boundFloat(KeyInputFPS, c.InputFPS, 0, 1000, c, defaultInputFPS) },
	},
	{
		Name:     KeyFullFPS,
		Type:     typeFloat,
		Update:   func(c *Config, v string) { c.FullFPS = parseFloat(KeyFullFPS, v, c) },
		Validate: func(c *Config) { c.FullFPS = boundFloat(KeyFullFPS, c.FullFPS, 0, 1000, c, defaultFullFPS) },
	},
	{
		Name:     KeyCropFPS,
		Type:     typeFloat,
		Update:   func(c *Config, v string) { c.CropFPS = parseFloat(KeyCropFPS, v, c) },
		Validate: func(c *Config) { c.CropFPS = boundFloat(KeyCropFPS, c.CropFPS, 0, 1000, c, defaultCropFPS) },
	},
	{
		Name:     KeyAmplify,
		Type:     typeFloat,
		Update:   func(c *Config, v string) { c.Alpha = parseFloat(KeyAmplify, v, c) },
		Validate: func(c *Config) { c.Alpha = boundFloat(KeyAmplify, c.Alpha, 0, 100, c, defaultAlpha) },
	},
	{
		Name:   KeyLowCutoff,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.LowCutoff = parseFloat(KeyLowCutoff, v, c) },
	},
	{
		Name:   KeyHighCutoff,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.HighCutoff = parseFloat(KeyHighCutoff, v, c) },
		Validate: func(c *Config) {
			if c.LowCutoff <= 0 {
				c.LowCutoff = defaultLowCutoff
			}
			if c.HighCutoff <= 0 {
				c.HighCutoff = defaultHighCutoff
			}
			if c.HighCutoff < c.LowCutoff {
				c.LowCutoff = defaultLowCutoff
				c.HighCutoff = defaultHighCutoff
			}
		},
	},
	{
		Name:     KeyThreshold,
		Type:     typeFloat,
		Update:   func(c *Config, v string) { c.Threshold = parseFloat(KeyThreshold, v, c) },
		Validate: func(c *Config) { c.Threshold = boundFloat(KeyThreshold, c.Threshold, 0, 100, c, defaultThreshold) },
	},
	{
		Name:     KeyErodeDim,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.ErodeDim = parseUint(KeyErodeDim, v, c) },
		Validate: func(c *Config) { c.ErodeDim = atLeastUint(KeyErodeDim, c.ErodeDim, 1, c, defaultErodeDim) },
	},
	{
		Name:     KeyDilateDim,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.DilateDim = parseUint(KeyDilateDim, v, c) },
		Validate: func(c *Config) { c.DilateDim = atLeastUint(KeyDilateDim, c.DilateDim, 1, c, defaultDilateDim) },
	},
	{
		Name:   KeyDiffThreshold,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.DiffThreshold = parseUint(KeyDiffThreshold, v, c) },
	},
	{
		Name:     KeyPixelThreshold,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.PixelThreshold = parseUint(KeyPixelThreshold, v, c) },
		Validate: func(c *Config) { c.PixelThreshold = atLeastUint(KeyPixelThreshold, c.PixelThreshold, 1, c, defaultPixelThreshold) },
	},
	{
		Name:     KeyDuration,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.MotionDuration = parseUint(KeyDuration, v, c) },
		Validate: func(c *Config) { c.MotionDuration = atLeastUint(KeyDuration, c.MotionDuration, 1, c, defaultMotionDuration) },
	},
	{
		Name:     KeyFramesToSettle,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.FramesToSettle = parseUint(KeyFramesToSettle, v, c) },
		Validate: func(c *Config) { c.FramesToSettle = atLeastUint(KeyFramesToSettle, c.FramesToSettle, 1, c, defaultFramesToSettle) },
	},
	{
		Name:     KeyRoiWindow,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.RoiWindow = parseUint(KeyRoiWindow, v, c) },
		Validate: func(c *Config) { c.RoiWindow = atLeastUint(KeyRoiWindow, c.RoiWindow, 1, c, defaultRoiWindow) },
	},
	{
		Name:   KeyRoiUpdateInterval,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.RoiUpdateInterval = parseUint(KeyRoiUpdateInterval, v, c) },
		Validate: func(c *Config) {
			if c.RoiUpdateInterval < c.RoiWindow {
				c.LogInvalidField(KeyRoiUpdateInterval, defaultRoiUpdateInterval)
				c.RoiUpdateInterval = defaultRoiUpdateInterval
			}
		},
	},
	{
		Name:     KeyTimeToAlarm,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.TimeToAlarm = parseUint(KeyTimeToAlarm, v, c) },
		Validate: func(c *Config) { c.TimeToAlarm = atLeastUint(KeyTimeToAlarm, c.TimeToAlarm, 2, c, defaultTimeToAlarm) },
	},
	{
		Name:   KeyCrop,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Crop = parseBool(KeyCrop, v, c) },
	},
	{
		Name:   KeyShowDiff,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.ShowDiff = parseBool(KeyShowDiff, v, c) },
	},
	{
		Name:   KeyShowMagnification,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.ShowMagnification = parseBool(KeyShowMagnification, v, c) },
	},
	{
		Name:   KeyPrintTimes,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.PrintTimes = parseBool(KeyPrintTimes, v, c) },
	},
	{
		Name:   KeyLoop,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Loop = parseBool(KeyLoop, v, c) },
	},
	{
		Name:     KeyWorkerCount,
		Type:     typeUint,
		Update:   func(c *Config, v string) { c.WorkerCount = parseUint(KeyWorkerCount, v, c) },
		Validate: func(c *Config) { c.WorkerCount = atLeastUint(KeyWorkerCount, c.WorkerCount, 1, c, defaultWorkerCount) },
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
}

// Type name constants for the Variable.Type field (documentation
// only; not consulted by Update/Validate).
const (
	typeString = "string"
	typeInt    = "int"
	typeUint   = "uint"
	typeBool   = "bool"
	typeFloat  = "float"
)

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseInt(n, v string, c *Config) int {
	_v, err := strconv.Atoi(v)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected integer for param %s", n), "value", v)
	}
	return _v
}

func parseFloat(n, v string, c *Config) float64 {
	_v, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected float for param %s", n), "value", v)
	}
	return _v
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expected bool for param %s", n), "value", v)
	}
	return
}

func atLeastUint(n string, v, min uint, c *Config, def uint) uint {
	if v < min {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}

func boundUint(n string, v, min, max uint, c *Config, def uint) uint {
	if v < min || v > max {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}

func boundFloat(n string, v, min, max float64, c *Config, def float64) float64 {
	if v < min || v > max {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}
