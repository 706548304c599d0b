/*
DESCRIPTION
  config_test.go provides testing for the Config struct methods
  (Validate and Update).

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
	"testing"

	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestValidate(t *testing.T) {
	dl := &dumbLogger{}

	// InputFPS, FullFPS, CropFPS, Alpha and Threshold stay 0: zero is
	// inside each of their valid ranges, so Validate keeps it.
	want := Config{
		Logger:            dl,
		Width:             defaultWidth,
		Height:            defaultHeight,
		InputFPS:          0,
		FullFPS:           0,
		CropFPS:           0,
		Alpha:             0,
		Threshold:         0,
		LowCutoff:         defaultLowCutoff,
		HighCutoff:        defaultHighCutoff,
		ErodeDim:          defaultErodeDim,
		DilateDim:         defaultDilateDim,
		PixelThreshold:    defaultPixelThreshold,
		MotionDuration:    defaultMotionDuration,
		FramesToSettle:    defaultFramesToSettle,
		RoiWindow:         defaultRoiWindow,
		RoiUpdateInterval: defaultRoiUpdateInterval,
		TimeToAlarm:       defaultTimeToAlarm,
		WorkerCount:       defaultWorkerCount,
		LogLevel:          defaultVerbosity,
	}

	got := Config{Logger: dl}
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate returned unexpected error: %v", err)
	}

	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestValidateRejectsBothInputs(t *testing.T) {
	c := Config{Logger: &dumbLogger{}, InputPath: "video.mp4", CameraID: 1, Input: InputCamera}
	if err := c.Validate(); err == nil {
		t.Error("Validate() = nil, want error for mutually exclusive input/camera")
	}
}

func TestValidateAllowsFileInputWithDefaultCameraIndex(t *testing.T) {
	// CameraID's zero value means "default camera index," not "camera
	// explicitly selected"; Input (not CameraID) carries that signal.
	c := Config{Logger: &dumbLogger{}, InputPath: "video.mp4", CameraID: 0, Input: InputFile}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for file input with default camera index", err)
	}
}

func TestValidateOutOfRangeCutoffs(t *testing.T) {
	c := Config{Logger: &dumbLogger{}, LowCutoff: 2, HighCutoff: 1}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate returned unexpected error: %v", err)
	}
	if c.LowCutoff != defaultLowCutoff || c.HighCutoff != defaultHighCutoff {
		t.Errorf("got low=%v high=%v, want defaults low=%v high=%v",
			c.LowCutoff, c.HighCutoff, defaultLowCutoff, defaultHighCutoff)
	}
}

func TestUpdate(t *testing.T) {
	c := Config{Logger: &dumbLogger{}}
	c.Update(map[string]string{
		KeyInput:     "video.mp4",
		KeyWidth:     "800",
		KeyHeight:    "600",
		KeyAmplify:   "25",
		KeyCrop:      "true",
		KeyLowCutoff: "0.4",
	})

	if c.InputPath != "video.mp4" || c.Input != InputFile {
		t.Errorf("got InputPath=%q Input=%d, want video.mp4/InputFile", c.InputPath, c.Input)
	}
	if c.Width != 800 || c.Height != 600 {
		t.Errorf("got Width=%d Height=%d, want 800/600", c.Width, c.Height)
	}
	if c.Alpha != 25 {
		t.Errorf("got Alpha=%v, want 25", c.Alpha)
	}
	if !c.Crop {
		t.Error("got Crop=false, want true")
	}
	if c.LowCutoff != 0.4 {
		t.Errorf("got LowCutoff=%v, want 0.4", c.LowCutoff)
	}
}
