/*
DESCRIPTION
  camera.go provides CameraSource, a Source implementation for a live
  camera, wrapping gocv.OpenVideoCapture by device index. Format
  negotiation and buffer rotation are gocv/V4L2's concern, kept a thin
  adapter per the non-goals around driver internals.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package device

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ausocean/breathcam/config"
	"github.com/ausocean/breathcam/frame"
	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"
)

// CameraSource is a Source implementation backed by a live camera.
type CameraSource struct {
	id            int
	width, height int
	log           logging.Logger
	cap           *gocv.VideoCapture
	isRunning     bool
	set           bool
	mu            sync.Mutex
}

// NewCameraSource returns a new CameraSource.
func NewCameraSource(l logging.Logger) *CameraSource { return &CameraSource{log: l} }

// Name returns "Camera".
func (s *CameraSource) Name() string { return "Camera" }

// Set takes the camera index and requested capture size from c.
func (s *CameraSource) Set(c config.Config) error {
	s.id = c.CameraID
	s.width = int(c.Width)
	s.height = int(c.Height)
	s.set = true
	return nil
}

// Start opens the camera device and requests the configured capture
// size (the device may not honor it exactly).
func (s *CameraSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return errors.New("device: CameraSource has not been set with config")
	}
	cap, err := gocv.OpenVideoCapture(s.id)
	if err != nil {
		return fmt.Errorf("device: could not open camera %d: %w", s.id, err)
	}
	if s.width > 0 {
		cap.Set(gocv.VideoCaptureFrameWidth, float64(s.width))
	}
	if s.height > 0 {
		cap.Set(gocv.VideoCaptureFrameHeight, float64(s.height))
	}
	s.cap = cap
	s.isRunning = true
	return nil
}

// Stop closes the underlying capture; further Reads fail.
func (s *CameraSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isRunning = false
	if s.cap == nil {
		return nil
	}
	return s.cap.Close()
}

// Read captures the next frame. A camera read failure is a hard I/O
// error (SourceRead), not a normal end-of-stream.
func (s *CameraSource) Read() (frame.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cap == nil {
		return frame.Frame{}, errors.New("device: CameraSource is closed, not started")
	}
	mat := gocv.NewMat()
	if !s.cap.Read(&mat) || mat.Empty() {
		mat.Close()
		return frame.Frame{}, fmt.Errorf("device: camera read failed: %w", io.ErrUnexpectedEOF)
	}
	return frame.New(mat), nil
}

// IsRunning reports whether the source is between Start and Stop.
func (s *CameraSource) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cap != nil && s.isRunning
}
