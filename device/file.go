/*
DESCRIPTION
  file.go provides FileSource, a Source implementation for media
  files, wrapping gocv.VideoCaptureFile. Adapted from the teacher's
  device/file AVFile, whose loop-on-EOF Seek idiom is reproduced here
  against a decoded video file instead of a raw byte stream.

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

// FileSource is a Source implementation backed by a decoded video
// file.
type FileSource struct {
	path      string
	loop      bool
	log       logging.Logger
	cap       *gocv.VideoCapture
	isRunning bool
	set       bool
	mu        sync.Mutex
}

// NewFileSource returns a new FileSource.
func NewFileSource(l logging.Logger) *FileSource { return &FileSource{log: l} }

// Name returns "File".
func (s *FileSource) Name() string { return "File" }

// Set takes the file path and loop flag from c.
func (s *FileSource) Set(c config.Config) error {
	s.path = c.InputPath
	s.loop = c.Loop
	s.set = true
	return nil
}

// Start opens the file at s.path.
func (s *FileSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return errors.New("device: FileSource has not been set with config")
	}
	cap, err := gocv.VideoCaptureFile(s.path)
	if err != nil {
		return fmt.Errorf("device: could not open media file: %w", err)
	}
	s.cap = cap
	s.isRunning = true
	return nil
}

// Stop closes the underlying capture; further Reads fail.
func (s *FileSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isRunning = false
	if s.cap == nil {
		return nil
	}
	return s.cap.Close()
}

// Read decodes the next frame. At end-of-stream, if loop is set, it
// seeks back to the first frame and retries once; otherwise it
// returns io.EOF.
func (s *FileSource) Read() (frame.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cap == nil {
		return frame.Frame{}, errors.New("device: FileSource is closed, not started")
	}

	mat := gocv.NewMat()
	ok := s.cap.Read(&mat)
	if !ok || mat.Empty() {
		mat.Close()
		if !s.loop {
			return frame.Frame{}, io.EOF
		}
		s.log.Info("looping input file")
		if !s.cap.Set(gocv.VideoCapturePosFrames, 0) {
			return frame.Frame{}, fmt.Errorf("device: could not seek to start of file for input loop")
		}
		mat = gocv.NewMat()
		if !s.cap.Read(&mat) || mat.Empty() {
			mat.Close()
			return frame.Frame{}, fmt.Errorf("device: could not read after start seek")
		}
	}
	return frame.New(mat), nil
}

// IsRunning reports whether the source is between Start and Stop.
func (s *FileSource) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cap != nil && s.isRunning
}
