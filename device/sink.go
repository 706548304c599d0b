/*
DESCRIPTION
  sink.go provides FileSink, an optional Sink implementation wrapping
  gocv.VideoWriter.

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
	"fmt"
	"image"

	"github.com/ausocean/breathcam/frame"
	"gocv.io/x/gocv"
)

// FileSink writes frames to a video file.
type FileSink struct {
	writer *gocv.VideoWriter
}

// NewFileSink opens path for writing at fps frames/sec and the given
// frame size, using the mp4v codec.
func NewFileSink(path string, fps float64, size image.Point) (*FileSink, error) {
	w, err := gocv.VideoWriterFile(path, "mp4v", fps, size.X, size.Y, true)
	if err != nil {
		return nil, fmt.Errorf("device: could not open sink file: %w", err)
	}
	return &FileSink{writer: w}, nil
}

// Write appends f to the sink file.
func (s *FileSink) Write(f frame.Frame) error {
	return s.writer.Write(f.Mat)
}

// Close flushes and closes the sink file.
func (s *FileSink) Close() error {
	return s.writer.Close()
}
