/*
DESCRIPTION
  device.go provides Source, an interface describing a configurable
  frame-source device that can be started and stopped and from which
  frames may be read, adapted from the teacher's AVDevice/io.Reader
  pattern to this system's frame.Frame domain.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package device provides the frame-source and frame-sink adapters:
// thin collaborators over gocv's VideoCapture/VideoWriter that hand
// the core a frame iterator, per the external-interfaces contract.
package device

import (
	"fmt"

	"github.com/ausocean/breathcam/config"
	"github.com/ausocean/breathcam/frame"
)

// Source describes a configurable frame source that can be started
// and stopped and from which frames can be read. Read returns io.EOF
// at end-of-stream (transient EOF on a looping source instead loops
// and returns the next frame).
type Source interface {
	// Name returns the name of the Source.
	Name() string

	// Set configures the Source from c. An implementation specifies
	// which fields it considers.
	Set(c config.Config) error

	// Start begins capturing; Read may be called after Start returns.
	Start() error

	// Stop ends capturing; further Reads fail.
	Stop() error

	// Read returns the next frame, or io.EOF at end-of-stream.
	Read() (frame.Frame, error)

	// IsRunning reports whether the Source is between Start and Stop.
	IsRunning() bool
}

// Sink describes an optional frame-sink collaborator; the FSM does
// not require one.
type Sink interface {
	Write(f frame.Frame) error
	Close() error
}

// MultiError collects multiple errors during Source configuration
// validation, in the style of the teacher's own MultiError.
type MultiError []error

func (me MultiError) Error() string {
	if len(me) == 0 {
		panic("device: invalid use of MultiError")
	}
	return fmt.Sprintf("%v", []error(me))
}
