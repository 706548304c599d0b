/*
DESCRIPTION
  frame.go defines Frame, a thin wrapper around gocv.Mat carrying
  8-bit per-channel pixel data plus (width,height,stride), and the
  8-bit <-> float32 luma conversions that happen at the magnifier
  engine boundary.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frame defines the Frame data model shared by the
// dispatcher, magnifier and motion-detection FSM, and the 8-bit <->
// float32 luma conversions at the magnifier engine boundary.
package frame

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Frame wraps a gocv.Mat holding 8-bit BGR (or grayscale) pixel data.
type Frame struct {
	Mat    gocv.Mat
	Width  int
	Height int
	Stride int
}

// New wraps m as a Frame. m is not cloned; the caller retains
// ownership of its lifetime.
func New(m gocv.Mat) Frame {
	return Frame{
		Mat:    m,
		Width:  m.Cols(),
		Height: m.Rows(),
		Stride: m.Step(),
	}
}

// Clone returns a deep copy of f.
func (f Frame) Clone() Frame {
	return New(f.Mat.Clone())
}

// Close releases the frame's underlying Mat.
func (f Frame) Close() error { return f.Mat.Close() }

// ErrBadFrameType is returned when a frame has an unexpected number
// of channels or bit depth for the operation being attempted.
type ErrBadFrameType struct {
	Op       string
	Channels int
	Type     gocv.MatType
}

func (e *ErrBadFrameType) Error() string {
	return fmt.Sprintf("frame: %s: unexpected frame type (channels=%d type=%v)", e.Op, e.Channels, e.Type)
}

// Luma converts an 8-bit BGR or grayscale frame to a normalized
// float32 single-channel luma plane ([0,1]) and the YCrCb
// representation it was derived from (an empty Mat if the frame was
// already single channel). Both returned Mats are owned by the caller.
func Luma(f Frame) (luma gocv.Mat, ycc gocv.Mat, err error) {
	channels := f.Mat.Channels()
	switch channels {
	case 1:
		gray8 := f.Mat
		gray32 := gocv.NewMat()
		gray8.ConvertToWithParams(&gray32, gocv.MatTypeCV32F, 1.0/255.0, 0)
		return gray32, gocv.NewMat(), nil

	case 3:
		ycc = gocv.NewMat()
		gocv.CvtColor(f.Mat, &ycc, gocv.ColorBGRToYCrCb)

		channelsSplit := gocv.Split(ycc)
		defer func() {
			for i, c := range channelsSplit {
				if i != 0 {
					c.Close()
				}
			}
		}()
		y8 := channelsSplit[0]
		luma = gocv.NewMat()
		y8.ConvertToWithParams(&luma, gocv.MatTypeCV32F, 1.0/255.0, 0)
		return luma, ycc, nil

	default:
		return gocv.Mat{}, gocv.Mat{}, &ErrBadFrameType{Op: "Luma", Channels: channels, Type: f.Mat.Type()}
	}
}

// FromLuma rebuilds an 8-bit BGR frame from a processed float32 luma
// plane merged back with ycc's original chroma planes. ycc is
// consumed (closed); luma is not.
func FromLuma(luma gocv.Mat, ycc gocv.Mat) (Frame, error) {
	if ycc.Empty() {
		ycc.Close()
		y8 := gocv.NewMat()
		luma.ConvertToWithParams(&y8, gocv.MatTypeCV8U, 255.0, 0)
		return New(y8), nil
	}
	defer ycc.Close()

	split := gocv.Split(ycc)
	defer func() {
		for i, c := range split {
			if i != 0 {
				c.Close()
			}
		}
	}()

	y8 := gocv.NewMat()
	defer y8.Close()
	luma.ConvertToWithParams(&y8, gocv.MatTypeCV8U, 255.0, 0)

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge([]gocv.Mat{y8, split[1], split[2]}, &merged)

	bgr := gocv.NewMat()
	gocv.CvtColor(merged, &bgr, gocv.ColorYCrCbToBGR)
	return New(bgr), nil
}
