/*
DESCRIPTION
  dispatch_test.go tests that Pool's row-band split/merge returns a
  frame of the input's size, and its Stop shutdown (worker join within
  a bounded time, idempotent on a second call).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dispatch

import (
	"testing"
	"time"

	"github.com/ausocean/breathcam/frame"
	"github.com/ausocean/breathcam/magnify"
	"github.com/ausocean/breathcam/pyramid"
	"gocv.io/x/gocv"
)

type dumbLogger struct{}

func (dumbLogger) Log(lvl int8, m string, a ...interface{}) {}
func (dumbLogger) SetLevel(lvl int8)                        {}
func (dumbLogger) Debug(msg string, args ...interface{})    {}
func (dumbLogger) Info(msg string, args ...interface{})     {}
func (dumbLogger) Warning(msg string, args ...interface{})  {}
func (dumbLogger) Error(msg string, args ...interface{})    {}
func (dumbLogger) Fatal(msg string, args ...interface{})    {}

func newTestEngine() *magnify.Engine {
	band, err := pyramid.NewBandPass(30, 0.5, 1.0)
	if err != nil {
		panic(err)
	}
	return magnify.NewEngine(band, 10, 50)
}

func newGrayFrame(rows, cols int, val uint8) frame.Frame {
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8U)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.SetUCharAt(r, c, val)
		}
	}
	return frame.New(m)
}

func TestProcessSplitsAndMergesToInputSize(t *testing.T) {
	const rows, cols = 18, 8
	p := New(3, newTestEngine, dumbLogger{})
	defer p.Stop()

	f := newGrayFrame(rows, cols, 77)
	defer f.Close()

	out, err := p.Process(f)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	defer out.Close()

	if out.Mat.Rows() != rows || out.Mat.Cols() != cols {
		t.Fatalf("got output size %dx%d, want %dx%d", out.Mat.Rows(), out.Mat.Cols(), rows, cols)
	}
}

func TestProcessIsStableAcrossRepeatedFrames(t *testing.T) {
	const rows, cols = 16, 16
	p := New(2, newTestEngine, dumbLogger{})
	defer p.Stop()

	for i := 0; i < 3; i++ {
		f := newGrayFrame(rows, cols, uint8(100+i))
		out, err := p.Process(f)
		if err != nil {
			t.Fatalf("Process iteration %d: %v", i, err)
		}
		if out.Mat.Rows() != rows || out.Mat.Cols() != cols {
			t.Fatalf("iteration %d: got output size %dx%d, want %dx%d", i, out.Mat.Rows(), out.Mat.Cols(), rows, cols)
		}
		f.Close()
		out.Close()
	}
}

func TestStopJoinsWorkersAndIsIdempotent(t *testing.T) {
	p := New(4, newTestEngine, dumbLogger{})

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return; workers may not have joined")
	}

	p.Stop() // must be a no-op, not a double-close panic
}
