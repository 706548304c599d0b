/*
DESCRIPTION
  dispatch.go implements the fixed worker pool and dispatcher: each
  frame is split into N contiguous row-bands, handed to N persistent
  workers (one magnifier engine each), and the replies are
  concatenated back into one frame in band order.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dispatch implements the fixed-size worker pool that
// parallelizes the Riesz-pyramid magnifier over row-bands of each
// frame, modeled on the row-goroutine split in the teacher's
// filter.Basic but using persistent, FIFO-fed workers instead of a
// goroutine-per-frame fan-out.
package dispatch

import (
	"fmt"
	"image"
	"sync"

	"github.com/ausocean/breathcam/frame"
	"github.com/ausocean/breathcam/magnify"
	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"
)

// used to indicate package in logging.
const pkg = "dispatch: "

// task is a unit of work submitted to a worker's inbox: a row-band
// view of the input frame plus the channel to deliver the result on.
type task struct {
	band  frame.Frame
	reply chan result
	stop  bool
}

type result struct {
	frame frame.Frame
	err   error
}

// Pool is a fixed-size pool of persistent workers, each owning one
// magnify.Engine. Workers are addressed by stable index so a worker's
// engine always sees the same band across frames, preserving
// per-band filter state.
type Pool struct {
	log     logging.Logger
	inboxes []chan task
	engines []*magnify.Engine
	wg      sync.WaitGroup
	stopped bool
}

// New starts a Pool of n workers, each wrapping newEngine().
func New(n int, newEngine func() *magnify.Engine, log logging.Logger) *Pool {
	p := &Pool{log: log}
	for i := 0; i < n; i++ {
		inbox := make(chan task)
		engine := newEngine()
		p.inboxes = append(p.inboxes, inbox)
		p.engines = append(p.engines, engine)
		p.wg.Add(1)
		go p.loop(i, inbox, engine)
	}
	return p
}

// loop is the worker goroutine body: pop a task, transform it, reply,
// or stop on the sentinel task.
func (p *Pool) loop(i int, inbox chan task, engine *magnify.Engine) {
	defer p.wg.Done()
	for t := range inbox {
		if t.stop {
			return
		}
		out, err := engine.Transform(t.band)
		t.reply <- result{frame: out, err: err}
	}
}

// N returns the number of workers in the pool.
func (p *Pool) N() int { return len(p.inboxes) }

// Reinitialize drops every worker engine's pyramid state so the next
// Process call reseeds it from the new band size; used on FSM crop
// transitions. The pool must have no in-flight frame.
func (p *Pool) Reinitialize() {
	for _, e := range p.engines {
		e.Reinitialize()
	}
}

// Process splits f into N contiguous row-bands, dispatches one to
// each worker by stable index, awaits all replies, and vertically
// concatenates them in band order.
func (p *Pool) Process(f frame.Frame) (frame.Frame, error) {
	n := len(p.inboxes)
	rows := f.Mat.Rows()

	replies := make([]chan result, n)
	bands := make([]gocv.Mat, n)
	for i := 0; i < n; i++ {
		r0 := rows * i / n
		r1 := rows * (i + 1) / n
		band := f.Mat.Region(image.Rect(0, r0, f.Mat.Cols(), r1))
		bands[i] = band

		reply := make(chan result, 1)
		replies[i] = reply
		p.inboxes[i] <- task{band: frame.New(band), reply: reply}
	}

	outBands := make([]gocv.Mat, n)
	for i := 0; i < n; i++ {
		r := <-replies[i]
		if r.err != nil {
			p.log.Warning(pkg+"band transform failed, returning input band unchanged", "band", i, "error", r.err)
			outBands[i] = bands[i].Clone()
			bands[i].Close()
			continue
		}
		bands[i].Close()
		outBands[i] = r.frame.Mat
	}

	out := gocv.NewMat()
	if err := gocv.Vconcat(outBands, &out); err != nil {
		return frame.Frame{}, fmt.Errorf("%sconcat failed: %w", pkg, err)
	}
	for _, b := range outBands {
		b.Close()
	}

	return frame.New(out), nil
}

// Stop sends the Stop sentinel to every worker's inbox, joins all
// worker goroutines, and only then releases each worker's pyramid
// Mats; an in-flight frame completes first since Process already
// drained all replies before Stop is called.
func (p *Pool) Stop() {
	if p.stopped {
		return
	}
	p.stopped = true
	for _, inbox := range p.inboxes {
		inbox <- task{stop: true}
		close(inbox)
	}
	p.wg.Wait()
	for _, e := range p.engines {
		e.Reinitialize()
	}
}
