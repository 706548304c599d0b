/*
DESCRIPTION
  alarm.go provides the Sounder interface and a logging-backed stub
  implementation standing in for the audio alarm toolkit, which is an
  external collaborator out of this system's scope.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package alarm provides the audio-adapter collaborator interface the
// motion FSM signals on sustained motion absence.
package alarm

import (
	"sync/atomic"

	"github.com/ausocean/utils/logging"
)

// Sounder is implemented by audio-alarm collaborators. PlayAlarm is
// non-blocking and idempotent while a sound is already in flight.
type Sounder interface {
	PlayAlarm()
}

// LogSounder is a Sounder that logs at Warning level instead of
// driving real audio hardware; it tracks in-flight state with an
// atomic flag so PlayAlarm stays idempotent and non-blocking.
type LogSounder struct {
	log     logging.Logger
	playing int32
}

// NewLogSounder returns a LogSounder that logs through log.
func NewLogSounder(log logging.Logger) *LogSounder {
	return &LogSounder{log: log}
}

// PlayAlarm logs a single alarm warning; repeated calls while the
// previous one is "in flight" (until Done is called) are no-ops.
func (s *LogSounder) PlayAlarm() {
	if !atomic.CompareAndSwapInt32(&s.playing, 0, 1) {
		return
	}
	s.log.Warning("alarm: no motion detected")
}

// Done clears the in-flight flag, allowing the next PlayAlarm call to
// log again. Callers that have no natural "sound finished" signal may
// call Done immediately after PlayAlarm returns.
func (s *LogSounder) Done() {
	atomic.StoreInt32(&s.playing, 0)
}
