/*
DESCRIPTION
  alarm_test.go tests LogSounder's idempotent PlayAlarm/Done cycle.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package alarm

import "testing"

type countingLogger struct {
	warnings int
}

func (l *countingLogger) Log(lvl int8, m string, a ...interface{}) {}
func (l *countingLogger) SetLevel(lvl int8)                        {}
func (l *countingLogger) Debug(msg string, args ...interface{})    {}
func (l *countingLogger) Info(msg string, args ...interface{})     {}
func (l *countingLogger) Warning(msg string, args ...interface{})  { l.warnings++ }
func (l *countingLogger) Error(msg string, args ...interface{})    {}
func (l *countingLogger) Fatal(msg string, args ...interface{})    {}

func TestPlayAlarmIsIdempotentUntilDone(t *testing.T) {
	l := &countingLogger{}
	s := NewLogSounder(l)

	s.PlayAlarm()
	s.PlayAlarm()
	s.PlayAlarm()
	if l.warnings != 1 {
		t.Errorf("warnings = %d, want 1 for repeated PlayAlarm while pending", l.warnings)
	}

	s.Done()
	s.PlayAlarm()
	if l.warnings != 2 {
		t.Errorf("warnings = %d, want 2 after Done then PlayAlarm again", l.warnings)
	}
}
