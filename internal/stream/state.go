// Package stream implements the per-session frame-processing loop: the time
// window gate, the recognition throttle, and the orchestration that turns a
// raw camera feed into an annotated attendance stream.
package stream

import (
	"time"

	"github.com/presensia/presensia-backend/internal/model"
)

// SessionState is the operational state of a session at one instant.
type SessionState string

const (
	StateNotStarted    SessionState = "NOT_STARTED"
	StateActive        SessionState = "ACTIVE"
	StateEndedByTime   SessionState = "ENDED_BY_TIME"
	StateEndedManually SessionState = "ENDED_MANUALLY"
)

// EvaluateWindow computes the session state from the schedule's time bounds,
// its explicit status flag, and the current time. The manual flag wins over
// the clock: a schedule ended by an operator is ended no matter what time it
// is. Both boundary instants count as Active.
func EvaluateWindow(start, end time.Time, status model.ScheduleStatus, now time.Time) SessionState {
	switch {
	case status != model.ScheduleStatusActive:
		return StateEndedManually
	case now.Before(start):
		return StateNotStarted
	case now.After(end):
		return StateEndedByTime
	default:
		return StateActive
	}
}

// Banner returns the overlay text rendered for this state. Manual and
// by-time endings render the same banner, matching what a viewer needs to
// know: whether detections are being taken.
func (s SessionState) Banner() string {
	switch s {
	case StateActive:
		return "ATTENDANCE ACTIVE"
	case StateNotStarted:
		return "ATTENDANCE NOT STARTED"
	default:
		return "ATTENDANCE ENDED"
	}
}
