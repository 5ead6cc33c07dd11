package stream

import (
	"testing"
	"time"

	"github.com/presensia/presensia-backend/internal/model"
)

func TestEvaluateWindow(t *testing.T) {
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		status model.ScheduleStatus
		now    time.Time
		want   SessionState
	}{
		{"before window", model.ScheduleStatusActive, start.Add(-time.Minute), StateNotStarted},
		{"inside window", model.ScheduleStatusActive, start.Add(time.Hour), StateActive},
		{"after window", model.ScheduleStatusActive, end.Add(time.Second), StateEndedByTime},
		{"exactly at start", model.ScheduleStatusActive, start, StateActive},
		{"exactly at end", model.ScheduleStatusActive, end, StateActive},
		{"manually ended inside window", model.ScheduleStatusEnded, start.Add(time.Hour), StateEndedManually},
		{"manually ended before window", model.ScheduleStatusEnded, start.Add(-time.Hour), StateEndedManually},
		{"manually ended after window", model.ScheduleStatusEnded, end.Add(time.Hour), StateEndedManually},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateWindow(start, end, tc.status, tc.now)
			if got != tc.want {
				t.Errorf("EvaluateWindow() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestBanner(t *testing.T) {
	cases := []struct {
		state SessionState
		want  string
	}{
		{StateActive, "ATTENDANCE ACTIVE"},
		{StateNotStarted, "ATTENDANCE NOT STARTED"},
		{StateEndedByTime, "ATTENDANCE ENDED"},
		{StateEndedManually, "ATTENDANCE ENDED"},
	}

	for _, tc := range cases {
		if got := tc.state.Banner(); got != tc.want {
			t.Errorf("%s.Banner() = %q, want %q", tc.state, got, tc.want)
		}
	}
}
