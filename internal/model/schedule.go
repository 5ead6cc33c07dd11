package model

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleStatus is the explicit, manually controlled lifecycle flag of a
// schedule. It is independent of the time bounds: a schedule past its end
// instant can still carry StatusActive, and an operator can end a schedule
// before its end instant. The transition is one-way, active → ended.
type ScheduleStatus string

const (
	ScheduleStatusActive ScheduleStatus = "active"
	ScheduleStatusEnded  ScheduleStatus = "ended"
)

// Schedule is one time-boxed class occurrence. Start and end are stored
// timezone-normalized to UTC and start <= end always holds.
type Schedule struct {
	ID          uuid.UUID      `json:"id"`
	Subject     string         `json:"subject"`
	TeacherName string         `json:"teacher_name"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time"`
	Status      ScheduleStatus `json:"status"`
	Mode        string         `json:"mode"`
	CreatedAt   time.Time      `json:"created_at"`
}

// CreateScheduleRequest is the payload for creating a class occurrence.
type CreateScheduleRequest struct {
	Subject     string    `json:"subject" binding:"required,min=2,max=100"`
	TeacherName string    `json:"teacher_name" binding:"required,min=2,max=100"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Mode        string    `json:"mode" binding:"omitempty,oneof=Offline Online"`
}
