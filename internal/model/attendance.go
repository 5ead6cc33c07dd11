package model

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceOutcome is the result of one presence-recording attempt.
type AttendanceOutcome string

const (
	// OutcomeRecorded means a new record was written for this (person, schedule).
	OutcomeRecorded AttendanceOutcome = "RECORDED"
	// OutcomeAlreadyRecorded means a record already existed; nothing was written.
	OutcomeAlreadyRecorded AttendanceOutcome = "ALREADY_RECORDED"
	// OutcomeUnknownPerson means the matcher reported an identity that is not
	// registered; nothing was written.
	OutcomeUnknownPerson AttendanceOutcome = "UNKNOWN_PERSON"
	// OutcomeStorageFailure means a lookup or insert failed at the store.
	OutcomeStorageFailure AttendanceOutcome = "STORAGE_FAILURE"
)

// Message returns the overlay text rendered next to a recognized face.
func (o AttendanceOutcome) Message() string {
	switch o {
	case OutcomeRecorded:
		return "Marked Present!"
	case OutcomeAlreadyRecorded:
		return "Already Marked"
	case OutcomeUnknownPerson:
		return "Unregistered"
	default:
		return "Storage Error"
	}
}

// AttendanceRecord states that a person was present during a schedule.
// At most one record exists per (person, schedule) pair.
type AttendanceRecord struct {
	ID         uuid.UUID `json:"id"`
	PersonID   uuid.UUID `json:"person_id"`
	ScheduleID uuid.UUID `json:"schedule_id"`
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	DetectedAt time.Time `json:"detected_at"`
}

// AttendanceEntry is the read model returned to dashboards: who was seen and when.
type AttendanceEntry struct {
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	DetectedAt time.Time `json:"time"`
}
