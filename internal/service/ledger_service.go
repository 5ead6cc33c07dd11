package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/presensia/presensia-backend/internal/model"
)

// PersonSource looks up registered identities. Satisfied by
// repository.PersonRepository; lookups return pgx.ErrNoRows when absent.
type PersonSource interface {
	GetByNameRole(ctx context.Context, name string, role model.Role) (*model.Person, error)
}

// AttendanceStore reads and writes attendance records. Satisfied by
// repository.AttendanceRepository.
type AttendanceStore interface {
	Find(ctx context.Context, personID, scheduleID uuid.UUID) (*model.AttendanceRecord, error)
	Insert(ctx context.Context, rec *model.AttendanceRecord) error
}

// AttendancePublisher fans a freshly recorded entry out to live monitors.
type AttendancePublisher interface {
	PublishAttendance(ctx context.Context, scheduleID uuid.UUID, entry model.AttendanceEntry) error
}

// LedgerService is the deduplicating attendance write path. Within one
// session's loop, calls arrive sequentially, so check-then-insert is safe;
// the unique index on (person_id, schedule_id) backstops the invariant if
// independent loops ever target the same schedule.
type LedgerService struct {
	people     PersonSource
	attendance AttendanceStore
	events     AttendancePublisher
	log        zerolog.Logger
}

// NewLedgerService creates a LedgerService. events may be nil when no live
// monitor is wired (tests, CLI tools).
func NewLedgerService(people PersonSource, attendance AttendanceStore, events AttendancePublisher, log zerolog.Logger) *LedgerService {
	return &LedgerService{
		people:     people,
		attendance: attendance,
		events:     events,
		log:        log.With().Str("component", "ledger").Logger(),
	}
}

// RecordPresence records that a detected identity was present during a
// schedule, at most once per (person, schedule) pair.
//
// The ledger, not the matcher, decides who is registered: the matcher may
// report a label for a face whose registration was since removed, or that
// only ever existed in the face corpus. Unknown identities are a recovered
// condition, not an error.
func (s *LedgerService) RecordPresence(ctx context.Context, name string, role model.Role, scheduleID uuid.UUID, detectedAt time.Time) (model.AttendanceOutcome, error) {
	person, err := s.people.GetByNameRole(ctx, name, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.OutcomeUnknownPerson, nil
		}
		return model.OutcomeStorageFailure, fmt.Errorf("lookup person: %w", err)
	}

	_, err = s.attendance.Find(ctx, person.ID, scheduleID)
	if err == nil {
		return model.OutcomeAlreadyRecorded, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.OutcomeStorageFailure, fmt.Errorf("lookup attendance: %w", err)
	}

	rec := &model.AttendanceRecord{
		PersonID:   person.ID,
		ScheduleID: scheduleID,
		Name:       person.Name,
		Role:       person.Role,
		DetectedAt: detectedAt,
	}
	if err := s.attendance.Insert(ctx, rec); err != nil {
		return model.OutcomeStorageFailure, fmt.Errorf("insert attendance: %w", err)
	}

	if s.events != nil {
		entry := model.AttendanceEntry{Name: rec.Name, Role: rec.Role, DetectedAt: rec.DetectedAt}
		if err := s.events.PublishAttendance(ctx, scheduleID, entry); err != nil {
			// Best effort: monitors poll-refresh anyway.
			s.log.Warn().Err(err).Msg("Attendance event publish failed")
		}
	}

	s.log.Info().
		Str("name", rec.Name).
		Str("role", string(rec.Role)).
		Str("schedule_id", scheduleID.String()).
		Msg("Presence recorded")

	return model.OutcomeRecorded, nil
}
