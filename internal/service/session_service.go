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

// Session lifecycle errors surfaced to the transport layer.
var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrSessionEnded     = errors.New("session not found or already ended")
	ErrInvalidWindow    = errors.New("schedule start must not be after its end")
)

// ScheduleStore is the schedule access the session service needs. Satisfied
// by repository.ScheduleRepository.
type ScheduleStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
	Create(ctx context.Context, s *model.Schedule) error
	ListActive(ctx context.Context, now time.Time) ([]model.Schedule, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ScheduleStatus) (int64, error)
}

// AttendanceReader lists recorded entries. Satisfied by
// repository.AttendanceRepository.
type AttendanceReader interface {
	ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]model.AttendanceEntry, error)
}

// SessionService owns the session lifecycle: starting and ending sessions,
// the registry of started sessions, and the dashboard read paths.
type SessionService struct {
	schedules  ScheduleStore
	attendance AttendanceReader
	registry   *Registry
	log        zerolog.Logger
}

// NewSessionService creates a SessionService around an existing registry.
func NewSessionService(schedules ScheduleStore, attendance AttendanceReader, registry *Registry, log zerolog.Logger) *SessionService {
	return &SessionService{
		schedules:  schedules,
		attendance: attendance,
		registry:   registry,
		log:        log.With().Str("component", "session_service").Logger(),
	}
}

// StartSession validates that the schedule exists and caches its summary in
// the registry. Starting an already-started session refreshes the snapshot.
func (s *SessionService) StartSession(ctx context.Context, scheduleID uuid.UUID) (SessionSnapshot, error) {
	sched, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SessionSnapshot{}, ErrScheduleNotFound
		}
		return SessionSnapshot{}, fmt.Errorf("get schedule: %w", err)
	}

	snap := SessionSnapshot{
		ScheduleID:  sched.ID,
		Subject:     sched.Subject,
		TeacherName: sched.TeacherName,
		StartTime:   sched.StartTime.UTC(),
		EndTime:     sched.EndTime.UTC(),
		StartedAt:   time.Now().UTC(),
	}
	s.registry.Put(snap)

	s.log.Info().
		Str("schedule_id", sched.ID.String()).
		Str("subject", sched.Subject).
		Msg("Session started")

	return snap, nil
}

// EndSession flips the schedule status to ended (one-way) and drops the
// registry entry. Ending a missing or already-ended schedule returns
// ErrSessionEnded.
func (s *SessionService) EndSession(ctx context.Context, scheduleID uuid.UUID) error {
	modified, err := s.schedules.UpdateStatus(ctx, scheduleID, model.ScheduleStatusEnded)
	if err != nil {
		return fmt.Errorf("update schedule status: %w", err)
	}
	if modified == 0 {
		return ErrSessionEnded
	}

	s.registry.Delete(scheduleID)

	s.log.Info().Str("schedule_id", scheduleID.String()).Msg("Session ended")
	return nil
}

// GetSession returns the registry snapshot for a started session. Viewers
// landing on a dashboard without having started the session get ok=false.
func (s *SessionService) GetSession(scheduleID uuid.UUID) (SessionSnapshot, bool) {
	return s.registry.Get(scheduleID)
}

// CreateSchedule validates the time window and inserts a new schedule.
func (s *SessionService) CreateSchedule(ctx context.Context, req model.CreateScheduleRequest) (*model.Schedule, error) {
	if req.StartTime.After(req.EndTime) {
		return nil, ErrInvalidWindow
	}
	mode := req.Mode
	if mode == "" {
		mode = "Offline"
	}
	sched := &model.Schedule{
		Subject:     req.Subject,
		TeacherName: req.TeacherName,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		Status:      model.ScheduleStatusActive,
		Mode:        mode,
	}
	if err := s.schedules.Create(ctx, sched); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return sched, nil
}

// ListActiveSchedules returns schedules still worth showing on the setup
// page: active status and not yet past their end, soonest first.
func (s *SessionService) ListActiveSchedules(ctx context.Context, now time.Time) ([]model.Schedule, error) {
	schedules, err := s.schedules.ListActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// GetAttendance lists recorded entries for a schedule, most recent first.
func (s *SessionService) GetAttendance(ctx context.Context, scheduleID uuid.UUID) ([]model.AttendanceEntry, error) {
	entries, err := s.attendance.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return entries, nil
}

// Snapshot implements the frame loop's schedule source: the current row, or
// ok=false when the schedule was deleted out from under a running session.
func (s *SessionService) Snapshot(ctx context.Context, id uuid.UUID) (*model.Schedule, bool, error) {
	sched, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return sched, true, nil
}
