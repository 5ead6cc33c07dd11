package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/presensia/presensia-backend/internal/model"
)

// memSchedules is an in-memory ScheduleStore.
type memSchedules struct {
	schedules map[uuid.UUID]*model.Schedule
	err       error
}

func (m *memSchedules) GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.schedules[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (m *memSchedules) Create(ctx context.Context, s *model.Schedule) error {
	if m.err != nil {
		return m.err
	}
	s.ID = uuid.New()
	s.CreatedAt = time.Now().UTC()
	m.schedules[s.ID] = s
	return nil
}

func (m *memSchedules) ListActive(ctx context.Context, now time.Time) ([]model.Schedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Schedule
	for _, s := range m.schedules {
		if s.Status == model.ScheduleStatusActive && !s.EndTime.Before(now) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSchedules) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ScheduleStatus) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	s, ok := m.schedules[id]
	if !ok || s.Status == status {
		return 0, nil
	}
	s.Status = status
	return 1, nil
}

type memEntries struct {
	entries map[uuid.UUID][]model.AttendanceEntry
}

func (m *memEntries) ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]model.AttendanceEntry, error) {
	return m.entries[scheduleID], nil
}

func newSessionFixture() (*SessionService, *memSchedules, *Registry) {
	schedules := &memSchedules{schedules: map[uuid.UUID]*model.Schedule{}}
	registry := NewRegistry()
	svc := NewSessionService(schedules, &memEntries{entries: map[uuid.UUID][]model.AttendanceEntry{}}, registry, zerolog.Nop())
	return svc, schedules, registry
}

func seedSchedule(schedules *memSchedules) *model.Schedule {
	now := time.Now().UTC()
	s := &model.Schedule{
		ID:          uuid.New(),
		Subject:     "Computer Networks",
		TeacherName: "Hendra Gunawan",
		StartTime:   now.Add(-time.Hour),
		EndTime:     now.Add(time.Hour),
		Status:      model.ScheduleStatusActive,
	}
	schedules.schedules[s.ID] = s
	return s
}

func TestStartSession(t *testing.T) {
	svc, schedules, registry := newSessionFixture()
	sched := seedSchedule(schedules)

	snap, err := svc.StartSession(context.Background(), sched.ID)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if snap.Subject != sched.Subject {
		t.Errorf("snapshot subject = %q, want %q", snap.Subject, sched.Subject)
	}
	if _, ok := registry.Get(sched.ID); !ok {
		t.Error("started session missing from registry")
	}
}

func TestStartSessionUnknownSchedule(t *testing.T) {
	svc, _, registry := newSessionFixture()

	_, err := svc.StartSession(context.Background(), uuid.New())
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("StartSession() error = %v, want ErrScheduleNotFound", err)
	}
	if registry.Len() != 0 {
		t.Error("registry must stay empty when the schedule does not exist")
	}
}

func TestEndSession(t *testing.T) {
	svc, schedules, registry := newSessionFixture()
	sched := seedSchedule(schedules)

	if _, err := svc.StartSession(context.Background(), sched.ID); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	if err := svc.EndSession(context.Background(), sched.ID); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	if schedules.schedules[sched.ID].Status != model.ScheduleStatusEnded {
		t.Error("schedule status not flipped to ended")
	}
	if _, ok := registry.Get(sched.ID); ok {
		t.Error("ended session still present in registry")
	}

	// Ending twice reports the session as gone.
	if err := svc.EndSession(context.Background(), sched.ID); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("second EndSession() error = %v, want ErrSessionEnded", err)
	}
}

func TestEndSessionUnknownSchedule(t *testing.T) {
	svc, _, _ := newSessionFixture()

	if err := svc.EndSession(context.Background(), uuid.New()); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("EndSession() error = %v, want ErrSessionEnded", err)
	}
}

func TestCreateScheduleRejectsInvertedWindow(t *testing.T) {
	svc, _, _ := newSessionFixture()
	now := time.Now().UTC()

	_, err := svc.CreateSchedule(context.Background(), model.CreateScheduleRequest{
		Subject:     "Mathematics",
		TeacherName: "Maya Septiana",
		StartTime:   now.Add(time.Hour),
		EndTime:     now,
	})
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("CreateSchedule() error = %v, want ErrInvalidWindow", err)
	}
}

func TestCreateScheduleDefaults(t *testing.T) {
	svc, _, _ := newSessionFixture()
	now := time.Now().UTC()

	sched, err := svc.CreateSchedule(context.Background(), model.CreateScheduleRequest{
		Subject:     "Mathematics",
		TeacherName: "Maya Septiana",
		StartTime:   now,
		EndTime:     now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateSchedule() error = %v", err)
	}
	if sched.Status != model.ScheduleStatusActive {
		t.Errorf("status = %s, want active", sched.Status)
	}
	if sched.Mode != "Offline" {
		t.Errorf("mode = %q, want Offline default", sched.Mode)
	}
	if sched.ID == uuid.Nil {
		t.Error("schedule ID not assigned")
	}
}

func TestSnapshotReportsDeletedSchedule(t *testing.T) {
	svc, schedules, _ := newSessionFixture()
	sched := seedSchedule(schedules)

	if _, ok, err := svc.Snapshot(context.Background(), sched.ID); err != nil || !ok {
		t.Fatalf("Snapshot() = (ok=%t, err=%v), want existing schedule", ok, err)
	}

	delete(schedules.schedules, sched.ID)
	if _, ok, err := svc.Snapshot(context.Background(), sched.ID); err != nil || ok {
		t.Fatalf("Snapshot() after delete = (ok=%t, err=%v), want (false, nil)", ok, err)
	}

	schedules.err = errors.New("connection refused")
	if _, _, err := svc.Snapshot(context.Background(), sched.ID); err == nil {
		t.Fatal("Snapshot() with store fault should return an error")
	}
}
