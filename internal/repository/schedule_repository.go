package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/presensia/presensia-backend/internal/model"
)

// ScheduleRepository handles schedule data access.
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// GetByID retrieves a single schedule. Returns pgx.ErrNoRows if absent.
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	s := &model.Schedule{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, subject, teacher_name, start_time, end_time, status, mode, created_at
		 FROM schedules
		 WHERE id = $1`, id,
	).Scan(&s.ID, &s.Subject, &s.TeacherName, &s.StartTime, &s.EndTime, &s.Status, &s.Mode, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new schedule with active status.
func (r *ScheduleRepository) Create(ctx context.Context, s *model.Schedule) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO schedules (subject, teacher_name, start_time, end_time, status, mode)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		s.Subject, s.TeacherName, s.StartTime.UTC(), s.EndTime.UTC(), model.ScheduleStatusActive, s.Mode,
	).Scan(&s.ID, &s.CreatedAt)
}

// ListActive returns schedules that have not yet passed their end instant and
// still carry active status, ordered by start time ascending.
func (r *ScheduleRepository) ListActive(ctx context.Context, now time.Time) ([]model.Schedule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, subject, teacher_name, start_time, end_time, status, mode, created_at
		 FROM schedules
		 WHERE end_time >= $1 AND status = $2
		 ORDER BY start_time ASC`, now.UTC(), model.ScheduleStatusActive,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []model.Schedule
	for rows.Next() {
		var s model.Schedule
		if err := rows.Scan(&s.ID, &s.Subject, &s.TeacherName, &s.StartTime, &s.EndTime, &s.Status, &s.Mode, &s.CreatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// UpdateStatus sets the schedule status and reports how many rows changed.
// Ending an already-ended schedule modifies zero rows.
func (r *ScheduleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ScheduleStatus) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE schedules SET status = $1 WHERE id = $2 AND status <> $1`, status, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
