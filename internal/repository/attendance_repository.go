package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/presensia/presensia-backend/internal/model"
)

// AttendanceRepository handles attendance record data access.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Find retrieves the record for a (person, schedule) pair.
// Returns pgx.ErrNoRows if the person has not been marked for this schedule.
func (r *AttendanceRepository) Find(ctx context.Context, personID, scheduleID uuid.UUID) (*model.AttendanceRecord, error) {
	rec := &model.AttendanceRecord{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, person_id, schedule_id, name, role, detected_at
		 FROM attendance_records
		 WHERE person_id = $1 AND schedule_id = $2`, personID, scheduleID,
	).Scan(&rec.ID, &rec.PersonID, &rec.ScheduleID, &rec.Name, &rec.Role, &rec.DetectedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Insert writes a new attendance record.
func (r *AttendanceRepository) Insert(ctx context.Context, rec *model.AttendanceRecord) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO attendance_records (person_id, schedule_id, name, role, detected_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		rec.PersonID, rec.ScheduleID, rec.Name, rec.Role, rec.DetectedAt.UTC(),
	).Scan(&rec.ID)
}

// ListBySchedule returns all entries for a schedule, most recent first.
func (r *AttendanceRepository) ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]model.AttendanceEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, role, detected_at
		 FROM attendance_records
		 WHERE schedule_id = $1
		 ORDER BY detected_at DESC`, scheduleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.AttendanceEntry
	for rows.Next() {
		var e model.AttendanceEntry
		if err := rows.Scan(&e.Name, &e.Role, &e.DetectedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
