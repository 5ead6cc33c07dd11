package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/presensia/presensia-backend/internal/metrics"
)

// SessionSnapshot is the registry's cache entry: the schedule summary
// captured when a session was started. It is a display cache only; timing
// and status decisions always come from the store, never from here.
type SessionSnapshot struct {
	ScheduleID  uuid.UUID `json:"schedule_id"`
	Subject     string    `json:"subject"`
	TeacherName string    `json:"teacher_name"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	StartedAt   time.Time `json:"started_at"`
}

// Registry is the process-wide table of started sessions, keyed by schedule
// id. It is created at service start, mutated only through session start and
// end, and torn down with the process. All access goes through the mutex;
// contention is rare (one write per session lifecycle transition).
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]SessionSnapshot
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]SessionSnapshot)}
}

// Put stores or replaces the snapshot for a schedule.
func (r *Registry) Put(snap SessionSnapshot) {
	r.mu.Lock()
	r.sessions[snap.ScheduleID] = snap
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()
}

// Get returns the snapshot for a schedule, if the session was started.
func (r *Registry) Get(scheduleID uuid.UUID) (SessionSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.sessions[scheduleID]
	return snap, ok
}

// Len returns the number of started sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Delete removes the snapshot for a schedule, reporting whether it existed.
func (r *Registry) Delete(scheduleID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[scheduleID]
	if ok {
		delete(r.sessions, scheduleID)
		metrics.ActiveSessions.Set(float64(len(r.sessions)))
	}
	return ok
}
