package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/presensia/presensia-backend/internal/config"
	"github.com/presensia/presensia-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisAttendancePublisher pushes attendance events onto the per-schedule
// Redis Pub/Sub channel consumed by the SSE monitor.
type RedisAttendancePublisher struct {
	rdb *redis.Client
}

// NewRedisAttendancePublisher creates a publisher.
func NewRedisAttendancePublisher(rdb *redis.Client) *RedisAttendancePublisher {
	return &RedisAttendancePublisher{rdb: rdb}
}

// PublishAttendance marshals the entry and publishes it. Nobody listening is
// not an error; Pub/Sub simply drops the message.
func (p *RedisAttendancePublisher) PublishAttendance(ctx context.Context, scheduleID uuid.UUID, entry model.AttendanceEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal attendance event: %w", err)
	}
	return p.rdb.Publish(ctx, config.CacheKey.AttendanceChannel(scheduleID.String()), payload).Err()
}
