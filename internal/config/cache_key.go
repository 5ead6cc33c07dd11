package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// OperatorSessionKey returns the cache key holding an operator's active JWT id.
func (r *CacheKeyStruct) OperatorSessionKey(operatorID int) string {
	return fmt.Sprintf("login:operator:%d", operatorID)
}

// AttendanceChannel returns the Redis PubSub channel carrying live attendance
// events for a schedule's monitor.
func (r *CacheKeyStruct) AttendanceChannel(scheduleID string) string {
	return fmt.Sprintf("schedule:%s:attendance", scheduleID)
}

var CacheKey = NewCacheKeyStruct()
