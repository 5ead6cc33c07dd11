package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/presensia/presensia-backend/internal/config"
	"github.com/presensia/presensia-backend/internal/middleware"
	"github.com/presensia/presensia-backend/internal/response"
	"github.com/presensia/presensia-backend/internal/service"
)

const keepAliveInterval = 30 * time.Second

// MonitorHandler streams live attendance events over SSE so a dashboard can
// show names the moment they are recorded, without polling.
type MonitorHandler struct {
	rdb            *redis.Client
	sessionService *service.SessionService
	log            zerolog.Logger
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(rdb *redis.Client, sessionService *service.SessionService, log zerolog.Logger) *MonitorHandler {
	return &MonitorHandler{
		rdb:            rdb,
		sessionService: sessionService,
		log:            log.With().Str("component", "monitor_handler").Logger(),
	}
}

// MonitorSSE godoc
// GET /api/v1/sessions/:id/monitor
func (h *MonitorHandler) MonitorSSE(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	snap, ok := h.sessionService.GetSession(scheduleID)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrSessionNotStarted)
		return
	}

	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")

	// Initial snapshot so a late-attaching dashboard starts complete.
	entries, err := h.sessionService.GetAttendance(reqCtx, scheduleID)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to load attendance snapshot")
		entries = nil
	}
	c.SSEvent("message", gin.H{
		"type": "snapshot",
		"data": gin.H{
			"session":    snap,
			"attendance": entries,
		},
	})
	c.Writer.Flush()

	channelName := config.CacheKey.AttendanceChannel(scheduleID.String())
	pubsub := h.rdb.Subscribe(reqCtx, channelName)
	defer pubsub.Close()

	ch := pubsub.Channel()

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()

	h.log.Info().Str("schedule_id", scheduleID.String()).Msg("Dashboard attached to live monitor SSE")

	pingPayload, _ := json.Marshal(map[string]string{"type": "ping"})

	for {
		select {
		case <-reqCtx.Done():
			h.log.Info().Str("schedule_id", scheduleID.String()).Msg("Dashboard disconnected from live monitor SSE")
			return

		case msg := <-ch:
			// Forward raw JSON directly, no deserialization needed.
			c.Writer.Write([]byte("data: "))
			c.Writer.Write([]byte(msg.Payload))
			c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()

		case <-keepAliveTicker.C:
			c.Writer.Write([]byte("data: "))
			c.Writer.Write(pingPayload)
			c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		}
	}
}
