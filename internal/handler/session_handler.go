package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/presensia/presensia-backend/internal/model"
	"github.com/presensia/presensia-backend/internal/response"
	"github.com/presensia/presensia-backend/internal/service"
	"github.com/presensia/presensia-backend/internal/validator"
)

// SessionHandler manages schedules and attendance session lifecycle.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CreateSchedule godoc
// POST /api/v1/schedules
func (h *SessionHandler) CreateSchedule(c *gin.Context) {
	var req model.CreateScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sched, err := h.sessionService.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWindow) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidWindow)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, sched)
}

// ListSchedules godoc
// GET /api/v1/schedules
func (h *SessionHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.sessionService.ListActiveSchedules(c.Request.Context(), time.Now().UTC())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, schedules)
}

// StartSession godoc
// POST /api/v1/sessions/:id/start
func (h *SessionHandler) StartSession(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	snap, err := h.sessionService.StartSession(c.Request.Context(), scheduleID)
	if err != nil {
		if errors.Is(err, service.ErrScheduleNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrScheduleNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, snap)
}

// EndSession godoc
// POST /api/v1/sessions/:id/end
func (h *SessionHandler) EndSession(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.sessionService.EndSession(c.Request.Context(), scheduleID); err != nil {
		if errors.Is(err, service.ErrSessionEnded) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionEnded)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "ended"})
}

// GetSession godoc
// GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
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

	response.Success(c, http.StatusOK, snap)
}

// GetAttendance godoc
// GET /api/v1/sessions/:id/attendance
func (h *SessionHandler) GetAttendance(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	entries, err := h.sessionService.GetAttendance(c.Request.Context(), scheduleID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, entries)
}
