package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/presensia/presensia-backend/internal/camera"
	"github.com/presensia/presensia-backend/internal/config"
	"github.com/presensia/presensia-backend/internal/response"
	"github.com/presensia/presensia-backend/internal/service"
	"github.com/presensia/presensia-backend/internal/stream"
)

// StreamHandler serves the annotated MJPEG stream for a started session.
// Each viewer connection runs its own frame loop; the loop lives exactly as
// long as the HTTP response does.
type StreamHandler struct {
	cfg            *config.Config
	hub            *camera.Hub
	sessionService *service.SessionService
	ledgerService  *service.LedgerService
	matcher        stream.Matcher
	log            zerolog.Logger
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(
	cfg *config.Config,
	hub *camera.Hub,
	sessionService *service.SessionService,
	ledgerService *service.LedgerService,
	matcher stream.Matcher,
	log zerolog.Logger,
) *StreamHandler {
	return &StreamHandler{
		cfg:            cfg,
		hub:            hub,
		sessionService: sessionService,
		ledgerService:  ledgerService,
		matcher:        matcher,
		log:            log.With().Str("component", "stream_handler").Logger(),
	}
}

// mjpegSink writes frames as multipart/x-mixed-replace parts and flushes
// after each one so the browser renders frames as they arrive.
type mjpegSink struct {
	w gin.ResponseWriter
}

func (s *mjpegSink) WriteFrame(frameJPEG []byte) error {
	if _, err := fmt.Fprintf(s.w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(frameJPEG)); err != nil {
		return err
	}
	if _, err := s.w.Write(frameJPEG); err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("\r\n")); err != nil {
		return err
	}
	s.w.Flush()
	return nil
}

// Stream godoc
// GET /api/v1/sessions/:id/stream
// Responds with an MJPEG stream of annotated frames until the viewer
// disconnects or the session ends.
func (h *StreamHandler) Stream(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if _, ok := h.sessionService.GetSession(scheduleID); !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrSessionNotStarted)
		return
	}

	cam, cleanup, err := h.openCamera(scheduleID)
	if err != nil {
		h.log.Error().Err(err).Str("schedule_id", scheduleID.String()).Msg("Camera source unavailable")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrCameraUnavailable)
		return
	}
	defer cleanup()

	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "close")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	// Unblock a pending ReadFrame when the viewer goes away. Release is
	// idempotent, so racing the loop's own deferred release is fine.
	go func() {
		<-reqCtx.Done()
		cam.Release()
	}()

	loop := stream.NewLoop(stream.LoopConfig{
		ScheduleID:          scheduleID,
		Camera:              cam,
		Matcher:             h.matcher,
		Schedules:           h.sessionService,
		Ledger:              h.ledgerService,
		RecognitionInterval: h.cfg.RecognitionInterval,
		LivenessThreshold:   h.cfg.LivenessThreshold,
		Log:                 h.log,
	})

	if err := loop.Run(reqCtx, &mjpegSink{w: c.Writer}); err != nil {
		h.log.Warn().Err(err).Str("schedule_id", scheduleID.String()).Msg("Frame loop ended with device fault")
	}
}

// openCamera picks the frame source for a session: the configured IP camera
// when one is set, otherwise the push source fed by the WebSocket ingest.
func (h *StreamHandler) openCamera(scheduleID uuid.UUID) (camera.Camera, func(), error) {
	if h.cfg.CameraURL != "" {
		cam, err := camera.OpenMJPEG(h.cfg.CameraURL)
		if err != nil {
			return nil, nil, err
		}
		return cam, cam.Release, nil
	}

	key := scheduleID.String()
	cam := h.hub.Acquire(key)
	return cam, func() { h.hub.Drop(key) }, nil
}
