package handler

import (
	"bytes"
	"image/jpeg"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/presensia/presensia-backend/internal/camera"
	"github.com/presensia/presensia-backend/internal/middleware"
	"github.com/presensia/presensia-backend/internal/service"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  64 * 1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler accepts camera frames pushed over WebSocket. Browsers without
// access to an IP camera capture getUserMedia frames, encode them as JPEG
// and send them as binary messages; the frames become the session's camera
// source.
type WSHandler struct {
	hub            *camera.Hub
	sessionService *service.SessionService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *camera.Hub, sessionService *service.SessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:            hub,
		sessionService: sessionService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// CameraIngest godoc
// WS /ws/v1/sessions/:id/camera
// Upgrades to WebSocket and feeds incoming JPEG frames to the session's
// push camera until the producer disconnects.
func (h *WSHandler) CameraIngest(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule ID"})
		return
	}

	if _, ok := h.sessionService.GetSession(scheduleID); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session not started"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("operator_id", claims.OperatorID).
		Str("schedule_id", scheduleID.String()).
		Logger()

	wsLog.Info().Msg("Camera producer connected")

	cam := h.hub.Acquire(scheduleID.String())
	frames := 0

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		frame, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			wsLog.Debug().Err(err).Msg("Dropping undecodable frame")
			continue
		}

		cam.Offer(frame)
		frames++
	}

	wsLog.Info().Int("frames", frames).Msg("Camera producer disconnected")
}
