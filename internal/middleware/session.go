package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/presensia/presensia-backend/internal/response"
	"github.com/presensia/presensia-backend/internal/service"
)

// CheckSingleDeviceSession validates the JWT's JTI against the active login in
// Redis. A mismatch means the operator signed in elsewhere and this token was
// superseded.
func CheckSingleDeviceSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := authService.ValidateOperatorSession(c.Request.Context(), claims.OperatorID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
