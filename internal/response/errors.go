package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Session / streaming ───────────────────────────────────────────
	ErrScheduleNotFound   ErrCode = "SCHEDULE_NOT_FOUND"
	ErrSessionNotStarted  ErrCode = "SESSION_NOT_STARTED"
	ErrSessionEnded       ErrCode = "SESSION_NOT_FOUND_OR_ENDED"
	ErrInvalidWindow      ErrCode = "INVALID_TIME_WINDOW"
	ErrCameraUnavailable  ErrCode = "CAMERA_UNAVAILABLE"
	ErrStreamNotSupported ErrCode = "STREAM_NOT_SUPPORTED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionActive:
		return "You are already logged in on another device."
	case ErrSessionInvalidated:
		return "Your login session has expired. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is not valid."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is not valid."
	case ErrInvalidPayload:
		return "The request payload is not valid."

	case ErrNotFound:
		return "The resource was not found."
	case ErrConflict:
		return "The resource already exists."

	case ErrScheduleNotFound:
		return "The schedule was not found."
	case ErrSessionNotStarted:
		return "The session was not properly started. Start it from the setup page first."
	case ErrSessionEnded:
		return "The session was not found or has already ended."
	case ErrInvalidWindow:
		return "The schedule start must not be after its end."
	case ErrCameraUnavailable:
		return "No camera source is available for this session."
	case ErrStreamNotSupported:
		return "The connection does not support streaming."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
