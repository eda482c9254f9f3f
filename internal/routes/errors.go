package routes

import (
	"errors"
	"net/http"

	"equipment-logbook/internal/access"
	"equipment-logbook/internal/jwt"
	"equipment-logbook/internal/lending"
)

// HTTPError represents an error with an associated HTTP status code and user message
type HTTPError struct {
	Err        error    // The underlying error
	StatusCode int      // HTTP status code
	Message    string   // User-friendly message
	StopCodes  []string // Optional stop codes for client-side handling
	Internal   bool     // Whether this is an internal error (hide details from user)
}

// ErrorInfo contains error metadata for user-facing errors
type ErrorInfo struct {
	Message   string   // User-friendly message
	StopCodes []string // Optional stop codes for client-side application
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(statusCode int, err error, message string, stopCodes ...string) *HTTPError {
	return &HTTPError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
		StopCodes:  stopCodes,
		Internal:   statusCode >= 500,
	}
}

var (
	// Authentication errors
	ErrUnauthorized  = errors.New("unauthorized")
	ErrTokenExpired  = errors.New("token expired")
	ErrTooManyLogins = errors.New("too many login attempts")
	ErrNoPrincipal   = errors.New("no principal in context")

	// Validation errors
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Internal errors
	ErrInternalServer     = errors.New("internal server error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// errorStatusMap maps errors to HTTP status codes
var errorStatusMap = map[error]int{
	// 400 Bad Request
	ErrInvalidRequest:   http.StatusBadRequest,
	ErrInvalidParameter: http.StatusBadRequest,

	// 401 Unauthorized
	ErrUnauthorized:              http.StatusUnauthorized,
	ErrNoPrincipal:               http.StatusUnauthorized,
	ErrTokenExpired:              http.StatusUnauthorized,
	jwt.ErrNonValidToken:         http.StatusUnauthorized,
	jwt.ErrInvalidNonce:          http.StatusUnauthorized,
	access.ErrInvalidCredentials: http.StatusUnauthorized,

	// 404 Not Found
	lending.ErrNotFound: http.StatusNotFound,

	// 428 Precondition Required
	lending.ErrNotConfirmed: http.StatusPreconditionRequired,

	// 429 Too Many Requests
	ErrTooManyLogins: http.StatusTooManyRequests,

	// 500 Internal Server Error
	ErrInternalServer: http.StatusInternalServerError,

	// 503 Service Unavailable
	ErrServiceUnavailable: http.StatusServiceUnavailable,
}

// errorInfoMap maps errors to user-friendly messages and optional stop codes
var errorInfoMap = map[error]ErrorInfo{
	// Authentication
	ErrUnauthorized: {
		Message:   "Authentication required",
		StopCodes: []string{"AUTH_REQUIRED"},
	},
	ErrNoPrincipal: {
		Message:   "Authentication required",
		StopCodes: []string{"AUTH_REQUIRED"},
	},
	ErrTokenExpired: {
		Message:   "Authentication token has expired",
		StopCodes: []string{"AUTH_TOKEN_EXPIRED"},
	},
	jwt.ErrNonValidToken: {
		Message:   "Invalid or expired authentication token",
		StopCodes: []string{"AUTH_INVALID_TOKEN"},
	},
	jwt.ErrInvalidNonce: {
		Message:   "Session has ended, sign in again",
		StopCodes: []string{"AUTH_INVALID_NONCE"},
	},
	access.ErrInvalidCredentials: {
		Message:   "Invalid username or password",
		StopCodes: []string{"AUTH_INVALID_CREDENTIALS"},
	},
	ErrTooManyLogins: {
		Message:   "Too many login attempts, try again later",
		StopCodes: []string{"RATE_LIMITED"},
	},

	// Logbook
	lending.ErrNotFound: {
		Message:   "Record not found",
		StopCodes: []string{"NOT_FOUND"},
	},
	lending.ErrNotConfirmed: {
		Message:   "Confirmation required",
		StopCodes: []string{"CONFIRMATION_REQUIRED"},
	},

	// Validation
	ErrInvalidRequest: {
		Message:   "Invalid request format",
		StopCodes: []string{"INVALID_REQUEST"},
	},
	ErrInvalidParameter: {
		Message:   "Invalid parameter value",
		StopCodes: []string{"INVALID_PARAMETER"},
	},

	// Internal (no stop codes for internal errors)
	ErrInternalServer: {
		Message: "An internal error occurred",
	},
	ErrServiceUnavailable: {
		Message: "Service is temporarily unavailable",
	},
}

// GetErrorStatus returns the HTTP status code for an error
func GetErrorStatus(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	var (
		validation   *lending.ValidationError
		precondition *lending.PreconditionError
		storeFailure *lending.StoreFailure
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &precondition):
		return http.StatusConflict
	case errors.As(err, &storeFailure):
		return http.StatusInternalServerError
	}

	if status, ok := errorStatusMap[err]; ok {
		return status
	}
	for knownErr, status := range errorStatusMap {
		if errors.Is(err, knownErr) {
			return status
		}
	}

	return http.StatusInternalServerError
}

// GetErrorInfo returns error information including message and stop codes
func GetErrorInfo(err error) ErrorInfo {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return ErrorInfo{
			Message:   httpErr.Message,
			StopCodes: httpErr.StopCodes,
		}
	}

	var (
		validation   *lending.ValidationError
		precondition *lending.PreconditionError
		storeFailure *lending.StoreFailure
	)
	switch {
	case errors.As(err, &validation):
		return ErrorInfo{Message: validation.Error(), StopCodes: []string{"VALIDATION_FAILED"}}
	case errors.As(err, &precondition):
		return ErrorInfo{Message: precondition.Message, StopCodes: []string{"PRECONDITION_FAILED"}}
	case errors.As(err, &storeFailure):
		return ErrorInfo{Message: "Database operation failed"}
	}

	if info, ok := errorInfoMap[err]; ok {
		return info
	}
	for knownErr, info := range errorInfoMap {
		if errors.Is(err, knownErr) {
			return info
		}
	}

	// Unknown errors: generic message for 5xx, specific for others
	if GetErrorStatus(err) >= 500 {
		return ErrorInfo{Message: "An internal error occurred"}
	}
	return ErrorInfo{Message: err.Error()}
}

func GetErrorMessage(err error) string {
	return GetErrorInfo(err).Message
}
