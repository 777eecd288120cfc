package errors

import (
	"errors"
	"fmt"
	"net/http"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is an error with an associated HTTP status. Services return these
// so handlers can surface the right response without inspecting messages.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// New creates an Error with the given message and HTTP status.
func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

var (
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrInvalidLogin        = New("invalid username or password", http.StatusUnauthorized)
)

// ValidationError wraps a bad-input message with a 400 status.
func ValidationError(message string) *Error {
	return New(message, http.StatusBadRequest)
}

// Status extracts the HTTP status from err, defaulting to 500.
func Status(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// ErrorHandler responds to requests rejected by the rate limiter.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"status":  http.StatusText(http.StatusTooManyRequests),
		"message": "Too many requests. Try again in " + info.ResetTime.Format("15:04:05"),
	})
}
