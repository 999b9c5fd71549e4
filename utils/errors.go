package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindAuth       ErrorKind = "auth"
	KindConflict   ErrorKind = "conflict"
	KindNotFound   ErrorKind = "not_found"
)

// APIError is an error that is reported to the caller as-is.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func ValidationError(message string) *APIError {
	return &APIError{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

func AuthError(message string) *APIError {
	return &APIError{Kind: KindAuth, Status: http.StatusUnauthorized, Message: message}
}

// ConflictError keeps the 401 existing web clients already handle.
func ConflictError(message string) *APIError {
	return &APIError{Kind: KindConflict, Status: http.StatusUnauthorized, Message: message}
}

func NotFoundError(status int, message string) *APIError {
	return &APIError{Kind: KindNotFound, Status: status, Message: message}
}

// RespondError logs err against the user and writes {"error": ...}.
// Anything that is not an *APIError is reported as a 500 without leaking its text.
func RespondError(c *gin.Context, userID interface{}, err error, context string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		LogErrorWithUser(userID, nil, apiErr.Message+" in "+context)
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}
	LogErrorWithUser(userID, err, "Unexpected error in "+context)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
