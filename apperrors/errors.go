// Package apperrors maps failures onto HTTP responses.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phillip/blood-donation-go/logger"
	"github.com/phillip/blood-donation-go/store"
)

// Kind classifies an AppError.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindBadRequest
	KindConflict
	KindUnavailable
)

// Status returns the HTTP status for k. Conflict shares 400 with
// BadRequest because existing clients check for it on duplicate
// registration.
func (k Kind) Status() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest, KindConflict:
		return http.StatusBadRequest
	case KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func Unauthorized() *AppError {
	return &AppError{Kind: KindUnauthorized, Message: "unauthorized access"}
}

func Forbidden(msg string) *AppError {
	if msg == "" {
		msg = "forbidden access"
	}
	return &AppError{Kind: KindForbidden, Message: msg}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

func BadRequest(msg string) *AppError {
	return &AppError{Kind: KindBadRequest, Message: msg}
}

func Conflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

func Unavailable(msg string) *AppError {
	return &AppError{Kind: KindUnavailable, Message: msg}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// From classifies err. resource names the entity for not-found messages.
func From(err error, resource string) *AppError {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, store.ErrNotFound):
		return NotFound(resource)
	case errors.Is(err, store.ErrInvalidID):
		return BadRequest("invalid " + resource + " id")
	case errors.Is(err, store.ErrInvalidValue):
		return &AppError{Kind: KindBadRequest, Message: err.Error(), Err: err}
	case errors.Is(err, store.ErrDuplicateKey):
		return Conflict(resource + " already exists")
	case errors.Is(err, store.ErrConflict):
		return Conflict(resource + " was modified by another request")
	}
	return Internal(err)
}

// Respond writes err as a JSON body and aborts the chain. Internal causes
// are logged but never sent to the client.
func Respond(c *gin.Context, err error, resource string) {
	appErr := From(err, resource)
	if appErr.Kind == KindInternal {
		logger.FromContext(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.Kind.Status(), gin.H{"message": appErr.Message})
}
