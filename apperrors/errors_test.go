package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/phillip/blood-donation-go/store"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", fmt.Errorf("find: %w", store.ErrNotFound), http.StatusNotFound, "user not found"},
		{"invalid id", store.ErrInvalidID, http.StatusBadRequest, "invalid user id"},
		{"duplicate", store.ErrDuplicateKey, http.StatusBadRequest, "user already exists"},
		{"conflict", store.ErrConflict, http.StatusBadRequest, "user was modified by another request"},
		{"forbidden", Forbidden(""), http.StatusForbidden, "forbidden access"},
		{"unavailable", Unavailable("off"), http.StatusServiceUnavailable, "off"},
		{"unknown", errors.New("socket closed"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := From(tt.err, "user")
			assert.Equal(t, tt.status, got.Kind.Status())
			assert.Equal(t, tt.msg, got.Message)
		})
	}
}

func TestRespondHidesInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Respond(c, errors.New("mongo: connection refused"), "user")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, w.Body.String())
	assert.True(t, c.IsAborted())
	assert.Len(t, c.Errors, 1)
}
