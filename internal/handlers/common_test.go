package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quizo-app/quiz-service/internal/services"
	"github.com/quizo-app/quiz-service/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestRespondWithServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	base := NewBaseHandler(utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation error", services.NewValidationError("title", "is required", nil), http.StatusBadRequest},
		{"duplicate attempt", services.ErrAlreadyAttempted, http.StatusBadRequest},
		{"title conflict", services.ErrQuizTitleTaken, http.StatusBadRequest},
		{"email taken", services.ErrEmailTaken, http.StatusBadRequest},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not owner", services.ErrQuizNotOwned, http.StatusForbidden},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"quiz missing", services.ErrQuizNotFound, http.StatusNotFound},
		{"user missing", services.ErrUserNotFound, http.StatusNotFound},
		{"unexpected", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			base.RespondWithServiceError(c, tt.err)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	base := NewBaseHandler(utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	base.RespondWithServiceError(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Contains(t, w.Body.String(), "Internal server error")
}
