package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quizo-app/quiz-service/internal/services"
	"github.com/quizo-app/quiz-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttemptService struct {
	submitResult *services.SubmitResult
	submitErr    error
	canAttempt   bool
	canErr       error
	review       *services.QuizReview
	reviewErr    error
}

func (s *stubAttemptService) Submit(ctx context.Context, req *services.SubmitQuizRequest) (*services.SubmitResult, error) {
	return s.submitResult, s.submitErr
}

func (s *stubAttemptService) CanAttempt(ctx context.Context, quizID uint, studentID string) (bool, error) {
	return s.canAttempt, s.canErr
}

func (s *stubAttemptService) Review(ctx context.Context, quizID uint, studentID string) (*services.QuizReview, error) {
	return s.review, s.reviewErr
}

func newAttemptRouter(svc services.AttemptService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	handler := NewAttemptHandler(svc, logger)

	router := gin.New()
	router.POST("/submit-quiz", handler.SubmitQuiz)
	router.GET("/check-quiz-attempt", handler.CheckQuizAttempt)
	router.GET("/quiz-review/:quizId/:studentId", handler.QuizReview)
	return router
}

func TestSubmitQuizOK(t *testing.T) {
	router := newAttemptRouter(&stubAttemptService{
		submitResult: &services.SubmitResult{
			Message:       "Quiz submitted successfully",
			Score:         4,
			ComputedScore: 4,
		},
	})

	body, _ := json.Marshal(map[string]interface{}{
		"quizId":    1,
		"studentId": "student-1",
		"score":     4,
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit-quiz", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp services.SubmitResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Quiz submitted successfully", resp.Message)
	assert.Equal(t, 4.0, resp.Score)
}

func TestSubmitQuizDuplicate(t *testing.T) {
	router := newAttemptRouter(&stubAttemptService{submitErr: services.ErrAlreadyAttempted})

	body, _ := json.Marshal(map[string]interface{}{
		"quizId":    1,
		"studentId": "student-1",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit-quiz", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "You have already attempted this quiz.", resp.Message)
}

func TestSubmitQuizUnknownQuiz(t *testing.T) {
	router := newAttemptRouter(&stubAttemptService{submitErr: services.ErrQuizNotFound})

	body, _ := json.Marshal(map[string]interface{}{"quizId": 999, "studentId": "student-1"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit-quiz", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitQuizMalformedBody(t *testing.T) {
	router := newAttemptRouter(&stubAttemptService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit-quiz", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckQuizAttempt(t *testing.T) {
	router := newAttemptRouter(&stubAttemptService{canAttempt: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/check-quiz-attempt?quizId=1&studentId=student-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["canAttempt"])
}

func TestCheckQuizAttemptMissingParams(t *testing.T) {
	router := newAttemptRouter(&stubAttemptService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/check-quiz-attempt?quizId=abc&studentId=student-1", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/check-quiz-attempt?quizId=1", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuizReviewNotAttempted(t *testing.T) {
	router := newAttemptRouter(&stubAttemptService{reviewErr: services.ErrAttemptNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/quiz-review/1/student-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
