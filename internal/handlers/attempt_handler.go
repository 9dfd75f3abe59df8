package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quizo-app/quiz-service/internal/services"
	"github.com/quizo-app/quiz-service/internal/utils"
)

type AttemptHandler struct {
	BaseHandler
	service services.AttemptService
}

func NewAttemptHandler(service services.AttemptService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// SubmitQuiz handles POST /submit-quiz
func (h *AttemptHandler) SubmitQuiz(c *gin.Context) {
	var req services.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckQuizAttempt handles GET /check-quiz-attempt?quizId=&studentId=
func (h *AttemptHandler) CheckQuizAttempt(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Query("quizId"), 10, 64)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid quiz ID format", err)
		return
	}
	studentID := c.Query("studentId")
	if studentID == "" {
		h.RespondWithError(c, http.StatusBadRequest, "Student ID is required.", nil)
		return
	}

	canAttempt, err := h.service.CanAttempt(c.Request.Context(), uint(quizID), studentID)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"canAttempt": canAttempt})
}

// QuizReview handles GET /quiz-review/:quizId/:studentId
func (h *AttemptHandler) QuizReview(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("quizId"), 10, 64)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid quiz ID format", err)
		return
	}

	review, err := h.service.Review(c.Request.Context(), uint(quizID), c.Param("studentId"))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}
