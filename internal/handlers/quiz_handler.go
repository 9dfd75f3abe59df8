package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quizo-app/quiz-service/internal/services"
	"github.com/quizo-app/quiz-service/internal/utils"
)

type QuizHandler struct {
	BaseHandler
	service services.QuizService
}

func NewQuizHandler(service services.QuizService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// CreateQuiz handles POST /create-quiz
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	quiz, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Quiz created successfully",
		"quiz":    quiz,
	})
}

// GetQuiz handles GET /quizzes/:quizId
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id, ok := h.quizID(c)
	if !ok {
		return
	}

	quiz, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// UpdateQuiz handles PUT /quizzes/:quizId
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	id, ok := h.quizID(c)
	if !ok {
		return
	}

	var req services.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	quiz, err := h.service.Update(c.Request.Context(), id, &req, h.RequesterID(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Quiz updated successfully",
		"updatedQuiz": quiz,
	})
}

// DeleteQuiz handles DELETE /quizzes/:quizId
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	id, ok := h.quizID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, h.RequesterID(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Quiz deleted successfully"})
}

// MyQuizzes handles GET /my-quizzes/:userId
func (h *QuizHandler) MyQuizzes(c *gin.Context) {
	quizzes, err := h.service.GetByCreator(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// LiveQuizzes handles GET /live-quizzes
func (h *QuizHandler) LiveQuizzes(c *gin.Context) {
	quizzes, err := h.service.GetLive(c.Request.Context())
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// AttemptedQuizzes handles GET /attempted-quizzes/:userId
func (h *QuizHandler) AttemptedQuizzes(c *gin.Context) {
	summaries, err := h.service.GetAttemptedBy(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *QuizHandler) quizID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("quizId"), 10, 64)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid quiz ID format", err)
		return 0, false
	}
	return uint(id), true
}
