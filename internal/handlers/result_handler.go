package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quizo-app/quiz-service/internal/services"
	"github.com/quizo-app/quiz-service/internal/utils"
)

type ResultHandler struct {
	BaseHandler
	service services.ResultService
}

func NewResultHandler(service services.ResultService, logger utils.Logger) *ResultHandler {
	return &ResultHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// QuizResults handles GET /quiz-results/:quizId
func (h *ResultHandler) QuizResults(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("quizId"), 10, 64)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid quiz ID format", err)
		return
	}

	results, err := h.service.Results(c.Request.Context(), uint(quizID))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ExportQuizResults handles GET /quiz-results/:quizId/export and streams
// the ranking as an xlsx workbook.
func (h *ResultHandler) ExportQuizResults(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("quizId"), 10, 64)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid quiz ID format", err)
		return
	}

	f, err := h.service.ExportResults(c.Request.Context(), uint(quizID))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=quiz-%d-results.xlsx", quizID))
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("Failed to stream results workbook", "quiz_id", quizID, "error", err)
	}
}
