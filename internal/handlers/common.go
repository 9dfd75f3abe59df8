package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizo-app/quiz-service/internal/services"
	"github.com/quizo-app/quiz-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// MessageResponse is used for simple success acknowledgements
type MessageResponse struct {
	Message string `json:"message"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides logging and error translation shared by all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// RequesterID returns the caller identity supplied by the X-User-ID header.
func (h *BaseHandler) RequesterID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

// RespondWithError sends a consistent error body and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	resp := ErrorResponse{Message: message}
	if len(details) > 0 {
		resp.Details = details[0]
	}

	if err != nil {
		h.logger.LogError(err, message,
			"status_code", statusCode,
			"method", c.Request.Method,
			"path", c.Request.URL.Path)
	} else {
		h.logger.Warn(message,
			"status_code", statusCode,
			"method", c.Request.Method,
			"path", c.Request.URL.Path)
	}

	c.JSON(statusCode, resp)
}

// RespondWithServiceError translates a domain error into the HTTP taxonomy:
// validation and conflicts map to 400, failed credentials to 401, ownership
// and role failures to 403, missing resources to 404, everything else to a
// generic 500.
func (h *BaseHandler) RespondWithServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		var details interface{}
		if verrs, ok := err.(services.ValidationErrors); ok {
			details = verrs
		}
		h.RespondWithError(c, http.StatusBadRequest, err.Error(), nil, details)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusBadRequest, conflictMessage(err), nil)
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials", nil)
	case services.IsForbidden(err):
		h.RespondWithError(c, http.StatusForbidden, "Insufficient permissions", nil)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, err.Error(), nil)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrAlreadyAttempted):
		return "You have already attempted this quiz."
	case errors.Is(err, services.ErrEmailTaken):
		return "User already exists"
	default:
		return err.Error()
	}
}
