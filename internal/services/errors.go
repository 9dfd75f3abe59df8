package services

import (
	"errors"

	apperrors "github.com/quizo-app/quiz-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Quiz specific errors
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrQuizTitleTaken  = errors.New("quiz title already exists")
	ErrQuizNotOwned    = errors.New("quiz can only be modified by its creator")
	ErrQuizNotEditable = errors.New("quiz cannot be edited - has existing attempts")

	// Attempt specific errors
	ErrAlreadyAttempted = errors.New("you have already attempted this quiz")
	ErrAttemptNotFound  = errors.New("no attempt found for this student")

	// User specific errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR CLASSIFIERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrAttemptNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsForbidden checks if error represents an authorization failure
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrQuizNotOwned)
}

// IsUnauthorized checks if error represents a failed credential check
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrQuizTitleTaken) ||
		errors.Is(err, ErrQuizNotEditable) ||
		errors.Is(err, ErrAlreadyAttempted) ||
		errors.Is(err, ErrEmailTaken)
}
