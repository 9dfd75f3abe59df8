package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// Repository aggregates the per-entity repositories so services depend on a
// single handle instead of individual implementations.
type Repository interface {
	Quiz() QuizRepository
	Attempt() AttemptRepository
	User() UserRepository
}

// ErrDuplicateAttempt is returned by AttemptRepository.CreateIfAbsent when
// an attempt for the same (quiz, student) pair already exists.
var ErrDuplicateAttempt = errors.New("attempt already exists for this quiz and student")

// IsNotFoundError checks if error represents a missing record
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateAttemptError checks if error represents a duplicate attempt insert
func IsDuplicateAttemptError(err error) bool {
	return errors.Is(err, ErrDuplicateAttempt)
}
