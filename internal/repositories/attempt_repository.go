package repositories

import (
	"context"

	"github.com/quizo-app/quiz-service/internal/models"
)

// AttemptRepository interface for quiz attempt operations
type AttemptRepository interface {
	// CreateIfAbsent appends the attempt if and only if no attempt for the
	// same (quiz, student) pair exists. It must be atomic under concurrent
	// submissions: when a concurrent request wins the race, the loser gets
	// ErrDuplicateAttempt, never a second row.
	CreateIfAbsent(ctx context.Context, attempt *models.QuizAttempt) error

	// Query operations
	HasAttempted(ctx context.Context, quizID uint, studentID string) (bool, error)
	GetByQuizAndStudent(ctx context.Context, quizID uint, studentID string) (*models.QuizAttempt, error)
	GetByQuiz(ctx context.Context, quizID uint) ([]*models.QuizAttempt, error) // insertion order
	CountByQuiz(ctx context.Context, quizID uint) (int64, error)
}
