package repositories

import (
	"context"
	"time"

	"github.com/quizo-app/quiz-service/internal/models"
)

// QuizRepository interface for quiz persistence operations
type QuizRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error)

	// UpdateWithQuestions saves the quiz metadata and swaps its question
	// list in one transaction, so a failure leaves both untouched.
	UpdateWithQuestions(ctx context.Context, quiz *models.Quiz, questions []models.Question) error

	Delete(ctx context.Context, id uint) error

	// Query operations
	GetByCreator(ctx context.Context, creatorID string) ([]*models.Quiz, error)
	GetLive(ctx context.Context, now time.Time) ([]*models.Quiz, error)
	GetAttemptedBy(ctx context.Context, studentID string) ([]*models.Quiz, error)
	TitleExists(ctx context.Context, title string, excludeID uint) (bool, error)

	// Lifecycle sweep operations. Both are conditional bulk updates keyed on
	// the stored status, so re-running them against a consistent set is a no-op.
	ActivateDue(ctx context.Context, now time.Time) ([]uint, error)
	CompleteExpired(ctx context.Context, now time.Time) ([]uint, error)
}
