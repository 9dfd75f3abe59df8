package repositories

import (
	"context"

	"github.com/quizo-app/quiz-service/internal/models"
)

// UserRepository interface for user persistence operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	Delete(ctx context.Context, id string) error
}
