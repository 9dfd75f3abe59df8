package postgres

import (
	"github.com/quizo-app/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	quiz    repositories.QuizRepository
	attempt repositories.AttemptRepository
	user    repositories.UserRepository
}

// NewRepository wires the GORM-backed repositories behind the aggregate handle.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		quiz:    NewQuizPostgreSQL(db),
		attempt: NewAttemptPostgreSQL(db),
		user:    NewUserPostgreSQL(db),
	}
}

func (r *repository) Quiz() repositories.QuizRepository {
	return r.quiz
}

func (r *repository) Attempt() repositories.AttemptRepository {
	return r.attempt
}

func (r *repository) User() repositories.UserRepository {
	return r.user
}
