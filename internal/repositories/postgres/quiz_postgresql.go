package postgres

import (
	"context"
	"time"

	"github.com/quizo-app/quiz-service/internal/models"
	"github.com/quizo-app/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (r *QuizPostgreSQL) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// UpdateWithQuestions saves the metadata row and swaps the question list
// inside a single transaction; a failure in either half rolls back both.
// Callers guard this behind the no-attempts check; questions are immutable
// once attempted.
func (r *QuizPostgreSQL) UpdateWithQuestions(ctx context.Context, quiz *models.Quiz, questions []models.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions", "Attempts", "Creator").Save(quiz).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			questions[i].ID = 0
			questions[i].QuizID = quiz.ID
			questions[i].Position = i
		}
		return tx.Create(&questions).Error
	})
}

func (r *QuizPostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Quiz{}, id).Error
}

func (r *QuizPostgreSQL) GetByCreator(ctx context.Context, creatorID string) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	if err := r.db.WithContext(ctx).
		Where("created_by = ?", creatorID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *QuizPostgreSQL) GetLive(ctx context.Context, now time.Time) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	if err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("Creator").
		Order("start_date ASC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *QuizPostgreSQL) GetAttemptedBy(ctx context.Context, studentID string) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	if err := r.db.WithContext(ctx).
		Joins("JOIN quiz_attempts ON quiz_attempts.quiz_id = quizzes.id").
		Where("quiz_attempts.student_id = ?", studentID).
		Preload("Questions").
		Preload("Attempts", "student_id = ?", studentID).
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *QuizPostgreSQL) TitleExists(ctx context.Context, title string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Quiz{}).Where("title = ?", title)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *QuizPostgreSQL) ActivateDue(ctx context.Context, now time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Quiz{}).
			Where("start_date <= ? AND end_date >= ? AND status = ?", now, now, models.StatusDraft).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		// The status predicate is repeated so a concurrent transition
		// between the pluck and the update cannot be overwritten.
		return tx.Model(&models.Quiz{}).
			Where("id IN ? AND status = ?", ids, models.StatusDraft).
			Update("status", models.StatusActive).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *QuizPostgreSQL) CompleteExpired(ctx context.Context, now time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Quiz{}).
			Where("end_date < ? AND status <> ?", now, models.StatusCompleted).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&models.Quiz{}).
			Where("id IN ? AND status <> ?", ids, models.StatusCompleted).
			Update("status", models.StatusCompleted).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
