package postgres

import (
	"context"

	"github.com/quizo-app/quiz-service/internal/models"
	"github.com/quizo-app/quiz-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

// CreateIfAbsent performs the insert-if-absent append for a (quiz, student)
// pair as a single conditional insert: ON CONFLICT DO NOTHING over the
// composite unique index. Zero affected rows means another attempt already
// holds the slot, which is reported as ErrDuplicateAttempt rather than a
// silent success. The responses ride in the same transaction so a lost race
// leaves no orphan rows.
func (r *AttemptPostgreSQL) CreateIfAbsent(ctx context.Context, attempt *models.QuizAttempt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		responses := attempt.Responses
		attempt.Responses = nil

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "quiz_id"}, {Name: "student_id"}},
			DoNothing: true,
		}).Create(attempt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrDuplicateAttempt
		}

		for i := range responses {
			responses[i].AttemptID = attempt.ID
		}
		if len(responses) > 0 {
			if err := tx.Create(&responses).Error; err != nil {
				return err
			}
		}
		attempt.Responses = responses
		return nil
	})
}

func (r *AttemptPostgreSQL) HasAttempted(ctx context.Context, quizID uint, studentID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AttemptPostgreSQL) GetByQuizAndStudent(ctx context.Context, quizID uint, studentID string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Preload("Responses").
		First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// GetByQuiz returns attempts in insertion order, which doubles as the
// tie-break order for the ranked results listing.
func (r *AttemptPostgreSQL) GetByQuiz(ctx context.Context, quizID uint) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("id ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *AttemptPostgreSQL) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("quiz_id = ?", quizID).
		Count(&count).Error
	return count, err
}
