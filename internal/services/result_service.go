package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/quizo-app/quiz-service/internal/models"
	"github.com/quizo-app/quiz-service/internal/repositories"
	"github.com/quizo-app/quiz-service/internal/utils"
	"github.com/xuri/excelize/v2"
)

type ResultService interface {
	// Results returns the quiz's attempts ranked by score descending.
	// The sort is stable: equal scores keep their submission order.
	Results(ctx context.Context, quizID uint) (*QuizResults, error)

	// ExportResults renders the same ranking as an xlsx workbook.
	ExportResults(ctx context.Context, quizID uint) (*excelize.File, error)
}

type QuizResults struct {
	QuizID         uint            `json:"quizId"`
	Title          string          `json:"title"`
	Subject        string          `json:"subject"`
	TotalQuestions int             `json:"totalQuestions"`
	Students       []StudentResult `json:"students"`
}

type StudentResult struct {
	StudentID string    `json:"studentId"`
	Name      string    `json:"name"`
	Score     float64   `json:"score"`
	Time      time.Time `json:"time"`
}

type resultService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewResultService(repo repositories.Repository, logger utils.Logger) ResultService {
	return &resultService{
		repo:   repo,
		logger: logger,
	}
}

func (s *resultService) Results(ctx context.Context, quizID uint) (*QuizResults, error) {
	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	attempts, err := s.repo.Attempt().GetByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}

	students, err := s.rankAttempts(ctx, attempts)
	if err != nil {
		return nil, err
	}

	return &QuizResults{
		QuizID:         quiz.ID,
		Title:          quiz.Title,
		Subject:        quiz.Subject,
		TotalQuestions: len(quiz.Questions),
		Students:       students,
	}, nil
}

func (s *resultService) ExportResults(ctx context.Context, quizID uint) (*excelize.File, error) {
	results, err := s.Results(ctx, quizID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"Rank", "Student", "Score", "Submitted At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, student := range results.Students {
		row := i + 2
		values := []interface{}{i + 1, student.Name, student.Score, student.Time.Format(time.RFC3339)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write result row: %w", err)
			}
		}
	}

	s.logger.Info("Quiz results exported",
		"quiz_id", quizID,
		"rows", len(results.Students))
	return f, nil
}

// rankAttempts joins attempts with user names, drops attempts whose student
// record no longer exists, and orders by score descending with insertion
// order breaking ties.
func (s *resultService) rankAttempts(ctx context.Context, attempts []*models.QuizAttempt) ([]StudentResult, error) {
	ids := make([]string, 0, len(attempts))
	for _, a := range attempts {
		ids = append(ids, a.StudentID)
	}
	users, err := s.repo.User().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve students: %w", err)
	}

	results := make([]StudentResult, 0, len(attempts))
	for _, a := range attempts {
		user, ok := users[a.StudentID]
		if !ok {
			continue
		}
		results = append(results, StudentResult{
			StudentID: a.StudentID,
			Name:      user.UserName,
			Score:     a.Score,
			Time:      a.SubmittedAt,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}
