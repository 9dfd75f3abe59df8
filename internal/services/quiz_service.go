package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quizo-app/quiz-service/internal/cache"
	"github.com/quizo-app/quiz-service/internal/models"
	"github.com/quizo-app/quiz-service/internal/repositories"
	"github.com/quizo-app/quiz-service/internal/utils"
)

// liveQuizTTL bounds live-listing staleness to well under the sweep interval.
const liveQuizTTL = 30 * time.Second

type QuizService interface {
	Create(ctx context.Context, req *CreateQuizRequest) (*models.Quiz, error)
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	Update(ctx context.Context, id uint, req *UpdateQuizRequest, requesterID string) (*models.Quiz, error)
	Delete(ctx context.Context, id uint, requesterID string) error
	GetByCreator(ctx context.Context, creatorID string) ([]*models.Quiz, error)
	GetLive(ctx context.Context) ([]*LiveQuizResponse, error)
	GetAttemptedBy(ctx context.Context, studentID string) ([]*AttemptedQuizSummary, error)
}

// ===== REQUEST / RESPONSE STRUCTURES =====

type QuestionInput struct {
	QuestionText  string   `json:"questionText" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
}

type CreateQuizRequest struct {
	CreatedBy        string          `json:"createdBy" validate:"required"`
	Title            string          `json:"title" validate:"required,min=1,max=200"`
	Subject          string          `json:"subject" validate:"required,max=100"`
	MarksPerQuestion int             `json:"marksPerQuestion" validate:"required,min=1"`
	NegativeMarking  bool            `json:"negativeMarking"`
	StartDate        time.Time       `json:"startDate" validate:"required"`
	EndDate          time.Time       `json:"endDate" validate:"required"`
	Duration         int             `json:"duration" validate:"required,min=1"`
	Unidirectional   bool            `json:"unidirectional"`
	Questions        []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type UpdateQuizRequest struct {
	Title            string          `json:"title" validate:"required,min=1,max=200"`
	Subject          string          `json:"subject" validate:"required,max=100"`
	MarksPerQuestion int             `json:"marksPerQuestion" validate:"required,min=1"`
	NegativeMarking  bool            `json:"negativeMarking"`
	StartDate        time.Time       `json:"startDate" validate:"required"`
	EndDate          time.Time       `json:"endDate" validate:"required"`
	Duration         int             `json:"duration" validate:"required,min=1"`
	Unidirectional   bool            `json:"unidirectional"`
	Questions        []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type LiveQuizResponse struct {
	models.Quiz
	CreatedByName string `json:"createdByName"`
}

type AttemptedQuizSummary struct {
	QuizID         uint      `json:"quizId"`
	Title          string    `json:"title"`
	Subject        string    `json:"subject"`
	Time           time.Time `json:"time"`
	Score          float64   `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
}

type quizService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *utils.Validator
	cache     cache.CacheService
}

func NewQuizService(repo repositories.Repository, logger utils.Logger, validator *utils.Validator, cacheService cache.CacheService) QuizService {
	return &quizService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		cache:     cacheService,
	}
}

func (s *quizService) Create(ctx context.Context, req *CreateQuizRequest) (*models.Quiz, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := validateWindow(req.StartDate, req.EndDate, true); err != nil {
		return nil, err
	}
	questions := buildQuestions(req.Questions)
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	if _, err := s.repo.User().GetByID(ctx, req.CreatedBy); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up creator: %w", err)
	}

	taken, err := s.repo.Quiz().TitleExists(ctx, req.Title, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check title uniqueness: %w", err)
	}
	if taken {
		return nil, ErrQuizTitleTaken
	}

	quiz := &models.Quiz{
		CreatedBy:        req.CreatedBy,
		Title:            req.Title,
		Subject:          req.Subject,
		MarksPerQuestion: req.MarksPerQuestion,
		NegativeMarking:  req.NegativeMarking,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Duration:         req.Duration,
		Unidirectional:   req.Unidirectional,
		Questions:        questions,
	}
	quiz.Status = quiz.DeriveStatus(time.Now().UTC())

	if err := s.repo.Quiz().Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.invalidateLiveCache(ctx)
	s.logger.Info("Quiz created",
		"quiz_id", quiz.ID,
		"title", quiz.Title,
		"created_by", quiz.CreatedBy)

	return quiz, nil
}

func (s *quizService) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

func (s *quizService) Update(ctx context.Context, id uint, req *UpdateQuizRequest, requesterID string) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz.CreatedBy != requesterID {
		return nil, ErrQuizNotOwned
	}

	// Questions are immutable once anyone has attempted the quiz.
	attemptCount, err := s.repo.Attempt().CountByQuiz(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	if attemptCount > 0 {
		return nil, ErrQuizNotEditable
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := validateWindow(req.StartDate, req.EndDate, false); err != nil {
		return nil, err
	}
	questions := buildQuestions(req.Questions)
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	taken, err := s.repo.Quiz().TitleExists(ctx, req.Title, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check title uniqueness: %w", err)
	}
	if taken {
		return nil, ErrQuizTitleTaken
	}

	quiz.Title = req.Title
	quiz.Subject = req.Subject
	quiz.MarksPerQuestion = req.MarksPerQuestion
	quiz.NegativeMarking = req.NegativeMarking
	quiz.StartDate = req.StartDate
	quiz.EndDate = req.EndDate
	quiz.Duration = req.Duration
	quiz.Unidirectional = req.Unidirectional
	// DeriveStatus keeps completed terminal even if the new window is open.
	quiz.Status = quiz.DeriveStatus(time.Now().UTC())

	if err := s.repo.Quiz().UpdateWithQuestions(ctx, quiz, questions); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}
	quiz.Questions = questions

	s.invalidateLiveCache(ctx)
	s.logger.Info("Quiz updated", "quiz_id", quiz.ID, "title", quiz.Title)

	return quiz, nil
}

func (s *quizService) Delete(ctx context.Context, id uint, requesterID string) error {
	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz.CreatedBy != requesterID {
		return ErrQuizNotOwned
	}

	if err := s.repo.Quiz().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	s.invalidateLiveCache(ctx)
	s.logger.Info("Quiz deleted", "quiz_id", id)
	return nil
}

func (s *quizService) GetByCreator(ctx context.Context, creatorID string) ([]*models.Quiz, error) {
	quizzes, err := s.repo.Quiz().GetByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quizzes by creator: %w", err)
	}
	return quizzes, nil
}

func (s *quizService) GetLive(ctx context.Context) ([]*LiveQuizResponse, error) {
	var cached []*LiveQuizResponse
	if err := s.cache.Get(ctx, cache.LiveQuizzesKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Live quiz cache read failed", "error", err)
	}

	quizzes, err := s.repo.Quiz().GetLive(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get live quizzes: %w", err)
	}

	responses := make([]*LiveQuizResponse, len(quizzes))
	for i, quiz := range quizzes {
		responses[i] = &LiveQuizResponse{
			Quiz:          *quiz,
			CreatedByName: quiz.Creator.UserName,
		}
	}

	if err := s.cache.Set(ctx, cache.LiveQuizzesKey, responses, liveQuizTTL); err != nil {
		s.logger.Warn("Live quiz cache write failed", "error", err)
	}
	return responses, nil
}

func (s *quizService) GetAttemptedBy(ctx context.Context, studentID string) ([]*AttemptedQuizSummary, error) {
	quizzes, err := s.repo.Quiz().GetAttemptedBy(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempted quizzes: %w", err)
	}

	summaries := make([]*AttemptedQuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summary := &AttemptedQuizSummary{
			QuizID:         quiz.ID,
			Title:          quiz.Title,
			Subject:        quiz.Subject,
			TotalQuestions: len(quiz.Questions),
		}
		for _, attempt := range quiz.Attempts {
			if attempt.StudentID == studentID {
				summary.Time = attempt.SubmittedAt
				summary.Score = attempt.Score
				break
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *quizService) invalidateLiveCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.LiveQuizzesKey); err != nil {
		s.logger.Warn("Live quiz cache invalidation failed", "error", err)
	}
}

// ===== VALIDATION HELPERS =====

func validateWindow(start, end time.Time, requireFutureStart bool) error {
	if !start.Before(end) {
		return NewValidationError("startDate", "must be before end date", start)
	}
	if requireFutureStart && !start.After(time.Now()) {
		return NewValidationError("startDate", "must be in the future", start)
	}
	return nil
}

// validateQuestions enforces that each correct answer is one of the
// question's options, which the request-level tags cannot express.
func validateQuestions(questions []models.Question) error {
	for i, q := range questions {
		if !q.HasOption(q.CorrectAnswer) {
			return NewValidationError(
				fmt.Sprintf("questions[%d].correctAnswer", i),
				"must match one of the question's options",
				q.CorrectAnswer,
			)
		}
	}
	return nil
}

func buildQuestions(inputs []QuestionInput) []models.Question {
	questions := make([]models.Question, len(inputs))
	for i, in := range inputs {
		questions[i] = models.Question{
			Position:      i,
			QuestionText:  in.QuestionText,
			Options:       in.Options,
			CorrectAnswer: in.CorrectAnswer,
		}
	}
	return questions
}
