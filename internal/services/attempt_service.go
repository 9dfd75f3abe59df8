package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/quizo-app/quiz-service/internal/events"
	"github.com/quizo-app/quiz-service/internal/models"
	"github.com/quizo-app/quiz-service/internal/repositories"
	"github.com/quizo-app/quiz-service/internal/utils"
)

type AttemptService interface {
	// Submit appends a new attempt if and only if the student has not
	// already attempted the quiz. Concurrent submissions for the same
	// (quiz, student) pair are serialized by the store; the loser gets
	// ErrAlreadyAttempted.
	Submit(ctx context.Context, req *SubmitQuizRequest) (*SubmitResult, error)

	// CanAttempt is the advisory eligibility check used to gate the UI.
	// Submit remains the enforcement point; a true result here can still
	// lose the race to a concurrent submission.
	CanAttempt(ctx context.Context, quizID uint, studentID string) (bool, error)

	Review(ctx context.Context, quizID uint, studentID string) (*QuizReview, error)
}

// ===== REQUEST / RESPONSE STRUCTURES =====

type SubmitQuizRequest struct {
	QuizID    uint              `json:"quizId" validate:"required"`
	StudentID string            `json:"studentId" validate:"required"`
	Name      string            `json:"name"`
	Answers   map[string]string `json:"answers"` // questionId -> selected option
	Score     float64           `json:"score"`
}

type SubmitResult struct {
	Message string `json:"message"`
	// Score is the stored value, which the submission contract takes from
	// the caller. ComputedScore is the server's own count against the
	// stored correct answers, returned so clients can reconcile.
	Score         float64 `json:"score"`
	ComputedScore float64 `json:"computedScore"`
}

type QuizReview struct {
	Title          string           `json:"title"`
	Subject        string           `json:"subject"`
	Questions      []QuestionReview `json:"questions"`
	StudentName    string           `json:"studentName"`
	Score          float64          `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	AttemptedOn    time.Time        `json:"attemptedOn"`
}

type QuestionReview struct {
	QuestionID     uint     `json:"id"`
	QuestionText   string   `json:"questionText"`
	Options        []string `json:"options"`
	CorrectAnswer  string   `json:"correctAnswer"`
	SelectedOption *string  `json:"selectedOption"`
	IsCorrect      bool     `json:"isCorrect"`
}

type attemptService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *utils.Validator
	publisher events.EventPublisher
}

func NewAttemptService(repo repositories.Repository, logger utils.Logger, validator *utils.Validator, publisher events.EventPublisher) AttemptService {
	return &attemptService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *attemptService) Submit(ctx context.Context, req *SubmitQuizRequest) (*SubmitResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, req.QuizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	responses, computedScore := gradeResponses(quiz, req.Answers)

	attempt := &models.QuizAttempt{
		QuizID:      req.QuizID,
		StudentID:   req.StudentID,
		Name:        req.Name,
		Score:       req.Score,
		SubmittedAt: time.Now().UTC(),
		Responses:   responses,
	}

	if err := s.repo.Attempt().CreateIfAbsent(ctx, attempt); err != nil {
		if repositories.IsDuplicateAttemptError(err) {
			return nil, ErrAlreadyAttempted
		}
		return nil, fmt.Errorf("failed to store attempt: %w", err)
	}

	s.logger.Info("Quiz attempt submitted",
		"quiz_id", req.QuizID,
		"student_id", req.StudentID,
		"score", req.Score,
		"computed_score", computedScore)

	if err := s.publisher.PublishQuizEvent(ctx, events.NewAttemptSubmittedEvent(req.QuizID, req.StudentID, req.Score)); err != nil {
		s.logger.Warn("Failed to publish attempt event",
			"quiz_id", req.QuizID,
			"student_id", req.StudentID,
			"error", err)
	}

	return &SubmitResult{
		Message:       "Quiz submitted successfully",
		Score:         req.Score,
		ComputedScore: computedScore,
	}, nil
}

func (s *attemptService) CanAttempt(ctx context.Context, quizID uint, studentID string) (bool, error) {
	if _, err := s.repo.Quiz().GetByID(ctx, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrQuizNotFound
		}
		return false, fmt.Errorf("failed to get quiz: %w", err)
	}

	attempted, err := s.repo.Attempt().HasAttempted(ctx, quizID, studentID)
	if err != nil {
		return false, fmt.Errorf("failed to check attempt: %w", err)
	}
	return !attempted, nil
}

func (s *attemptService) Review(ctx context.Context, quizID uint, studentID string) (*QuizReview, error) {
	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	attempt, err := s.repo.Attempt().GetByQuizAndStudent(ctx, quizID, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	byQuestion := make(map[uint]*models.AttemptResponse, len(attempt.Responses))
	for i := range attempt.Responses {
		byQuestion[attempt.Responses[i].QuestionID] = &attempt.Responses[i]
	}

	review := &QuizReview{
		Title:          quiz.Title,
		Subject:        quiz.Subject,
		StudentName:    attempt.Name,
		Score:          attempt.Score,
		TotalQuestions: len(quiz.Questions),
		AttemptedOn:    attempt.SubmittedAt,
		Questions:      make([]QuestionReview, len(quiz.Questions)),
	}
	for i, q := range quiz.Questions {
		qr := QuestionReview{
			QuestionID:    q.ID,
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		}
		if resp, ok := byQuestion[q.ID]; ok {
			selected := resp.SelectedOption
			qr.SelectedOption = &selected
			qr.IsCorrect = resp.IsCorrect
		}
		review.Questions[i] = qr
	}
	return review, nil
}

// gradeResponses marks each answered question against the stored correct
// answer and totals the server-side score at marks-per-question per hit.
func gradeResponses(quiz *models.Quiz, answers map[string]string) ([]models.AttemptResponse, float64) {
	responses := make([]models.AttemptResponse, 0, len(answers))
	var correct int
	for _, q := range quiz.Questions {
		selected, ok := answers[strconv.FormatUint(uint64(q.ID), 10)]
		if !ok {
			continue
		}
		isCorrect := selected == q.CorrectAnswer
		if isCorrect {
			correct++
		}
		responses = append(responses, models.AttemptResponse{
			QuestionID:     q.ID,
			SelectedOption: selected,
			IsCorrect:      isCorrect,
		})
	}
	return responses, float64(correct * quiz.MarksPerQuestion)
}
