package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/quizo-app/quiz-service/internal/models"
)

type EventType string

const (
	EventQuizActivated    EventType = "quiz.activated"
	EventQuizCompleted    EventType = "quiz.completed"
	EventAttemptSubmitted EventType = "attempt.submitted"
)

// QuizEvent is the envelope published for quiz lifecycle transitions and
// attempt submissions.
type QuizEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

type QuizLifecycleEvent struct {
	QuizID uint              `json:"quiz_id"`
	Status models.QuizStatus `json:"status"`
}

type AttemptSubmittedEvent struct {
	QuizID    uint    `json:"quiz_id"`
	StudentID string  `json:"student_id"`
	Score     float64 `json:"score"`
}

func newEvent(eventType EventType, data interface{}) *QuizEvent {
	return &QuizEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "quiz-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// NewQuizLifecycleEvent builds an event for a sweep-driven status flip.
func NewQuizLifecycleEvent(quizID uint, status models.QuizStatus) *QuizEvent {
	eventType := EventQuizActivated
	if status == models.StatusCompleted {
		eventType = EventQuizCompleted
	}
	return newEvent(eventType, QuizLifecycleEvent{QuizID: quizID, Status: status})
}

// NewAttemptSubmittedEvent builds an event for a stored attempt.
func NewAttemptSubmittedEvent(quizID uint, studentID string, score float64) *QuizEvent {
	return newEvent(EventAttemptSubmitted, AttemptSubmittedEvent{
		QuizID:    quizID,
		StudentID: studentID,
		Score:     score,
	})
}
