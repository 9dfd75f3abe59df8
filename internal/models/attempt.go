package models

import "time"

// QuizAttempt is a student's single recorded submission for one quiz.
// The composite unique index on (quiz_id, student_id) is the at-most-once
// guarantee: concurrent submissions for the same pair race on the index,
// not on application state.
type QuizAttempt struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	QuizID      uint      `json:"quizId" gorm:"not null;uniqueIndex:idx_attempts_quiz_student"`
	StudentID   string    `json:"studentId" gorm:"not null;size:36;uniqueIndex:idx_attempts_quiz_student"`
	Name        string    `json:"name" gorm:"size:100"`
	Score       float64   `json:"score" gorm:"not null;default:0"`
	SubmittedAt time.Time `json:"time" gorm:"not null"`

	Responses []AttemptResponse `json:"responses" gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE"`
	Student   User              `json:"-" gorm:"foreignKey:StudentID"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

type AttemptResponse struct {
	ID             uint   `json:"-" gorm:"primaryKey"`
	AttemptID      uint   `json:"-" gorm:"not null;index"`
	QuestionID     uint   `json:"questionId" gorm:"not null"`
	SelectedOption string `json:"selectedOption" gorm:"size:500"`
	IsCorrect      bool   `json:"isCorrect"`
}

func (AttemptResponse) TableName() string {
	return "attempt_responses"
}
