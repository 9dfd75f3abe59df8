package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizStatus string

const (
	StatusDraft     QuizStatus = "draft"
	StatusActive    QuizStatus = "active"
	StatusCompleted QuizStatus = "completed"
)

type Quiz struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	CreatedBy        string     `json:"createdBy" gorm:"not null;size:36;index"`
	Title            string     `json:"title" gorm:"uniqueIndex;not null;size:200" validate:"required,min=1,max=200"`
	Subject          string     `json:"subject" gorm:"not null;size:100" validate:"required,max=100"`
	MarksPerQuestion int        `json:"marksPerQuestion" gorm:"not null" validate:"required,min=1"`
	NegativeMarking  bool       `json:"negativeMarking" gorm:"default:false"`
	StartDate        time.Time  `json:"startDate" gorm:"not null;index"`
	EndDate          time.Time  `json:"endDate" gorm:"not null;index"`
	Duration         int        `json:"duration" gorm:"not null" validate:"required,min=1"` // Minutes
	Unidirectional   bool       `json:"unidirectional" gorm:"default:false"`
	Status           QuizStatus `json:"status" gorm:"not null;default:draft;index" validate:"omitempty,quiz_status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []Question    `json:"questions" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Attempts  []QuizAttempt `json:"students,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Creator   User          `json:"-" gorm:"foreignKey:CreatedBy"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// DeriveStatus computes the lifecycle status implied by now and the quiz
// window. "completed" is terminal: once a quiz has completed it never
// reverts, regardless of the stored dates.
func (q *Quiz) DeriveStatus(now time.Time) QuizStatus {
	if q.Status == StatusCompleted {
		return StatusCompleted
	}
	switch {
	case now.After(q.EndDate):
		return StatusCompleted
	case !now.Before(q.StartDate):
		return StatusActive
	default:
		return StatusDraft
	}
}

// IsLive reports whether now falls inside the quiz window [start, end].
func (q *Quiz) IsLive(now time.Time) bool {
	return !now.Before(q.StartDate) && !now.After(q.EndDate)
}

type Question struct {
	ID            uint                        `json:"id" gorm:"primaryKey"`
	QuizID        uint                        `json:"-" gorm:"not null;index"`
	Position      int                         `json:"-" gorm:"not null;default:0"`
	QuestionText  string                      `json:"questionText" gorm:"type:text;not null" validate:"required"`
	Options       datatypes.JSONSlice[string] `json:"options" gorm:"type:jsonb;not null" validate:"required,min=2"`
	CorrectAnswer string                      `json:"correctAnswer" gorm:"not null;size:500" validate:"required"`
}

func (Question) TableName() string {
	return "questions"
}

// HasOption reports whether the given option is one of the question's choices.
func (q *Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}
