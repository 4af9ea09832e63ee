package models

import "time"

// FeedbackType classifies a feedback note.
type FeedbackType string

const (
	FeedbackRecognition FeedbackType = "RECOGNITION"
	FeedbackImprovement FeedbackType = "IMPROVEMENT"
	FeedbackGeneral     FeedbackType = "GENERAL"
)

// Feedback is a free-form note left for an employee outside the formal
// evaluation cycle.
type Feedback struct {
	ID         string       `db:"id" json:"id"`
	EmployeeID string       `db:"employee_id" json:"employee_id"`
	AuthorID   string       `db:"author_id" json:"author_id"`
	Type       FeedbackType `db:"type" json:"type"`
	Message    string       `db:"message" json:"message"`
	Public     bool         `db:"public" json:"public"`
	Competency *string      `db:"competency" json:"competency,omitempty"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// FeedbackWithAuthor joins a feedback note with the author's display name.
type FeedbackWithAuthor struct {
	Feedback
	AuthorName string `db:"author_name" json:"author_name"`
}

// FeedbackFilter captures criteria for listing feedback.
type FeedbackFilter struct {
	EmployeeID string
	Type       FeedbackType
	Page       int
	PageSize   int
}
