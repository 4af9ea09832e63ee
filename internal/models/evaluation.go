package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RaterType is the relationship of the evaluator to the evaluated employee.
type RaterType string

const (
	RaterSelf        RaterType = "SELF"
	RaterManager     RaterType = "MANAGER"
	RaterPeer        RaterType = "PEER"
	RaterSubordinate RaterType = "SUBORDINATE"
)

// EvaluationState tracks the progress of a single evaluation task.
type EvaluationState string

const (
	EvaluationPending    EvaluationState = "PENDING"
	EvaluationInProgress EvaluationState = "IN_PROGRESS"
	EvaluationCompleted  EvaluationState = "COMPLETED"
)

// ResponseItem is one answered question within an evaluation form. Weight
// expresses the question's importance relative to the other questions.
type ResponseItem struct {
	Score            float64 `json:"score"`
	Weight           float64 `json:"weight"`
	QualitativeNotes string  `json:"qualitative_notes,omitempty"`
}

// ResponseList is the ordered set of answers persisted as JSONB.
type ResponseList []ResponseItem

// Value marshals the responses to JSON for persistence.
func (r ResponseList) Value() (driver.Value, error) {
	if r == nil {
		r = ResponseList{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal responses: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the response list.
func (r *ResponseList) Scan(value interface{}) error {
	if value == nil {
		*r = ResponseList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ResponseList", value)
	}
	if len(data) == 0 {
		*r = ResponseList{}
		return nil
	}
	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("unmarshal responses: %w", err)
	}
	return nil
}

// Evaluation is one (subject, rater, rater type) assignment within a period.
// Once COMPLETED its responses and score never change.
type Evaluation struct {
	ID                string          `db:"id" json:"id"`
	PeriodID          string          `db:"period_id" json:"period_id"`
	SubjectEmployeeID string          `db:"subject_employee_id" json:"subject_employee_id"`
	RaterEmployeeID   string          `db:"rater_employee_id" json:"rater_employee_id"`
	RaterType         RaterType       `db:"rater_type" json:"rater_type"`
	State             EvaluationState `db:"state" json:"state"`
	AssignedAt        time.Time       `db:"assigned_at" json:"assigned_at"`
	CompletedAt       *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
	Responses         ResponseList    `db:"responses" json:"responses,omitempty"`
	TotalScore        *float64        `db:"total_score" json:"total_score,omitempty"`
	Strengths         *string         `db:"strengths" json:"strengths,omitempty"`
	ImprovementAreas  *string         `db:"improvement_areas" json:"improvement_areas,omitempty"`
	GeneralComment    *string         `db:"general_comment" json:"general_comment,omitempty"`
}

// EvaluationWithNames joins an evaluation with display identities.
type EvaluationWithNames struct {
	Evaluation
	SubjectName string `db:"subject_name" json:"subject_name"`
	RaterName   string `db:"rater_name" json:"rater_name"`
}

// CompletedEvaluation is a completed task joined with its period and rater
// identity, as consumed by the results consolidator.
type CompletedEvaluation struct {
	ID          string     `db:"id" json:"id"`
	PeriodName  string     `db:"period_name" json:"period"`
	PeriodYear  int        `db:"period_year" json:"-"`
	RaterType   RaterType  `db:"rater_type" json:"rater_type"`
	TotalScore  float64    `db:"total_score" json:"score"`
	CompletedAt *time.Time `db:"completed_at" json:"date"`
	RaterID     string     `db:"rater_id" json:"rater_id"`
	RaterName   string     `db:"rater_name" json:"rater_name"`
}

// PendingEvaluation is an open task shown on a rater's worklist.
type PendingEvaluation struct {
	ID          string          `db:"id" json:"id"`
	State       EvaluationState `db:"state" json:"state"`
	RaterType   RaterType       `db:"rater_type" json:"rater_type"`
	AssignedAt  time.Time       `db:"assigned_at" json:"assigned_at"`
	SubjectID   string          `db:"subject_id" json:"subject_id"`
	SubjectName string          `db:"subject_name" json:"subject_name"`
	PeriodID    string          `db:"period_id" json:"period_id"`
	PeriodName  string          `db:"period_name" json:"period_name"`
}

// EvaluationStats aggregates completion figures for dashboards.
type EvaluationStats struct {
	Total            int      `json:"total"`
	Pending          int      `json:"pending"`
	Completed        int      `json:"completed"`
	CompletedPercent int      `json:"completed_percent"`
	OverallAverage   *float64 `json:"overall_average,omitempty"`
}
