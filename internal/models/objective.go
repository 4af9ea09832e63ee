package models

import "time"

// ObjectiveState tracks a goal's progress lifecycle.
type ObjectiveState string

const (
	ObjectivePending    ObjectiveState = "PENDING"
	ObjectiveInProgress ObjectiveState = "IN_PROGRESS"
	ObjectiveCompleted  ObjectiveState = "COMPLETED"
)

// Objective is a goal tracked per employee and year, independent of
// evaluation tasks.
type Objective struct {
	ID              string         `db:"id" json:"id"`
	EmployeeID      string         `db:"employee_id" json:"employee_id"`
	Title           string         `db:"title" json:"title"`
	Description     *string        `db:"description" json:"description,omitempty"`
	Type            *string        `db:"type" json:"type,omitempty"`
	StartDate       *time.Time     `db:"start_date" json:"start_date,omitempty"`
	EndDate         *time.Time     `db:"end_date" json:"end_date,omitempty"`
	Weight          float64        `db:"weight" json:"weight"`
	Metric          string         `db:"metric" json:"metric"`
	TargetValue     *float64       `db:"target_value" json:"target_value,omitempty"`
	CurrentValue    float64        `db:"current_value" json:"current_value"`
	ProgressPercent float64        `db:"progress_percent" json:"progress_percent"`
	State           ObjectiveState `db:"state" json:"state"`
	Year            int            `db:"year" json:"year"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}
