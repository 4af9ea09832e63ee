package dto

import (
	"github.com/clinicamia/hr-performance-api/internal/models"
)

// EmployeeResults is the consolidated evaluation report for one employee.
type EmployeeResults struct {
	EmployeeID        string                         `json:"employee_id"`
	Year              int                            `json:"year,omitempty"`
	Evaluations       []models.CompletedEvaluation   `json:"evaluations"`
	AveragesByRater   map[models.RaterType]float64   `json:"averages_by_rater_type"`
	ConsolidatedScore float64                        `json:"consolidated_score"`
	TotalEvaluations  int                            `json:"total_evaluations"`
}

// PeriodDetail is a period joined with all its evaluation tasks.
type PeriodDetail struct {
	models.EvaluationPeriod
	Evaluations []models.EvaluationWithNames `json:"evaluations"`
}
