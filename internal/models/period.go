package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PeriodState represents the lifecycle stage of an evaluation period.
type PeriodState string

const (
	// PeriodStateConfiguration allows weight and date adjustments before launch.
	PeriodStateConfiguration PeriodState = "CONFIGURATION"
	// PeriodStateActive means evaluation tasks have been generated and raters may submit.
	PeriodStateActive PeriodState = "EVALUATION_ACTIVE"
	// PeriodStateClosed is reserved for a future consolidation step; no transition
	// produces it yet.
	PeriodStateClosed PeriodState = "CLOSED"
)

// EvaluatorWeights maps rater types to their relative weight within a period.
// Weights are relative; they are not required to sum to 1.
type EvaluatorWeights map[RaterType]float64

// Value marshals the weights to JSON for persistence.
func (w EvaluatorWeights) Value() (driver.Value, error) {
	if w == nil {
		w = EvaluatorWeights{}
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal evaluator weights: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the weight map.
func (w *EvaluatorWeights) Scan(value interface{}) error {
	if value == nil {
		*w = EvaluatorWeights{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for EvaluatorWeights", value)
	}
	if len(data) == 0 {
		*w = EvaluatorWeights{}
		return nil
	}
	if err := json.Unmarshal(data, w); err != nil {
		return fmt.Errorf("unmarshal evaluator weights: %w", err)
	}
	return nil
}

// Weight returns the configured weight for a rater type, zero when absent.
func (w EvaluatorWeights) Weight(raterType RaterType) float64 {
	if w == nil {
		return 0
	}
	return w[raterType]
}

// EvaluationPeriod is a bounded time window in which evaluations are collected.
type EvaluationPeriod struct {
	ID               string           `db:"id" json:"id"`
	Name             string           `db:"name" json:"name"`
	Year             int              `db:"year" json:"year"`
	StartDate        time.Time        `db:"start_date" json:"start_date"`
	EndDate          time.Time        `db:"end_date" json:"end_date"`
	State            PeriodState      `db:"state" json:"state"`
	EvaluatorWeights EvaluatorWeights `db:"evaluator_weights" json:"evaluator_weights"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// PeriodSummary is a period row enriched with its task count for listings.
type PeriodSummary struct {
	EvaluationPeriod
	EvaluationCount int `db:"evaluation_count" json:"evaluation_count"`
}

// PeriodFilter captures filtering criteria for listing periods.
type PeriodFilter struct {
	Year     int
	State    PeriodState
	Page     int
	PageSize int
}
