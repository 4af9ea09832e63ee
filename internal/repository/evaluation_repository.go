package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clinicamia/hr-performance-api/internal/models"
)

// EvaluationRepository handles persistence for evaluation tasks.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository creates a new evaluation repository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// FindByID loads an evaluation task by identifier.
func (r *EvaluationRepository) FindByID(ctx context.Context, id string) (*models.Evaluation, error) {
	const query = `SELECT id, period_id, subject_employee_id, rater_employee_id, rater_type, state, assigned_at, completed_at, responses, total_score, strengths, improvement_areas, general_comment
        FROM evaluations WHERE id = $1`
	var evaluation models.Evaluation
	if err := r.db.GetContext(ctx, &evaluation, query, id); err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// ListByPeriod returns all tasks of a period with subject and rater names.
func (r *EvaluationRepository) ListByPeriod(ctx context.Context, periodID string) ([]models.EvaluationWithNames, error) {
	const query = `SELECT e.id, e.period_id, e.subject_employee_id, e.rater_employee_id, e.rater_type, e.state, e.assigned_at, e.completed_at, e.responses, e.total_score, e.strengths, e.improvement_areas, e.general_comment,
        s.first_name || ' ' || s.last_name AS subject_name,
        v.first_name || ' ' || v.last_name AS rater_name
        FROM evaluations e
        JOIN employees s ON s.id = e.subject_employee_id
        JOIN employees v ON v.id = e.rater_employee_id
        WHERE e.period_id = $1
        ORDER BY s.last_name, s.first_name, e.rater_type`
	var evaluations []models.EvaluationWithNames
	if err := r.db.SelectContext(ctx, &evaluations, query, periodID); err != nil {
		return nil, fmt.Errorf("list period evaluations: %w", err)
	}
	return evaluations, nil
}

// ListPendingByRater returns open tasks assigned to a rater, oldest first.
func (r *EvaluationRepository) ListPendingByRater(ctx context.Context, raterID string) ([]models.PendingEvaluation, error) {
	const query = `SELECT e.id, e.state, e.rater_type, e.assigned_at,
        e.subject_employee_id AS subject_id,
        s.first_name || ' ' || s.last_name AS subject_name,
        p.id AS period_id, p.name AS period_name
        FROM evaluations e
        JOIN employees s ON s.id = e.subject_employee_id
        JOIN evaluation_periods p ON p.id = e.period_id
        WHERE e.rater_employee_id = $1 AND e.state IN ($2, $3)
        ORDER BY e.assigned_at ASC`
	var pending []models.PendingEvaluation
	if err := r.db.SelectContext(ctx, &pending, query, raterID, models.EvaluationPending, models.EvaluationInProgress); err != nil {
		return nil, fmt.Errorf("list pending evaluations: %w", err)
	}
	return pending, nil
}

// Complete writes the submitted responses and marks the task COMPLETED. The
// update is guarded by the current state, so a task that was completed in the
// meantime is left untouched and the method reports false.
func (r *EvaluationRepository) Complete(ctx context.Context, evaluation *models.Evaluation) (bool, error) {
	now := time.Now().UTC()
	evaluation.CompletedAt = &now
	evaluation.State = models.EvaluationCompleted

	const query = `UPDATE evaluations
        SET responses = :responses, total_score = :total_score, strengths = :strengths,
            improvement_areas = :improvement_areas, general_comment = :general_comment,
            state = :state, completed_at = :completed_at
        WHERE id = :id AND state <> 'COMPLETED'`
	res, err := r.db.NamedExecContext(ctx, query, evaluation)
	if err != nil {
		return false, fmt.Errorf("complete evaluation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inspect completion: %w", err)
	}
	return affected == 1, nil
}

// ListCompletedByEmployee returns completed tasks for an employee, newest
// completion first, optionally scoped to a period year.
func (r *EvaluationRepository) ListCompletedByEmployee(ctx context.Context, employeeID string, year int) ([]models.CompletedEvaluation, error) {
	query := `SELECT e.id, p.name AS period_name, p.year AS period_year, e.rater_type, e.total_score, e.completed_at,
        v.id AS rater_id, v.first_name || ' ' || v.last_name AS rater_name
        FROM evaluations e
        JOIN evaluation_periods p ON p.id = e.period_id
        JOIN employees v ON v.id = e.rater_employee_id
        WHERE e.subject_employee_id = $1 AND e.state = 'COMPLETED'`
	args := []interface{}{employeeID}
	if year != 0 {
		query += " AND p.year = $2"
		args = append(args, year)
	}
	query += " ORDER BY e.completed_at DESC"

	var completed []models.CompletedEvaluation
	if err := r.db.SelectContext(ctx, &completed, query, args...); err != nil {
		return nil, fmt.Errorf("list completed evaluations: %w", err)
	}
	return completed, nil
}

// Stats aggregates completion counts, optionally scoped to one period.
func (r *EvaluationRepository) Stats(ctx context.Context, periodID string) (*models.EvaluationStats, error) {
	query := `SELECT
        COUNT(*) AS total,
        COUNT(*) FILTER (WHERE state = 'PENDING') AS pending,
        COUNT(*) FILTER (WHERE state = 'COMPLETED') AS completed,
        AVG(total_score) FILTER (WHERE state = 'COMPLETED') AS overall_average
        FROM evaluations`
	var args []interface{}
	if periodID != "" {
		query += " WHERE period_id = $1"
		args = append(args, periodID)
	}

	row := struct {
		Total          int      `db:"total"`
		Pending        int      `db:"pending"`
		Completed      int      `db:"completed"`
		OverallAverage *float64 `db:"overall_average"`
	}{}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("aggregate evaluation stats: %w", err)
	}

	stats := &models.EvaluationStats{
		Total:          row.Total,
		Pending:        row.Pending,
		Completed:      row.Completed,
		OverallAverage: row.OverallAverage,
	}
	if stats.Total > 0 {
		stats.CompletedPercent = int(float64(stats.Completed)/float64(stats.Total)*100 + 0.5)
	}
	return stats, nil
}
