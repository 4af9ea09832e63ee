package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicamia/hr-performance-api/internal/models"
)

// ObjectiveRepository handles persistence for employee objectives.
type ObjectiveRepository struct {
	db *sqlx.DB
}

// NewObjectiveRepository creates a new objective repository.
func NewObjectiveRepository(db *sqlx.DB) *ObjectiveRepository {
	return &ObjectiveRepository{db: db}
}

// FindByID loads an objective by identifier.
func (r *ObjectiveRepository) FindByID(ctx context.Context, id string) (*models.Objective, error) {
	const query = `SELECT id, employee_id, title, description, type, start_date, end_date, weight, metric, target_value, current_value, progress_percent, state, year, created_at, updated_at
        FROM objectives WHERE id = $1`
	var objective models.Objective
	if err := r.db.GetContext(ctx, &objective, query, id); err != nil {
		return nil, err
	}
	return &objective, nil
}

// ListByEmployee returns an employee's objectives, optionally for one year.
func (r *ObjectiveRepository) ListByEmployee(ctx context.Context, employeeID string, year int) ([]models.Objective, error) {
	query := `SELECT id, employee_id, title, description, type, start_date, end_date, weight, metric, target_value, current_value, progress_percent, state, year, created_at, updated_at
        FROM objectives WHERE employee_id = $1`
	args := []interface{}{employeeID}
	if year != 0 {
		query += " AND year = $2"
		args = append(args, year)
	}
	query += " ORDER BY year DESC, created_at ASC"

	var objectives []models.Objective
	if err := r.db.SelectContext(ctx, &objectives, query, args...); err != nil {
		return nil, fmt.Errorf("list objectives: %w", err)
	}
	return objectives, nil
}

// Create inserts a new objective record.
func (r *ObjectiveRepository) Create(ctx context.Context, objective *models.Objective) error {
	if objective.ID == "" {
		objective.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if objective.CreatedAt.IsZero() {
		objective.CreatedAt = now
	}
	objective.UpdatedAt = now

	const query = `INSERT INTO objectives (id, employee_id, title, description, type, start_date, end_date, weight, metric, target_value, current_value, progress_percent, state, year, created_at, updated_at)
        VALUES (:id, :employee_id, :title, :description, :type, :start_date, :end_date, :weight, :metric, :target_value, :current_value, :progress_percent, :state, :year, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, objective); err != nil {
		return fmt.Errorf("create objective: %w", err)
	}
	return nil
}

// UpdateProgress persists a progress update.
func (r *ObjectiveRepository) UpdateProgress(ctx context.Context, objective *models.Objective) error {
	objective.UpdatedAt = time.Now().UTC()
	const query = `UPDATE objectives SET progress_percent = :progress_percent, current_value = :current_value, state = :state, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, objective); err != nil {
		return fmt.Errorf("update objective progress: %w", err)
	}
	return nil
}
