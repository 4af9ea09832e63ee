package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicamia/hr-performance-api/internal/models"
)

// ErrPeriodStateConflict signals that a compare-and-set state transition
// matched no row: the period was not in the expected state.
var ErrPeriodStateConflict = errors.New("period not in expected state")

// PeriodRepository handles persistence for evaluation periods.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository creates a new period repository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// List returns periods matching the filter, newest first, with task counts.
func (r *PeriodRepository) List(ctx context.Context, filter models.PeriodFilter) ([]models.PeriodSummary, int, error) {
	base := "FROM evaluation_periods p WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("p.year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.State != "" {
		conditions = append(conditions, fmt.Sprintf("p.state = $%d", len(args)+1))
		args = append(args, filter.State)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 10
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT p.id, p.name, p.year, p.start_date, p.end_date, p.state, p.evaluator_weights, p.created_at, p.updated_at,
        (SELECT COUNT(*) FROM evaluations e WHERE e.period_id = p.id) AS evaluation_count
        %s ORDER BY p.year DESC, p.start_date DESC LIMIT %d OFFSET %d`, base, size, offset)

	var periods []models.PeriodSummary
	if err := r.db.SelectContext(ctx, &periods, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list periods: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count periods: %w", err)
	}

	return periods, total, nil
}

// FindByID loads a period by identifier.
func (r *PeriodRepository) FindByID(ctx context.Context, id string) (*models.EvaluationPeriod, error) {
	const query = `SELECT id, name, year, start_date, end_date, state, evaluator_weights, created_at, updated_at FROM evaluation_periods WHERE id = $1`
	var period models.EvaluationPeriod
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		return nil, err
	}
	return &period, nil
}

// Create inserts a new period record.
func (r *PeriodRepository) Create(ctx context.Context, period *models.EvaluationPeriod) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if period.CreatedAt.IsZero() {
		period.CreatedAt = now
	}
	period.UpdatedAt = now

	const query = `INSERT INTO evaluation_periods (id, name, year, start_date, end_date, state, evaluator_weights, created_at, updated_at)
        VALUES (:id, :name, :year, :start_date, :end_date, :state, :evaluator_weights, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("create period: %w", err)
	}
	return nil
}

// StartWithTasks transitions a period from CONFIGURATION to EVALUATION_ACTIVE
// and inserts the generated evaluation tasks in the same transaction. The
// state change is a compare-and-set, so a concurrent start of the same period
// observes ErrPeriodStateConflict and no duplicate tasks are written.
func (r *PeriodRepository) StartWithTasks(ctx context.Context, periodID string, evaluations []models.Evaluation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin start period tx: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE evaluation_periods SET state = $1, updated_at = $2 WHERE id = $3 AND state = $4`,
		models.PeriodStateActive, time.Now().UTC(), periodID, models.PeriodStateConfiguration)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("transition period state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("inspect state transition: %w", err)
	}
	if affected == 0 {
		tx.Rollback() //nolint:errcheck
		return ErrPeriodStateConflict
	}

	const insert = `INSERT INTO evaluations (id, period_id, subject_employee_id, rater_employee_id, rater_type, state, assigned_at, responses)
        VALUES (:id, :period_id, :subject_employee_id, :rater_employee_id, :rater_type, :state, :assigned_at, :responses)`
	for i := range evaluations {
		if evaluations[i].ID == "" {
			evaluations[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, insert, evaluations[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert evaluation task: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit start period tx: %w", err)
	}
	return nil
}
