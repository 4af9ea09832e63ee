package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicamia/hr-performance-api/internal/models"
)

// FeedbackRepository handles persistence for feedback notes.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts a feedback note.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO feedback (id, employee_id, author_id, type, message, public, competency, created_at)
        VALUES (:id, :employee_id, :author_id, :type, :message, :public, :competency, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, feedback); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// ListByEmployee returns feedback for an employee, newest first.
func (r *FeedbackRepository) ListByEmployee(ctx context.Context, filter models.FeedbackFilter) ([]models.FeedbackWithAuthor, int, error) {
	base := "FROM feedback f JOIN employees a ON a.id = f.author_id WHERE f.employee_id = $1"
	args := []interface{}{filter.EmployeeID}
	if filter.Type != "" {
		base += fmt.Sprintf(" AND f.type = $%d", len(args)+1)
		args = append(args, filter.Type)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT f.id, f.employee_id, f.author_id, f.type, f.message, f.public, f.competency, f.created_at,
        a.first_name || ' ' || a.last_name AS author_name
        %s ORDER BY f.created_at DESC LIMIT %d OFFSET %d`, base, size, offset)

	var feedback []models.FeedbackWithAuthor
	if err := r.db.SelectContext(ctx, &feedback, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list feedback: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count feedback: %w", err)
	}

	return feedback, total, nil
}
