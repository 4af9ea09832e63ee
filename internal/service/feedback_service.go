package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clinicamia/hr-performance-api/internal/models"
	appErrors "github.com/clinicamia/hr-performance-api/pkg/errors"
)

type feedbackRepo interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ListByEmployee(ctx context.Context, filter models.FeedbackFilter) ([]models.FeedbackWithAuthor, int, error)
}

// CreateFeedbackRequest carries a feedback note for an employee.
type CreateFeedbackRequest struct {
	Type       models.FeedbackType `json:"type" validate:"required,oneof=RECOGNITION IMPROVEMENT GENERAL"`
	Message    string              `json:"message" validate:"required"`
	Public     bool                `json:"public"`
	Competency *string             `json:"competency"`
}

// FeedbackService manages free-form feedback notes.
type FeedbackService struct {
	feedback  feedbackRepo
	employees employeeReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(feedback feedbackRepo, employees employeeReader, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{feedback: feedback, employees: employees, validator: validate, logger: logger}
}

// Create records a feedback note authored by the calling employee.
func (s *FeedbackService) Create(ctx context.Context, employeeID, authorID string, req CreateFeedbackRequest) (*models.Feedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}

	if _, err := s.employees.FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	feedback := &models.Feedback{
		EmployeeID: employeeID,
		AuthorID:   authorID,
		Type:       req.Type,
		Message:    req.Message,
		Public:     req.Public,
		Competency: req.Competency,
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create feedback")
	}
	return feedback, nil
}

// List returns feedback for an employee with pagination metadata.
func (s *FeedbackService) List(ctx context.Context, filter models.FeedbackFilter) ([]models.FeedbackWithAuthor, *models.Pagination, error) {
	feedback, total, err := s.feedback.ListByEmployee(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return feedback, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}
