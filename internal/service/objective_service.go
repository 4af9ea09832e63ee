package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clinicamia/hr-performance-api/internal/models"
	appErrors "github.com/clinicamia/hr-performance-api/pkg/errors"
)

type objectiveRepo interface {
	FindByID(ctx context.Context, id string) (*models.Objective, error)
	ListByEmployee(ctx context.Context, employeeID string, year int) ([]models.Objective, error)
	Create(ctx context.Context, objective *models.Objective) error
	UpdateProgress(ctx context.Context, objective *models.Objective) error
}

type employeeReader interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

// CreateObjectiveRequest carries a new goal for an employee.
type CreateObjectiveRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description"`
	Type        *string  `json:"type"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Weight      float64  `json:"weight" validate:"gte=0"`
	Metric      string   `json:"metric"`
	TargetValue *float64 `json:"target_value"`
	Year        int      `json:"year"`
}

// UpdateProgressRequest advances an objective's progress.
type UpdateProgressRequest struct {
	ProgressPercent float64  `json:"progress_percent" validate:"gte=0,lte=100"`
	CurrentValue    *float64 `json:"current_value"`
}

// ObjectiveService manages goal records per employee and year.
type ObjectiveService struct {
	objectives objectiveRepo
	employees  employeeReader
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewObjectiveService constructs an ObjectiveService.
func NewObjectiveService(objectives objectiveRepo, employees employeeReader, validate *validator.Validate, logger *zap.Logger) *ObjectiveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObjectiveService{objectives: objectives, employees: employees, validator: validate, logger: logger}
}

// Create registers a new objective for an employee. New objectives start
// PENDING with zero progress.
func (s *ObjectiveService) Create(ctx context.Context, employeeID string, req CreateObjectiveRequest) (*models.Objective, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid objective payload")
	}

	if _, err := s.employees.FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be formatted YYYY-MM-DD")
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be formatted YYYY-MM-DD")
	}

	metric := req.Metric
	if metric == "" {
		metric = "PERCENTAGE"
	}
	weight := req.Weight
	if weight == 0 {
		weight = 100
	}
	year := req.Year
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	objective := &models.Objective{
		EmployeeID:      employeeID,
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		StartDate:       startDate,
		EndDate:         endDate,
		Weight:          weight,
		Metric:          metric,
		TargetValue:     req.TargetValue,
		CurrentValue:    0,
		ProgressPercent: 0,
		State:           models.ObjectivePending,
		Year:            year,
	}
	if err := s.objectives.Create(ctx, objective); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create objective")
	}
	return objective, nil
}

// List returns an employee's objectives, optionally scoped to one year.
func (s *ObjectiveService) List(ctx context.Context, employeeID string, year int) ([]models.Objective, error) {
	objectives, err := s.objectives.ListByEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list objectives")
	}
	return objectives, nil
}

// UpdateProgress records a progress update. Reaching 100 percent completes
// the objective; completion is sticky, a later partial update records the
// lower figure but never reopens a completed objective.
func (s *ObjectiveService) UpdateProgress(ctx context.Context, objectiveID string, req UpdateProgressRequest) (*models.Objective, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid progress payload")
	}

	objective, err := s.objectives.FindByID(ctx, objectiveID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "objective not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load objective")
	}

	objective.ProgressPercent = req.ProgressPercent
	if req.CurrentValue != nil {
		objective.CurrentValue = *req.CurrentValue
	}
	if req.ProgressPercent >= 100 {
		objective.State = models.ObjectiveCompleted
	}

	if err := s.objectives.UpdateProgress(ctx, objective); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update objective")
	}
	return objective, nil
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
