package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clinicamia/hr-performance-api/internal/dto"
	"github.com/clinicamia/hr-performance-api/internal/models"
	"github.com/clinicamia/hr-performance-api/internal/repository"
	appErrors "github.com/clinicamia/hr-performance-api/pkg/errors"
)

type periodRepo interface {
	List(ctx context.Context, filter models.PeriodFilter) ([]models.PeriodSummary, int, error)
	FindByID(ctx context.Context, id string) (*models.EvaluationPeriod, error)
	Create(ctx context.Context, period *models.EvaluationPeriod) error
	StartWithTasks(ctx context.Context, periodID string, evaluations []models.Evaluation) error
}

type periodEvaluationReader interface {
	ListByPeriod(ctx context.Context, periodID string) ([]models.EvaluationWithNames, error)
}

// EmployeeDirectory supplies the point-in-time workforce hierarchy consumed
// by assignment generation.
type EmployeeDirectory interface {
	ListActiveWithHierarchy(ctx context.Context) (*models.Snapshot, error)
}

const dateLayout = "2006-01-02"

// CreatePeriodRequest carries the configuration of a new evaluation period.
type CreatePeriodRequest struct {
	Name             string             `json:"name" validate:"required"`
	Year             int                `json:"year" validate:"required,gte=2000"`
	StartDate        string             `json:"start_date" validate:"required"`
	EndDate          string             `json:"end_date" validate:"required"`
	EvaluatorWeights map[string]float64 `json:"evaluator_weights"`
}

// PeriodService owns the evaluation-period lifecycle and assignment
// generation.
type PeriodService struct {
	periods     periodRepo
	evaluations periodEvaluationReader
	directory   EmployeeDirectory
	selectors   map[models.RaterType]RaterSelector
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPeriodService constructs a PeriodService.
func NewPeriodService(periods periodRepo, evaluations periodEvaluationReader, directory EmployeeDirectory, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PeriodService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{
		periods:     periods,
		evaluations: evaluations,
		directory:   directory,
		selectors:   DefaultSelectors(),
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// List returns periods matching the filter with pagination metadata.
func (s *PeriodService) List(ctx context.Context, filter models.PeriodFilter) ([]models.PeriodSummary, *models.Pagination, error) {
	periods, total, err := s.periods.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 10
	}
	return periods, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create registers a new period in CONFIGURATION state.
func (s *PeriodService) Create(ctx context.Context, req CreatePeriodRequest) (*models.EvaluationPeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload")
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be formatted YYYY-MM-DD")
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be formatted YYYY-MM-DD")
	}
	if startDate.After(endDate) {
		return nil, appErrors.ErrInvalidRange
	}

	weights, err := parseWeights(req.EvaluatorWeights)
	if err != nil {
		return nil, err
	}

	period := &models.EvaluationPeriod{
		Name:             req.Name,
		Year:             req.Year,
		StartDate:        startDate,
		EndDate:          endDate,
		State:            models.PeriodStateConfiguration,
		EvaluatorWeights: weights,
	}
	if err := s.periods.Create(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create period")
	}
	return period, nil
}

// Get returns a period with its evaluation tasks and display identities.
func (s *PeriodService) Get(ctx context.Context, periodID string) (*dto.PeriodDetail, error) {
	period, err := s.periods.FindByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}

	evaluations, err := s.evaluations.ListByPeriod(ctx, periodID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period evaluations")
	}

	return &dto.PeriodDetail{EvaluationPeriod: *period, Evaluations: evaluations}, nil
}

// Start generates the period's evaluation tasks from the current workforce
// snapshot and activates the period. The transition and the bulk insert
// commit together; under concurrent starts exactly one caller succeeds.
func (s *PeriodService) Start(ctx context.Context, periodID string) (*dto.PeriodDetail, error) {
	period, err := s.periods.FindByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}
	if period.State != models.PeriodStateConfiguration {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "only periods in configuration can be started")
	}

	snapshot, err := s.directory.ListActiveWithHierarchy(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read workforce snapshot")
	}

	evaluations := GenerateAssignments(period, snapshot, s.selectors)
	if err := s.periods.StartWithTasks(ctx, periodID, evaluations); err != nil {
		if errors.Is(err, repository.ErrPeriodStateConflict) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "period was already started")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start period")
	}

	s.metrics.IncPeriodStarted()
	s.logger.Info("evaluation period started",
		zap.String("period_id", periodID),
		zap.Int("task_count", len(evaluations)),
		zap.Int("employee_count", len(snapshot.Employees)))

	return s.Get(ctx, periodID)
}

func parseWeights(raw map[string]float64) (models.EvaluatorWeights, error) {
	known := map[models.RaterType]bool{
		models.RaterSelf:        true,
		models.RaterManager:     true,
		models.RaterPeer:        true,
		models.RaterSubordinate: true,
	}
	weights := models.EvaluatorWeights{}
	for key, value := range raw {
		raterType := models.RaterType(key)
		if !known[raterType] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown rater type "+key)
		}
		if value < 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "evaluator weights must be non-negative")
		}
		weights[raterType] = value
	}
	return weights, nil
}
