package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clinicamia/hr-performance-api/internal/dto"
	"github.com/clinicamia/hr-performance-api/internal/models"
	appErrors "github.com/clinicamia/hr-performance-api/pkg/errors"
	"github.com/clinicamia/hr-performance-api/pkg/export"
)

type evaluationRepo interface {
	FindByID(ctx context.Context, id string) (*models.Evaluation, error)
	ListPendingByRater(ctx context.Context, raterID string) ([]models.PendingEvaluation, error)
	Complete(ctx context.Context, evaluation *models.Evaluation) (bool, error)
	ListCompletedByEmployee(ctx context.Context, employeeID string, year int) ([]models.CompletedEvaluation, error)
	Stats(ctx context.Context, periodID string) (*models.EvaluationStats, error)
}

type resultsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ResponseItemRequest is one answered question in a submission.
type ResponseItemRequest struct {
	Score            float64 `json:"score" validate:"gte=0"`
	Weight           float64 `json:"weight" validate:"gte=0"`
	QualitativeNotes string  `json:"qualitative_notes"`
}

// SubmitRequest carries a rater's answers for one evaluation task.
type SubmitRequest struct {
	Responses        []ResponseItemRequest `json:"responses" validate:"required,min=1,dive"`
	Strengths        *string               `json:"strengths"`
	ImprovementAreas *string               `json:"improvement_areas"`
	GeneralComment   *string               `json:"general_comment"`
}

// SubmitResult summarises a completed submission.
type SubmitResult struct {
	ID          string                 `json:"id"`
	TotalScore  float64                `json:"total_score"`
	State       models.EvaluationState `json:"state"`
	CompletedAt *time.Time             `json:"completed_at"`
}

// EvaluationService accepts evaluation submissions and consolidates results.
type EvaluationService struct {
	evaluations evaluationRepo
	cache       resultsCache
	cacheTTL    time.Duration
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEvaluationService constructs an EvaluationService. A nil cache disables
// result caching.
func NewEvaluationService(evaluations evaluationRepo, cache resultsCache, cacheTTL time.Duration, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EvaluationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{
		evaluations: evaluations,
		cache:       cache,
		cacheTTL:    cacheTTL,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// PendingForRater lists a rater's open tasks, oldest assignment first.
func (s *EvaluationService) PendingForRater(ctx context.Context, raterID string) ([]models.PendingEvaluation, error) {
	pending, err := s.evaluations.ListPendingByRater(ctx, raterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending evaluations")
	}
	return pending, nil
}

// Submit records a rater's answers for one task, computes the weighted score
// and completes the task. Preconditions are checked in a fixed order: the
// task must exist, belong to the submitting rater, and not be completed yet.
func (s *EvaluationService) Submit(ctx context.Context, taskID, raterID string, req SubmitRequest) (*SubmitResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	evaluation, err := s.evaluations.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation")
	}
	if evaluation.RaterEmployeeID != raterID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "evaluation is assigned to a different rater")
	}
	if evaluation.State == models.EvaluationCompleted {
		return nil, alreadyCompletedError(evaluation)
	}

	responses := make(models.ResponseList, 0, len(req.Responses))
	for _, item := range req.Responses {
		responses = append(responses, models.ResponseItem{
			Score:            item.Score,
			Weight:           item.Weight,
			QualitativeNotes: item.QualitativeNotes,
		})
	}

	totalScore := weightedScore(responses)
	evaluation.Responses = responses
	evaluation.TotalScore = &totalScore
	evaluation.Strengths = req.Strengths
	evaluation.ImprovementAreas = req.ImprovementAreas
	evaluation.GeneralComment = req.GeneralComment

	completed, err := s.evaluations.Complete(ctx, evaluation)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete evaluation")
	}
	if !completed {
		// A concurrent submission won the conditional update.
		current, loadErr := s.evaluations.FindByID(ctx, taskID)
		if loadErr == nil {
			return nil, alreadyCompletedError(current)
		}
		return nil, appErrors.ErrAlreadyCompleted
	}

	s.metrics.IncEvaluationCompleted(string(evaluation.RaterType))
	s.invalidateResults(ctx, evaluation.SubjectEmployeeID)

	return &SubmitResult{
		ID:          evaluation.ID,
		TotalScore:  totalScore,
		State:       evaluation.State,
		CompletedAt: evaluation.CompletedAt,
	}, nil
}

// EmployeeResults consolidates an employee's completed evaluations into
// per-rater-type averages and one overall score, optionally scoped to a year.
func (s *EvaluationService) EmployeeResults(ctx context.Context, employeeID string, year int) (*dto.EmployeeResults, error) {
	cacheKey := resultsCacheKey(employeeID, year)
	if s.cache != nil {
		var cached dto.EmployeeResults
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.IncCacheHit()
			return &cached, nil
		}
		s.metrics.IncCacheMiss()
	}

	completed, err := s.evaluations.ListCompletedByEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load completed evaluations")
	}

	sums := make(map[models.RaterType]float64)
	counts := make(map[models.RaterType]int)
	var overall float64
	for _, evaluation := range completed {
		sums[evaluation.RaterType] += evaluation.TotalScore
		counts[evaluation.RaterType]++
		overall += evaluation.TotalScore
	}

	averages := make(map[models.RaterType]float64, len(sums))
	for raterType, sum := range sums {
		averages[raterType] = round2(sum / float64(counts[raterType]))
	}

	// The consolidated score is a flat mean over all completed tasks; the
	// period's evaluator weights are not applied here.
	// TODO: weight the per-rater-type averages by the period configuration
	// and normalize by the weights actually represented.
	consolidated := 0.0
	if len(completed) > 0 {
		consolidated = round2(overall / float64(len(completed)))
	}

	results := &dto.EmployeeResults{
		EmployeeID:        employeeID,
		Year:              year,
		Evaluations:       completed,
		AveragesByRater:   averages,
		ConsolidatedScore: consolidated,
		TotalEvaluations:  len(completed),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, results, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache employee results", zap.Error(err))
		}
	}
	return results, nil
}

// ExportResults renders an employee's consolidated results as CSV or PDF.
func (s *EvaluationService) ExportResults(ctx context.Context, employeeID string, year int, format string) ([]byte, string, error) {
	results, err := s.EmployeeResults(ctx, employeeID, year)
	if err != nil {
		return nil, "", err
	}

	report := buildResultsReport(results)
	switch format {
	case "csv":
		data, err := s.csv.Render(report)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", nil
	case "pdf":
		data, err := s.pdf.Render(report)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// Stats aggregates completion figures, optionally scoped to one period.
func (s *EvaluationService) Stats(ctx context.Context, periodID string) (*models.EvaluationStats, error) {
	stats, err := s.evaluations.Stats(ctx, periodID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate evaluation stats")
	}
	if stats.OverallAverage != nil {
		rounded := round2(*stats.OverallAverage)
		stats.OverallAverage = &rounded
	}
	return stats, nil
}

func (s *EvaluationService) invalidateResults(ctx context.Context, employeeID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "results:"+employeeID+":*"); err != nil {
		s.logger.Warn("failed to invalidate results cache",
			zap.String("employee_id", employeeID), zap.Error(err))
	}
}

func alreadyCompletedError(evaluation *models.Evaluation) error {
	if evaluation != nil && evaluation.CompletedAt != nil {
		return appErrors.Clone(appErrors.ErrAlreadyCompleted,
			fmt.Sprintf("evaluation already completed at %s", evaluation.CompletedAt.Format(time.RFC3339)))
	}
	return appErrors.ErrAlreadyCompleted
}

// weightedScore is the weight-normalized mean of the response scores. Items
// carry individual weights because questions differ in importance within one
// form; a zero weight sum yields zero.
func weightedScore(responses models.ResponseList) float64 {
	var weightedSum, weightTotal float64
	for _, item := range responses {
		weightedSum += item.Score * item.Weight
		weightTotal += item.Weight
	}
	if weightTotal == 0 {
		return 0
	}
	return weightedSum / weightTotal
}

func resultsCacheKey(employeeID string, year int) string {
	return "results:" + employeeID + ":" + strconv.Itoa(year)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func buildResultsReport(results *dto.EmployeeResults) export.Report {
	title := "Performance Evaluation Results"
	summary := []export.SummaryLine{
		{Label: "Employee", Value: results.EmployeeID},
		{Label: "Consolidated score", Value: strconv.FormatFloat(results.ConsolidatedScore, 'f', 2, 64)},
		{Label: "Evaluations", Value: strconv.Itoa(results.TotalEvaluations)},
	}
	if results.Year != 0 {
		summary = append(summary, export.SummaryLine{Label: "Year", Value: strconv.Itoa(results.Year)})
	}
	for _, raterType := range []models.RaterType{models.RaterSelf, models.RaterManager, models.RaterPeer, models.RaterSubordinate} {
		if avg, ok := results.AveragesByRater[raterType]; ok {
			summary = append(summary, export.SummaryLine{
				Label: "Average " + string(raterType),
				Value: strconv.FormatFloat(avg, 'f', 2, 64),
			})
		}
	}

	rows := make([][]string, 0, len(results.Evaluations))
	for _, evaluation := range results.Evaluations {
		date := ""
		if evaluation.CompletedAt != nil {
			date = evaluation.CompletedAt.Format(dateLayout)
		}
		rows = append(rows, []string{
			evaluation.PeriodName,
			string(evaluation.RaterType),
			evaluation.RaterName,
			strconv.FormatFloat(round2(evaluation.TotalScore), 'f', 2, 64),
			date,
		})
	}

	return export.Report{
		Title:   title,
		Summary: summary,
		Headers: []string{"Period", "Rater Type", "Rater", "Score", "Completed"},
		Rows:    rows,
	}
}
