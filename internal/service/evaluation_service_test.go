package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinicamia/hr-performance-api/internal/models"
	appErrors "github.com/clinicamia/hr-performance-api/pkg/errors"
)

type mockEvaluationRepo struct {
	items          map[string]*models.Evaluation
	completed      []models.CompletedEvaluation
	completedCalls int
	pending        []models.PendingEvaluation
	stats          *models.EvaluationStats
}

func (m *mockEvaluationRepo) FindByID(ctx context.Context, id string) (*models.Evaluation, error) {
	if evaluation, ok := m.items[id]; ok {
		cp := *evaluation
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEvaluationRepo) ListPendingByRater(ctx context.Context, raterID string) ([]models.PendingEvaluation, error) {
	return m.pending, nil
}

func (m *mockEvaluationRepo) Complete(ctx context.Context, evaluation *models.Evaluation) (bool, error) {
	m.completedCalls++
	now := time.Now().UTC()
	evaluation.CompletedAt = &now
	evaluation.State = models.EvaluationCompleted
	current, ok := m.items[evaluation.ID]
	if !ok || current.State == models.EvaluationCompleted {
		return false, nil
	}
	cp := *evaluation
	m.items[evaluation.ID] = &cp
	return true, nil
}

func (m *mockEvaluationRepo) ListCompletedByEmployee(ctx context.Context, employeeID string, year int) ([]models.CompletedEvaluation, error) {
	return m.completed, nil
}

func (m *mockEvaluationRepo) Stats(ctx context.Context, periodID string) (*models.EvaluationStats, error) {
	return m.stats, nil
}

type mockResultsCache struct {
	values     map[string][]byte
	hits       int
	deletedPat string
}

func (m *mockResultsCache) Get(ctx context.Context, key string, dest interface{}) error {
	if _, ok := m.values[key]; ok {
		m.hits++
		return nil
	}
	return appErrors.ErrCacheMiss
}

func (m *mockResultsCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.values == nil {
		m.values = make(map[string][]byte)
	}
	m.values[key] = []byte("cached")
	return nil
}

func (m *mockResultsCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletedPat = pattern
	for key := range m.values {
		if strings.HasPrefix(key, strings.TrimSuffix(pattern, "*")) {
			delete(m.values, key)
		}
	}
	return nil
}

func newEvaluationService(repo *mockEvaluationRepo, cache resultsCache) *EvaluationService {
	return NewEvaluationService(repo, cache, time.Minute, nil, validator.New(), zap.NewNop())
}

func pendingEvaluation(id, raterID string) *models.Evaluation {
	return &models.Evaluation{
		ID:                id,
		PeriodID:          "p1",
		SubjectEmployeeID: "e1",
		RaterEmployeeID:   raterID,
		RaterType:         models.RaterManager,
		State:             models.EvaluationPending,
		AssignedAt:        time.Now().UTC(),
		Responses:         models.ResponseList{},
	}
}

func TestEvaluationServiceSubmitComputesWeightedScore(t *testing.T) {
	repo := &mockEvaluationRepo{items: map[string]*models.Evaluation{
		"ev1": pendingEvaluation("ev1", "m1"),
	}}
	service := newEvaluationService(repo, nil)

	result, err := service.Submit(context.Background(), "ev1", "m1", SubmitRequest{
		Responses: []ResponseItemRequest{
			{Score: 4, Weight: 2},
			{Score: 2, Weight: 1},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 10.0/3.0, result.TotalScore, 0.0001)
	assert.Equal(t, models.EvaluationCompleted, result.State)
	require.NotNil(t, result.CompletedAt)
}

func TestEvaluationServiceSubmitZeroWeightSum(t *testing.T) {
	repo := &mockEvaluationRepo{items: map[string]*models.Evaluation{
		"ev1": pendingEvaluation("ev1", "m1"),
	}}
	service := newEvaluationService(repo, nil)

	result, err := service.Submit(context.Background(), "ev1", "m1", SubmitRequest{
		Responses: []ResponseItemRequest{{Score: 5, Weight: 0}},
	})
	require.NoError(t, err)
	assert.Zero(t, result.TotalScore)
}

func TestEvaluationServiceSubmitUnknownTask(t *testing.T) {
	service := newEvaluationService(&mockEvaluationRepo{}, nil)

	_, err := service.Submit(context.Background(), "missing", "m1", SubmitRequest{
		Responses: []ResponseItemRequest{{Score: 3, Weight: 1}},
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestEvaluationServiceSubmitWrongRater(t *testing.T) {
	repo := &mockEvaluationRepo{items: map[string]*models.Evaluation{
		"ev1": pendingEvaluation("ev1", "m1"),
	}}
	service := newEvaluationService(repo, nil)

	_, err := service.Submit(context.Background(), "ev1", "intruder", SubmitRequest{
		Responses: []ResponseItemRequest{{Score: 3, Weight: 1}},
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Zero(t, repo.completedCalls)
}

func TestEvaluationServiceSubmitTwice(t *testing.T) {
	repo := &mockEvaluationRepo{items: map[string]*models.Evaluation{
		"ev1": pendingEvaluation("ev1", "m1"),
	}}
	service := newEvaluationService(repo, nil)

	payload := SubmitRequest{Responses: []ResponseItemRequest{{Score: 4, Weight: 1}}}
	_, err := service.Submit(context.Background(), "ev1", "m1", payload)
	require.NoError(t, err)

	_, err = service.Submit(context.Background(), "ev1", "m1", payload)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrAlreadyCompleted.Code, appErr.Code)
}

func TestEvaluationServiceSubmitRequiresResponses(t *testing.T) {
	service := newEvaluationService(&mockEvaluationRepo{}, nil)

	_, err := service.Submit(context.Background(), "ev1", "m1", SubmitRequest{})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestEvaluationServiceResultsConsolidation(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockEvaluationRepo{completed: []models.CompletedEvaluation{
		{ID: "c1", RaterType: models.RaterSelf, TotalScore: 5, CompletedAt: &now},
		{ID: "c2", RaterType: models.RaterManager, TotalScore: 3, CompletedAt: &now},
	}}
	service := newEvaluationService(repo, nil)

	results, err := service.EmployeeResults(context.Background(), "e1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 5.0, results.AveragesByRater[models.RaterSelf])
	assert.Equal(t, 3.0, results.AveragesByRater[models.RaterManager])
	assert.Equal(t, 4.0, results.ConsolidatedScore)
	assert.Equal(t, 2, results.TotalEvaluations)
}

func TestEvaluationServiceResultsEmpty(t *testing.T) {
	service := newEvaluationService(&mockEvaluationRepo{}, nil)

	results, err := service.EmployeeResults(context.Background(), "e1", 0)
	require.NoError(t, err)
	assert.Zero(t, results.ConsolidatedScore)
	assert.Empty(t, results.AveragesByRater)
}

func TestEvaluationServiceResultsCached(t *testing.T) {
	cache := &mockResultsCache{}
	service := newEvaluationService(&mockEvaluationRepo{}, cache)

	_, err := service.EmployeeResults(context.Background(), "e1", 2026)
	require.NoError(t, err)
	assert.Contains(t, cache.values, "results:e1:2026")

	_, err = service.EmployeeResults(context.Background(), "e1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
}

func TestEvaluationServiceSubmitInvalidatesCache(t *testing.T) {
	cache := &mockResultsCache{values: map[string][]byte{"results:e1:2026": []byte("stale")}}
	repo := &mockEvaluationRepo{items: map[string]*models.Evaluation{
		"ev1": pendingEvaluation("ev1", "m1"),
	}}
	service := newEvaluationService(repo, cache)

	_, err := service.Submit(context.Background(), "ev1", "m1", SubmitRequest{
		Responses: []ResponseItemRequest{{Score: 4, Weight: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "results:e1:*", cache.deletedPat)
	assert.NotContains(t, cache.values, "results:e1:2026")
}

func TestEvaluationServiceExportCSV(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockEvaluationRepo{completed: []models.CompletedEvaluation{
		{ID: "c1", PeriodName: "Annual 2026", RaterType: models.RaterManager, RaterName: "Dr. Lead", TotalScore: 4.5, CompletedAt: &now},
	}}
	service := newEvaluationService(repo, nil)

	data, contentType, err := service.ExportResults(context.Background(), "e1", 2026, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(data), "Annual 2026")
	assert.Contains(t, string(data), "Dr. Lead")
}

func TestEvaluationServiceExportRejectsFormat(t *testing.T) {
	service := newEvaluationService(&mockEvaluationRepo{}, nil)

	_, _, err := service.ExportResults(context.Background(), "e1", 0, "xlsx")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestEvaluationServiceStatsRounding(t *testing.T) {
	average := 3.333333
	repo := &mockEvaluationRepo{stats: &models.EvaluationStats{
		Total: 3, Pending: 1, Completed: 2, CompletedPercent: 67, OverallAverage: &average,
	}}
	service := newEvaluationService(repo, nil)

	stats, err := service.Stats(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, stats.OverallAverage)
	assert.Equal(t, 3.33, *stats.OverallAverage)
}
