package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinicamia/hr-performance-api/internal/middleware"
	"github.com/clinicamia/hr-performance-api/internal/models"
	"github.com/clinicamia/hr-performance-api/internal/service"
	"github.com/clinicamia/hr-performance-api/pkg/response"
)

type evaluationRepoMock struct {
	items     map[string]*models.Evaluation
	completed []models.CompletedEvaluation
	pending   []models.PendingEvaluation
	stats     *models.EvaluationStats
}

func (m *evaluationRepoMock) FindByID(ctx context.Context, id string) (*models.Evaluation, error) {
	if evaluation, ok := m.items[id]; ok {
		cp := *evaluation
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *evaluationRepoMock) ListPendingByRater(ctx context.Context, raterID string) ([]models.PendingEvaluation, error) {
	return m.pending, nil
}

func (m *evaluationRepoMock) Complete(ctx context.Context, evaluation *models.Evaluation) (bool, error) {
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

func (m *evaluationRepoMock) ListCompletedByEmployee(ctx context.Context, employeeID string, year int) ([]models.CompletedEvaluation, error) {
	return m.completed, nil
}

func (m *evaluationRepoMock) Stats(ctx context.Context, periodID string) (*models.EvaluationStats, error) {
	return m.stats, nil
}

func newEvaluationHandler(repo *evaluationRepoMock) *EvaluationHandler {
	svc := service.NewEvaluationService(repo, nil, time.Minute, nil, validator.New(), zap.NewNop())
	return NewEvaluationHandler(svc)
}

func managerClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u1", EmployeeID: "m1", Role: models.RoleManager}
}

func TestEvaluationHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &evaluationRepoMock{items: map[string]*models.Evaluation{
		"ev1": {
			ID:                "ev1",
			PeriodID:          "p1",
			SubjectEmployeeID: "e1",
			RaterEmployeeID:   "m1",
			RaterType:         models.RaterManager,
			State:             models.EvaluationPending,
			Responses:         models.ResponseList{},
		},
	}}
	handler := newEvaluationHandler(repo)

	payload, _ := json.Marshal(service.SubmitRequest{
		Responses: []service.ResponseItemRequest{{Score: 4, Weight: 1}},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/evaluations/ev1/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "ev1"}}
	c.Set(middleware.ContextUserKey, managerClaims())

	handler.Submit(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 4.0, data["total_score"])
	assert.Equal(t, string(models.EvaluationCompleted), data["state"])
}

func TestEvaluationHandlerSubmitWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newEvaluationHandler(&evaluationRepoMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/evaluations/ev1/submit", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Submit(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEvaluationHandlerSubmitCompletedTask(t *testing.T) {
	gin.SetMode(gin.TestMode)
	done := time.Now().UTC()
	repo := &evaluationRepoMock{items: map[string]*models.Evaluation{
		"ev1": {
			ID:              "ev1",
			RaterEmployeeID: "m1",
			State:           models.EvaluationCompleted,
			CompletedAt:     &done,
			Responses:       models.ResponseList{},
		},
	}}
	handler := newEvaluationHandler(repo)

	payload, _ := json.Marshal(service.SubmitRequest{
		Responses: []service.ResponseItemRequest{{Score: 4, Weight: 1}},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/evaluations/ev1/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "ev1"}}
	c.Set(middleware.ContextUserKey, managerClaims())

	handler.Submit(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestEvaluationHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Now().UTC()
	repo := &evaluationRepoMock{completed: []models.CompletedEvaluation{
		{ID: "c1", PeriodName: "Annual 2026", RaterType: models.RaterManager, RaterName: "Luis Gomez", TotalScore: 4.2, CompletedAt: &now},
	}}
	handler := newEvaluationHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/employees/e1/results/export?format=csv", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "employeeId", Value: "e1"}}

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "results-e1.csv")
	assert.Contains(t, w.Body.String(), "Annual 2026")
}

func TestEvaluationHandlerExportBadFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newEvaluationHandler(&evaluationRepoMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/employees/e1/results/export?format=xlsx", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "employeeId", Value: "e1"}}

	handler.Export(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluationHandlerPending(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &evaluationRepoMock{pending: []models.PendingEvaluation{
		{ID: "ev1", State: models.EvaluationPending, RaterType: models.RaterManager, SubjectID: "e1", SubjectName: "Ana Perez"},
	}}
	handler := newEvaluationHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/evaluations/pending", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, managerClaims())

	handler.Pending(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ana Perez")
}
