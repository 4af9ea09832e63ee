package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinicamia/hr-performance-api/internal/models"
	appErrors "github.com/clinicamia/hr-performance-api/pkg/errors"
)

type mockObjectiveRepo struct {
	items map[string]*models.Objective
	list  []models.Objective
}

func (m *mockObjectiveRepo) FindByID(ctx context.Context, id string) (*models.Objective, error) {
	if objective, ok := m.items[id]; ok {
		cp := *objective
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockObjectiveRepo) ListByEmployee(ctx context.Context, employeeID string, year int) ([]models.Objective, error) {
	return m.list, nil
}

func (m *mockObjectiveRepo) Create(ctx context.Context, objective *models.Objective) error {
	if m.items == nil {
		m.items = make(map[string]*models.Objective)
	}
	if objective.ID == "" {
		objective.ID = "generated"
	}
	cp := *objective
	m.items[objective.ID] = &cp
	return nil
}

func (m *mockObjectiveRepo) UpdateProgress(ctx context.Context, objective *models.Objective) error {
	cp := *objective
	m.items[objective.ID] = &cp
	return nil
}

type mockEmployeeReader struct {
	items map[string]*models.Employee
}

func (m *mockEmployeeReader) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	if employee, ok := m.items[id]; ok {
		return employee, nil
	}
	return nil, sql.ErrNoRows
}

func newObjectiveService(repo *mockObjectiveRepo, employees *mockEmployeeReader) *ObjectiveService {
	return NewObjectiveService(repo, employees, validator.New(), zap.NewNop())
}

func knownEmployees(ids ...string) *mockEmployeeReader {
	items := make(map[string]*models.Employee, len(ids))
	for _, id := range ids {
		items[id] = &models.Employee{ID: id, Status: models.EmployeeActive}
	}
	return &mockEmployeeReader{items: items}
}

func TestObjectiveServiceCreateDefaults(t *testing.T) {
	repo := &mockObjectiveRepo{}
	service := newObjectiveService(repo, knownEmployees("e1"))

	objective, err := service.Create(context.Background(), "e1", CreateObjectiveRequest{
		Title: "Reduce patient wait time",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ObjectivePending, objective.State)
	assert.Equal(t, "PERCENTAGE", objective.Metric)
	assert.Equal(t, 100.0, objective.Weight)
	assert.Equal(t, time.Now().UTC().Year(), objective.Year)
	assert.Zero(t, objective.ProgressPercent)
}

func TestObjectiveServiceCreateUnknownEmployee(t *testing.T) {
	service := newObjectiveService(&mockObjectiveRepo{}, knownEmployees())

	_, err := service.Create(context.Background(), "ghost", CreateObjectiveRequest{Title: "X"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestObjectiveServiceProgressCompletesAtHundred(t *testing.T) {
	repo := &mockObjectiveRepo{items: map[string]*models.Objective{
		"o1": {ID: "o1", EmployeeID: "e1", Title: "X", State: models.ObjectiveInProgress, ProgressPercent: 60},
	}}
	service := newObjectiveService(repo, knownEmployees("e1"))

	objective, err := service.UpdateProgress(context.Background(), "o1", UpdateProgressRequest{ProgressPercent: 100})
	require.NoError(t, err)
	assert.Equal(t, models.ObjectiveCompleted, objective.State)
	assert.Equal(t, 100.0, objective.ProgressPercent)
}

func TestObjectiveServiceCompletionIsSticky(t *testing.T) {
	repo := &mockObjectiveRepo{items: map[string]*models.Objective{
		"o1": {ID: "o1", EmployeeID: "e1", Title: "X", State: models.ObjectiveCompleted, ProgressPercent: 100},
	}}
	service := newObjectiveService(repo, knownEmployees("e1"))

	objective, err := service.UpdateProgress(context.Background(), "o1", UpdateProgressRequest{ProgressPercent: 40})
	require.NoError(t, err)
	// The lower figure is recorded but the objective stays completed.
	assert.Equal(t, models.ObjectiveCompleted, objective.State)
	assert.Equal(t, 40.0, objective.ProgressPercent)
}

func TestObjectiveServiceProgressOutOfRange(t *testing.T) {
	service := newObjectiveService(&mockObjectiveRepo{}, knownEmployees("e1"))

	_, err := service.UpdateProgress(context.Background(), "o1", UpdateProgressRequest{ProgressPercent: 150})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestObjectiveServiceProgressUnknownObjective(t *testing.T) {
	service := newObjectiveService(&mockObjectiveRepo{}, knownEmployees("e1"))

	_, err := service.UpdateProgress(context.Background(), "missing", UpdateProgressRequest{ProgressPercent: 10})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
