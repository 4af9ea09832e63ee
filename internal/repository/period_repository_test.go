package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicamia/hr-performance-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPeriodRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "year", "start_date", "end_date", "state", "evaluator_weights", "created_at", "updated_at"}).
		AddRow("p1", "Annual 2026", 2026, time.Now(), time.Now(), "CONFIGURATION", []byte(`{"SELF":0.2,"MANAGER":0.8}`), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, year, start_date, end_date, state, evaluator_weights, created_at, updated_at FROM evaluation_periods WHERE id = $1")).
		WithArgs("p1").
		WillReturnRows(rows)

	period, err := repo.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.PeriodStateConfiguration, period.State)
	assert.Equal(t, 0.8, period.EvaluatorWeights.Weight(models.RaterManager))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "year", "start_date", "end_date", "state", "evaluator_weights", "created_at", "updated_at", "evaluation_count"}).
		AddRow("p1", "Annual 2026", 2026, time.Now(), time.Now(), "EVALUATION_ACTIVE", []byte(`{}`), time.Now(), time.Now(), 42)
	mock.ExpectQuery("SELECT p.id, p.name, p.year").
		WithArgs(2026).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM evaluation_periods p WHERE 1=1 AND p.year = $1")).
		WithArgs(2026).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	periods, total, err := repo.List(context.Background(), models.PeriodFilter{Year: 2026})
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, 42, periods[0].EvaluationCount)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryStartWithTasks(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	evaluations := []models.Evaluation{
		{PeriodID: "p1", SubjectEmployeeID: "e1", RaterEmployeeID: "e1", RaterType: models.RaterSelf, State: models.EvaluationPending, AssignedAt: time.Now(), Responses: models.ResponseList{}},
		{PeriodID: "p1", SubjectEmployeeID: "e1", RaterEmployeeID: "m1", RaterType: models.RaterManager, State: models.EvaluationPending, AssignedAt: time.Now(), Responses: models.ResponseList{}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE evaluation_periods SET state").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "p1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO evaluations").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO evaluations").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.StartWithTasks(context.Background(), "p1", evaluations)
	require.NoError(t, err)
	assert.NotEmpty(t, evaluations[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryStartWithTasksStateConflict(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE evaluation_periods SET state").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "p1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.StartWithTasks(context.Background(), "p1", nil)
	require.ErrorIs(t, err, ErrPeriodStateConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
