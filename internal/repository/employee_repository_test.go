package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicamia/hr-performance-api/internal/models"
)

func TestEmployeeRepositoryListActiveWithHierarchy(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "position", "manager_id", "status", "created_at"}).
		AddRow("m1", "Luis", "Gomez", "Head Nurse", nil, "ACTIVE", now).
		AddRow("e1", "Ana", "Perez", "Nurse", "m1", "ACTIVE", now).
		AddRow("e2", "Eva", "Ruiz", "Nurse", "gone", "ACTIVE", now)
	mock.ExpectQuery("SELECT id, first_name, last_name, position, manager_id, status, created_at").
		WithArgs(string(models.EmployeeActive)).
		WillReturnRows(rows)

	snapshot, err := repo.ListActiveWithHierarchy(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Employees, 3)

	e1 := snapshot.Find("e1")
	require.NotNil(t, e1)
	require.NotNil(t, e1.ManagerID)
	assert.Equal(t, "m1", *e1.ManagerID)

	m1 := snapshot.Find("m1")
	require.NotNil(t, m1)
	assert.Equal(t, []string{"e1"}, m1.SubordinateIDs)

	// e2's manager is not in the active set, so the link is dropped.
	e2 := snapshot.Find("e2")
	require.NotNil(t, e2)
	assert.Nil(t, e2.ManagerID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "position", "manager_id", "status", "created_at"}).
		AddRow("e1", "Ana", "Perez", "Nurse", "m1", "ACTIVE", time.Now())
	mock.ExpectQuery("SELECT id, first_name, last_name, position, manager_id, status, created_at FROM employees WHERE id").
		WithArgs("e1").
		WillReturnRows(rows)

	employee, err := repo.FindByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", employee.FirstName)
	assert.Equal(t, models.EmployeeActive, employee.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
