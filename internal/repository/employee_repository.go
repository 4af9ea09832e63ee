package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/clinicamia/hr-performance-api/internal/models"
)

// EmployeeRepository reads the employee directory. The directory is owned by
// the personnel system; this service never writes to it.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository creates a new employee repository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// FindByID loads an employee by identifier.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	const query = `SELECT id, first_name, last_name, position, manager_id, status, created_at FROM employees WHERE id = $1`
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// ListActiveWithHierarchy returns a one-shot snapshot of all active employees
// with their manager links; subordinate links are derived by inverting the
// manager relation within the same result set.
func (r *EmployeeRepository) ListActiveWithHierarchy(ctx context.Context) (*models.Snapshot, error) {
	const query = `SELECT id, first_name, last_name, position, manager_id, status, created_at
        FROM employees WHERE status = $1 ORDER BY last_name, first_name`
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, models.EmployeeActive); err != nil {
		return nil, fmt.Errorf("list active employees: %w", err)
	}

	active := make(map[string]bool, len(employees))
	for _, e := range employees {
		active[e.ID] = true
	}

	subordinates := make(map[string][]string)
	nodes := make([]models.EmployeeNode, 0, len(employees))
	for _, e := range employees {
		node := models.EmployeeNode{ID: e.ID}
		// A manager link pointing outside the active set is dropped from the
		// snapshot so no task is assigned to an inactive rater.
		if e.ManagerID != nil && active[*e.ManagerID] {
			managerID := *e.ManagerID
			node.ManagerID = &managerID
			subordinates[managerID] = append(subordinates[managerID], e.ID)
		}
		nodes = append(nodes, node)
	}
	for i := range nodes {
		nodes[i].SubordinateIDs = subordinates[nodes[i].ID]
	}

	return models.NewSnapshot(nodes), nil
}
