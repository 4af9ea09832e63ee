package models

import "time"

// EmployeeStatus marks whether an employee is currently active.
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "ACTIVE"
	EmployeeInactive EmployeeStatus = "INACTIVE"
)

// Employee is the directory record consumed by the evaluation engine. The
// directory itself is maintained elsewhere; this service only reads it.
type Employee struct {
	ID        string         `db:"id" json:"id"`
	FirstName string         `db:"first_name" json:"first_name"`
	LastName  string         `db:"last_name" json:"last_name"`
	Position  *string        `db:"position" json:"position,omitempty"`
	ManagerID *string        `db:"manager_id" json:"manager_id,omitempty"`
	Status    EmployeeStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// EmployeeNode is one employee within an organizational snapshot: identity
// plus manager and direct-report links at the time the snapshot was taken.
type EmployeeNode struct {
	ID             string
	ManagerID      *string
	SubordinateIDs []string
}

// Snapshot is a point-in-time view of the active workforce hierarchy.
type Snapshot struct {
	Employees []EmployeeNode
	byID      map[string]*EmployeeNode
}

// NewSnapshot builds a snapshot with an index over employee IDs.
func NewSnapshot(employees []EmployeeNode) *Snapshot {
	s := &Snapshot{Employees: employees, byID: make(map[string]*EmployeeNode, len(employees))}
	for i := range s.Employees {
		s.byID[s.Employees[i].ID] = &s.Employees[i]
	}
	return s
}

// Find returns the node for an employee ID, nil when absent.
func (s *Snapshot) Find(id string) *EmployeeNode {
	if s == nil {
		return nil
	}
	return s.byID[id]
}
