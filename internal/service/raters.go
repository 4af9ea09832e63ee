package service

import (
	"time"

	"github.com/clinicamia/hr-performance-api/internal/models"
)

// RaterSelector decides which employees evaluate a given subject for one
// rater type. Each type gets its own strategy so the expansion rules stay
// independently testable.
type RaterSelector interface {
	SelectRaters(subject models.EmployeeNode, snapshot *models.Snapshot) []string
}

// SelfSelector assigns the subject as their own rater.
type SelfSelector struct{}

func (SelfSelector) SelectRaters(subject models.EmployeeNode, _ *models.Snapshot) []string {
	return []string{subject.ID}
}

// ManagerSelector assigns the subject's direct manager when one is known.
type ManagerSelector struct{}

func (ManagerSelector) SelectRaters(subject models.EmployeeNode, _ *models.Snapshot) []string {
	if subject.ManagerID == nil {
		return nil
	}
	return []string{*subject.ManagerID}
}

// PeerSelector assigns colleagues reporting to the same manager.
type PeerSelector struct{}

func (PeerSelector) SelectRaters(subject models.EmployeeNode, snapshot *models.Snapshot) []string {
	if subject.ManagerID == nil {
		return nil
	}
	manager := snapshot.Find(*subject.ManagerID)
	if manager == nil {
		return nil
	}
	peers := make([]string, 0, len(manager.SubordinateIDs))
	for _, id := range manager.SubordinateIDs {
		if id != subject.ID {
			peers = append(peers, id)
		}
	}
	return peers
}

// SubordinateSelector assigns the subject's direct reports.
type SubordinateSelector struct{}

func (SubordinateSelector) SelectRaters(subject models.EmployeeNode, _ *models.Snapshot) []string {
	return subject.SubordinateIDs
}

// DefaultSelectors returns the standard strategy per rater type.
func DefaultSelectors() map[models.RaterType]RaterSelector {
	return map[models.RaterType]RaterSelector{
		models.RaterSelf:        SelfSelector{},
		models.RaterManager:     ManagerSelector{},
		models.RaterPeer:        PeerSelector{},
		models.RaterSubordinate: SubordinateSelector{},
	}
}

// GenerateAssignments derives the full set of PENDING evaluation tasks for a
// period from a workforce snapshot. SELF and MANAGER tasks are always
// produced; PEER and SUBORDINATE tasks only when the period configures a
// positive weight for them.
func GenerateAssignments(period *models.EvaluationPeriod, snapshot *models.Snapshot, selectors map[models.RaterType]RaterSelector) []models.Evaluation {
	order := []models.RaterType{models.RaterSelf, models.RaterManager, models.RaterPeer, models.RaterSubordinate}
	now := time.Now().UTC()

	var evaluations []models.Evaluation
	for _, subject := range snapshot.Employees {
		for _, raterType := range order {
			selector, ok := selectors[raterType]
			if !ok {
				continue
			}
			if raterType == models.RaterPeer || raterType == models.RaterSubordinate {
				if period.EvaluatorWeights.Weight(raterType) <= 0 {
					continue
				}
			}
			for _, raterID := range selector.SelectRaters(subject, snapshot) {
				evaluations = append(evaluations, models.Evaluation{
					PeriodID:          period.ID,
					SubjectEmployeeID: subject.ID,
					RaterEmployeeID:   raterID,
					RaterType:         raterType,
					State:             models.EvaluationPending,
					AssignedAt:        now,
					Responses:         models.ResponseList{},
				})
			}
		}
	}
	return evaluations
}
