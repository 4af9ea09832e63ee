package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicamia/hr-performance-api/internal/models"
)

func strPtr(s string) *string { return &s }

// clinicSnapshot builds a small hierarchy: m1 manages e1 and e2, e3 has no
// manager and no reports.
func clinicSnapshot() *models.Snapshot {
	return models.NewSnapshot([]models.EmployeeNode{
		{ID: "m1", SubordinateIDs: []string{"e1", "e2"}},
		{ID: "e1", ManagerID: strPtr("m1")},
		{ID: "e2", ManagerID: strPtr("m1")},
		{ID: "e3"},
	})
}

func TestSelfSelector(t *testing.T) {
	snapshot := clinicSnapshot()
	raters := SelfSelector{}.SelectRaters(*snapshot.Find("e1"), snapshot)
	assert.Equal(t, []string{"e1"}, raters)
}

func TestManagerSelector(t *testing.T) {
	snapshot := clinicSnapshot()

	raters := ManagerSelector{}.SelectRaters(*snapshot.Find("e1"), snapshot)
	assert.Equal(t, []string{"m1"}, raters)

	raters = ManagerSelector{}.SelectRaters(*snapshot.Find("e3"), snapshot)
	assert.Empty(t, raters)
}

func TestPeerSelectorSameManagerColleagues(t *testing.T) {
	snapshot := clinicSnapshot()

	raters := PeerSelector{}.SelectRaters(*snapshot.Find("e1"), snapshot)
	assert.Equal(t, []string{"e2"}, raters)

	raters = PeerSelector{}.SelectRaters(*snapshot.Find("m1"), snapshot)
	assert.Empty(t, raters)
}

func TestSubordinateSelector(t *testing.T) {
	snapshot := clinicSnapshot()

	raters := SubordinateSelector{}.SelectRaters(*snapshot.Find("m1"), snapshot)
	assert.ElementsMatch(t, []string{"e1", "e2"}, raters)

	raters = SubordinateSelector{}.SelectRaters(*snapshot.Find("e2"), snapshot)
	assert.Empty(t, raters)
}

func TestGenerateAssignmentsSkipsUnweightedTypes(t *testing.T) {
	period := &models.EvaluationPeriod{
		ID:               "p1",
		State:            models.PeriodStateConfiguration,
		EvaluatorWeights: models.EvaluatorWeights{models.RaterSelf: 0.4, models.RaterManager: 0.6},
	}

	evaluations := GenerateAssignments(period, clinicSnapshot(), DefaultSelectors())

	// 4 SELF tasks plus a MANAGER task for e1 and e2. PEER and SUBORDINATE
	// carry no weight, so no tasks of those types are produced.
	require.Len(t, evaluations, 6)
	for _, evaluation := range evaluations {
		assert.Equal(t, "p1", evaluation.PeriodID)
		assert.Equal(t, models.EvaluationPending, evaluation.State)
		assert.NotNil(t, evaluation.Responses)
		assert.False(t, evaluation.AssignedAt.IsZero())
		assert.NotContains(t, []models.RaterType{models.RaterPeer, models.RaterSubordinate}, evaluation.RaterType)
	}
}

func TestGenerateAssignmentsFullMultiRater(t *testing.T) {
	period := &models.EvaluationPeriod{
		ID:    "p1",
		State: models.PeriodStateConfiguration,
		EvaluatorWeights: models.EvaluatorWeights{
			models.RaterSelf:        0.2,
			models.RaterManager:     0.4,
			models.RaterPeer:        0.2,
			models.RaterSubordinate: 0.2,
		},
	}

	evaluations := GenerateAssignments(period, clinicSnapshot(), DefaultSelectors())

	counts := make(map[models.RaterType]int)
	for _, evaluation := range evaluations {
		counts[evaluation.RaterType]++
	}
	assert.Equal(t, 4, counts[models.RaterSelf])
	assert.Equal(t, 2, counts[models.RaterManager])
	// e1 and e2 are each other's peers under m1.
	assert.Equal(t, 2, counts[models.RaterPeer])
	// e1 and e2 each rate m1 upward.
	assert.Equal(t, 2, counts[models.RaterSubordinate])
	assert.Len(t, evaluations, 10)
}

func TestGenerateAssignmentsSelfAndManagerIgnoreWeights(t *testing.T) {
	period := &models.EvaluationPeriod{ID: "p1", EvaluatorWeights: models.EvaluatorWeights{}}

	evaluations := GenerateAssignments(period, clinicSnapshot(), DefaultSelectors())

	// SELF and MANAGER tasks are always generated regardless of weights.
	require.Len(t, evaluations, 6)
}
