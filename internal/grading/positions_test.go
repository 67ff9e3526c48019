package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vietanh2810/school-portal-api/internal/domain"
)

func TestAssignPositions(t *testing.T) {
	results := []domain.Result{
		{ID: 3, Average: 60, Subjects: []domain.SubjectScore{{Subject: "Maths", Total: 60}, {Subject: "English", Total: 70}}},
		{ID: 1, Average: 80, Subjects: []domain.SubjectScore{{Subject: "Maths", Total: 90}, {Subject: "English", Total: 70}}},
		{ID: 2, Average: 60, Subjects: []domain.SubjectScore{{Subject: "Maths", Total: 55}}},
	}

	AssignPositions(results)

	// Overall: id 1 first, then ids 2 and 3 tie and keep id order.
	assert.Equal(t, 3, results[0].Position)
	assert.Equal(t, 1, results[1].Position)
	assert.Equal(t, 2, results[2].Position)

	for _, r := range results {
		assert.Equal(t, 3, r.OutOf)
	}

	assert.Equal(t, 2, results[0].Subjects[0].Position)
	assert.Equal(t, 1, results[1].Subjects[0].Position)
	assert.Equal(t, 3, results[2].Subjects[0].Position)

	// English tie: id 1 before id 3
	assert.Equal(t, 2, results[0].Subjects[1].Position)
	assert.Equal(t, 1, results[1].Subjects[1].Position)
}

func TestAssignPositions_Empty(t *testing.T) {
	assert.NotPanics(t, func() { AssignPositions(nil) })
}
