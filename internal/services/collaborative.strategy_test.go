package services

import (
	"testing"

	. "lectern/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testUserID(n byte) uuid.UUID {
	var id uuid.UUID
	id[0] = 0xAA
	id[15] = n
	return id
}

func TestScoreCollaborative(t *testing.T) {
	courseA := testCourseID(1)
	courseB := testCourseID(2)
	courseC := testCourseID(3)
	courseD := testCourseID(4)

	target := map[uuid.UUID]float64{courseA: 3, courseB: 2}

	t.Run("recommends neighbor courses the target has not touched", func(t *testing.T) {
		neighbors := map[uuid.UUID]map[uuid.UUID]float64{
			testUserID(1): {courseA: 3, courseC: 2},
			testUserID(2): {courseB: 2, courseC: 1, courseD: 3},
		}

		candidates := scoreCollaborative(target, neighbors, 10)

		assert.NotEmpty(t, candidates)
		for _, candidate := range candidates {
			assert.NotEqual(t, courseA, candidate.CourseID)
			assert.NotEqual(t, courseB, candidate.CourseID)
			assert.Equal(t, ReasonCollaborative, candidate.Reason)
		}
	})

	t.Run("course shared by both neighbors accumulates more score", func(t *testing.T) {
		neighbors := map[uuid.UUID]map[uuid.UUID]float64{
			testUserID(1): {courseA: 3, courseC: 2},
			testUserID(2): {courseB: 2, courseC: 2, courseD: 2},
		}

		candidates := scoreCollaborative(target, neighbors, 10)

		assert.Equal(t, courseC, candidates[0].CourseID)
		assert.Equal(t, 1.0, candidates[0].Score)
	})

	t.Run("fewer than two similar users is no signal", func(t *testing.T) {
		neighbors := map[uuid.UUID]map[uuid.UUID]float64{
			testUserID(1): {courseA: 3, courseC: 2},
			testUserID(2): {courseD: 5},
		}

		assert.Empty(t, scoreCollaborative(target, neighbors, 10))
	})

	t.Run("empty target yields empty", func(t *testing.T) {
		neighbors := map[uuid.UUID]map[uuid.UUID]float64{
			testUserID(1): {courseA: 3},
			testUserID(2): {courseA: 2},
		}

		assert.Empty(t, scoreCollaborative(nil, neighbors, 10))
	})
}

func TestWeightVector(t *testing.T) {
	courseA := testCourseID(1)
	courseB := testCourseID(2)

	interactions := []*Interaction{
		{CourseID: courseA, Weight: 1.0},
		{CourseID: courseA, Weight: 3.0},
		{CourseID: courseB, Weight: 0.5},
	}

	vector := weightVector(interactions)

	assert.Len(t, vector, 2)
	assert.Equal(t, 4.0, vector[courseA])
	assert.Equal(t, 0.5, vector[courseB])
}
