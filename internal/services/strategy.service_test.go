package services

import (
	"testing"

	. "lectern/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testCourseID(n byte) uuid.UUID {
	var id uuid.UUID
	id[15] = n
	return id
}

func TestRankCandidates(t *testing.T) {
	courseA := testCourseID(1)
	courseB := testCourseID(2)
	courseC := testCourseID(3)

	t.Run("normalizes by list maximum", func(t *testing.T) {
		candidates := rankCandidates(map[uuid.UUID]float64{
			courseA: 10,
			courseB: 5,
			courseC: 2,
		}, ReasonTrending, 10)

		assert.Len(t, candidates, 3)
		assert.Equal(t, courseA, candidates[0].CourseID)
		assert.Equal(t, 1.0, candidates[0].Score)
		assert.Equal(t, 0.5, candidates[1].Score)
		assert.Equal(t, 0.2, candidates[2].Score)
		for _, candidate := range candidates {
			assert.Equal(t, ReasonTrending, candidate.Reason)
		}
	})

	t.Run("drops non-positive scores", func(t *testing.T) {
		candidates := rankCandidates(map[uuid.UUID]float64{
			courseA: 4,
			courseB: 0,
			courseC: -1,
		}, ReasonContent, 10)

		assert.Len(t, candidates, 1)
		assert.Equal(t, courseA, candidates[0].CourseID)
	})

	t.Run("empty when nothing scores positive", func(t *testing.T) {
		assert.Empty(t, rankCandidates(map[uuid.UUID]float64{courseA: 0}, ReasonContent, 10))
		assert.Empty(t, rankCandidates(nil, ReasonContent, 10))
	})

	t.Run("truncates to limit", func(t *testing.T) {
		candidates := rankCandidates(map[uuid.UUID]float64{
			courseA: 3,
			courseB: 2,
			courseC: 1,
		}, ReasonColdStart, 2)

		assert.Len(t, candidates, 2)
		assert.Equal(t, courseA, candidates[0].CourseID)
		assert.Equal(t, courseB, candidates[1].CourseID)
	})

	t.Run("ties break on course id ascending", func(t *testing.T) {
		candidates := rankCandidates(map[uuid.UUID]float64{
			courseC: 2,
			courseB: 2,
			courseA: 2,
		}, ReasonColdStart, 10)

		assert.Equal(t, courseA, candidates[0].CourseID)
		assert.Equal(t, courseB, candidates[1].CourseID)
		assert.Equal(t, courseC, candidates[2].CourseID)
	})
}

func TestCosineSimilarity(t *testing.T) {
	courseA := testCourseID(1)
	courseB := testCourseID(2)
	courseC := testCourseID(3)

	t.Run("identical vectors", func(t *testing.T) {
		vector := map[uuid.UUID]float64{courseA: 1, courseB: 2}
		assert.InDelta(t, 1.0, cosineSimilarity(vector, vector), 1e-9)
	})

	t.Run("disjoint vectors", func(t *testing.T) {
		a := map[uuid.UUID]float64{courseA: 1}
		b := map[uuid.UUID]float64{courseB: 1}
		assert.Equal(t, 0.0, cosineSimilarity(a, b))
	})

	t.Run("partial overlap", func(t *testing.T) {
		a := map[uuid.UUID]float64{courseA: 3, courseB: 4}
		b := map[uuid.UUID]float64{courseA: 3, courseC: 4}

		// dot = 9, |a| = 5, |b| = 5
		assert.InDelta(t, 9.0/25.0, cosineSimilarity(a, b), 1e-9)
	})

	t.Run("empty vectors", func(t *testing.T) {
		assert.Equal(t, 0.0, cosineSimilarity(nil, map[uuid.UUID]float64{courseA: 1}))
		assert.Equal(t, 0.0, cosineSimilarity(map[uuid.UUID]float64{courseA: 1}, nil))
	})
}
