package services

import (
	"testing"
	"time"

	. "lectern/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestScoreTrending(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	courseA := testCourseID(1)
	courseB := testCourseID(2)
	courseC := testCourseID(3)

	createdAt := map[uuid.UUID]time.Time{
		courseA: now.AddDate(0, 0, -10),
		courseB: now.AddDate(0, 0, -100),
		courseC: now.AddDate(0, 0, -10),
	}

	t.Run("age-normalized velocity favors younger courses", func(t *testing.T) {
		recent := []*Interaction{
			{CourseID: courseA, Weight: 5},
			{CourseID: courseB, Weight: 5},
		}

		candidates := scoreTrending(recent, createdAt, nil, now, 10)

		// Same raw velocity, courseA is 10x younger.
		assert.Len(t, candidates, 2)
		assert.Equal(t, courseA, candidates[0].CourseID)
		assert.Equal(t, 1.0, candidates[0].Score)
		assert.InDelta(t, 0.1, candidates[1].Score, 1e-9)
	})

	t.Run("excludes courses the user already interacted with", func(t *testing.T) {
		recent := []*Interaction{
			{CourseID: courseA, Weight: 5},
			{CourseID: courseC, Weight: 3},
		}
		seen := map[uuid.UUID]struct{}{courseA: {}}

		candidates := scoreTrending(recent, createdAt, seen, now, 10)

		assert.Len(t, candidates, 1)
		assert.Equal(t, courseC, candidates[0].CourseID)
	})

	t.Run("skips courses missing from the active catalog", func(t *testing.T) {
		recent := []*Interaction{
			{CourseID: testCourseID(9), Weight: 8},
			{CourseID: courseA, Weight: 1},
		}

		candidates := scoreTrending(recent, createdAt, nil, now, 10)

		assert.Len(t, candidates, 1)
		assert.Equal(t, courseA, candidates[0].CourseID)
	})

	t.Run("age floors at one day", func(t *testing.T) {
		brandNew := map[uuid.UUID]time.Time{
			courseA: now.Add(-2 * time.Hour),
			courseB: now.Add(-24 * time.Hour),
		}
		recent := []*Interaction{
			{CourseID: courseA, Weight: 2},
			{CourseID: courseB, Weight: 2},
		}

		candidates := scoreTrending(recent, brandNew, nil, now, 10)

		// Both clamp to one day of age, so scores are equal.
		assert.Len(t, candidates, 2)
		assert.Equal(t, candidates[0].Score, candidates[1].Score)
	})

	t.Run("no recent interactions", func(t *testing.T) {
		assert.Empty(t, scoreTrending(nil, createdAt, nil, now, 10))
	})
}
