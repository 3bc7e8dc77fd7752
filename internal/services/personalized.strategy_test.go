package services

import (
	"testing"
	"time"

	. "lectern/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func slottedCourse(n byte, department, timeSlot string) *Course {
	course := &Course{
		Department: department,
		TimeSlot:   timeSlot,
	}
	course.ID = testCourseID(n)
	return course
}

func TestScorePersonalized(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	engagedCS := slottedCourse(1, "cs", "MWF 09:00")
	engagedMath := slottedCourse(2, "math", "TTh 10:30")
	unseenCS := slottedCourse(3, "cs", "MWF 09:00")
	unseenMath := slottedCourse(4, "math", "TTh 10:30")
	unseenHistory := slottedCourse(5, "history", "MWF 13:00")

	courseByID := map[uuid.UUID]*Course{
		engagedCS.ID:   engagedCS,
		engagedMath.ID: engagedMath,
	}
	catalog := []*Course{engagedCS, engagedMath, unseenCS, unseenMath, unseenHistory}

	t.Run("recent heavy engagement dominates", func(t *testing.T) {
		history := []*Interaction{
			{CourseID: engagedCS.ID, Weight: 3.0, OccurredAt: now.AddDate(0, 0, -1)},
			{CourseID: engagedMath.ID, Weight: 1.0, OccurredAt: now.AddDate(0, 0, -120)},
		}

		candidates := scorePersonalized(history, courseByID, catalog, now, 10)

		assert.NotEmpty(t, candidates)
		assert.Equal(t, unseenCS.ID, candidates[0].CourseID)
		assert.Equal(t, 1.0, candidates[0].Score)
		assert.Equal(t, ReasonPersonalized, candidates[0].Reason)
	})

	t.Run("excludes courses from own history", func(t *testing.T) {
		history := []*Interaction{
			{CourseID: engagedCS.ID, Weight: 3.0, OccurredAt: now.AddDate(0, 0, -1)},
		}

		for _, candidate := range scorePersonalized(history, courseByID, catalog, now, 10) {
			assert.NotEqual(t, engagedCS.ID, candidate.CourseID)
		}
	})

	t.Run("no attribute overlap drops the course", func(t *testing.T) {
		history := []*Interaction{
			{CourseID: engagedCS.ID, Weight: 3.0, OccurredAt: now.AddDate(0, 0, -1)},
		}

		for _, candidate := range scorePersonalized(history, courseByID, catalog, now, 10) {
			assert.NotEqual(t, unseenHistory.ID, candidate.CourseID)
		}
	})

	t.Run("history against vanished courses is no signal", func(t *testing.T) {
		history := []*Interaction{
			{CourseID: testCourseID(9), Weight: 3.0, OccurredAt: now.AddDate(0, 0, -1)},
		}

		assert.Empty(t, scorePersonalized(history, courseByID, catalog, now, 10))
	})

	t.Run("empty history", func(t *testing.T) {
		assert.Empty(t, scorePersonalized(nil, courseByID, catalog, now, 10))
	})
}
