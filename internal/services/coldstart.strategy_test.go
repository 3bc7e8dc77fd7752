package services

import (
	"testing"

	. "lectern/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testCourse(n byte, department string, reviewCount int, avgRating string) *Course {
	rating, _ := decimal.NewFromString(avgRating)
	course := &Course{
		Department:  department,
		ReviewCount: reviewCount,
		AvgRating:   rating,
	}
	course.ID = testCourseID(n)
	return course
}

func TestScoreColdStart(t *testing.T) {
	catalog := []*Course{
		testCourse(1, "cs", 200, "3.00"),
		testCourse(2, "cs", 50, "4.80"),
		testCourse(3, "math", 300, "4.00"),
		testCourse(4, "math", 0, "5.00"),
	}

	t.Run("ranks by review volume times rating", func(t *testing.T) {
		candidates := scoreColdStart(catalog, "", 10)

		// math 300*4.0=1200 > cs 200*3.0=600 > cs 50*4.8=240
		assert.Len(t, candidates, 3)
		assert.Equal(t, testCourseID(3), candidates[0].CourseID)
		assert.Equal(t, 1.0, candidates[0].Score)
		assert.Equal(t, testCourseID(1), candidates[1].CourseID)
		assert.Equal(t, testCourseID(2), candidates[2].CourseID)
	})

	t.Run("restricts to department when provided", func(t *testing.T) {
		candidates := scoreColdStart(catalog, "cs", 10)

		assert.Len(t, candidates, 2)
		for _, candidate := range candidates {
			assert.NotEqual(t, testCourseID(3), candidate.CourseID)
		}
	})

	t.Run("courses without reviews are skipped", func(t *testing.T) {
		for _, candidate := range scoreColdStart(catalog, "", 10) {
			assert.NotEqual(t, testCourseID(4), candidate.CourseID)
		}
	})

	t.Run("unknown department yields empty", func(t *testing.T) {
		assert.Empty(t, scoreColdStart(catalog, "art", 10))
	})

	t.Run("tags candidates as cold start", func(t *testing.T) {
		for _, candidate := range scoreColdStart(catalog, "", 10) {
			assert.Equal(t, ReasonColdStart, candidate.Reason)
		}
	})
}
