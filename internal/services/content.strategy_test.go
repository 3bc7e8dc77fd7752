package services

import (
	"testing"

	. "lectern/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func taggedCourse(n byte, department, instructor string, tags ...string) *Course {
	course := &Course{
		Department: department,
		Instructor: instructor,
		Tags:       datatypes.NewJSONSlice(tags),
	}
	course.ID = testCourseID(n)
	return course
}

func TestBuildContentProfile(t *testing.T) {
	t.Run("affinities sum to one per attribute", func(t *testing.T) {
		profile := buildContentProfile([]*Course{
			taggedCourse(1, "cs", "Rivera", "ml", "python"),
			taggedCourse(2, "cs", "Okafor", "ml"),
			taggedCourse(3, "math", "Chen"),
		})

		assert.InDelta(t, 2.0/3.0, profile.departments["cs"], 1e-9)
		assert.InDelta(t, 1.0/3.0, profile.departments["math"], 1e-9)
		assert.InDelta(t, 2.0/3.0, profile.tags["ml"], 1e-9)
		assert.InDelta(t, 1.0/3.0, profile.instructors["Chen"], 1e-9)
	})

	t.Run("empty input yields empty profile", func(t *testing.T) {
		profile := buildContentProfile(nil)
		assert.Empty(t, profile.departments)
		assert.Empty(t, profile.tags)
		assert.Empty(t, profile.instructors)
	})
}

func TestScoreContent(t *testing.T) {
	engaged := []*Course{
		taggedCourse(1, "cs", "Rivera", "ml", "python"),
		taggedCourse(2, "cs", "Rivera", "algorithms"),
	}
	profile := buildContentProfile(engaged)

	catalog := []*Course{
		engaged[0],
		engaged[1],
		taggedCourse(3, "cs", "Rivera", "ml"),
		taggedCourse(4, "cs", "Okafor", "writing"),
		taggedCourse(5, "history", "Baptiste", "survey"),
	}
	seen := map[uuid.UUID]struct{}{
		testCourseID(1): {},
		testCourseID(2): {},
	}

	t.Run("excludes every seen course", func(t *testing.T) {
		candidates := scoreContent(profile, catalog, seen, 10)

		assert.NotEmpty(t, candidates)
		for _, candidate := range candidates {
			_, wasSeen := seen[candidate.CourseID]
			assert.False(t, wasSeen)
		}
	})

	t.Run("closest attribute match ranks first", func(t *testing.T) {
		candidates := scoreContent(profile, catalog, seen, 10)

		// Same department, same instructor, matching tag.
		assert.Equal(t, testCourseID(3), candidates[0].CourseID)
		assert.Equal(t, 1.0, candidates[0].Score)
		assert.Equal(t, ReasonContent, candidates[0].Reason)
	})

	t.Run("no attribute overlap scores zero and is dropped", func(t *testing.T) {
		for _, candidate := range scoreContent(profile, catalog, seen, 10) {
			assert.NotEqual(t, testCourseID(5), candidate.CourseID)
		}
	})

	t.Run("empty profile yields empty", func(t *testing.T) {
		assert.Empty(t, scoreContent(buildContentProfile(nil), catalog, seen, 10))
	})
}
