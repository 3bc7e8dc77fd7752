package services

import (
	"context"
	. "lectern/internal/models"
	"lectern/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Relative importance of each attribute when matching a course against the
// user's engagement profile.
const (
	contentDepartmentWeight = 0.5
	contentTagWeight        = 0.3
	contentInstructorWeight = 0.2
)

// ContentStrategy profiles the user from attributes of courses they engaged
// with positively and scores unseen courses by attribute overlap.
type ContentStrategy struct {
	interactionRepo repositories.InteractionRepository
	courseRepo      repositories.CourseRepository
	log             logger.Logger
}

func NewContentStrategy(repos repositories.Repository) *ContentStrategy {
	return &ContentStrategy{
		interactionRepo: repos.Interaction,
		courseRepo:      repos.Course,
		log:             logger.New("contentStrategy"),
	}
}

func (s *ContentStrategy) Reason() Reason {
	return ReasonContent
}

func (s *ContentStrategy) Compute(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]ScoredCandidate, error) {
	log := s.log.Function("Compute")

	positiveCourseIDs, err := s.interactionRepo.GetUserCourseIDs(
		ctx, tx, userID,
		[]InteractionType{InteractionReview, InteractionFavorite},
	)
	if err != nil {
		log.Warn("failed to load positive interactions, degrading to empty", "userID", userID, "error", err)
		return nil, nil
	}

	if len(positiveCourseIDs) == 0 {
		return nil, nil
	}

	engagedCourses, err := s.courseRepo.GetByIDs(ctx, tx, positiveCourseIDs)
	if err != nil {
		log.Warn("failed to load engaged courses, degrading to empty", "userID", userID, "error", err)
		return nil, nil
	}

	allCourseIDs, err := s.interactionRepo.GetUserCourseIDs(ctx, tx, userID, nil)
	if err != nil {
		log.Warn("failed to load seen courses, degrading to empty", "userID", userID, "error", err)
		return nil, nil
	}

	catalog, err := s.courseRepo.GetAllActive(ctx, tx)
	if err != nil {
		log.Warn("failed to load catalog, degrading to empty", "error", err)
		return nil, nil
	}

	profile := buildContentProfile(engagedCourses)
	return scoreContent(profile, catalog, courseIDSet(allCourseIDs), limit), nil
}

// contentProfile holds normalized attribute affinities derived from the
// user's positively engaged courses.
type contentProfile struct {
	departments map[string]float64
	tags        map[string]float64
	instructors map[string]float64
}

func buildContentProfile(courses []*Course) contentProfile {
	profile := contentProfile{
		departments: make(map[string]float64),
		tags:        make(map[string]float64),
		instructors: make(map[string]float64),
	}

	if len(courses) == 0 {
		return profile
	}

	total := float64(len(courses))
	for _, course := range courses {
		profile.departments[course.Department] += 1 / total
		if course.Instructor != "" {
			profile.instructors[course.Instructor] += 1 / total
		}
		for _, tag := range course.Tags {
			profile.tags[tag] += 1 / total
		}
	}

	return profile
}

func scoreContent(
	profile contentProfile,
	catalog []*Course,
	seen map[uuid.UUID]struct{},
	limit int,
) []ScoredCandidate {
	scores := make(map[uuid.UUID]float64)

	for _, course := range catalog {
		if _, interacted := seen[course.ID]; interacted {
			continue
		}

		score := profile.departments[course.Department] * contentDepartmentWeight
		score += profile.instructors[course.Instructor] * contentInstructorWeight

		tagAffinity := 0.0
		for _, tag := range course.Tags {
			tagAffinity += profile.tags[tag]
		}
		if count := len(course.Tags); count > 0 {
			tagAffinity /= float64(count)
		}
		score += tagAffinity * contentTagWeight

		if score > 0 {
			scores[course.ID] = score
		}
	}

	return rankCandidates(scores, ReasonContent, limit)
}
