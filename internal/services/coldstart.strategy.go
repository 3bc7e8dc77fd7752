package services

import (
	"context"
	. "lectern/internal/models"
	"lectern/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ColdStartStrategy recommends from catalog-wide popularity and rating
// quality for users with no interaction history. When the user's identity
// carries a department affiliation the ranking is restricted to it.
type ColdStartStrategy struct {
	userRepo   repositories.UserRepository
	courseRepo repositories.CourseRepository
	log        logger.Logger
}

func NewColdStartStrategy(repos repositories.Repository) *ColdStartStrategy {
	return &ColdStartStrategy{
		userRepo:   repos.User,
		courseRepo: repos.Course,
		log:        logger.New("coldStartStrategy"),
	}
}

func (s *ColdStartStrategy) Reason() Reason {
	return ReasonColdStart
}

func (s *ColdStartStrategy) Compute(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]ScoredCandidate, error) {
	log := s.log.Function("Compute")

	courses, err := s.courseRepo.GetAllActive(ctx, tx)
	if err != nil {
		log.Warn("failed to load catalog, degrading to empty", "error", err)
		return nil, nil
	}

	department := ""
	user, err := s.userRepo.GetByID(ctx, tx, userID)
	if err != nil {
		log.Warn("failed to load user, using global popularity", "userID", userID, "error", err)
	} else {
		department = user.Department
	}

	candidates := scoreColdStart(courses, department, limit)
	if len(candidates) == 0 && department != "" {
		// No signal within the affiliation, fall back to the whole catalog.
		candidates = scoreColdStart(courses, "", limit)
	}

	return candidates, nil
}

// scoreColdStart ranks by review volume weighted by average rating. The
// result is deterministic for a given catalog snapshot.
func scoreColdStart(courses []*Course, department string, limit int) []ScoredCandidate {
	scores := make(map[uuid.UUID]float64, len(courses))
	for _, course := range courses {
		if department != "" && course.Department != department {
			continue
		}
		if course.ReviewCount <= 0 {
			continue
		}

		rating := course.AvgRating.InexactFloat64()
		scores[course.ID] = float64(course.ReviewCount) * rating
	}

	return rankCandidates(scores, ReasonColdStart, limit)
}
