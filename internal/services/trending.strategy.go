package services

import (
	"context"
	. "lectern/internal/models"
	"lectern/internal/repositories"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trailing window considered for interaction velocity.
const trendingWindow = 7 * 24 * time.Hour

// TrendingStrategy scores courses by recent interaction velocity normalized
// by course age, excluding courses the target user already interacted with.
type TrendingStrategy struct {
	interactionRepo repositories.InteractionRepository
	courseRepo      repositories.CourseRepository
	log             logger.Logger
}

func NewTrendingStrategy(repos repositories.Repository) *TrendingStrategy {
	return &TrendingStrategy{
		interactionRepo: repos.Interaction,
		courseRepo:      repos.Course,
		log:             logger.New("trendingStrategy"),
	}
}

func (s *TrendingStrategy) Reason() Reason {
	return ReasonTrending
}

func (s *TrendingStrategy) Compute(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]ScoredCandidate, error) {
	log := s.log.Function("Compute")

	recent, err := s.interactionRepo.GetSince(ctx, tx, time.Now().Add(-trendingWindow))
	if err != nil {
		log.Warn("failed to load recent interactions, degrading to empty", "error", err)
		return nil, nil
	}

	if len(recent) == 0 {
		return nil, nil
	}

	seenCourseIDs, err := s.interactionRepo.GetUserCourseIDs(ctx, tx, userID, nil)
	if err != nil {
		log.Warn("failed to load seen courses, degrading to empty", "userID", userID, "error", err)
		return nil, nil
	}

	catalog, err := s.courseRepo.GetAllActive(ctx, tx)
	if err != nil {
		log.Warn("failed to load catalog, degrading to empty", "error", err)
		return nil, nil
	}

	courseAges := make(map[uuid.UUID]time.Time, len(catalog))
	for _, course := range catalog {
		courseAges[course.ID] = course.CreatedAt
	}

	return scoreTrending(recent, courseAges, courseIDSet(seenCourseIDs), time.Now(), limit), nil
}

// scoreTrending sums interaction weights inside the window and divides by
// course age in days, so a young course with the same velocity outranks an
// established one.
func scoreTrending(
	recent []*Interaction,
	courseCreatedAt map[uuid.UUID]time.Time,
	seen map[uuid.UUID]struct{},
	now time.Time,
	limit int,
) []ScoredCandidate {
	velocity := make(map[uuid.UUID]float64)
	for _, interaction := range recent {
		velocity[interaction.CourseID] += interaction.Weight
	}

	scores := make(map[uuid.UUID]float64, len(velocity))
	for courseID, weight := range velocity {
		if _, interacted := seen[courseID]; interacted {
			continue
		}

		createdAt, known := courseCreatedAt[courseID]
		if !known {
			// Course is no longer in the active catalog.
			continue
		}

		ageDays := now.Sub(createdAt).Hours() / 24
		if ageDays < 1 {
			ageDays = 1
		}

		scores[courseID] = weight / ageDays
	}

	return rankCandidates(scores, ReasonTrending, limit)
}
