package services

import (
	"context"
	. "lectern/internal/models"
	"lectern/internal/repositories"
	"math"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	personalizedHistoryLimit = 500

	// Half-life in days for recency weighting of the user's own history.
	personalizedHalfLife = 30.0

	personalizedDepartmentWeight = 0.7
	personalizedTimeSlotWeight   = 0.3
)

// PersonalizedStrategy blends the user's own interaction-derived department
// and time-slot affinities, with recent activity counting for more. It needs
// no other users' data.
type PersonalizedStrategy struct {
	interactionRepo repositories.InteractionRepository
	courseRepo      repositories.CourseRepository
	log             logger.Logger
}

func NewPersonalizedStrategy(repos repositories.Repository) *PersonalizedStrategy {
	return &PersonalizedStrategy{
		interactionRepo: repos.Interaction,
		courseRepo:      repos.Course,
		log:             logger.New("personalizedStrategy"),
	}
}

func (s *PersonalizedStrategy) Reason() Reason {
	return ReasonPersonalized
}

func (s *PersonalizedStrategy) Compute(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]ScoredCandidate, error) {
	log := s.log.Function("Compute")

	history, err := s.interactionRepo.GetUserInteractions(ctx, tx, userID, personalizedHistoryLimit)
	if err != nil {
		log.Warn("failed to load user history, degrading to empty", "userID", userID, "error", err)
		return nil, nil
	}

	if len(history) == 0 {
		return nil, nil
	}

	catalog, err := s.courseRepo.GetAllActive(ctx, tx)
	if err != nil {
		log.Warn("failed to load catalog, degrading to empty", "error", err)
		return nil, nil
	}

	courseByID := make(map[uuid.UUID]*Course, len(catalog))
	for _, course := range catalog {
		courseByID[course.ID] = course
	}

	return scorePersonalized(history, courseByID, catalog, time.Now(), limit), nil
}

// scorePersonalized builds recency-weighted department and time-slot
// affinities from the user's own history and scores every unseen course by
// how well its attributes match.
func scorePersonalized(
	history []*Interaction,
	courseByID map[uuid.UUID]*Course,
	catalog []*Course,
	now time.Time,
	limit int,
) []ScoredCandidate {
	departments := make(map[string]float64)
	timeSlots := make(map[string]float64)
	seen := make(map[uuid.UUID]struct{}, len(history))

	var total float64
	for _, interaction := range history {
		seen[interaction.CourseID] = struct{}{}

		course, known := courseByID[interaction.CourseID]
		if !known {
			continue
		}

		ageDays := now.Sub(interaction.OccurredAt).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}
		recency := math.Exp(-ageDays * math.Ln2 / personalizedHalfLife)
		weight := interaction.Weight * recency

		departments[course.Department] += weight
		if course.TimeSlot != "" {
			timeSlots[course.TimeSlot] += weight
		}
		total += weight
	}

	if total == 0 {
		return nil
	}

	for department := range departments {
		departments[department] /= total
	}
	for slot := range timeSlots {
		timeSlots[slot] /= total
	}

	scores := make(map[uuid.UUID]float64)
	for _, course := range catalog {
		if _, interacted := seen[course.ID]; interacted {
			continue
		}

		score := departments[course.Department] * personalizedDepartmentWeight
		score += timeSlots[course.TimeSlot] * personalizedTimeSlotWeight

		if score > 0 {
			scores[course.ID] = score
		}
	}

	return rankCandidates(scores, ReasonPersonalized, limit)
}
