package services

import (
	"context"
	. "lectern/internal/models"
	"lectern/internal/repositories"
	"math"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const collaborativeHistoryLimit = 1000

// CollaborativeStrategy surfaces courses engaged by users whose interaction
// sets overlap with the target user's, weighted by cosine similarity.
type CollaborativeStrategy struct {
	interactionRepo repositories.InteractionRepository
	log             logger.Logger
}

func NewCollaborativeStrategy(repos repositories.Repository) *CollaborativeStrategy {
	return &CollaborativeStrategy{
		interactionRepo: repos.Interaction,
		log:             logger.New("collaborativeStrategy"),
	}
}

func (s *CollaborativeStrategy) Reason() Reason {
	return ReasonCollaborative
}

func (s *CollaborativeStrategy) Compute(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]ScoredCandidate, error) {
	log := s.log.Function("Compute")

	own, err := s.interactionRepo.GetUserInteractions(ctx, tx, userID, collaborativeHistoryLimit)
	if err != nil {
		log.Warn("failed to load user interactions, degrading to empty", "userID", userID, "error", err)
		return nil, nil
	}

	target := weightVector(own)
	if len(target) == 0 {
		return nil, nil
	}

	targetCourseIDs := make([]uuid.UUID, 0, len(target))
	for courseID := range target {
		targetCourseIDs = append(targetCourseIDs, courseID)
	}

	overlapping, err := s.interactionRepo.GetByCourseIDs(ctx, tx, targetCourseIDs, userID)
	if err != nil {
		log.Warn("failed to load overlapping interactions, degrading to empty", "userID", userID, "error", err)
		return nil, nil
	}

	neighborIDs := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]struct{})
	for _, interaction := range overlapping {
		if _, ok := seen[interaction.UserID]; ok {
			continue
		}
		seen[interaction.UserID] = struct{}{}
		neighborIDs = append(neighborIDs, interaction.UserID)
	}

	neighborInteractions, err := s.interactionRepo.GetByUserIDs(ctx, tx, neighborIDs)
	if err != nil {
		log.Warn("failed to load neighbor interactions, degrading to empty", "userID", userID, "error", err)
		return nil, nil
	}

	neighbors := make(map[uuid.UUID]map[uuid.UUID]float64)
	for _, interaction := range neighborInteractions {
		if neighbors[interaction.UserID] == nil {
			neighbors[interaction.UserID] = make(map[uuid.UUID]float64)
		}
		neighbors[interaction.UserID][interaction.CourseID] += interaction.Weight
	}

	return scoreCollaborative(target, neighbors, limit), nil
}

// scoreCollaborative predicts scores for courses the target has not
// interacted with by accumulating neighbor weights scaled by user
// similarity. Fewer than two similar users is treated as no signal.
func scoreCollaborative(
	target map[uuid.UUID]float64,
	neighbors map[uuid.UUID]map[uuid.UUID]float64,
	limit int,
) []ScoredCandidate {
	similarities := make(map[uuid.UUID]float64, len(neighbors))
	for neighborID, vector := range neighbors {
		if sim := cosineSimilarity(target, vector); sim > 0 {
			similarities[neighborID] = sim
		}
	}

	if len(similarities) < 2 {
		return nil
	}

	predictions := make(map[uuid.UUID]float64)
	for neighborID, similarity := range similarities {
		for courseID, weight := range neighbors[neighborID] {
			if _, interacted := target[courseID]; interacted {
				continue
			}
			predictions[courseID] += similarity * weight
		}
	}

	return rankCandidates(predictions, ReasonCollaborative, limit)
}

func cosineSimilarity(a, b map[uuid.UUID]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64

	for courseID, weightA := range a {
		if weightB, exists := b[courseID]; exists {
			dotProduct += weightA * weightB
		}
		normA += weightA * weightA
	}

	for _, weightB := range b {
		normB += weightB * weightB
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

func weightVector(interactions []*Interaction) map[uuid.UUID]float64 {
	vector := make(map[uuid.UUID]float64, len(interactions))
	for _, interaction := range interactions {
		vector[interaction.CourseID] += interaction.Weight
	}
	return vector
}
