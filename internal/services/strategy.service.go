package services

import (
	"context"
	. "lectern/internal/models"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecommendationStrategy is the contract every strategy computer satisfies.
// Compute returns candidates ordered by score descending with scores in
// [0,1] and no duplicate course within its own output. A strategy that
// lacks signal returns an empty list, never an error.
type RecommendationStrategy interface {
	Reason() Reason
	Compute(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		limit int,
	) ([]ScoredCandidate, error)
}

// rankCandidates is the shared terminal step of every strategy: normalize
// raw scores into [0,1] by the list maximum, order deterministically, and
// truncate. Courses with non-positive raw scores are dropped.
func rankCandidates(scores map[uuid.UUID]float64, reason Reason, limit int) []ScoredCandidate {
	maxScore := 0.0
	for _, score := range scores {
		if score > maxScore {
			maxScore = score
		}
	}

	if maxScore <= 0 {
		return nil
	}

	candidates := make([]ScoredCandidate, 0, len(scores))
	for courseID, score := range scores {
		if score <= 0 {
			continue
		}
		candidates = append(candidates, ScoredCandidate{
			CourseID: courseID,
			Score:    score / maxScore,
			Reason:   reason,
		})
	}

	sortCandidates(candidates)

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates
}

// sortCandidates orders by score descending, course id ascending on ties,
// so equal inputs always produce identical output.
func sortCandidates(candidates []ScoredCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].CourseID.String() < candidates[j].CourseID.String()
	})
}

func courseIDSet(courseIDs []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(courseIDs))
	for _, id := range courseIDs {
		set[id] = struct{}{}
	}
	return set
}
