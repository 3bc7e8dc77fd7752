package services

import (
	. "lectern/internal/models"
	"sort"

	"github.com/google/uuid"
)

type mergedCandidate struct {
	courseID   uuid.UUID
	score      float64
	reason     Reason
	strategies int
}

// MergeCandidates unions strategy outputs by course. A course recommended
// by two or more distinct strategies is tagged HYBRID and keeps the maximum
// score across them; a course from a single strategy retains that reason.
// Ordering is fully deterministic (score descending, then number of
// contributing strategies, then course id) so merging the same lists in
// any order yields identical output.
func MergeCandidates(lists map[Reason][]ScoredCandidate, limit int) []ScoredCandidate {
	reasons := make([]Reason, 0, len(lists))
	for reason := range lists {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })

	merged := make(map[uuid.UUID]*mergedCandidate)
	for _, reason := range reasons {
		counted := make(map[uuid.UUID]struct{}, len(lists[reason]))
		for _, candidate := range lists[reason] {
			if _, dup := counted[candidate.CourseID]; dup {
				continue
			}
			counted[candidate.CourseID] = struct{}{}

			entry, exists := merged[candidate.CourseID]
			if !exists {
				merged[candidate.CourseID] = &mergedCandidate{
					courseID:   candidate.CourseID,
					score:      candidate.Score,
					reason:     reason,
					strategies: 1,
				}
				continue
			}

			entry.strategies++
			if candidate.Score > entry.score {
				entry.score = candidate.Score
				entry.reason = reason
			}
		}
	}

	ranked := make([]*mergedCandidate, 0, len(merged))
	for _, entry := range merged {
		ranked = append(ranked, entry)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].strategies != ranked[j].strategies {
			return ranked[i].strategies > ranked[j].strategies
		}
		return ranked[i].courseID.String() < ranked[j].courseID.String()
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := make([]ScoredCandidate, 0, len(ranked))
	for _, entry := range ranked {
		reason := entry.reason
		if entry.strategies >= 2 {
			reason = ReasonHybrid
		}
		result = append(result, ScoredCandidate{
			CourseID: entry.courseID,
			Score:    entry.score,
			Reason:   reason,
		})
	}

	return result
}
