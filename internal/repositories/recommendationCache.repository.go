package repositories

import (
	"context"
	. "lectern/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RECOMMENDATION_CACHE_TTL is the fixed window a computed entry stays
// servable. Recomputation is expensive; invalidation on significant
// interactions bounds the staleness that matters.
const RECOMMENDATION_CACHE_TTL = 24 * time.Hour

type RecommendationCacheRepository interface {
	GetForUser(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		reason *Reason,
		limit int,
	) ([]*RecommendationCacheEntry, error)
	Put(ctx context.Context, tx *gorm.DB, entries []*RecommendationCacheEntry) error
	InvalidateUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx *gorm.DB) (int, error)
}

type recommendationCacheRepository struct {
	log logger.Logger
}

func NewRecommendationCacheRepository() RecommendationCacheRepository {
	return &recommendationCacheRepository{
		log: logger.New("recommendationCacheRepository"),
	}
}

// GetForUser returns the user's non-expired entries, best score first, at
// most one entry per course. Expired rows are treated as absent whether or
// not the cleanup job has removed them yet.
func (r *recommendationCacheRepository) GetForUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	reason *Reason,
	limit int,
) ([]*RecommendationCacheEntry, error) {
	log := r.log.Function("GetForUser")

	query := gorm.G[*RecommendationCacheEntry](tx).
		Preload("Course", nil).
		Where("user_id = ?", userID).
		Where("expires_at > ?", time.Now())
	if reason != nil {
		query = query.Where("reason = ?", *reason)
	}

	entries, err := query.
		Order("score DESC, course_id ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get cache entries", err, "userID", userID)
	}

	// A course may hold entries under several reasons; the highest-scored
	// one wins on the read path.
	seen := make(map[uuid.UUID]struct{}, len(entries))
	deduped := make([]*RecommendationCacheEntry, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.CourseID]; ok {
			continue
		}
		seen[entry.CourseID] = struct{}{}
		deduped = append(deduped, entry)
		if limit > 0 && len(deduped) >= limit {
			break
		}
	}

	return deduped, nil
}

// Put bulk-inserts entries, silently skipping rows that collide on
// (user, course, reason). The first successful compute for a TTL window
// stands; later writers do not overwrite it.
func (r *recommendationCacheRepository) Put(
	ctx context.Context,
	tx *gorm.DB,
	entries []*RecommendationCacheEntry,
) error {
	log := r.log.Function("Put")

	if len(entries) == 0 {
		return nil
	}

	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(entries, 100).Error
	if err != nil {
		return log.Err("failed to put cache entries", err, "count", len(entries))
	}

	return nil
}

// InvalidateUser removes every entry for the user regardless of reason or
// expiry. The delete completes before returning so a get issued by the same
// flow never sees a stale row.
func (r *recommendationCacheRepository) InvalidateUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) error {
	log := r.log.Function("InvalidateUser")

	rows, err := gorm.G[RecommendationCacheEntry](tx).
		Where("user_id = ?", userID).
		Delete(ctx)
	if err != nil {
		return log.Err("failed to invalidate user cache entries", err, "userID", userID)
	}

	log.Info("invalidated recommendation cache", "userID", userID, "rows", rows)
	return nil
}

func (r *recommendationCacheRepository) DeleteExpired(
	ctx context.Context,
	tx *gorm.DB,
) (int, error) {
	log := r.log.Function("DeleteExpired")

	rows, err := gorm.G[RecommendationCacheEntry](tx).
		Where("expires_at <= ?", time.Now()).
		Delete(ctx)
	if err != nil {
		return 0, log.Err("failed to delete expired cache entries", err)
	}

	return rows, nil
}
