package jobs

import (
	"context"
	"lectern/internal/database"
	"lectern/internal/repositories"
	"lectern/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// CacheCleanupJob physically deletes expired recommendation cache rows.
// Reads already filter on expires_at, so this only reclaims space.
type CacheCleanupJob struct {
	cacheRepo repositories.RecommendationCacheRepository
	db        database.DB
	log       logger.Logger
}

func NewCacheCleanupJob(
	repos repositories.Repository,
	db database.DB,
) *CacheCleanupJob {
	return &CacheCleanupJob{
		cacheRepo: repos.RecommendationCache,
		db:        db,
		log:       logger.New("cacheCleanupJob"),
	}
}

func (j *CacheCleanupJob) Name() string {
	return "recommendation-cache-cleanup"
}

func (j *CacheCleanupJob) Schedule() services.Schedule {
	return services.Daily
}

func (j *CacheCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	tx := j.db.SQLWithContext(ctx)
	rows, err := j.cacheRepo.DeleteExpired(ctx, tx)
	if err != nil {
		return log.Err("failed to delete expired cache entries", err)
	}

	log.Info("deleted expired recommendation cache entries", "rows", rows)
	return nil
}
