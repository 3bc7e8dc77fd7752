package repositories

import (
	"context"
	"lectern/internal/database"
	. "lectern/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	COURSE_CATALOG_CACHE_KEY    = "course_catalog"
	COURSE_CATALOG_CACHE_EXPIRY = 1 * time.Hour
)

type CourseRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*Course, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*Course, error)
	GetAllActive(ctx context.Context, tx *gorm.DB) ([]*Course, error)
	ClearCatalogCache(ctx context.Context) error
}

type courseRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewCourseRepository(cache database.CacheClient) CourseRepository {
	return &courseRepository{
		cache: cache,
		log:   logger.New("courseRepository"),
	}
}

func (r *courseRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	courseID uuid.UUID,
) (*Course, error) {
	log := r.log.Function("GetByID")

	course, err := gorm.G[*Course](tx).
		Where("id = ?", courseID).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get course", err, "courseID", courseID)
	}

	return course, nil
}

func (r *courseRepository) GetByIDs(
	ctx context.Context,
	tx *gorm.DB,
	courseIDs []uuid.UUID,
) ([]*Course, error) {
	log := r.log.Function("GetByIDs")

	if len(courseIDs) == 0 {
		return nil, nil
	}

	courses, err := gorm.G[*Course](tx).
		Where("id IN ?", courseIDs).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get courses", err, "count", len(courseIDs))
	}

	return courses, nil
}

// GetAllActive returns the active catalog snapshot the strategy computers
// score against. The snapshot is cached as a whole; catalog writes are rare
// and owned by an external collaborator.
func (r *courseRepository) GetAllActive(ctx context.Context, tx *gorm.DB) ([]*Course, error) {
	log := r.log.Function("GetAllActive")

	var cached []*Course
	found, err := database.NewCacheBuilder(r.cache, COURSE_CATALOG_CACHE_KEY).
		WithContext(ctx).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get course catalog from cache", "error", err)
	}

	if found {
		return cached, nil
	}

	courses, err := gorm.G[*Course](tx).
		Where("is_active = ?", true).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get active courses", err)
	}

	err = database.NewCacheBuilder(r.cache, COURSE_CATALOG_CACHE_KEY).
		WithContext(ctx).
		WithStruct(courses).
		WithTTL(COURSE_CATALOG_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to cache course catalog", "error", err)
	}

	return courses, nil
}

func (r *courseRepository) ClearCatalogCache(ctx context.Context) error {
	err := database.NewCacheBuilder(r.cache, COURSE_CATALOG_CACHE_KEY).
		WithContext(ctx).
		Delete()
	if err != nil {
		r.log.Warn("failed to clear course catalog cache", "error", err)
		return err
	}
	return nil
}
