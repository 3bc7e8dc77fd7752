package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lectern/internal/database"
	. "lectern/internal/models"
	"lectern/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubStrategy struct {
	reason     Reason
	candidates []ScoredCandidate
	err        error
	block      bool
	calls      atomic.Int32
}

func (s *stubStrategy) Reason() Reason { return s.reason }

func (s *stubStrategy) Compute(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]ScoredCandidate, error) {
	s.calls.Add(1)

	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	return s.candidates, s.err
}

type stubInteractionRepo struct {
	repositories.InteractionRepository
	count    int64
	countErr error
}

func (s *stubInteractionRepo) CountForUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (int64, error) {
	return s.count, s.countErr
}

type stubCourseRepo struct {
	repositories.CourseRepository
	courses map[uuid.UUID]*Course
	err     error
}

func (s *stubCourseRepo) GetByIDs(
	ctx context.Context,
	tx *gorm.DB,
	courseIDs []uuid.UUID,
) ([]*Course, error) {
	if s.err != nil {
		return nil, s.err
	}

	courses := make([]*Course, 0, len(courseIDs))
	for _, courseID := range courseIDs {
		if course, ok := s.courses[courseID]; ok {
			courses = append(courses, course)
		}
	}

	return courses, nil
}

type stubCacheRepo struct {
	mu      sync.Mutex
	entries []*RecommendationCacheEntry
}

func (s *stubCacheRepo) GetForUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	reason *Reason,
	limit int,
) ([]*RecommendationCacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entries := make([]*RecommendationCacheEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if entry.UserID != userID || !entry.ExpiresAt.After(now) {
			continue
		}
		if reason != nil && entry.Reason != *reason {
			continue
		}
		entries = append(entries, entry)
		if limit > 0 && len(entries) >= limit {
			break
		}
	}

	return entries, nil
}

func (s *stubCacheRepo) Put(
	ctx context.Context,
	tx *gorm.DB,
	entries []*RecommendationCacheEntry,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entries...)
	return nil
}

func (s *stubCacheRepo) InvalidateUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, entry := range s.entries {
		if entry.UserID != userID {
			kept = append(kept, entry)
		}
	}
	s.entries = kept

	return nil
}

func (s *stubCacheRepo) DeleteExpired(ctx context.Context, tx *gorm.DB) (int, error) {
	return 0, nil
}

func courseCatalog(courseIDs ...uuid.UUID) map[uuid.UUID]*Course {
	catalog := make(map[uuid.UUID]*Course, len(courseIDs))
	for i, courseID := range courseIDs {
		catalog[courseID] = &Course{
			BaseUUIDModel: BaseUUIDModel{ID: courseID},
			Code:          fmt.Sprintf("CRS%d", i+1),
			Title:         fmt.Sprintf("Course %d", i+1),
		}
	}
	return catalog
}

func newTestRecommendationService(
	t *testing.T,
	interactions repositories.InteractionRepository,
	courses repositories.CourseRepository,
	cache repositories.RecommendationCacheRepository,
	strategies map[Reason]RecommendationStrategy,
) *RecommendationService {
	gormDB, _ := setupTestDB(t)

	return &RecommendationService{
		db:              database.DB{SQL: gormDB},
		interactionRepo: interactions,
		courseRepo:      courses,
		cacheRepo:       cache,
		strategies:      strategies,
		strategyTimeout: 25 * time.Millisecond,
		persistCh:       make(chan persistBatch, persistQueueSize),
		log:             logger.New("recommendationService"),
	}
}

func TestGetRecommendations_ColdUserAlwaysGetsColdStart(t *testing.T) {
	userID := uuid.New()
	courseA := uuid.New()
	courseB := uuid.New()

	coldStart := &stubStrategy{reason: ReasonColdStart, candidates: []ScoredCandidate{
		{CourseID: courseA, Score: 1.0, Reason: ReasonColdStart},
		{CourseID: courseB, Score: 0.5, Reason: ReasonColdStart},
	}}
	trending := &stubStrategy{reason: ReasonTrending, candidates: []ScoredCandidate{
		{CourseID: courseB, Score: 0.9, Reason: ReasonTrending},
	}}

	service := newTestRecommendationService(t,
		&stubInteractionRepo{count: 0},
		&stubCourseRepo{courses: courseCatalog(courseA, courseB)},
		&stubCacheRepo{},
		map[Reason]RecommendationStrategy{
			ReasonColdStart: coldStart,
			ReasonTrending:  trending,
		},
	)

	response, err := service.GetRecommendations(
		context.Background(), userID, RequestTrending, 10, false,
	)
	require.NoError(t, err)
	require.Len(t, response.Recommendations, 2)
	assert.False(t, response.Cached)

	for _, item := range response.Recommendations {
		assert.Equal(t, ReasonColdStart, item.Reason)
	}
	assert.Equal(t, int32(1), coldStart.calls.Load())
	assert.Equal(t, int32(0), trending.calls.Load())
}

func TestGetRecommendations_FailingStrategiesDegradeToEmpty(t *testing.T) {
	userID := uuid.New()
	courseA := uuid.New()
	courseB := uuid.New()

	content := &stubStrategy{reason: ReasonContent, candidates: []ScoredCandidate{
		{CourseID: courseA, Score: 0.9, Reason: ReasonContent},
	}}
	personalized := &stubStrategy{reason: ReasonPersonalized, candidates: []ScoredCandidate{
		{CourseID: courseA, Score: 0.8, Reason: ReasonPersonalized},
		{CourseID: courseB, Score: 0.6, Reason: ReasonPersonalized},
	}}
	collaborative := &stubStrategy{reason: ReasonCollaborative, err: errors.New("similarity join failed")}
	trending := &stubStrategy{reason: ReasonTrending, block: true}

	service := newTestRecommendationService(t,
		&stubInteractionRepo{count: 12},
		&stubCourseRepo{courses: courseCatalog(courseA, courseB)},
		&stubCacheRepo{},
		map[Reason]RecommendationStrategy{
			ReasonContent:       content,
			ReasonPersonalized:  personalized,
			ReasonCollaborative: collaborative,
			ReasonTrending:      trending,
		},
	)

	response, err := service.GetRecommendations(
		context.Background(), userID, RequestAll, 10, false,
	)
	require.NoError(t, err)
	require.Len(t, response.Recommendations, 2)

	first := response.Recommendations[0]
	assert.Equal(t, courseA.String(), first.CourseID)
	assert.Equal(t, ReasonHybrid, first.Reason)
	assert.InDelta(t, 0.9, first.Score, 1e-9)

	second := response.Recommendations[1]
	assert.Equal(t, courseB.String(), second.CourseID)
	assert.Equal(t, ReasonPersonalized, second.Reason)

	assert.Equal(t, int32(1), collaborative.calls.Load())
	assert.Equal(t, int32(1), trending.calls.Load())
}

func TestGetRecommendations_CacheHitAndInvalidation(t *testing.T) {
	userID := uuid.New()
	courseA := uuid.New()
	now := time.Now()

	cache := &stubCacheRepo{entries: []*RecommendationCacheEntry{{
		UserID:     userID,
		CourseID:   courseA,
		Reason:     ReasonTrending,
		Score:      0.8,
		ComputedAt: now,
		ExpiresAt:  now.Add(time.Hour),
		Course:     Course{BaseUUIDModel: BaseUUIDModel{ID: courseA}, Title: "Machine Learning"},
	}}}

	trending := &stubStrategy{reason: ReasonTrending, candidates: []ScoredCandidate{
		{CourseID: courseA, Score: 0.7, Reason: ReasonTrending},
	}}

	service := newTestRecommendationService(t,
		&stubInteractionRepo{count: 4},
		&stubCourseRepo{courses: courseCatalog(courseA)},
		cache,
		map[Reason]RecommendationStrategy{ReasonTrending: trending},
	)

	cached, err := service.GetRecommendations(context.Background(), userID, RequestAll, 10, true)
	require.NoError(t, err)
	assert.True(t, cached.Cached)
	require.Len(t, cached.Recommendations, 1)
	assert.Equal(t, "Machine Learning", cached.Recommendations[0].Course.Title)
	assert.Equal(t, int32(0), trending.calls.Load())

	require.NoError(t, service.InvalidateUser(context.Background(), userID))

	fresh, err := service.GetRecommendations(context.Background(), userID, RequestAll, 10, true)
	require.NoError(t, err)
	assert.False(t, fresh.Cached)
	require.Len(t, fresh.Recommendations, 1)
	assert.Equal(t, int32(1), trending.calls.Load())
}

func TestGetRecommendations_CourseLookupFailureStillReturnsRanking(t *testing.T) {
	userID := uuid.New()
	courseA := uuid.New()

	trending := &stubStrategy{reason: ReasonTrending, candidates: []ScoredCandidate{
		{CourseID: courseA, Score: 0.7, Reason: ReasonTrending},
	}}

	service := newTestRecommendationService(t,
		&stubInteractionRepo{count: 4},
		&stubCourseRepo{err: errors.New("catalog unavailable")},
		&stubCacheRepo{},
		map[Reason]RecommendationStrategy{ReasonTrending: trending},
	)

	response, err := service.GetRecommendations(
		context.Background(), userID, RequestTrending, 10, false,
	)
	require.NoError(t, err)
	require.Len(t, response.Recommendations, 1)

	item := response.Recommendations[0]
	assert.Equal(t, courseA.String(), item.CourseID)
	assert.Equal(t, ReasonTrending, item.Reason)
	assert.InDelta(t, 0.7, item.Score, 1e-9)
	assert.Equal(t, CourseSummary{}, item.Course)
}

func TestGetRecommendations_EnqueuesPersistBatch(t *testing.T) {
	userID := uuid.New()
	courseA := uuid.New()

	trending := &stubStrategy{reason: ReasonTrending, candidates: []ScoredCandidate{
		{CourseID: courseA, Score: 0.7, Reason: ReasonTrending},
	}}

	service := newTestRecommendationService(t,
		&stubInteractionRepo{count: 4},
		&stubCourseRepo{courses: courseCatalog(courseA)},
		&stubCacheRepo{},
		map[Reason]RecommendationStrategy{ReasonTrending: trending},
	)

	_, err := service.GetRecommendations(context.Background(), userID, RequestTrending, 10, false)
	require.NoError(t, err)

	select {
	case batch := <-service.persistCh:
		assert.Equal(t, userID, batch.userID)
		require.Len(t, batch.entries, 1)
		entry := batch.entries[0]
		assert.Equal(t, userID, entry.UserID)
		assert.Equal(t, courseA, entry.CourseID)
		assert.Equal(t, ReasonTrending, entry.Reason)
		assert.Equal(t, repositories.RECOMMENDATION_CACHE_TTL, entry.ExpiresAt.Sub(entry.ComputedAt))
	default:
		t.Fatal("expected a persist batch to be enqueued")
	}
}

func TestPersistAsync_DropsWhenQueueFull(t *testing.T) {
	service := newTestRecommendationService(t,
		&stubInteractionRepo{},
		&stubCourseRepo{},
		&stubCacheRepo{},
		nil,
	)

	for range persistQueueSize {
		service.persistCh <- persistBatch{}
	}

	done := make(chan struct{})
	go func() {
		service.persistAsync(uuid.New(), []ScoredCandidate{
			{CourseID: uuid.New(), Score: 1.0, Reason: ReasonTrending},
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("persistAsync blocked on a full queue")
	}
	assert.Len(t, service.persistCh, persistQueueSize)
}
