package services

import (
	"context"
	"lectern/config"
	"lectern/internal/database"
	"lectern/internal/events"
	. "lectern/internal/models"
	"lectern/internal/repositories"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	persistQueueSize   = 64
	persistWorkerCount = 2
	persistTimeout     = 10 * time.Second
)

type persistBatch struct {
	userID  uuid.UUID
	entries []*RecommendationCacheEntry
}

// RecommendationService orchestrates a recommendation request: cold-start
// check, cache check, parallel strategy fan-out, merge, and asynchronous
// cache persistence.
type RecommendationService struct {
	db              database.DB
	interactionRepo repositories.InteractionRepository
	courseRepo      repositories.CourseRepository
	cacheRepo       repositories.RecommendationCacheRepository
	strategies      map[Reason]RecommendationStrategy
	strategyTimeout time.Duration
	eventBus        *events.EventBus
	persistCh       chan persistBatch
	workerWG        sync.WaitGroup
	closeOnce       sync.Once
	log             logger.Logger
}

func NewRecommendationService(
	repos repositories.Repository,
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
) *RecommendationService {
	strategies := map[Reason]RecommendationStrategy{
		ReasonColdStart:     NewColdStartStrategy(repos),
		ReasonCollaborative: NewCollaborativeStrategy(repos),
		ReasonContent:       NewContentStrategy(repos),
		ReasonTrending:      NewTrendingStrategy(repos),
		ReasonPersonalized:  NewPersonalizedStrategy(repos),
	}

	service := &RecommendationService{
		db:              db,
		interactionRepo: repos.Interaction,
		courseRepo:      repos.Course,
		cacheRepo:       repos.RecommendationCache,
		strategies:      strategies,
		strategyTimeout: time.Duration(config.StrategyTimeoutMS) * time.Millisecond,
		eventBus:        eventBus,
		persistCh:       make(chan persistBatch, persistQueueSize),
		log:             logger.New("recommendationService"),
	}

	for range persistWorkerCount {
		service.workerWG.Add(1)
		go service.persistWorker()
	}

	return service
}

func (s *RecommendationService) GetRecommendations(
	ctx context.Context,
	userID uuid.UUID,
	kind RequestKind,
	limit int,
	useCache bool,
) (*RecommendationResponse, error) {
	log := s.log.TraceFromContext(ctx).Function("GetRecommendations")

	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	if limit > MaxRecommendationLimit {
		limit = MaxRecommendationLimit
	}

	tx := s.db.SQLWithContext(ctx)

	cold := false
	count, err := s.interactionRepo.CountForUser(ctx, tx, userID)
	if err != nil {
		log.Warn("failed to count interactions, assuming warm user", "userID", userID, "error", err)
	} else {
		cold = count == 0
	}

	if useCache {
		var reasonFilter *Reason
		if !cold {
			if reason, ok := kind.Reason(); ok {
				reasonFilter = &reason
			}
		}

		entries, err := s.cacheRepo.GetForUser(ctx, tx, userID, reasonFilter, limit)
		if err != nil {
			log.Warn("cache read failed, recomputing", "userID", userID, "error", err)
		} else if len(entries) > 0 {
			return responseFromEntries(entries), nil
		}
	}

	var candidates []ScoredCandidate
	switch {
	case cold:
		// A user with no history always gets the cold-start ranking, no
		// matter what was requested.
		candidates = s.runStrategy(ctx, s.strategies[ReasonColdStart], userID, limit)
	case kind == RequestAll:
		lists := s.runAllStrategies(ctx, userID, limit)
		candidates = MergeCandidates(lists, limit)
	default:
		reason, ok := kind.Reason()
		if !ok {
			return nil, log.Error("unsupported request kind", "kind", kind)
		}
		candidates = s.runStrategy(ctx, s.strategies[reason], userID, limit)
	}

	response := s.responseFromCandidates(ctx, tx, candidates)

	s.persistAsync(userID, candidates)

	return response, nil
}

// runStrategy executes one strategy under its own timeout. A slow or
// failing strategy degrades to an empty candidate list.
func (s *RecommendationService) runStrategy(
	ctx context.Context,
	strategy RecommendationStrategy,
	userID uuid.UUID,
	limit int,
) []ScoredCandidate {
	log := s.log.Function("runStrategy")

	strategyCtx, cancel := context.WithTimeout(ctx, s.strategyTimeout)
	defer cancel()

	tx := s.db.SQLWithContext(strategyCtx)

	candidates, err := strategy.Compute(strategyCtx, tx, userID, limit)
	if err != nil {
		log.Warn(
			"strategy failed, contributing empty result",
			"reason", strategy.Reason(),
			"userID", userID,
			"error", err,
		)
		return nil
	}

	if strategyCtx.Err() != nil {
		log.Warn(
			"strategy timed out, contributing empty result",
			"reason", strategy.Reason(),
			"userID", userID,
		)
		return nil
	}

	return candidates
}

// runAllStrategies fans out to every strategy concurrently and waits for
// all of them to finish or time out.
func (s *RecommendationService) runAllStrategies(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) map[Reason][]ScoredCandidate {
	var mu sync.Mutex
	var wg sync.WaitGroup

	lists := make(map[Reason][]ScoredCandidate, len(s.strategies))

	for reason, strategy := range s.strategies {
		wg.Add(1)
		go func(reason Reason, strategy RecommendationStrategy) {
			defer wg.Done()

			candidates := s.runStrategy(ctx, strategy, userID, limit)
			if len(candidates) == 0 {
				return
			}

			mu.Lock()
			lists[reason] = candidates
			mu.Unlock()
		}(reason, strategy)
	}

	wg.Wait()

	return lists
}

// persistAsync enqueues computed candidates for cache persistence without
// blocking the response path. A full queue drops the batch; the next
// request simply misses again.
func (s *RecommendationService) persistAsync(userID uuid.UUID, candidates []ScoredCandidate) {
	if len(candidates) == 0 {
		return
	}

	now := time.Now()
	entries := make([]*RecommendationCacheEntry, 0, len(candidates))
	for _, candidate := range candidates {
		entries = append(entries, &RecommendationCacheEntry{
			UserID:     userID,
			CourseID:   candidate.CourseID,
			Reason:     candidate.Reason,
			Score:      candidate.Score,
			ComputedAt: now,
			ExpiresAt:  now.Add(repositories.RECOMMENDATION_CACHE_TTL),
		})
	}

	select {
	case s.persistCh <- persistBatch{userID: userID, entries: entries}:
	default:
		s.log.Warn("persist queue full, dropping batch", "userID", userID, "count", len(entries))
	}
}

func (s *RecommendationService) persistWorker() {
	defer s.workerWG.Done()

	log := s.log.Function("persistWorker")

	for batch := range s.persistCh {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)

		tx := s.db.SQLWithContext(ctx)
		if err := s.cacheRepo.Put(ctx, tx, batch.entries); err != nil {
			log.Warn("failed to persist cache entries", "userID", batch.userID, "error", err)
			cancel()
			continue
		}

		cancel()

		userID := batch.userID
		s.publishEvent(events.Event{
			Type:   events.RECOMMENDATIONS_UPDATED,
			UserID: &userID,
			Data:   map[string]any{"count": len(batch.entries)},
		})
	}
}

// publishEvent tolerates a missing bus so the service stays usable in
// isolation. Delivery is best effort either way.
func (s *RecommendationService) publishEvent(event events.Event) {
	if s.eventBus == nil {
		return
	}

	if err := s.eventBus.Publish(events.RECOMMENDATIONS_CHANNEL, event); err != nil {
		s.log.Warn("failed to publish recommendation event", "type", event.Type, "error", err)
	}
}

// InvalidateUser removes every cached entry for the user. Used as the
// secondary effect of recording a significant interaction.
func (s *RecommendationService) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	tx := s.db.SQLWithContext(ctx)
	if err := s.cacheRepo.InvalidateUser(ctx, tx, userID); err != nil {
		return err
	}

	s.publishEvent(events.Event{
		Type:   events.CACHE_INVALIDATED,
		UserID: &userID,
	})

	return nil
}

func (s *RecommendationService) Close() error {
	s.closeOnce.Do(func() {
		close(s.persistCh)
	})
	s.workerWG.Wait()
	return nil
}

func (s *RecommendationService) responseFromCandidates(
	ctx context.Context,
	tx *gorm.DB,
	candidates []ScoredCandidate,
) *RecommendationResponse {
	log := s.log.Function("responseFromCandidates")

	courseIDs := make([]uuid.UUID, 0, len(candidates))
	for _, candidate := range candidates {
		courseIDs = append(courseIDs, candidate.CourseID)
	}

	courses, err := s.courseRepo.GetByIDs(ctx, tx, courseIDs)
	if err != nil {
		// The summaries are a convenience join; the ranking itself is
		// still good, so serve it without them.
		log.Warn("failed to load course summaries, returning bare items", "error", err)

		items := make([]RecommendationItem, 0, len(candidates))
		for _, candidate := range candidates {
			items = append(items, RecommendationItem{
				CourseID: candidate.CourseID.String(),
				Score:    candidate.Score,
				Reason:   candidate.Reason,
			})
		}

		return &RecommendationResponse{Recommendations: items, Cached: false}
	}

	courseByID := make(map[uuid.UUID]*Course, len(courses))
	for _, course := range courses {
		courseByID[course.ID] = course
	}

	items := make([]RecommendationItem, 0, len(candidates))
	for _, candidate := range candidates {
		course, known := courseByID[candidate.CourseID]
		if !known {
			// Course left the catalog between scoring and assembly.
			continue
		}
		items = append(items, RecommendationItem{
			CourseID: candidate.CourseID.String(),
			Score:    candidate.Score,
			Reason:   candidate.Reason,
			Course:   course.ToSummary(),
		})
	}

	return &RecommendationResponse{Recommendations: items, Cached: false}
}

func responseFromEntries(entries []*RecommendationCacheEntry) *RecommendationResponse {
	items := make([]RecommendationItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, RecommendationItem{
			CourseID: entry.CourseID.String(),
			Score:    entry.Score,
			Reason:   entry.Reason,
			Course:   entry.Course.ToSummary(),
		})
	}

	return &RecommendationResponse{Recommendations: items, Cached: true}
}
