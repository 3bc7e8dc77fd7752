package services

import (
	"lectern/config"
	"lectern/internal/database"
	"lectern/internal/events"
	"lectern/internal/repositories"
)

type Service struct {
	Transaction    *TransactionService
	Scheduler      *SchedulerService
	Recommendation *RecommendationService
}

func New(
	repos repositories.Repository,
	db database.DB,
	config config.Config,
	eventBus *events.EventBus,
) Service {
	return Service{
		Transaction:    NewTransactionService(db),
		Scheduler:      NewSchedulerService(),
		Recommendation: NewRecommendationService(repos, db, eventBus, config),
	}
}
