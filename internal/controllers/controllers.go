package controllers

import (
	"lectern/internal/database"
	"lectern/internal/events"
	"lectern/internal/repositories"
	"lectern/internal/services"

	interactionController "lectern/internal/controllers/interactions"
	recommendationController "lectern/internal/controllers/recommendation"
)

type Controllers struct {
	Interaction    interactionController.InteractionControllerInterface
	Recommendation recommendationController.RecommendationControllerInterface
}

func New(
	services *services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	db database.DB,
) Controllers {
	return Controllers{
		Interaction:    interactionController.New(repos, services, eventBus, db),
		Recommendation: recommendationController.New(services),
	}
}
