package repositories

import (
	"lectern/internal/database"
)

type Repository struct {
	User                UserRepository
	Course              CourseRepository
	Interaction         InteractionRepository
	RecommendationCache RecommendationCacheRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:                NewUserRepository(db.Cache.User),
		Course:              NewCourseRepository(db.Cache.General),
		Interaction:         NewInteractionRepository(),
		RecommendationCache: NewRecommendationCacheRepository(),
	}
}
