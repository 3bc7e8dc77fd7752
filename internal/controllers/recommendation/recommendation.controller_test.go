package recommendationController

import (
	"context"
	"testing"

	. "lectern/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRecommendationController_Get_Validation(t *testing.T) {
	controller := &RecommendationController{}
	user := &User{}
	user.ID = uuid.New()

	t.Run("unknown request type", func(t *testing.T) {
		_, err := controller.Get(context.Background(), user, GetRecommendationsRequest{
			Type: "popular",
		})

		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("cold start is not directly requestable", func(t *testing.T) {
		_, err := controller.Get(context.Background(), user, GetRecommendationsRequest{
			Type: "cold_start",
		})

		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}
