package recommendationController

import (
	"context"
	"errors"
	"fmt"
	. "lectern/internal/models"
	"lectern/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

var ErrInvalidArgument = errors.New("invalid argument")

type GetRecommendationsRequest struct {
	Type     string `json:"type"`
	Limit    int    `json:"limit"`
	UseCache bool   `json:"useCache"`
}

type RecommendationControllerInterface interface {
	Get(
		ctx context.Context,
		user *User,
		req GetRecommendationsRequest,
	) (*RecommendationResponse, error)
}

type RecommendationController struct {
	recommendationService *services.RecommendationService
}

func New(services *services.Service) RecommendationControllerInterface {
	return &RecommendationController{
		recommendationService: services.Recommendation,
	}
}

func (c *RecommendationController) Get(
	ctx context.Context,
	user *User,
	req GetRecommendationsRequest,
) (*RecommendationResponse, error) {
	log := logger.New("recommendationController").TraceFromContext(ctx).Function("Get")

	kind, err := ParseRequestKind(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	response, err := c.recommendationService.GetRecommendations(
		ctx,
		user.ID,
		kind,
		req.Limit,
		req.UseCache,
	)
	if err != nil {
		return nil, log.Err("failed to get recommendations", err, "userID", user.ID, "kind", kind)
	}

	return response, nil
}
