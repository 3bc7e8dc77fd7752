package handlers

import (
	"errors"
	"lectern/internal/app"
	recommendationController "lectern/internal/controllers/recommendation"
	"lectern/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type RecommendationHandler struct {
	Handler
	recommendationController recommendationController.RecommendationControllerInterface
}

func NewRecommendationHandler(app app.App, router fiber.Router) *RecommendationHandler {
	log := logger.New("handlers").File("recommendation_handler")
	return &RecommendationHandler{
		recommendationController: app.Controllers.Recommendation,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RecommendationHandler) Register() {
	recommendations := h.router.Group("/recommendations", h.middleware.RequireAuth())
	recommendations.Get("/", h.getRecommendations)
}

func (h *RecommendationHandler) getRecommendations(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	req := recommendationController.GetRecommendationsRequest{
		Type:     c.Query("type"),
		Limit:    c.QueryInt("limit"),
		UseCache: c.QueryBool("useCache", true),
	}

	response, err := h.recommendationController.Get(c.Context(), user, req)
	if err != nil {
		if errors.Is(err, recommendationController.ErrInvalidArgument) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get recommendations",
		})
	}

	return c.JSON(response)
}
