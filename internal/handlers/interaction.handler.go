package handlers

import (
	"errors"
	"lectern/internal/app"
	interactionController "lectern/internal/controllers/interactions"
	"lectern/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type InteractionHandler struct {
	Handler
	interactionController interactionController.InteractionControllerInterface
}

func NewInteractionHandler(app app.App, router fiber.Router) *InteractionHandler {
	log := logger.New("handlers").File("interaction_handler")
	return &InteractionHandler{
		interactionController: app.Controllers.Interaction,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *InteractionHandler) Register() {
	interactions := h.router.Group("/interactions", h.middleware.RequireAuth())
	interactions.Post("/", h.recordInteraction)
}

func (h *InteractionHandler) recordInteraction(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req interactionController.RecordInteractionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.interactionController.Record(c.Context(), user, req)
	if err != nil {
		if errors.Is(err, interactionController.ErrInvalidArgument) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if errors.Is(err, interactionController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record interaction",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}
