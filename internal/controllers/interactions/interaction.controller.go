package interactionController

import (
	"context"
	"errors"
	"fmt"
	"lectern/internal/database"
	"lectern/internal/events"
	. "lectern/internal/models"
	"lectern/internal/repositories"
	"lectern/internal/services"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("course not found")
)

type RecordInteractionRequest struct {
	CourseID string   `json:"courseId"`
	Type     string   `json:"type"`
	Weight   *float64 `json:"weight,omitempty"`
}

type RecordInteractionResponse struct {
	InteractionID string          `json:"interactionId"`
	Type          InteractionType `json:"type"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type InteractionControllerInterface interface {
	Record(
		ctx context.Context,
		user *User,
		req RecordInteractionRequest,
	) (*RecordInteractionResponse, error)
}

type InteractionController struct {
	interactionRepo       repositories.InteractionRepository
	courseRepo            repositories.CourseRepository
	recommendationService *services.RecommendationService
	transactionService    *services.TransactionService
	eventBus              *events.EventBus
	db                    database.DB
}

func New(
	repos repositories.Repository,
	services *services.Service,
	eventBus *events.EventBus,
	db database.DB,
) InteractionControllerInterface {
	return &InteractionController{
		interactionRepo:       repos.Interaction,
		courseRepo:            repos.Course,
		recommendationService: services.Recommendation,
		transactionService:    services.Transaction,
		eventBus:              eventBus,
		db:                    db,
	}
}

// Record validates and appends one interaction. A significant interaction
// (review, favorite) additionally invalidates the user's cached
// recommendations after the append commits; invalidation failures are
// logged, never surfaced.
func (c *InteractionController) Record(
	ctx context.Context,
	user *User,
	req RecordInteractionRequest,
) (*RecordInteractionResponse, error) {
	log := logger.New("interactionController").TraceFromContext(ctx).Function("Record")

	interactionType, err := ParseInteractionType(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid course id %q", ErrInvalidArgument, req.CourseID)
	}

	weight := interactionType.DefaultWeight()
	if req.Weight != nil {
		if *req.Weight < 0 {
			return nil, fmt.Errorf("%w: weight must be >= 0", ErrInvalidArgument)
		}
		weight = *req.Weight
	}

	if _, err := c.courseRepo.GetByID(ctx, c.db.SQLWithContext(ctx), courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to verify course", err, "courseID", courseID)
	}

	interaction := &Interaction{
		UserID:     user.ID,
		CourseID:   courseID,
		Type:       interactionType,
		Weight:     weight,
		OccurredAt: time.Now(),
	}

	err = c.transactionService.Execute(ctx, func(txCtx context.Context, tx *gorm.DB) error {
		return c.interactionRepo.Create(txCtx, tx, interaction)
	})
	if err != nil {
		return nil, err
	}

	if interactionType.IsSignificant() {
		// Outside the append transaction but completed before returning,
		// so a recommendation request issued after this call never reads
		// entries computed against the pre-interaction history.
		if err := c.recommendationService.InvalidateUser(ctx, user.ID); err != nil {
			log.Warn("failed to invalidate recommendation cache", "userID", user.ID, "error", err)
		}
	}

	userID := user.ID
	err = c.eventBus.Publish(events.INTERACTIONS_CHANNEL, events.Event{
		Type:   events.INTERACTION_RECORDED,
		UserID: &userID,
		Data: map[string]any{
			"interactionId": interaction.ID.String(),
			"courseId":      courseID.String(),
			"type":          string(interactionType),
		},
	})
	if err != nil {
		log.Warn("failed to publish interaction event", "userID", user.ID, "error", err)
	}

	log.Info(
		"recorded interaction",
		"interactionID", interaction.ID,
		"userID", user.ID,
		"courseID", courseID,
		"type", interactionType,
	)

	return &RecordInteractionResponse{
		InteractionID: interaction.ID.String(),
		Type:          interaction.Type,
		CreatedAt:     interaction.CreatedAt,
	}, nil
}
