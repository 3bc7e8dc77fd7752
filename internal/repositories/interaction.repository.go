package repositories

import (
	"context"
	. "lectern/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InteractionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, interaction *Interaction) error
	CountForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	GetUserInteractions(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		limit int,
	) ([]*Interaction, error)
	GetUserCourseIDs(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		types []InteractionType,
	) ([]uuid.UUID, error)
	GetByCourseIDs(
		ctx context.Context,
		tx *gorm.DB,
		courseIDs []uuid.UUID,
		excludeUserID uuid.UUID,
	) ([]*Interaction, error)
	GetByUserIDs(
		ctx context.Context,
		tx *gorm.DB,
		userIDs []uuid.UUID,
	) ([]*Interaction, error)
	GetSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*Interaction, error)
}

type interactionRepository struct {
	log logger.Logger
}

func NewInteractionRepository() InteractionRepository {
	return &interactionRepository{
		log: logger.New("interactionRepository"),
	}
}

// Create appends one immutable row to the interaction log.
func (r *interactionRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	interaction *Interaction,
) error {
	log := r.log.Function("Create")

	if err := gorm.G[Interaction](tx).Create(ctx, interaction); err != nil {
		return log.Err(
			"failed to create interaction",
			err,
			"userID", interaction.UserID,
			"courseID", interaction.CourseID,
			"type", interaction.Type,
		)
	}

	return nil
}

func (r *interactionRepository) CountForUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (int64, error) {
	log := r.log.Function("CountForUser")

	count, err := gorm.G[Interaction](tx).
		Where("user_id = ?", userID).
		Count(ctx, "id")
	if err != nil {
		return 0, log.Err("failed to count interactions", err, "userID", userID)
	}

	return count, nil
}

func (r *interactionRepository) GetUserInteractions(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]*Interaction, error) {
	log := r.log.Function("GetUserInteractions")

	interactions, err := gorm.G[*Interaction](tx).
		Where("user_id = ?", userID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get user interactions", err, "userID", userID)
	}

	return interactions, nil
}

// GetUserCourseIDs returns the distinct courses the user has interacted
// with, optionally restricted to the given types.
func (r *interactionRepository) GetUserCourseIDs(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	types []InteractionType,
) ([]uuid.UUID, error) {
	log := r.log.Function("GetUserCourseIDs")

	query := gorm.G[*Interaction](tx).Where("user_id = ?", userID)
	if len(types) > 0 {
		query = query.Where("type IN ?", types)
	}

	interactions, err := query.Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get user course ids", err, "userID", userID)
	}

	seen := make(map[uuid.UUID]struct{}, len(interactions))
	courseIDs := make([]uuid.UUID, 0, len(interactions))
	for _, interaction := range interactions {
		if _, ok := seen[interaction.CourseID]; ok {
			continue
		}
		seen[interaction.CourseID] = struct{}{}
		courseIDs = append(courseIDs, interaction.CourseID)
	}

	return courseIDs, nil
}

func (r *interactionRepository) GetByCourseIDs(
	ctx context.Context,
	tx *gorm.DB,
	courseIDs []uuid.UUID,
	excludeUserID uuid.UUID,
) ([]*Interaction, error) {
	log := r.log.Function("GetByCourseIDs")

	if len(courseIDs) == 0 {
		return nil, nil
	}

	interactions, err := gorm.G[*Interaction](tx).
		Where("course_id IN ?", courseIDs).
		Where("user_id <> ?", excludeUserID).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get interactions by course ids", err)
	}

	return interactions, nil
}

func (r *interactionRepository) GetByUserIDs(
	ctx context.Context,
	tx *gorm.DB,
	userIDs []uuid.UUID,
) ([]*Interaction, error) {
	log := r.log.Function("GetByUserIDs")

	if len(userIDs) == 0 {
		return nil, nil
	}

	interactions, err := gorm.G[*Interaction](tx).
		Where("user_id IN ?", userIDs).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get interactions by user ids", err)
	}

	return interactions, nil
}

func (r *interactionRepository) GetSince(
	ctx context.Context,
	tx *gorm.DB,
	since time.Time,
) ([]*Interaction, error) {
	log := r.log.Function("GetSince")

	interactions, err := gorm.G[*Interaction](tx).
		Where("occurred_at > ?", since).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get interactions since", err, "since", since)
	}

	return interactions, nil
}
