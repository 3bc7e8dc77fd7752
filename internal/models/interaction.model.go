package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type InteractionType string

const (
	InteractionView     InteractionType = "VIEW"
	InteractionReview   InteractionType = "REVIEW"
	InteractionFavorite InteractionType = "FAVORITE"
	InteractionSearch   InteractionType = "SEARCH"
)

// ParseInteractionType normalizes caller input to one of the four known kinds.
func ParseInteractionType(raw string) (InteractionType, error) {
	switch InteractionType(strings.ToUpper(strings.TrimSpace(raw))) {
	case InteractionView:
		return InteractionView, nil
	case InteractionReview:
		return InteractionReview, nil
	case InteractionFavorite:
		return InteractionFavorite, nil
	case InteractionSearch:
		return InteractionSearch, nil
	default:
		return "", fmt.Errorf("unknown interaction type: %q", raw)
	}
}

// DefaultWeight is applied when the caller records an interaction without
// an explicit weight.
func (t InteractionType) DefaultWeight() float64 {
	switch t {
	case InteractionReview:
		return 3.0
	case InteractionFavorite:
		return 2.0
	case InteractionSearch:
		return 0.5
	default:
		return 1.0
	}
}

// IsSignificant reports whether recording this interaction type invalidates
// the user's cached recommendations.
func (t InteractionType) IsSignificant() bool {
	return t == InteractionReview || t == InteractionFavorite
}

// Interaction is one append-only row of the interaction log. Rows are never
// updated or deleted once written.
type Interaction struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuidv7()" json:"id"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index"              json:"userId"`
	User       User            `gorm:"foreignKey:UserID"                     json:"-"`
	CourseID   uuid.UUID       `gorm:"type:uuid;not null;index"              json:"courseId"`
	Course     Course          `gorm:"foreignKey:CourseID"                   json:"-"`
	Type       InteractionType `gorm:"type:varchar(10);not null"             json:"type"`
	Weight     float64         `gorm:"type:float;not null"                   json:"weight"`
	OccurredAt time.Time       `gorm:"type:timestamp;not null;index"         json:"occurredAt"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"                        json:"createdAt"`
}
