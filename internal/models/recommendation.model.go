package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reason identifies the strategy that produced a recommendation. It is a
// closed set so the merger can match on it exhaustively.
type Reason string

const (
	ReasonColdStart     Reason = "COLD_START"
	ReasonCollaborative Reason = "COLLABORATIVE"
	ReasonContent       Reason = "CONTENT"
	ReasonTrending      Reason = "TRENDING"
	ReasonPersonalized  Reason = "PERSONALIZED"
	ReasonHybrid        Reason = "HYBRID"
)

func ParseReason(raw string) (Reason, error) {
	switch Reason(strings.ToUpper(strings.TrimSpace(raw))) {
	case ReasonColdStart:
		return ReasonColdStart, nil
	case ReasonCollaborative:
		return ReasonCollaborative, nil
	case ReasonContent:
		return ReasonContent, nil
	case ReasonTrending:
		return ReasonTrending, nil
	case ReasonPersonalized:
		return ReasonPersonalized, nil
	case ReasonHybrid:
		return ReasonHybrid, nil
	default:
		return "", fmt.Errorf("unknown reason: %q", raw)
	}
}

const (
	MaxRecommendationLimit     = 50
	DefaultRecommendationLimit = 20
)

// RequestKind is the recommendation request type a caller may ask for.
// "all" fans out to every strategy and merges; the single-strategy kinds
// bypass the merger.
type RequestKind string

const (
	RequestAll           RequestKind = "all"
	RequestCollaborative RequestKind = "collaborative"
	RequestContent       RequestKind = "content"
	RequestTrending      RequestKind = "trending"
	RequestPersonalized  RequestKind = "personalized"
)

func ParseRequestKind(raw string) (RequestKind, error) {
	switch RequestKind(strings.ToLower(strings.TrimSpace(raw))) {
	case RequestAll, "":
		return RequestAll, nil
	case RequestCollaborative:
		return RequestCollaborative, nil
	case RequestContent:
		return RequestContent, nil
	case RequestTrending:
		return RequestTrending, nil
	case RequestPersonalized:
		return RequestPersonalized, nil
	default:
		return "", fmt.Errorf("unknown recommendation type: %q", raw)
	}
}

// Reason maps a single-strategy request kind to its reason tag. RequestAll
// has no single reason and returns HYBRID's constituents via the merger
// instead.
func (k RequestKind) Reason() (Reason, bool) {
	switch k {
	case RequestCollaborative:
		return ReasonCollaborative, true
	case RequestContent:
		return ReasonContent, true
	case RequestTrending:
		return ReasonTrending, true
	case RequestPersonalized:
		return ReasonPersonalized, true
	default:
		return "", false
	}
}

// ScoredCandidate is the transient unit a strategy hands to the merger.
// It is never persisted directly.
type ScoredCandidate struct {
	CourseID uuid.UUID `json:"courseId"`
	Score    float64   `json:"score"`
	Reason   Reason    `json:"reason"`
}

// RecommendationCacheEntry is a derived, disposable projection of one
// computed suggestion. Uniqueness on (user, course, reason) backs the
// idempotent bulk insert; reads always filter on expires_at.
type RecommendationCacheEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuidv7()"                        json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_course_reason"        json:"userId"`
	CourseID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_course_reason"        json:"courseId"`
	Course     Course    `gorm:"foreignKey:CourseID"                                          json:"-"`
	Reason     Reason    `gorm:"type:varchar(16);not null;uniqueIndex:idx_user_course_reason" json:"reason"`
	Score      float64   `gorm:"type:float;not null"                                          json:"score"`
	ComputedAt time.Time `gorm:"type:timestamp;not null"                                      json:"computedAt"`
	ExpiresAt  time.Time `gorm:"type:timestamp;not null;index"                                json:"expiresAt"`
}

// RecommendationItem joins a scored candidate with its catalog summary.
type RecommendationItem struct {
	CourseID string        `json:"courseId"`
	Score    float64       `json:"score"`
	Reason   Reason        `json:"reason"`
	Course   CourseSummary `json:"course"`
}

type RecommendationResponse struct {
	Recommendations []RecommendationItem `json:"recommendations"`
	Cached          bool                 `json:"cached"`
}
