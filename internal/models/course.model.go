package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Course struct {
	BaseUUIDModel
	Code        string                      `gorm:"type:text;uniqueIndex;not null" json:"code"`
	Title       string                      `gorm:"type:text;not null"             json:"title"`
	Department  string                      `gorm:"type:text;index;not null"       json:"department"`
	Instructor  string                      `gorm:"type:text;index"                json:"instructor"`
	TimeSlot    string                      `gorm:"type:text"                      json:"timeSlot"`
	Credits     int                         `gorm:"type:int;default:3"             json:"credits"`
	Tags        datatypes.JSONSlice[string] `gorm:"type:jsonb"                     json:"tags"`
	AvgRating   decimal.Decimal             `gorm:"type:decimal(3,2);default:0"    json:"avgRating"`
	ReviewCount int                         `gorm:"type:int;default:0"             json:"reviewCount"`
	IsActive    bool                        `gorm:"type:bool;default:true"         json:"isActive"`
}

// CourseSummary is the catalog projection embedded in recommendation responses.
type CourseSummary struct {
	ID         string   `json:"id"`
	Code       string   `json:"code"`
	Title      string   `json:"title"`
	Department string   `json:"department"`
	Instructor string   `json:"instructor"`
	Credits    int      `json:"credits"`
	Tags       []string `json:"tags"`
	AvgRating  string   `json:"avgRating"`
}

func (c *Course) ToSummary() CourseSummary {
	return CourseSummary{
		ID:         c.ID.String(),
		Code:       c.Code,
		Title:      c.Title,
		Department: c.Department,
		Instructor: c.Instructor,
		Credits:    c.Credits,
		Tags:       c.Tags,
		AvgRating:  c.AvgRating.StringFixed(2),
	}
}
