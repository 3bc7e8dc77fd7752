package models

import (
	"strings"

	"gorm.io/gorm"
)

type User struct {
	BaseUUIDModel
	FirstName   string  `gorm:"type:text"               json:"firstName"`
	LastName    string  `gorm:"type:text"               json:"lastName"`
	DisplayName string  `gorm:"type:text"               json:"displayName"`
	Email       *string `gorm:"type:text;uniqueIndex"   json:"email"`
	Department  string  `gorm:"type:text;index"         json:"department"`
	IsActive    bool    `gorm:"type:bool;default:true"  json:"isActive"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.DisplayName == "" {
		u.DisplayName = strings.TrimSpace(u.FirstName + " " + u.LastName)
	}
	if u.Department == "" && u.Email != nil {
		u.Department = DepartmentFromEmail(*u.Email)
	}
	return nil
}

// DepartmentFromEmail derives an affiliation from the subdomain of a
// university address, e.g. "jane@cs.state.edu" -> "cs". Addresses without
// a department subdomain yield an empty string.
func DepartmentFromEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}

	parts := strings.Split(email[at+1:], ".")
	if len(parts) < 3 {
		return ""
	}

	return strings.ToLower(parts[0])
}

// UserProfile is the public projection returned alongside recommendations.
type UserProfile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Email       *string `json:"email,omitempty"`
	Department  string  `json:"department"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:          u.ID.String(),
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Department:  u.Department,
	}
}
