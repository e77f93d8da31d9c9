package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin         = "admin"
	RolePCB           = "pcb"
	RoleIndustryOwner = "industry_owner"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"         json:"id"`
	Name         string     `gorm:"size:100;not null"            json:"name"`
	Email        string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null"            json:"-"`
	Role         string     `gorm:"size:20;not null"             json:"role"`
	Verification bool       `gorm:"not null"                     json:"verification"`
	IndustryID   *uuid.UUID `gorm:"type:uuid"                    json:"industry_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RolePCB, RoleIndustryOwner:
		return true
	}
	return false
}

// LandingRoute returns the route a user is sent to after login. Unverified
// accounts go back to the login page.
func (u *User) LandingRoute() string {
	if !u.Verification {
		return "/login"
	}
	switch u.Role {
	case RoleIndustryOwner:
		return "/industry-dashboard"
	case RoleAdmin, RolePCB:
		return "/dashboard"
	}
	return "/login"
}
