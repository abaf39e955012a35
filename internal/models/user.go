package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access level attached to a user account
type Role string

const (
	RoleEndUser Role = "END_USER"
	RoleAdvisor Role = "ADVISOR"
	RolePartner Role = "PARTNER"
	RoleAdmin   Role = "ADMIN"
)

// User mirrors the account table owned by user management. Only the
// columns needed for role lookups, language preference and token
// verification are mapped here.
type User struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name        string    `json:"name"`
	Email       string    `json:"email" gorm:"uniqueIndex"`
	Role        Role      `json:"role" gorm:"size:16;not null;default:END_USER;index"`
	Language    string    `json:"language" gorm:"size:8;not null;default:en"`
	FirebaseUID *string   `json:"firebaseUid,omitempty" gorm:"uniqueIndex"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Language string `json:"language"`
	jwt.RegisteredClaims
}

// ClaimsFor builds the identity attached to requests made by u
func ClaimsFor(u *User) *JwtCustomClaims {
	return &JwtCustomClaims{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     u.Role,
		Language: u.Language,
	}
}
