package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access role of an authenticated user
type Role string

const (
	RoleAdmin Role = "admin"
	RoleDJ    Role = "dj"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleDJ
}

// User maps a verified email identity to an access role. DJ users
// additionally reference their DJ profile.
type User struct {
	ID    uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email string     `json:"email" gorm:"not null;uniqueIndex"`
	Role  Role       `json:"role" gorm:"not null;default:'dj'"`
	DJID  *uuid.UUID `json:"dj_id,omitempty" gorm:"type:uuid;index"`
	Name  string     `json:"name,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate sets a UUID and normalizes the email before creating the record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(u.Email)
	return nil
}

// Validate checks if the user data is valid
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !u.Role.IsValid() {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	if u.Role == RoleDJ && u.DJID == nil {
		return fmt.Errorf("dj users must reference a dj profile")
	}
	return nil
}
