package models

import (
	"time"

	"github.com/campusprint/campusprint-backend/pkg/enums"
	"github.com/google/uuid"
)

// Profile represents one authenticated person. Its primary key is shared
// with the identity row and is never reassigned.
type Profile struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Email     string            `gorm:"type:text;not null"`
	FullName  string            `gorm:"column:full_name;not null;default:''"`
	Role      enums.ProfileRole `gorm:"column:role;type:profile_role;not null;default:'user'"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
