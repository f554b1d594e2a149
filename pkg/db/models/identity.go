package models

import (
	"time"

	"github.com/campusprint/campusprint-backend/pkg/types"
	"github.com/google/uuid"
)

// Identity is the authentication record. A row-level trigger provisions the
// matching Profile inside the same transaction, so an identity never exists
// without one.
type Identity struct {
	ID           uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string        `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string        `gorm:"column:password_hash;not null"`
	RawMeta      types.JSONMap `gorm:"column:raw_meta;type:jsonb;serializer:json"`
	LastLoginAt  *time.Time    `gorm:"column:last_login_at"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime"`
}

func (Identity) TableName() string {
	return "identities"
}
