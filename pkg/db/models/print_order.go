package models

import (
	"time"

	"github.com/campusprint/campusprint-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrintOrder represents one print job submitted by a customer to a merchant.
// updated_at is refreshed by a BEFORE UPDATE trigger on every mutation,
// regardless of what the writer supplied.
type PrintOrder struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	MerchantID    uuid.UUID         `gorm:"column:merchant_id;type:uuid;not null"`
	FileName      string            `gorm:"column:file_name;not null"`
	FileURL       string            `gorm:"column:file_url;not null"`
	FileSize      *int64            `gorm:"column:file_size"`
	Pages         int               `gorm:"column:pages;not null;default:1"`
	Copies        int               `gorm:"column:copies;not null;default:1"`
	Notes         *string           `gorm:"column:notes"`
	Status        enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	EstimatedCost *decimal.Decimal  `gorm:"column:estimated_cost;type:numeric(10,2)"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (PrintOrder) TableName() string {
	return "print_orders"
}
