package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Merchant represents a print shop operated by exactly one profile. The
// owner key is immutable after creation; shops are deactivated, not deleted.
type Merchant struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	ShopName     string          `gorm:"column:shop_name;not null"`
	Description  *string         `gorm:"column:description"`
	Location     *string         `gorm:"column:location"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	PricePerPage decimal.Decimal `gorm:"column:price_per_page;type:numeric(8,2);not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Merchant) TableName() string {
	return "merchants"
}
